package service

import (
	"encoding/json"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/fulldump/apitest"
)

// Save writes a markdown example of an API call into API_EXAMPLES_PATH, if
// set.
func Save(response *apitest.Response, title, description string) {

	examplesPath := os.Getenv("API_EXAMPLES_PATH")
	if examplesPath == "" {
		return
	}

	request := response.Request

	query := request.URL.RawQuery
	if query != "" {
		query = "?" + query
	}

	s := &strings.Builder{}

	fmt.Fprintf(s, "# %s\n%s\n", title, cropTabs(description))

	s.WriteString("Curl example:\n\n```sh\n")
	method := ""
	if request.Method != "GET" {
		method = "-X " + request.Method + " "
	}
	fmt.Fprintf(s, "curl %s\"https://example.com%s%s\"", method, request.URL.Path, query)
	for k, l := range request.Header {
		for _, v := range l {
			fmt.Fprintf(s, " \\\n-H \"%s: %s\"", k, v)
		}
	}
	if body := formatJSON(response.BodyRequestString()); body != "" {
		fmt.Fprintf(s, " \\\n-d '%s'", body)
	}
	s.WriteString("\n```\n\n\n")

	s.WriteString("HTTP request/response example:\n\n```http\n")
	fmt.Fprintf(s, "%s %s%s %s\nHost: example.com\n", request.Method, request.URL.Path, query, request.Proto)
	for k, l := range request.Header {
		for _, v := range l {
			fmt.Fprintf(s, "%s: %s\n", k, v)
		}
	}
	fmt.Fprintf(s, "\n%s\n\n", formatJSON(response.BodyRequestString()))

	fmt.Fprintf(s, "%s %s\n", response.Proto, response.Status)
	headers := make([]string, 0, len(response.Header))
	for k := range response.Header {
		headers = append(headers, k)
	}
	sort.Strings(headers)
	for _, k := range headers {
		if k == "Date" {
			s.WriteString("Date: Mon, 15 Aug 2022 02:08:13 GMT\n")
			continue
		}
		for _, v := range response.Header[k] {
			fmt.Fprintf(s, "%s: %s\n", k, v)
		}
	}
	fmt.Fprintf(s, "\n%s\n```\n\n\n", formatJSON(response.BodyString()))

	filename := strings.ReplaceAll(strings.ToLower(title), " ", "_") + ".md"
	p := path.Join(examplesPath, path.Clean(filename))
	fmt.Println("Saving", p)
	if err := os.WriteFile(p, []byte(s.String()), 0666); err != nil {
		fmt.Println("Saving err:", err)
	}
}

func formatJSON(body string) string {
	var i interface{}
	if err := json.Unmarshal([]byte(body), &i); err != nil {
		return body
	}
	b, err := json.MarshalIndent(i, "", "    ")
	if err != nil {
		return body
	}
	return string(b)
}

// cropTabs removes the indentation shared by all the lines of a raw string
// literal.
func cropTabs(d string) string {
	lines := strings.Split(d, "\n")

	inner := lines
	if len(lines) > 2 {
		inner = lines[1 : len(lines)-1]
	}

	tabs := -1
	for _, line := range inner {
		if strings.TrimSpace(line) == "" {
			continue
		}
		n := len(line) - len(strings.TrimLeft(line, "\t"))
		if tabs < 0 || n < tabs {
			tabs = n
		}
	}
	if tabs <= 0 {
		return d
	}

	prefix := strings.Repeat("\t", tabs)
	for i, line := range lines {
		lines[i] = strings.TrimPrefix(line, prefix)
	}
	return strings.Join(lines, "\n")
}
