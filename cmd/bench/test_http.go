package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync/atomic"
	"time"
)

// TestHTTP sends the same expansion to the API from several workers.
func TestHTTP(c Config) {

	if c.Base == "" {
		start, stop := CreateServer(&c)
		defer stop()
		go start()
		time.Sleep(100 * time.Millisecond)
	}

	payload, err := json.Marshal(JSON{
		"representation": "bitmask",
		"backend":        "swiss",
		"sets":           Generate(c),
	})
	if err != nil {
		panic(err)
	}

	client := &http.Client{
		Transport: &http.Transport{
			MaxConnsPerHost:     1024,
			MaxIdleConnsPerHost: 1024,
			MaxIdleConns:        1024,
		},
	}

	requests := int64(c.Requests)
	failed := int64(0)

	t0 := time.Now()
	Parallel(c.Workers, func() {
		for atomic.AddInt64(&requests, -1) >= 0 {
			resp, err := client.Post(c.Base+"/v1/expand", "application/json", bytes.NewReader(payload))
			if err != nil {
				atomic.AddInt64(&failed, 1)
				continue
			}
			if resp.StatusCode != http.StatusOK {
				atomic.AddInt64(&failed, 1)
				io.Copy(os.Stdout, resp.Body)
			}
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
		}
	})
	took := time.Since(t0)

	fmt.Println("requests:", c.Requests, "failed:", failed)
	fmt.Println("took:", took)
	fmt.Printf("Throughput: %.2f requests/second\n", float64(c.Requests)/took.Seconds())
}
