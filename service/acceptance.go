package service

import (
	"net/http"

	"github.com/fulldump/apitest"
	"github.com/fulldump/biff"
)

type JSON = map[string]interface{}

func Acceptance(a *biff.A, apiRequest func(method, path string) *apitest.Request) {

	a.Alternative("Expand disjoint itemsets", func(a *biff.A) {
		resp := apiRequest("POST", "/expand").
			WithBodyJson(JSON{
				"sets": []JSON{
					{"set": []int{1, 2, 3}},
					{"set": []int{4, 5, 6}},
				},
			}).Do()
		Save(resp, "Expand itemsets", `
			Compute the downward closure of a batch of itemsets. Only the count
			is returned unless ´include_keys´ is set.
		`)

		biff.AssertEqual(resp.StatusCode, http.StatusOK)
		body := resp.BodyJsonMap()
		biff.AssertEqualJson(body["count"], 14)
		biff.AssertEqualJson(body["itemsets"], 2)
		biff.AssertEqual(body["representation"], "sequence")
		biff.AssertEqual(body["lossy"], false)
		biff.AssertNil(body["keys"])
		biff.AssertNotNil(body["id"])
	})

	a.Alternative("Expand overlapping itemsets with keys", func(a *biff.A) {
		resp := apiRequest("POST", "/expand").
			WithBodyJson(JSON{
				"representation": "bitmask",
				"backend":        "btree",
				"include_keys":   true,
				"sets": []JSON{
					{"set": []int{60, 99}},
					{"set": []int{57}},
				},
			}).Do()
		Save(resp, "Expand itemsets with keys", ``)

		biff.AssertEqual(resp.StatusCode, http.StatusOK)
		body := resp.BodyJsonMap()
		biff.AssertEqualJson(body["count"], 4)
		biff.AssertEqual(body["backend"], "btree")
		biff.AssertEqualJson(body["keys"], []interface{}{
			[]interface{}{57},
			[]interface{}{60},
			[]interface{}{99},
			[]interface{}{60, 99},
		})
	})

	a.Alternative("Expand with filter", func(a *biff.A) {
		resp := apiRequest("POST", "/expand").
			WithBodyJson(JSON{
				"filter": JSON{"support": JSON{"$gte": 10}},
				"sets": []JSON{
					{"set": []int{1, 2, 3}, "support": 12},
					{"set": []int{4, 5, 6}, "support": 3},
				},
			}).Do()
		Save(resp, "Expand with filter", ``)

		biff.AssertEqual(resp.StatusCode, http.StatusOK)
		body := resp.BodyJsonMap()
		biff.AssertEqualJson(body["count"], 7)
		biff.AssertEqualJson(body["itemsets"], 1)
	})

	a.Alternative("Expand digest", func(a *biff.A) {
		resp := apiRequest("POST", "/expand").
			WithBodyJson(JSON{
				"representation": "digest",
				"hash":           "xxhash",
				"sets":           []JSON{{"set": []int{57, 58, 59, 60}}, {"set": []int{60, 99}}},
			}).Do()

		biff.AssertEqual(resp.StatusCode, http.StatusOK)
		body := resp.BodyJsonMap()
		biff.AssertEqualJson(body["count"], 17)
		biff.AssertEqual(body["lossy"], true)
	})

	a.Alternative("Expand out of range", func(a *biff.A) {
		resp := apiRequest("POST", "/expand").
			WithBodyJson(JSON{
				"representation": "bitmask",
				"sets":           []JSON{{"set": []int{1, 200}}},
			}).Do()
		Save(resp, "Expand out of range", ``)

		biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)
	})

	a.Alternative("Expand oversized itemset", func(a *biff.A) {
		set := []int{}
		for i := 1; i <= DefaultMaxItemset+1; i++ {
			set = append(set, i)
		}
		resp := apiRequest("POST", "/expand").
			WithBodyJson(JSON{
				"sets": []JSON{{"set": []int{1, 2}}, {"set": set}},
			}).Do()
		Save(resp, "Expand oversized itemset", `
			Itemsets larger than the configured maximum are rejected before
			anything is expanded.
		`)

		biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)
	})

	a.Alternative("Expand largest accepted itemset", func(a *biff.A) {
		set := []int{}
		for i := 1; i <= 12; i++ {
			set = append(set, i)
		}
		resp := apiRequest("POST", "/expand").
			WithBodyJson(JSON{
				"sets": []JSON{{"set": set}},
			}).Do()

		biff.AssertEqual(resp.StatusCode, http.StatusOK)
		biff.AssertEqualJson(resp.BodyJsonMap()["count"], 1<<12-1)
	})

	a.Alternative("Expand unknown representation", func(a *biff.A) {
		resp := apiRequest("POST", "/expand").
			WithBodyJson(JSON{
				"representation": "hashonly",
				"sets":           []JSON{{"set": []int{1}}},
			}).Do()

		biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)
	})

	a.Alternative("Expand missing set", func(a *biff.A) {
		resp := apiRequest("POST", "/expand").
			WithBodyJson(JSON{
				"sets": []JSON{{"set": []int{1}}, {"items": []int{2}}},
			}).Do()

		biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)
	})

	a.Alternative("Expand malformed body", func(a *biff.A) {
		resp := apiRequest("POST", "/expand").
			WithBodyString(`{"sets": [`).Do()

		biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)
	})

	a.Alternative("List representations", func(a *biff.A) {
		resp := apiRequest("GET", "/representations").Do()
		Save(resp, "List representations", ``)

		biff.AssertEqual(resp.StatusCode, http.StatusOK)
		biff.AssertEqualJson(resp.BodyJson(), JSON{
			"representations": []string{"sequence", "bitmask", "bitvector", "digest"},
			"hashes":          []string{"fnv", "xxhash", "maphash"},
			"backends":        []string{"map", "syncmap", "swiss", "btree"},
			"defaults": JSON{
				"representation": "sequence",
				"hash":           "fnv",
				"backend":        "map",
				"workers":        1,
				"max_itemset":    DefaultMaxItemset,
			},
		})
	})
}
