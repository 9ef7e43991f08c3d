package main

import (
	"log"
	"strings"

	"github.com/fulldump/goconfig"
)

type Config struct {
	Test     string `usage:"name of the test: ALL | LOCAL | HTTP"`
	Base     string `usage:"base URL, empty starts a local server"`
	N        int    `usage:"number of itemsets"`
	Size     int    `usage:"items per itemset"`
	Universe int    `usage:"items are drawn from 1..universe"`
	Seed     uint64 `usage:"random seed"`
	Workers  int    `usage:"number of workers"`
	Requests int    `usage:"number of HTTP requests"`
}

func main() {

	c := Config{
		Test:     "local",
		N:        2_000,
		Size:     10,
		Universe: 120,
		Seed:     42,
		Workers:  4,
		Requests: 200,
	}
	goconfig.Read(&c)

	switch strings.ToUpper(c.Test) {
	case "ALL":
		TestLocal(c)
		TestHTTP(c)
	case "LOCAL":
		TestLocal(c)
	case "HTTP":
		TestHTTP(c)
	default:
		log.Fatalf("Unknown test %s", c.Test)
	}

}
