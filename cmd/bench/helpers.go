package main

import (
	"math/rand/v2"
	"sync"

	"github.com/fulldump/itemclosure/bootstrap"
	"github.com/fulldump/itemclosure/configuration"
	"github.com/fulldump/itemclosure/itemset"
	"github.com/fulldump/itemclosure/logger"
)

type JSON = map[string]any

func Parallel(workers int, f func()) {
	wg := &sync.WaitGroup{}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f()
		}()
	}
	wg.Wait()
}

// Generate returns n records of size distinct items drawn from 1..universe.
func Generate(c Config) []itemset.Record {
	r := rand.New(rand.NewPCG(c.Seed, c.Seed))
	size := min(c.Size, c.Universe)

	records := make([]itemset.Record, 0, c.N)
	for i := 0; i < c.N; i++ {
		set := make([]int64, 0, size)
		for _, v := range r.Perm(c.Universe)[:size] {
			set = append(set, int64(v+1))
		}
		records = append(records, itemset.Record{Set: &set})
	}
	return records
}

func CreateServer(c *Config) (start, stop func()) {
	conf := configuration.Default()
	conf.HttpAddr = "127.0.0.1:8181"
	c.Base = "http://" + conf.HttpAddr

	start, stop, err := bootstrap.Bootstrap(&conf, logger.Noop())
	if err != nil {
		panic(err)
	}
	return start, stop
}
