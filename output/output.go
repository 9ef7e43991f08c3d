// Package output serializes an expanded store as JSON.
//
// Structural keys are written as arrays of items, digest keys as their raw
// 64 bit value.
package output

import (
	"fmt"
	"io"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"

	"github.com/fulldump/itemclosure/keys"
	"github.com/fulldump/itemclosure/store"
)

// Element is the JSON shape of one key.
func Element[K comparable](strategy keys.Strategy[K], key K) any {
	if items, ok := strategy.Decode(key); ok {
		return items.Ints()
	}
	return key
}

// Write streams the store as a JSON array.
func Write[K comparable](w io.Writer, s store.Store[K], strategy keys.Strategy[K], pretty bool) error {

	options := []jsontext.Options{}
	if pretty {
		options = append(options, jsontext.WithIndent("  "))
	}
	e := jsontext.NewEncoder(w, options...)

	if err := e.WriteToken(jsontext.BeginArray); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	for key := range s.All() {
		if err := json.MarshalEncode(e, Element(strategy, key)); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	}
	if err := e.WriteToken(jsontext.EndArray); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	return nil
}

// Collect returns every element, for callers embedding the keys in a bigger
// document.
func Collect[K comparable](s store.Store[K], strategy keys.Strategy[K]) []any {
	elements := make([]any, 0, s.Len())
	for key := range s.All() {
		elements = append(elements, Element(strategy, key))
	}
	return elements
}
