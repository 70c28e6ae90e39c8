// Package search provides keyword search over the blessing corpus.
// Pure functions: items in, matches out. No side effects.
package search

import (
	"strings"

	"github.com/kaiwen/blessings/internal/corpus"
)

// Result is one corpus match. Index is the position in the shuffled corpus,
// valid as an argument to the selector's SelectByIndex.
type Result struct {
	Index int
	Item  corpus.Item
}

// Find returns corpus entries matching the query, in corpus order.
//
// The query is split on whitespace; every term must appear (case-insensitive)
// in the blessing text or its category name. An empty or all-space query
// matches nothing - the caller shows the full stream instead.
func Find(items []corpus.Item, query string) []Result {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return nil
	}

	var results []Result
	for i, item := range items {
		haystack := strings.ToLower(item.Text + " " + item.Category)
		if matchesAll(haystack, terms) {
			results = append(results, Result{Index: i, Item: item})
		}
	}
	return results
}

func matchesAll(haystack string, terms []string) bool {
	for _, term := range terms {
		if !strings.Contains(haystack, term) {
			return false
		}
	}
	return true
}
