// Package corpus holds the fixed collection of blessing items for a session.
//
// The corpus is supplied at start-up as a mapping from category name to a
// list of blessing strings, flattened into an ordered item list, and shuffled
// exactly once. After that it is read-only: pagination and selection never
// reorder it.
package corpus

import (
	"errors"
	"math/rand"
	"sort"
)

// Errors for corpus validation. Callers recover from both by substituting
// the fallback corpus and continuing.
var (
	// ErrNoCorpus means no corpus source was supplied at all.
	ErrNoCorpus = errors.New("corpus: no source")

	// ErrEmptyCorpus means the source mapping holds no blessing strings.
	ErrEmptyCorpus = errors.New("corpus: source is empty")
)

// Item is one blessing: an immutable text/category pair.
// Identity for dedup purposes is the text value, not the corpus position.
type Item struct {
	Text     string
	Category string
}

// Source is the start-up corpus input: category name -> blessing strings.
type Source map[string][]string

// Validate checks that a source can produce a non-empty corpus.
func Validate(src Source) error {
	if src == nil {
		return ErrNoCorpus
	}
	for _, texts := range src {
		for _, t := range texts {
			if t != "" {
				return nil
			}
		}
	}
	return ErrEmptyCorpus
}

// Flatten converts a source mapping into the ordered item list.
// Categories are walked in sorted order so the pre-shuffle layout is
// deterministic; empty strings are dropped.
func Flatten(src Source) []Item {
	names := make([]string, 0, len(src))
	for name := range src {
		names = append(names, name)
	}
	sort.Strings(names)

	var items []Item
	for _, name := range names {
		for _, text := range src[name] {
			if text == "" {
				continue
			}
			items = append(items, Item{Text: text, Category: name})
		}
	}
	return items
}

// Shuffle permutes items in place with a uniform Fisher-Yates pass.
// Run once at initialization; the resulting order is fixed for the session.
func Shuffle(items []Item, rng *rand.Rand) {
	rng.Shuffle(len(items), func(i, j int) {
		items[i], items[j] = items[j], items[i]
	})
}

// Fallback returns the small hardcoded corpus substituted when the primary
// corpus is missing or empty: 3 categories, 5 blessings each.
func Fallback() Source {
	return Source{
		"代码": {
			"代码无虞，一次编译通过",
			"bug 退散，上线平安",
			"需求不改，工期不压",
			"祝你写的每一行都优雅如诗",
			"愿你的分支永远没有冲突",
		},
		"事业": {
			"升职加薪，步步高升",
			"项目顺利，绩效满分",
			"愿你的努力都被看见",
			"心想事成，offer 拿到手软",
			"事业长虹，前程似锦",
		},
		"生活": {
			"早睡早起，头发浓密",
			"平安喜乐，万事胜意",
			"愿你被生活温柔以待",
			"身体健康，笑口常开",
			"每天都有小确幸",
		},
	}
}
