package search

import (
	"testing"

	"github.com/kaiwen/blessings/internal/corpus"
)

var testCorpus = []corpus.Item{
	{Text: "代码无 bug，上线平安", Category: "代码"},
	{Text: "升职加薪，步步高升", Category: "事业"},
	{Text: "bug 退散，绩效满分", Category: "事业"},
	{Text: "May your code be bug free", Category: "code"},
}

func TestFindSingleTerm(t *testing.T) {
	results := Find(testCorpus, "bug")
	if len(results) != 3 {
		t.Fatalf("Expected 3 matches for %q, got %d", "bug", len(results))
	}
	// Results come back in corpus order
	if results[0].Index != 0 || results[1].Index != 2 || results[2].Index != 3 {
		t.Errorf("Unexpected match order: %v", results)
	}
}

func TestFindIsCaseInsensitive(t *testing.T) {
	results := Find(testCorpus, "BUG FREE")
	if len(results) != 1 || results[0].Index != 3 {
		t.Errorf("Expected the English item only, got %v", results)
	}
}

func TestFindMatchesCategory(t *testing.T) {
	results := Find(testCorpus, "事业")
	if len(results) != 2 {
		t.Errorf("Category terms should match, got %d results", len(results))
	}
}

func TestFindAllTermsRequired(t *testing.T) {
	results := Find(testCorpus, "bug 升职")
	if len(results) != 0 {
		t.Errorf("No item holds both terms, got %v", results)
	}
}

func TestFindEmptyQuery(t *testing.T) {
	if results := Find(testCorpus, ""); results != nil {
		t.Errorf("Empty query should match nothing, got %v", results)
	}
	if results := Find(testCorpus, "   "); results != nil {
		t.Errorf("Blank query should match nothing, got %v", results)
	}
}

func TestFindNoMatch(t *testing.T) {
	if results := Find(testCorpus, "没有这个词"); len(results) != 0 {
		t.Errorf("Expected no matches, got %v", results)
	}
}
