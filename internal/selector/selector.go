// Package selector owns which blessings have been shown and picks the next
// one to display.
//
// The corpus is shuffled exactly once when the selector is created and its
// order never changes afterwards. The loaded window is a prefix of the
// shuffled corpus that grows page by page; selection draws uniformly from
// the unseen items inside the window. Seen items are keyed by text, matching
// the persisted record.
//
// Selector is not safe for concurrent use. In this app every mutation comes
// from the Bubble Tea update loop, which is single-threaded.
package selector

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/kaiwen/blessings/internal/corpus"
	"github.com/kaiwen/blessings/internal/logging"
)

const (
	// DefaultPageSize is how many corpus items one page reveals.
	DefaultPageSize = 50

	// lowWaterMark triggers loading the next page: when fewer than this
	// many unseen items remain in the window and more pages exist, the
	// window grows before picking.
	lowWaterMark = 10
)

// ErrExhausted is returned by PickUnseen once every corpus item is seen.
var ErrExhausted = errors.New("selector: all blessings shown")

// ErrNoMorePages is returned by LoadNextPage when the window already covers
// the whole corpus. Callers should check HasMorePages first.
var ErrNoMorePages = errors.New("selector: corpus fully loaded")

// Selector tracks the shuffled corpus, the loaded window, and the seen set.
type Selector struct {
	items    []corpus.Item // shuffled once, then fixed
	pageSize int
	pages    int                 // pages revealed via normal pagination
	extras   map[int]struct{}    // positions pulled in by SelectByIndex beyond the prefix
	seen     map[string]struct{} // keyed by item text
	rng      *rand.Rand
}

// New builds a selector over the given items: shuffles them uniformly,
// then loads the first page. The input slice is not modified.
func New(items []corpus.Item, pageSize int, rng *rand.Rand) *Selector {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	own := make([]corpus.Item, len(items))
	copy(own, items)
	corpus.Shuffle(own, rng)

	s := &Selector{
		items:    own,
		pageSize: pageSize,
		extras:   make(map[int]struct{}),
		seen:     make(map[string]struct{}),
		rng:      rng,
	}
	if len(own) > 0 {
		s.pages = 1
	}

	logging.Debug("Selector initialized", "corpus", len(own), "pageSize", pageSize)
	return s
}

// Len returns the corpus size.
func (s *Selector) Len() int {
	return len(s.items)
}

// SeenCount returns how many distinct items have been marked seen.
func (s *Selector) SeenCount() int {
	return len(s.seen)
}

// PagesLoaded returns the current page cursor.
func (s *Selector) PagesLoaded() int {
	return s.pages
}

// WindowLen returns the length of the loaded prefix.
func (s *Selector) WindowLen() int {
	n := s.pages * s.pageSize
	if n > len(s.items) {
		n = len(s.items)
	}
	return n
}

// Corpus returns the shuffled item order. Positions are stable for the whole
// session, so they are valid arguments to SelectByIndex.
func (s *Selector) Corpus() []corpus.Item {
	return s.items
}

// HasMorePages reports whether LoadNextPage would reveal anything.
func (s *Selector) HasMorePages() bool {
	return s.WindowLen() < len(s.items)
}

// LoadNextPage grows the window by one page. The corpus order was fixed at
// shuffle time, so this is pure bookkeeping.
func (s *Selector) LoadNextPage() error {
	if !s.HasMorePages() {
		return ErrNoMorePages
	}
	s.pages++
	logging.Debug("Page loaded", "pages", s.pages, "window", s.WindowLen())
	return nil
}

// PickUnseen returns one item from the window that has not been marked seen,
// chosen uniformly at random. The window grows as needed: when fewer than
// lowWaterMark unseen items remain and more pages exist, the next page loads
// first. Returns ErrExhausted once every corpus item is seen.
func (s *Selector) PickUnseen() (corpus.Item, error) {
	for {
		unseen := s.unseenPositions()

		if len(unseen) < lowWaterMark && s.HasMorePages() {
			s.LoadNextPage()
			unseen = s.unseenPositions()
		}

		if len(unseen) == 0 {
			if s.HasMorePages() {
				// Whole window seen but corpus remains; keep loading
				s.LoadNextPage()
				continue
			}
			return corpus.Item{}, ErrExhausted
		}

		pos := unseen[s.rng.Intn(len(unseen))]
		return s.items[pos], nil
	}
}

// MarkSeen records that an item has been presented. Idempotent.
func (s *Selector) MarkSeen(item corpus.Item) {
	s.seen[item.Text] = struct{}{}
}

// SelectByIndex jumps to an arbitrary corpus position, pulling it into the
// window if normal pagination has not reached it yet, marks it seen, and
// returns it. The page cursor is untouched, so later LoadNextPage calls
// behave as if the jump never happened.
func (s *Selector) SelectByIndex(i int) (corpus.Item, error) {
	if i < 0 || i >= len(s.items) {
		return corpus.Item{}, fmt.Errorf("selector: index %d out of range [0,%d)", i, len(s.items))
	}
	if i >= s.WindowLen() {
		s.extras[i] = struct{}{}
	}
	item := s.items[i]
	s.MarkSeen(item)
	return item, nil
}

// IsComplete reports whether every corpus item has been seen.
func (s *Selector) IsComplete() bool {
	return len(s.seen) >= len(s.items)
}

// Reset clears the seen set and the window and reloads the first page.
// The shuffle order is kept; a fresh permutation would need a new Selector.
func (s *Selector) Reset() {
	s.seen = make(map[string]struct{})
	s.extras = make(map[int]struct{})
	s.pages = 0
	if len(s.items) > 0 {
		s.pages = 1
	}
	logging.Info("Journey reset", "corpus", len(s.items))
}

// Restore resumes a persisted journey: replays page loads up to pages and
// re-marks the given texts. Texts that no longer exist in the corpus are
// dropped (the seen set stays a subset of the corpus).
func (s *Selector) Restore(seenTexts []string, pages int) {
	known := make(map[string]struct{}, len(s.items))
	for _, item := range s.items {
		known[item.Text] = struct{}{}
	}

	restored := 0
	for _, text := range seenTexts {
		if _, ok := known[text]; ok {
			s.seen[text] = struct{}{}
			restored++
		}
	}

	for s.pages < pages && s.HasMorePages() {
		s.pages++
	}

	logging.Info("Journey restored",
		"seen", restored,
		"dropped", len(seenTexts)-restored,
		"pages", s.pages)
}

// SeenTexts returns the seen set as a slice for persistence. Order follows
// the corpus so output is deterministic.
func (s *Selector) SeenTexts() []string {
	texts := make([]string, 0, len(s.seen))
	emitted := make(map[string]struct{}, len(s.seen))
	for _, item := range s.items {
		if _, ok := s.seen[item.Text]; !ok {
			continue
		}
		if _, dup := emitted[item.Text]; dup {
			continue // two corpus entries with identical wording
		}
		emitted[item.Text] = struct{}{}
		texts = append(texts, item.Text)
	}
	return texts
}

// unseenPositions collects corpus positions inside the window (prefix plus
// any SelectByIndex extras) whose text is not in the seen set.
func (s *Selector) unseenPositions() []int {
	var unseen []int
	window := s.WindowLen()
	for i := 0; i < window; i++ {
		if _, ok := s.seen[s.items[i].Text]; !ok {
			unseen = append(unseen, i)
		}
	}
	for i := range s.extras {
		if i < window {
			continue // prefix caught up with the jump
		}
		if _, ok := s.seen[s.items[i].Text]; !ok {
			unseen = append(unseen, i)
		}
	}
	return unseen
}
