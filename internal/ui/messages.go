package ui

import (
	"github.com/kaiwen/blessings/internal/corpus"
	"github.com/kaiwen/blessings/internal/progress"
)

// CorpusReady is sent when start-up validation finishes.
type CorpusReady struct {
	Source corpus.Source
	Err    error
}

// ProgressLoaded carries the persisted journey record.
type ProgressLoaded struct {
	Record progress.Record
	Err    error
}

// ProgressSaved reports the outcome of a background save.
// A non-nil Err is a transient notice; in-memory state stays authoritative.
type ProgressSaved struct {
	Err error
}

// ProgressCleared reports the outcome of clearing the persisted record.
type ProgressCleared struct {
	Err error
}

// CopyDone reports a clipboard copy attempt.
type CopyDone struct {
	Err error
}

// searchTick fires after the search debounce delay. Stale ticks (seq behind
// the model's counter) are dropped.
type searchTick struct {
	seq int
}

// statusTick expires the transient status line.
type statusTick struct {
	seq int
}
