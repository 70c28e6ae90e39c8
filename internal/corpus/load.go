package corpus

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/kaiwen/blessings/internal/logging"
)

//go:embed corpus.json
var defaultCorpus []byte

// Load returns the corpus source for a session.
//
// If path is non-empty and readable it wins; otherwise the embedded default
// corpus is used. A source that fails validation is replaced by Fallback(),
// so Load never returns an unusable corpus. The error reports what went
// wrong with the preferred source and is informational only.
func Load(path string) (Source, error) {
	if path != "" {
		src, err := loadFile(path)
		if err == nil {
			return src, nil
		}
		logging.Warn("Corpus file unusable, using embedded corpus", "path", path, "error", err)
	}

	var src Source
	if err := json.Unmarshal(defaultCorpus, &src); err != nil {
		// Embedded corpus is checked by tests; this path means a broken build.
		logging.Error("Embedded corpus is malformed", "error", err)
		return Fallback(), fmt.Errorf("embedded corpus: %w", err)
	}
	if err := Validate(src); err != nil {
		logging.Error("Embedded corpus failed validation", "error", err)
		return Fallback(), err
	}
	return src, nil
}

func loadFile(path string) (Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read corpus file: %w", err)
	}

	var src Source
	if err := json.Unmarshal(data, &src); err != nil {
		return nil, fmt.Errorf("parse corpus file: %w", err)
	}
	if err := Validate(src); err != nil {
		return nil, err
	}
	return src, nil
}
