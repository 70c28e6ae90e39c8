// Package startup runs the one retryable operation in the app: start-up
// data validation, gated by a network-reachability probe.
//
// The retry loop is a plain bounded loop: 3 attempts with a linearly
// increasing delay. Once started it runs to success, exhaustion, or context
// expiry; there is no finer-grained cancellation.
package startup

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/kaiwen/blessings/internal/corpus"
	"github.com/kaiwen/blessings/internal/logging"
)

// ErrUnreachable is surfaced after every probe attempt fails. The UI shows
// an error panel with a manual retry action.
var ErrUnreachable = errors.New("startup: network unreachable")

const (
	defaultAttempts  = 3
	defaultBaseDelay = time.Second
	probeTimeout     = 3 * time.Second
)

// Validator loads and validates the session corpus with bounded retry.
type Validator struct {
	// Attempts is the retry budget. Zero means the default of 3.
	Attempts int

	// BaseDelay is the first retry delay; attempt n waits n*BaseDelay.
	BaseDelay time.Duration

	// ProbeAddr is the host:port dialed for the reachability probe.
	// Empty disables the probe (fully offline corpus).
	ProbeAddr string

	// probe and sleep are swappable for tests.
	probe func(ctx context.Context) error
	sleep func(ctx context.Context, d time.Duration) error
}

// NewValidator returns a validator with production probe and sleep.
func NewValidator(probeAddr string) *Validator {
	v := &Validator{
		Attempts:  defaultAttempts,
		BaseDelay: defaultBaseDelay,
		ProbeAddr: probeAddr,
	}
	v.probe = v.dialProbe
	v.sleep = sleepCtx
	return v
}

// Run performs the start-up sequence: probe, then load and validate the
// corpus. Corpus problems recover locally by substituting the fallback
// corpus; only probe exhaustion (or context expiry) returns an error.
func (v *Validator) Run(ctx context.Context, corpusPath string) (corpus.Source, error) {
	attempts := v.Attempts
	if attempts <= 0 {
		attempts = defaultAttempts
	}
	baseDelay := v.BaseDelay
	if baseDelay <= 0 {
		baseDelay = defaultBaseDelay
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if v.ProbeAddr != "" {
			if err := v.probe(ctx); err != nil {
				lastErr = err
				logging.Warn("Reachability probe failed",
					"attempt", attempt,
					"of", attempts,
					"error", err)
				if attempt == attempts {
					break
				}
				// Linear backoff: 1x, 2x, ...
				if err := v.sleep(ctx, time.Duration(attempt)*baseDelay); err != nil {
					return nil, err
				}
				continue
			}
		}

		src, err := corpus.Load(corpusPath)
		if err != nil {
			// Load already substituted a usable corpus; note it and move on
			logging.Warn("Running on substituted corpus", "error", err)
		}
		if verr := corpus.Validate(src); verr != nil {
			logging.Error("Corpus invalid after load, using fallback", "error", verr)
			src = corpus.Fallback()
		}

		logging.Info("Startup validation complete",
			"attempt", attempt,
			"categories", len(src))
		return src, nil
	}

	return nil, fmt.Errorf("%w after %d attempts: %v", ErrUnreachable, attempts, lastErr)
}

// dialProbe checks reachability with a single TCP dial.
func (v *Validator) dialProbe(ctx context.Context) error {
	d := net.Dialer{Timeout: probeTimeout}
	conn, err := d.DialContext(ctx, "tcp", v.ProbeAddr)
	if err != nil {
		return err
	}
	conn.Close()
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
