package ui

import (
	"math/rand"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kaiwen/blessings/internal/corpus"
	"github.com/kaiwen/blessings/internal/progress"
)

// mockCmds tracks which injected command functions were called.
type mockCmds struct {
	validateCalls int
	loadCalls     int
	clearCalls    int

	savedSeen   []string
	savedPages  int
	savedClicks int
	saveCalls   int

	source corpus.Source
	record progress.Record
}

func (m *mockCmds) validate() tea.Cmd {
	m.validateCalls++
	return func() tea.Msg {
		return CorpusReady{Source: m.source}
	}
}

func (m *mockCmds) loadProgress() tea.Cmd {
	m.loadCalls++
	return func() tea.Msg {
		return ProgressLoaded{Record: m.record}
	}
}

func (m *mockCmds) saveProgress(seen []string, pages, clicks int) tea.Cmd {
	m.saveCalls++
	m.savedSeen = seen
	m.savedPages = pages
	m.savedClicks = clicks
	return func() tea.Msg {
		return ProgressSaved{}
	}
}

func (m *mockCmds) clearProgress() tea.Cmd {
	m.clearCalls++
	return func() tea.Msg {
		return ProgressCleared{}
	}
}

func testSource() corpus.Source {
	return corpus.Source{
		"代码": {"祝福一", "祝福二", "祝福三"},
		"生活": {"祝福四", "祝福五"},
	}
}

func newTestApp(mock *mockCmds) App {
	return NewApp(AppConfig{
		Validate:      mock.validate,
		LoadProgress:  mock.loadProgress,
		SaveProgress:  mock.saveProgress,
		ClearProgress: mock.clearProgress,
		PageSize:      50,
		PickCooldown:  time.Hour, // one free pick, then blocked for the test
		Rand:          rand.New(rand.NewSource(42)),
	})
}

// boot drives the app through start-up to the active state.
func boot(t *testing.T, mock *mockCmds) App {
	t.Helper()
	app := newTestApp(mock)

	if cmd := app.Init(); cmd == nil {
		t.Fatal("Init should return a command")
	}
	if mock.validateCalls != 1 {
		t.Fatalf("Init should call Validate, got %d calls", mock.validateCalls)
	}

	model, _ := app.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	model, _ = model.(App).Update(CorpusReady{Source: mock.source})
	if mock.loadCalls != 1 {
		t.Fatalf("CorpusReady should trigger LoadProgress, got %d calls", mock.loadCalls)
	}
	model, _ = model.(App).Update(ProgressLoaded{Record: mock.record})
	return model.(App)
}

func TestBootShowsFirstBlessing(t *testing.T) {
	mock := &mockCmds{source: testSource()}
	app := boot(t, mock)

	if app.state != stateActive {
		t.Fatalf("Expected active state, got %v", app.state)
	}
	item, ok := app.Current()
	if !ok || item.Text == "" {
		t.Fatal("A blessing should be on screen after boot")
	}
	// Opening blessing is persisted but not counted as a click
	if app.Clicks() != 0 {
		t.Errorf("Opening blessing should not count as a click, got %d", app.Clicks())
	}
	if mock.saveCalls != 1 || len(mock.savedSeen) != 1 {
		t.Errorf("Boot should save the opening blessing: calls=%d seen=%v", mock.saveCalls, mock.savedSeen)
	}
}

func TestStartupErrorAndRetry(t *testing.T) {
	mock := &mockCmds{source: testSource()}
	app := newTestApp(mock)
	app.Init()

	model, _ := app.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	model, _ = model.(App).Update(CorpusReady{Err: errFake})
	updated := model.(App)
	if updated.state != stateError {
		t.Fatalf("Expected error state, got %v", updated.state)
	}

	// Manual retry re-runs validation
	model, _ = updated.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	updated = model.(App)
	if updated.state != stateLoading {
		t.Errorf("Retry should return to loading, got %v", updated.state)
	}
	if mock.validateCalls != 2 {
		t.Errorf("Retry should call Validate again, got %d calls", mock.validateCalls)
	}
}

func TestNextBlessingAndCooldown(t *testing.T) {
	mock := &mockCmds{source: testSource()}
	app := boot(t, mock)
	first, _ := app.Current()

	// First press is inside the limiter's burst
	model, _ := app.Update(tea.KeyMsg{Type: tea.KeySpace})
	updated := model.(App)
	second, _ := updated.Current()
	if second.Text == first.Text {
		t.Error("Next should show a different blessing")
	}
	if updated.Clicks() != 1 {
		t.Errorf("Expected 1 click, got %d", updated.Clicks())
	}

	// Immediate second press is swallowed by the cooldown
	model, _ = updated.Update(tea.KeyMsg{Type: tea.KeySpace})
	blocked := model.(App)
	third, _ := blocked.Current()
	if third.Text != second.Text {
		t.Error("Cooldown should swallow the second press")
	}
	if blocked.Clicks() != 1 {
		t.Errorf("Blocked press should not count, got %d clicks", blocked.Clicks())
	}
}

func TestJourneyRunsToComplete(t *testing.T) {
	mock := &mockCmds{source: testSource()}
	app := newTestApp(mock)
	// Effectively no cooldown for this test
	app.cfg.PickCooldown = time.Nanosecond
	app = rebuildLimiter(app)

	model, _ := app.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	model, _ = model.(App).Update(CorpusReady{Source: mock.source})
	model, _ = model.(App).Update(ProgressLoaded{})
	current := model.(App)

	seen := map[string]bool{}
	item, _ := current.Current()
	seen[item.Text] = true

	// 5 items total, first already shown; four more presses exhaust the corpus
	for i := 0; i < 4; i++ {
		time.Sleep(time.Millisecond)
		m, _ := current.Update(tea.KeyMsg{Type: tea.KeySpace})
		current = m.(App)
		item, _ := current.Current()
		if seen[item.Text] && current.state == stateActive {
			t.Fatalf("Press %d repeated blessing %q", i, item.Text)
		}
		seen[item.Text] = true
	}

	// One more press lands on the complete view
	time.Sleep(time.Millisecond)
	m, _ := current.Update(tea.KeyMsg{Type: tea.KeySpace})
	current = m.(App)
	if current.state != stateComplete {
		t.Fatalf("Expected complete state after exhausting 5 items, got %v", current.state)
	}
	if len(seen) != 5 {
		t.Errorf("Expected 5 distinct blessings, got %d", len(seen))
	}
}

func TestRestoredProgressCountsForward(t *testing.T) {
	mock := &mockCmds{source: testSource()}
	mock.record = progress.Record{
		DisplayedBlessings: []string{"祝福一", "祝福二"},
		CurrentPage:        1,
		ClickCount:         2,
		Timestamp:          time.Now().UnixMilli(),
	}
	app := boot(t, mock)

	if app.Clicks() != 2 {
		t.Errorf("Click count should be restored, got %d", app.Clicks())
	}
	// 2 restored + 1 shown at boot
	if app.sel.SeenCount() != 3 {
		t.Errorf("Expected 3 seen after restore+boot, got %d", app.sel.SeenCount())
	}
	item, _ := app.Current()
	if item.Text == "祝福一" || item.Text == "祝福二" {
		t.Errorf("Boot blessing should not repeat restored ones, got %q", item.Text)
	}
}

func TestSearchJump(t *testing.T) {
	mock := &mockCmds{source: testSource()}
	app := boot(t, mock)

	model, _ := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	updated := model.(App)
	if updated.state != stateSearch {
		t.Fatalf("Expected search state, got %v", updated.state)
	}

	// Type a query, then deliver the matching debounce tick
	model, _ = updated.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("五")})
	updated = model.(App)
	model, _ = updated.Update(searchTick{seq: updated.searchSeq})
	updated = model.(App)

	if len(updated.results) != 1 {
		t.Fatalf("Expected 1 result for 五, got %d", len(updated.results))
	}

	clicksBefore := updated.Clicks()
	model, _ = updated.Update(tea.KeyMsg{Type: tea.KeyEnter})
	updated = model.(App)
	if updated.state != stateActive {
		t.Fatalf("Jump should return to active, got %v", updated.state)
	}
	item, _ := updated.Current()
	if item.Text != "祝福五" {
		t.Errorf("Expected jump to 祝福五, got %q", item.Text)
	}
	if updated.Clicks() != clicksBefore+1 {
		t.Errorf("Jump should count as a click")
	}
}

func TestStaleSearchTickIgnored(t *testing.T) {
	mock := &mockCmds{source: testSource()}
	app := boot(t, mock)

	model, _ := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	updated := model.(App)
	model, _ = updated.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("五")})
	updated = model.(App)

	// A tick from an older keystroke must not populate results
	model, _ = updated.Update(searchTick{seq: updated.searchSeq - 1})
	updated = model.(App)
	if updated.results != nil {
		t.Errorf("Stale tick should be dropped, got %v", updated.results)
	}
}

func TestResetFlow(t *testing.T) {
	mock := &mockCmds{source: testSource()}
	app := boot(t, mock)

	model, _ := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'R'}})
	updated := model.(App)
	if updated.state != stateConfirmReset {
		t.Fatalf("R should ask for confirmation, got %v", updated.state)
	}

	// n backs out
	model, _ = updated.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	updated = model.(App)
	if updated.state != stateActive {
		t.Fatalf("n should cancel, got %v", updated.state)
	}

	// y clears and shows a fresh first blessing
	model, _ = updated.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'R'}})
	model, _ = model.(App).Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})
	updated = model.(App)
	if updated.state != stateActive {
		t.Fatalf("Reset should land on a fresh blessing, got %v", updated.state)
	}
	if mock.clearCalls != 1 {
		t.Errorf("Reset should clear persisted progress, got %d calls", mock.clearCalls)
	}
	if updated.Clicks() != 0 {
		t.Errorf("Reset should zero the click count, got %d", updated.Clicks())
	}
	if updated.sel.SeenCount() != 1 {
		t.Errorf("Only the fresh opening blessing should be seen, got %d", updated.sel.SeenCount())
	}
}

func TestSaveFailureShowsNotice(t *testing.T) {
	mock := &mockCmds{source: testSource()}
	app := boot(t, mock)

	model, _ := app.Update(ProgressSaved{Err: errFake})
	updated := model.(App)
	if updated.status == "" {
		t.Error("Save failure should surface a transient notice")
	}

	// The notice expires with its tick
	model, _ = updated.Update(statusTick{seq: updated.statusSeq})
	updated = model.(App)
	if updated.status != "" {
		t.Error("Status should clear after its tick")
	}
}

// rebuildLimiter applies a changed cooldown (NewApp normally does this).
func rebuildLimiter(a App) App {
	a.picks = newPickLimiter(a.cfg.PickCooldown)
	return a
}

var errFake = errFakeType{}

type errFakeType struct{}

func (errFakeType) Error() string { return "fake failure" }
