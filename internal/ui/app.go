// Package ui is the Bubble Tea front end: one blessing card at a time,
// keyword search, share shortcuts, and a reset flow.
//
// App does NOT touch the store directly. Persistence and start-up work
// arrive as injected command functions and come back as messages, so the
// model stays testable without a database or network.
package ui

import (
	"math/rand"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/time/rate"

	"github.com/kaiwen/blessings/internal/corpus"
	"github.com/kaiwen/blessings/internal/logging"
	"github.com/kaiwen/blessings/internal/search"
	"github.com/kaiwen/blessings/internal/selector"
	"github.com/kaiwen/blessings/internal/share"
)

// AppConfig wires the App to the rest of the application.
type AppConfig struct {
	// Validate runs start-up validation and yields CorpusReady.
	Validate func() tea.Cmd

	// LoadProgress reads the persisted journey and yields ProgressLoaded.
	LoadProgress func() tea.Cmd

	// SaveProgress persists the journey and yields ProgressSaved.
	SaveProgress func(seen []string, pages, clicks int) tea.Cmd

	// ClearProgress removes the persisted journey and yields ProgressCleared.
	ClearProgress func() tea.Cmd

	// PageSize for the selector window. Zero uses the selector default.
	PageSize int

	// PickCooldown suppresses double-triggers on the next-blessing key.
	PickCooldown time.Duration

	// SearchDebounce is how long to wait after typing before re-querying.
	SearchDebounce time.Duration

	// Rand drives shuffle and selection. Nil gets a time-seeded source.
	Rand *rand.Rand
}

type sessionState int

const (
	stateLoading sessionState = iota
	stateError
	stateActive
	stateSearch
	stateConfirmReset
	stateComplete
)

type keyMap struct {
	Next   key.Binding
	Search key.Binding
	Copy   key.Binding
	Share  key.Binding
	Reset  key.Binding
	Quit   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Next: key.NewBinding(
			key.WithKeys(" ", "enter", "n"),
			key.WithHelp("space", "next blessing"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Copy: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "copy"),
		),
		Share: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "share links"),
		),
		Reset: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "reset journey"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// App is the root Bubble Tea model.
type App struct {
	cfg  AppConfig
	keys keyMap

	state sessionState
	sel   *selector.Selector

	current    corpus.Item
	hasCurrent bool
	clicks     int

	// Cooldown on the next-blessing trigger, decoupled from any widget
	picks *rate.Limiter

	// Search mode
	input        textinput.Model
	results      []search.Result
	resultCursor int
	searchSeq    int

	// Transient status line
	status    string
	statusSeq int

	sharing bool // share-links panel visible

	spinner  spinner.Model
	startErr error
	width    int
	height   int
	ready    bool
}

// NewApp creates the root model. Zero-valued config fields get defaults.
func NewApp(cfg AppConfig) App {
	if cfg.PickCooldown <= 0 {
		cfg.PickCooldown = 300 * time.Millisecond
	}
	if cfg.SearchDebounce <= 0 {
		cfg.SearchDebounce = 250 * time.Millisecond
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#58a6ff"))

	input := textinput.New()
	input.Placeholder = "输入关键词…"
	input.CharLimit = 64
	input.Width = 30

	return App{
		cfg:     cfg,
		keys:    defaultKeyMap(),
		state:   stateLoading,
		picks:   newPickLimiter(cfg.PickCooldown),
		input:   input,
		spinner: sp,
	}
}

// newPickLimiter builds the cooldown limiter: one trigger, then a refill
// after the cooldown. Replaces disabling the button in the old UI.
func newPickLimiter(cooldown time.Duration) *rate.Limiter {
	return rate.NewLimiter(rate.Every(cooldown), 1)
}

// Init starts the spinner and kicks off start-up validation.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.spinner.Tick}
	if a.cfg.Validate != nil {
		cmds = append(cmds, a.cfg.Validate())
	}
	return tea.Batch(cmds...)
}

// Update handles messages and returns the updated model and any commands.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKey(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		return a, nil

	case spinner.TickMsg:
		if a.state != stateLoading {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case CorpusReady:
		if msg.Err != nil {
			a.state = stateError
			a.startErr = msg.Err
			return a, nil
		}
		items := corpus.Flatten(msg.Source)
		a.sel = selector.New(items, a.cfg.PageSize, a.cfg.Rand)
		if a.cfg.LoadProgress != nil {
			return a, a.cfg.LoadProgress()
		}
		return a.showFirst()

	case ProgressLoaded:
		if msg.Err != nil {
			logging.Warn("Progress load failed, starting fresh", "error", msg.Err)
			return a.showFirst()
		}
		a.sel.Restore(msg.Record.DisplayedBlessings, msg.Record.CurrentPage)
		a.clicks = msg.Record.ClickCount
		return a.showFirst()

	case ProgressSaved:
		if msg.Err != nil {
			// In-memory state is still authoritative; just tell the user
			return a.setStatus("进度保存失败，本次会话不受影响")
		}
		return a, nil

	case ProgressCleared:
		if msg.Err != nil {
			return a.setStatus("清除旧进度失败")
		}
		return a, nil

	case CopyDone:
		if msg.Err != nil {
			return a.setStatus("复制失败，请手动复制")
		}
		return a.setStatus("祝福已复制到剪贴板")

	case searchTick:
		if a.state != stateSearch || msg.seq != a.searchSeq {
			return a, nil
		}
		a.results = search.Find(a.sel.Corpus(), a.input.Value())
		a.resultCursor = 0
		return a, nil

	case statusTick:
		if msg.seq == a.statusSeq {
			a.status = ""
		}
		return a, nil
	}

	return a, nil
}

// handleKey routes keyboard input by state.
func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Search mode owns the keyboard while active
	if a.state == stateSearch {
		return a.handleSearchKey(msg)
	}

	if key.Matches(msg, a.keys.Quit) {
		return a, tea.Quit
	}

	switch a.state {
	case stateError:
		if msg.String() == "r" && a.cfg.Validate != nil {
			a.state = stateLoading
			a.startErr = nil
			return a, tea.Batch(a.spinner.Tick, a.cfg.Validate())
		}
		return a, nil

	case stateConfirmReset:
		switch msg.String() {
		case "y", "Y":
			return a.doReset()
		case "n", "N", "esc":
			if a.sel.IsComplete() {
				a.state = stateComplete
			} else {
				a.state = stateActive
			}
			return a, nil
		}
		return a, nil

	case stateComplete:
		if key.Matches(msg, a.keys.Reset) {
			a.state = stateConfirmReset
			return a, nil
		}
		return a, nil

	case stateActive:
		switch {
		case key.Matches(msg, a.keys.Next):
			return a.pickNext()

		case key.Matches(msg, a.keys.Search):
			a.state = stateSearch
			a.input.Reset()
			a.results = nil
			a.resultCursor = 0
			return a, a.input.Focus()

		case key.Matches(msg, a.keys.Copy):
			if !a.hasCurrent {
				return a, nil
			}
			item := a.current
			return a, func() tea.Msg {
				return CopyDone{Err: share.Copy(item)}
			}

		case key.Matches(msg, a.keys.Share):
			a.sharing = !a.sharing
			return a, nil

		case key.Matches(msg, a.keys.Reset):
			a.state = stateConfirmReset
			return a, nil
		}
	}

	return a, nil
}

// handleSearchKey processes input while the search overlay is open.
func (a App) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.state = stateActive
		a.input.Blur()
		return a, nil

	case "ctrl+c":
		return a, tea.Quit

	case "up":
		if a.resultCursor > 0 {
			a.resultCursor--
		}
		return a, nil

	case "down":
		if a.resultCursor < len(a.results)-1 {
			a.resultCursor++
		}
		return a, nil

	case "enter":
		if len(a.results) == 0 {
			return a, nil
		}
		res := a.results[a.resultCursor]
		item, err := a.sel.SelectByIndex(res.Index)
		if err != nil {
			logging.Error("Search jump failed", "index", res.Index, "error", err)
			return a, nil
		}
		a.current = item
		a.hasCurrent = true
		a.clicks++
		a.state = stateActive
		a.input.Blur()
		return a, a.saveCmd()
	}

	// Everything else edits the query; re-search after the debounce window
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	a.searchSeq++
	seq := a.searchSeq
	tick := tea.Tick(a.cfg.SearchDebounce, func(time.Time) tea.Msg {
		return searchTick{seq: seq}
	})
	return a, tea.Batch(cmd, tick)
}

// showFirst displays the first blessing of the session (or the complete
// view when a restored journey already covers the corpus).
func (a App) showFirst() (tea.Model, tea.Cmd) {
	if a.sel.IsComplete() {
		a.state = stateComplete
		return a, nil
	}
	item, err := a.sel.PickUnseen()
	if err != nil {
		a.state = stateComplete
		return a, nil
	}
	a.sel.MarkSeen(item)
	a.current = item
	a.hasCurrent = true
	a.state = stateActive
	// The opening blessing is not a click; still persist it as seen
	return a, a.saveCmd()
}

// pickNext advances to a fresh blessing, honoring the cooldown.
func (a App) pickNext() (tea.Model, tea.Cmd) {
	if !a.picks.Allow() {
		// Too soon after the last trigger; swallow the event
		return a, nil
	}

	item, err := a.sel.PickUnseen()
	if err == selector.ErrExhausted {
		a.state = stateComplete
		return a, a.saveCmd()
	}
	if err != nil {
		logging.Error("Pick failed", "error", err)
		return a, nil
	}

	a.sel.MarkSeen(item)
	a.current = item
	a.hasCurrent = true
	a.clicks++
	a.sharing = false
	return a, a.saveCmd()
}

// doReset clears the journey and starts over with the same shuffle order.
func (a App) doReset() (tea.Model, tea.Cmd) {
	a.sel.Reset()
	a.clicks = 0
	a.hasCurrent = false
	a.sharing = false

	var cmds []tea.Cmd
	if a.cfg.ClearProgress != nil {
		cmds = append(cmds, a.cfg.ClearProgress())
	}

	model, cmd := a.showFirst()
	a = model.(App)
	if cmd != nil {
		cmds = append(cmds, cmd)
	}
	return a, tea.Batch(cmds...)
}

// saveCmd persists the current journey snapshot.
func (a App) saveCmd() tea.Cmd {
	if a.cfg.SaveProgress == nil {
		return nil
	}
	return a.cfg.SaveProgress(a.sel.SeenTexts(), a.sel.PagesLoaded(), a.clicks)
}

// setStatus shows a transient status line for a few seconds.
func (a App) setStatus(msg string) (tea.Model, tea.Cmd) {
	a.status = msg
	a.statusSeq++
	seq := a.statusSeq
	return a, tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return statusTick{seq: seq}
	})
}

// Current returns the blessing on screen, for tests.
func (a App) Current() (corpus.Item, bool) {
	return a.current, a.hasCurrent
}

// Clicks returns the interaction count, for tests.
func (a App) Clicks() int {
	return a.clicks
}
