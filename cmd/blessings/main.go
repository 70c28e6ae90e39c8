package main

import (
	"context"
	"log"
	"math/rand"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kaiwen/blessings/internal/config"
	"github.com/kaiwen/blessings/internal/kv"
	"github.com/kaiwen/blessings/internal/logging"
	"github.com/kaiwen/blessings/internal/progress"
	"github.com/kaiwen/blessings/internal/startup"
	"github.com/kaiwen/blessings/internal/ui"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := logging.Init(); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	defer logging.Close()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("Failed to load config", "error", err)
	}

	if err := os.MkdirAll(config.DataDir(), 0755); err != nil {
		logging.Fatal("Failed to create data directory", "error", err)
	}

	store, err := kv.Open(config.DBPath())
	if err != nil {
		logging.Fatal("Failed to open local store", "error", err)
	}
	defer store.Close()

	progressStore := progress.NewStore(store)
	validator := startup.NewValidator(cfg.Startup.ProbeAddr)

	appCfg := ui.AppConfig{
		Validate: func() tea.Cmd {
			return func() tea.Msg {
				src, err := validator.Run(ctx, cfg.Corpus.File)
				return ui.CorpusReady{Source: src, Err: err}
			}
		},
		LoadProgress: func() tea.Cmd {
			return func() tea.Msg {
				rec, err := progressStore.Load()
				return ui.ProgressLoaded{Record: rec, Err: err}
			}
		},
		SaveProgress: func(seen []string, pages, clicks int) tea.Cmd {
			return func() tea.Msg {
				return ui.ProgressSaved{Err: progressStore.Save(seen, pages, clicks)}
			}
		},
		ClearProgress: func() tea.Cmd {
			return func() tea.Msg {
				progressStore.Clear()
				return ui.ProgressCleared{}
			}
		},
		PageSize:       cfg.Corpus.PageSize,
		PickCooldown:   time.Duration(cfg.UI.PickCooldownMs) * time.Millisecond,
		SearchDebounce: time.Duration(cfg.UI.SearchDebounceMs) * time.Millisecond,
		Rand:           rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	program := tea.NewProgram(ui.NewApp(appCfg), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		logging.Error("Error running program", "error", err)
		os.Exit(1)
	}
}
