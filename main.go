package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/tunesearch/internal/catalog"
	"github.com/llehouerou/tunesearch/internal/config"
	"github.com/llehouerou/tunesearch/internal/errmsg"
	"github.com/llehouerou/tunesearch/internal/history"
	"github.com/llehouerou/tunesearch/internal/observability"
	"github.com/llehouerou/tunesearch/internal/search"
	"github.com/llehouerou/tunesearch/internal/ui/searchview"
)

// outcomes buffered between the controller and the event loop
const bridgeSize = 16

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpConfigLoad, err))
	}

	logger, logFile, err := observability.Setup(cfg.GetLogConfig())
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpLogSetup, err))
	}
	defer logFile.Close()
	logger.Info("starting", "provider", cfg.GetProvider())

	var hist searchview.History
	if cfg.HistoryEnabled() {
		store, err := history.Open()
		if err != nil {
			// searching still works without history
			logger.Warn(errmsg.Format(errmsg.OpHistoryOpen, err))
		} else {
			defer store.Close()
			hist = store
		}
	}

	opts := catalog.ClientOptions(cfg, logger)
	switch cfg.GetProvider() {
	case config.ProviderEOL:
		cat, err := catalog.EOL(cfg, opts...)
		if err != nil {
			return errors.New(errmsg.Format(errmsg.OpClientSetup, err))
		}
		return runView(cfg, cat, hist, logger)
	default:
		cat, err := catalog.ITunes(cfg, opts...)
		if err != nil {
			return errors.New(errmsg.Format(errmsg.OpClientSetup, err))
		}
		return runView(cfg, cat, hist, logger)
	}
}

func runView[T any](cfg *config.Config, cat *catalog.Catalog[T], hist searchview.History, logger *slog.Logger) error {
	logger = observability.WithFields(logger, "provider", cat.Name)
	bridge := searchview.NewBridge[T](bridgeSize)
	ctrl := search.New(cat.Fetcher, cat.Params, bridge.Callbacks(),
		search.WithDelay(cfg.GetSearchConfig().Debounce()),
		search.WithLogger(logger),
	)
	defer bridge.Close()
	defer ctrl.Close()

	m := searchview.New[T](ctrl, bridge, searchview.Options[T]{
		Provider:     cat.Name,
		Label:        cat.Label,
		Render:       cat.Render,
		History:      hist,
		HistoryLimit: cfg.GetHistoryConfig().Limit,
		Logger:       logger,
	})

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return errors.New(errmsg.Format(errmsg.OpInitialize, err))
	}
	return nil
}
