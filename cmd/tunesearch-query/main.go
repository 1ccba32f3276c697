// Command tunesearch-query runs one search through the debounced
// controller and prints the results.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/llehouerou/tunesearch/internal/catalog"
	"github.com/llehouerou/tunesearch/internal/config"
	"github.com/llehouerou/tunesearch/internal/errmsg"
	"github.com/llehouerou/tunesearch/internal/history"
	"github.com/llehouerou/tunesearch/internal/observability"
	"github.com/llehouerou/tunesearch/internal/search"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newCommand(os.Stdout).Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

func newCommand(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "tunesearch-query",
		Usage:     "Search a catalog once and print the results",
		ArgsUsage: "<text>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "provider",
				Usage: "Catalog to search: itunes or eol (default from config)",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of iTunes results (1-200)",
			},
			&cli.BoolFlag{
				Name:  "detail",
				Usage: "Print the detail of each result",
			},
			&cli.BoolFlag{
				Name:  "no-history",
				Usage: "Do not record the search",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging on stderr",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			text := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
			if text == "" {
				return errors.New("missing search text")
			}

			cfg, err := config.Load()
			if err != nil {
				return errors.New(errmsg.Format(errmsg.OpConfigLoad, err))
			}
			if p := c.String("provider"); p != "" {
				cfg.Provider = strings.ToLower(p)
			}
			if n := c.Int("limit"); n > 0 {
				cfg.ITunes.Limit = n
			}

			level := slog.LevelWarn
			if c.Bool("debug") {
				level = slog.LevelDebug
			}
			q := query{
				text:   text,
				detail: c.Bool("detail"),
				record: cfg.HistoryEnabled() && !c.Bool("no-history"),
				out:    out,
				log:    observability.New(os.Stderr, level),
			}

			opts := catalog.ClientOptions(cfg, q.log)
			if cfg.GetProvider() == config.ProviderEOL {
				cat, err := catalog.EOL(cfg, opts...)
				if err != nil {
					return errors.New(errmsg.Format(errmsg.OpClientSetup, err))
				}
				return runQuery(ctx, q, cat)
			}
			cat, err := catalog.ITunes(cfg, opts...)
			if err != nil {
				return errors.New(errmsg.Format(errmsg.OpClientSetup, err))
			}
			return runQuery(ctx, q, cat)
		},
	}
}

type query struct {
	text   string
	detail bool
	record bool
	out    io.Writer
	log    *slog.Logger
}

type outcome[T any] struct {
	q     search.Query
	items []T
	err   error
}

// runQuery submits the text once, without a quiet period, and waits for
// the single outcome.
func runQuery[T any](ctx context.Context, q query, cat *catalog.Catalog[T]) error {
	done := make(chan outcome[T], 1)
	ctrl := search.New(cat.Fetcher, cat.Params, search.Callbacks[T]{
		OnResults: func(sq search.Query, items []T) { done <- outcome[T]{q: sq, items: items} },
		OnError:   func(sq search.Query, err error) { done <- outcome[T]{q: sq, err: err} },
	}, search.WithDelay(0), search.WithLogger(q.log))
	defer ctrl.Close()

	start := time.Now()
	ctrl.Submit(q.text)

	var out outcome[T]
	select {
	case <-ctx.Done():
		ctrl.Cancel()
		return ctx.Err()
	case out = <-done:
	}

	if q.record {
		recordHistory(cat.Name, out, q.log)
	}
	if out.err != nil {
		return errors.New(errmsg.FormatWith(errmsg.OpSearch, q.text, out.err))
	}

	elapsed := time.Since(start).Round(time.Millisecond)
	printResults(q.out, cat, out.items, q.text, elapsed, q.detail)
	return nil
}

func printResults[T any](w io.Writer, cat *catalog.Catalog[T], items []T, text string, elapsed time.Duration, detail bool) {
	noun := "results"
	if len(items) == 1 {
		noun = "result"
	}
	fmt.Fprintf(w, "%s %s for %q on %s (%s)\n", humanize.Comma(int64(len(items))), noun, text, cat.Label, elapsed)

	for i, item := range items {
		title, aside := cat.Render.Row(item)
		if aside != "" {
			fmt.Fprintf(w, "%3d. %s  [%s]\n", i+1, title, aside)
		} else {
			fmt.Fprintf(w, "%3d. %s\n", i+1, title)
		}
		if detail && cat.Render.Detail != nil {
			for line := range strings.SplitSeq(cat.Render.Detail(item), "\n") {
				fmt.Fprintf(w, "     %s\n", line)
			}
		}
	}
}

func recordHistory[T any](provider string, out outcome[T], logger *slog.Logger) {
	store, err := history.Open()
	if err != nil {
		logger.Warn(errmsg.Format(errmsg.OpHistoryOpen, err))
		return
	}
	defer store.Close()

	e := history.Outcome(provider, out.q, len(out.items), out.err, time.Now())
	if err := store.Record(e); err != nil {
		logger.Warn(errmsg.Format(errmsg.OpHistoryRecord, err))
	}
}
