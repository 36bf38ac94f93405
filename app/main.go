package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lysyi3m/rss-mood/app/cfg"
	"github.com/lysyi3m/rss-mood/app/database"
	"github.com/lysyi3m/rss-mood/app/dataset"
	"github.com/lysyi3m/rss-mood/app/feed"
	"github.com/lysyi3m/rss-mood/app/ledger"
	"github.com/lysyi3m/rss-mood/app/publish"
	"github.com/lysyi3m/rss-mood/app/report"
	"github.com/lysyi3m/rss-mood/app/runlock"
	"github.com/lysyi3m/rss-mood/app/sentiment"
	"github.com/lysyi3m/rss-mood/app/tasks"
)

func main() {
	os.Exit(run())
}

func run() int {
	c, err := cfg.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		return 1
	}
	if c == nil {
		// help was printed
		return 0
	}

	setupLogger(c)

	slog.Info("Starting RSS Mood", "version", c.Version)

	loc, err := c.Location()
	if err != nil {
		slog.Warn("Invalid timezone, using UTC", "timezone", c.Timezone, "error", err)
	}

	lock, err := runlock.Acquire(c.LockFile)
	if err != nil {
		if errors.Is(err, runlock.ErrLocked) {
			slog.Error("Another run is in progress", "lock", c.LockFile)
		} else {
			slog.Error("Failed to acquire run lock", "error", err)
		}
		return 1
	}
	defer lock.Release()

	sources, err := feed.LoadSources(c.SourcesFile)
	if err != nil {
		slog.Error("Failed to load feed sources", "path", c.SourcesFile, "error", err)
		return 1
	}
	slog.Info("Loaded feed sources", "count", len(sources), "path", c.SourcesFile)

	policy, err := publish.ParsePolicy(c.PublishDay, loc)
	if err != nil {
		slog.Error("Invalid publish policy", "error", err)
		return 1
	}

	var journal tasks.Journal
	db, err := database.Open(c.JournalFile)
	if err != nil {
		slog.Warn("Run journal unavailable, continuing without it", "path", c.JournalFile, "error", err)
	} else {
		defer db.Close()
		journal = tasks.NewJournal(database.NewRunRepository(db))
	}

	deployer := publish.NewDeployer(c.DeployURL, c.SiteID, c.Token, c.PublishTimeout)
	if !deployer.Configured() {
		slog.Debug("Deploy credentials not set, publishing will be skipped")
	}

	store := dataset.NewStore(c.DatasetDir, c.MaxRows)

	pipeline := tasks.NewPipeline(tasks.Deps{
		Sources:    sources,
		Ledger:     ledger.New(c.LedgerFile, c.LedgerLimit),
		Fetcher:    feed.NewFetcher(feed.NewParser(), c.UserAgent, c.FetchTimeout),
		Filterer:   feed.NewFilterer(),
		Classifier: sentiment.NewVader(),
		Store:      store,
		Renderer:   report.NewRenderer(store, c.ReportFile),
		Deployer:   deployer,
		Policy:     policy,
		Journal:    journal,
		Console:    report.Console,
		Output:     os.Stdout,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary, err := pipeline.Run(ctx)
	if err != nil {
		slog.Error("Run failed", "error", err)
		return 1
	}

	slog.Info("Run finished",
		"run", summary.RunID,
		"new", summary.NewArticles,
		"published", summary.Published,
		"duration", summary.Duration.Round(time.Millisecond))

	return 0
}

func setupLogger(c *cfg.Cfg) {
	level := slog.LevelInfo
	if c.Debug {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if c.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	slog.SetDefault(slog.New(handler))
}
