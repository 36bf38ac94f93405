package tasks

import (
	"context"
	"time"

	"github.com/lysyi3m/rss-mood/app/dataset"
	"github.com/lysyi3m/rss-mood/app/feed"
	"github.com/lysyi3m/rss-mood/app/report"
	"github.com/lysyi3m/rss-mood/app/sentiment"
)

type FeedFetcher interface {
	Run(ctx context.Context, source feed.Source) (*feed.Result, error)
}

type EntryFilterer interface {
	Run(entries []feed.Entry, source feed.Source) []feed.Entry
}

type DatasetStore interface {
	Upsert(sourceName string, record dataset.Record) error
}

// LinkLedger is the in-memory seen set plus its durable log.
type LinkLedger interface {
	Load() error
	Contains(link string) bool
	Record(link string) error
}

type Classifier = sentiment.Classifier

type ReportRenderer interface {
	Render(sources []report.SourceInfo) (*report.Report, error)
}

type ReportDeployer interface {
	Deploy(ctx context.Context, rpt *report.Report) error
}

type PublishPolicy interface {
	ShouldPublish(now time.Time) bool
}

// Journal receives run and per-source outcomes. Failures are never fatal.
type Journal interface {
	StartRun(runID string, startedAt time.Time) error
	RecordOutcome(runID string, outcome *Outcome) error
	FinishRun(runID string, finishedAt time.Time, failed bool, newArticles int) error
	LastDone(source string) (*time.Time, error)
}
