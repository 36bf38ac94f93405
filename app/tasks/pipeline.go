package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/lysyi3m/rss-mood/app/feed"
	"github.com/lysyi3m/rss-mood/app/publish"
	"github.com/lysyi3m/rss-mood/app/report"
)

// Deps wires a Pipeline. Journal and Console may be nil.
type Deps struct {
	Sources    []feed.Source
	Ledger     LinkLedger
	Fetcher    FeedFetcher
	Filterer   EntryFilterer
	Classifier Classifier
	Store      DatasetStore
	Renderer   ReportRenderer
	Deployer   ReportDeployer
	Policy     PublishPolicy
	Journal    Journal
	Console    func(w io.Writer, rpt *report.Report)
	Output     io.Writer
}

type Summary struct {
	RunID       string
	Outcomes    []*Outcome
	NewArticles int
	Report      *report.Report
	RenderErr   error
	Published   bool
	PublishErr  error
	Duration    time.Duration
}

// Pipeline runs one full pass: every feed in order, then the report, then
// the optional deploy. Nothing runs concurrently.
type Pipeline struct {
	deps Deps
	now  func() time.Time
}

func NewPipeline(deps Deps) *Pipeline {
	if deps.Journal == nil {
		deps.Journal = nopJournal{}
	}
	if deps.Policy == nil {
		deps.Policy = publish.Never{}
	}
	return &Pipeline{deps: deps, now: time.Now}
}

// Run returns an error only when the ledger fails or ctx is cancelled.
// Per-feed, report and publish failures are logged and kept in the summary.
func (p *Pipeline) Run(ctx context.Context) (*Summary, error) {
	started := p.now()
	summary := &Summary{RunID: uuid.NewString()}

	if err := p.deps.Ledger.Load(); err != nil {
		return summary, fmt.Errorf("failed to load ledger: %w", err)
	}

	if err := p.deps.Journal.StartRun(summary.RunID, started); err != nil {
		slog.Warn("Failed to journal run start", "run", summary.RunID, "error", err)
	}

	slog.Info("Run started", "run", summary.RunID, "feeds", len(p.deps.Sources))

	for _, source := range p.deps.Sources {
		task := NewIngestFeedTask(source, p.deps.Fetcher, p.deps.Filterer, p.deps.Classifier, p.deps.Store, p.deps.Ledger)
		task.Start()

		outcome, err := task.Execute(ctx)
		outcome.Duration = task.GetDuration()

		summary.Outcomes = append(summary.Outcomes, outcome)
		summary.NewArticles += outcome.New

		if jerr := p.deps.Journal.RecordOutcome(summary.RunID, outcome); jerr != nil {
			slog.Warn("Failed to journal feed outcome", "feed", source.Name, "error", jerr)
		}

		if err != nil {
			slog.Error("Run aborted", "feed", source.Name, "stage", outcome.State, "error", err)
			p.finish(summary, started, true)
			return summary, err
		}
	}

	slog.Info("Ingestion finished", "run", summary.RunID, "new", summary.NewArticles)

	p.renderAndPublish(ctx, summary)
	p.finish(summary, started, false)

	return summary, nil
}

func (p *Pipeline) renderAndPublish(ctx context.Context, summary *Summary) {
	renderTask := NewRenderReportTask(p.deps.Renderer, p.sourceInfos())
	renderTask.Start()

	rpt, err := renderTask.Execute(ctx)
	if err != nil {
		summary.RenderErr = err
		slog.Error("Report failed, skipping publish", "error", err)
		return
	}
	summary.Report = rpt

	if p.deps.Console != nil && p.deps.Output != nil {
		p.deps.Console(p.deps.Output, rpt)
	}

	if !p.deps.Policy.ShouldPublish(p.now()) {
		slog.Info("Not a publish day, skipping deployment", "policy", p.deps.Policy)
		return
	}

	publishTask := NewPublishReportTask(p.deps.Deployer, rpt)
	publishTask.Start()

	err = publishTask.Execute(ctx)
	switch {
	case errors.Is(err, publish.ErrNotConfigured):
		slog.Warn("Publish skipped", "error", err)
	case err != nil:
		summary.PublishErr = err
		slog.Error("Deploy failed", "error", err)
	default:
		summary.Published = true
	}
}

func (p *Pipeline) sourceInfos() []report.SourceInfo {
	infos := make([]report.SourceInfo, 0, len(p.deps.Sources))
	for _, source := range p.deps.Sources {
		lastDone, err := p.deps.Journal.LastDone(source.Name)
		if err != nil {
			slog.Warn("Failed to read last successful run", "feed", source.Name, "error", err)
		}
		infos = append(infos, report.SourceInfo{
			Name:     source.Name,
			Enabled:  source.IsEnabled(),
			LastDone: lastDone,
		})
	}
	return infos
}

func (p *Pipeline) finish(summary *Summary, started time.Time, failed bool) {
	finished := p.now()
	summary.Duration = finished.Sub(started)

	if err := p.deps.Journal.FinishRun(summary.RunID, finished, failed, summary.NewArticles); err != nil {
		slog.Warn("Failed to journal run finish", "run", summary.RunID, "error", err)
	}
}
