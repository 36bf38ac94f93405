package tasks

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/lysyi3m/rss-mood/app/dataset"
	"github.com/lysyi3m/rss-mood/app/feed"
	"github.com/lysyi3m/rss-mood/app/report"
	"github.com/lysyi3m/rss-mood/app/sentiment"
)

type fakeFetcher struct {
	results map[string]*feed.Result
	errs    map[string]error
	calls   []string
}

func (f *fakeFetcher) Run(ctx context.Context, source feed.Source) (*feed.Result, error) {
	f.calls = append(f.calls, source.Name)
	if err, ok := f.errs[source.Name]; ok {
		return nil, err
	}
	if result, ok := f.results[source.Name]; ok {
		return result, nil
	}
	return nil, &feed.FetchError{Kind: feed.FailureNoStatus, Err: errors.New("no such host")}
}

// wordClassifier scores "good" headlines positive and "bad" ones negative.
type wordClassifier struct{}

func (wordClassifier) Classify(text string) sentiment.Scores {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "good"):
		return sentiment.Scores{Compound: 0.6, Positive: 0.5, Neutral: 0.5}
	case strings.Contains(lower, "bad"):
		return sentiment.Scores{Compound: -0.6, Negative: 0.5, Neutral: 0.5}
	default:
		return sentiment.Scores{Compound: 0, Neutral: 1}
	}
}

type fakeLedger struct {
	seen      map[string]bool
	recorded  []string
	loadErr   error
	recordErr error
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{seen: make(map[string]bool)}
}

func (l *fakeLedger) Load() error { return l.loadErr }

func (l *fakeLedger) Contains(link string) bool { return l.seen[link] }

func (l *fakeLedger) Record(link string) error {
	if l.recordErr != nil {
		return l.recordErr
	}
	l.seen[link] = true
	l.recorded = append(l.recorded, link)
	return nil
}

type failingStore struct {
	calls int
}

func (s *failingStore) Upsert(string, dataset.Record) error {
	s.calls++
	return errors.New("disk full")
}

type fakeRenderer struct {
	err     error
	sources []report.SourceInfo
}

func (r *fakeRenderer) Render(sources []report.SourceInfo) (*report.Report, error) {
	r.sources = sources
	if r.err != nil {
		return nil, r.err
	}
	return &report.Report{Name: "index.html", HTML: []byte("<html></html>")}, nil
}

type fakeDeployer struct {
	err   error
	calls int
}

func (d *fakeDeployer) Deploy(ctx context.Context, rpt *report.Report) error {
	d.calls++
	return d.err
}

type fakeJournal struct {
	started  []string
	outcomes []*Outcome
	finished map[string]bool
	lastDone map[string]*time.Time
}

func newFakeJournal() *fakeJournal {
	return &fakeJournal{finished: make(map[string]bool), lastDone: make(map[string]*time.Time)}
}

func (j *fakeJournal) StartRun(runID string, startedAt time.Time) error {
	j.started = append(j.started, runID)
	return nil
}

func (j *fakeJournal) RecordOutcome(runID string, o *Outcome) error {
	j.outcomes = append(j.outcomes, o)
	if o.State == StateDone {
		t := time.Date(2024, 6, 2, 8, 0, 0, 0, time.UTC)
		j.lastDone[o.Source] = &t
	}
	return nil
}

func (j *fakeJournal) FinishRun(runID string, finishedAt time.Time, failed bool, newArticles int) error {
	j.finished[runID] = failed
	return nil
}

func (j *fakeJournal) LastDone(source string) (*time.Time, error) {
	return j.lastDone[source], nil
}

func entry(title, link string, published time.Time) feed.Entry {
	return feed.Entry{Title: title, Link: link, Published: published, PublishedFrom: feed.TimestampPublished}
}

func resultOf(entries ...feed.Entry) *feed.Result {
	return &feed.Result{Metadata: &feed.Metadata{Title: "Feed"}, Entries: entries}
}
