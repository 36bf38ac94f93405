package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lysyi3m/rss-mood/app/dataset"
	"github.com/lysyi3m/rss-mood/app/feed"
	"github.com/lysyi3m/rss-mood/app/sentiment"
)

type IngestFeedTask struct {
	Task
	Source     feed.Source
	fetcher    FeedFetcher
	filterer   EntryFilterer
	classifier Classifier
	store      DatasetStore
	ledger     LinkLedger
}

type scoredEntry struct {
	entry  feed.Entry
	scores sentiment.Scores
}

func NewIngestFeedTask(source feed.Source, fetcher FeedFetcher, filterer EntryFilterer, classifier Classifier, store DatasetStore, ledger LinkLedger) *IngestFeedTask {
	return &IngestFeedTask{
		Task:       NewTask(TaskTypeIngestFeed, source.Name),
		Source:     source,
		fetcher:    fetcher,
		filterer:   filterer,
		classifier: classifier,
		store:      store,
		ledger:     ledger,
	}
}

// Execute walks one feed through the state machine. Fetch failures end in
// StateSkipped with a nil error; only ledger failures and cancellation
// return an error, which must abort the run.
func (t *IngestFeedTask) Execute(ctx context.Context) (*Outcome, error) {
	o := newOutcome(t.FeedName)

	if err := checkContext(ctx); err != nil {
		o.advance(StateAborted)
		o.Err = err
		return o, err
	}

	if !t.Source.IsEnabled() {
		slog.Debug("Feed disabled, skipping", "feed", t.FeedName)
		o.advance(StateDisabled)
		return o, nil
	}

	o.advance(StateFetch)
	result, err := t.fetcher.Run(ctx, t.Source)
	if err != nil {
		if ctxErr := checkContext(ctx); ctxErr != nil {
			o.advance(StateAborted)
			o.Err = ctxErr
			return o, ctxErr
		}

		o.advance(StateFetchFailed)
		o.Err = err
		if kind, ok := feed.FailureKindOf(err); ok {
			o.Failure = kind
		}
		slog.Warn("Failed to fetch feed, skipping",
			"feed", t.FeedName,
			"url", t.Source.URL,
			"stage", StateFetch,
			"failure", o.Failure,
			"error", err)
		o.advance(StateSkipped)
		return o, nil
	}

	o.UsedFallback = result.UsedFallback
	o.Entries = len(result.Entries)

	o.advance(StateFilterNew)
	fresh := t.filterNew(result.Entries, o)

	if len(fresh) > 0 {
		o.advance(StateClassify)
		scored := make([]scoredEntry, 0, len(fresh))
		for _, entry := range fresh {
			scored = append(scored, scoredEntry{entry: entry, scores: t.classifier.Classify(entry.Title)})
		}

		o.advance(StatePersist)
		for _, s := range scored {
			saved, err := t.persist(s)
			if err != nil {
				o.advance(StateAborted)
				o.Err = err
				return o, err
			}
			o.New++
			if !saved {
				o.WriteErrors++
			}
		}
	}

	o.advance(StateDone)

	slog.Info("Task completed",
		"type", t.Type,
		"feed", t.FeedName,
		"duration", t.GetDuration(),
		"fallback", o.UsedFallback,
		"total", o.Entries,
		"duplicates", o.Duplicates,
		"filtered", o.Filtered,
		"new", o.New,
		"write_errors", o.WriteErrors)

	return o, nil
}

// filterNew drops filtered entries and links already in the ledger,
// including repeats within the same fetch.
func (t *IngestFeedTask) filterNew(entries []feed.Entry, o *Outcome) []feed.Entry {
	entries = t.filterer.Run(entries, t.Source)

	pending := make(map[string]struct{}, len(entries))
	var fresh []feed.Entry

	for _, entry := range entries {
		if entry.IsFiltered {
			o.Filtered++
			slog.Debug("Entry filtered", "feed", t.FeedName, "link", entry.Link, "reason", entry.FilterReason)
			continue
		}

		if _, ok := pending[entry.Link]; ok || t.ledger.Contains(entry.Link) {
			o.Duplicates++
			continue
		}

		pending[entry.Link] = struct{}{}
		fresh = append(fresh, entry)
	}

	return fresh
}

// persist records the link before writing the dataset row, so a crash in
// between loses the row rather than duplicating it on the next run. A dataset
// write failure is logged and reported as not saved.
func (t *IngestFeedTask) persist(s scoredEntry) (bool, error) {
	if err := t.ledger.Record(s.entry.Link); err != nil {
		return false, fmt.Errorf("failed to record link in ledger: %w", err)
	}

	label := sentiment.LabelFor(s.scores.Compound)
	record := dataset.Record{
		Published: s.entry.Published.UTC().Format(dataset.PublishedLayout),
		Headline:  s.entry.Title,
		Link:      s.entry.Link,
		Source:    t.Source.Name,
		Sentiment: string(label),
		Compound:  s.scores.Compound,
		Positive:  s.scores.Positive,
		Negative:  s.scores.Negative,
		Neutral:   s.scores.Neutral,
	}

	slog.Debug("New article",
		"feed", t.FeedName,
		"headline", s.entry.Title,
		"link", s.entry.Link,
		"sentiment", label,
		"compound", s.scores.Compound)

	if err := t.store.Upsert(t.Source.Name, record); err != nil {
		slog.Error("Failed to save article",
			"feed", t.FeedName,
			"stage", StatePersist,
			"link", s.entry.Link,
			"error", err)
		return false, nil
	}

	return true, nil
}
