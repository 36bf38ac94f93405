package tasks

import (
	"time"

	"github.com/lysyi3m/rss-mood/app/feed"
)

// State is a step of the per-feed ingestion state machine:
//
//	start → fetch → fetch_failed → skipped
//	start → fetch → filter_new → [classify → persist] → done
//	start → disabled
//
// aborted ends a feed whose ledger write failed or whose run was cancelled.
type State string

const (
	StateStart       State = "start"
	StateFetch       State = "fetch"
	StateFetchFailed State = "fetch_failed"
	StateSkipped     State = "skipped"
	StateFilterNew   State = "filter_new"
	StateClassify    State = "classify"
	StatePersist     State = "persist"
	StateDone        State = "done"
	StateDisabled    State = "disabled"
	StateAborted     State = "aborted"
)

// Outcome is what one feed went through during a run.
type Outcome struct {
	Source       string
	State        State
	Transitions  []State
	Failure      feed.FailureKind
	Err          error
	UsedFallback bool
	Entries      int
	New          int
	Duplicates   int
	Filtered     int
	WriteErrors  int
	Duration     time.Duration
}

func newOutcome(source string) *Outcome {
	o := &Outcome{Source: source}
	o.advance(StateStart)
	return o
}

func (o *Outcome) advance(state State) {
	o.State = state
	o.Transitions = append(o.Transitions, state)
}

func (o *Outcome) Terminal() bool {
	switch o.State {
	case StateSkipped, StateDone, StateDisabled, StateAborted:
		return true
	}
	return false
}
