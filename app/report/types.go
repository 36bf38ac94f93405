package report

import (
	"time"

	"github.com/lysyi3m/rss-mood/app/sentiment"
)

const (
	BarChar     = "▊"
	MaxBarWidth = 45
	Title       = "Sentiment Analysis Report"
)

type Status string

const (
	StatusOK       Status = "ok"
	StatusMissing  Status = "missing"
	StatusSkipped  Status = "skipped"
	StatusError    Status = "error"
	StatusDisabled Status = "disabled"
)

// SourceInfo is what the renderer needs to know about a configured feed.
type SourceInfo struct {
	Name     string
	Enabled  bool
	LastDone *time.Time
}

type Bar struct {
	Label   sentiment.Label
	Count   int
	Percent float64
	Width   int
}

type Distribution struct {
	Source   string
	Path     string
	Status   Status
	Message  string
	Total    int
	Bars     []Bar
	Enabled  bool
	LastDone *time.Time
}

type Report struct {
	Path          string
	Name          string
	HTML          []byte
	GeneratedAt   time.Time
	Distributions []Distribution
}
