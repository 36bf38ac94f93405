package dataset

import "errors"

const (
	// PublishedLayout sorts lexicographically in time order.
	PublishedLayout = "2006-01-02 15:04:05"

	DefaultMaxRows = 100
)

// Header is the fixed column schema of every dataset file.
var Header = []string{"Published", "Headline", "Link", "Source", "Sentiment", "Compound", "Positive", "Negative", "Neutral"}

var ErrMissingColumn = errors.New("dataset column missing")

// Record is one classified headline as stored on disk.
type Record struct {
	Published string
	Headline  string
	Link      string
	Source    string
	Sentiment string
	Compound  float64
	Positive  float64
	Negative  float64
	Neutral   float64
}
