package sentiment

import (
	"github.com/jonreiter/govader"
)

type Label string

const (
	Positive Label = "Positive"
	Neutral  Label = "Neutral"
	Negative Label = "Negative"
)

// Deadband is the half-width of the neutral zone around a zero compound score.
const Deadband = 0.05

// Scores are polarity scores for a piece of text. Compound lies in [-1, 1];
// Positive, Negative and Neutral are proportions in [0, 1].
type Scores struct {
	Compound float64
	Positive float64
	Negative float64
	Neutral  float64
}

type Classifier interface {
	Classify(text string) Scores
}

// LabelFor maps a compound score onto a label; both deadband edges are inclusive.
func LabelFor(compound float64) Label {
	switch {
	case compound >= Deadband:
		return Positive
	case compound <= -Deadband:
		return Negative
	default:
		return Neutral
	}
}

// Vader scores text with the VADER lexicon.
type Vader struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

var _ Classifier = (*Vader)(nil)

func NewVader() *Vader {
	return &Vader{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

func (v *Vader) Classify(text string) Scores {
	s := v.analyzer.PolarityScores(text)
	return Scores{
		Compound: s.Compound,
		Positive: s.Positive,
		Negative: s.Negative,
		Neutral:  s.Neutral,
	}
}
