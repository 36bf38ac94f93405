package report

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/lysyi3m/rss-mood/app/dataset"
	"github.com/lysyi3m/rss-mood/app/sentiment"
)

var labelOrder = []sentiment.Label{
	sentiment.Positive,
	sentiment.Neutral,
	sentiment.Negative,
}

type DatasetReader interface {
	Path(sourceName string) string
	Read(sourceName string) ([]dataset.Record, error)
}

// Distribute counts the labels stored in one source's dataset.
func Distribute(store DatasetReader, info SourceInfo) Distribution {
	d := Distribution{
		Source:   info.Name,
		Path:     store.Path(info.Name),
		Enabled:  info.Enabled,
		LastDone: info.LastDone,
	}

	records, err := store.Read(info.Name)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		d.Status = StatusMissing
		d.Message = fmt.Sprintf("No file found.\nExpected at: %s", d.Path)
		return d
	case errors.Is(err, dataset.ErrMissingColumn):
		d.Status = StatusSkipped
		d.Message = fmt.Sprintf("Skipping %s: 'Sentiment' column missing.", d.Path)
		return d
	case err != nil:
		slog.Warn("Failed to read dataset for report", "feed", info.Name, "error", err)
		d.Status = StatusError
		d.Message = fmt.Sprintf("Error processing %s: %v", d.Path, err)
		return d
	}

	counts := make(map[sentiment.Label]int, len(labelOrder))
	for _, record := range records {
		counts[sentiment.Label(record.Sentiment)]++
	}

	d.Total, d.Bars = buildBars(counts)
	d.Status = StatusOK
	if !info.Enabled {
		d.Status = StatusDisabled
	}

	return d
}

func buildBars(counts map[sentiment.Label]int) (int, []Bar) {
	total := 0
	maxCount := 0
	for _, label := range labelOrder {
		total += counts[label]
		maxCount = max(maxCount, counts[label])
	}
	if maxCount == 0 {
		maxCount = 1
	}

	bars := make([]Bar, 0, len(labelOrder))
	for _, label := range labelOrder {
		count := counts[label]

		percent := 0.0
		if total > 0 {
			percent = float64(count) / float64(total) * 100
		}

		bars = append(bars, Bar{
			Label:   label,
			Count:   count,
			Percent: percent,
			Width:   int(float64(count) / float64(maxCount) * MaxBarWidth),
		})
	}

	return total, bars
}
