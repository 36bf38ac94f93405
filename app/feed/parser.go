package feed

import (
	"bytes"
	"cmp"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

type Parser struct {
	gofeedParser *gofeed.Parser
}

func NewParser() *Parser {
	return &Parser{
		gofeedParser: gofeed.NewParser(),
	}
}

// Run parses RSS, Atom or JSON feed data. capturedAt stamps entries that
// carry neither a published nor an updated time.
func (p *Parser) Run(data []byte, capturedAt time.Time) (*Metadata, []Entry, error) {
	feed, err := p.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	metadata := &Metadata{
		Title: feed.Title,
		Link:  feed.Link,
	}

	entries := make([]Entry, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		entry := p.normalizeItem(item, capturedAt)
		if entry.Link == "" {
			slog.Debug("Skipping entry without link or guid", "title", entry.Title)
			continue
		}
		entries = append(entries, entry)
	}

	return metadata, entries, nil
}

func (p *Parser) normalizeItem(item *gofeed.Item, capturedAt time.Time) Entry {
	entry := Entry{
		Title: strings.TrimSpace(item.Title),
		Link:  strings.TrimSpace(cmp.Or(item.Link, item.GUID)),
	}

	switch {
	case item.PublishedParsed != nil:
		entry.Published = item.PublishedParsed.UTC()
		entry.PublishedFrom = TimestampPublished
	case item.UpdatedParsed != nil:
		entry.Published = item.UpdatedParsed.UTC()
		entry.PublishedFrom = TimestampUpdated
	default:
		entry.Published = capturedAt.UTC()
		entry.PublishedFrom = TimestampCaptured
	}

	return entry
}
