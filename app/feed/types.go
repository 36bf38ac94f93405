package feed

import (
	"time"
)

// Feed processing types

type Metadata struct {
	Title string
	Link  string
}

// Entry is a normalized feed item. Published prefers the item's published
// time, then its updated time, then the moment the feed was captured.
type Entry struct {
	Title         string
	Link          string
	Published     time.Time
	PublishedFrom TimestampSource

	IsFiltered   bool
	FilterReason string
}

type TimestampSource string

const (
	TimestampPublished TimestampSource = "published"
	TimestampUpdated   TimestampSource = "updated"
	TimestampCaptured  TimestampSource = "captured"
)

type Result struct {
	Metadata     *Metadata
	Entries      []Entry
	UsedFallback bool
}

// Configuration types

type Source struct {
	Name     string         `yaml:"name"`
	URL      string         `yaml:"url"`
	Settings SourceSettings `yaml:"settings"`
	Filters  []SourceFilter `yaml:"filters"`
}

type SourceSettings struct {
	Enabled *bool `yaml:"enabled"` // nil means enabled
	Timeout int   `yaml:"timeout"` // seconds, 0 uses the global fetch timeout
}

type SourceFilter struct {
	Field    string   `yaml:"field"`
	Includes []string `yaml:"includes"`
	Excludes []string `yaml:"excludes"`
}

func (s Source) IsEnabled() bool {
	return s.Settings.Enabled == nil || *s.Settings.Enabled
}

// GetTimeout returns the per-attempt fetch timeout for this source
func (s Source) GetTimeout(fallback time.Duration) time.Duration {
	if s.Settings.Timeout <= 0 {
		return fallback
	}
	return time.Duration(s.Settings.Timeout) * time.Second
}
