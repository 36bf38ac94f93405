package feed

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

type sourcesFile struct {
	Feeds []Source `yaml:"feeds"`
}

// DefaultSources is the feed list used when no sources file exists.
func DefaultSources() []Source {
	return []Source{
		{Name: "Jamaica Gleaner", URL: "https://www.jamaica-gleaner.com/feed/news.xml"},
		{Name: "Jamaica Observer", URL: "https://www.jamaicaobserver.com/app-feed-category/?category=news"},
		{Name: "Radio Jamaica Online", URL: "https://radiojamaicanewsonline.com/feed/news"},
		{Name: "Jamaica Information Service", URL: "https://jis.gov.jm/feed/"},
	}
}

// LoadSources reads the ordered feed list from a YAML file, falling back to
// DefaultSources when the file does not exist.
func LoadSources(path string) ([]Source, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		slog.Debug("Sources file not found, using built-in feeds", "path", path)
		return DefaultSources(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var file sourcesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if len(file.Feeds) == 0 {
		return nil, fmt.Errorf("no feeds defined in %s", path)
	}

	names := make(map[string]bool, len(file.Feeds))
	for i, source := range file.Feeds {
		if err := validateSource(source); err != nil {
			return nil, fmt.Errorf("invalid feed at index %d: %w", i, err)
		}
		if names[source.Name] {
			return nil, fmt.Errorf("duplicate feed name: %s", source.Name)
		}
		names[source.Name] = true

		slog.Debug("Configuration loaded", "feed", source.Name, "enabled", source.IsEnabled(), "timeout", source.Settings.Timeout)
	}

	return file.Feeds, nil
}

func validateSource(source Source) error {
	requiredFeedFields := map[string]string{
		"feed name": source.Name,
		"feed URL":  source.URL,
	}

	for fieldName, fieldValue := range requiredFeedFields {
		if fieldValue == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
	}

	if source.Settings.Timeout < 0 {
		return fmt.Errorf("timeout must be non-negative")
	}

	validFields := map[string]bool{
		"title": true,
		"link":  true,
	}

	for i, filter := range source.Filters {
		if !validFields[filter.Field] {
			return fmt.Errorf("invalid filter field at index %d: %s", i, filter.Field)
		}
		if len(filter.Includes) == 0 && len(filter.Excludes) == 0 {
			return fmt.Errorf("filter at index %d must have at least one include or exclude rule", i)
		}
	}

	return nil
}
