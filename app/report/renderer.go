package report

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"
)

//go:embed templates/report.html.tmpl
var templateFS embed.FS

var reportTemplate = template.Must(
	template.New("report.html.tmpl").
		Funcs(template.FuncMap{
			"bar": func(width int) string { return strings.Repeat(BarChar, width) },
		}).
		ParseFS(templateFS, "templates/report.html.tmpl"),
)

type templateData struct {
	Title         string
	GeneratedAt   time.Time
	Distributions []Distribution
}

// Renderer builds the HTML report from the per-feed datasets.
type Renderer struct {
	store DatasetReader
	path  string
	now   func() time.Time
}

func NewRenderer(store DatasetReader, path string) *Renderer {
	return &Renderer{
		store: store,
		path:  path,
		now:   time.Now,
	}
}

// Render reads every dataset, writes the report file and returns the artifact.
// Sources render in the order given.
func (r *Renderer) Render(sources []SourceInfo) (*Report, error) {
	distributions := make([]Distribution, 0, len(sources))
	for _, source := range sources {
		distributions = append(distributions, Distribute(r.store, source))
	}

	generatedAt := r.now().UTC()

	var buf bytes.Buffer
	err := reportTemplate.Execute(&buf, templateData{
		Title:         Title,
		GeneratedAt:   generatedAt,
		Distributions: distributions,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}

	if err := writeAtomic(r.path, buf.Bytes()); err != nil {
		return nil, err
	}

	return &Report{
		Path:          r.path,
		Name:          filepath.Base(r.path),
		HTML:          buf.Bytes(),
		GeneratedAt:   generatedAt,
		Distributions: distributions,
	}, nil
}

func writeAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace report: %w", err)
	}

	return nil
}
