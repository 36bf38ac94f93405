package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lysyi3m/rss-mood/app/report"
)

type RenderReportTask struct {
	Task
	renderer ReportRenderer
	sources  []report.SourceInfo
}

func NewRenderReportTask(renderer ReportRenderer, sources []report.SourceInfo) *RenderReportTask {
	return &RenderReportTask{
		Task:     NewTask(TaskTypeRenderReport, ""),
		renderer: renderer,
		sources:  sources,
	}
}

func (t *RenderReportTask) Execute(ctx context.Context) (*report.Report, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	rpt, err := t.renderer.Render(t.sources)
	if err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}

	slog.Info("Task completed",
		"type", t.Type,
		"duration", t.GetDuration(),
		"sources", len(rpt.Distributions),
		"path", rpt.Path)

	return rpt, nil
}
