package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lysyi3m/rss-mood/app/report"
)

type PublishReportTask struct {
	Task
	deployer ReportDeployer
	report   *report.Report
}

func NewPublishReportTask(deployer ReportDeployer, rpt *report.Report) *PublishReportTask {
	return &PublishReportTask{
		Task:     NewTask(TaskTypePublishReport, ""),
		deployer: deployer,
		report:   rpt,
	}
}

func (t *PublishReportTask) Execute(ctx context.Context) error {
	if err := checkContext(ctx); err != nil {
		return err
	}

	if err := t.deployer.Deploy(ctx, t.report); err != nil {
		return fmt.Errorf("failed to publish report: %w", err)
	}

	slog.Info("Task completed",
		"type", t.Type,
		"duration", t.GetDuration(),
		"file", t.report.Name)

	return nil
}
