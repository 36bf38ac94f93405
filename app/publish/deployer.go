package publish

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/lysyi3m/rss-mood/app/report"
)

const (
	headersFileName = "_headers"
	maxErrorBody    = 64 << 10
)

var ErrNotConfigured = errors.New("deploy site id or token not configured")

// DeployError is a non-2xx answer from the deploy endpoint.
type DeployError struct {
	Status int
	Body   string
}

func (e *DeployError) Error() string {
	return fmt.Sprintf("deploy rejected with status %d: %s", e.Status, e.Body)
}

// Deployer uploads the report as a zipped static site.
type Deployer struct {
	client  *http.Client
	baseURL string
	siteID  string
	token   string
	timeout time.Duration
}

func NewDeployer(baseURL, siteID, token string, timeout time.Duration) *Deployer {
	return &Deployer{
		client:  &http.Client{},
		baseURL: strings.TrimRight(baseURL, "/"),
		siteID:  siteID,
		token:   token,
		timeout: timeout,
	}
}

func (d *Deployer) Configured() bool {
	return d.siteID != "" && d.token != ""
}

func (d *Deployer) Deploy(ctx context.Context, rpt *report.Report) error {
	if !d.Configured() {
		return ErrNotConfigured
	}

	archive, err := Package(rpt.Name, rpt.HTML)
	if err != nil {
		return err
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	url := fmt.Sprintf("%s/sites/%s/deploys", d.baseURL, d.siteID)
	req, err := http.NewRequestWithContext(timeoutCtx, "POST", url, bytes.NewReader(archive))
	if err != nil {
		return fmt.Errorf("failed to create deploy request: %w", err)
	}

	req.Header.Set("Content-Type", "application/zip")
	req.Header.Set("Authorization", "Bearer "+d.token)

	slog.Debug("Uploading report", "url", url, "bytes", len(archive))

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to deploy report: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &DeployError{Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	io.Copy(io.Discard, resp.Body)
	return nil
}

// Package zips the report page with a _headers file serving it as HTML.
func Package(name string, html []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	files := []struct {
		name string
		body []byte
	}{
		{name, html},
		{headersFileName, []byte(headersRule(name))},
	}

	for _, file := range files {
		w, err := zw.Create(file.name)
		if err != nil {
			return nil, fmt.Errorf("failed to add %s to archive: %w", file.name, err)
		}
		if _, err := w.Write(file.body); err != nil {
			return nil, fmt.Errorf("failed to write %s to archive: %w", file.name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish archive: %w", err)
	}

	return buf.Bytes(), nil
}

func headersRule(name string) string {
	return fmt.Sprintf("/%s\n  Content-Type: text/html; charset=utf-8\n", name)
}
