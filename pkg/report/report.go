/*
 * Copyright 2026 Quartzlane Systems.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package report pulls compliance report exports out of the directory.
// Exports are long-running jobs on the directory side: start the job,
// poll until it completes, download the zip payload, extract the CSV.
package report

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/quartzlane/groupgate/pkg/directory"
	"github.com/quartzlane/groupgate/pkg/logger"
)

const (
	statusCompleted = "completed"
	statusFailed    = "failed"

	defaultMaxWait      = 10 * time.Minute
	pollInitialInterval = 5 * time.Second
	pollMaxInterval     = time.Minute
)

var (
	errExportJobFailed = errors.New("export job failed on the directory side")
	errExportNotReady  = errors.New("export job not ready")
	errNoCSVInPayload  = errors.New("export payload contains no CSV file")
)

// Exporter is the slice of the directory client the report flow needs.
type Exporter interface {
	CreateExportJob(ctx context.Context, reportName string, columns []string) (*directory.ExportJob, error)
	GetExportJob(ctx context.Context, jobID string) (*directory.ExportJob, error)
	DownloadExportJob(ctx context.Context, downloadURL string) ([]byte, error)
}

// Fetcher runs report exports end to end.
type Fetcher struct {
	exporter    Exporter
	maxWait     time.Duration
	pollInitial time.Duration
	pollMax     time.Duration
	logger      logger.Logger
}

// NewFetcher creates a report fetcher. maxWait bounds the polling phase;
// zero means the default.
func NewFetcher(exporter Exporter, maxWait time.Duration, log logger.Logger) *Fetcher {
	if maxWait <= 0 {
		maxWait = defaultMaxWait
	}

	return &Fetcher{
		exporter:    exporter,
		maxWait:     maxWait,
		pollInitial: pollInitialInterval,
		pollMax:     pollMaxInterval,
		logger:      log.WithComponent("report"),
	}
}

// Fetch starts an export job for reportName, waits for it to complete with
// exponential backoff between polls, and returns the parsed CSV rows
// (header row first).
func (f *Fetcher) Fetch(ctx context.Context, reportName string, columns []string) ([][]string, error) {
	job, err := f.exporter.CreateExportJob(ctx, reportName, columns)
	if err != nil {
		return nil, err
	}

	f.logger.Info().
		Str("report", reportName).
		Str("job_id", job.ID).
		Msg("Started export job")

	poll := func() (*directory.ExportJob, error) {
		j, err := f.exporter.GetExportJob(ctx, job.ID)
		if err != nil {
			return nil, err
		}

		switch j.Status {
		case statusCompleted:
			return j, nil
		case statusFailed:
			return nil, backoff.Permanent(fmt.Errorf("%w: job %s", errExportJobFailed, j.ID))
		default:
			return nil, fmt.Errorf("%w: status '%s'", errExportNotReady, j.Status)
		}
	}

	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = f.pollInitial
	expo.MaxInterval = f.pollMax

	completed, err := backoff.Retry(ctx, poll,
		backoff.WithBackOff(expo),
		backoff.WithMaxElapsedTime(f.maxWait))
	if err != nil {
		return nil, fmt.Errorf("export job %s did not complete: %w", job.ID, err)
	}

	payload, err := f.exporter.DownloadExportJob(ctx, completed.URL)
	if err != nil {
		return nil, err
	}

	rows, err := extractRows(payload)
	if err != nil {
		return nil, err
	}

	f.logger.Info().
		Str("report", reportName).
		Str("job_id", job.ID).
		Int("rows", len(rows)).
		Msg("Downloaded export")

	return rows, nil
}

// extractRows parses the export payload, which is a zip archive wrapping a
// single CSV. A bare CSV payload is accepted too.
func extractRows(payload []byte) ([][]string, error) {
	zr, err := zip.NewReader(bytes.NewReader(payload), int64(len(payload)))
	if err != nil {
		return parseCSV(bytes.NewReader(payload))
	}

	for _, file := range zr.File {
		if !strings.HasSuffix(strings.ToLower(file.Name), ".csv") {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open '%s' in export archive: %w", file.Name, err)
		}

		rows, err := parseCSV(rc)

		_ = rc.Close()

		if err != nil {
			return nil, err
		}

		return rows, nil
	}

	return nil, errNoCSVInPayload
}

func parseCSV(r io.Reader) ([][]string, error) {
	rows, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse export CSV: %w", err)
	}

	return rows, nil
}

// WriteCSV saves rows to a local file.
func WriteCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create '%s': %w", path, err)
	}

	w := csv.NewWriter(f)

	if err := w.WriteAll(rows); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write '%s': %w", path, err)
	}

	return f.Close()
}
