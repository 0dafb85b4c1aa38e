package report

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/quartzlane/groupgate/pkg/directory"
	"github.com/quartzlane/groupgate/pkg/logger"
)

type fakeExporter struct {
	mu       sync.Mutex
	statuses []string // returned by successive GetExportJob calls
	polls    int
	payload  []byte

	createErr   error
	getErr      error
	downloadErr error
}

func (f *fakeExporter) CreateExportJob(_ context.Context, reportName string, _ []string) (*directory.ExportJob, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}

	return &directory.ExportJob{ID: "job-1", ReportName: reportName, Status: "notStarted"}, nil
}

func (f *fakeExporter) GetExportJob(_ context.Context, jobID string) (*directory.ExportJob, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	status := f.statuses[len(f.statuses)-1]
	if f.polls < len(f.statuses) {
		status = f.statuses[f.polls]
	}

	f.polls++

	return &directory.ExportJob{ID: jobID, Status: status, URL: "https://blob.example.com/job-1"}, nil
}

func (f *fakeExporter) DownloadExportJob(context.Context, string) ([]byte, error) {
	if f.downloadErr != nil {
		return nil, f.downloadErr
	}

	return f.payload, nil
}

func (f *fakeExporter) pollCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.polls
}

// newTestFetcher shrinks the poll intervals so retry paths run in
// milliseconds.
func newTestFetcher(exporter Exporter, maxWait time.Duration) *Fetcher {
	f := NewFetcher(exporter, maxWait, logger.NewTestLogger())
	f.pollInitial = time.Millisecond
	f.pollMax = 5 * time.Millisecond

	return f
}

func zipWithCSV(t *testing.T, name, content string) []byte {
	t.Helper()

	var buf bytes.Buffer

	zw := zip.NewWriter(&buf)

	w, err := zw.Create(name)
	require.NoError(t, err)

	_, err = w.Write([]byte(content))
	require.NoError(t, err)

	require.NoError(t, zw.Close())

	return buf.Bytes()
}

func TestFetchCompletedJob(t *testing.T) {
	t.Parallel()

	exporter := &fakeExporter{
		statuses: []string{"completed"},
		payload:  zipWithCSV(t, "DeviceCompliance.csv", "DeviceName,ComplianceState\nlaptop-01,compliant\n"),
	}

	rows, err := newTestFetcher(exporter, time.Second).Fetch(context.Background(), "DeviceCompliance", nil)
	require.NoError(t, err)
	require.Equal(t, [][]string{
		{"DeviceName", "ComplianceState"},
		{"laptop-01", "compliant"},
	}, rows)
}

func TestFetchPollsUntilCompleted(t *testing.T) {
	t.Parallel()

	exporter := &fakeExporter{
		statuses: []string{"notStarted", "inProgress", "completed"},
		payload:  zipWithCSV(t, "report.csv", "a,b\n1,2\n"),
	}

	rows, err := newTestFetcher(exporter, time.Second).Fetch(context.Background(), "DeviceCompliance", nil)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, 3, exporter.pollCount())
}

func TestFetchFailedJobStopsImmediately(t *testing.T) {
	t.Parallel()

	exporter := &fakeExporter{statuses: []string{"failed"}}

	_, err := newTestFetcher(exporter, time.Second).Fetch(context.Background(), "DeviceCompliance", nil)
	require.ErrorIs(t, err, errExportJobFailed)

	// a terminal failure must not be retried
	require.Equal(t, 1, exporter.pollCount())
}

func TestFetchGivesUpAfterMaxWait(t *testing.T) {
	t.Parallel()

	exporter := &fakeExporter{statuses: []string{"inProgress"}}

	_, err := newTestFetcher(exporter, 20*time.Millisecond).Fetch(context.Background(), "DeviceCompliance", nil)
	require.ErrorIs(t, err, errExportNotReady)
}

func TestFetchCreateFailure(t *testing.T) {
	t.Parallel()

	exporter := &fakeExporter{createErr: errors.New("throttled")}

	_, err := newTestFetcher(exporter, time.Second).Fetch(context.Background(), "DeviceCompliance", nil)
	require.Error(t, err)
}

func TestExtractRows(t *testing.T) {
	t.Parallel()

	t.Run("zip wrapping a csv", func(t *testing.T) {
		t.Parallel()

		rows, err := extractRows(zipWithCSV(t, "report.csv", "a,b\n1,2\n"))
		require.NoError(t, err)
		require.Equal(t, [][]string{{"a", "b"}, {"1", "2"}}, rows)
	})

	t.Run("bare csv", func(t *testing.T) {
		t.Parallel()

		rows, err := extractRows([]byte("a,b\n1,2\n"))
		require.NoError(t, err)
		require.Equal(t, [][]string{{"a", "b"}, {"1", "2"}}, rows)
	})

	t.Run("zip without a csv", func(t *testing.T) {
		t.Parallel()

		_, err := extractRows(zipWithCSV(t, "readme.txt", "not a report"))
		require.ErrorIs(t, err, errNoCSVInPayload)
	})

	t.Run("case-insensitive extension", func(t *testing.T) {
		t.Parallel()

		rows, err := extractRows(zipWithCSV(t, "Report.CSV", "a\n1\n"))
		require.NoError(t, err)
		require.Equal(t, [][]string{{"a"}, {"1"}}, rows)
	})
}

func TestWriteCSV(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out.csv")

	require.NoError(t, WriteCSV(path, [][]string{{"a", "b"}, {"1", "2"}}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "a,b\n1,2\n", string(data))
}
