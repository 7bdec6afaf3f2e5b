package report

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/climate-projection-service/internal/domain"
	"github.com/couchcryptid/climate-projection-service/internal/observability"
)

func newTestService(t *testing.T, delay time.Duration) (*Service, *clockwork.FakeClock, *observability.Metrics) {
	t.Helper()
	clock := clockwork.NewFakeClockAt(generatedAt)
	metrics := observability.NewMetricsForTesting()
	svc := NewService(Options{
		Dir:          t.TempDir(),
		Delay:        delay,
		RefreshDelay: 1500 * time.Millisecond,
		Clock:        clock,
	}, slog.Default(), metrics)
	t.Cleanup(svc.Close)
	return svc, clock, metrics
}

func TestStartExport_CompletesAfterDelay(t *testing.T) {
	svc, clock, metrics := newTestService(t, 2*time.Second)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	job := svc.StartExport(ExportRequest{Year: 2050, Region: domain.RegionGlobal, Format: FormatCSV})
	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	assert.Equal(t, JobPending, job.Status())

	clock.Advance(2 * time.Second)
	got, err := job.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, JobSucceeded, job.Status())

	res, ok := got.(ExportResult)
	require.True(t, ok)
	want := Filename(generatedAt.Add(2*time.Second), CSVRenderer{})
	assert.Equal(t, want, res.Filename)
	assert.Equal(t, "text/csv", res.ContentType)
	assert.Equal(t, "/api/v1/reports/files/"+want, res.URL)

	data, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	assert.Len(t, data, res.Size)
	assert.True(t, strings.HasPrefix(string(data), "report,Climate Projection Report: Global 2050"))

	path, ok := svc.FilePath(res.Filename)
	require.True(t, ok)
	assert.Equal(t, res.Path, path)

	assert.InDelta(t, 1, testutil.ToFloat64(metrics.ReportJobs.WithLabelValues("export", "success")), 1e-9)
}

func TestExport_AvoidsFilenameCollision(t *testing.T) {
	svc, _, _ := newTestService(t, 0)
	ctx := context.Background()

	first, err := svc.Export(ctx, ExportRequest{Year: 2040, Region: domain.RegionAsia, Format: FormatPDF})
	require.NoError(t, err)
	second, err := svc.Export(ctx, ExportRequest{Year: 2040, Region: domain.RegionAsia, Format: FormatPDF})
	require.NoError(t, err)

	assert.Equal(t, "climate-report-1714143600000.pdf", first.Filename)
	assert.Equal(t, "climate-report-1714143600000-1.pdf", second.Filename)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestExport_UnsupportedFormat(t *testing.T) {
	svc, _, _ := newTestService(t, 0)

	_, err := svc.Export(context.Background(), ExportRequest{Year: 2050, Region: domain.RegionGlobal, Format: "docx"})
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestShare(t *testing.T) {
	svc, _, _ := newTestService(t, 0)

	receipt, err := svc.Share(context.Background(), ShareRequest{Email: "ops@example.com", Format: FormatExcel})
	require.NoError(t, err)
	assert.Equal(t, "ops@example.com", receipt.Email)
	assert.Equal(t, "climate-report-1714143600000.xlsx", receipt.Filename)
	assert.Positive(t, receipt.AttachmentSize)
	assert.Equal(t, generatedAt, receipt.SentAt)
	assert.NotEmpty(t, receipt.ID)
}

func TestShare_InvalidEmail(t *testing.T) {
	svc, _, metrics := newTestService(t, 0)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	job := svc.StartShare(ShareRequest{Email: "not-an-address", Format: FormatPDF})
	_, err := job.Wait(ctx)
	require.ErrorIs(t, err, ErrInvalidEmail)
	assert.Equal(t, JobFailed, job.Status())

	snap := job.Snapshot()
	assert.Equal(t, KindShare, snap.Kind)
	assert.Equal(t, ErrInvalidEmail.Error(), snap.Error)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.ReportJobs.WithLabelValues("share", "error")), 1e-9)
}

func TestStartRefresh(t *testing.T) {
	svc, clock, _ := newTestService(t, 0)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	job := svc.StartRefresh()
	require.NoError(t, clock.BlockUntilContext(ctx, 1))

	select {
	case <-job.Done():
		t.Fatal("refresh finished before its delay elapsed")
	default:
	}

	clock.Advance(1500 * time.Millisecond)
	_, err := job.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, JobSucceeded, job.Snapshot().Status)
}

func TestClose_CancelsPendingJobs(t *testing.T) {
	svc, clock, _ := newTestService(t, time.Minute)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	job := svc.StartExport(ExportRequest{Year: 2050, Region: domain.RegionGlobal, Format: FormatCSV})
	require.NoError(t, clock.BlockUntilContext(ctx, 1))

	svc.Close()
	_, err := job.Wait(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, JobFailed, job.Status())
}

func TestJobLookup(t *testing.T) {
	svc, _, _ := newTestService(t, 0)

	job := svc.StartRefresh()
	got, err := svc.Job(job.ID)
	require.NoError(t, err)
	assert.Same(t, job, got)

	_, err = svc.Job("missing")
	require.ErrorIs(t, err, ErrJobNotFound)
}

func TestFilePath_RejectsTraversal(t *testing.T) {
	svc, _, _ := newTestService(t, 0)

	for _, name := range []string{"", "../etc/passwd", "a/b.csv", ".hidden", "missing.csv"} {
		_, ok := svc.FilePath(name)
		assert.False(t, ok, name)
	}
}
