package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.opentelemetry.io/otel/attribute"

	"github.com/couchcryptid/climate-projection-service/internal/domain"
	"github.com/couchcryptid/climate-projection-service/internal/observability"
)

var (
	// ErrInvalidEmail is returned when a share recipient is not an email address.
	ErrInvalidEmail = errors.New("please enter a valid email address")
	// ErrJobNotFound is returned when a job id is unknown.
	ErrJobNotFound = errors.New("job not found")
)

// ExportRequest selects the projection and format to export.
type ExportRequest struct {
	Year   int           `json:"year"`
	Region domain.Region `json:"region"`
	Format ExportFormat  `json:"format"`
}

// ExportResult describes a written report file.
type ExportResult struct {
	ID          string       `json:"id"`
	Filename    string       `json:"filename"`
	Path        string       `json:"path"`
	URL         string       `json:"url"`
	Format      ExportFormat `json:"format"`
	ContentType string       `json:"content_type"`
	Size        int          `json:"size"`
}

// ShareRequest asks for a report to be sent to an email address.
type ShareRequest struct {
	Email   string        `json:"email"`
	Message string        `json:"message"`
	Format  ExportFormat  `json:"format"`
	Year    int           `json:"year"`
	Region  domain.Region `json:"region"`
}

// ShareReceipt confirms a (simulated) share.
type ShareReceipt struct {
	ID             string       `json:"id"`
	Email          string       `json:"email"`
	Format         ExportFormat `json:"format"`
	Filename       string       `json:"filename"`
	AttachmentSize int          `json:"attachment_size"`
	SentAt         time.Time    `json:"sent_at"`
}

// Options configures a Service.
type Options struct {
	Dir          string        // where exported files are written
	Delay        time.Duration // simulated export/share latency
	RefreshDelay time.Duration // simulated refresh latency
	Clock        clockwork.Clock
}

// Service performs report exports and shares behind a fixed, injectable delay.
// Jobs started with Start* run in the background until Close.
type Service struct {
	opts      Options
	renderers map[ExportFormat]Renderer
	logger    *slog.Logger
	metrics   *observability.Metrics

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu   sync.Mutex
	jobs map[string]*Job
}

// NewService creates a report Service. A nil Clock uses real time.
func NewService(opts Options, logger *slog.Logger, metrics *observability.Metrics) *Service {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Service{
		opts:      opts,
		renderers: Renderers(),
		logger:    logger,
		metrics:   metrics,
		ctx:       ctx,
		cancel:    cancel,
		jobs:      make(map[string]*Job),
	}
}

// Export waits the configured delay, renders the report, and writes it to the
// report directory.
func (s *Service) Export(ctx context.Context, req ExportRequest) (ExportResult, error) {
	ctx, span := observability.Tracer().Start(ctx, "report.Export")
	defer span.End()
	span.SetAttributes(
		attribute.String("region", string(req.Region)),
		attribute.Int("year", req.Year),
		attribute.String("format", string(req.Format)),
	)

	r, ok := s.renderers[req.Format]
	if !ok {
		return ExportResult{}, fmt.Errorf("export: %w: %q", ErrUnsupportedFormat, req.Format)
	}
	if err := s.sleep(ctx, s.opts.Delay); err != nil {
		return ExportResult{}, fmt.Errorf("export: %w", err)
	}

	now := s.opts.Clock.Now()
	var buf bytes.Buffer
	if err := r.Render(&buf, Build(req.Year, req.Region, now)); err != nil {
		return ExportResult{}, err
	}

	if err := os.MkdirAll(s.opts.Dir, 0o755); err != nil {
		return ExportResult{}, fmt.Errorf("create report dir: %w", err)
	}
	filename, path, err := s.writeUnique(Filename(now, r), buf.Bytes())
	if err != nil {
		return ExportResult{}, err
	}

	res := ExportResult{
		ID:          uuid.NewString(),
		Filename:    filename,
		Path:        path,
		URL:         "/api/v1/reports/files/" + filename,
		Format:      req.Format,
		ContentType: r.ContentType(),
		Size:        buf.Len(),
	}
	s.logger.Info("report exported", "filename", filename, "format", req.Format, "size", res.Size)
	return res, nil
}

// Share validates the recipient, renders the attachment, and waits the
// configured delay. No message is actually sent.
func (s *Service) Share(ctx context.Context, req ShareRequest) (ShareReceipt, error) {
	ctx, span := observability.Tracer().Start(ctx, "report.Share")
	defer span.End()

	if !strings.Contains(req.Email, "@") {
		return ShareReceipt{}, ErrInvalidEmail
	}
	if req.Year == 0 {
		req.Year = domain.TargetYear
	}
	if req.Region == "" {
		req.Region = domain.RegionGlobal
	}
	r, ok := s.renderers[req.Format]
	if !ok {
		return ShareReceipt{}, fmt.Errorf("share: %w: %q", ErrUnsupportedFormat, req.Format)
	}
	if err := s.sleep(ctx, s.opts.Delay); err != nil {
		return ShareReceipt{}, fmt.Errorf("share: %w", err)
	}

	now := s.opts.Clock.Now()
	var buf bytes.Buffer
	if err := r.Render(&buf, Build(req.Year, req.Region, now)); err != nil {
		return ShareReceipt{}, err
	}

	receipt := ShareReceipt{
		ID:             uuid.NewString(),
		Email:          req.Email,
		Format:         req.Format,
		Filename:       Filename(now, r),
		AttachmentSize: buf.Len(),
		SentAt:         now.UTC(),
	}
	s.logger.Info("report shared", "share_id", receipt.ID, "format", req.Format)
	return receipt, nil
}

// Refresh waits the configured refresh delay.
func (s *Service) Refresh(ctx context.Context) error {
	if err := s.sleep(ctx, s.opts.RefreshDelay); err != nil {
		return fmt.Errorf("refresh: %w", err)
	}
	return nil
}

// StartExport runs Export in the background.
func (s *Service) StartExport(req ExportRequest) *Job {
	return s.start(KindExport, func(ctx context.Context) (any, error) { return s.Export(ctx, req) })
}

// StartShare runs Share in the background.
func (s *Service) StartShare(req ShareRequest) *Job {
	return s.start(KindShare, func(ctx context.Context) (any, error) { return s.Share(ctx, req) })
}

// StartRefresh runs Refresh in the background.
func (s *Service) StartRefresh() *Job {
	return s.start(KindRefresh, func(ctx context.Context) (any, error) { return nil, s.Refresh(ctx) })
}

// Job looks up a job by id.
func (s *Service) Job(id string) (*Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[id]
	if !ok {
		return nil, fmt.Errorf("job %s: %w", id, ErrJobNotFound)
	}
	return j, nil
}

// Close cancels running jobs and waits for them to finish.
func (s *Service) Close() {
	s.cancel()
	s.wg.Wait()
}

// FilePath resolves an exported filename inside the report directory.
// Names containing path separators are rejected.
func (s *Service) FilePath(filename string) (string, bool) {
	if filename == "" || filename != filepath.Base(filename) || strings.HasPrefix(filename, ".") {
		return "", false
	}
	path := filepath.Join(s.opts.Dir, filename)
	if _, err := os.Stat(path); err != nil {
		return "", false
	}
	return path, true
}

func (s *Service) start(kind Kind, fn func(ctx context.Context) (any, error)) *Job {
	job := newJob(uuid.NewString(), kind, s.opts.Clock.Now().UTC())

	s.mu.Lock()
	s.jobs[job.ID] = job
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		start := s.opts.Clock.Now()
		result, err := fn(s.ctx)
		s.observe(kind, start, err)
		if err != nil {
			s.logger.Warn("report job failed", "job_id", job.ID, "kind", kind, "error", err)
		}
		job.finish(result, err, s.opts.Clock.Now().UTC())
	}()
	return job
}

func (s *Service) observe(kind Kind, start time.Time, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	s.metrics.ReportJobs.WithLabelValues(string(kind), outcome).Inc()
	s.metrics.ReportJobDuration.WithLabelValues(string(kind)).Observe(s.opts.Clock.Since(start).Seconds())
}

// sleep waits d on the service clock, returning early if ctx is cancelled.
func (s *Service) sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.opts.Clock.After(d):
		return nil
	}
}

// writeUnique writes data under name, adding a numeric suffix if a file with
// that name already exists.
func (s *Service) writeUnique(name string, data []byte) (string, string, error) {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for i := 0; ; i++ {
		candidate := name
		if i > 0 {
			candidate = fmt.Sprintf("%s-%d%s", stem, i, ext)
		}
		path := filepath.Join(s.opts.Dir, candidate)
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return "", "", fmt.Errorf("create report file: %w", err)
		}
		if _, err := f.Write(data); err != nil {
			f.Close()
			return "", "", fmt.Errorf("write report file: %w", err)
		}
		if err := f.Close(); err != nil {
			return "", "", fmt.Errorf("close report file: %w", err)
		}
		return candidate, path, nil
	}
}
