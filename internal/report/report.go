// Package report renders the per-doctor artifacts: the patient roster workbook and the invoice PDF.
//
// Each render writes exactly one file under its own subdirectory of Config.BaseDir and returns
// only once that file has been fully written and closed. The renderer keeps no mutable state
// between calls, so a single Renderer can be shared by concurrent requests. Generated files are
// never rotated or removed here; retention belongs to the caller.
package report

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"secondopinion/internal/model"
)

const (
	// RosterDir and InvoiceDir are the subdirectories of Config.BaseDir the artifacts land in.
	RosterDir  = "excel"
	InvoiceDir = "invoices"

	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypePDF  = "application/pdf"
)

var ErrDoctorRequired = errors.New("doctor is required")

var tracer = otel.Tracer("secondopinion/internal/report")

// Config holds renderer settings.
type Config struct {
	BaseDir string
	// Compress toggles PDF stream compression. Tests turn it off to inspect page content.
	Compress bool
}

// Artifact describes a finished file on disk.
type Artifact struct {
	Path        string
	Filename    string
	ContentType string
	Rows        int
	Pages       int
}

// Result is delivered once by InvoiceAsync.
type Result struct {
	Artifact Artifact
	Err      error
}

// Renderer produces roster and invoice artifacts.
type Renderer struct {
	cfg     Config
	now     func() time.Time
	create  func(name string) (io.WriteCloser, error)
	metrics *Metrics
}

// Option customizes a Renderer.
type Option func(*Renderer)

// WithClock replaces time.Now, which drives filenames, invoice numbers and dates.
func WithClock(now func() time.Time) Option {
	return func(r *Renderer) { r.now = now }
}

// WithMetrics records every render outcome on m.
func WithMetrics(m *Metrics) Option {
	return func(r *Renderer) { r.metrics = m }
}

func withCreate(create func(string) (io.WriteCloser, error)) Option {
	return func(r *Renderer) { r.create = create }
}

// NewRenderer returns a Renderer writing below cfg.BaseDir.
func NewRenderer(cfg Config, opts ...Option) *Renderer {
	r := &Renderer{
		cfg: cfg,
		now: time.Now,
		create: func(name string) (io.WriteCloser, error) {
			return os.Create(name)
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RosterFilename returns doctor_{doctorID}_patients_{unixMillis}.xlsx.
func RosterFilename(doctorID string, t time.Time) string {
	return fmt.Sprintf("doctor_%s_patients_%d.xlsx", doctorID, t.UnixMilli())
}

// InvoiceFilename returns invoice_{doctorID}_{unixMillis}.pdf.
func InvoiceFilename(doctorID string, t time.Time) string {
	return fmt.Sprintf("invoice_%s_%d.pdf", doctorID, t.UnixMilli())
}

// InvoiceNumber returns INV- followed by the first ten digits of the millisecond timestamp.
func InvoiceNumber(t time.Time) string {
	ms := strconv.FormatInt(t.UnixMilli(), 10)
	if len(ms) > 10 {
		ms = ms[:10]
	}
	return "INV-" + ms
}

// ensureDir creates dir when missing. It runs before every write so a directory removed
// while the process is running is recreated.
func ensureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil && !errors.Is(err, os.ErrExist) {
		return fmt.Errorf("create output directory %s: %w", dir, err)
	}
	return nil
}

// writeFile streams write into a new file at path. The file is closed before returning and a
// close failure is reported like any write failure. Partial files are left in place.
func (r *Renderer) writeFile(path string, write func(io.Writer) error) error {
	w, err := r.create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}
	if err := write(w); err != nil {
		_ = w.Close()
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close %s: %w", filepath.Base(path), err)
	}
	return nil
}

func (r *Renderer) startSpan(ctx context.Context, name string, doctor *model.Doctor, patients int) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{attribute.Int("report.patients", patients)}
	if doctor != nil {
		attrs = append(attrs, attribute.String("report.doctor_id", doctor.ID))
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (r *Renderer) finish(span trace.Span, kind string, err error) {
	defer span.End()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	r.metrics.observe(kind, err)
}
