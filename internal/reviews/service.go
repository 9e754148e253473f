package reviews

import (
	"bytes"
	"context"
	"errors"
	"path"
	"strings"

	"github.com/google/uuid"

	"archreview-backend/internal/assessment"
	"archreview-backend/internal/imageprep"
	"archreview-backend/internal/llm"
	"archreview-backend/internal/shared/metrics"
	"archreview-backend/internal/shared/storage/object"
	"archreview-backend/internal/shared/telemetry"
)

// Export formats served by the API and written as artifacts.
const (
	FormatJSON = "json"
	FormatText = "txt"
)

// ParseFailure wraps a parse error together with the raw model output so
// callers can surface the analysis text that did not yield an assessment.
type ParseFailure struct {
	RawAnalysis string
	Err         *assessment.ParseError
}

func (e *ParseFailure) Error() string { return e.Err.Error() }

func (e *ParseFailure) Unwrap() error { return e.Err }

// Result is the outcome of a completed diagram review.
type Result struct {
	ReviewID   string
	Analysis   string
	Assessment assessment.Assessment
	Exports    map[string]string
}

// Service runs the diagram review pipeline.
type Service struct {
	LLM   llm.Client
	Store object.Store
}

// NewService constructs a Service. Store may be nil, in which case no
// export artifacts are persisted.
func NewService(client llm.Client, store object.Store) *Service {
	return &Service{LLM: client, Store: store}
}

// ExportKey returns the storage key of a review's export artifact.
func ExportKey(reviewID, format string) string {
	name := "report.txt"
	if format == FormatJSON {
		name = "assessment.json"
	}
	return path.Join("reviews", reviewID, name)
}

// Analyze prepares the image, invokes the model, parses the returned
// table into an assessment, and persists export artifacts.
func (s *Service) Analyze(ctx context.Context, imageBytes []byte) (*Result, error) {
	metrics.IncReviewStarted()
	start := metrics.NowMillis()

	res, err := s.analyze(ctx, imageBytes)
	if err != nil {
		metrics.IncReviewFailed()
		return nil, err
	}

	metrics.IncReviewCompleted()
	metrics.ObserveReviewDurationMs(metrics.NowMillis() - start)
	return res, nil
}

func (s *Service) analyze(ctx context.Context, imageBytes []byte) (*Result, error) {
	payload, err := imageprep.Prepare(imageBytes)
	if err != nil {
		return nil, err
	}

	analysis, err := s.LLM.AnalyzeDiagram(ctx, llm.AnalyzeInput{
		ImageBase64: payload.Base64,
		ImageFormat: payload.Format,
	})
	if err != nil {
		return nil, err
	}

	parsed, err := assessment.Parse(analysis)
	if err != nil {
		var perr *assessment.ParseError
		if errors.As(err, &perr) {
			return nil, &ParseFailure{RawAnalysis: analysis, Err: perr}
		}
		return nil, err
	}

	reviewID := uuid.NewString()
	res := &Result{
		ReviewID:   reviewID,
		Analysis:   analysis,
		Assessment: parsed,
		Exports:    map[string]string{},
	}
	s.saveExports(ctx, res)
	return res, nil
}

// saveExports writes the JSON and text artifacts. Failures are logged
// and do not fail the review.
func (s *Service) saveExports(ctx context.Context, res *Result) {
	if s.Store == nil {
		return
	}

	jsonBytes, err := res.Assessment.ExportJSON()
	if err != nil {
		telemetry.Error("review.export_failed", map[string]any{
			"review_id": res.ReviewID,
			"format":    FormatJSON,
			"error":     err.Error(),
		})
	} else {
		s.saveExport(ctx, res, FormatJSON, "application/json", jsonBytes)
	}

	report := res.Assessment.TextReport()
	s.saveExport(ctx, res, FormatText, "text/plain; charset=utf-8", []byte(report))
}

func (s *Service) saveExport(ctx context.Context, res *Result, format, contentType string, data []byte) {
	key := ExportKey(res.ReviewID, format)
	if _, err := s.Store.Save(ctx, key, contentType, bytes.NewReader(data)); err != nil {
		telemetry.Error("review.export_failed", map[string]any{
			"review_id": res.ReviewID,
			"format":    format,
			"error":     err.Error(),
		})
		return
	}
	res.Exports[format] = key
}

// ValidFormat reports whether format names a supported export artifact.
func ValidFormat(format string) bool {
	switch strings.ToLower(format) {
	case FormatJSON, FormatText:
		return true
	}
	return false
}

// ContentTypeFor returns the MIME type served for an export format.
func ContentTypeFor(format string) string {
	if strings.ToLower(format) == FormatJSON {
		return "application/json"
	}
	return "text/plain; charset=utf-8"
}
