package report

import (
	"context"
	"errors"
	"time"

	"github.com/aatumaykin/reportbot/internal/logger"
)

// DocumentClient resolves and fetches the report document. Implemented by
// the ClickUp client; tests use a fake returning canned text.
type DocumentClient interface {
	GetAuthorizedWorkspace(ctx context.Context) (string, error)
	SearchForDoc(ctx context.Context, workspaceID string) (string, error)
	FetchPageContent(ctx context.Context, workspaceID, docID string) (string, error)
}

// Sender delivers the rendered message. Implemented by the Telegram sender.
type Sender interface {
	SendMessage(ctx context.Context, text, parseMode string) error
}

// Result is the outcome of one report run, surfaced to the operator UI and
// to the scheduled runner.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Service wires the document source, the extraction engine, and the sender
// into the report pipeline.
type Service struct {
	docs        DocumentClient
	sender      Sender
	logger      *logger.Logger
	metrics     *Metrics
	defaultDate string
}

// NewService creates a report service. metrics may be nil.
func NewService(docs DocumentClient, sender Sender, log *logger.Logger, metrics *Metrics, defaultDate string) *Service {
	return &Service{
		docs:        docs,
		sender:      sender,
		logger:      log,
		metrics:     metrics,
		defaultDate: defaultDate,
	}
}

// GenerateAndSend runs the full pipeline for the given date (YYYY-MM-DD).
// An empty date falls back to the configured default. Every failure is
// recoverable: the result carries a human-readable message and the error
// is also returned for callers that branch on the taxonomy.
func (s *Service) GenerateAndSend(ctx context.Context, date string) (Result, error) {
	if date == "" {
		date = s.defaultDate
	}

	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		return s.fail("invalid date: "+date, err)
	}

	workspaceID, err := s.docs.GetAuthorizedWorkspace(ctx)
	if err != nil {
		return s.fail(err.Error(), err)
	}

	docID, err := s.docs.SearchForDoc(ctx, workspaceID)
	if err != nil {
		return s.fail(err.Error(), err)
	}

	content, err := s.docs.FetchPageContent(ctx, workspaceID, docID)
	if err != nil {
		return s.fail(err.Error(), err)
	}

	started := time.Now()
	message, err := BuildReport(content, parsed)
	if err != nil {
		return s.fail(err.Error(), err)
	}

	if err := s.sender.SendMessage(ctx, message, "HTML"); err != nil {
		wrapped := errors.Join(ErrDeliveryFailed, err)
		return s.fail("failed to send message to Telegram", wrapped)
	}

	s.logger.Info("report sent",
		logger.Field{Key: "date", Value: date},
		logger.Field{Key: "duration", Value: time.Since(started).String()})
	s.metrics.recordRun("success", time.Since(started))

	return Result{Success: true, Message: "Report sent to Telegram."}, nil
}

func (s *Service) fail(message string, err error) (Result, error) {
	s.logger.Error("report run failed", err)
	s.metrics.recordRun(outcomeLabel(err), 0)
	return Result{Success: false, Message: message}, err
}

func outcomeLabel(err error) string {
	switch {
	case errors.Is(err, ErrSectionNotFound):
		return "section_not_found"
	case errors.Is(err, ErrEmptyReport):
		return "empty_report"
	case errors.Is(err, ErrDeliveryFailed):
		return "delivery_failed"
	default:
		return "error"
	}
}
