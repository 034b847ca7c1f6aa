package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"antygravity/internal/privacy/metrics"
	"antygravity/internal/privacy/models"
	"antygravity/internal/privacy/scoring"
	id "antygravity/pkg/domain"
	dErrors "antygravity/pkg/domain-errors"
	"antygravity/pkg/platform/audit"
	"antygravity/pkg/requestcontext"
)

// Store persists privacy check records.
type Store interface {
	Save(ctx context.Context, check *models.PrivacyCheck) error
	ListByUser(ctx context.Context, userID id.UserID) ([]*models.PrivacyCheck, error)
}

// Service scores apps and records the resulting checks. Scoring itself is
// pure; the service owns validation, persistence, and observability.
type Service struct {
	store   Store
	scorer  *scoring.Scorer
	auditor *audit.Emitter
	metrics *metrics.Metrics
	logger  *slog.Logger
	tracer  trace.Tracer
}

// Option configures a Service.
type Option func(*Service)

// WithMetrics attaches privacy module metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithAuditor attaches the audit emitter.
func WithAuditor(a *audit.Emitter) Option {
	return func(s *Service) { s.auditor = a }
}

func NewService(store Store, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		store:  store,
		scorer: scoring.New(),
		logger: logger,
		tracer: otel.Tracer("antygravity/privacy"),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Check scores the app described by req and records the result for the
// authenticated user.
func (s *Service) Check(ctx context.Context, userID id.UserID, req models.CheckRequest) (*models.PrivacyCheck, error) {
	ctx, span := s.tracer.Start(ctx, "privacy.check")
	defer span.End()

	start := time.Now()

	if strings.TrimSpace(req.AppPackageName) == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "package_name is required")
	}

	result := s.scorer.Score(req.Permissions, req.Category, req.NetworkUsageLevel)

	check := &models.PrivacyCheck{
		ID:                id.CheckID(uuid.New()),
		UserID:            userID,
		AppPackageName:    req.AppPackageName,
		AppName:           req.AppName,
		Permissions:       req.Permissions,
		NetworkUsageLevel: models.NetworkUsageLevel(strings.ToUpper(req.NetworkUsageLevel)),
		Score:             result.Score,
		Explanation:       result.Explanation,
		SuggestedAction:   models.SuggestedAction(result.Action),
		CreatedAt:         requestcontext.Now(ctx),
	}
	if check.Permissions == nil {
		check.Permissions = []string{}
	}

	if err := s.store.Save(ctx, check); err != nil {
		s.logger.ErrorContext(ctx, "failed to save privacy check",
			"request_id", requestcontext.RequestID(ctx),
			"package_name", req.AppPackageName,
			"error", err.Error(),
		)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to record privacy check")
	}

	span.SetAttributes(
		attribute.Int("privacy.score", result.Score),
		attribute.String("privacy.action", result.Action),
	)
	s.metrics.RecordCheck(result.Action, result.Score, time.Since(start))
	if s.auditor != nil {
		s.auditor.Emit(ctx, userID, audit.EventPrivacyCheckRecorded, req.AppPackageName, result.Action)
	}

	return check, nil
}

// History returns the user's past checks, newest first. A non-empty
// packageName narrows the result to checks of that app.
func (s *Service) History(ctx context.Context, userID id.UserID, packageName string) ([]*models.PrivacyCheck, error) {
	checks, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list privacy checks")
	}
	if packageName == "" {
		return checks, nil
	}

	filtered := checks[:0]
	for _, check := range checks {
		if check.AppPackageName == packageName {
			filtered = append(filtered, check)
		}
	}
	return filtered, nil
}
