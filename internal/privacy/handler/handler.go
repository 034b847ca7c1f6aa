package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"antygravity/internal/platform/metrics"
	"antygravity/internal/platform/middleware"
	"antygravity/internal/privacy/models"
	"antygravity/internal/transport/http/shared"
	id "antygravity/pkg/domain"
	dErrors "antygravity/pkg/domain-errors"
	"antygravity/pkg/requestcontext"
)

// Service defines the interface for privacy operations.
type Service interface {
	Check(ctx context.Context, userID id.UserID, req models.CheckRequest) (*models.PrivacyCheck, error)
	History(ctx context.Context, userID id.UserID, packageName string) ([]*models.PrivacyCheck, error)
}

// Handler handles privacy-check endpoints.
type Handler struct {
	logger       *slog.Logger
	privacy      Service
	metrics      *metrics.Metrics
	jwtValidator middleware.JWTValidator
}

// New creates a new privacy Handler.
func New(
	privacy Service,
	logger *slog.Logger,
	metrics *metrics.Metrics,
	jwtValidator middleware.JWTValidator) *Handler {
	return &Handler{
		logger:       logger,
		privacy:      privacy,
		metrics:      metrics,
		jwtValidator: jwtValidator,
	}
}

// Register registers the privacy routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(privacyRouter chi.Router) {
		privacyRouter.Use(middleware.Recovery(h.logger))
		privacyRouter.Use(middleware.RequestID)
		privacyRouter.Use(middleware.RequestTime)
		privacyRouter.Use(middleware.Logger(h.logger))
		privacyRouter.Use(middleware.Timeout(30 * time.Second))
		privacyRouter.Use(middleware.ContentTypeJSON)
		privacyRouter.Use(middleware.Latency(h.metrics))
		privacyRouter.Use(middleware.RequireAuth(h.jwtValidator, h.logger))
		privacyRouter.Post("/privacy/check", h.handleCheck)
		privacyRouter.Get("/privacy/checks", h.handleListChecks)
	})
}

// handleCheck scores an app for the authenticated user and records the
// result.
func (h *Handler) handleCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	userID := requestcontext.UserID(ctx)
	if userID.IsNil() {
		h.logger.ErrorContext(ctx, "userID missing from context despite auth middleware",
			"request_id", requestID,
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	var checkReq models.CheckRequest
	if err := json.NewDecoder(r.Body).Decode(&checkReq); err != nil {
		h.logger.WarnContext(ctx, "invalid privacy check request",
			"request_id", requestID,
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	check, err := h.privacy.Check(ctx, userID, checkReq)
	if err != nil {
		if dErrors.Is(err, dErrors.CodeBadRequest) {
			shared.WriteError(w, err)
			return
		}
		h.logger.ErrorContext(ctx, "privacy check failed",
			"request_id", requestID,
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "privacy check failed"))
		return
	}

	shared.WriteJSON(w, http.StatusCreated, check)
}

// handleListChecks returns the authenticated user's check history.
func (h *Handler) handleListChecks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := requestcontext.UserID(ctx)
	if userID.IsNil() {
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	checks, err := h.privacy.History(ctx, userID, r.URL.Query().Get("package_name"))
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list privacy checks",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to list privacy checks"))
		return
	}
	if checks == nil {
		checks = []*models.PrivacyCheck{}
	}

	shared.WriteJSON(w, http.StatusOK, map[string]any{"checks": checks})
}
