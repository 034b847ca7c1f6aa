package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"antygravity/internal/family/models"
	"antygravity/internal/platform/metrics"
	"antygravity/internal/platform/middleware"
	"antygravity/internal/transport/http/shared"
	id "antygravity/pkg/domain"
	dErrors "antygravity/pkg/domain-errors"
	"antygravity/pkg/requestcontext"
)

// Service defines the interface for family operations.
type Service interface {
	CreateChild(ctx context.Context, parentID id.UserID, req models.CreateChildRequest) (*models.ChildProfile, error)
	ListChildren(ctx context.Context, parentID id.UserID) ([]*models.ChildProfile, error)
	GetChild(ctx context.Context, parentID id.UserID, childID id.ChildID) (*models.ChildProfile, error)
	UpdateChild(ctx context.Context, parentID id.UserID, childID id.ChildID, req models.UpdateChildRequest) (*models.ChildProfile, error)
	DeleteChild(ctx context.Context, parentID id.UserID, childID id.ChildID) error
	CreateRule(ctx context.Context, parentID id.UserID, req models.CreateRuleRequest) (*models.ParentalRule, error)
	ListRules(ctx context.Context, parentID id.UserID, childID id.ChildID) ([]*models.ParentalRule, error)
	UpdateRule(ctx context.Context, parentID id.UserID, ruleID id.RuleID, req models.UpdateRuleRequest) (*models.ParentalRule, error)
	DeleteRule(ctx context.Context, parentID id.UserID, ruleID id.RuleID) error
	RecordViolation(ctx context.Context, parentID id.UserID, req models.CreateViolationRequest) (*models.RuleViolation, error)
	ListViolations(ctx context.Context, parentID id.UserID, filter models.ViolationFilter) ([]*models.RuleViolation, error)
}

// Handler handles child profile, parental rule, and violation endpoints.
type Handler struct {
	logger       *slog.Logger
	family       Service
	metrics      *metrics.Metrics
	jwtValidator middleware.JWTValidator
}

// New creates a new family Handler.
func New(
	family Service,
	logger *slog.Logger,
	metrics *metrics.Metrics,
	jwtValidator middleware.JWTValidator) *Handler {
	return &Handler{
		logger:       logger,
		family:       family,
		metrics:      metrics,
		jwtValidator: jwtValidator,
	}
}

// Register registers the family routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(familyRouter chi.Router) {
		familyRouter.Use(middleware.Recovery(h.logger))
		familyRouter.Use(middleware.RequestID)
		familyRouter.Use(middleware.RequestTime)
		familyRouter.Use(middleware.Logger(h.logger))
		familyRouter.Use(middleware.Timeout(30 * time.Second))
		familyRouter.Use(middleware.ContentTypeJSON)
		familyRouter.Use(middleware.Latency(h.metrics))
		familyRouter.Use(middleware.RequireAuth(h.jwtValidator, h.logger))

		familyRouter.Post("/children", h.handleCreateChild)
		familyRouter.Get("/children", h.handleListChildren)
		familyRouter.Get("/children/{childID}", h.handleGetChild)
		familyRouter.Patch("/children/{childID}", h.handleUpdateChild)
		familyRouter.Delete("/children/{childID}", h.handleDeleteChild)

		familyRouter.Post("/parental/rules", h.handleCreateRule)
		familyRouter.Get("/parental/rules", h.handleListRules)
		familyRouter.Patch("/parental/rules/{ruleID}", h.handleUpdateRule)
		familyRouter.Delete("/parental/rules/{ruleID}", h.handleDeleteRule)

		familyRouter.Post("/parental/violations", h.handleRecordViolation)
		familyRouter.Get("/parental/violations", h.handleListViolations)
	})
}

func (h *Handler) handleCreateChild(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	parentID, ok := h.parentID(ctx, w)
	if !ok {
		return
	}

	var req models.CreateChildRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	child, err := h.family.CreateChild(ctx, parentID, req)
	if err != nil {
		h.writeFamilyError(ctx, w, err, "failed to create child profile")
		return
	}

	shared.WriteJSON(w, http.StatusCreated, child)
}

func (h *Handler) handleListChildren(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	parentID, ok := h.parentID(ctx, w)
	if !ok {
		return
	}

	children, err := h.family.ListChildren(ctx, parentID)
	if err != nil {
		h.writeFamilyError(ctx, w, err, "failed to list children")
		return
	}
	if children == nil {
		children = []*models.ChildProfile{}
	}

	shared.WriteJSON(w, http.StatusOK, map[string]any{"children": children})
}

func (h *Handler) handleGetChild(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	parentID, ok := h.parentID(ctx, w)
	if !ok {
		return
	}
	childID, err := id.ParseChildID(chi.URLParam(r, "childID"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid child id"))
		return
	}

	child, err := h.family.GetChild(ctx, parentID, childID)
	if err != nil {
		h.writeFamilyError(ctx, w, err, "failed to load child profile")
		return
	}

	shared.WriteJSON(w, http.StatusOK, child)
}

func (h *Handler) handleUpdateChild(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	parentID, ok := h.parentID(ctx, w)
	if !ok {
		return
	}
	childID, err := id.ParseChildID(chi.URLParam(r, "childID"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid child id"))
		return
	}

	var req models.UpdateChildRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	child, err := h.family.UpdateChild(ctx, parentID, childID, req)
	if err != nil {
		h.writeFamilyError(ctx, w, err, "failed to update child profile")
		return
	}

	shared.WriteJSON(w, http.StatusOK, child)
}

func (h *Handler) handleDeleteChild(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	parentID, ok := h.parentID(ctx, w)
	if !ok {
		return
	}
	childID, err := id.ParseChildID(chi.URLParam(r, "childID"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid child id"))
		return
	}

	if err := h.family.DeleteChild(ctx, parentID, childID); err != nil {
		h.writeFamilyError(ctx, w, err, "failed to delete child profile")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleCreateRule(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	parentID, ok := h.parentID(ctx, w)
	if !ok {
		return
	}

	var req models.CreateRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	rule, err := h.family.CreateRule(ctx, parentID, req)
	if err != nil {
		h.writeFamilyError(ctx, w, err, "failed to create rule")
		return
	}

	shared.WriteJSON(w, http.StatusCreated, rule)
}

func (h *Handler) handleListRules(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	parentID, ok := h.parentID(ctx, w)
	if !ok {
		return
	}

	var childID id.ChildID
	if raw := r.URL.Query().Get("child_id"); raw != "" {
		parsed, err := id.ParseChildID(raw)
		if err != nil {
			shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid child_id filter"))
			return
		}
		childID = parsed
	}

	rules, err := h.family.ListRules(ctx, parentID, childID)
	if err != nil {
		h.writeFamilyError(ctx, w, err, "failed to list rules")
		return
	}
	if rules == nil {
		rules = []*models.ParentalRule{}
	}

	shared.WriteJSON(w, http.StatusOK, map[string]any{"rules": rules})
}

func (h *Handler) handleUpdateRule(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	parentID, ok := h.parentID(ctx, w)
	if !ok {
		return
	}
	ruleID, err := id.ParseRuleID(chi.URLParam(r, "ruleID"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid rule id"))
		return
	}

	var req models.UpdateRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	rule, err := h.family.UpdateRule(ctx, parentID, ruleID, req)
	if err != nil {
		h.writeFamilyError(ctx, w, err, "failed to update rule")
		return
	}

	shared.WriteJSON(w, http.StatusOK, rule)
}

func (h *Handler) handleDeleteRule(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	parentID, ok := h.parentID(ctx, w)
	if !ok {
		return
	}
	ruleID, err := id.ParseRuleID(chi.URLParam(r, "ruleID"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid rule id"))
		return
	}

	if err := h.family.DeleteRule(ctx, parentID, ruleID); err != nil {
		h.writeFamilyError(ctx, w, err, "failed to delete rule")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleRecordViolation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	parentID, ok := h.parentID(ctx, w)
	if !ok {
		return
	}

	var req models.CreateViolationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	created, err := h.family.RecordViolation(ctx, parentID, req)
	if err != nil {
		h.writeFamilyError(ctx, w, err, "failed to record violation")
		return
	}

	shared.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) handleListViolations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	parentID, ok := h.parentID(ctx, w)
	if !ok {
		return
	}

	filter, err := violationFilterFromQuery(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	violations, err := h.family.ListViolations(ctx, parentID, filter)
	if err != nil {
		h.writeFamilyError(ctx, w, err, "failed to list violations")
		return
	}
	if violations == nil {
		violations = []*models.RuleViolation{}
	}

	shared.WriteJSON(w, http.StatusOK, map[string]any{"violations": violations})
}

func violationFilterFromQuery(r *http.Request) (models.ViolationFilter, error) {
	var filter models.ViolationFilter

	query := r.URL.Query()
	if raw := query.Get("child_id"); raw != "" {
		childID, err := id.ParseChildID(raw)
		if err != nil {
			return filter, dErrors.New(dErrors.CodeBadRequest, "invalid child_id filter")
		}
		filter.ChildID = childID
	}
	if raw := query.Get("start_date"); raw != "" {
		start, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, dErrors.New(dErrors.CodeBadRequest, "start_date must be RFC3339")
		}
		filter.Start = start
	}
	if raw := query.Get("end_date"); raw != "" {
		end, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, dErrors.New(dErrors.CodeBadRequest, "end_date must be RFC3339")
		}
		filter.End = end
	}
	return filter, nil
}

// parentID pulls the authenticated user from context, writing an error when
// absent.
func (h *Handler) parentID(ctx context.Context, w http.ResponseWriter) (id.UserID, bool) {
	parentID := requestcontext.UserID(ctx)
	if parentID.IsNil() {
		h.logger.ErrorContext(ctx, "userID missing from context despite auth middleware",
			"request_id", requestcontext.RequestID(ctx),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return id.UserID{}, false
	}
	return parentID, true
}

// writeFamilyError passes expected domain errors through and masks
// everything else as Internal.
func (h *Handler) writeFamilyError(ctx context.Context, w http.ResponseWriter, err error, msg string) {
	switch dErrors.CodeOf(err) {
	case dErrors.CodeBadRequest, dErrors.CodeValidation, dErrors.CodeNotFound:
		shared.WriteError(w, err)
	default:
		h.logger.ErrorContext(ctx, msg,
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, msg))
	}
}
