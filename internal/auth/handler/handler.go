package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"antygravity/internal/auth/models"
	"antygravity/internal/auth/service"
	"antygravity/internal/platform/metrics"
	"antygravity/internal/platform/middleware"
	"antygravity/internal/transport/http/shared"
	id "antygravity/pkg/domain"
	dErrors "antygravity/pkg/domain-errors"
	"antygravity/pkg/requestcontext"
)

// Service defines the interface for authentication operations.
type Service interface {
	Register(ctx context.Context, req models.RegisterRequest) (*service.AuthResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (*service.AuthResponse, error)
	Refresh(ctx context.Context, req models.RefreshRequest) (*service.AuthResponse, error)
	Logout(ctx context.Context, req models.LogoutRequest) error
	SocialLogin(ctx context.Context, provider models.Provider, req models.SocialLoginRequest) (*service.AuthResponse, error)
	Me(ctx context.Context, userID id.UserID) (*models.User, error)
	UpdateMe(ctx context.Context, userID id.UserID, req models.UpdateProfileRequest) (*models.User, error)
}

// Handler handles authentication endpoints.
type Handler struct {
	logger       *slog.Logger
	auth         Service
	metrics      *metrics.Metrics
	jwtValidator middleware.JWTValidator
}

// New creates a new auth Handler.
func New(
	auth Service,
	logger *slog.Logger,
	metrics *metrics.Metrics,
	jwtValidator middleware.JWTValidator) *Handler {
	return &Handler{
		logger:       logger,
		auth:         auth,
		metrics:      metrics,
		jwtValidator: jwtValidator,
	}
}

// Register registers the auth routes with the chi router. Token and login
// endpoints are public; profile endpoints require a bearer token.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(authRouter chi.Router) {
		authRouter.Use(middleware.Recovery(h.logger))
		authRouter.Use(middleware.RequestID)
		authRouter.Use(middleware.RequestTime)
		authRouter.Use(middleware.Logger(h.logger))
		authRouter.Use(middleware.Timeout(30 * time.Second))
		authRouter.Use(middleware.ContentTypeJSON)
		authRouter.Use(middleware.Latency(h.metrics))

		authRouter.Post("/auth/register", h.handleRegister)
		authRouter.Post("/auth/login", h.handleLogin)
		authRouter.Post("/auth/token/refresh", h.handleRefresh)
		authRouter.Post("/auth/logout", h.handleLogout)
		authRouter.Post("/auth/social/google", h.handleSocialLogin(models.ProviderGoogle))
		authRouter.Post("/auth/social/apple", h.handleSocialLogin(models.ProviderApple))

		authRouter.Group(func(g chi.Router) {
			g.Use(middleware.RequireAuth(h.jwtValidator, h.logger))
			g.Get("/auth/me", h.handleMe)
			g.Patch("/auth/me", h.handleUpdateMe)
		})
	})
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	resp, err := h.auth.Register(ctx, req)
	if err != nil {
		h.writeAuthError(ctx, w, err, "registration failed")
		return
	}

	shared.WriteJSON(w, http.StatusCreated, resp)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	resp, err := h.auth.Login(ctx, req)
	if err != nil {
		h.writeAuthError(ctx, w, err, "login failed")
		return
	}

	shared.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req models.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	resp, err := h.auth.Refresh(ctx, req)
	if err != nil {
		h.writeAuthError(ctx, w, err, "token refresh failed")
		return
	}

	shared.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req models.LogoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	if err := h.auth.Logout(ctx, req); err != nil {
		h.writeAuthError(ctx, w, err, "logout failed")
		return
	}

	shared.WriteJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}

func (h *Handler) handleSocialLogin(provider models.Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req models.SocialLoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
			return
		}

		resp, err := h.auth.SocialLogin(ctx, provider, req)
		if err != nil {
			h.writeAuthError(ctx, w, err, "social login failed")
			return
		}

		shared.WriteJSON(w, http.StatusOK, resp)
	}
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := requestcontext.UserID(ctx)
	if userID.IsNil() {
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	user, err := h.auth.Me(ctx, userID)
	if err != nil {
		h.writeAuthError(ctx, w, err, "failed to load profile")
		return
	}

	shared.WriteJSON(w, http.StatusOK, user)
}

func (h *Handler) handleUpdateMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := requestcontext.UserID(ctx)
	if userID.IsNil() {
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	var req models.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	user, err := h.auth.UpdateMe(ctx, userID, req)
	if err != nil {
		h.writeAuthError(ctx, w, err, "failed to update profile")
		return
	}

	shared.WriteJSON(w, http.StatusOK, user)
}

// writeAuthError passes expected domain errors through and masks everything
// else as Internal.
func (h *Handler) writeAuthError(ctx context.Context, w http.ResponseWriter, err error, msg string) {
	switch dErrors.CodeOf(err) {
	case dErrors.CodeBadRequest, dErrors.CodeValidation, dErrors.CodeUnauthorized,
		dErrors.CodeConflict, dErrors.CodeNotFound:
		shared.WriteError(w, err)
	default:
		h.logger.ErrorContext(ctx, msg,
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, msg))
	}
}
