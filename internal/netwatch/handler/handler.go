package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"antygravity/internal/netwatch/models"
	"antygravity/internal/platform/metrics"
	"antygravity/internal/platform/middleware"
	"antygravity/internal/transport/http/shared"
	id "antygravity/pkg/domain"
	dErrors "antygravity/pkg/domain-errors"
	"antygravity/pkg/requestcontext"
)

// Service defines the interface for network scan and device operations.
type Service interface {
	SubmitScan(ctx context.Context, ownerID id.UserID, req models.SubmitScanRequest) (*models.SubmitScanResult, error)
	ListDevices(ctx context.Context, ownerID id.UserID) ([]*models.Device, error)
	ListScans(ctx context.Context, ownerID id.UserID) ([]*models.ScanLog, error)
	MarkTrusted(ctx context.Context, ownerID id.UserID, deviceID id.DeviceID) (*models.Device, error)
	MarkBlocked(ctx context.Context, ownerID id.UserID, deviceID id.DeviceID) (*models.Device, error)
	Unmark(ctx context.Context, ownerID id.UserID, deviceID id.DeviceID) (*models.Device, error)
}

// Handler handles network scan and device endpoints.
type Handler struct {
	logger       *slog.Logger
	netwatch     Service
	metrics      *metrics.Metrics
	jwtValidator middleware.JWTValidator
}

// New creates a new netwatch Handler.
func New(
	netwatch Service,
	logger *slog.Logger,
	metrics *metrics.Metrics,
	jwtValidator middleware.JWTValidator) *Handler {
	return &Handler{
		logger:       logger,
		netwatch:     netwatch,
		metrics:      metrics,
		jwtValidator: jwtValidator,
	}
}

// Register registers the network routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(networkRouter chi.Router) {
		networkRouter.Use(middleware.Recovery(h.logger))
		networkRouter.Use(middleware.RequestID)
		networkRouter.Use(middleware.RequestTime)
		networkRouter.Use(middleware.ClientMetadata)
		networkRouter.Use(middleware.Logger(h.logger))
		networkRouter.Use(middleware.Timeout(30 * time.Second))
		networkRouter.Use(middleware.ContentTypeJSON)
		networkRouter.Use(middleware.Latency(h.metrics))
		networkRouter.Use(middleware.RequireAuth(h.jwtValidator, h.logger))
		networkRouter.Post("/network/scans", h.handleSubmitScan)
		networkRouter.Get("/network/scans", h.handleListScans)
		networkRouter.Get("/network/devices", h.handleListDevices)
		networkRouter.Post("/network/devices/{deviceID}/trust", h.handleMarkTrusted)
		networkRouter.Post("/network/devices/{deviceID}/block", h.handleMarkBlocked)
		networkRouter.Post("/network/devices/{deviceID}/unmark", h.handleUnmark)
	})
}

// handleSubmitScan ingests one network scan for the authenticated user.
func (h *Handler) handleSubmitScan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	userID := requestcontext.UserID(ctx)
	if userID.IsNil() {
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	var scanReq models.SubmitScanRequest
	if err := json.NewDecoder(r.Body).Decode(&scanReq); err != nil {
		h.logger.WarnContext(ctx, "invalid scan request",
			"request_id", requestID,
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	result, err := h.netwatch.SubmitScan(ctx, userID, scanReq)
	if err != nil {
		if dErrors.Is(err, dErrors.CodeBadRequest) {
			shared.WriteError(w, err)
			return
		}
		h.logger.ErrorContext(ctx, "scan submission failed",
			"request_id", requestID,
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "scan submission failed"))
		return
	}

	shared.WriteJSON(w, http.StatusCreated, result)
}

func (h *Handler) handleListScans(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := requestcontext.UserID(ctx)
	if userID.IsNil() {
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	scans, err := h.netwatch.ListScans(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list scans",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to list scans"))
		return
	}
	if scans == nil {
		scans = []*models.ScanLog{}
	}

	shared.WriteJSON(w, http.StatusOK, map[string]any{"scans": scans})
}

func (h *Handler) handleListDevices(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := requestcontext.UserID(ctx)
	if userID.IsNil() {
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	devices, err := h.netwatch.ListDevices(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list devices",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to list devices"))
		return
	}
	if devices == nil {
		devices = []*models.Device{}
	}

	shared.WriteJSON(w, http.StatusOK, map[string]any{"devices": devices})
}

func (h *Handler) handleMarkTrusted(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.netwatch.MarkTrusted)
}

func (h *Handler) handleMarkBlocked(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.netwatch.MarkBlocked)
}

func (h *Handler) handleUnmark(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.netwatch.Unmark)
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, op func(context.Context, id.UserID, id.DeviceID) (*models.Device, error)) {
	ctx := r.Context()

	userID := requestcontext.UserID(ctx)
	if userID.IsNil() {
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	deviceID, err := id.ParseDeviceID(chi.URLParam(r, "deviceID"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid device id"))
		return
	}

	device, err := op(ctx, userID, deviceID)
	if err != nil {
		if dErrors.Is(err, dErrors.CodeNotFound) {
			shared.WriteError(w, err)
			return
		}
		h.logger.ErrorContext(ctx, "device transition failed",
			"request_id", requestcontext.RequestID(ctx),
			"device_id", deviceID.String(),
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "device update failed"))
		return
	}

	shared.WriteJSON(w, http.StatusOK, device)
}
