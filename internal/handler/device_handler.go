package handler

import (
	"errors"
	"net/http"

	"ticket-scanner-server/internal/middleware"
	"ticket-scanner-server/internal/service"
	"ticket-scanner-server/pkg/response"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type DeviceHandler struct {
	deviceService *service.DeviceService
	authService   *service.AuthService
	logger        *zap.Logger
}

func NewDeviceHandler(deviceService *service.DeviceService, authService *service.AuthService, logger *zap.Logger) *DeviceHandler {
	return &DeviceHandler{
		deviceService: deviceService,
		authService:   authService,
		logger:        logger,
	}
}

func (h *DeviceHandler) List(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipal(r)

	devices, err := h.deviceService.List(r.Context(), principal.User.ID)
	if err != nil {
		h.logger.Error("failed to list devices", zap.Error(err))
		response.InternalError(w, "Failed to list devices")
		return
	}

	response.Success(w, devices)
}

// Invalidate clears a device token; the device has to log in again.
func (h *DeviceHandler) Invalidate(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipal(r)
	deviceID := mux.Vars(r)["id"]

	if err := h.deviceService.InvalidateToken(r.Context(), principal.User.ID, deviceID); err != nil {
		h.writeError(w, err)
		return
	}

	response.Success(w, map[string]string{"message": "A new login QR code can now be created"})
}

// LoginPayload returns the data of a device login QR code.
func (h *DeviceHandler) LoginPayload(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipal(r)
	deviceID := mux.Vars(r)["id"]

	payload, err := h.authService.LoginPayload(r.Context(), principal.User.ID, deviceID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.Success(w, payload)
}

func (h *DeviceHandler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		response.NotFound(w, "Device not found")
	case errors.Is(err, service.ErrForbidden):
		response.Forbidden(w, "Device does not belong to user")
	case errors.Is(err, service.ErrTokenAlreadyIssued):
		response.Conflict(w, "Device already has a token, invalidate it first")
	case errors.Is(err, service.ErrServerMisconfigured):
		h.logger.Error("device token issuance failed: server misconfigured", zap.Error(err))
		response.InternalError(w, MsgServerSetup)
	default:
		h.logger.Error("device request failed", zap.Error(err))
		response.InternalError(w, MsgInternalError)
	}
}
