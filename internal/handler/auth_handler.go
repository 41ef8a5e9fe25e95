package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"ticket-scanner-server/internal/domain"
	"ticket-scanner-server/internal/service"
	"ticket-scanner-server/pkg/response"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authService *service.AuthService
	validator   *validator.Validate
	logger      *zap.Logger
}

func NewAuthHandler(authService *service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validator:   validator.New(),
		logger:      logger,
	}
}

// Authenticate logs a scanning device in with user credentials. Malformed
// bodies and missing fields get the same 401 as a wrong password.
func (h *AuthHandler) Authenticate(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Unauthorized(w, MsgWrongAuthentication)
		return
	}

	if err := h.validator.Struct(req); err != nil {
		response.Unauthorized(w, MsgWrongAuthentication)
		return
	}

	loginResp, err := h.authService.Login(r.Context(), &req)
	switch {
	case err == nil:
		response.Success(w, loginResp)
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Unauthorized(w, MsgWrongAuthentication)
	case errors.Is(err, service.ErrPermissionDenied):
		response.Unauthorized(w, MsgUserPermissions)
	case errors.Is(err, service.ErrServerMisconfigured):
		h.logger.Error("login failed: server misconfigured", zap.Error(err))
		response.InternalError(w, MsgServerSetup)
	default:
		h.logger.Error("login failed", zap.Error(err))
		response.InternalError(w, MsgInternalError)
	}
}

// ValidateToken answers whether the bearer token is still the current one
// for its device.
func (h *AuthHandler) ValidateToken(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.authService.Authenticate(r.Context(), r); !ok {
		response.JSON(w, http.StatusUnauthorized, false)
		return
	}
	response.Success(w, true)
}
