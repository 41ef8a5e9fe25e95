package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"ticket-scanner-server/internal/domain"
	"ticket-scanner-server/internal/middleware"
	"ticket-scanner-server/internal/service"
	"ticket-scanner-server/pkg/response"

	"go.uber.org/zap"
)

type TicketHandler struct {
	ticketService *service.TicketService
	logger        *zap.Logger
}

func NewTicketHandler(ticketService *service.TicketService, logger *zap.Logger) *TicketHandler {
	return &TicketHandler{
		ticketService: ticketService,
		logger:        logger,
	}
}

// Validate expects the auth middleware in front of it. A request without a
// ticket code is rejected like an unauthenticated one.
func (h *TicketHandler) Validate(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipal(r)

	var req domain.ValidateTicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || principal == nil || strings.TrimSpace(req.Ticket) == "" {
		response.UnauthorizedCode(w, middleware.MsgAuthenticationFailed)
		return
	}

	result, err := h.ticketService.Validate(r.Context(), principal, &req)
	if err != nil {
		h.logger.Error("ticket validation failed",
			zap.String("device_id", principal.Device.ID),
			zap.Error(err),
		)
		response.JSON(w, http.StatusInternalServerError, &domain.ValidationResult{
			Code:    domain.CodeError,
			Message: MsgInternalError,
			Type:    domain.TypeBad,
		})
		return
	}

	response.Success(w, result)
}
