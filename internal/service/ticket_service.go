package service

import (
	"context"
	"fmt"
	"time"

	"ticket-scanner-server/internal/domain"
	"ticket-scanner-server/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const attendeeDateLayout = "02-01-2006 15:04:05"

// ScanPublisher pushes processed scans to a user's other connected devices.
type ScanPublisher interface {
	PublishScan(userID, deviceID string, result *domain.ValidationResult) error
}

type TicketService struct {
	validator CodeValidator
	attendees AttendeeActions
	logRepo   repository.CheckInLogRepository
	publisher ScanPublisher
	logger    *zap.Logger
	now       func() time.Time
}

func NewTicketService(validator CodeValidator, attendees AttendeeActions, logRepo repository.CheckInLogRepository, publisher ScanPublisher, logger *zap.Logger) *TicketService {
	return &TicketService{
		validator: validator,
		attendees: attendees,
		logRepo:   logRepo,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// Validate runs a scanned code through the validator, records the attempt
// and applies the check-in or check-out the result calls for. Failure codes
// are returned as results, not errors.
func (s *TicketService) Validate(ctx context.Context, principal *Principal, req *domain.ValidateTicketRequest) (*domain.ValidationResult, error) {
	check, err := s.validator.Validate(ctx, req.Ticket, req.EventID)
	if err != nil {
		return nil, err
	}

	result := check.Result

	s.record(ctx, principal, req.Ticket, check)

	if attendee := check.Attendee; attendee != nil {
		result.Attendee = &domain.AttendeeSummary{
			Name:   attendee.Name,
			Ticket: attendee.TicketTitle,
			Event:  attendee.EventTitle,
			Date:   s.now().Format(attendeeDateLayout),
			Type:   string(result.Code),
			ID:     uuid.New().String(),
		}
	}

	switch result.Code {
	case domain.CodeCheckOutSuccess:
		if err := s.attendees.CheckOut(ctx, check.Attendee); err != nil {
			return nil, fmt.Errorf("check-out failed: %w", err)
		}
	case domain.CodeCheckInSuccess:
		if err := s.attendees.CheckIn(ctx, check.Attendee); err != nil {
			return nil, fmt.Errorf("check-in failed: %w", err)
		}
	}

	s.publish(principal, &result)

	return &result, nil
}

// record writes the audit entry. Errors are logged and dropped.
func (s *TicketService) record(ctx context.Context, principal *Principal, code string, check *CodeCheck) {
	entry := &domain.CheckInLog{
		ID:         uuid.New().String(),
		Code:       code,
		ResultCode: check.Result.Code,
		Message:    check.Result.Message,
		ResultType: check.Result.Type,
		CreatedAt:  s.now(),
	}
	if check.Attendee != nil {
		entry.AttendeeID = check.Attendee.ID
	}
	if principal != nil {
		entry.UserID = principal.User.ID
		entry.DeviceID = principal.Device.ID
	}

	if err := s.logRepo.Create(ctx, entry); err != nil {
		s.logger.Warn("failed to record check-in attempt",
			zap.String("result_code", string(entry.ResultCode)),
			zap.Error(err),
		)
	}
}

func (s *TicketService) publish(principal *Principal, result *domain.ValidationResult) {
	if s.publisher == nil || principal == nil {
		return
	}
	if err := s.publisher.PublishScan(principal.User.ID, principal.Device.ID, result); err != nil {
		s.logger.Warn("failed to publish scan", zap.Error(err))
	}
}
