package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ticket-scanner-server/internal/domain"
	"ticket-scanner-server/internal/repository"
)

// CodeCheck is the outcome of validating a ticket code. Attendee is set
// whenever the code resolved to one, whatever the result code.
type CodeCheck struct {
	Result   domain.ValidationResult
	Attendee *domain.Attendee
}

// CodeValidator decides the result code for a scanned ticket. It must not
// change attendee state.
type CodeValidator interface {
	Validate(ctx context.Context, code, eventID string) (*CodeCheck, error)
}

type CheckInValidator struct {
	repo          repository.AttendeeRepository
	allowCheckOut bool
	now           func() time.Time
}

func NewCheckInValidator(repo repository.AttendeeRepository, allowCheckOut bool) *CheckInValidator {
	return &CheckInValidator{
		repo:          repo,
		allowCheckOut: allowCheckOut,
		now:           time.Now,
	}
}

func (v *CheckInValidator) Validate(ctx context.Context, code, eventID string) (*CodeCheck, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return reject(domain.CodeNoCode, "No code given", nil), nil
	}

	attendee, err := v.repo.FindByTicketCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return reject(domain.CodeNotFound, "The given code could not be found", nil), nil
		}
		return nil, fmt.Errorf("failed to look up ticket code: %w", err)
	}

	switch {
	case attendee.Cancelled:
		return reject(domain.CodeTicketCancelled, "This ticket is cancelled", attendee), nil
	case eventID != "" && attendee.EventID != eventID:
		return reject(domain.CodeWrongEvent, "This ticket is for a different event", attendee), nil
	case attendee.ValidFrom != nil && v.now().Before(*attendee.ValidFrom):
		return &CodeCheck{
			Result: domain.ValidationResult{
				Code:    domain.CodeNotYetValid,
				Message: "This ticket is not valid yet",
				Type:    domain.TypeWarning,
			},
			Attendee: attendee,
		}, nil
	case attendee.CheckedIn && v.allowCheckOut:
		return &CodeCheck{
			Result: domain.ValidationResult{
				Code:    domain.CodeCheckOutSuccess,
				Message: fmt.Sprintf("%s is checked out", attendee.Name),
				Type:    domain.TypeWarning,
			},
			Attendee: attendee,
		}, nil
	case attendee.CheckedIn:
		return reject(domain.CodeAlreadyCheckedIn, "This ticket is already checked in", attendee), nil
	}

	return &CodeCheck{
		Result: domain.ValidationResult{
			Code:    domain.CodeCheckInSuccess,
			Message: fmt.Sprintf("%s is checked in", attendee.Name),
			Type:    domain.TypeGood,
		},
		Attendee: attendee,
	}, nil
}

func reject(code domain.ResultCode, message string, attendee *domain.Attendee) *CodeCheck {
	return &CodeCheck{
		Result: domain.ValidationResult{
			Code:    code,
			Message: message,
			Type:    domain.TypeBad,
		},
		Attendee: attendee,
	}
}
