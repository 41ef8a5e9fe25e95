package service

import (
	"context"
	"fmt"
	"time"

	"ticket-scanner-server/internal/domain"
	"ticket-scanner-server/internal/repository"
)

// AttendeeActions applies check-in state changes to an attendee.
type AttendeeActions interface {
	CheckIn(ctx context.Context, attendee *domain.Attendee) error
	CheckOut(ctx context.Context, attendee *domain.Attendee) error
}

type AttendeeService struct {
	repo repository.AttendeeRepository
	now  func() time.Time
}

func NewAttendeeService(repo repository.AttendeeRepository) *AttendeeService {
	return &AttendeeService{
		repo: repo,
		now:  time.Now,
	}
}

func (s *AttendeeService) CheckIn(ctx context.Context, attendee *domain.Attendee) error {
	now := s.now()
	attendee.CheckedIn = true
	attendee.CheckedInAt = &now

	if err := s.repo.Save(ctx, attendee); err != nil {
		return fmt.Errorf("failed to check in attendee: %w", err)
	}
	return nil
}

func (s *AttendeeService) CheckOut(ctx context.Context, attendee *domain.Attendee) error {
	now := s.now()
	attendee.CheckedIn = false
	attendee.CheckedOutAt = &now

	if err := s.repo.Save(ctx, attendee); err != nil {
		return fmt.Errorf("failed to check out attendee: %w", err)
	}
	return nil
}
