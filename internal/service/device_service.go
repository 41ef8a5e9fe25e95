package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ticket-scanner-server/internal/domain"
	"ticket-scanner-server/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type DeviceService struct {
	repo   repository.DeviceRepository
	logger *zap.Logger
	now    func() time.Time
}

func NewDeviceService(repo repository.DeviceRepository, logger *zap.Logger) *DeviceService {
	return &DeviceService{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// resolve returns the device registered for uniqueID, or a new unsaved one,
// with LastLogin set to now.
func (s *DeviceService) resolve(ctx context.Context, uniqueID, brand, model string) (*domain.Device, error) {
	now := s.now()

	device, err := s.repo.FindByUniqueID(ctx, uniqueID)
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrNotFound):
		device = &domain.Device{
			ID:        uuid.New().String(),
			UniqueID:  uniqueID,
			Brand:     brand,
			Model:     model,
			CreatedAt: now,
		}
	default:
		return nil, fmt.Errorf("failed to look up device: %w", err)
	}

	device.LastLogin = now
	return device, nil
}

// FindOrMake returns the single device for uniqueID, creating it on first
// sight. Repeated calls only advance LastLogin.
func (s *DeviceService) FindOrMake(ctx context.Context, uniqueID, brand, model string) (*domain.Device, error) {
	device, err := s.resolve(ctx, uniqueID, brand, model)
	if err != nil {
		return nil, err
	}

	if err := s.Save(ctx, device); err != nil {
		return nil, err
	}

	return device, nil
}

func (s *DeviceService) Save(ctx context.Context, device *domain.Device) error {
	if err := s.repo.Save(ctx, device); err != nil {
		return fmt.Errorf("failed to save device: %w", err)
	}
	return nil
}

func (s *DeviceService) FindByID(ctx context.Context, deviceID string) (*domain.Device, error) {
	device, err := s.repo.FindByID(ctx, deviceID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return device, nil
}

// FindOwned loads a device and checks it belongs to userID.
func (s *DeviceService) FindOwned(ctx context.Context, userID, deviceID string) (*domain.Device, error) {
	device, err := s.FindByID(ctx, deviceID)
	if err != nil {
		return nil, err
	}

	if device.OwnerID != userID {
		return nil, ErrForbidden
	}

	return device, nil
}

func (s *DeviceService) List(ctx context.Context, userID string) ([]*domain.DeviceResponse, error) {
	devices, err := s.repo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}

	responses := make([]*domain.DeviceResponse, 0, len(devices))
	for _, d := range devices {
		responses = append(responses, d.ToResponse())
	}

	return responses, nil
}

// InvalidateToken clears the stored token, signing the device out. A new
// login payload can then be generated for it.
func (s *DeviceService) InvalidateToken(ctx context.Context, userID, deviceID string) error {
	device, err := s.FindOwned(ctx, userID, deviceID)
	if err != nil {
		return err
	}

	device.Token = ""
	if err := s.Save(ctx, device); err != nil {
		return err
	}

	s.logger.Info("device token invalidated",
		zap.String("user_id", userID),
		zap.String("device_id", deviceID),
	)

	return nil
}
