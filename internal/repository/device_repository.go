package repository

import (
	"context"
	"errors"
	"fmt"

	"ticket-scanner-server/internal/domain"

	"github.com/go-kivik/kivik/v4"
)

type DeviceRepository interface {
	FindByID(ctx context.Context, deviceID string) (*domain.Device, error)
	FindByUniqueID(ctx context.Context, uniqueID string) (*domain.Device, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Device, error)
	Save(ctx context.Context, device *domain.Device) error
}

type deviceRepository struct {
	client *kivik.Client
	dbName string
}

func NewDeviceRepository(client *kivik.Client, dbName string) DeviceRepository {
	return &deviceRepository{
		client: client,
		dbName: dbName,
	}
}

func (r *deviceRepository) FindByID(ctx context.Context, deviceID string) (*domain.Device, error) {
	db := r.client.DB(r.dbName)

	var device domain.Device
	if err := get(ctx, db, docID("device", deviceID), &device); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to find device: %w", err)
	}

	return &device, nil
}

func (r *deviceRepository) FindByUniqueID(ctx context.Context, uniqueID string) (*domain.Device, error) {
	db := r.client.DB(r.dbName)

	var device domain.Device
	if err := findOne(ctx, db, map[string]interface{}{"unique_id": uniqueID}, &device); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to query device by unique id: %w", err)
	}

	return &device, nil
}

func (r *deviceRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Device, error) {
	db := r.client.DB(r.dbName)

	query := map[string]interface{}{
		"selector": map[string]interface{}{
			"owner_id":  ownerID,
			"unique_id": map[string]interface{}{"$exists": true},
		},
	}

	rows := db.Find(ctx, query)
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}
	defer rows.Close()

	var devices []*domain.Device
	for rows.Next() {
		var device domain.Device
		if err := rows.ScanDoc(&device); err != nil {
			continue // Skip malformed docs
		}
		devices = append(devices, &device)
	}

	return devices, rows.Err()
}

func (r *deviceRepository) Save(ctx context.Context, device *domain.Device) error {
	db := r.client.DB(r.dbName)

	if err := upsert(ctx, db, docID("device", device.ID), device); err != nil {
		return fmt.Errorf("failed to save device: %w", err)
	}

	return nil
}
