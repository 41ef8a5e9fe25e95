package repository

import (
	"context"
	"fmt"

	"ticket-scanner-server/internal/domain"

	"github.com/go-kivik/kivik/v4"
)

type CheckInLogRepository interface {
	Create(ctx context.Context, entry *domain.CheckInLog) error
}

type checkInLogRepository struct {
	client *kivik.Client
	dbName string
}

func NewCheckInLogRepository(client *kivik.Client, dbName string) CheckInLogRepository {
	return &checkInLogRepository{
		client: client,
		dbName: dbName,
	}
}

func (r *checkInLogRepository) Create(ctx context.Context, entry *domain.CheckInLog) error {
	db := r.client.DB(r.dbName)

	if _, err := db.Put(ctx, docID("checkin_log", entry.ID), entry); err != nil {
		return fmt.Errorf("failed to create check-in log: %w", err)
	}

	return nil
}
