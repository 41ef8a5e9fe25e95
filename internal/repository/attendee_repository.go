package repository

import (
	"context"
	"errors"
	"fmt"

	"ticket-scanner-server/internal/domain"

	"github.com/go-kivik/kivik/v4"
)

type AttendeeRepository interface {
	FindByTicketCode(ctx context.Context, code string) (*domain.Attendee, error)
	Save(ctx context.Context, attendee *domain.Attendee) error
}

type attendeeRepository struct {
	client *kivik.Client
	dbName string
}

func NewAttendeeRepository(client *kivik.Client, dbName string) AttendeeRepository {
	return &attendeeRepository{
		client: client,
		dbName: dbName,
	}
}

func (r *attendeeRepository) FindByTicketCode(ctx context.Context, code string) (*domain.Attendee, error) {
	db := r.client.DB(r.dbName)

	var attendee domain.Attendee
	if err := findOne(ctx, db, map[string]interface{}{"ticket_code": code}, &attendee); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to query attendee by ticket code: %w", err)
	}

	return &attendee, nil
}

func (r *attendeeRepository) Save(ctx context.Context, attendee *domain.Attendee) error {
	db := r.client.DB(r.dbName)

	if err := upsert(ctx, db, docID("attendee", attendee.ID), attendee); err != nil {
		return fmt.Errorf("failed to save attendee: %w", err)
	}

	return nil
}
