package repository

import (
	"context"
	"fmt"

	"github.com/go-kivik/kivik/v4"
)

// EnsureIndexes creates the Mango indexes backing the lookup selectors.
// CreateIndex is idempotent for an unchanged definition.
func EnsureIndexes(ctx context.Context, client *kivik.Client, dbName string) error {
	db := client.DB(dbName)

	indexes := map[string][]string{
		"user-email":         {"email"},
		"device-unique-id":   {"unique_id"},
		"device-owner":       {"owner_id"},
		"attendee-ticket":    {"ticket_code"},
		"checkin-log-device": {"device_id", "created_at"},
	}

	for name, fields := range indexes {
		index := map[string]interface{}{"fields": fields}
		if err := db.CreateIndex(ctx, "scanner-indexes", name, index); err != nil {
			return fmt.Errorf("failed to create index %s: %w", name, err)
		}
	}

	return nil
}
