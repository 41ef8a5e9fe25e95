package repository

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-kivik/kivik/v4"
)

var ErrNotFound = errors.New("not found")

func docID(kind, id string) string {
	return fmt.Sprintf("%s:%s", kind, id)
}

func isNotFound(err error) bool {
	return kivik.HTTPStatus(err) == http.StatusNotFound
}

// upsert writes doc under id, carrying the current revision when the
// document already exists.
func upsert(ctx context.Context, db *kivik.DB, id string, doc interface{}) error {
	rev, err := db.GetRev(ctx, id)
	if err != nil && !isNotFound(err) {
		return err
	}

	if rev == "" {
		_, err = db.Put(ctx, id, doc)
		return err
	}

	_, err = db.Put(ctx, id, doc, kivik.Rev(rev))
	return err
}

func get(ctx context.Context, db *kivik.DB, id string, dest interface{}) error {
	if err := db.Get(ctx, id).ScanDoc(dest); err != nil {
		if isNotFound(err) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// findOne scans the first document matching selector into dest.
func findOne(ctx context.Context, db *kivik.DB, selector map[string]interface{}, dest interface{}) error {
	query := map[string]interface{}{
		"selector": selector,
		"limit":    1,
	}

	rows := db.Find(ctx, query)
	if err := rows.Err(); err != nil {
		return err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return err
		}
		return ErrNotFound
	}

	return rows.ScanDoc(dest)
}
