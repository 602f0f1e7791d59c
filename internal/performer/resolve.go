package performer

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"

	"github.com/gigslk/backend/internal/db"
)

// ErrNotFound reports that an artist identifier matched neither a
// performer row id nor an owning user id.
var ErrNotFound = errors.New("performer not found")

// Resolve maps a dual-keyed artist identifier to the performer row id.
// Incoming ids may be either performers.id or the owning users.id;
// the performer id takes precedence.
func Resolve(ctx context.Context, id int64) (int64, error) {
	if id <= 0 {
		return 0, ErrNotFound
	}

	var performerID int64
	err := db.Conn.QueryRow(ctx, `SELECT id FROM performers WHERE id = $1`, id).Scan(&performerID)
	if err == nil {
		return performerID, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, err
	}

	err = db.Conn.QueryRow(ctx, `SELECT id FROM performers WHERE user_id = $1`, id).Scan(&performerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return performerID, nil
}

// ResolveParam resolves a raw path or body value. Non-numeric input is
// treated as not found, matching the lenient behavior of the HTTP API.
func ResolveParam(ctx context.Context, raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, ErrNotFound
	}
	return Resolve(ctx, id)
}

// UserID returns the owning user id for a performer row.
func UserID(ctx context.Context, performerID int64) (int64, error) {
	var userID int64
	err := db.Conn.QueryRow(ctx, `SELECT user_id FROM performers WHERE id = $1`, performerID).Scan(&userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return userID, nil
}
