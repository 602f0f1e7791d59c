package notify

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/gigslk/backend/internal/db"
)

type Notification struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Text      string    `json:"text"`
	IsRead    bool      `json:"is_read"`
	RequestID *int64    `json:"request_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Create inserts an in-app notification row. Callers decide whether a
// failure is fatal; booking flows treat it as best-effort.
func Create(ctx context.Context, userID int64, typ, text string, requestID *int64) error {
	_, err := db.Conn.Exec(ctx,
		`INSERT INTO notifications (id, user_id, type, text, is_read, request_id)
		 VALUES ($1, $2, $3, $4, FALSE, $5)`,
		uuid.New().String(), userID, typ, text, requestID,
	)
	return err
}

// List returns the authenticated user's notifications, newest first.
func List(c echo.Context) error {
	userID, ok := c.Get("user_id").(int64)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthorized."})
	}

	ctx := c.Request().Context()
	rows, err := db.Conn.Query(ctx,
		`SELECT id, type, text, is_read, request_id, created_at
		 FROM notifications WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to load notifications", "error": err.Error()})
	}
	defer rows.Close()

	items := []Notification{}
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.Type, &n.Text, &n.IsRead, &n.RequestID, &n.CreatedAt); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to load notifications", "error": err.Error()})
		}
		items = append(items, n)
	}

	return c.JSON(http.StatusOK, echo.Map{"notifications": items})
}

// MarkRead flags one of the user's notifications as read.
func MarkRead(c echo.Context) error {
	userID, ok := c.Get("user_id").(int64)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthorized."})
	}
	id := c.Param("id")
	if id == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Missing notification id."})
	}

	tag, err := db.Conn.Exec(c.Request().Context(),
		`UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to mark notification read", "error": err.Error()})
	}
	if tag.RowsAffected() == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Notification not found."})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Notification marked read."})
}
