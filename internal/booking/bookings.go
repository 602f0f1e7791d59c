package booking

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/gigslk/backend/internal/db"
	"github.com/gigslk/backend/internal/notify"
	"github.com/gigslk/backend/internal/performer"
)

type CreateRequest struct {
	ArtistID      int64   `json:"artist_id"`
	HostID        int64   `json:"host_id"`
	EventDate     string  `json:"event_date"`
	EventTime     string  `json:"event_time"`
	EventLocation string  `json:"event_location"`
	Notes         string  `json:"notes"`
	Price         float64 `json:"price"`
	PaymentMethod string  `json:"payment_method"`
}

// Create inserts a confirmed booking. The artist id may be either a
// performer row id or a user id; the artist notification is
// best-effort and never fails the request.
func Create(c echo.Context) error {
	req := new(CreateRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request body."})
	}
	if req.ArtistID == 0 || req.HostID == 0 || req.EventDate == "" || req.EventTime == "" || req.EventLocation == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Missing required fields"})
	}

	ctx := c.Request().Context()

	performerID, err := performer.Resolve(ctx, req.ArtistID)
	if errors.Is(err, performer.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Artist not found."})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error", "error": err.Error()})
	}

	var bookingID int64
	err = db.Conn.QueryRow(ctx,
		`INSERT INTO bookings (artist_id, host_id, event_date, event_time, event_location, notes, price, payment_method)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
		performerID, req.HostID, req.EventDate, req.EventTime, req.EventLocation,
		req.Notes, req.Price, req.PaymentMethod,
	).Scan(&bookingID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error", "error": err.Error()})
	}

	if artistUserID, err := performer.UserID(ctx, performerID); err != nil {
		slog.Warn("notification insert skipped", "error", err)
	} else {
		text := fmt.Sprintf("You have been booked by Host #%d for %s on %s at %s.",
			req.HostID, req.EventLocation, req.EventDate, req.EventTime)
		if err := notify.Create(ctx, artistUserID, "booking", text, nil); err != nil {
			slog.Warn("notification insert skipped", "error", err)
		}
	}

	return c.JSON(http.StatusCreated, echo.Map{"message": "Booking created", "bookingId": bookingID})
}

// Notifications is kept as a stub; the in-app feed lives under
// /api/notifications.
func Notifications(c echo.Context) error {
	if c.QueryParam("user_id") == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Missing user_id"})
	}
	return c.JSON(http.StatusOK, []any{})
}

// ArtistMonthlyStats is a stub kept for frontend compatibility.
func ArtistMonthlyStats(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"stats": []any{}})
}

// noRows reports whether err is a no-rows miss.
func noRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
