package gigrequest

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/gigslk/backend/internal/chat"
	"github.com/gigslk/backend/internal/db"
	"github.com/gigslk/backend/internal/notify"
)

// Create files a pending join request for a gig, notifies the host and
// mirrors the notice into the chat thread.
func Create(c echo.Context) error {
	artistUserID, ok := c.Get("user_id").(int64)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthorized."})
	}
	gigID, err := strconv.ParseInt(c.Param("gigId"), 10, 64)
	if err != nil || gigID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid gig id."})
	}

	ctx := c.Request().Context()

	var (
		hostID   int64
		gigTitle string
	)
	err = db.Conn.QueryRow(ctx, `SELECT host_id, title FROM gigs WHERE id = $1`, gigID).Scan(&hostID, &gigTitle)
	if errors.Is(err, pgx.ErrNoRows) {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Gig not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error", "error": err.Error()})
	}

	var performerID int64
	err = db.Conn.QueryRow(ctx, `SELECT id FROM performers WHERE user_id = $1`, artistUserID).Scan(&performerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Performer not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error", "error": err.Error()})
	}

	var requestID int64
	err = db.Conn.QueryRow(ctx,
		`INSERT INTO gig_requests (gig_id, performer_id, status) VALUES ($1, $2, 'pending') RETURNING id`,
		gigID, performerID,
	).Scan(&requestID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error", "error": err.Error()})
	}

	var hostUserID int64
	err = db.Conn.QueryRow(ctx, `SELECT user_id FROM hosts WHERE id = $1`, hostID).Scan(&hostUserID)
	if errors.Is(err, pgx.ErrNoRows) {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Host not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error", "error": err.Error()})
	}

	artistName := fmt.Sprintf("Artist #%d", artistUserID)
	var username string
	if err := db.Conn.QueryRow(ctx, `SELECT username FROM users WHERE id = $1`, artistUserID).Scan(&username); err == nil {
		artistName = username
	}

	notifText := fmt.Sprintf("%s requested to join your gig '%s'. Accept or reject?", artistName, gigTitle)
	if err := notify.Create(ctx, hostUserID, "gig_request", notifText, &requestID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error", "error": err.Error()})
	}
	if err := chat.Send(ctx, artistUserID, hostUserID, notifText); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error", "error": err.Error()})
	}

	return c.JSON(http.StatusCreated, echo.Map{"message": "Request sent and host notified."})
}

type respondRequest struct {
	Response string `json:"response"`
}

// Respond records the host's accept/reject decision. Acceptance writes
// the booking summary into both chat directions and notifies the
// artist; retries re-send those side effects (at-least-once).
func Respond(c echo.Context) error {
	requestID, err := strconv.ParseInt(c.Param("requestId"), 10, 64)
	if err != nil || requestID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request id."})
	}

	req := new(respondRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request body."})
	}
	if req.Response != "accepted" && req.Response != "rejected" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": `Invalid response. Must be "accepted" or "rejected".`})
	}

	ctx := c.Request().Context()

	tag, err := db.Conn.Exec(ctx, `UPDATE gig_requests SET status = $1 WHERE id = $2`, req.Response, requestID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error", "error": err.Error()})
	}
	if tag.RowsAffected() == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Request not found"})
	}

	if req.Response == "rejected" {
		return c.JSON(http.StatusOK, echo.Map{"message": "Response recorded."})
	}

	var (
		performerID   int64
		hostID        int64
		title         string
		description   string
		eventLocation string
		eventDate     time.Time
		eventTime     string
		budgetMin     float64
		budgetMax     float64
	)
	err = db.Conn.QueryRow(ctx,
		`SELECT gr.performer_id, g.host_id, g.title, COALESCE(g.description, ''),
		        COALESCE(g.event_location, ''), g.event_date, COALESCE(g.event_time, ''),
		        COALESCE(g.budget_min, 0), COALESCE(g.budget_max, 0)
		 FROM gig_requests gr
		 JOIN gigs g ON gr.gig_id = g.id
		 WHERE gr.id = $1`, requestID,
	).Scan(&performerID, &hostID, &title, &description, &eventLocation, &eventDate, &eventTime, &budgetMin, &budgetMax)
	if errors.Is(err, pgx.ErrNoRows) {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Gig request not found."})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error", "error": err.Error()})
	}

	var performerUserID int64
	err = db.Conn.QueryRow(ctx, `SELECT user_id FROM performers WHERE id = $1`, performerID).Scan(&performerUserID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Performer user not found.", "error": err.Error()})
	}
	var hostUserID int64
	err = db.Conn.QueryRow(ctx, `SELECT user_id FROM hosts WHERE id = $1`, hostID).Scan(&hostUserID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Host user not found.", "error": err.Error()})
	}

	summary := fmt.Sprintf(
		"Booking Confirmed!\nEvent: %s\nDate: %s at %s\nVenue: %s\nBudget: Rs. %.2f - %.2f\nDetails: %s",
		title, eventDate.Format("2006-01-02"), eventTime, eventLocation, budgetMin, budgetMax, description,
	)
	if err := chat.Send(ctx, hostUserID, performerUserID, summary); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error", "error": err.Error()})
	}
	if err := chat.Send(ctx, performerUserID, hostUserID, summary); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error", "error": err.Error()})
	}
	if err := notify.Create(ctx, performerUserID, "booking",
		"Your request was accepted! See chat for booking details.", nil); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error", "error": err.Error()})
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Request accepted, chat and notification sent."})
}
