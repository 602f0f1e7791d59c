package review

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/gigslk/backend/internal/db"
	"github.com/gigslk/backend/internal/performer"
)

// AddReview records a review of an artist and recomputes the artist's
// rating aggregate in the same statement batch. Hosts must have a
// completed booking with the artist before reviewing.
func AddReview(c echo.Context) error {
	artistID, err := performer.ResolveParam(c.Request().Context(), c.Param("artistId"))
	if errors.Is(err, performer.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Artist not found."})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error", "error": err.Error()})
	}

	req := new(AddReviewRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request body."})
	}
	switch req.ReviewerRole {
	case "host", "artist", "performer":
	default:
		return c.JSON(http.StatusForbidden, echo.Map{"message": "Only hosts or artists can review artists."})
	}
	if req.ReviewerID == 0 || req.Rating < 1 || req.Rating > 5 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Reviewer id and a rating between 1 and 5 are required."})
	}

	ctx := c.Request().Context()

	if req.ReviewerRole == "host" {
		if req.BookingID != 0 {
			var count int64
			err = db.Conn.QueryRow(ctx,
				`SELECT COUNT(*) FROM bookings WHERE id = $1 AND artist_id = $2 AND host_id = $3`,
				req.BookingID, artistID, req.ReviewerID,
			).Scan(&count)
			if err != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error", "error": err.Error()})
			}
			if count == 0 {
				return c.JSON(http.StatusForbidden, echo.Map{"message": "Invalid booking reference for this review."})
			}
		} else {
			var count int64
			err = db.Conn.QueryRow(ctx,
				`SELECT COUNT(*) FROM bookings WHERE artist_id = $1 AND host_id = $2`,
				artistID, req.ReviewerID,
			).Scan(&count)
			if err != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error", "error": err.Error()})
			}
			if count == 0 {
				return c.JSON(http.StatusForbidden, echo.Map{"message": "You must have a booking with this artist to review."})
			}
		}
	}

	tx, err := db.Conn.Begin(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error", "error": err.Error()})
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO artist_reviews (artist_id, reviewer_id, reviewer_role, rating, review_text)
		 VALUES ($1, $2, $3, $4, $5)`,
		artistID, req.ReviewerID, req.ReviewerRole, req.Rating, req.ReviewText,
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error", "error": err.Error()})
	}

	_, err = tx.Exec(ctx,
		`UPDATE performers SET average_rating = s.avg_rating, total_reviews = s.total
		 FROM (SELECT COALESCE(AVG(rating), 0) AS avg_rating, COUNT(*) AS total
		       FROM artist_reviews WHERE artist_id = $1) s
		 WHERE performers.id = $1`,
		artistID,
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error", "error": err.Error()})
	}

	if err := tx.Commit(ctx); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error", "error": err.Error()})
	}

	return c.JSON(http.StatusCreated, echo.Map{"message": "Review added and rating updated."})
}

// ListArtistReviews returns all reviews targeting one artist, newest
// first. The artist id may be a performer row id or a user id.
func ListArtistReviews(c echo.Context) error {
	ctx := c.Request().Context()

	artistID, err := performer.ResolveParam(ctx, c.Param("artistId"))
	if errors.Is(err, performer.ErrNotFound) {
		// Keep the raw id so an artist with no profile row still
		// returns an empty list rather than a 404.
		artistID, err = strconv.ParseInt(c.Param("artistId"), 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid artist id."})
		}
	} else if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error", "error": err.Error()})
	}

	rows, err := db.Conn.Query(ctx,
		`SELECT r.id, r.artist_id, r.reviewer_id, r.reviewer_role, r.rating,
		        COALESCE(r.review_text, ''), r.created_at, r.updated_at,
		        COALESCE(u.username, '')
		 FROM artist_reviews r
		 LEFT JOIN users u ON u.id = r.reviewer_id
		 WHERE r.artist_id = $1
		 ORDER BY r.created_at DESC`, artistID,
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error", "error": err.Error()})
	}
	defer rows.Close()

	reviews := make([]Review, 0)
	for rows.Next() {
		var r Review
		var updated sql.NullTime
		if err := rows.Scan(&r.ID, &r.ArtistID, &r.ReviewerID, &r.ReviewerRole, &r.Rating,
			&r.ReviewText, &r.CreatedAt, &updated, &r.ReviewerName); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error", "error": err.Error()})
		}
		r.UpdatedAt = nullableTime(updated)
		reviews = append(reviews, r)
	}
	if err := rows.Err(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error", "error": err.Error()})
	}

	return c.JSON(http.StatusOK, echo.Map{"reviews": reviews})
}

// CanReview tells the frontend whether a host is eligible to review an
// artist and how many completed bookings back that eligibility.
func CanReview(c echo.Context) error {
	hostID := c.QueryParam("host_id")
	if hostID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Host ID is required."})
	}

	ctx := c.Request().Context()

	artistID, err := performer.ResolveParam(ctx, c.Param("artistId"))
	if errors.Is(err, performer.ErrNotFound) {
		return c.JSON(http.StatusOK, echo.Map{
			"canReview":         false,
			"completedBookings": 0,
			"message":           "Artist not found.",
		})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error", "error": err.Error()})
	}

	var completed int64
	err = db.Conn.QueryRow(ctx,
		`SELECT COUNT(*) FROM bookings
		 WHERE artist_id = $1 AND host_id = $2 AND event_date < CURRENT_DATE`,
		artistID, hostID,
	).Scan(&completed)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error", "error": err.Error()})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"canReview":         completed > 0,
		"completedBookings": completed,
	})
}

// nullableTime converts a driver timestamp into *time.Time for JSON.
func nullableTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
