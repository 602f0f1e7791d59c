package review

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/gigslk/backend/internal/db"
)

// ListHostReviews returns every artist review a host has written,
// joined with the target artist's display name and avatar.
func ListHostReviews(c echo.Context) error {
	hostID, err := strconv.ParseInt(c.Param("hostId"), 10, 64)
	if err != nil || hostID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid host id."})
	}

	rows, err := db.Conn.Query(c.Request().Context(),
		`SELECT r.id, r.artist_id, r.reviewer_id, r.reviewer_role, r.rating,
		        COALESCE(r.review_text, ''), r.created_at, r.updated_at,
		        COALESCE(u.username, ''),
		        COALESCE(p.stage_name, COALESCE(p.full_name, '')),
		        COALESCE(p.profile_picture_url, '')
		 FROM artist_reviews r
		 LEFT JOIN users u ON u.id = r.reviewer_id
		 LEFT JOIN performers p ON p.id = r.artist_id
		 WHERE r.reviewer_id = $1 AND r.reviewer_role = 'host'
		 ORDER BY r.created_at DESC`, hostID,
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
			&r.ReviewText, &r.CreatedAt, &updated, &r.ReviewerName, &r.ArtistName, &r.ArtistAvatar); err != nil {
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

type updateReviewRequest struct {
	Rating     int    `json:"rating"`
	ReviewText string `json:"review_text"`
}

// UpdateHostReview edits a host's own review. Ownership is enforced in
// the WHERE clause so another host's review id comes back as not found.
func UpdateHostReview(c echo.Context) error {
	hostID, err := strconv.ParseInt(c.Param("hostId"), 10, 64)
	if err != nil || hostID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid host id."})
	}
	reviewID, err := strconv.ParseInt(c.Param("reviewId"), 10, 64)
	if err != nil || reviewID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid review id."})
	}

	req := new(updateReviewRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request body."})
	}
	if req.Rating < 1 || req.Rating > 5 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Rating must be between 1 and 5."})
	}

	tag, err := db.Conn.Exec(c.Request().Context(),
		`UPDATE artist_reviews SET rating = $1, review_text = $2, updated_at = NOW()
		 WHERE id = $3 AND reviewer_id = $4 AND reviewer_role = 'host'`,
		req.Rating, req.ReviewText, reviewID, hostID,
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error", "error": err.Error()})
	}
	if tag.RowsAffected() == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Review not found or not owned by host."})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Review updated."})
}

// DeleteHostReview removes a host's own review. The rating aggregate on
// the performer row is recomputed afterwards.
func DeleteHostReview(c echo.Context) error {
	hostID, err := strconv.ParseInt(c.Param("hostId"), 10, 64)
	if err != nil || hostID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid host id."})
	}
	reviewID, err := strconv.ParseInt(c.Param("reviewId"), 10, 64)
	if err != nil || reviewID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid review id."})
	}

	ctx := c.Request().Context()

	var artistID int64
	err = db.Conn.QueryRow(ctx,
		`SELECT artist_id FROM artist_reviews
		 WHERE id = $1 AND reviewer_id = $2 AND reviewer_role = 'host'`,
		reviewID, hostID,
	).Scan(&artistID)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Review not found or not owned by host."})
	}

	tx, err := db.Conn.Begin(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error", "error": err.Error()})
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM artist_reviews WHERE id = $1`, reviewID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error", "error": err.Error()})
	}
	if _, err := tx.Exec(ctx,
		`UPDATE performers SET average_rating = s.avg_rating, total_reviews = s.total
		 FROM (SELECT COALESCE(AVG(rating), 0) AS avg_rating, COUNT(*) AS total
		       FROM artist_reviews WHERE artist_id = $1) s
		 WHERE performers.id = $1`,
		artistID,
	); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error", "error": err.Error()})
	}
	if err := tx.Commit(ctx); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error", "error": err.Error()})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Review deleted."})
}
