package review

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/gigslk/backend/internal/db"
)

// AdminReview is the moderation view of a review, with display names
// resolved for both sides.
type AdminReview struct {
	ID           int64  `json:"id"`
	TargetID     int64  `json:"target_id"`
	ReviewerID   int64  `json:"reviewer_id"`
	ReviewerRole string `json:"reviewer_role"`
	Rating       int    `json:"rating"`
	Comment      string `json:"comment"`
	CreatedAt    string `json:"created_at"`
	ReviewerName string `json:"reviewer_name"`
	TargetName   string `json:"target_name"`
}

// ListAllReviews returns every review in the system for the moderation
// dashboard.
func ListAllReviews(c echo.Context) error {
	rows, err := db.Conn.Query(c.Request().Context(),
		`SELECT r.id, r.artist_id AS target_id, r.reviewer_id, r.reviewer_role, r.rating,
		        COALESCE(r.review_text, '') AS comment, r.created_at,
		        COALESCE(u.username, '') AS reviewer_name,
		        COALESCE(p.stage_name, COALESCE(p.full_name, '')) AS target_name
		 FROM artist_reviews r
		 LEFT JOIN users u ON u.id = r.reviewer_id
		 LEFT JOIN performers p ON p.id = r.artist_id
		 ORDER BY r.created_at DESC`,
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error", "error": err.Error()})
	}
	defer rows.Close()

	reviews := make([]AdminReview, 0)
	for rows.Next() {
		var r AdminReview
		var created sql.NullTime
		if err := rows.Scan(&r.ID, &r.TargetID, &r.ReviewerID, &r.ReviewerRole, &r.Rating,
			&r.Comment, &created, &r.ReviewerName, &r.TargetName); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error", "error": err.Error()})
		}
		if created.Valid {
			r.CreatedAt = created.Time.Format("2006-01-02 15:04:05")
		}
		reviews = append(reviews, r)
	}
	if err := rows.Err(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error", "error": err.Error()})
	}

	return c.JSON(http.StatusOK, echo.Map{"reviews": reviews})
}

// DeleteReview removes any review by id and recomputes the affected
// artist's rating aggregate.
func DeleteReview(c echo.Context) error {
	reviewID, err := strconv.ParseInt(c.Param("reviewId"), 10, 64)
	if err != nil || reviewID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid review id."})
	}

	ctx := c.Request().Context()

	var artistID int64
	err = db.Conn.QueryRow(ctx, `SELECT artist_id FROM artist_reviews WHERE id = $1`, reviewID).Scan(&artistID)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Review not found."})
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
