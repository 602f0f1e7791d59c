package performer

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/gigslk/backend/internal/db"
)

type Profile struct {
	ID                int64     `json:"id"`
	UserID            int64     `json:"user_id"`
	StageName         string    `json:"stage_name"`
	Location          string    `json:"location"`
	ProfilePictureURL string    `json:"profile_picture_url"`
	AverageRating     float64   `json:"average_rating"`
	TotalReviews      int       `json:"total_reviews"`
	CreatedAt         time.Time `json:"created_at"`
}

// ListNew returns performers registered within the last 10 days,
// newest first, capped at 4 for the landing-page showcase.
func ListNew(c echo.Context) error {
	ctx := c.Request().Context()

	rows, err := db.Conn.Query(ctx,
		`SELECT id, user_id, COALESCE(stage_name, ''), COALESCE(location, ''),
		        COALESCE(profile_picture_url, ''), COALESCE(average_rating, 0),
		        COALESCE(total_reviews, 0), created_at
		 FROM performers
		 WHERE created_at >= NOW() - INTERVAL '10 days'
		 ORDER BY created_at DESC
		 LIMIT 4`)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to fetch new performers", "error": err.Error()})
	}
	defer rows.Close()

	profiles := []Profile{}
	for rows.Next() {
		var p Profile
		if err := rows.Scan(&p.ID, &p.UserID, &p.StageName, &p.Location,
			&p.ProfilePictureURL, &p.AverageRating, &p.TotalReviews, &p.CreatedAt); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to fetch new performers", "error": err.Error()})
		}
		profiles = append(profiles, p)
	}

	return c.JSON(http.StatusOK, echo.Map{"profiles": profiles})
}
