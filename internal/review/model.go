package review

import "time"

// Review is a rating plus text targeting an artist, authored by a host
// or a fellow performer.
type Review struct {
	ID           int64      `json:"id"`
	ArtistID     int64      `json:"artist_id"`
	ReviewerID   int64      `json:"reviewer_id"`
	ReviewerRole string     `json:"reviewer_role"`
	Rating       int        `json:"rating"`
	ReviewText   string     `json:"review_text"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
	ReviewerName string     `json:"reviewer_name,omitempty"`
	ArtistName   string     `json:"artist_name,omitempty"`
	ArtistAvatar string     `json:"artist_avatar,omitempty"`
}

type AddReviewRequest struct {
	ReviewerID   int64  `json:"reviewer_id"`
	ReviewerRole string `json:"reviewer_role"`
	Rating       int    `json:"rating"`
	ReviewText   string `json:"review_text"`
	BookingID    int64  `json:"booking_id"`
}
