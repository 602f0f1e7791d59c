package gig

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/gigslk/backend/internal/db"
)

type Gig struct {
	ID               int64     `json:"id"`
	HostID           int64     `json:"host_id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	BudgetMin        float64   `json:"budget_min"`
	BudgetMax        float64   `json:"budget_max"`
	EventDate        time.Time `json:"event_date"`
	EventTime        string    `json:"event_time"`
	EventLocation    string    `json:"event_location"`
	EventType        string    `json:"event_type"`
	EventScope       string    `json:"event_scope"`
	LocationCity     string    `json:"location_city"`
	LocationDistrict string    `json:"location_district"`
	Talents          string    `json:"talents"`
	CreatedAt        time.Time `json:"created_at"`
}

type CreateRequest struct {
	Title            string  `json:"title" validate:"required"`
	Description      string  `json:"description"`
	BudgetMin        float64 `json:"budget_min"`
	BudgetMax        float64 `json:"budget_max"`
	EventDate        string  `json:"event_date" validate:"required"`
	EventTime        string  `json:"event_time"`
	EventLocation    string  `json:"event_location" validate:"required"`
	EventType        string  `json:"event_type"`
	EventScope       string  `json:"event_scope"`
	LocationCity     string  `json:"location_city"`
	LocationDistrict string  `json:"location_district"`
	Talents          string  `json:"talents"`
}

const gigColumns = `id, host_id, title, COALESCE(description, ''), COALESCE(budget_min, 0),
	COALESCE(budget_max, 0), event_date, COALESCE(event_time, ''), COALESCE(event_location, ''),
	COALESCE(event_type, ''), COALESCE(event_scope, ''), COALESCE(location_city, ''),
	COALESCE(location_district, ''), COALESCE(talents, ''), created_at`

func scanGig(row pgx.Row) (Gig, error) {
	var g Gig
	err := row.Scan(&g.ID, &g.HostID, &g.Title, &g.Description, &g.BudgetMin, &g.BudgetMax,
		&g.EventDate, &g.EventTime, &g.EventLocation, &g.EventType, &g.EventScope,
		&g.LocationCity, &g.LocationDistrict, &g.Talents, &g.CreatedAt)
	return g, err
}

// Create posts a new gig owned by the authenticated host.
func Create(c echo.Context) error {
	userID, ok := c.Get("user_id").(int64)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthorized."})
	}

	req := new(CreateRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request body."})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Missing required fields: title, event_date, event_location"})
	}

	ctx := c.Request().Context()

	var hostID int64
	err := db.Conn.QueryRow(ctx, `SELECT id FROM hosts WHERE user_id = $1`, userID).Scan(&hostID)
	if errors.Is(err, pgx.ErrNoRows) {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Host profile not found."})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to create gig", "error": err.Error()})
	}

	var gigID int64
	err = db.Conn.QueryRow(ctx,
		`INSERT INTO gigs (host_id, title, description, budget_min, budget_max, event_date, event_time,
		                   event_location, event_type, event_scope, location_city, location_district, talents)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13) RETURNING id`,
		hostID, req.Title, req.Description, req.BudgetMin, req.BudgetMax, req.EventDate, req.EventTime,
		req.EventLocation, req.EventType, req.EventScope, req.LocationCity, req.LocationDistrict, req.Talents,
	).Scan(&gigID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to create gig", "error": err.Error()})
	}

	return c.JSON(http.StatusCreated, echo.Map{"message": "Gig created.", "gigId": gigID})
}

// List returns all gig postings, newest first.
func List(c echo.Context) error {
	rows, err := db.Conn.Query(c.Request().Context(),
		`SELECT `+gigColumns+` FROM gigs ORDER BY created_at DESC`)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to fetch gigs", "error": err.Error()})
	}
	defer rows.Close()

	gigs := []Gig{}
	for rows.Next() {
		g, err := scanGig(rows)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to fetch gigs", "error": err.Error()})
		}
		gigs = append(gigs, g)
	}

	return c.JSON(http.StatusOK, echo.Map{"gigs": gigs})
}

// Get fetches one gig posting by id.
func Get(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid gig id."})
	}

	g, err := scanGig(db.Conn.QueryRow(c.Request().Context(),
		`SELECT `+gigColumns+` FROM gigs WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Gig not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to fetch gig", "error": err.Error()})
	}

	return c.JSON(http.StatusOK, echo.Map{"gig": g})
}
