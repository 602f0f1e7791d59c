package booking

import (
	"database/sql"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/gigslk/backend/internal/db"
)

// Receipt renders the booking receipt PDF and returns it as a file
// download. Missing host or artist rows degrade to placeholder text
// instead of failing the request.
func Receipt(c echo.Context) error {
	bookingID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || bookingID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid booking id"})
	}

	ctx := c.Request().Context()

	var (
		artistID      int64
		hostID        int64
		eventDate     time.Time
		eventTime     string
		eventLocation string
		notes         string
		price         float64
		paymentMethod string
	)
	err = db.Conn.QueryRow(ctx,
		`SELECT artist_id, host_id, event_date, COALESCE(event_time, ''), COALESCE(event_location, ''),
		        COALESCE(notes, ''), COALESCE(price, 0), COALESCE(payment_method, '')
		 FROM bookings WHERE id = $1`, bookingID,
	).Scan(&artistID, &hostID, &eventDate, &eventTime, &eventLocation, &notes, &price, &paymentMethod)
	if noRows(err) {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Booking not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to generate receipt", "error": err.Error()})
	}

	data := ReceiptData{
		BookingID:     bookingID,
		EventDate:     eventDate.Format("2006-01-02"),
		EventTime:     eventTime,
		EventLocation: eventLocation,
		Notes:         notes,
		Price:         price,
		PaymentMethod: paymentMethod,
		HostName:      "Unknown",
		HostEmail:     "-",
		ArtistName:    "Unknown",
		ArtistEmail:   "-",
		LogoPath:      "assets/gigs_logo.png",
	}

	var hostName, hostEmail string
	if err := db.Conn.QueryRow(ctx,
		`SELECT username, email FROM users WHERE id = $1`, hostID,
	).Scan(&hostName, &hostEmail); err == nil {
		data.HostName = hostName
		data.HostEmail = hostEmail
	}

	var stageName, fullName sql.NullString
	var artistEmail string
	if err := db.Conn.QueryRow(ctx,
		`SELECT p.stage_name, p.full_name, u.email
		 FROM performers p JOIN users u ON u.id = p.user_id
		 WHERE p.id = $1`, artistID,
	).Scan(&stageName, &fullName, &artistEmail); err == nil {
		switch {
		case stageName.Valid && stageName.String != "":
			data.ArtistName = stageName.String
		case fullName.Valid && fullName.String != "":
			data.ArtistName = fullName.String
		}
		data.ArtistEmail = artistEmail
	}

	pdf, err := RenderReceipt(data)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to generate receipt", "error": err.Error()})
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="gigs_receipt_%d.pdf"`, bookingID))
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}
