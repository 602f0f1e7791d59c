package booking

import (
	"bytes"
	"fmt"
	"os"

	"github.com/jung-kurt/gofpdf"
)

// ReceiptData carries everything the receipt layout needs, already
// resolved to display strings.
type ReceiptData struct {
	BookingID     int64
	EventDate     string
	EventTime     string
	EventLocation string
	Notes         string
	Price         float64
	PaymentMethod string
	HostName      string
	HostEmail     string
	ArtistName    string
	ArtistEmail   string
	LogoPath      string
}

// RenderReceipt composes the fixed-layout booking receipt into an
// in-memory PDF buffer.
func RenderReceipt(d ReceiptData) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	if d.LogoPath != "" {
		if _, err := os.Stat(d.LogoPath); err == nil {
			pdf.ImageOptions(d.LogoPath, 15, 12, 30, 0, false,
				gofpdf.ImageOptions{ReadDpi: true}, 0, "")
		}
	}

	pdf.SetFont("Helvetica", "B", 22)
	pdf.SetTextColor(139, 92, 246)
	pdf.CellFormat(60, 12, "GIGS.lk", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(120, 120, 120)
	pdf.CellFormat(0, 12, "Perform your World", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 16)
	pdf.SetTextColor(51, 51, 51)
	pdf.CellFormat(0, 10, "Booking Receipt", "", 1, "R", false, 0, "")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 12)
	pdf.SetTextColor(0, 0, 0)
	line := func(text string) {
		pdf.CellFormat(0, 7, text, "", 1, "L", false, 0, "")
	}
	line(fmt.Sprintf("Booking ID: %d", d.BookingID))
	line(fmt.Sprintf("Booking Date: %s %s", d.EventDate, d.EventTime))
	line(fmt.Sprintf("Payment Method: %s", d.PaymentMethod))
	line(fmt.Sprintf("Amount Paid: LKR %.2f", d.Price))
	pdf.Ln(5)
	line(fmt.Sprintf("Host: %s", d.HostName))
	line(fmt.Sprintf("Host Email: %s", d.HostEmail))
	pdf.Ln(5)
	line(fmt.Sprintf("Artist: %s", d.ArtistName))
	line(fmt.Sprintf("Artist Email: %s", d.ArtistEmail))
	pdf.Ln(5)
	line(fmt.Sprintf("Event Location: %s", d.EventLocation))
	line(fmt.Sprintf("Notes: %s", d.Notes))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(136, 136, 136)
	pdf.CellFormat(0, 6, "Thank you for booking with GIGS.lk!", "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
