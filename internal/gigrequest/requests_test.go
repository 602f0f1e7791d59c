package gigrequest

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gigslk/backend/internal/db"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	db.Conn = mock
	t.Cleanup(func() {
		mock.Close()
		db.Conn = nil
	})
	return mock
}

func newContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestCreateRequestNotifiesHost(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT host_id, title FROM gigs WHERE id = $1`)).
		WithArgs(int64(55)).
		WillReturnRows(pgxmock.NewRows([]string{"host_id", "title"}).AddRow(int64(4), "Wedding Band"))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id FROM performers WHERE user_id = $1`)).
		WithArgs(int64(12)).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(5)))
	mock.ExpectQuery(`INSERT INTO gig_requests`).
		WithArgs(int64(55), int64(5)).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(31)))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT user_id FROM hosts WHERE id = $1`)).
		WithArgs(int64(4)).
		WillReturnRows(pgxmock.NewRows([]string{"user_id"}).AddRow(int64(20)))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT username FROM users WHERE id = $1`)).
		WithArgs(int64(12)).
		WillReturnRows(pgxmock.NewRows([]string{"username"}).AddRow("djnova"))
	mock.ExpectExec(`INSERT INTO notifications`).
		WithArgs(pgxmock.AnyArg(), int64(20), "gig_request",
			"djnova requested to join your gig 'Wedding Band'. Accept or reject?", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`INSERT INTO messages`).
		WithArgs(pgxmock.AnyArg(), int64(12), int64(20),
			"djnova requested to join your gig 'Wedding Band'. Accept or reject?").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	c, rec := newContext(http.MethodPost, "/api/gig-requests/55", "")
	c.SetParamNames("gigId")
	c.SetParamValues("55")
	c.Set("user_id", int64(12))

	require.NoError(t, Create(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "Request sent and host notified.")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRequestGigMissing(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT host_id, title FROM gigs WHERE id = $1`)).
		WithArgs(int64(404)).
		WillReturnError(pgx.ErrNoRows)

	c, rec := newContext(http.MethodPost, "/api/gig-requests/404", "")
	c.SetParamNames("gigId")
	c.SetParamValues("404")
	c.Set("user_id", int64(12))

	require.NoError(t, Create(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Gig not found")
}

func TestRespondReject(t *testing.T) {
	mock := newMock(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE gig_requests SET status = $1 WHERE id = $2`)).
		WithArgs("rejected", int64(31)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	c, rec := newContext(http.MethodPatch, "/api/gig-requests/31", `{"response":"rejected"}`)
	c.SetParamNames("requestId")
	c.SetParamValues("31")

	require.NoError(t, Respond(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Response recorded.")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRespondInvalidValue(t *testing.T) {
	c, rec := newContext(http.MethodPatch, "/api/gig-requests/31", `{"response":"maybe"}`)
	c.SetParamNames("requestId")
	c.SetParamValues("31")

	require.NoError(t, Respond(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid response")
}

func TestRespondUnknownRequest(t *testing.T) {
	mock := newMock(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE gig_requests SET status = $1 WHERE id = $2`)).
		WithArgs("accepted", int64(404)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	c, rec := newContext(http.MethodPatch, "/api/gig-requests/404", `{"response":"accepted"}`)
	c.SetParamNames("requestId")
	c.SetParamValues("404")

	require.NoError(t, Respond(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Request not found")
}

func expectAcceptSideEffects(mock pgxmock.PgxPoolIface) {
	eventDate := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE gig_requests SET status = $1 WHERE id = $2`)).
		WithArgs("accepted", int64(31)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectQuery(`FROM gig_requests gr`).
		WithArgs(int64(31)).
		WillReturnRows(pgxmock.NewRows([]string{
			"performer_id", "host_id", "title", "description", "event_location",
			"event_date", "event_time", "budget_min", "budget_max",
		}).AddRow(int64(5), int64(4), "Wedding Band", "Live 4-piece", "Galle Face Hotel",
			eventDate, "18:00", 50000.0, 120000.0))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT user_id FROM performers WHERE id = $1`)).
		WithArgs(int64(5)).
		WillReturnRows(pgxmock.NewRows([]string{"user_id"}).AddRow(int64(12)))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT user_id FROM hosts WHERE id = $1`)).
		WithArgs(int64(4)).
		WillReturnRows(pgxmock.NewRows([]string{"user_id"}).AddRow(int64(20)))
	mock.ExpectExec(`INSERT INTO messages`).
		WithArgs(pgxmock.AnyArg(), int64(20), int64(12), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`INSERT INTO messages`).
		WithArgs(pgxmock.AnyArg(), int64(12), int64(20), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`INSERT INTO notifications`).
		WithArgs(pgxmock.AnyArg(), int64(12), "booking",
			"Your request was accepted! See chat for booking details.", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
}

func TestRespondAccept(t *testing.T) {
	mock := newMock(t)
	expectAcceptSideEffects(mock)

	c, rec := newContext(http.MethodPatch, "/api/gig-requests/31", `{"response":"accepted"}`)
	c.SetParamNames("requestId")
	c.SetParamValues("31")

	require.NoError(t, Respond(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Request accepted, chat and notification sent.")
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Accepting the same request twice re-sends the chat summary and the
// notification: side effects are at-least-once on retry.
func TestRespondAcceptRetryResendsSideEffects(t *testing.T) {
	mock := newMock(t)
	expectAcceptSideEffects(mock)
	expectAcceptSideEffects(mock)

	for i := 0; i < 2; i++ {
		c, rec := newContext(http.MethodPatch, "/api/gig-requests/31", `{"response":"accepted"}`)
		c.SetParamNames("requestId")
		c.SetParamValues("31")

		require.NoError(t, Respond(c))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}
