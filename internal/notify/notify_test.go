package notify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

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

func TestCreate(t *testing.T) {
	mock := newMock(t)

	mock.ExpectExec(`INSERT INTO notifications`).
		WithArgs(pgxmock.AnyArg(), int64(20), "booking", "You have been booked.", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, Create(context.Background(), 20, "booking", "You have been booked.", nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListNewestFirst(t *testing.T) {
	mock := newMock(t)

	now := time.Now()
	reqID := int64(31)
	mock.ExpectQuery(`FROM notifications WHERE user_id = \$1 ORDER BY created_at DESC`).
		WithArgs(int64(20)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "type", "text", "is_read", "request_id", "created_at"}).
			AddRow("n-2", "gig_request", "New request", false, &reqID, now).
			AddRow("n-1", "booking", "Booked", true, (*int64)(nil), now.Add(-time.Hour)))

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/notifications", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", int64(20))

	require.NoError(t, List(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "New request")
	assert.Contains(t, rec.Body.String(), `"request_id":31`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkReadUnknownID(t *testing.T) {
	mock := newMock(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2`)).
		WithArgs("n-404", int64(20)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/notifications/n-404/read", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("n-404")
	c.Set("user_id", int64(20))

	require.NoError(t, MarkRead(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Notification not found.")
}

func TestListRequiresAuthContext(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/notifications", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, List(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
