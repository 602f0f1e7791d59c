package chat

import (
	"context"
	"net/http"
	"net/http/httptest"
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

func TestSend(t *testing.T) {
	mock := newMock(t)

	mock.ExpectExec(`INSERT INTO messages`).
		WithArgs(pgxmock.AnyArg(), int64(12), int64(20), "Booking Confirmed!").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, Send(context.Background(), 12, 20, "Booking Confirmed!"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConversationBothDirections(t *testing.T) {
	mock := newMock(t)

	now := time.Now()
	mock.ExpectQuery(`FROM messages`).
		WithArgs(int64(12), int64(20)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "sender_id", "receiver_id", "message_text", "created_at"}).
			AddRow("m-1", int64(12), int64(20), "Request sent", now.Add(-time.Hour)).
			AddRow("m-2", int64(20), int64(12), "Accepted!", now))

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/chat/conversation/20", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("peer_id")
	c.SetParamValues("20")
	c.Set("user_id", int64(12))

	require.NoError(t, Conversation(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Request sent")
	assert.Contains(t, rec.Body.String(), "Accepted!")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConversationInvalidPeer(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/chat/conversation/abc", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("peer_id")
	c.SetParamValues("abc")
	c.Set("user_id", int64(12))

	require.NoError(t, Conversation(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid peer id.")
}
