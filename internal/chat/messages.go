package chat

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/gigslk/backend/internal/db"
)

type Message struct {
	ID          string    `json:"id"`
	SenderID    int64     `json:"sender_id"`
	ReceiverID  int64     `json:"receiver_id"`
	MessageText string    `json:"message_text"`
	CreatedAt   time.Time `json:"created_at"`
}

// Send appends one directed chat line. Used as a side-channel by the
// gig-request and booking flows.
func Send(ctx context.Context, senderID, receiverID int64, text string) error {
	_, err := db.Conn.Exec(ctx,
		`INSERT INTO messages (id, sender_id, receiver_id, message_text) VALUES ($1, $2, $3, $4)`,
		uuid.New().String(), senderID, receiverID, text,
	)
	return err
}

// Conversation returns both directions of the thread between the
// authenticated user and a peer, oldest first.
func Conversation(c echo.Context) error {
	userID, ok := c.Get("user_id").(int64)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthorized."})
	}
	peerID, err := strconv.ParseInt(c.Param("peer_id"), 10, 64)
	if err != nil || peerID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid peer id."})
	}

	rows, err := db.Conn.Query(c.Request().Context(),
		`SELECT id, sender_id, receiver_id, message_text, created_at
		 FROM messages
		 WHERE (sender_id = $1 AND receiver_id = $2) OR (sender_id = $2 AND receiver_id = $1)
		 ORDER BY created_at ASC`, userID, peerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to list messages", "error": err.Error()})
	}
	defer rows.Close()

	msgs := []Message{}
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.MessageText, &m.CreatedAt); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to list messages", "error": err.Error()})
		}
		msgs = append(msgs, m)
	}

	return c.JSON(http.StatusOK, echo.Map{"messages": msgs})
}
