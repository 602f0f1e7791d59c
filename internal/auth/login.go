package auth

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/gigslk/backend/internal/db"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login verifies email/password and issues a session token.
func Login(c echo.Context) error {
	req := new(LoginRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request body."})
	}
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Please enter both email and password."})
	}

	ctx := c.Request().Context()

	var (
		userID   int64
		email    string
		password sql.NullString
		role     string
	)
	err := db.Conn.QueryRow(ctx,
		`SELECT id, email, password, role FROM users WHERE email = $1`, req.Email,
	).Scan(&userID, &email, &password, &role)
	if errors.Is(err, pgx.ErrNoRows) {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid credentials."})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error during login.", "error": err.Error()})
	}

	// Accounts created via Google have no password hash.
	if !password.Valid || password.String == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid credentials."})
	}
	if err := bcrypt.CompareHashAndPassword([]byte(password.String), []byte(req.Password)); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid credentials."})
	}

	token, err := IssueToken(userID, role)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error during login.", "error": err.Error()})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Login successful!",
		"token":   token,
		"user": echo.Map{
			"id":    userID,
			"email": email,
			"role":  role,
		},
	})
}
