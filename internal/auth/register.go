package auth

import (
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/gigslk/backend/internal/db"
)

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Username string `json:"username" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=host performer"`
}

// Register creates the user row and its role-extension row in one
// transaction: both persist or neither does.
func Register(c echo.Context) error {
	req := new(RegisterRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request body."})
	}
	if req.Email == "" || req.Password == "" || req.Username == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "Please enter all required fields: email, password, username, role",
		})
	}
	if req.Role != "host" && req.Role != "performer" {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": `Invalid role specified. Must be "host" or "performer".`,
		})
	}

	ctx := c.Request().Context()

	tx, err := db.Conn.Begin(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error during registration.", "error": err.Error()})
	}
	defer tx.Rollback(ctx)

	var existingID int64
	err = tx.QueryRow(ctx, `SELECT id FROM users WHERE email = $1`, req.Email).Scan(&existingID)
	if err == nil {
		return c.JSON(http.StatusConflict, echo.Map{"message": "User with this email already exists."})
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error during registration.", "error": err.Error()})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error during registration.", "error": err.Error()})
	}

	var userID int64
	err = tx.QueryRow(ctx,
		`INSERT INTO users (email, password, username, role) VALUES ($1, $2, $3, $4) RETURNING id`,
		req.Email, string(hashed), req.Username, req.Role,
	).Scan(&userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error during registration.", "error": err.Error()})
	}

	if req.Role == "performer" {
		_, err = tx.Exec(ctx,
			`INSERT INTO performers (user_id, stage_name, location) VALUES ($1, $2, NULL)`,
			userID, req.Username,
		)
	} else {
		_, err = tx.Exec(ctx,
			`INSERT INTO hosts (user_id, company_organization, location) VALUES ($1, $2, NULL)`,
			userID, req.Username,
		)
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error during registration.", "error": err.Error()})
	}

	if err := tx.Commit(ctx); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error during registration.", "error": err.Error()})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "User registered successfully!",
		"userId":  userID,
		"role":    req.Role,
	})
}
