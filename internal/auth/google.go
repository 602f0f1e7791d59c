package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/gigslk/backend/internal/db"
)

const defaultTokeninfoURL = "https://oauth2.googleapis.com/tokeninfo"

type GoogleLoginRequest struct {
	Credential string `json:"credential"`
	Role       string `json:"role"`
}

type tokeninfoPayload struct {
	Aud     string `json:"aud"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// tokeninfoURL is overridable via env so tests can point it at a stub
// server.
func tokeninfoURL() string {
	if u := os.Getenv("GOOGLE_TOKENINFO_URL"); u != "" {
		return u
	}
	return defaultTokeninfoURL
}

// GoogleLogin exchanges a Google ID token for an app session token.
// The credential is verified against the tokeninfo endpoint and its
// audience checked against GOOGLE_CLIENT_ID; the user is then found or
// created by email, the existing role winning over any requested one.
func GoogleLogin(c echo.Context) error {
	req := new(GoogleLoginRequest)
	if err := c.Bind(req); err != nil || req.Credential == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Missing Google credential."})
	}

	clientID := os.Getenv("GOOGLE_CLIENT_ID")
	if clientID == "" {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Google auth not configured on server."})
	}

	resp, err := http.Get(tokeninfoURL() + "?id_token=" + url.QueryEscape(req.Credential))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to verify Google token."})
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid Google token."})
	}

	var payload tokeninfoPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to verify Google token."})
	}
	if payload.Aud != clientID {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Google token audience mismatch."})
	}

	username := payload.Name
	if username == "" {
		if at := strings.IndexByte(payload.Email, '@'); at > 0 {
			username = payload.Email[:at]
		} else {
			username = "GoogleUser"
		}
	}
	chosenRole := "host"
	if req.Role == "host" || req.Role == "performer" {
		chosenRole = req.Role
	}

	ctx := c.Request().Context()

	tx, err := db.Conn.Begin(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error during Google login.", "error": err.Error()})
	}
	defer tx.Rollback(ctx)

	var (
		userID    int64
		finalRole string
	)
	err = tx.QueryRow(ctx,
		`SELECT id, role FROM users WHERE email = $1`, payload.Email,
	).Scan(&userID, &finalRole)
	switch {
	case err == nil:
		if finalRole == "" {
			finalRole = chosenRole
		}
	case errors.Is(err, pgx.ErrNoRows):
		// Password-less account: the user authenticates via Google only.
		finalRole = chosenRole
		err = tx.QueryRow(ctx,
			`INSERT INTO users (email, password, username, role) VALUES ($1, NULL, $2, $3) RETURNING id`,
			payload.Email, username, chosenRole,
		).Scan(&userID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error during Google login.", "error": err.Error()})
		}
		if chosenRole == "performer" {
			_, err = tx.Exec(ctx,
				`INSERT INTO performers (user_id, stage_name, location, profile_picture_url) VALUES ($1, $2, NULL, $3)`,
				userID, username, payload.Picture,
			)
		} else {
			_, err = tx.Exec(ctx,
				`INSERT INTO hosts (user_id, company_organization, location, profile_picture_url) VALUES ($1, $2, NULL, $3)`,
				userID, username, payload.Picture,
			)
		}
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error during Google login.", "error": err.Error()})
		}
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error during Google login.", "error": err.Error()})
	}

	if err := tx.Commit(ctx); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error during Google login.", "error": err.Error()})
	}

	token, err := IssueToken(userID, finalRole)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error during Google login.", "error": err.Error()})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Login successful!",
		"token":   token,
		"user": echo.Map{
			"id":       userID,
			"email":    payload.Email,
			"role":     finalRole,
			"username": username,
		},
	})
}
