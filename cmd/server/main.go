package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/gigslk/backend/internal/auth"
	"github.com/gigslk/backend/internal/booking"
	"github.com/gigslk/backend/internal/chat"
	"github.com/gigslk/backend/internal/db"
	"github.com/gigslk/backend/internal/gig"
	"github.com/gigslk/backend/internal/gigrequest"
	appmw "github.com/gigslk/backend/internal/middleware"
	"github.com/gigslk/backend/internal/notify"
	"github.com/gigslk/backend/internal/performer"
	"github.com/gigslk/backend/internal/review"
	"github.com/gigslk/backend/internal/validation"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using process environment")
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, nil)))

	db.Init()
	defer db.Close()

	e := echo.New()
	e.HideBanner = true
	e.Validator = validation.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     allowedOrigins(),
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowCredentials: true,
	}))

	e.Static("/uploads", "uploads")

	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "Gigs.lk API is running")
	})
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	// Auth routes, rate limited against credential stuffing
	authGroup := e.Group("/api/auth")
	authGroup.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(20)))
	authGroup.POST("/register", auth.Register)
	authGroup.POST("/login", auth.Login)
	authGroup.POST("/google", auth.GoogleLogin)

	// Public discovery
	e.GET("/api/performers/new", performer.ListNew)

	// Artist reviews (public reads, writes gated inside the handler)
	e.POST("/api/artists/:artistId/reviews", review.AddReview)
	e.GET("/api/artists/:artistId/reviews", review.ListArtistReviews)
	e.GET("/api/artists/:artistId/can-review", review.CanReview)

	// Host-side review management
	e.GET("/api/hosts/:hostId/reviews", review.ListHostReviews)
	e.PUT("/api/hosts/:hostId/reviews/:reviewId", review.UpdateHostReview)
	e.DELETE("/api/hosts/:hostId/reviews/:reviewId", review.DeleteHostReview)

	// Admin moderation
	adminGroup := e.Group("/api/admin")
	adminGroup.Use(appmw.JWT)
	adminGroup.GET("/reviews", review.ListAllReviews)
	adminGroup.DELETE("/reviews/:reviewId", review.DeleteReview)

	// Gigs
	e.GET("/api/gigs", gig.List)
	e.GET("/api/gigs/:id", gig.Get)
	e.POST("/api/gigs", gig.Create, appmw.JWT, appmw.RequireRoles("host"))

	// Gig join requests
	requests := e.Group("/api/gig-requests")
	requests.Use(appmw.JWT)
	requests.POST("/:gigId", gigrequest.Create, appmw.RequireRoles("performer"))
	requests.PATCH("/:requestId", gigrequest.Respond)

	// Bookings
	e.POST("/api/bookings", booking.Create)
	e.GET("/api/bookings/:id/receipt", booking.Receipt)
	e.GET("/api/bookings/notifications", booking.Notifications)
	e.GET("/api/bookings/artist-monthly-stats", booking.ArtistMonthlyStats)

	// In-app notifications and chat
	e.GET("/api/notifications", notify.List, appmw.JWT)
	e.POST("/api/notifications/:id/read", notify.MarkRead, appmw.JWT)
	e.GET("/api/chat/conversation/:peer_id", chat.Conversation, appmw.JWT)

	e.RouteNotFound("/*", func(c echo.Context) error {
		return c.JSON(http.StatusNotFound, echo.Map{
			"message": "Not Found",
			"path":    c.Request().URL.Path,
			"method":  c.Request().Method,
		})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "5000"
	}

	go func() {
		if err := e.Start(":" + port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()
	slog.Info("API server listening", "port", port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}

func allowedOrigins() []string {
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		parts := strings.Split(v, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return []string{"http://localhost:5173", "http://localhost:5174"}
}
