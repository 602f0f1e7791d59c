package db

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Pool is the subset of *pgxpool.Pool the handlers use. Keeping it an
// interface lets tests swap in a mock pool.
type Pool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// Conn is the process-wide pool, set once by Init.
var Conn Pool

// Init connects to Postgres. A failed ping is logged but does not stop
// the server; the pool keeps retrying on demand.
func Init() {
	dsn := BuildDSN()
	logConfig()

	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		slog.Error("invalid database configuration", "error", err)
		os.Exit(1)
	}
	Conn = pool

	if err := pool.Ping(context.Background()); err != nil {
		slog.Warn("database unreachable, continuing without connection", "error", err)
		return
	}
	slog.Info("connected to Postgres")

	ensureSchema()
}

// Close drains the pool. Safe to call when Init never ran.
func Close() {
	if Conn != nil {
		Conn.Close()
	}
}

// BuildDSN assembles the connection string from DATABASE_URL or the
// discrete DB_* fields, enabling TLS when DB_ENABLE_SSL is set.
func BuildDSN() string {
	if u := os.Getenv("DATABASE_URL"); u != "" {
		return u
	}

	port := os.Getenv("DB_PORT")
	if port == "" {
		port = "5432"
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(os.Getenv("DB_USER"), os.Getenv("DB_PASSWORD")),
		Host:   fmt.Sprintf("%s:%s", os.Getenv("DB_HOST"), port),
		Path:   "/" + os.Getenv("DB_NAME"),
	}
	if sslEnabled() {
		u.RawQuery = "sslmode=require"
	}
	return u.String()
}

func sslEnabled() bool {
	switch os.Getenv("DB_ENABLE_SSL") {
	case "true", "TRUE", "True", "1":
		return true
	}
	return false
}

// logConfig prints the effective connection settings with credentials
// masked.
func logConfig() {
	if os.Getenv("DATABASE_URL") != "" {
		slog.Info("database config", "via", "DATABASE_URL", "ssl", sslEnabled())
		return
	}
	slog.Info("database config",
		"via", "FIELDS",
		"host", os.Getenv("DB_HOST"),
		"port", os.Getenv("DB_PORT"),
		"user", Mask(os.Getenv("DB_USER")),
		"database", os.Getenv("DB_NAME"),
		"ssl", sslEnabled(),
	)
}

// Mask hides all but the first and last character of a secret-ish value.
func Mask(val string) string {
	if val == "" {
		return ""
	}
	if len(val) <= 2 {
		return "***"
	}
	return val[:1] + "***" + val[len(val)-1:]
}
