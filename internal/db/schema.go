package db

import (
	"context"
	"log/slog"
)

// ensureSchema creates any missing tables. Failures are logged and
// skipped so a restricted database user doesn't block startup.
func ensureSchema() {
	ctx := context.Background()
	for _, ddl := range schemaDDL {
		if _, err := Conn.Exec(ctx, ddl); err != nil {
			slog.Warn("schema ensure failed", "error", err)
		}
	}
}

var schemaDDL = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password TEXT NULL,
		username TEXT NOT NULL,
		role TEXT NOT NULL CHECK (role IN ('host', 'performer')),
		created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS performers (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		stage_name TEXT,
		full_name TEXT,
		location TEXT,
		profile_picture_url TEXT,
		average_rating NUMERIC(3,2) DEFAULT 0,
		total_reviews INTEGER DEFAULT 0,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS hosts (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		company_organization TEXT,
		location TEXT,
		profile_picture_url TEXT,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS gigs (
		id BIGSERIAL PRIMARY KEY,
		host_id BIGINT NOT NULL REFERENCES hosts(id) ON DELETE CASCADE,
		title TEXT NOT NULL,
		description TEXT,
		budget_min NUMERIC(10,2),
		budget_max NUMERIC(10,2),
		event_date DATE,
		event_time TEXT,
		event_location TEXT,
		event_type TEXT,
		event_scope TEXT,
		location_city TEXT,
		location_district TEXT,
		talents TEXT,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS gig_requests (
		id BIGSERIAL PRIMARY KEY,
		gig_id BIGINT NOT NULL REFERENCES gigs(id) ON DELETE CASCADE,
		performer_id BIGINT NOT NULL REFERENCES performers(id) ON DELETE CASCADE,
		status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'accepted', 'rejected')),
		created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS bookings (
		id BIGSERIAL PRIMARY KEY,
		artist_id BIGINT NOT NULL REFERENCES performers(id) ON DELETE CASCADE,
		host_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		event_date DATE NOT NULL,
		event_time TEXT,
		event_location TEXT,
		notes TEXT DEFAULT '',
		price NUMERIC(10,2) DEFAULT 0,
		payment_method TEXT DEFAULT '',
		created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS artist_reviews (
		id BIGSERIAL PRIMARY KEY,
		artist_id BIGINT NOT NULL REFERENCES performers(id) ON DELETE CASCADE,
		reviewer_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		reviewer_role TEXT NOT NULL,
		rating INTEGER NOT NULL,
		review_text TEXT,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP WITH TIME ZONE NULL
	)`,
	`CREATE TABLE IF NOT EXISTS notifications (
		id UUID PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		type TEXT NOT NULL,
		text TEXT NOT NULL,
		is_read BOOLEAN NOT NULL DEFAULT FALSE,
		request_id BIGINT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS messages (
		id UUID PRIMARY KEY,
		sender_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		receiver_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		message_text TEXT NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_notifications_user_created ON notifications(user_id, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_messages_pair ON messages(sender_id, receiver_id, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_host_artist ON bookings(host_id, artist_id)`,
	`CREATE INDEX IF NOT EXISTS idx_artist_reviews_artist ON artist_reviews(artist_id)`,
}
