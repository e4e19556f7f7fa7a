package db

import (
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Connect initializes the database connection and runs migrations.
func Connect(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	if err := runMigrations(db); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return db, nil
}

func runMigrations(db *sqlx.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS profiles (
            uid TEXT PRIMARY KEY,
            username TEXT NOT NULL,
            username_lowercase TEXT NOT NULL,
            email TEXT NOT NULL,
            country TEXT NOT NULL DEFAULT '',
            is_premium BOOLEAN NOT NULL DEFAULT FALSE,
            is_id_verified BOOLEAN NOT NULL DEFAULT FALSE,
            unread_count INT NOT NULL DEFAULT 0,
            swap_count INT NOT NULL DEFAULT 0,
            formatted_address TEXT NOT NULL DEFAULT '',
            address_components JSONB,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        );`,
		// Lookup index only. Deliberately not UNIQUE: availability checks are
		// advisory and the signup flow never reserves a name.
		`CREATE INDEX IF NOT EXISTS idx_profiles_username_lowercase
            ON profiles (username_lowercase);`,
		`CREATE TABLE IF NOT EXISTS listings (
            id TEXT PRIMARY KEY,
            title TEXT NOT NULL,
            description TEXT NOT NULL DEFAULT '',
            owner_uid TEXT NOT NULL,
            owner_username TEXT NOT NULL DEFAULT '',
            owner_is_premium BOOLEAN NOT NULL DEFAULT FALSE,
            owner_is_id_verified BOOLEAN NOT NULL DEFAULT FALSE,
            owner_priority INT NOT NULL DEFAULT 0,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        );`,
		`CREATE TABLE IF NOT EXISTS swap_requests (
            id TEXT PRIMARY KEY,
            requester_uid TEXT NOT NULL,
            responder_uid TEXT NOT NULL,
            listing_id TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        );`,
		`CREATE TABLE IF NOT EXISTS swap_messages (
            id BIGSERIAL PRIMARY KEY,
            swap_id TEXT NOT NULL,
            sender_uid TEXT NOT NULL,
            body TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        );`,
		`CREATE INDEX IF NOT EXISTS idx_swap_messages_swap_id ON swap_messages (swap_id);`,
		`CREATE TABLE IF NOT EXISTS swap_presence (
            id BIGSERIAL PRIMARY KEY,
            swap_id TEXT NOT NULL,
            user_uid TEXT NOT NULL,
            last_seen_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            UNIQUE(swap_id, user_uid)
        );`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return err
		}
	}
	log.Println("database migrations applied")
	return nil
}
