package database

import (
	"database/sql"
	"log"
	"time"

	_ "github.com/lib/pq"
)

var PostgresDB *sql.DB

// ConnectPostgres connects to PostgreSQL database
func ConnectPostgres(postgresURI string) error {
	var err error

	PostgresDB, err = sql.Open("postgres", postgresURI)
	if err != nil {
		return err
	}

	// Set connection pool settings
	PostgresDB.SetMaxOpenConns(25)
	PostgresDB.SetMaxIdleConns(5)
	PostgresDB.SetConnMaxLifetime(5 * time.Minute)

	// Test connection
	if err = PostgresDB.Ping(); err != nil {
		return err
	}

	log.Println("✅ Connected to PostgreSQL")

	// Initialize tables
	if err = InitPostgresTables(); err != nil {
		return err
	}

	return nil
}

// InitPostgresTables creates all necessary tables if they don't exist
func InitPostgresTables() error {
	queries := []string{
		// Users table. password_hash is a placeholder (random bytes, bcrypt'd);
		// real authentication is session tokens + Magic link, never passwords.
		`CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			email VARCHAR(255) NOT NULL UNIQUE,
			password_hash VARCHAR(255) NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMP NOT NULL DEFAULT NOW(),
			premium_days INTEGER NOT NULL DEFAULT 0,
			n_movie INTEGER NOT NULL DEFAULT 1,
			n_tv INTEGER NOT NULL DEFAULT 1,
			n_voice INTEGER NOT NULL DEFAULT 1,
			premium INTEGER NOT NULL DEFAULT 0,
			backup INTEGER NOT NULL DEFAULT 0,
			permission INTEGER NOT NULL DEFAULT 0,
			bet VARCHAR(255) NOT NULL DEFAULT '',
			payout INTEGER NOT NULL DEFAULT 0,
			telegram_id BIGINT NOT NULL DEFAULT 0,
			telegram_chat BIGINT NOT NULL DEFAULT 0,
			profile INTEGER
		)`,

		// Profiles table. UNIQUE(user_id, name) backs the default-profile
		// upsert during identity resolution.
		`CREATE TABLE IF NOT EXISTS profiles (
			id SERIAL PRIMARY KEY,
			user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			name VARCHAR(255) NOT NULL,
			main INTEGER NOT NULL DEFAULT 0,
			icon VARCHAR(50) NOT NULL DEFAULT 'l_1',
			UNIQUE(user_id, name)
		)`,

		// Devices table: one row per issued session token. access_token is the
		// bcrypt hash of the full plaintext token; the plaintext is never stored.
		`CREATE TABLE IF NOT EXISTS devices (
			id SERIAL PRIMARY KEY,
			user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			device_code VARCHAR(255) NOT NULL,
			access_token VARCHAR(255) NOT NULL,
			profile_id INTEGER REFERENCES profiles(id) ON DELETE SET NULL,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)`,

		// Access codes table: short-lived single-use pairing codes
		`CREATE TABLE IF NOT EXISTS access_codes (
			code VARCHAR(10) PRIMARY KEY,
			expires_at TIMESTAMP NOT NULL,
			user_email VARCHAR(255)
		)`,

		// Bookmarks table
		`CREATE TABLE IF NOT EXISTS bookmarks (
			id SERIAL PRIMARY KEY,
			user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			profile_id INTEGER NOT NULL,
			type VARCHAR(50) NOT NULL,
			data JSONB NOT NULL,
			card_id VARCHAR(255) NOT NULL,
			time BIGINT NOT NULL
		)`,

		// Notifications table
		`CREATE TABLE IF NOT EXISTS notifications (
			id SERIAL PRIMARY KEY,
			user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			profile_id INTEGER NOT NULL,
			card JSONB NOT NULL,
			voice VARCHAR(255) NOT NULL,
			season INTEGER NOT NULL DEFAULT 1,
			episode INTEGER NOT NULL DEFAULT 1,
			status INTEGER,
			time BIGINT NOT NULL,
			time_update BIGINT NOT NULL,
			card_id VARCHAR(255) NOT NULL
		)`,

		// Notices table
		`CREATE TABLE IF NOT EXISTS notices (
			id SERIAL PRIMARY KEY,
			user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			profile_id INTEGER NOT NULL,
			message TEXT NOT NULL,
			is_cleared BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)`,

		// Reactions table
		`CREATE TABLE IF NOT EXISTS reactions (
			id SERIAL PRIMARY KEY,
			user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			content_id VARCHAR(255) NOT NULL,
			type VARCHAR(50) NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)`,

		// Cards table (season/translation metadata)
		`CREATE TABLE IF NOT EXISTS cards (
			id VARCHAR(255) PRIMARY KEY,
			original_name VARCHAR(255) NOT NULL,
			season_info JSONB
		)`,

		// Create indexes for better performance
		`CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)`,
		`CREATE INDEX IF NOT EXISTS idx_profiles_user_id ON profiles(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_devices_user_id ON devices(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_access_codes_expires_at ON access_codes(expires_at)`,
		`CREATE INDEX IF NOT EXISTS idx_bookmarks_user_profile ON bookmarks(user_id, profile_id)`,
		`CREATE INDEX IF NOT EXISTS idx_bookmarks_card_id ON bookmarks(card_id)`,
		`CREATE INDEX IF NOT EXISTS idx_notifications_user_profile ON notifications(user_id, profile_id)`,
		`CREATE INDEX IF NOT EXISTS idx_notifications_card_id ON notifications(card_id)`,
		`CREATE INDEX IF NOT EXISTS idx_notices_user_profile ON notices(user_id, profile_id)`,
		`CREATE INDEX IF NOT EXISTS idx_reactions_content_id ON reactions(content_id)`,
		`CREATE INDEX IF NOT EXISTS idx_reactions_user_content ON reactions(user_id, content_id, type)`,
	}

	for _, query := range queries {
		if _, err := PostgresDB.Exec(query); err != nil {
			return err
		}
	}

	log.Println("✅ PostgreSQL tables initialized")
	return nil
}

// DisconnectPostgres closes the PostgreSQL connection
func DisconnectPostgres() error {
	if PostgresDB != nil {
		return PostgresDB.Close()
	}
	return nil
}
