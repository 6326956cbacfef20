package models

import (
	"database/sql"
	"time"
)

// User is the identity anchor. The password hash is a placeholder filled
// with random bytes at creation; real authentication is session tokens.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	PremiumDays  int
	NMovie       int
	NTV          int
	NVoice       int
	Premium      int
	Backup       int
	Permission   int
	Bet          string
	Payout       int
	TelegramID   int64
	TelegramChat int64
	Profile      sql.NullInt64 // active profile reference
}
