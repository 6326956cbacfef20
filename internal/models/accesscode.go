package models

import (
	"database/sql"
	"time"
)

// AccessCode is a short-lived single-use pairing code binding a
// not-yet-identified device to a user account. Redemption deletes the row.
type AccessCode struct {
	Code      string
	ExpiresAt time.Time
	UserEmail sql.NullString // email captured at generation time, if known
}
