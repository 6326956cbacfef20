package services

import (
	"context"
	"crypto/rand"
	"database/sql"
	"math/big"
	"strconv"
	"time"

	"github.com/AidasDir/cub-api-en-docker/internal/models"
)

// AccessCodeTTL is how long a pairing code stays redeemable.
const AccessCodeTTL = 20 * time.Minute

// GenerateAccessCode creates a 6-digit pairing code for an authenticated
// user, valid for AccessCodeTTL. The caller's email is attached so the
// pairing device can be associated later. Re-generating an existing code
// value refreshes its expiry rather than failing on the unique key.
func GenerateAccessCode(ctx context.Context, db DBTX, userID int64) (models.AccessCode, error) {
	var ac models.AccessCode

	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return ac, err
	}
	ac.Code = strconv.FormatInt(n.Int64()+100000, 10)
	ac.ExpiresAt = time.Now().Add(AccessCodeTTL)

	var email sql.NullString
	err = db.QueryRowContext(ctx, `SELECT email FROM users WHERE id = $1`, userID).Scan(&email.String)
	if err == nil {
		email.Valid = true
	} else if err != sql.ErrNoRows {
		return ac, err
	}
	ac.UserEmail = email

	_, err = db.ExecContext(ctx, `
		INSERT INTO access_codes (code, expires_at, user_email)
		VALUES ($1, $2, $3)
		ON CONFLICT (code) DO UPDATE SET expires_at = $2, user_email = $3
	`, ac.Code, ac.ExpiresAt, ac.UserEmail)
	if err != nil {
		return ac, err
	}

	return ac, nil
}

// RedeemAccessCode consumes a pairing code. Validation (not expired) and
// consumption are a single DELETE ... RETURNING, so a code can be redeemed
// at most once even under concurrent attempts. Returns false when the code
// is unknown, already used, or expired.
func RedeemAccessCode(ctx context.Context, db DBTX, code string) (bool, error) {
	var redeemed string
	err := db.QueryRowContext(ctx, `
		DELETE FROM access_codes WHERE code = $1 AND expires_at > NOW() RETURNING code
	`, code).Scan(&redeemed)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
