package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"

	"golang.org/x/crypto/bcrypt"

	"github.com/AidasDir/cub-api-en-docker/internal/models"
)

const (
	// DefaultProfileName is the auto-created profile every user gets.
	DefaultProfileName = "Общий"
	// DefaultProfileIcon is the icon tag assigned to new profiles.
	DefaultProfileIcon = "l_1"
)

// ResolveIdentity finds or creates the user for an email plus its default
// profile, inside the caller's transaction. Creation is upsert-then-read
// (ON CONFLICT DO NOTHING followed by a guaranteed select) so two
// concurrent first-time resolutions for the same email settle on a single
// user row and a single default profile row.
func ResolveIdentity(ctx context.Context, db DBTX, email string) (models.User, models.Profile, error) {
	var user models.User
	var profile models.Profile

	placeholder, err := randomPasswordPlaceholder()
	if err != nil {
		return user, profile, err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO users (email, password_hash, created_at, updated_at, premium_days, n_movie, n_tv, n_voice)
		VALUES ($1, $2, NOW(), NOW(), 0, 1, 1, 1)
		ON CONFLICT (email) DO NOTHING
	`, email, placeholder)
	if err != nil {
		return user, profile, err
	}

	err = db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, created_at, updated_at, premium_days,
			n_movie, n_tv, n_voice, premium, backup, permission, bet, payout,
			telegram_id, telegram_chat, profile
		FROM users WHERE email = $1
	`, email).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt,
		&user.PremiumDays, &user.NMovie, &user.NTV, &user.NVoice, &user.Premium,
		&user.Backup, &user.Permission, &user.Bet, &user.Payout,
		&user.TelegramID, &user.TelegramChat, &user.Profile)
	if err != nil {
		return user, profile, err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO profiles (user_id, name, main, icon)
		VALUES ($1, $2, 1, $3)
		ON CONFLICT (user_id, name) DO NOTHING
	`, user.ID, DefaultProfileName, DefaultProfileIcon)
	if err != nil {
		return user, profile, err
	}

	err = db.QueryRowContext(ctx, `
		SELECT id, user_id, name, main, icon FROM profiles WHERE user_id = $1 AND name = $2
	`, user.ID, DefaultProfileName).Scan(&profile.ID, &profile.UserID, &profile.Name, &profile.Main, &profile.Icon)
	if err != nil {
		return user, profile, err
	}

	// First issuance: point the user at the default profile
	if !user.Profile.Valid {
		_, err = db.ExecContext(ctx, `UPDATE users SET profile = $1, updated_at = NOW() WHERE id = $2`, profile.ID, user.ID)
		if err != nil {
			return user, profile, err
		}
		user.Profile.Valid = true
		user.Profile.Int64 = profile.ID
	}

	return user, profile, nil
}

// randomPasswordPlaceholder fills the unused password column with the
// bcrypt hash of 16 random bytes, matching the created-user contract.
func randomPasswordPlaceholder() (string, error) {
	raw := make([]byte, 16)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(hex.EncodeToString(raw)), 10)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}
