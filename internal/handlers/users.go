package handlers

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/AidasDir/cub-api-en-docker/internal/database"
	"github.com/AidasDir/cub-api-en-docker/internal/middleware"
	"github.com/AidasDir/cub-api-en-docker/internal/models"
	"github.com/AidasDir/cub-api-en-docker/pkg/tokenhash"
)

type UserPayload struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	Profile      any    `json:"profile"`
	TelegramID   int64  `json:"telegram_id"`
	TelegramChat int64  `json:"telegram_chat"`
	NMovie       int    `json:"n_movie"`
	NTV          int    `json:"n_tv"`
	NVoice       int    `json:"n_voice"`
	Premium      int    `json:"premium"`
	Backup       int    `json:"backup"`
	Permission   int    `json:"permission"`
	Bet          string `json:"bet"`
	Payout       int    `json:"payout"`
}

func userPayload(u models.User) UserPayload {
	p := UserPayload{
		ID:           u.ID,
		Email:        u.Email,
		TelegramID:   u.TelegramID,
		TelegramChat: u.TelegramChat,
		NMovie:       u.NMovie,
		NTV:          u.NTV,
		NVoice:       u.NVoice,
		Premium:      u.Premium,
		Backup:       u.Backup,
		Permission:   u.Permission,
		Bet:          u.Bet,
		Payout:       u.Payout,
	}
	if u.Profile.Valid {
		p.Profile = u.Profile.Int64
	}
	return p
}

func scanUserByKey(r *http.Request, where string, arg any) (models.User, error) {
	var u models.User
	err := database.PostgresDB.QueryRowContext(r.Context(), `
		SELECT id, email, telegram_id, telegram_chat, n_movie, n_tv, n_voice,
			premium, backup, permission, bet, payout, profile
		FROM users WHERE `+where, arg).
		Scan(&u.ID, &u.Email, &u.TelegramID, &u.TelegramChat, &u.NMovie, &u.NTV, &u.NVoice,
			&u.Premium, &u.Backup, &u.Permission, &u.Bet, &u.Payout, &u.Profile)
	return u, err
}

// UsersFind looks a user up by email. Public; the error contract here is
// the original one the docs UI renders (500 with inner code).
func UsersFind(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		writeError(w, http.StatusInternalServerError, 400, "Email cannot be empty.")
		return
	}

	u, err := scanUserByKey(r, "email = $1", email)
	if err == sql.ErrNoRows {
		writeError(w, http.StatusInternalServerError, 300, "User not found.")
		return
	}
	if err != nil {
		log.Printf("Error in /api/users/find: %v", err)
		writeError(w, http.StatusInternalServerError, 500, "Internal server error.")
		return
	}

	p := userPayload(u)
	writeJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"id":            p.ID,
		"email":         p.Email,
		"profile":       p.Profile,
		"telegram_id":   p.TelegramID,
		"telegram_chat": p.TelegramChat,
		"n_movie":       p.NMovie,
		"n_tv":          p.NTV,
		"n_voice":       p.NVoice,
		"premium":       p.Premium,
		"backup":        p.Backup,
		"permission":    p.Permission,
		"bet":           p.Bet,
		"payout":        p.Payout,
	})
}

// UsersGet returns the authenticated user's own record.
func UsersGet(w http.ResponseWriter, r *http.Request) {
	u, err := scanUserByKey(r, "id = $1", middleware.UserID(r))
	if err == sql.ErrNoRows {
		writeError(w, http.StatusNotFound, 404, "User not found.")
		return
	}
	if err != nil {
		log.Printf("Error in /api/users/get: %v", err)
		writeError(w, http.StatusInternalServerError, 500, "Internal server error.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"secuses": true, "user": userPayload(u)})
}

type UsersGiveRequest struct {
	To       any    `json:"to"`
	Days     int    `json:"days"`
	Password string `json:"password"`
}

// UsersGive transfers premium days from the caller to another user. Both
// balance updates run in one transaction so a crash can't move days
// without deducting them.
func UsersGive(w http.ResponseWriter, r *http.Request) {
	giverID := middleware.UserID(r)

	var req UsersGiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, 400, "Recipient ID, days, and password are required.")
		return
	}

	recipientID, ok := asInt64(req.To)
	if !ok || recipientID == 0 || req.Days == 0 || req.Password == "" {
		writeError(w, http.StatusBadRequest, 400, "Recipient ID, days, and password are required.")
		return
	}
	if giverID == recipientID {
		writeError(w, 455, 455, "Cannot gift to yourself.")
		return
	}
	if req.Days < 5 {
		writeError(w, http.StatusBadRequest, 400, "Minimum 5 days required.")
		return
	}

	ctx := r.Context()
	tx, err := database.PostgresDB.BeginTx(ctx, nil)
	if err != nil {
		log.Printf("Error in /api/users/give: %v", err)
		writeError(w, http.StatusInternalServerError, 500, "Internal server error.")
		return
	}
	defer tx.Rollback()

	var passwordHash string
	var premiumDays sql.NullInt64
	err = tx.QueryRowContext(ctx,
		`SELECT password_hash, premium_days FROM users WHERE id = $1 FOR UPDATE`, giverID).
		Scan(&passwordHash, &premiumDays)
	if err == sql.ErrNoRows {
		writeError(w, http.StatusNotFound, 404, "Giver user not found.")
		return
	}
	if err != nil {
		log.Printf("Error in /api/users/give: %v", err)
		writeError(w, http.StatusInternalServerError, 500, "Internal server error.")
		return
	}

	if !tokenhash.Verify(req.Password, passwordHash) {
		writeError(w, 457, 457, "Password does not match.")
		return
	}
	if !premiumDays.Valid || premiumDays.Int64 < int64(req.Days) {
		writeError(w, 458, 458, "Insufficient CUB Premium days.")
		return
	}

	var recipientExists int64
	err = tx.QueryRowContext(ctx, `SELECT id FROM users WHERE id = $1 FOR UPDATE`, recipientID).Scan(&recipientExists)
	if err == sql.ErrNoRows {
		writeError(w, 459, 459, "User not found.")
		return
	}
	if err != nil {
		log.Printf("Error in /api/users/give: %v", err)
		writeError(w, http.StatusInternalServerError, 500, "Internal server error.")
		return
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE users SET premium_days = premium_days - $1 WHERE id = $2`, req.Days, giverID); err != nil {
		log.Printf("Error in /api/users/give: %v", err)
		writeError(w, http.StatusInternalServerError, 500, "Internal server error.")
		return
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE users SET premium_days = COALESCE(premium_days, 0) + $1 WHERE id = $2`, req.Days, recipientID); err != nil {
		log.Printf("Error in /api/users/give: %v", err)
		writeError(w, http.StatusInternalServerError, 500, "Internal server error.")
		return
	}

	if err := tx.Commit(); err != nil {
		log.Printf("Error in /api/users/give: %v", err)
		writeError(w, http.StatusInternalServerError, 500, "Internal server error.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": fmt.Sprintf("Successfully gifted %d premium days to user %d.", req.Days, recipientID),
	})
}
