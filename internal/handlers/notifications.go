package handlers

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/AidasDir/cub-api-en-docker/internal/database"
	"github.com/AidasDir/cub-api-en-docker/internal/middleware"
)

// NotificationLimit caps notifications per user/profile.
const NotificationLimit = 10

type NotificationPayload struct {
	ID         int64  `json:"id"`
	CID        int64  `json:"cid"`
	Profile    int64  `json:"profile"`
	Voice      string `json:"voice"`
	CardID     string `json:"card_id"`
	Card       string `json:"card"`
	Status     int    `json:"status"`
	Time       int64  `json:"time"`
	TimeUpdate int64  `json:"time_update"`
	Episode    int    `json:"episode"`
	Season     int    `json:"season"`
}

// NotificationsAll lists the profile's notifications, newest first. A null
// status reads back as 1 and card data is re-serialized to a JSON string.
func NotificationsAll(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)
	profileID, _ := middleware.ProfileID(r)

	rows, err := database.PostgresDB.QueryContext(r.Context(), `
		SELECT id, user_id, profile_id, voice, card_id, card, status, time, time_update, episode, season
		FROM notifications WHERE user_id = $1 AND profile_id = $2 ORDER BY time DESC
	`, userID, profileID)
	if err != nil {
		log.Printf("Error in /api/notifications/all: %v", err)
		writeError(w, http.StatusInternalServerError, 500, "Internal server error.")
		return
	}
	defer rows.Close()

	notifications := []NotificationPayload{}
	for rows.Next() {
		var n NotificationPayload
		var card []byte
		var status sql.NullInt64
		if err := rows.Scan(&n.ID, &n.CID, &n.Profile, &n.Voice, &n.CardID, &card, &status, &n.Time, &n.TimeUpdate, &n.Episode, &n.Season); err != nil {
			log.Printf("Error in /api/notifications/all: %v", err)
			writeError(w, http.StatusInternalServerError, 500, "Internal server error.")
			return
		}
		n.Card = string(card)
		n.Status = 1
		if status.Valid {
			n.Status = int(status.Int64)
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		log.Printf("Error in /api/notifications/all: %v", err)
		writeError(w, http.StatusInternalServerError, 500, "Internal server error.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"secuses": true, "notifications": notifications})
}

type NotificationsAddRequest struct {
	Data    map[string]any `json:"data"`
	Voice   string         `json:"voice"`
	Season  *int           `json:"season"`
	Episode *int           `json:"episode"`
}

// NotificationsAdd upserts a notification keyed by card id, enforcing the
// per-profile limit on fresh inserts.
func NotificationsAdd(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)
	profileID, _ := middleware.ProfileID(r)

	var req NotificationsAddRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, 400, "Invalid data format.")
		return
	}
	if req.Data == nil || req.Voice == "" {
		writeError(w, http.StatusBadRequest, 400, "Data and voice are required.")
		return
	}

	season, episode := 1, 1
	if req.Season != nil {
		season = *req.Season
	}
	if req.Episode != nil {
		episode = *req.Episode
	}

	dataToStore, err := json.Marshal(req.Data)
	if err != nil {
		writeError(w, http.StatusBadRequest, 400, "Invalid data format.")
		return
	}

	finalCardID := asString(req.Data["id"])
	if finalCardID == "" {
		finalCardID = uuid.NewString()
	}

	var notificationID int64
	err = database.PostgresDB.QueryRowContext(r.Context(),
		`SELECT id FROM notifications WHERE card_id = $1 AND user_id = $2 AND profile_id = $3`,
		finalCardID, userID, profileID).Scan(&notificationID)

	if err == nil {
		_, err = database.PostgresDB.ExecContext(r.Context(),
			`UPDATE notifications SET voice = $1, time = $2 WHERE id = $3 AND user_id = $4 AND profile_id = $5`,
			req.Voice, time.Now().UnixMilli(), notificationID, userID, profileID)
		if err != nil {
			log.Printf("Error in /api/notifications/add: %v", err)
			writeError(w, http.StatusInternalServerError, 500, "Internal server error.")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Notification updated successfully.", "id": notificationID})
		return
	}
	if err != sql.ErrNoRows {
		log.Printf("Error in /api/notifications/add: %v", err)
		writeError(w, http.StatusInternalServerError, 500, "Internal server error.")
		return
	}

	var count int
	err = database.PostgresDB.QueryRowContext(r.Context(),
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND profile_id = $2`,
		userID, profileID).Scan(&count)
	if err != nil {
		log.Printf("Error in /api/notifications/add: %v", err)
		writeError(w, http.StatusInternalServerError, 500, "Internal server error.")
		return
	}
	if count >= NotificationLimit {
		writeError(w, http.StatusTooManyRequests, 429, "Notification limit exceeded")
		return
	}

	now := time.Now().UnixMilli()
	err = database.PostgresDB.QueryRowContext(r.Context(), `
		INSERT INTO notifications (user_id, profile_id, card, voice, season, episode, time, time_update, card_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id
	`, userID, profileID, dataToStore, req.Voice, season, episode, now, now, finalCardID).Scan(&notificationID)
	if err != nil {
		log.Printf("Error in /api/notifications/add: %v", err)
		writeError(w, http.StatusInternalServerError, 500, "Internal server error.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Notification added successfully.", "id": notificationID})
}

type NotificationsRemoveRequest struct {
	ID int64 `json:"id"`
}

// NotificationsRemove deletes a notification owned by the caller.
func NotificationsRemove(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)
	profileID, _ := middleware.ProfileID(r)

	var req NotificationsRemoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == 0 {
		writeError(w, http.StatusBadRequest, 400, "Notification ID is required.")
		return
	}

	result, err := database.PostgresDB.ExecContext(r.Context(),
		`DELETE FROM notifications WHERE id = $1 AND user_id = $2 AND profile_id = $3`,
		req.ID, userID, profileID)
	if err != nil {
		log.Printf("Error in /api/notifications/remove: %v", err)
		writeError(w, http.StatusInternalServerError, 500, "Internal server error.")
		return
	}

	if removed, _ := result.RowsAffected(); removed == 0 {
		writeError(w, http.StatusNotFound, 404, "Notification not found or not authorized for this user/profile.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Notification removed successfully."})
}

type NotificationsStatusRequest struct {
	ID     int64 `json:"id"`
	Status any   `json:"status"`
}

// NotificationsStatus flips a notification's read flag (0 or 1).
func NotificationsStatus(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)
	profileID, _ := middleware.ProfileID(r)

	var req NotificationsStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, 400, "Notification ID and a valid status (0 or 1) are required.")
		return
	}

	status, ok := asInt64(req.Status)
	if req.ID == 0 || !ok || (status != 0 && status != 1) {
		writeError(w, http.StatusBadRequest, 400, "Notification ID and a valid status (0 or 1) are required.")
		return
	}

	result, err := database.PostgresDB.ExecContext(r.Context(),
		`UPDATE notifications SET status = $1, time_update = $2 WHERE id = $3 AND user_id = $4 AND profile_id = $5`,
		status, time.Now().UnixMilli(), req.ID, userID, profileID)
	if err != nil {
		log.Printf("Error in /api/notifications/status: %v", err)
		writeError(w, http.StatusInternalServerError, 500, "Internal server error.")
		return
	}

	if updated, _ := result.RowsAffected(); updated == 0 {
		writeError(w, http.StatusNotFound, 404, "Notification not found or not authorized for this user/profile.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Notification status updated successfully."})
}
