package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/AidasDir/cub-api-en-docker/internal/database"
	"github.com/AidasDir/cub-api-en-docker/internal/middleware"
)

type NoticePayload struct {
	Message   string    `json:"message"`
	IsCleared bool      `json:"is_cleared"`
	CreatedAt time.Time `json:"created_at"`
}

// NoticeAll lists the profile's notices.
func NoticeAll(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)
	profileID, _ := middleware.ProfileID(r)

	rows, err := database.PostgresDB.QueryContext(r.Context(),
		`SELECT message, is_cleared, created_at FROM notices WHERE user_id = $1 AND profile_id = $2`,
		userID, profileID)
	if err != nil {
		log.Printf("Error in /api/notice/all: %v", err)
		writeError(w, http.StatusInternalServerError, 500, "Internal server error.")
		return
	}
	defer rows.Close()

	notices := []NoticePayload{}
	for rows.Next() {
		var n NoticePayload
		if err := rows.Scan(&n.Message, &n.IsCleared, &n.CreatedAt); err != nil {
			log.Printf("Error in /api/notice/all: %v", err)
			writeError(w, http.StatusInternalServerError, 500, "Internal server error.")
			return
		}
		notices = append(notices, n)
	}
	if err := rows.Err(); err != nil {
		log.Printf("Error in /api/notice/all: %v", err)
		writeError(w, http.StatusInternalServerError, 500, "Internal server error.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"secuses": true, "notice": notices})
}

// NoticeClear marks all of the profile's notices as cleared.
func NoticeClear(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)
	profileID, _ := middleware.ProfileID(r)

	_, err := database.PostgresDB.ExecContext(r.Context(),
		`UPDATE notices SET is_cleared = TRUE WHERE user_id = $1 AND profile_id = $2`,
		userID, profileID)
	if err != nil {
		log.Printf("Error in /api/notice/clear: %v", err)
		writeError(w, http.StatusInternalServerError, 500, "Internal server error.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "All notices cleared successfully."})
}
