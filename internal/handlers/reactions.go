package handlers

import (
	"database/sql"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AidasDir/cub-api-en-docker/internal/database"
	"github.com/AidasDir/cub-api-en-docker/internal/middleware"
)

type ReactionCount struct {
	CardID  string `json:"card_id"`
	Type    string `json:"type"`
	Counter int    `json:"counter"`
}

// ReactionsGet returns per-type reaction counts for a piece of content.
// Public: no session required.
func ReactionsGet(w http.ResponseWriter, r *http.Request) {
	contentID := chi.URLParam(r, "id")
	if contentID == "" {
		writeError(w, http.StatusBadRequest, 400, "Content ID is required.")
		return
	}

	rows, err := database.PostgresDB.QueryContext(r.Context(), `
		SELECT content_id, type, COUNT(*) FROM reactions WHERE content_id = $1 GROUP BY content_id, type
	`, contentID)
	if err != nil {
		log.Printf("Error in /api/reactions/get: %v", err)
		writeError(w, http.StatusInternalServerError, 500, "Internal server error.")
		return
	}
	defer rows.Close()

	result := []ReactionCount{}
	for rows.Next() {
		var rc ReactionCount
		if err := rows.Scan(&rc.CardID, &rc.Type, &rc.Counter); err != nil {
			log.Printf("Error in /api/reactions/get: %v", err)
			writeError(w, http.StatusInternalServerError, 500, "Internal server error.")
			return
		}
		result = append(result, rc)
	}
	if err := rows.Err(); err != nil {
		log.Printf("Error in /api/reactions/get: %v", err)
		writeError(w, http.StatusInternalServerError, 500, "Internal server error.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"secuses": true, "result": result})
}

// ReactionsAdd records one reaction per (user, content, type); duplicates
// answer the frontend's documented 500.
func ReactionsAdd(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)
	contentID := chi.URLParam(r, "content_id")
	reactionType := chi.URLParam(r, "type")

	if contentID == "" || reactionType == "" {
		writeError(w, http.StatusBadRequest, 400, "Content ID and type are required.")
		return
	}

	var existing int64
	err := database.PostgresDB.QueryRowContext(r.Context(),
		`SELECT id FROM reactions WHERE user_id = $1 AND content_id = $2 AND type = $3`,
		userID, contentID, reactionType).Scan(&existing)
	if err == nil {
		writeError(w, http.StatusInternalServerError, 500, "You have already left the reaction")
		return
	}
	if err != sql.ErrNoRows {
		log.Printf("Error in /api/reactions/add: %v", err)
		writeError(w, http.StatusInternalServerError, 500, "Internal server error.")
		return
	}

	_, err = database.PostgresDB.ExecContext(r.Context(),
		`INSERT INTO reactions (user_id, content_id, type, created_at) VALUES ($1, $2, $3, NOW())`,
		userID, contentID, reactionType)
	if err != nil {
		log.Printf("Error in /api/reactions/add: %v", err)
		writeError(w, http.StatusInternalServerError, 500, "Internal server error.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"secuses": true})
}
