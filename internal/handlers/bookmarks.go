package handlers

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/AidasDir/cub-api-en-docker/internal/database"
	"github.com/AidasDir/cub-api-en-docker/internal/middleware"
)

// BookmarkPayload mirrors the frontend contract: data is a JSON string,
// not a nested object, and profile carries the profile id.
type BookmarkPayload struct {
	ID      int64  `json:"id"`
	CID     int64  `json:"cid"`
	Type    string `json:"type"`
	Data    string `json:"data"`
	CardID  string `json:"card_id"`
	Profile int64  `json:"profile"`
	Time    int64  `json:"time"`
}

type BookmarkTypeCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

type BookmarksAllResponse struct {
	Secuses   bool                `json:"secuses"`
	Bookmarks []BookmarkPayload   `json:"bookmarks"`
	Counts    []BookmarkTypeCount `json:"counts"`
}

// BookmarksAll lists the profile's bookmarks, newest first, together with
// per-type counts (default types zero-filled).
func BookmarksAll(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)
	profileID, ok := middleware.ProfileID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, 400, "Profile ID is required in the Profile header.")
		return
	}

	query := `SELECT id, user_id, type, data, card_id, profile_id, time
		FROM bookmarks WHERE user_id = $1 AND profile_id = $2`
	params := []any{userID, profileID}
	if t := r.URL.Query().Get("type"); t != "" {
		query += ` AND type = $3`
		params = append(params, t)
	}
	query += ` ORDER BY time DESC`

	rows, err := database.PostgresDB.QueryContext(r.Context(), query, params...)
	if err != nil {
		log.Printf("Error in /api/bookmarks/all: %v", err)
		writeError(w, http.StatusInternalServerError, 500, "Internal server error.")
		return
	}
	defer rows.Close()

	bookmarks := []BookmarkPayload{}
	for rows.Next() {
		var b BookmarkPayload
		var data []byte
		if err := rows.Scan(&b.ID, &b.CID, &b.Type, &data, &b.CardID, &b.Profile, &b.Time); err != nil {
			log.Printf("Error in /api/bookmarks/all: %v", err)
			writeError(w, http.StatusInternalServerError, 500, "Internal server error.")
			return
		}
		b.Data = string(data)
		bookmarks = append(bookmarks, b)
	}
	if err := rows.Err(); err != nil {
		log.Printf("Error in /api/bookmarks/all: %v", err)
		writeError(w, http.StatusInternalServerError, 500, "Internal server error.")
		return
	}

	countRows, err := database.PostgresDB.QueryContext(r.Context(),
		`SELECT type, COUNT(*) FROM bookmarks WHERE user_id = $1 AND profile_id = $2 GROUP BY type`,
		userID, profileID)
	if err != nil {
		log.Printf("Error in /api/bookmarks/all: %v", err)
		writeError(w, http.StatusInternalServerError, 500, "Internal server error.")
		return
	}
	defer countRows.Close()

	counts := []BookmarkTypeCount{}
	for countRows.Next() {
		var c BookmarkTypeCount
		if err := countRows.Scan(&c.Type, &c.Count); err != nil {
			log.Printf("Error in /api/bookmarks/all: %v", err)
			writeError(w, http.StatusInternalServerError, 500, "Internal server error.")
			return
		}
		counts = append(counts, c)
	}

	// Default types show up even when empty
	for _, defaultType := range []string{"book", "history", "like", "wath"} {
		found := false
		for _, c := range counts {
			if c.Type == defaultType {
				found = true
				break
			}
		}
		if !found {
			counts = append(counts, BookmarkTypeCount{Type: defaultType, Count: 0})
		}
	}
	sort.Slice(counts, func(i, j int) bool { return counts[i].Type < counts[j].Type })

	writeJSON(w, http.StatusOK, BookmarksAllResponse{Secuses: true, Bookmarks: bookmarks, Counts: counts})
}

type BookmarksAddRequest struct {
	Data map[string]any `json:"data"`
	Type string         `json:"type"`
}

type BookmarksAddResponse struct {
	Secuses  bool            `json:"secuses"`
	Bookmark BookmarkPayload `json:"bookmark"`
	Write    string          `json:"write"`
}

// BookmarksAdd upserts a bookmark keyed by (card_id, user, profile).
// A missing or placeholder card id gets replaced with a fresh UUID.
func BookmarksAdd(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)
	profileID, _ := middleware.ProfileID(r)

	var req BookmarksAddRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, 300, "Ошибка в данных")
		return
	}
	if req.Data == nil || req.Type == "" {
		writeError(w, http.StatusBadRequest, 300, "Ошибка в данных")
		return
	}

	dataToStore, err := json.Marshal(req.Data)
	if err != nil {
		writeError(w, http.StatusBadRequest, 300, "Ошибка в данных")
		return
	}

	finalCardID := asString(req.Data["id"])
	if finalCardID == "" || finalCardID == "123456789" {
		finalCardID = uuid.NewString()
	}

	var existingID int64
	err = database.PostgresDB.QueryRowContext(r.Context(),
		`SELECT id FROM bookmarks WHERE card_id = $1 AND user_id = $2 AND profile_id = $3`,
		finalCardID, userID, profileID).Scan(&existingID)
	if err != nil && err != sql.ErrNoRows {
		log.Printf("Error in /api/bookmarks/add: %v", err)
		writeError(w, http.StatusInternalServerError, 500, "Internal server error.")
		return
	}

	var b BookmarkPayload
	var data []byte
	write := "insert"

	if err == nil {
		write = "update"
		err = database.PostgresDB.QueryRowContext(r.Context(), `
			UPDATE bookmarks SET data = $1, type = $2, time = $3
			WHERE card_id = $4 AND user_id = $5 AND profile_id = $6
			RETURNING id, type, data, card_id, profile_id, time
		`, dataToStore, req.Type, time.Now().UnixMilli(), finalCardID, userID, profileID).
			Scan(&b.ID, &b.Type, &data, &b.CardID, &b.Profile, &b.Time)
	} else {
		err = database.PostgresDB.QueryRowContext(r.Context(), `
			INSERT INTO bookmarks (user_id, profile_id, type, data, card_id, time)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, type, data, card_id, profile_id, time
		`, userID, profileID, req.Type, dataToStore, finalCardID, time.Now().UnixMilli()).
			Scan(&b.ID, &b.Type, &data, &b.CardID, &b.Profile, &b.Time)
	}
	if err != nil {
		log.Printf("Error in /api/bookmarks/add: %v", err)
		writeError(w, http.StatusInternalServerError, 500, "Internal server error.")
		return
	}
	b.CID = userID
	b.Data = string(data)

	writeJSON(w, http.StatusOK, BookmarksAddResponse{Secuses: true, Bookmark: b, Write: write})
}

type BookmarksRemoveRequest struct {
	ID   int64   `json:"id"`
	List []int64 `json:"list"`
}

// BookmarksRemove deletes one bookmark by id or several by list.
func BookmarksRemove(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)
	profileID, _ := middleware.ProfileID(r)

	var req BookmarksRemoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, 400, "Either an ID or a list of IDs is required.")
		return
	}
	if req.ID == 0 && len(req.List) == 0 {
		writeError(w, http.StatusBadRequest, 400, "Either an ID or a list of IDs is required.")
		return
	}

	ids := req.List
	if req.ID != 0 {
		ids = []int64{req.ID}
	}

	result, err := database.PostgresDB.ExecContext(r.Context(),
		`DELETE FROM bookmarks WHERE user_id = $1 AND profile_id = $2 AND id = ANY($3)`,
		userID, profileID, pq.Array(ids))
	if err != nil {
		log.Printf("Error in /api/bookmarks/remove: %v", err)
		writeError(w, http.StatusInternalServerError, 500, "Internal server error.")
		return
	}

	removed, _ := result.RowsAffected()
	if removed == 0 {
		writeError(w, http.StatusNotFound, 404, "No bookmarks found with the provided ID(s) for this user and profile.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": fmt.Sprintf("%d bookmark(s) removed successfully.", removed),
	})
}
