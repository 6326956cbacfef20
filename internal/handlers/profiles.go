package handlers

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"

	"github.com/AidasDir/cub-api-en-docker/internal/database"
	"github.com/AidasDir/cub-api-en-docker/internal/middleware"
	"github.com/AidasDir/cub-api-en-docker/internal/services"
)

// ProfilesAll lists every profile belonging to the authenticated user.
func ProfilesAll(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)

	rows, err := database.PostgresDB.QueryContext(r.Context(),
		`SELECT id, user_id, name, main, icon FROM profiles WHERE user_id = $1`, userID)
	if err != nil {
		log.Printf("Error in /api/profiles/all: %v", err)
		writeError(w, http.StatusInternalServerError, 500, "Internal server error.")
		return
	}
	defer rows.Close()

	profiles := []ProfilePayload{}
	for rows.Next() {
		var p ProfilePayload
		if err := rows.Scan(&p.ID, &p.CID, &p.Name, &p.Main, &p.Icon); err != nil {
			log.Printf("Error in /api/profiles/all: %v", err)
			writeError(w, http.StatusInternalServerError, 500, "Internal server error.")
			return
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		log.Printf("Error in /api/profiles/all: %v", err)
		writeError(w, http.StatusInternalServerError, 500, "Internal server error.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"secuses": true, "profiles": profiles})
}

type ProfilesChangeRequest struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ProfilesChange renames one of the caller's profiles.
func ProfilesChange(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)

	var req ProfilesChangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == 0 || req.Name == "" {
		writeError(w, http.StatusBadRequest, 400, "Profile ID and name are required.")
		return
	}

	result, err := database.PostgresDB.ExecContext(r.Context(),
		`UPDATE profiles SET name = $1 WHERE id = $2 AND user_id = $3`,
		req.Name, req.ID, userID)
	if err != nil {
		log.Printf("Error in /api/profiles/change: %v", err)
		writeError(w, http.StatusInternalServerError, 500, "Internal server error.")
		return
	}

	if updated, _ := result.RowsAffected(); updated == 0 {
		writeError(w, http.StatusNotFound, 404, "Profile not found or not authorized for this user.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Profile updated successfully."})
}

type ProfilesCreateRequest struct {
	Name string `json:"name"`
}

// ProfilesCreate adds a new profile, capped at 3 (8 with premium).
func ProfilesCreate(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)

	var req ProfilesCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		writeError(w, http.StatusBadRequest, 400, "Profile name is required.")
		return
	}

	var premium int
	err := database.PostgresDB.QueryRowContext(r.Context(),
		`SELECT premium FROM users WHERE id = $1`, userID).Scan(&premium)
	if err != nil && err != sql.ErrNoRows {
		log.Printf("Error in /api/profiles/create: %v", err)
		writeError(w, http.StatusInternalServerError, 500, "Internal server error.")
		return
	}

	var count int
	if err := database.PostgresDB.QueryRowContext(r.Context(),
		`SELECT COUNT(*) FROM profiles WHERE user_id = $1`, userID).Scan(&count); err != nil {
		log.Printf("Error in /api/profiles/create: %v", err)
		writeError(w, http.StatusInternalServerError, 500, "Internal server error.")
		return
	}

	maxProfiles := 3
	if premium == 1 {
		maxProfiles = 8
	}
	if count >= maxProfiles {
		writeError(w, http.StatusBadRequest, 400, "Maximum number of profiles created.")
		return
	}

	var p ProfilePayload
	err = database.PostgresDB.QueryRowContext(r.Context(),
		`INSERT INTO profiles (user_id, name, main, icon) VALUES ($1, $2, 0, $3) RETURNING id, user_id, name`,
		userID, req.Name, services.DefaultProfileIcon).Scan(&p.ID, &p.CID, &p.Name)
	if err != nil {
		log.Printf("Error in /api/profiles/create: %v", err)
		writeError(w, http.StatusInternalServerError, 500, "Internal server error.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"secuses": true,
		"profile": map[string]any{"id": p.ID, "cid": p.CID, "name": p.Name},
	})
}

type ProfilesRemoveRequest struct {
	ID int64 `json:"id"`
}

// ProfilesRemove deletes one of the caller's profiles.
func ProfilesRemove(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)

	var req ProfilesRemoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == 0 {
		writeError(w, http.StatusBadRequest, 400, "Profile ID is required.")
		return
	}

	result, err := database.PostgresDB.ExecContext(r.Context(),
		`DELETE FROM profiles WHERE id = $1 AND user_id = $2`, req.ID, userID)
	if err != nil {
		log.Printf("Error in /api/profiles/remove: %v", err)
		writeError(w, http.StatusInternalServerError, 500, "Internal server error.")
		return
	}

	if removed, _ := result.RowsAffected(); removed == 0 {
		writeError(w, http.StatusNotFound, 404, "Profile not found or not authorized for this user.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Profile removed successfully."})
}

type ProfilesActiveRequest struct {
	ID any `json:"id"`
}

// ProfilesActive switches the user's active profile after an ownership
// check.
func ProfilesActive(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)

	var req ProfilesActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, 400, "Profile ID is required.")
		return
	}
	profileID, ok := asInt64(req.ID)
	if !ok || profileID == 0 {
		writeError(w, http.StatusBadRequest, 400, "Invalid Profile ID format.")
		return
	}

	var owned int64
	err := database.PostgresDB.QueryRowContext(r.Context(),
		`SELECT id FROM profiles WHERE id = $1 AND user_id = $2`, profileID, userID).Scan(&owned)
	if err == sql.ErrNoRows {
		writeError(w, http.StatusNotFound, 404, "Profile not found or does not belong to this user.")
		return
	}
	if err != nil {
		log.Printf("Error in /api/profiles/active: %v", err)
		writeError(w, http.StatusInternalServerError, 500, "Internal server error.")
		return
	}

	result, err := database.PostgresDB.ExecContext(r.Context(),
		`UPDATE users SET profile = $1, updated_at = NOW() WHERE id = $2`, profileID, userID)
	if err != nil {
		log.Printf("Error in /api/profiles/active: %v", err)
		writeError(w, http.StatusInternalServerError, 500, "Internal server error.")
		return
	}

	if updated, _ := result.RowsAffected(); updated == 0 {
		writeError(w, http.StatusNotFound, 404, "User not found.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Active profile updated successfully."})
}
