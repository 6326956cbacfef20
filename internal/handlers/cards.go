package handlers

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/AidasDir/cub-api-en-docker/internal/database"
	"github.com/AidasDir/cub-api-en-docker/internal/middleware"
)

type CardSeasonRequest struct {
	ID           any    `json:"id"`
	OriginalName string `json:"original_name"`
	Season       any    `json:"season"`
}

// CardSeason returns the stored season metadata for a card.
func CardSeason(w http.ResponseWriter, r *http.Request) {
	var req CardSeasonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, 400, "Card ID, original name, and season number are required.")
		return
	}

	cardID := asString(req.ID)
	season, seasonOK := asInt64(req.Season)
	if cardID == "" || req.OriginalName == "" || !seasonOK || season == 0 {
		writeError(w, http.StatusBadRequest, 400, "Card ID, original name, and season number are required.")
		return
	}

	var seasonInfo []byte
	err := database.PostgresDB.QueryRowContext(r.Context(),
		`SELECT season_info FROM cards WHERE id = $1 AND original_name = $2`,
		cardID, req.OriginalName).Scan(&seasonInfo)
	if err == sql.ErrNoRows || (err == nil && len(seasonInfo) == 0) {
		writeError(w, http.StatusNotFound, 404, "Season information not found for the given card.")
		return
	}
	if err != nil {
		log.Printf("Error in /api/card/season: %v", err)
		writeError(w, http.StatusInternalServerError, 500, "Internal server error.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"season":  json.RawMessage(seasonInfo),
	})
}

type CardIDRequest struct {
	ID any `json:"id"`
}

// CardSubscribed reports whether the caller can subscribe to a card:
// holding premium days implies general subscription capability.
func CardSubscribed(w http.ResponseWriter, r *http.Request) {
	var req CardIDRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || asString(req.ID) == "" {
		writeError(w, http.StatusBadRequest, 400, "Card ID is required.")
		return
	}

	premiumDays, err := premiumDaysFor(r, middleware.UserID(r))
	if err != nil {
		log.Printf("Error in /api/card/subscribed: %v", err)
		writeError(w, http.StatusInternalServerError, 500, "Internal server error.")
		return
	}
	if premiumDays <= 0 {
		writeError(w, 466, 466, "No subscriptions")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "subscribed": true})
}

type CardTranslationsRequest struct {
	ID     any `json:"id"`
	Season any `json:"season"`
}

type seasonInfoDoc struct {
	Episodes []struct {
		SeasonNumber int    `json:"season_number"`
		Name         string `json:"name"`
	} `json:"episodes"`
}

// CardTranslations returns translation metadata for a card's season,
// falling back to a synthesized title when the stored info carries none.
func CardTranslations(w http.ResponseWriter, r *http.Request) {
	var req CardTranslationsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, 400, "Card ID and season number are required.")
		return
	}

	cardID := asString(req.ID)
	season, seasonOK := asInt64(req.Season)
	if cardID == "" || !seasonOK || season == 0 {
		writeError(w, http.StatusBadRequest, 400, "Card ID and season number are required.")
		return
	}

	var seasonInfo []byte
	err := database.PostgresDB.QueryRowContext(r.Context(),
		`SELECT season_info FROM cards WHERE id = $1`, cardID).Scan(&seasonInfo)
	if err == sql.ErrNoRows || (err == nil && len(seasonInfo) == 0) {
		writeError(w, http.StatusNotFound, 404, "Card or season information not found for translations.")
		return
	}
	if err != nil {
		log.Printf("Error in /api/card/translations: %v", err)
		writeError(w, http.StatusInternalServerError, 500, "Internal server error.")
		return
	}

	title := fmt.Sprintf("Translation for card %s, season %d", cardID, season)
	var doc seasonInfoDoc
	if err := json.Unmarshal(seasonInfo, &doc); err == nil {
		for _, ep := range doc.Episodes {
			if ep.SeasonNumber == int(season) {
				title = ep.Name
				break
			}
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"lang":    "en",
		"title":   title,
	})
}

// CardUnsubscribe simulates dropping a card subscription; without premium
// days the contract answers the frontend's documented 500.
func CardUnsubscribe(w http.ResponseWriter, r *http.Request) {
	var req CardIDRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || asString(req.ID) == "" {
		writeError(w, http.StatusBadRequest, 400, "Card ID is required.")
		return
	}

	premiumDays, err := premiumDaysFor(r, middleware.UserID(r))
	if err != nil {
		log.Printf("Error in /api/card/unsubscribe: %v", err)
		writeError(w, http.StatusInternalServerError, 500, "Internal server error.")
		return
	}
	if premiumDays <= 0 {
		writeError(w, http.StatusInternalServerError, 500, "An unexpected error occurred or did not subscribe to the translation")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Successfully unsubscribed from card."})
}

func premiumDaysFor(r *http.Request, userID int64) (int, error) {
	var days sql.NullInt64
	err := database.PostgresDB.QueryRowContext(r.Context(),
		`SELECT premium_days FROM users WHERE id = $1`, userID).Scan(&days)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return int(days.Int64), nil
}
