package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/AidasDir/cub-api-en-docker/internal/config"
	"github.com/AidasDir/cub-api-en-docker/internal/database"
	"github.com/AidasDir/cub-api-en-docker/internal/services"
)

var magicBridge *services.MagicBridge

// InitMagicBridge builds the Magic exchange bridge once at startup from
// validated configuration.
func InitMagicBridge(cfg *config.Config) {
	magicBridge = services.NewMagicBridge(cfg.MagicSecretKey)
}

// SetMagicBridge swaps the bridge; used in tests.
func SetMagicBridge(b *services.MagicBridge) {
	magicBridge = b
}

// GenerateToken exchanges a Magic Link DID assertion for a session token.
// The assertion's authenticity is delegated entirely to the provider; on
// success the user is resolved or created exactly as in device pairing.
func GenerateToken(w http.ResponseWriter, r *http.Request) {
	email, err := magicBridge.EmailForAssertion(r.Header.Get("Authorization"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingAssertion):
			writeError(w, http.StatusUnauthorized, 701, "Magic Link DID token is required.")
		case errors.Is(err, services.ErrNotConfigured):
			log.Println("MAGIC_SECRET_KEY is not set in environment variables!")
			writeError(w, http.StatusInternalServerError, 704, "Internal server error: MAGIC_SECRET_KEY not set.")
		case errors.Is(err, services.ErrInvalidAssertion):
			log.Printf("DID token validation failed: %v", err)
			writeError(w, http.StatusForbidden, 703, "Invalid or expired Magic Link token.")
		case errors.Is(err, services.ErrIdentityLookup):
			log.Printf("Error fetching metadata from Magic Link: %v", err)
			writeError(w, http.StatusUnauthorized, 705, "Invalid Magic Link user or problem fetching metadata.")
		case errors.Is(err, services.ErrInvalidMagicUser):
			writeError(w, http.StatusUnauthorized, 702, "Invalid Magic Link user.")
		default:
			log.Printf("Error in /api/token/generate: %v", err)
			writeError(w, http.StatusInternalServerError, 500, "Internal server error.")
		}
		return
	}

	ctx := r.Context()
	tx, err := database.PostgresDB.BeginTx(ctx, nil)
	if err != nil {
		log.Printf("Error in /api/token/generate: %v", err)
		writeError(w, http.StatusInternalServerError, 500, "Internal server error.")
		return
	}
	defer tx.Rollback()

	user, profile, err := services.ResolveIdentity(ctx, tx, email)
	if err != nil {
		log.Printf("Error in /api/token/generate: %v", err)
		writeError(w, http.StatusInternalServerError, 500, "Internal server error.")
		return
	}

	// No pairing code in this flow; generate a device label
	token, err := services.IssueSession(ctx, tx, user.ID, profile.ID, uuid.NewString())
	if err != nil {
		log.Printf("Error in /api/token/generate: %v", err)
		writeError(w, http.StatusInternalServerError, 500, "Internal server error.")
		return
	}

	if err := tx.Commit(); err != nil {
		log.Printf("Error in /api/token/generate: %v", err)
		writeError(w, http.StatusInternalServerError, 500, "Internal server error.")
		return
	}

	writeJSON(w, http.StatusOK, SessionResponse{
		Success: true,
		Email:   user.Email,
		ID:      user.ID,
		Token:   token,
		Profile: profilePayload(profile),
	})
}

// ClearOldToken expires the legacy token cookie so stale browser sessions
// stop shadowing the Token header.
func ClearOldToken(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Old token cookie clearing attempted. Please refresh your application or check your browser cookies.",
	})
}
