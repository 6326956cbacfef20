package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/AidasDir/cub-api-en-docker/internal/database"
	"github.com/AidasDir/cub-api-en-docker/internal/middleware"
	"github.com/AidasDir/cub-api-en-docker/internal/models"
	"github.com/AidasDir/cub-api-en-docker/internal/services"
)

type DeviceAddRequest struct {
	Code  string `json:"code"`
	Email string `json:"email"`
}

type ProfilePayload struct {
	ID   int64  `json:"id"`
	CID  int64  `json:"cid"`
	Name string `json:"name"`
	Main int    `json:"main"`
	Icon string `json:"icon"`
}

// SessionResponse is returned by both pairing flows: device/add and
// token/generate. The token field is the only time the plaintext leaves
// the server.
type SessionResponse struct {
	Success bool           `json:"success"`
	Email   string         `json:"email"`
	ID      int64          `json:"id"`
	Token   string         `json:"token"`
	Profile ProfilePayload `json:"profile"`
}

func profilePayload(p models.Profile) ProfilePayload {
	return ProfilePayload{ID: p.ID, CID: p.UserID, Name: p.Name, Main: p.Main, Icon: p.Icon}
}

// DeviceAdd redeems a pairing code and issues a session token for the
// given email, creating the user and default profile on first contact.
// Code redemption, identity resolution and the session insert run in one
// transaction.
func DeviceAdd(w http.ResponseWriter, r *http.Request) {
	var req DeviceAddRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, 400, "Access code is required.")
		return
	}

	if req.Code == "" {
		writeError(w, http.StatusBadRequest, 400, "Access code is required.")
		return
	}
	if req.Email == "" {
		writeError(w, http.StatusBadRequest, 400, "User email is required for device registration.")
		return
	}

	ctx := r.Context()
	tx, err := database.PostgresDB.BeginTx(ctx, nil)
	if err != nil {
		log.Printf("Error in /api/device/add: %v", err)
		writeError(w, http.StatusInternalServerError, 500, "Internal server error.")
		return
	}
	defer tx.Rollback()

	redeemed, err := services.RedeemAccessCode(ctx, tx, req.Code)
	if err != nil {
		log.Printf("Error in /api/device/add: %v", err)
		writeError(w, http.StatusInternalServerError, 500, "Internal server error.")
		return
	}
	if !redeemed {
		writeError(w, http.StatusBadRequest, 400, "Invalid or expired access code.")
		return
	}

	user, profile, err := services.ResolveIdentity(ctx, tx, req.Email)
	if err != nil {
		log.Printf("Error in /api/device/add: %v", err)
		writeError(w, http.StatusInternalServerError, 500, "Internal server error.")
		return
	}

	// The redeemed pairing code doubles as the device/session label
	token, err := services.IssueSession(ctx, tx, user.ID, profile.ID, req.Code)
	if err != nil {
		log.Printf("Error in /api/device/add: %v", err)
		writeError(w, http.StatusInternalServerError, 500, "Internal server error.")
		return
	}

	if err := tx.Commit(); err != nil {
		log.Printf("Error in /api/device/add: %v", err)
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

type GenerateCodeResponse struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
}

// GenerateCode creates a short-lived pairing code for the authenticated
// user, for entry on a not-yet-paired device.
func GenerateCode(w http.ResponseWriter, r *http.Request) {
	ac, err := services.GenerateAccessCode(r.Context(), database.PostgresDB, middleware.UserID(r))
	if err != nil {
		log.Printf("Error generating access code: %v", err)
		writeError(w, http.StatusInternalServerError, 500, "Internal server error during code generation.")
		return
	}

	writeJSON(w, http.StatusOK, GenerateCodeResponse{Success: true, Code: ac.Code})
}
