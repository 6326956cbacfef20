package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"strings"

	"github.com/AidasDir/cub-api-en-docker/pkg/tokenhash"
)

// TokenSeparator joins the claim and signature segments. It appears in
// neither base64url alphabet, so splitting on it is unambiguous.
const TokenSeparator = "."

// signatureBytes sizes the random segment at 256 bits of entropy.
const signatureBytes = 32

// TokenClaim is the wire-format claim segment of a session token:
// base64url(json({"id": <user id>, "hash": ""})). Hash is reserved and
// always empty.
type TokenClaim struct {
	ID   int64  `json:"id"`
	Hash string `json:"hash"`
}

// EncodeClaim serializes a claim to its unpadded base64url form.
func EncodeClaim(c TokenClaim) (string, error) {
	payload, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(payload), nil
}

// MintToken builds a plaintext session token for a user: the encoded claim,
// the separator, and a random signature segment. The signature is never
// verified against anything; it makes the token unguessable and varies the
// stored hash.
func MintToken(userID int64) (string, error) {
	claim, err := EncodeClaim(TokenClaim{ID: userID, Hash: ""})
	if err != nil {
		return "", err
	}

	sig := make([]byte, signatureBytes)
	if _, err := rand.Read(sig); err != nil {
		return "", err
	}

	return claim + TokenSeparator + base64.RawURLEncoding.EncodeToString(sig), nil
}

// ParseToken checks a raw token's structure and decodes the claimed user
// identity. It is a pure predicate: no store lookup, no expiry, and the
// signature segment is accepted as opaque. Returns ErrMissingToken,
// ErrMalformedToken or ErrInvalidClaim on rejection.
func ParseToken(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, ErrMissingToken
	}

	parts := strings.Split(raw, TokenSeparator)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return 0, ErrMalformedToken
	}

	payload, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return 0, ErrInvalidClaim
	}

	var claim TokenClaim
	if err := json.Unmarshal(payload, &claim); err != nil {
		return 0, ErrInvalidClaim
	}
	if claim.ID <= 0 {
		return 0, ErrInvalidClaim
	}

	return claim.ID, nil
}

// IssueSession mints a new session token for the user and records the
// binding in the devices table: a bcrypt hash of the full plaintext, the
// device code, and the profile active at issuance. The plaintext is
// returned exactly once and never stored. Runs on the caller's transaction
// so identity creation and the session insert are one logical unit.
func IssueSession(ctx context.Context, db DBTX, userID, profileID int64, deviceCode string) (string, error) {
	token, err := MintToken(userID)
	if err != nil {
		return "", err
	}

	hashed, err := tokenhash.Hash(token)
	if err != nil {
		return "", err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO devices (user_id, device_code, access_token, profile_id, created_at)
		VALUES ($1, $2, $3, $4, NOW())
	`, userID, deviceCode, hashed, profileID)
	if err != nil {
		return "", err
	}

	return token, nil
}
