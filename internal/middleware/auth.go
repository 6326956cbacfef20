package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/AidasDir/cub-api-en-docker/internal/services"
)

type contextKey string

const (
	userIDKey    contextKey = "userID"
	profileIDKey contextKey = "profileID"
)

// TokenCookieName is the fallback cookie checked when no Token header is set.
const TokenCookieName = "token"

// Authenticate is the request gate. It extracts the session token (Token
// header first, `token` cookie as fallback), checks the token's structure,
// decodes the claimed user identity, and stores it on the request context
// together with the caller-supplied Profile header. Verification is purely
// structural and never touches the store. Every rejection reason collapses
// to the same generic body so callers can't tell which check failed.
func Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimSpace(r.Header.Get("Token"))
		if raw == "" {
			if c, err := r.Cookie(TokenCookieName); err == nil {
				if v, err := url.QueryUnescape(c.Value); err == nil {
					raw = strings.TrimSpace(v)
				}
			}
		}

		if raw == "" {
			writeAuthError(w, http.StatusUnauthorized, "Access token is required.")
			return
		}

		userID, err := services.ParseToken(raw)
		if err != nil {
			writeAuthError(w, http.StatusForbidden, "Invalid or expired token.")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		ctx = context.WithValue(ctx, profileIDKey, strings.TrimSpace(r.Header.Get("Profile")))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserID returns the authenticated user's id set by Authenticate.
func UserID(r *http.Request) int64 {
	id, _ := r.Context().Value(userIDKey).(int64)
	return id
}

// ProfileID returns the caller-supplied Profile header as an integer.
// It is passed through unchecked against the authenticated user.
func ProfileID(r *http.Request) (int64, bool) {
	raw, _ := r.Context().Value(profileIDKey).(string)
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func writeAuthError(w http.ResponseWriter, status int, text string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	fmt.Fprintf(w, `{"error":true,"code":700,"text":%q}`, text)
}
