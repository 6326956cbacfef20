package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AidasDir/cub-api-en-docker/internal/services"
)

func mustMint(t *testing.T, userID int64) string {
	t.Helper()
	token, err := services.MintToken(userID)
	require.NoError(t, err)
	return token
}

func TestAuthenticateTokenHeader(t *testing.T) {
	var gotUser int64
	handler := Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = UserID(r)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/users/get", nil)
	req.Header.Set("Token", mustMint(t, 42))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(42), gotUser)
}

func TestAuthenticateCookieFallback(t *testing.T) {
	var gotUser int64
	handler := Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = UserID(r)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/users/get", nil)
	req.AddCookie(&http.Cookie{Name: TokenCookieName, Value: url.QueryEscape(mustMint(t, 7))})
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(7), gotUser)
}

func TestAuthenticateHeaderTakesPrecedence(t *testing.T) {
	var gotUser int64
	handler := Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = UserID(r)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/users/get", nil)
	req.Header.Set("Token", mustMint(t, 1))
	req.AddCookie(&http.Cookie{Name: TokenCookieName, Value: url.QueryEscape(mustMint(t, 2))})
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, int64(1), gotUser)
}

func TestAuthenticateMissingToken(t *testing.T) {
	handler := Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/users/get", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":true,"code":700,"text":"Access token is required."}`, rec.Body.String())
}

func TestAuthenticateRejectsAllBadTokensAlike(t *testing.T) {
	// Structural rejections collapse to one status and body.
	cases := []string{
		"not-a-real-token",
		"a.b.c",
		"!!!!.sig",
	}
	for _, raw := range cases {
		handler := Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler should not be reached")
		}))

		req := httptest.NewRequest(http.MethodGet, "/api/users/get", nil)
		req.Header.Set("Token", raw)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code, "token=%q", raw)
		assert.JSONEq(t, `{"error":true,"code":700,"text":"Invalid or expired token."}`, rec.Body.String(), "token=%q", raw)
	}
}

func TestProfileIDPassthrough(t *testing.T) {
	var gotProfile int64
	var ok bool
	handler := Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotProfile, ok = ProfileID(r)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/bookmarks/all", nil)
	req.Header.Set("Token", mustMint(t, 42))
	req.Header.Set("Profile", "15")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	require.True(t, ok)
	assert.Equal(t, int64(15), gotProfile)
}

func TestProfileIDAbsentOrGarbage(t *testing.T) {
	for _, profile := range []string{"", "abc", "1.5"} {
		var ok bool
		handler := Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, ok = ProfileID(r)
		}))

		req := httptest.NewRequest(http.MethodGet, "/api/bookmarks/all", nil)
		req.Header.Set("Token", mustMint(t, 42))
		if profile != "" {
			req.Header.Set("Profile", profile)
		}
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.False(t, ok, "profile=%q", profile)
	}
}
