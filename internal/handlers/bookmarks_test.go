package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AidasDir/cub-api-en-docker/internal/database"
	"github.com/AidasDir/cub-api-en-docker/internal/middleware"
	"github.com/AidasDir/cub-api-en-docker/internal/services"
)

func swapDBMock(t *testing.T) sqlmock.Sqlmock {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	prev := database.PostgresDB
	database.PostgresDB = db
	t.Cleanup(func() {
		database.PostgresDB = prev
		db.Close()
	})
	return mock
}

func authedRequest(t *testing.T, method, target, body string, userID int64, profileID string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	token, err := services.MintToken(userID)
	require.NoError(t, err)
	req.Header.Set("Token", token)
	if profileID != "" {
		req.Header.Set("Profile", profileID)
	}
	return req
}

func TestBookmarksAddInsertEmitsCID(t *testing.T) {
	mock := swapDBMock(t)

	mock.ExpectQuery(`SELECT\s+id\s+FROM\s+bookmarks\s+WHERE\s+card_id\s*=\s*\$1\s+AND\s+user_id\s*=\s*\$2\s+AND\s+profile_id\s*=\s*\$3`).
		WithArgs("777", int64(42), int64(7)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(`(?s)INSERT\s+INTO\s+bookmarks.*RETURNING\s+id,\s*type,\s*data,\s*card_id,\s*profile_id,\s*time`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "type", "data", "card_id", "profile_id", "time"}).
			AddRow(1, "book", []byte(`{"id":777}`), "777", 7, 1700000000000))

	handler := middleware.Authenticate(http.HandlerFunc(BookmarksAdd))
	req := authedRequest(t, http.MethodPost, "/api/bookmarks/add",
		`{"type":"book","data":{"id":777}}`, 42, "7")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Secuses  bool           `json:"secuses"`
		Write    string         `json:"write"`
		Bookmark map[string]any `json:"bookmark"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Secuses)
	assert.Equal(t, "insert", resp.Write)

	// cid carries user_id and is present even for fresh rows.
	cid, ok := resp.Bookmark["cid"]
	require.True(t, ok)
	assert.Equal(t, float64(42), cid)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookmarkPayloadAlwaysSerializesCID(t *testing.T) {
	raw, err := json.Marshal(BookmarkPayload{ID: 1, Type: "book"})
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))
	assert.Contains(t, fields, "cid")
	assert.Equal(t, float64(0), fields["cid"])
}

func TestBookmarksAddLookupFailureIsNotAnInsert(t *testing.T) {
	mock := swapDBMock(t)

	// A broken existence check must surface as an error, not fall through
	// to the insert branch.
	mock.ExpectQuery(`SELECT\s+id\s+FROM\s+bookmarks\s+WHERE\s+card_id\s*=\s*\$1`).
		WithArgs("777", int64(42), int64(7)).
		WillReturnError(errors.New("connection reset"))

	handler := middleware.Authenticate(http.HandlerFunc(BookmarksAdd))
	req := authedRequest(t, http.MethodPost, "/api/bookmarks/add",
		`{"type":"book","data":{"id":777}}`, 42, "7")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":true,"code":500,"text":"Internal server error."}`, rec.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}
