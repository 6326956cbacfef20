package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AidasDir/cub-api-en-docker/pkg/tokenhash"
)

type execRecorder struct {
	query string
	args  []any
	err   error
}

func (r *execRecorder) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	r.query = query
	r.args = args
	return nil, r.err
}

func (r *execRecorder) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return nil, errors.New("unexpected query")
}

func (r *execRecorder) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return nil
}

func TestIssueSessionStoresHashNotPlaintext(t *testing.T) {
	rec := &execRecorder{}

	token, err := IssueSession(context.Background(), rec, 42, 7, "123456")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	require.Len(t, rec.args, 4)
	assert.Equal(t, int64(42), rec.args[0])
	assert.Equal(t, "123456", rec.args[1])
	assert.Equal(t, int64(7), rec.args[3])

	stored, ok := rec.args[2].(string)
	require.True(t, ok)
	assert.NotEqual(t, token, stored)
	assert.True(t, tokenhash.Verify(token, stored))
}

func TestIssueSessionTokenDecodesToUser(t *testing.T) {
	rec := &execRecorder{}

	token, err := IssueSession(context.Background(), rec, 99, 1, "device")
	require.NoError(t, err)

	userID, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(99), userID)
}

func TestIssueSessionInsertFailure(t *testing.T) {
	rec := &execRecorder{err: errors.New("connection reset")}

	token, err := IssueSession(context.Background(), rec, 42, 7, "123456")
	assert.Error(t, err)
	assert.Empty(t, token)
}
