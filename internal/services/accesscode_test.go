package services

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDBMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

// sixDigitCode matches a pairing code in the 100000-999999 range.
type sixDigitCode struct{}

func (sixDigitCode) Match(v driver.Value) bool {
	s, ok := v.(string)
	if !ok || len(s) != 6 {
		return false
	}
	n, err := strconv.Atoi(s)
	return err == nil && n >= 100000 && n <= 999999
}

// expiresNear matches a timestamp within a minute of now+d.
type expiresNear struct{ d time.Duration }

func (m expiresNear) Match(v driver.Value) bool {
	ts, ok := v.(time.Time)
	if !ok {
		return false
	}
	want := time.Now().Add(m.d)
	diff := ts.Sub(want)
	return diff > -time.Minute && diff < time.Minute
}

func TestGenerateAccessCodeShape(t *testing.T) {
	db, mock := newDBMock(t)

	mock.ExpectQuery(`SELECT\s+email\s+FROM\s+users\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"email"}).AddRow("user@example.com"))
	mock.ExpectExec(`(?s)INSERT\s+INTO\s+access_codes\s*\(code,\s*expires_at,\s*user_email\).*ON\s+CONFLICT\s+\(code\)\s+DO\s+UPDATE\s+SET\s+expires_at\s*=\s*\$2`).
		WithArgs(sixDigitCode{}, expiresNear{AccessCodeTTL}, "user@example.com").
		WillReturnResult(sqlmock.NewResult(0, 1))

	ac, err := GenerateAccessCode(context.Background(), db, 42)
	require.NoError(t, err)

	require.Len(t, ac.Code, 6)
	n, err := strconv.Atoi(ac.Code)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, 100000)
	assert.LessOrEqual(t, n, 999999)

	assert.WithinDuration(t, time.Now().Add(AccessCodeTTL), ac.ExpiresAt, time.Minute)
	assert.True(t, ac.UserEmail.Valid)
	assert.Equal(t, "user@example.com", ac.UserEmail.String)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGenerateAccessCodeUnknownUser(t *testing.T) {
	db, mock := newDBMock(t)

	mock.ExpectQuery(`SELECT\s+email\s+FROM\s+users\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(`(?s)INSERT\s+INTO\s+access_codes.*ON\s+CONFLICT\s+\(code\)\s+DO\s+UPDATE`).
		WithArgs(sixDigitCode{}, expiresNear{AccessCodeTTL}, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ac, err := GenerateAccessCode(context.Background(), db, 99)
	require.NoError(t, err)
	assert.False(t, ac.UserEmail.Valid)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedeemAccessCodeConsumes(t *testing.T) {
	db, mock := newDBMock(t)

	// Expiry check and consumption are one statement.
	mock.ExpectQuery(`DELETE\s+FROM\s+access_codes\s+WHERE\s+code\s*=\s*\$1\s+AND\s+expires_at\s*>\s*NOW\(\)\s+RETURNING\s+code`).
		WithArgs("123456").
		WillReturnRows(sqlmock.NewRows([]string{"code"}).AddRow("123456"))

	redeemed, err := RedeemAccessCode(context.Background(), db, "123456")
	require.NoError(t, err)
	assert.True(t, redeemed)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedeemAccessCodeUnknownOrExpired(t *testing.T) {
	db, mock := newDBMock(t)

	// A consumed or expired code deletes nothing: false, not an error.
	mock.ExpectQuery(`DELETE\s+FROM\s+access_codes\s+WHERE\s+code\s*=\s*\$1\s+AND\s+expires_at\s*>\s*NOW\(\)\s+RETURNING\s+code`).
		WithArgs("123456").
		WillReturnRows(sqlmock.NewRows([]string{"code"}))

	redeemed, err := RedeemAccessCode(context.Background(), db, "123456")
	require.NoError(t, err)
	assert.False(t, redeemed)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedeemAccessCodeDBError(t *testing.T) {
	db, mock := newDBMock(t)

	mock.ExpectQuery(`DELETE\s+FROM\s+access_codes`).
		WithArgs("123456").
		WillReturnError(errors.New("connection reset"))

	redeemed, err := RedeemAccessCode(context.Background(), db, "123456")
	assert.Error(t, err)
	assert.False(t, redeemed)
}
