package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/kotoba-app/kotoba-api/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestMapErrorNil(t *testing.T) {
	t.Parallel()

	assert.NoError(t, MapError(nil))
}

func TestMapErrorNoRows(t *testing.T) {
	t.Parallel()

	err := MapError(sql.ErrNoRows)
	assert.True(t, errors.Is(err, store.ErrNotFound))
}

func TestMapErrorUniqueViolation(t *testing.T) {
	t.Parallel()

	pgErr := &pgconn.PgError{Code: uniqueViolationCode, ConstraintName: "streak_states_pkey"}
	err := MapError(fmt.Errorf("insert: %w", pgErr))

	assert.True(t, errors.Is(err, store.ErrDuplicate))
}

func TestMapErrorConstraintViolations(t *testing.T) {
	t.Parallel()

	for _, code := range []string{
		foreignKeyViolationCode,
		checkViolationCode,
		notNullViolationCode,
	} {
		err := MapError(&pgconn.PgError{Code: code})
		assert.True(t, errors.Is(err, store.ErrInvalidEntity), "code %s", code)
	}
}

func TestMapErrorPassesThroughUnknown(t *testing.T) {
	t.Parallel()

	original := errors.New("connection reset")
	assert.Same(t, original, MapError(original))
}

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	assert.True(t, IsUniqueViolation(&pgconn.PgError{Code: uniqueViolationCode}))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: foreignKeyViolationCode}))
	assert.False(t, IsUniqueViolation(errors.New("not a pg error")))
}

func TestIsNotFoundError(t *testing.T) {
	t.Parallel()

	assert.True(t, IsNotFoundError(sql.ErrNoRows))
	assert.True(t, IsNotFoundError(store.ErrSRSStateNotFound))
	assert.False(t, IsNotFoundError(store.ErrDuplicate))
}

// fakeResult implements sql.Result for CheckRowsAffected tests.
type fakeResult struct {
	rows int64
	err  error
}

func (r fakeResult) LastInsertId() (int64, error) { return 0, nil }
func (r fakeResult) RowsAffected() (int64, error) { return r.rows, r.err }

func TestCheckRowsAffected(t *testing.T) {
	t.Parallel()

	assert.NoError(t, CheckRowsAffected(fakeResult{rows: 1}, "srs state"))

	err := CheckRowsAffected(fakeResult{rows: 0}, "srs state")
	assert.True(t, errors.Is(err, store.ErrNotFound))

	err = CheckRowsAffected(fakeResult{rows: 0}, "")
	assert.True(t, errors.Is(err, store.ErrNotFound))

	err = CheckRowsAffected(fakeResult{err: errors.New("driver does not report")}, "srs state")
	assert.Error(t, err)
	assert.False(t, errors.Is(err, store.ErrNotFound))

	assert.Error(t, CheckRowsAffected(nil, "srs state"))
}
