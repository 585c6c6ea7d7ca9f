package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserPostgres_FindBySessionKey(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewUserPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery(`FROM users WHERE session_key = \$1`).
			WithArgs("abc").
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "session_key", "admin", "moderator", "last_seen_at", "created_at"}).
				AddRow(7, "alice", "abc", false, true, nil, time.Now()))

		u, err := repo.FindBySessionKey(ctx, "abc")

		require.NoError(t, err)
		assert.Equal(t, "alice", u.Name)
		assert.True(t, u.Moderator)
		assert.Nil(t, u.LastSeenAt)
	})

	t.Run("unknown key", func(t *testing.T) {
		mock.ExpectQuery(`FROM users WHERE session_key = \$1`).
			WithArgs("zzz").
			WillReturnError(sql.ErrNoRows)

		u, err := repo.FindBySessionKey(ctx, "zzz")

		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, u)
	})
}

func TestUserPostgres_TouchActivity(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewUserPostgres(db)
	at := time.Now()

	mock.ExpectExec(`UPDATE users SET last_seen_at = \$1 WHERE id = \$2`).
		WithArgs(at, int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.TouchActivity(context.Background(), 7, at))
	assert.NoError(t, mock.ExpectationsWereMet())
}
