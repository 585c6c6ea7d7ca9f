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

var categoryRowColumns = []string{"id", "messageboard_id", "name", "slug", "description", "created_at"}

func TestMessageboardPostgres_FindBySlug(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewMessageboardPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		now := time.Now()
		rows := sqlmock.NewRows([]string{"id", "name", "slug", "description", "locked", "topics_count", "posts_count", "created_at", "updated_at"}).
			AddRow(1, "General", "general", "", false, 3, 9, now, now)
		mock.ExpectQuery(`SELECT (.+) FROM messageboards WHERE slug = \$1`).
			WithArgs("general").
			WillReturnRows(rows)

		mb, err := repo.FindBySlug(ctx, "general")

		require.NoError(t, err)
		assert.Equal(t, int64(1), mb.ID)
		assert.Equal(t, 3, mb.TopicsCount)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM messageboards WHERE slug = \$1`).
			WithArgs("nope").
			WillReturnError(sql.ErrNoRows)

		mb, err := repo.FindBySlug(ctx, "nope")

		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, mb)
	})
}

func TestMessageboardPostgres_FindCategory(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewMessageboardPostgres(db)

	mock.ExpectQuery(`FROM categories c WHERE c.messageboard_id = \$1 AND \(c.slug = \$2 OR c.id::text = \$2\)`).
		WithArgs(int64(1), "12").
		WillReturnRows(sqlmock.NewRows(categoryRowColumns).AddRow(12, 1, "News", "news", "", time.Now()))

	c, err := repo.FindCategory(context.Background(), 1, "12")

	require.NoError(t, err)
	assert.Equal(t, int64(12), c.ID)
	assert.Equal(t, "news", c.Slug)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMessageboardPostgres_ListCategories(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewMessageboardPostgres(db)
	now := time.Now()

	mock.ExpectQuery(`FROM categories c WHERE c.messageboard_id = \$1 ORDER BY c.name ASC`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(categoryRowColumns).
			AddRow(2, 1, "Help", "help", "", now).
			AddRow(1, 1, "News", "news", "", now))

	cats, err := repo.ListCategories(context.Background(), 1)

	require.NoError(t, err)
	assert.Len(t, cats, 2)
	assert.Equal(t, "help", cats[0].Slug)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMessageboardPostgres_CategoriesForTopics(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewMessageboardPostgres(db)
	ctx := context.Background()

	t.Run("no topics skips the query", func(t *testing.T) {
		out, err := repo.CategoriesForTopics(ctx, nil)

		require.NoError(t, err)
		assert.Empty(t, out)
	})

	t.Run("groups by topic", func(t *testing.T) {
		now := time.Now()
		rows := sqlmock.NewRows(append([]string{"topic_id"}, categoryRowColumns...)).
			AddRow(10, 1, 1, "Help", "help", "", now).
			AddRow(10, 2, 1, "News", "news", "", now).
			AddRow(11, 2, 1, "News", "news", "", now)
		mock.ExpectQuery(`WHERE tc.topic_id IN \(\$1, \$2, \$3\)`).
			WithArgs(int64(10), int64(11), int64(12)).
			WillReturnRows(rows)

		out, err := repo.CategoriesForTopics(ctx, []int64{10, 11, 12})

		require.NoError(t, err)
		assert.Len(t, out[10], 2)
		assert.Len(t, out[11], 1)
		assert.Empty(t, out[12])
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
