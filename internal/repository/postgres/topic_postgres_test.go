package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"forumapi/internal/model"
	"forumapi/internal/repository"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var topicRowColumns = []string{
	"id", "messageboard_id", "user_id", "last_user_id", "user_name", "last_user_name",
	"title", "slug", "sticky", "locked", "posts_count", "last_post_at", "created_at", "updated_at",
}

func addTopicRow(rows *sqlmock.Rows, id int64, slug string, sticky bool) *sqlmock.Rows {
	now := time.Now()
	return rows.AddRow(id, 1, 7, nil, "alice", "", "Title "+slug, slug, sticky, false, 1, now, now, now)
}

func TestTopicPostgres_ListByMessageboard(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewTopicPostgres(db)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM topics t WHERE t.messageboard_id = \$1`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	rows := sqlmock.NewRows(topicRowColumns)
	addTopicRow(rows, 2, "pinned", true)
	addTopicRow(rows, 1, "fresh", false)
	mock.ExpectQuery(`SELECT (.+) FROM topics t(.+)WHERE t.messageboard_id = \$1(.+)ORDER BY t.sticky DESC, t.updated_at DESC, t.id DESC(.+)LIMIT \$2 OFFSET \$3`).
		WithArgs(int64(1), 50, 0).
		WillReturnRows(rows)

	res, err := repo.ListByMessageboard(ctx, 1, repository.PageQuery{Limit: 50, Offset: 0})

	require.NoError(t, err)
	assert.Equal(t, 2, res.Total)
	require.Len(t, res.Items, 2)
	assert.True(t, res.Items[0].Sticky)
	require.NotNil(t, res.Items[0].UserID)
	assert.Equal(t, int64(7), *res.Items[0].UserID)
	assert.Nil(t, res.Items[0].LastUserID)
	assert.Equal(t, "alice", res.Items[0].UserName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTopicPostgres_ListByCategory(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewTopicPostgres(db)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM topics t WHERE t.sticky = false AND EXISTS`).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`WHERE t.sticky = false(.+)ORDER BY t.updated_at DESC, t.id DESC`).
		WithArgs(int64(4), 50, 50).
		WillReturnRows(sqlmock.NewRows(topicRowColumns))

	res, err := repo.ListByCategory(context.Background(), 4, repository.PageQuery{Limit: 50, Offset: 50})

	require.NoError(t, err)
	assert.Equal(t, 0, res.Total)
	assert.Empty(t, res.Items)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTopicPostgres_Search(t *testing.T) {
	ctx := context.Background()

	t.Run("all filters", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewTopicPostgres(db)

		s := repository.TopicSearch{
			MessageboardID: 3,
			Text:           "rails upgrade",
			CategorySlugs:  []string{"howto", "news"},
			UserNames:      []string{"Jane Doe"},
		}
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM topics t WHERE t.messageboard_id = \$1 AND (.+)plainto_tsquery\('english', \$2\)(.+)c.slug IN \(\$3, \$4\)(.+)lower\(pu.name\) IN \(\$5\)`).
			WithArgs(int64(3), "rails upgrade", "howto", "news", "jane doe").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		rows := sqlmock.NewRows(topicRowColumns)
		addTopicRow(rows, 9, "upgrade", false)
		mock.ExpectQuery(`ORDER BY t.updated_at DESC, t.id DESC(.+)LIMIT \$6 OFFSET \$7`).
			WithArgs(int64(3), "rails upgrade", "howto", "news", "jane doe", 50, 0).
			WillReturnRows(rows)

		res, err := repo.Search(ctx, s, repository.PageQuery{Limit: 50})

		require.NoError(t, err)
		assert.Equal(t, 1, res.Total)
		assert.Len(t, res.Items, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("global text search", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewTopicPostgres(db)

		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM topics t WHERE \(to_tsvector\('english', t.title\) @@ plainto_tsquery\('english', \$1\)`).
			WithArgs("go").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery(`LIMIT \$2 OFFSET \$3`).
			WithArgs("go", 10, 0).
			WillReturnRows(sqlmock.NewRows(topicRowColumns))

		res, err := repo.Search(ctx, repository.TopicSearch{Text: "go"}, repository.PageQuery{Limit: 10})

		require.NoError(t, err)
		assert.Empty(t, res.Items)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTopicPostgres_FindBySlug(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewTopicPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows(topicRowColumns)
		addTopicRow(rows, 5, "hello", false)
		mock.ExpectQuery(`WHERE t.messageboard_id = \$1 AND t.slug = \$2`).
			WithArgs(int64(1), "hello").
			WillReturnRows(rows)

		topic, err := repo.FindBySlug(ctx, 1, "hello")

		require.NoError(t, err)
		assert.Equal(t, int64(5), topic.ID)
		assert.Equal(t, "hello", topic.Slug)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(`WHERE t.messageboard_id = \$1 AND t.slug = \$2`).
			WithArgs(int64(1), "missing").
			WillReturnError(sql.ErrNoRows)

		topic, err := repo.FindBySlug(ctx, 1, "missing")

		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, topic)
	})
}

func TestTopicPostgres_SlugExists(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewTopicPostgres(db)

	mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM topics WHERE messageboard_id = \$1 AND slug = \$2 AND id <> \$3\)`).
		WithArgs(int64(1), "hello", int64(0)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.SlugExists(context.Background(), 1, "hello", 0)

	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTopicPostgres_Create(t *testing.T) {
	ctx := context.Background()
	uid := int64(7)
	now := time.Now()

	newTopic := func() (*model.Topic, *model.Post) {
		return &model.Topic{
				MessageboardID: 1,
				UserID:         &uid,
				LastUserID:     &uid,
				Title:          "Hello",
				Slug:           "hello",
			}, &model.Post{
				UserID:  &uid,
				Content: "first!",
				IP:      "10.0.0.1",
			}
	}

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewTopicPostgres(db)

		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO topics").
			WithArgs(int64(1), int64(7), int64(7), "Hello", "hello", false, false).
			WillReturnRows(sqlmock.NewRows([]string{"id", "posts_count", "last_post_at", "created_at", "updated_at"}).
				AddRow(11, 1, now, now, now))
		mock.ExpectQuery("INSERT INTO posts").
			WithArgs(int64(1), int64(11), int64(7), "first!", "10.0.0.1").
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(21, now, now))
		mock.ExpectExec(`INSERT INTO topic_categories \(topic_id, category_id\) VALUES \(\$1, \$2\), \(\$1, \$3\) ON CONFLICT DO NOTHING`).
			WithArgs(int64(11), int64(3), int64(4)).
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectExec("UPDATE messageboards").
			WithArgs(int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		topic, post := newTopic()
		err = repo.Create(ctx, topic, post, []int64{3, 4})

		require.NoError(t, err)
		assert.Equal(t, int64(11), topic.ID)
		assert.Equal(t, 1, topic.PostsCount)
		assert.Equal(t, int64(21), post.ID)
		assert.Equal(t, int64(11), post.TopicID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back when post insert fails", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewTopicPostgres(db)

		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO topics").
			WillReturnRows(sqlmock.NewRows([]string{"id", "posts_count", "last_post_at", "created_at", "updated_at"}).
				AddRow(11, 1, now, now, now))
		mock.ExpectQuery("INSERT INTO posts").WillReturnError(errors.New("disk full"))
		mock.ExpectRollback()

		topic, post := newTopic()
		err = repo.Create(ctx, topic, post, nil)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "insert post: disk full")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTopicPostgres_Update(t *testing.T) {
	ctx := context.Background()
	uid := int64(8)

	t.Run("replaces categories", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewTopicPostgres(db)

		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE topics").
			WithArgs("New", "new", true, false, int64(8), int64(5)).
			WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(time.Now()))
		mock.ExpectExec(`DELETE FROM topic_categories WHERE topic_id = \$1`).
			WithArgs(int64(5)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO topic_categories").
			WithArgs(int64(5), int64(2)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		topic := &model.Topic{ID: 5, Title: "New", Slug: "new", Sticky: true, LastUserID: &uid}
		err = repo.Update(ctx, topic, []int64{2})

		require.NoError(t, err)
		assert.False(t, topic.UpdatedAt.IsZero())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty category list clears links", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewTopicPostgres(db)

		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE topics").
			WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(time.Now()))
		mock.ExpectExec("DELETE FROM topic_categories").
			WithArgs(int64(5)).
			WillReturnResult(sqlmock.NewResult(0, 3))
		mock.ExpectCommit()

		err = repo.Update(ctx, &model.Topic{ID: 5, Title: "t", Slug: "t"}, []int64{})

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing topic", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewTopicPostgres(db)

		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE topics").WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		err = repo.Update(ctx, &model.Topic{ID: 99, Title: "t", Slug: "t"}, nil)

		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTopicPostgres_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewTopicPostgres(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`DELETE FROM topics WHERE id = \$1 RETURNING posts_count`).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"posts_count"}).AddRow(4))
	mock.ExpectExec("UPDATE messageboards").
		WithArgs(int64(1), 4).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = repo.Delete(context.Background(), &model.Topic{ID: 5, MessageboardID: 1})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "", placeholders(1, 0))
	assert.Equal(t, "$1", placeholders(1, 1))
	assert.Equal(t, "$3, $4, $5", placeholders(3, 3))
}
