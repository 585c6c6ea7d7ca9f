package postgres

import (
	"context"
	"database/sql"

	"forumapi/internal/model"
	"forumapi/internal/repository"
)

// MessageboardPostgres is a PostgreSQL implementation of repository.MessageboardRepository.
type MessageboardPostgres struct {
	db *sql.DB
}

// NewMessageboardPostgres creates a new MessageboardPostgres repository.
func NewMessageboardPostgres(db *sql.DB) *MessageboardPostgres {
	return &MessageboardPostgres{db: db}
}

var _ repository.MessageboardRepository = (*MessageboardPostgres)(nil)

const categoryColumns = `c.id, c.messageboard_id, c.name, c.slug, c.description, c.created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCategory(row rowScanner, extra ...any) (model.Category, error) {
	var c model.Category
	dest := append(extra, &c.ID, &c.MessageboardID, &c.Name, &c.Slug, &c.Description, &c.CreatedAt)
	err := row.Scan(dest...)
	return c, err
}

// FindBySlug fetches a single messageboard by slug.
func (r *MessageboardPostgres) FindBySlug(ctx context.Context, slug string) (*model.Messageboard, error) {
	const q = `
		SELECT id, name, slug, description, locked, topics_count, posts_count, created_at, updated_at
		FROM messageboards
		WHERE slug = $1
	`
	var m model.Messageboard
	if err := r.db.QueryRowContext(ctx, q, slug).Scan(
		&m.ID,
		&m.Name,
		&m.Slug,
		&m.Description,
		&m.Locked,
		&m.TopicsCount,
		&m.PostsCount,
		&m.CreatedAt,
		&m.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &m, nil
}

// FindCategory matches key against the slug first and the id second.
func (r *MessageboardPostgres) FindCategory(ctx context.Context, messageboardID int64, key string) (*model.Category, error) {
	const q = `
		SELECT ` + categoryColumns + `
		FROM categories c
		WHERE c.messageboard_id = $1 AND (c.slug = $2 OR c.id::text = $2)
		ORDER BY (c.slug = $2) DESC
		LIMIT 1
	`
	c, err := scanCategory(r.db.QueryRowContext(ctx, q, messageboardID, key))
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListCategories returns the messageboard's categories ordered by name.
func (r *MessageboardPostgres) ListCategories(ctx context.Context, messageboardID int64) ([]model.Category, error) {
	const q = `
		SELECT ` + categoryColumns + `
		FROM categories c
		WHERE c.messageboard_id = $1
		ORDER BY c.name ASC, c.id ASC
	`
	rows, err := r.db.QueryContext(ctx, q, messageboardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Category, 0)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// CategoriesForTopics loads category links for a batch of topics in one query.
func (r *MessageboardPostgres) CategoriesForTopics(ctx context.Context, topicIDs []int64) (map[int64][]model.Category, error) {
	out := make(map[int64][]model.Category, len(topicIDs))
	if len(topicIDs) == 0 {
		return out, nil
	}
	q := `
		SELECT tc.topic_id, ` + categoryColumns + `
		FROM topic_categories tc
		JOIN categories c ON c.id = tc.category_id
		WHERE tc.topic_id IN (` + placeholders(1, len(topicIDs)) + `)
		ORDER BY c.name ASC, c.id ASC
	`
	rows, err := r.db.QueryContext(ctx, q, int64Args(topicIDs)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var topicID int64
		c, err := scanCategory(rows, &topicID)
		if err != nil {
			return nil, err
		}
		out[topicID] = append(out[topicID], c)
	}
	return out, rows.Err()
}
