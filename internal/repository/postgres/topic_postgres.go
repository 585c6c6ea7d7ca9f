package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"forumapi/internal/model"
	"forumapi/internal/repository"
)

// TopicPostgres is a PostgreSQL implementation of repository.TopicRepository.
type TopicPostgres struct {
	db *sql.DB
}

// NewTopicPostgres creates a new TopicPostgres repository.
func NewTopicPostgres(db *sql.DB) *TopicPostgres {
	return &TopicPostgres{db: db}
}

var _ repository.TopicRepository = (*TopicPostgres)(nil)

const (
	topicColumns = `t.id, t.messageboard_id, t.user_id, t.last_user_id,
		COALESCE(u.name, ''), COALESCE(lu.name, ''),
		t.title, t.slug, t.sticky, t.locked, t.posts_count,
		t.last_post_at, t.created_at, t.updated_at`

	topicJoins = `
		LEFT JOIN users u ON u.id = t.user_id
		LEFT JOIN users lu ON lu.id = t.last_user_id`

	orderStickyFirst    = `ORDER BY t.sticky DESC, t.updated_at DESC, t.id DESC`
	orderRecentlyUpdate = `ORDER BY t.updated_at DESC, t.id DESC`
)

func scanTopic(row rowScanner) (model.Topic, error) {
	var (
		t              model.Topic
		userID, lastID sql.NullInt64
	)
	err := row.Scan(
		&t.ID,
		&t.MessageboardID,
		&userID,
		&lastID,
		&t.UserName,
		&t.LastUserName,
		&t.Title,
		&t.Slug,
		&t.Sticky,
		&t.Locked,
		&t.PostsCount,
		&t.LastPostAt,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	t.UserID = int64Ptr(userID)
	t.LastUserID = int64Ptr(lastID)
	return t, err
}

// listTopics counts rows matching where and fetches one page in the given order.
// The limit and offset are appended after args.
func (r *TopicPostgres) listTopics(ctx context.Context, where, order string, args []any, pq repository.PageQuery) (*repository.PageResult[model.Topic], error) {
	qCount := `SELECT COUNT(*) FROM topics t WHERE ` + where
	var total int
	if err := r.db.QueryRowContext(ctx, qCount, args...).Scan(&total); err != nil {
		return nil, err
	}

	n := len(args)
	qList := `SELECT ` + topicColumns + ` FROM topics t` + topicJoins + `
		WHERE ` + where + `
		` + order + fmt.Sprintf(`
		LIMIT $%d OFFSET $%d`, n+1, n+2)
	rows, err := r.db.QueryContext(ctx, qList, append(args, pq.Limit, pq.Offset)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Topic, 0)
	for rows.Next() {
		t, err := scanTopic(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Topic]{
		Items: items,
		Total: total,
	}, nil
}

// ListByMessageboard returns topics sticky first, then most recently updated.
func (r *TopicPostgres) ListByMessageboard(ctx context.Context, messageboardID int64, pq repository.PageQuery) (*repository.PageResult[model.Topic], error) {
	return r.listTopics(ctx, `t.messageboard_id = $1`, orderStickyFirst, []any{messageboardID}, pq)
}

// ListByCategory returns the unstuck topics of a category.
func (r *TopicPostgres) ListByCategory(ctx context.Context, categoryID int64, pq repository.PageQuery) (*repository.PageResult[model.Topic], error) {
	const where = `t.sticky = false AND EXISTS (
			SELECT 1 FROM topic_categories tc WHERE tc.topic_id = t.id AND tc.category_id = $1)`
	return r.listTopics(ctx, where, orderRecentlyUpdate, []any{categoryID}, pq)
}

// Search builds a conjunction of the requested filters. Text matches titles or post bodies.
func (r *TopicPostgres) Search(ctx context.Context, s repository.TopicSearch, pq repository.PageQuery) (*repository.PageResult[model.Topic], error) {
	var (
		conds []string
		args  []any
	)
	next := func() int { return len(args) + 1 }

	if s.MessageboardID != 0 {
		args = append(args, s.MessageboardID)
		conds = append(conds, fmt.Sprintf(`t.messageboard_id = $%d`, len(args)))
	}
	if s.Text != "" {
		args = append(args, s.Text)
		n := len(args)
		conds = append(conds, fmt.Sprintf(`(to_tsvector('english', t.title) @@ plainto_tsquery('english', $%d)
			OR EXISTS (SELECT 1 FROM posts p WHERE p.topic_id = t.id
				AND to_tsvector('english', p.content) @@ plainto_tsquery('english', $%d)))`, n, n))
	}
	if len(s.CategorySlugs) > 0 {
		start := next()
		for _, slug := range s.CategorySlugs {
			args = append(args, slug)
		}
		conds = append(conds, `EXISTS (SELECT 1 FROM topic_categories tc
			JOIN categories c ON c.id = tc.category_id
			WHERE tc.topic_id = t.id AND c.slug IN (`+placeholders(start, len(s.CategorySlugs))+`))`)
	}
	if len(s.UserNames) > 0 {
		start := next()
		for _, name := range s.UserNames {
			args = append(args, strings.ToLower(name))
		}
		conds = append(conds, `EXISTS (SELECT 1 FROM posts p
			JOIN users pu ON pu.id = p.user_id
			WHERE p.topic_id = t.id AND lower(pu.name) IN (`+placeholders(start, len(s.UserNames))+`))`)
	}
	if len(conds) == 0 {
		conds = append(conds, "true")
	}
	return r.listTopics(ctx, strings.Join(conds, " AND "), orderRecentlyUpdate, args, pq)
}

// FindBySlug fetches a topic of the messageboard by slug.
func (r *TopicPostgres) FindBySlug(ctx context.Context, messageboardID int64, slug string) (*model.Topic, error) {
	const q = `SELECT ` + topicColumns + ` FROM topics t` + topicJoins + `
		WHERE t.messageboard_id = $1 AND t.slug = $2`
	t, err := scanTopic(r.db.QueryRowContext(ctx, q, messageboardID, slug))
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// SlugExists reports whether another topic of the messageboard uses slug.
func (r *TopicPostgres) SlugExists(ctx context.Context, messageboardID int64, slug string, exceptID int64) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM topics WHERE messageboard_id = $1 AND slug = $2 AND id <> $3)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, q, messageboardID, slug, exceptID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// Create stores the topic together with its opening post.
func (r *TopicPostgres) Create(ctx context.Context, topic *model.Topic, post *model.Post, categoryIDs []int64) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		const qTopic = `
			INSERT INTO topics (messageboard_id, user_id, last_user_id, title, slug, sticky, locked, posts_count)
			VALUES ($1, $2, $3, $4, $5, $6, $7, 1)
			RETURNING id, posts_count, last_post_at, created_at, updated_at
		`
		if err := tx.QueryRowContext(ctx, qTopic,
			topic.MessageboardID,
			nullInt64(topic.UserID),
			nullInt64(topic.LastUserID),
			topic.Title,
			topic.Slug,
			topic.Sticky,
			topic.Locked,
		).Scan(
			&topic.ID,
			&topic.PostsCount,
			&topic.LastPostAt,
			&topic.CreatedAt,
			&topic.UpdatedAt,
		); err != nil {
			return fmt.Errorf("insert topic: %w", err)
		}

		post.TopicID = topic.ID
		post.MessageboardID = topic.MessageboardID
		const qPost = `
			INSERT INTO posts (messageboard_id, topic_id, user_id, content, ip)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, created_at, updated_at
		`
		if err := tx.QueryRowContext(ctx, qPost,
			post.MessageboardID,
			post.TopicID,
			nullInt64(post.UserID),
			post.Content,
			post.IP,
		).Scan(&post.ID, &post.CreatedAt, &post.UpdatedAt); err != nil {
			return fmt.Errorf("insert post: %w", err)
		}

		if err := insertTopicCategories(ctx, tx, topic.ID, categoryIDs); err != nil {
			return err
		}

		const qCounters = `
			UPDATE messageboards
			SET topics_count = topics_count + 1, posts_count = posts_count + 1, updated_at = now()
			WHERE id = $1
		`
		if _, err := tx.ExecContext(ctx, qCounters, topic.MessageboardID); err != nil {
			return fmt.Errorf("update messageboard counters: %w", err)
		}
		return nil
	})
}

// Update saves title, slug, flags and last poster, and optionally replaces category links.
func (r *TopicPostgres) Update(ctx context.Context, topic *model.Topic, categoryIDs []int64) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		const q = `
			UPDATE topics
			SET title = $1, slug = $2, sticky = $3, locked = $4, last_user_id = $5, updated_at = now()
			WHERE id = $6
			RETURNING updated_at
		`
		if err := tx.QueryRowContext(ctx, q,
			topic.Title,
			topic.Slug,
			topic.Sticky,
			topic.Locked,
			nullInt64(topic.LastUserID),
			topic.ID,
		).Scan(&topic.UpdatedAt); err != nil {
			return fmt.Errorf("update topic: %w", err)
		}

		if categoryIDs == nil {
			return nil
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM topic_categories WHERE topic_id = $1`, topic.ID); err != nil {
			return fmt.Errorf("clear topic categories: %w", err)
		}
		return insertTopicCategories(ctx, tx, topic.ID, categoryIDs)
	})
}

// Delete removes the topic. Posts, read states and category links go with it via ON DELETE CASCADE.
func (r *TopicPostgres) Delete(ctx context.Context, topic *model.Topic) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		const q = `DELETE FROM topics WHERE id = $1 RETURNING posts_count`
		var posts int
		if err := tx.QueryRowContext(ctx, q, topic.ID).Scan(&posts); err != nil {
			return fmt.Errorf("delete topic: %w", err)
		}

		const qCounters = `
			UPDATE messageboards
			SET topics_count = GREATEST(topics_count - 1, 0),
			    posts_count = GREATEST(posts_count - $2, 0),
			    updated_at = now()
			WHERE id = $1
		`
		if _, err := tx.ExecContext(ctx, qCounters, topic.MessageboardID, posts); err != nil {
			return fmt.Errorf("update messageboard counters: %w", err)
		}
		return nil
	})
}
