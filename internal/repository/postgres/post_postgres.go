package postgres

import (
	"context"
	"database/sql"

	"forumapi/internal/model"
	"forumapi/internal/repository"
)

// PostPostgres is a PostgreSQL implementation of repository.PostRepository.
type PostPostgres struct {
	db *sql.DB
}

// NewPostPostgres creates a new PostPostgres repository.
func NewPostPostgres(db *sql.DB) *PostPostgres {
	return &PostPostgres{db: db}
}

var _ repository.PostRepository = (*PostPostgres)(nil)

// ListByTopic returns posts oldest first using LIMIT/OFFSET pagination and a total count.
func (r *PostPostgres) ListByTopic(ctx context.Context, topicID int64, pq repository.PageQuery) (*repository.PageResult[model.Post], error) {
	const qCount = `SELECT COUNT(*) FROM posts WHERE topic_id = $1`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount, topicID).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `
		SELECT p.id, p.messageboard_id, p.topic_id, p.user_id, COALESCE(u.name, ''),
		       p.content, p.ip, p.created_at, p.updated_at
		FROM posts p
		LEFT JOIN users u ON u.id = p.user_id
		WHERE p.topic_id = $1
		ORDER BY p.created_at ASC, p.id ASC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.QueryContext(ctx, qList, topicID, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Post, 0)
	for rows.Next() {
		var (
			p      model.Post
			userID sql.NullInt64
		)
		if err := rows.Scan(
			&p.ID,
			&p.MessageboardID,
			&p.TopicID,
			&userID,
			&p.UserName,
			&p.Content,
			&p.IP,
			&p.CreatedAt,
			&p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		p.UserID = int64Ptr(userID)
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Post]{
		Items: items,
		Total: total,
	}, nil
}
