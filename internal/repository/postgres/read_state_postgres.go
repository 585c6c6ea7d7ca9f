package postgres

import (
	"context"
	"database/sql"

	"forumapi/internal/model"
	"forumapi/internal/repository"
)

// ReadStatePostgres is a PostgreSQL implementation of repository.ReadStateRepository.
type ReadStatePostgres struct {
	db *sql.DB
}

// NewReadStatePostgres creates a new ReadStatePostgres repository.
func NewReadStatePostgres(db *sql.DB) *ReadStatePostgres {
	return &ReadStatePostgres{db: db}
}

var _ repository.ReadStateRepository = (*ReadStatePostgres)(nil)

// ForTopics loads the user's states for a batch of topics.
func (r *ReadStatePostgres) ForTopics(ctx context.Context, userID int64, topicIDs []int64) (map[int64]model.UserTopicReadState, error) {
	out := make(map[int64]model.UserTopicReadState, len(topicIDs))
	if len(topicIDs) == 0 {
		return out, nil
	}
	q := `
		SELECT user_id, topic_id, read_at, page
		FROM user_topic_read_states
		WHERE user_id = $1 AND topic_id IN (` + placeholders(2, len(topicIDs)) + `)
	`
	args := append([]any{userID}, int64Args(topicIDs)...)
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var s model.UserTopicReadState
		if err := rows.Scan(&s.UserID, &s.TopicID, &s.ReadAt, &s.Page); err != nil {
			return nil, err
		}
		out[s.TopicID] = s
	}
	return out, rows.Err()
}

// Touch upserts the state; the WHERE clause keeps read_at monotonic.
func (r *ReadStatePostgres) Touch(ctx context.Context, s model.UserTopicReadState) error {
	const q = `
		INSERT INTO user_topic_read_states (user_id, topic_id, read_at, page)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, topic_id) DO UPDATE
		SET read_at = EXCLUDED.read_at, page = EXCLUDED.page
		WHERE user_topic_read_states.read_at < EXCLUDED.read_at
	`
	_, err := r.db.ExecContext(ctx, q, s.UserID, s.TopicID, s.ReadAt, s.Page)
	return err
}
