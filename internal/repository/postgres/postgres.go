package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
)

// placeholders renders n positional parameters starting at $start: "$3, $4, $5".
func placeholders(start, n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('$')
		b.WriteString(strconv.Itoa(start + i))
	}
	return b.String()
}

func int64Args(ids []int64) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}

func nullInt64(p *int64) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *p, Valid: true}
}

func int64Ptr(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}

// withTx runs fn inside a transaction, committing on success and rolling back otherwise.
func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// insertTopicCategories links the topic to each category, skipping duplicates.
func insertTopicCategories(ctx context.Context, tx *sql.Tx, topicID int64, categoryIDs []int64) error {
	if len(categoryIDs) == 0 {
		return nil
	}
	values := make([]string, 0, len(categoryIDs))
	args := make([]any, 0, len(categoryIDs)+1)
	args = append(args, topicID)
	for i, id := range categoryIDs {
		values = append(values, fmt.Sprintf("($1, $%d)", i+2))
		args = append(args, id)
	}
	q := `INSERT INTO topic_categories (topic_id, category_id) VALUES ` +
		strings.Join(values, ", ") + ` ON CONFLICT DO NOTHING`
	if _, err := tx.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("insert topic categories: %w", err)
	}
	return nil
}
