package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

type migrationStep struct {
	Name string
	SQL  string
}

// sentinelTable is created by the last step; its presence means the schema is complete.
const sentinelTable = "public.user_topic_read_states"

var steps = []migrationStep{
	{
		Name: "create_table_users",
		SQL: `CREATE TABLE IF NOT EXISTS users (
  id           BIGSERIAL   PRIMARY KEY,
  name         TEXT        NOT NULL UNIQUE,
  session_key  TEXT        UNIQUE,
  admin        BOOLEAN     NOT NULL DEFAULT false,
  moderator    BOOLEAN     NOT NULL DEFAULT false,
  last_seen_at TIMESTAMPTZ,
  created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_messageboards",
		SQL: `CREATE TABLE IF NOT EXISTS messageboards (
  id           BIGSERIAL   PRIMARY KEY,
  name         TEXT        NOT NULL,
  slug         TEXT        NOT NULL UNIQUE,
  description  TEXT        NOT NULL DEFAULT '',
  locked       BOOLEAN     NOT NULL DEFAULT false,
  topics_count INTEGER     NOT NULL DEFAULT 0 CHECK (topics_count >= 0),
  posts_count  INTEGER     NOT NULL DEFAULT 0 CHECK (posts_count >= 0),
  created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_categories",
		SQL: `CREATE TABLE IF NOT EXISTS categories (
  id              BIGSERIAL   PRIMARY KEY,
  messageboard_id BIGINT      NOT NULL REFERENCES messageboards (id) ON DELETE CASCADE,
  name            TEXT        NOT NULL,
  slug            TEXT        NOT NULL,
  description     TEXT        NOT NULL DEFAULT '',
  created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
  UNIQUE (messageboard_id, slug)
);`,
	},
	{
		Name: "create_table_topics",
		SQL: `CREATE TABLE IF NOT EXISTS topics (
  id              BIGSERIAL   PRIMARY KEY,
  messageboard_id BIGINT      NOT NULL REFERENCES messageboards (id) ON DELETE CASCADE,
  user_id         BIGINT      REFERENCES users (id) ON DELETE SET NULL,
  last_user_id    BIGINT      REFERENCES users (id) ON DELETE SET NULL,
  title           TEXT        NOT NULL,
  slug            TEXT        NOT NULL,
  sticky          BOOLEAN     NOT NULL DEFAULT false,
  locked          BOOLEAN     NOT NULL DEFAULT false,
  posts_count     INTEGER     NOT NULL DEFAULT 0 CHECK (posts_count >= 0),
  last_post_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
  created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
  UNIQUE (messageboard_id, slug)
);`,
	},
	{
		Name: "create_index_topics_listing",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_topics_listing ON topics (messageboard_id, sticky DESC, updated_at DESC, id DESC);`,
	},
	{
		Name: "create_index_topics_title_search",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_topics_title_search ON topics USING gin (to_tsvector('english', title));`,
	},
	{
		Name: "create_table_topic_categories",
		SQL: `CREATE TABLE IF NOT EXISTS topic_categories (
  topic_id    BIGINT NOT NULL REFERENCES topics (id) ON DELETE CASCADE,
  category_id BIGINT NOT NULL REFERENCES categories (id) ON DELETE CASCADE,
  PRIMARY KEY (topic_id, category_id)
);`,
	},
	{
		Name: "create_index_topic_categories_category",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_topic_categories_category ON topic_categories (category_id);`,
	},
	{
		Name: "create_table_posts",
		SQL: `CREATE TABLE IF NOT EXISTS posts (
  id              BIGSERIAL   PRIMARY KEY,
  messageboard_id BIGINT      NOT NULL REFERENCES messageboards (id) ON DELETE CASCADE,
  topic_id        BIGINT      NOT NULL REFERENCES topics (id) ON DELETE CASCADE,
  user_id         BIGINT      REFERENCES users (id) ON DELETE SET NULL,
  content         TEXT        NOT NULL,
  ip              TEXT        NOT NULL DEFAULT '',
  created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_posts_topic_created",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_posts_topic_created ON posts (topic_id, created_at, id);`,
	},
	{
		Name: "create_index_posts_content_search",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_posts_content_search ON posts USING gin (to_tsvector('english', content));`,
	},
	{
		Name: "create_table_user_topic_read_states",
		SQL: `CREATE TABLE IF NOT EXISTS user_topic_read_states (
  user_id  BIGINT      NOT NULL REFERENCES users (id) ON DELETE CASCADE,
  topic_id BIGINT      NOT NULL REFERENCES topics (id) ON DELETE CASCADE,
  read_at  TIMESTAMPTZ NOT NULL,
  page     INTEGER     NOT NULL DEFAULT 1 CHECK (page >= 1),
  PRIMARY KEY (user_id, topic_id)
);`,
	},
}

// EnsureMigrated checks if the sentinel table exists and runs migrations if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, log zerolog.Logger, dbHost string) error {
	start := time.Now()
	log = log.With().Str("component", "database").Str("db_host", dbHost).Logger()

	log.Info().Str("event", "db_migration_check").Str("status", "starting").Send()

	var exists bool
	query := "SELECT to_regclass($1) IS NOT NULL"
	err := db.QueryRowContext(ctx, query, sentinelTable).Scan(&exists)
	if err != nil {
		log.Error().Err(err).
			Str("event", "db_migration_failed").
			Str("status", "error").
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Msg("failed to check sentinel table")
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.Info().
			Str("event", "db_migration_skip").
			Str("status", "success").
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Msg("schema already exists, skipping migration")
		return nil
	}

	log.Info().Str("event", "db_migration_start").Str("status", "in_progress").Send()

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error().Err(err).
				Str("event", "db_migration_failed").
				Str("status", "error").
				Str("migration_step", step.Name).
				Int64("duration_ms", time.Since(start).Milliseconds()).
				Int64("step_duration_ms", time.Since(stepStart).Milliseconds()).
				Send()
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		log.Info().
			Str("event", "db_migration_step").
			Str("status", "success").
			Str("migration_step", step.Name).
			Int64("step_duration_ms", time.Since(stepStart).Milliseconds()).
			Send()
	}

	log.Info().
		Str("event", "db_migration_success").
		Str("status", "success").
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Send()

	return nil
}
