package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrate brings the schema up on startup. Statements are idempotent so a
// restart against an existing database is a no-op.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			user_id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
			username VARCHAR(50) NOT NULL UNIQUE,
			email VARCHAR(100) NOT NULL UNIQUE,
			password_hash VARCHAR(255) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS schedules (
			schedule_id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(user_id) ON UPDATE CASCADE ON DELETE CASCADE,
			name VARCHAR(100) NOT NULL,
			image_url VARCHAR(255),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS schedules_user_id_name_unique ON schedules (user_id, name)`,
		`CREATE TABLE IF NOT EXISTS activities (
			activity_id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
			schedule_id BIGINT NOT NULL REFERENCES schedules(schedule_id) ON UPDATE CASCADE ON DELETE CASCADE,
			name VARCHAR(100) NOT NULL,
			start_date TIMESTAMPTZ NOT NULL,
			end_date TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS activities_schedule_id_idx ON activities (schedule_id)`,
		`CREATE INDEX IF NOT EXISTS activities_start_date_idx ON activities (start_date)`,
		`CREATE INDEX IF NOT EXISTS activities_end_date_idx ON activities (end_date)`,
	}

	for _, stmt := range stmts {
		_, err := pool.Exec(ctx, stmt)

		if err != nil {
			return err
		}
	}

	return nil
}
