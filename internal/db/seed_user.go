package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/schedulehub/schedulehub/internal/config"
	"github.com/schedulehub/schedulehub/internal/security"
)

// EnsureSeedUser creates an initial schedule owner when the seed env vars are
// set. Users are otherwise provisioned outside this service, so handlers only
// ever read the users table.
func EnsureSeedUser(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	if cfg.SeedUsername == "" || cfg.SeedEmail == "" || cfg.SeedPassword == "" {
		return nil
	}

	// check if the user exists

	var dummy int64

	err := pool.QueryRow(ctx, `SELECT user_id FROM users WHERE email = $1`, cfg.SeedEmail).Scan(&dummy)

	if err == nil {
		return nil
	}

	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	hash, err := security.HashPassword(cfg.SeedPassword)

	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx,
		`INSERT INTO users (username, email, password_hash)
		VALUES ($1,$2,$3)
		`,
		cfg.SeedUsername, cfg.SeedEmail, hash,
	)

	return err
}
