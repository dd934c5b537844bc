package db

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"flpayroll/internal/auth"
	"flpayroll/internal/platform/config"
)

// Seed creates the operator account on first boot. It is a no-op when the
// account already exists or when no seed credentials are configured.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	email := strings.TrimSpace(cfg.SeedAdminEmail)
	password := strings.TrimSpace(cfg.SeedAdminPassword)
	if email == "" || password == "" {
		return nil
	}

	var id string
	err := pool.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", email).Scan(&id)
	if err == nil {
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	return pool.QueryRow(ctx, `
    INSERT INTO users (email, password_hash, role)
    VALUES ($1, $2, 'operator')
    RETURNING id
  `, email, hash).Scan(&id)
}
