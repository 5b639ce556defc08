package storage

import (
	"context"
	"fmt"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id SERIAL PRIMARY KEY,
		username VARCHAR(150) NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		is_admin BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS dishes (
		id SERIAL PRIMARY KEY,
		name VARCHAR(24) NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		net_price NUMERIC(5,2) NOT NULL,
		image TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id SERIAL PRIMARY KEY,
		customer_name VARCHAR(24) NOT NULL,
		customer_email VARCHAR(254) NOT NULL,
		customer_phone VARCHAR(10) NOT NULL,
		customer_address VARCHAR(32) NOT NULL,
		total_price NUMERIC(8,2) NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS order_lines (
		id SERIAL PRIMARY KEY,
		order_id INTEGER NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		dish_id INTEGER REFERENCES dishes(id) ON DELETE SET NULL,
		dish_name VARCHAR(24) NOT NULL,
		unit_price NUMERIC(5,2) NOT NULL,
		count INTEGER NOT NULL CHECK (count > 0),
		price NUMERIC(8,2) NOT NULL,
		user_id INTEGER REFERENCES users(id) ON DELETE SET NULL
	)`,
	"CREATE INDEX IF NOT EXISTS order_lines_user_id_idx ON order_lines (user_id)",
	"CREATE INDEX IF NOT EXISTS order_lines_order_id_idx ON order_lines (order_id)",
}

// EnsureSchema creates any missing table or index. Safe to run on every boot.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := r.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema `%s`: %w", stmt, err)
		}
	}
	return nil
}
