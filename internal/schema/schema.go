// Package schema owns the DDL for the raw layer: an unmodified,
// source-faithful copy of the ingested dataset, prior to any transformation.
package schema

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/vvka-141/rawload/pkg/rawload"
)

// DDL statements executed in order on every start. All statements are
// guarded by IF NOT EXISTS so re-running is a no-op on an initialized
// database. Table order matters: referenced tables first.
var statements = []string{
	`CREATE SCHEMA IF NOT EXISTS raw`,

	`CREATE TABLE IF NOT EXISTS raw.raw_users (
		user_id    TEXT PRIMARY KEY,
		created_at DATE NOT NULL,
		industry   TEXT,
		region     TEXT,
		sales_rep  TEXT
	)`,

	`CREATE TABLE IF NOT EXISTS raw.raw_plans (
		plan_id        TEXT PRIMARY KEY,
		plan_name      TEXT NOT NULL,
		price_usd      NUMERIC(10,2) NOT NULL,
		billing_period TEXT NOT NULL CHECK (billing_period IN ('monthly', 'annual'))
	)`,

	`CREATE TABLE IF NOT EXISTS raw.raw_subscriptions (
		subscription_id TEXT PRIMARY KEY,
		user_id         TEXT NOT NULL REFERENCES raw.raw_users(user_id),
		plan_id         TEXT NOT NULL REFERENCES raw.raw_plans(plan_id),
		start_at        DATE NOT NULL,
		end_at          DATE,
		status          TEXT NOT NULL CHECK (status IN ('active', 'canceled')),
		cancel_reason   TEXT
	)`,

	`CREATE TABLE IF NOT EXISTS raw.raw_nps (
		nps_id    TEXT PRIMARY KEY,
		user_id   TEXT NOT NULL REFERENCES raw.raw_users(user_id),
		survey_at DATE NOT NULL,
		nps_score INTEGER NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS raw.raw_etl_run_log (
		pipeline    TEXT PRIMARY KEY,
		run_id      UUID NOT NULL,
		last_run_at TIMESTAMPTZ NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_raw_users_created_at ON raw.raw_users(created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_raw_subscriptions_status ON raw.raw_subscriptions(status)`,
}

// Ensure applies the raw-layer DDL. Idempotent; a failure on any statement
// (permission denied, connection lost) aborts with rawload.ErrSchemaFailed.
func Ensure(ctx context.Context, conn rawload.DBConnection) error {
	for _, stmt := range statements {
		if _, err := conn.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("%w: applying raw schema DDL: %w", rawload.ErrSchemaFailed, err)
		}
	}
	return nil
}

// Truncate empties the four raw tables so a force-reload starts clean.
// CASCADE covers the FK edges from subscriptions and nps into users/plans.
func Truncate(ctx context.Context, conn rawload.DBConnection) error {
	const stmt = `TRUNCATE raw.raw_subscriptions, raw.raw_nps, raw.raw_users, raw.raw_plans
		RESTART IDENTITY CASCADE`
	if _, err := conn.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("failed to truncate raw tables: %w", err)
	}
	return nil
}

// CountRows returns the current row count of a raw table.
// The table name is sanitized as an identifier, never interpolated raw.
func CountRows(ctx context.Context, conn rawload.DBConnection, table string) (int64, error) {
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s.%s",
		pgx.Identifier{rawload.RawSchema}.Sanitize(),
		pgx.Identifier{table}.Sanitize())

	var n int64
	if err := conn.QueryRow(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count rows in %s: %w", table, err)
	}
	return n, nil
}
