package store

import (
	"context"
	"fmt"
)

// InitSchema creates the tables the store needs. Safe to run on every boot.
func (s *Store) InitSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS teams (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		budget BIGINT NOT NULL,
		remaining_purse BIGINT NOT NULL,
		max_actresses INT NOT NULL,
		current_actresses INT NOT NULL DEFAULT 0,
		owner_id UUID,
		owner_name TEXT,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		CHECK (remaining_purse >= 0 AND remaining_purse <= budget),
		CHECK (current_actresses >= 0 AND current_actresses <= max_actresses)
	);

	CREATE TABLE IF NOT EXISTS actresses (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		category TEXT NOT NULL,
		base_price BIGINT NOT NULL,
		current_price BIGINT NOT NULL,
		image_url TEXT NOT NULL DEFAULT '',
		is_available BOOLEAN NOT NULL DEFAULT TRUE,
		is_on_auction BOOLEAN NOT NULL DEFAULT FALSE,
		team_id UUID REFERENCES teams(id),
		final_price BIGINT,
		purchase_price BIGINT,
		sold_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);

	CREATE INDEX IF NOT EXISTS idx_actresses_team_id ON actresses(team_id);

	CREATE TABLE IF NOT EXISTS auction_state (
		id TEXT PRIMARY KEY CHECK (id = 'current'),
		phase TEXT NOT NULL,
		current_item JSONB,
		highest_bid BIGINT NOT NULL DEFAULT 0,
		highest_bidder_user_id UUID,
		highest_bidder_team_id UUID,
		highest_bidder_name TEXT,
		duration_secs INT NOT NULL DEFAULT 0,
		start_time TIMESTAMPTZ,
		paused_remaining_secs INT,
		paused_by TEXT,
		bid_count INT NOT NULL DEFAULT 0,
		active_teams JSONB NOT NULL DEFAULT '[]',
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);

	CREATE TABLE IF NOT EXISTS bid_history (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL,
		team_id UUID NOT NULL,
		team_name TEXT NOT NULL,
		bidder_name TEXT NOT NULL,
		amount BIGINT NOT NULL,
		ts TIMESTAMPTZ NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_bid_history_ts ON bid_history(ts DESC);

	CREATE TABLE IF NOT EXISTS auction_outbox (
		id UUID PRIMARY KEY,
		event_type TEXT NOT NULL,
		payload JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		sent_at TIMESTAMPTZ
	);

	CREATE INDEX IF NOT EXISTS idx_auction_outbox_unsent ON auction_outbox(created_at) WHERE sent_at IS NULL;
	`

	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}
