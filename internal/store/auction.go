package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Breezy-Bae/ddl.github.io/internal/models"
)

// The auction state is a singleton document keyed 'current'.
const auctionStateKey = "current"

const selectAuctionState = `
	SELECT phase, current_item, highest_bid,
	       highest_bidder_user_id, highest_bidder_team_id, highest_bidder_name,
	       duration_secs, start_time, paused_remaining_secs, paused_by,
	       bid_count, active_teams, updated_at
	FROM auction_state
	WHERE id = $1
`

func scanAuctionState(row *sql.Row) (*models.AuctionState, error) {
	var (
		state        models.AuctionState
		itemJSON     []byte
		teamsJSON    []byte
		bidderUserID uuid.NullUUID
		bidderTeamID uuid.NullUUID
		bidderName   sql.NullString
		startTime    sql.NullTime
		pausedRem    sql.NullInt32
		pausedBy     sql.NullString
	)

	err := row.Scan(
		&state.Phase, &itemJSON, &state.HighestBid,
		&bidderUserID, &bidderTeamID, &bidderName,
		&state.DurationSec, &startTime, &pausedRem, &pausedBy,
		&state.BidCount, &teamsJSON, &state.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		idle := models.IdleAuctionState()
		return &idle, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read auction state: %w", err)
	}

	if len(itemJSON) > 0 {
		var item models.ItemRef
		if err := json.Unmarshal(itemJSON, &item); err != nil {
			return nil, fmt.Errorf("failed to decode current item: %w", err)
		}
		state.CurrentItem = &item
	}
	if err := json.Unmarshal(teamsJSON, &state.ActiveTeams); err != nil {
		return nil, fmt.Errorf("failed to decode active teams: %w", err)
	}
	if bidderUserID.Valid {
		state.HighestBidderUserID = &bidderUserID.UUID
	}
	if bidderTeamID.Valid {
		state.HighestBidderTeamID = &bidderTeamID.UUID
	}
	if bidderName.Valid {
		state.HighestBidderName = &bidderName.String
	}
	if startTime.Valid {
		state.StartTime = startTime.Time
	}
	if pausedRem.Valid {
		rem := int(pausedRem.Int32)
		state.PausedRemainingSec = &rem
	}
	if pausedBy.Valid {
		state.PausedBy = &pausedBy.String
	}
	return &state, nil
}

func getAuctionState(ctx context.Context, q querier) (*models.AuctionState, error) {
	return scanAuctionState(q.QueryRowContext(ctx, selectAuctionState, auctionStateKey))
}

func putAuctionState(ctx context.Context, q querier, state models.AuctionState) error {
	var itemJSON []byte
	if state.CurrentItem != nil {
		b, err := json.Marshal(state.CurrentItem)
		if err != nil {
			return fmt.Errorf("failed to encode current item: %w", err)
		}
		itemJSON = b
	}
	teams := state.ActiveTeams
	if teams == nil {
		teams = []models.TeamRef{}
	}
	teamsJSON, err := json.Marshal(teams)
	if err != nil {
		return fmt.Errorf("failed to encode active teams: %w", err)
	}

	var startTime sql.NullTime
	if !state.StartTime.IsZero() {
		startTime = sql.NullTime{Time: state.StartTime, Valid: true}
	}
	var pausedRem sql.NullInt32
	if state.PausedRemainingSec != nil {
		pausedRem = sql.NullInt32{Int32: int32(*state.PausedRemainingSec), Valid: true}
	}

	// The engine stamps UpdatedAt from its injected clock; wall time is only
	// a fallback for writers that did not set it.
	updatedAt := state.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}

	_, err = q.ExecContext(ctx, `
		INSERT INTO auction_state (
			id, phase, current_item, highest_bid,
			highest_bidder_user_id, highest_bidder_team_id, highest_bidder_name,
			duration_secs, start_time, paused_remaining_secs, paused_by,
			bid_count, active_teams, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (id) DO UPDATE SET
			phase = EXCLUDED.phase,
			current_item = EXCLUDED.current_item,
			highest_bid = EXCLUDED.highest_bid,
			highest_bidder_user_id = EXCLUDED.highest_bidder_user_id,
			highest_bidder_team_id = EXCLUDED.highest_bidder_team_id,
			highest_bidder_name = EXCLUDED.highest_bidder_name,
			duration_secs = EXCLUDED.duration_secs,
			start_time = EXCLUDED.start_time,
			paused_remaining_secs = EXCLUDED.paused_remaining_secs,
			paused_by = EXCLUDED.paused_by,
			bid_count = EXCLUDED.bid_count,
			active_teams = EXCLUDED.active_teams,
			updated_at = EXCLUDED.updated_at
	`,
		auctionStateKey, state.Phase, itemJSON, state.HighestBid,
		toNullUUID(state.HighestBidderUserID), toNullUUID(state.HighestBidderTeamID), toNullString(state.HighestBidderName),
		state.DurationSec, startTime, pausedRem, toNullString(state.PausedBy),
		state.BidCount, teamsJSON, updatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to write auction state: %w", err)
	}
	return nil
}

func (t *pgTx) AuctionState(ctx context.Context) (*models.AuctionState, error) {
	return getAuctionState(ctx, t.q)
}

func (t *pgTx) PutAuctionState(ctx context.Context, state models.AuctionState) error {
	return putAuctionState(ctx, t.q, state)
}

// CurrentState returns the latest committed auction state outside any
// transaction; observers use this for initial sync.
func (s *Store) CurrentState(ctx context.Context) (*models.AuctionState, error) {
	return getAuctionState(ctx, s.db)
}

func toNullUUID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}

func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
