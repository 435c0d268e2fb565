package store

import (
	"context"
	"fmt"

	"github.com/Breezy-Bae/ddl.github.io/internal/models"
)

func (t *pgTx) AppendBid(ctx context.Context, entry models.BidEntry) error {
	_, err := t.q.ExecContext(ctx, `
		INSERT INTO bid_history (id, user_id, team_id, team_name, bidder_name, amount, ts)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, entry.ID, entry.UserID, entry.TeamID, entry.TeamName, entry.BidderName, entry.Amount, entry.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to append bid: %w", err)
	}
	return nil
}

func (t *pgTx) RecentBids(ctx context.Context, limit int) ([]models.BidEntry, error) {
	return recentBids(ctx, t.q, limit)
}

// RecentBids returns the latest committed ledger entries, newest first.
func (s *Store) RecentBids(ctx context.Context, limit int) ([]models.BidEntry, error) {
	return recentBids(ctx, s.db, limit)
}

func recentBids(ctx context.Context, q querier, limit int) ([]models.BidEntry, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, user_id, team_id, team_name, bidder_name, amount, ts
		FROM bid_history
		ORDER BY ts DESC, id
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query bid history: %w", err)
	}
	defer rows.Close()

	var bids []models.BidEntry
	for rows.Next() {
		var b models.BidEntry
		if err := rows.Scan(&b.ID, &b.UserID, &b.TeamID, &b.TeamName, &b.BidderName, &b.Amount, &b.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan bid: %w", err)
		}
		bids = append(bids, b)
	}
	return bids, rows.Err()
}
