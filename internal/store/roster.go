package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Breezy-Bae/ddl.github.io/internal/models"
)

const selectActress = `
	SELECT id, name, category, base_price, current_price, image_url,
	       is_available, is_on_auction, team_id, final_price, purchase_price,
	       sold_at, created_at
	FROM actresses
`

func scanActress(row *sql.Row) (*models.Actress, error) {
	var (
		a             models.Actress
		teamID        uuid.NullUUID
		finalPrice    sql.NullInt64
		purchasePrice sql.NullInt64
		soldAt        sql.NullTime
	)
	err := row.Scan(
		&a.ID, &a.Name, &a.Category, &a.BasePrice, &a.CurrentPrice, &a.ImageURL,
		&a.IsAvailable, &a.IsOnAuction, &teamID, &finalPrice, &purchasePrice,
		&soldAt, &a.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read actress: %w", err)
	}
	if teamID.Valid {
		a.TeamID = &teamID.UUID
	}
	if finalPrice.Valid {
		a.FinalPrice = &finalPrice.Int64
	}
	if purchasePrice.Valid {
		a.PurchasePrice = &purchasePrice.Int64
	}
	if soldAt.Valid {
		a.SoldAt = &soldAt.Time
	}
	return &a, nil
}

func getActress(ctx context.Context, q querier, id uuid.UUID) (*models.Actress, error) {
	return scanActress(q.QueryRowContext(ctx, selectActress+" WHERE id = $1", id))
}

const selectTeam = `
	SELECT id, name, budget, remaining_purse, max_actresses, current_actresses,
	       owner_id, owner_name, is_active, created_at
	FROM teams
`

func scanTeamRow(scan func(dest ...any) error) (*models.Team, error) {
	var (
		t         models.Team
		ownerID   uuid.NullUUID
		ownerName sql.NullString
	)
	err := scan(
		&t.ID, &t.Name, &t.Budget, &t.RemainingPurse, &t.MaxActresses, &t.CurrentActresses,
		&ownerID, &ownerName, &t.IsActive, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if ownerID.Valid {
		t.OwnerID = &ownerID.UUID
	}
	if ownerName.Valid {
		t.OwnerName = &ownerName.String
	}
	return &t, nil
}

func getTeam(ctx context.Context, q querier, id uuid.UUID) (*models.Team, error) {
	team, err := scanTeamRow(q.QueryRowContext(ctx, selectTeam+" WHERE id = $1", id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read team: %w", err)
	}
	return team, nil
}

func listTeams(ctx context.Context, q querier, activeOnly bool) ([]models.Team, error) {
	query := selectTeam + " ORDER BY name"
	if activeOnly {
		query = selectTeam + " WHERE is_active AND owner_id IS NOT NULL ORDER BY name"
	}
	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	defer rows.Close()

	var teams []models.Team
	for rows.Next() {
		team, err := scanTeamRow(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		teams = append(teams, *team)
	}
	return teams, rows.Err()
}

func (t *pgTx) Actress(ctx context.Context, id uuid.UUID) (*models.Actress, error) {
	return getActress(ctx, t.q, id)
}

func (t *pgTx) Team(ctx context.Context, id uuid.UUID) (*models.Team, error) {
	return getTeam(ctx, t.q, id)
}

// ListActiveTeams returns teams eligible to bid: active and with an owner.
func (t *pgTx) ListActiveTeams(ctx context.Context) ([]models.Team, error) {
	return listTeams(ctx, t.q, true)
}

// RosterCounts returns how many actresses the team holds in total and per
// category, used for the roster and quota checks before accepting a bid.
func (t *pgTx) RosterCounts(ctx context.Context, teamID uuid.UUID) (int, map[models.Category]int, error) {
	rows, err := t.q.QueryContext(ctx,
		`SELECT category, count(*) FROM actresses WHERE team_id = $1 GROUP BY category`, teamID)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to count roster: %w", err)
	}
	defer rows.Close()

	total := 0
	perCategory := make(map[models.Category]int)
	for rows.Next() {
		var cat models.Category
		var n int
		if err := rows.Scan(&cat, &n); err != nil {
			return 0, nil, fmt.Errorf("failed to scan roster count: %w", err)
		}
		perCategory[cat] = n
		total += n
	}
	return total, perCategory, rows.Err()
}

func (t *pgTx) SetActressOnAuction(ctx context.Context, id uuid.UUID, onAuction bool, currentPrice int64) error {
	return execOne(ctx, t.q,
		`UPDATE actresses SET is_on_auction = $2, current_price = $3 WHERE id = $1`,
		id, onAuction, currentPrice)
}

// SettleActress awards the actress to the winning team at the final price.
func (t *pgTx) SettleActress(ctx context.Context, id, teamID uuid.UUID, price int64, soldAt time.Time) error {
	return execOne(ctx, t.q, `
		UPDATE actresses
		SET is_on_auction = FALSE,
		    is_available = FALSE,
		    team_id = $2,
		    final_price = $3,
		    purchase_price = $3,
		    current_price = $3,
		    sold_at = $4
		WHERE id = $1
	`, id, teamID, price, soldAt)
}

// RevertActress puts the actress back in the pool, unsold and unowned.
func (t *pgTx) RevertActress(ctx context.Context, id uuid.UUID) error {
	return execOne(ctx, t.q, `
		UPDATE actresses
		SET is_on_auction = FALSE,
		    is_available = TRUE,
		    team_id = NULL,
		    final_price = NULL,
		    purchase_price = NULL,
		    sold_at = NULL,
		    current_price = base_price
		WHERE id = $1
	`, id)
}

func (t *pgTx) DebitTeam(ctx context.Context, id uuid.UUID, amount int64) error {
	return execOne(ctx, t.q,
		`UPDATE teams SET remaining_purse = remaining_purse - $2 WHERE id = $1`, id, amount)
}

func (t *pgTx) CreditTeam(ctx context.Context, id uuid.UUID, amount int64) error {
	return execOne(ctx, t.q,
		`UPDATE teams SET remaining_purse = remaining_purse + $2 WHERE id = $1`, id, amount)
}

func (t *pgTx) IncrementRoster(ctx context.Context, id uuid.UUID) error {
	return execOne(ctx, t.q,
		`UPDATE teams SET current_actresses = current_actresses + 1 WHERE id = $1`, id)
}

func (t *pgTx) DecrementRoster(ctx context.Context, id uuid.UUID) error {
	return execOne(ctx, t.q,
		`UPDATE teams SET current_actresses = current_actresses - 1 WHERE id = $1`, id)
}

// ListTeams returns every team for the observer read surface.
func (s *Store) ListTeams(ctx context.Context) ([]models.Team, error) {
	return listTeams(ctx, s.db, false)
}

// ActressByID returns one actress outside any transaction.
func (s *Store) ActressByID(ctx context.Context, id uuid.UUID) (*models.Actress, error) {
	return getActress(ctx, s.db, id)
}

func execOne(ctx context.Context, q querier, query string, args ...any) error {
	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to exec update: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
