package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Breezy-Bae/ddl.github.io/internal/models"
)

var (
	// ErrNotFound is returned when a referenced document does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a transaction lost write conflicts until
	// the retry budget was exhausted. The whole operation may be retried.
	ErrConflict = errors.New("transaction conflict")
)

// UnitOfWork runs a closure as one all-or-nothing transaction. The closure
// must perform all of its reads before its writes; on a write conflict the
// store retries the whole closure, so fn must be safe to re-run.
type UnitOfWork interface {
	Atomic(ctx context.Context, fn func(tx Tx) error) error
}

// Tx is the document surface visible inside a transaction. Every multi-field
// mutation of the auction state, items, or teams goes through here; nothing
// writes these documents outside a unit of work.
type Tx interface {
	// Auction state singleton.
	AuctionState(ctx context.Context) (*models.AuctionState, error)
	PutAuctionState(ctx context.Context, state models.AuctionState) error

	// Roster/team read surface.
	Actress(ctx context.Context, id uuid.UUID) (*models.Actress, error)
	Team(ctx context.Context, id uuid.UUID) (*models.Team, error)
	ListActiveTeams(ctx context.Context) ([]models.Team, error)
	RosterCounts(ctx context.Context, teamID uuid.UUID) (total int, perCategory map[models.Category]int, err error)

	// Roster/team write surface.
	SetActressOnAuction(ctx context.Context, id uuid.UUID, onAuction bool, currentPrice int64) error
	SettleActress(ctx context.Context, id, teamID uuid.UUID, price int64, soldAt time.Time) error
	RevertActress(ctx context.Context, id uuid.UUID) error
	DebitTeam(ctx context.Context, id uuid.UUID, amount int64) error
	CreditTeam(ctx context.Context, id uuid.UUID, amount int64) error
	IncrementRoster(ctx context.Context, id uuid.UUID) error
	DecrementRoster(ctx context.Context, id uuid.UUID) error

	// Bid ledger (append-only).
	AppendBid(ctx context.Context, entry models.BidEntry) error
	RecentBids(ctx context.Context, limit int) ([]models.BidEntry, error)

	// Outbox row committed atomically with the mutation that caused it.
	InsertOutbox(ctx context.Context, eventType string, payload []byte) error
}
