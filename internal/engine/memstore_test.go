package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Breezy-Bae/ddl.github.io/internal/models"
	"github.com/Breezy-Bae/ddl.github.io/internal/store"
)

// memStore is an in-memory store.UnitOfWork for engine tests. Atomic takes a
// snapshot before running the closure and restores it when the closure fails,
// matching the all-or-nothing contract of the real store.
type memStore struct {
	state     models.AuctionState
	actresses map[uuid.UUID]models.Actress
	teams     map[uuid.UUID]models.Team
	bids      []models.BidEntry
	outbox    []memEvent
}

type memEvent struct {
	Type    string
	Payload []byte
}

func newMemStore() *memStore {
	return &memStore{
		state:     models.IdleAuctionState(),
		actresses: map[uuid.UUID]models.Actress{},
		teams:     map[uuid.UUID]models.Team{},
	}
}

func (m *memStore) Atomic(_ context.Context, fn func(tx store.Tx) error) error {
	snapshot := m.clone()
	if err := fn(&memTx{s: m}); err != nil {
		*m = *snapshot
		return err
	}
	return nil
}

func (m *memStore) clone() *memStore {
	c := &memStore{
		state:     m.state,
		actresses: make(map[uuid.UUID]models.Actress, len(m.actresses)),
		teams:     make(map[uuid.UUID]models.Team, len(m.teams)),
		bids:      append([]models.BidEntry(nil), m.bids...),
		outbox:    append([]memEvent(nil), m.outbox...),
	}
	for id, a := range m.actresses {
		c.actresses[id] = a
	}
	for id, t := range m.teams {
		c.teams[id] = t
	}
	return c
}

// eventTypes returns the outbox event types in commit order.
func (m *memStore) eventTypes() []string {
	types := make([]string, len(m.outbox))
	for i, e := range m.outbox {
		types[i] = e.Type
	}
	return types
}

type memTx struct {
	s *memStore
}

func (t *memTx) AuctionState(context.Context) (*models.AuctionState, error) {
	state := t.s.state
	return &state, nil
}

func (t *memTx) PutAuctionState(_ context.Context, state models.AuctionState) error {
	t.s.state = state
	return nil
}

func (t *memTx) Actress(_ context.Context, id uuid.UUID) (*models.Actress, error) {
	a, ok := t.s.actresses[id]
	if !ok {
		return nil, fmt.Errorf("actress %s: %w", id, store.ErrNotFound)
	}
	return &a, nil
}

func (t *memTx) Team(_ context.Context, id uuid.UUID) (*models.Team, error) {
	team, ok := t.s.teams[id]
	if !ok {
		return nil, fmt.Errorf("team %s: %w", id, store.ErrNotFound)
	}
	return &team, nil
}

func (t *memTx) ListActiveTeams(context.Context) ([]models.Team, error) {
	var teams []models.Team
	for _, team := range t.s.teams {
		if team.IsActive && team.OwnerID != nil {
			teams = append(teams, team)
		}
	}
	return teams, nil
}

func (t *memTx) RosterCounts(_ context.Context, teamID uuid.UUID) (int, map[models.Category]int, error) {
	total := 0
	perCategory := map[models.Category]int{}
	for _, a := range t.s.actresses {
		if a.TeamID != nil && *a.TeamID == teamID {
			total++
			perCategory[a.Category]++
		}
	}
	return total, perCategory, nil
}

func (t *memTx) SetActressOnAuction(_ context.Context, id uuid.UUID, onAuction bool, currentPrice int64) error {
	a, ok := t.s.actresses[id]
	if !ok {
		return store.ErrNotFound
	}
	a.IsOnAuction = onAuction
	a.CurrentPrice = currentPrice
	t.s.actresses[id] = a
	return nil
}

func (t *memTx) SettleActress(_ context.Context, id, teamID uuid.UUID, price int64, soldAt time.Time) error {
	a, ok := t.s.actresses[id]
	if !ok {
		return store.ErrNotFound
	}
	a.IsAvailable = false
	a.IsOnAuction = false
	a.TeamID = &teamID
	a.CurrentPrice = price
	a.FinalPrice = &price
	a.PurchasePrice = &price
	a.SoldAt = &soldAt
	t.s.actresses[id] = a
	return nil
}

func (t *memTx) RevertActress(_ context.Context, id uuid.UUID) error {
	a, ok := t.s.actresses[id]
	if !ok {
		return store.ErrNotFound
	}
	a.IsAvailable = true
	a.IsOnAuction = false
	a.TeamID = nil
	a.CurrentPrice = a.BasePrice
	a.FinalPrice = nil
	a.PurchasePrice = nil
	a.SoldAt = nil
	t.s.actresses[id] = a
	return nil
}

func (t *memTx) DebitTeam(_ context.Context, id uuid.UUID, amount int64) error {
	team, ok := t.s.teams[id]
	if !ok {
		return store.ErrNotFound
	}
	if team.RemainingPurse < amount {
		return fmt.Errorf("purse would go negative: %w", store.ErrConflict)
	}
	team.RemainingPurse -= amount
	t.s.teams[id] = team
	return nil
}

func (t *memTx) CreditTeam(_ context.Context, id uuid.UUID, amount int64) error {
	team, ok := t.s.teams[id]
	if !ok {
		return store.ErrNotFound
	}
	team.RemainingPurse += amount
	t.s.teams[id] = team
	return nil
}

func (t *memTx) IncrementRoster(_ context.Context, id uuid.UUID) error {
	team, ok := t.s.teams[id]
	if !ok {
		return store.ErrNotFound
	}
	team.CurrentActresses++
	t.s.teams[id] = team
	return nil
}

func (t *memTx) DecrementRoster(_ context.Context, id uuid.UUID) error {
	team, ok := t.s.teams[id]
	if !ok {
		return store.ErrNotFound
	}
	if team.CurrentActresses > 0 {
		team.CurrentActresses--
	}
	t.s.teams[id] = team
	return nil
}

func (t *memTx) AppendBid(_ context.Context, entry models.BidEntry) error {
	t.s.bids = append(t.s.bids, entry)
	return nil
}

func (t *memTx) RecentBids(_ context.Context, limit int) ([]models.BidEntry, error) {
	var out []models.BidEntry
	for i := len(t.s.bids) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, t.s.bids[i])
	}
	return out, nil
}

func (t *memTx) InsertOutbox(_ context.Context, eventType string, payload []byte) error {
	t.s.outbox = append(t.s.outbox, memEvent{Type: eventType, Payload: append([]byte(nil), payload...)})
	return nil
}
