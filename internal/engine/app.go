package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/Breezy-Bae/ddl.github.io/internal/events"
	"github.com/Breezy-Bae/ddl.github.io/internal/models"
	"github.com/Breezy-Bae/ddl.github.io/internal/store"
)

// App is the auction engine: it owns the lifecycle state machine, the bid
// transaction protocol, and settlement. Every operation runs as one unit of
// work against the store, with all validation before any write.
type App struct {
	db    store.UnitOfWork
	clock clockwork.Clock
}

// NewApp creates the engine on top of a unit-of-work store.
func NewApp(db store.UnitOfWork, clock clockwork.Clock) *App {
	return &App{
		db:    db,
		clock: clock,
	}
}

// StartAuction puts an available actress under the hammer. It fails with
// ErrInvalidState while another auction is live, and ErrNotFound when the
// actress is missing, unavailable, or already on auction.
func (a *App) StartAuction(ctx context.Context, req StartAuctionRequest) (*models.AuctionState, error) {
	duration := req.DurationSec
	if duration <= 0 {
		duration = DefaultDurationSec
	}

	var next models.AuctionState
	err := a.db.Atomic(ctx, func(tx store.Tx) error {
		state, err := tx.AuctionState(ctx)
		if err != nil {
			return err
		}
		if state.CurrentItem != nil {
			return fmt.Errorf("%w: an item is already under auction", ErrInvalidState)
		}

		actress, err := tx.Actress(ctx, req.ActressID)
		if err != nil {
			return err
		}
		if !actress.IsAvailable || actress.IsOnAuction {
			return fmt.Errorf("%w: actress is not available for auction", ErrNotFound)
		}

		teams, err := tx.ListActiveTeams(ctx)
		if err != nil {
			return err
		}

		now := a.clock.Now()
		activeTeams := make([]models.TeamRef, 0, len(teams))
		for _, team := range teams {
			ref := models.TeamRef{TeamID: team.ID, TeamName: team.Name}
			if team.OwnerName != nil {
				ref.OwnerName = *team.OwnerName
			}
			activeTeams = append(activeTeams, ref)
		}

		next = models.AuctionState{
			Phase: models.AuctionPhaseRunning,
			CurrentItem: &models.ItemRef{
				ID:        actress.ID,
				Name:      actress.Name,
				Category:  actress.Category,
				BasePrice: actress.BasePrice,
				ImageURL:  actress.ImageURL,
			},
			HighestBid:  actress.BasePrice,
			DurationSec: duration,
			StartTime:   now,
			ActiveTeams: activeTeams,
			UpdatedAt:   now,
		}

		if err := tx.SetActressOnAuction(ctx, actress.ID, true, actress.BasePrice); err != nil {
			return err
		}
		if err := tx.PutAuctionState(ctx, next); err != nil {
			return err
		}
		return a.emit(ctx, tx, events.TypeAuctionStarted, events.AuctionStartedPayload{
			ItemID:      actress.ID.String(),
			ItemName:    actress.Name,
			Category:    string(actress.Category),
			BasePrice:   actress.BasePrice,
			DurationSec: duration,
			StartedAt:   now,
			TeamCount:   len(activeTeams),
		})
	})
	if err != nil {
		return nil, a.translate(err)
	}

	log.Info().
		Str("actress_id", req.ActressID.String()).
		Int("duration_sec", duration).
		Msg("auction started")
	return &next, nil
}

// PlaceBid runs the bid transaction: validate against the latest state, then
// commit the new leader, the 3-second anti-snipe extension, and the ledger
// entry as one atomic unit. A rejected bid leaves everything untouched.
func (a *App) PlaceBid(ctx context.Context, req PlaceBidRequest) (*models.AuctionState, error) {
	var next models.AuctionState
	err := a.db.Atomic(ctx, func(tx store.Tx) error {
		state, err := tx.AuctionState(ctx)
		if err != nil {
			return err
		}
		if state.CurrentItem == nil {
			return ErrNoActiveAuction
		}
		if !state.IsActive() {
			return ErrAuctionNotActive
		}
		if req.Amount <= state.HighestBid {
			return ErrBidTooLow
		}

		team, err := tx.Team(ctx, req.TeamID)
		if err != nil {
			return err
		}
		if req.Amount > team.RemainingPurse {
			return ErrInsufficientBudget
		}

		rosterSize, perCategory, err := tx.RosterCounts(ctx, req.TeamID)
		if err != nil {
			return err
		}
		category := state.CurrentItem.Category
		if err := ValidateCategoryQuota(category, rosterSize, perCategory[category], team.MaxActresses); err != nil {
			return err
		}

		now := a.clock.Now()
		next = *state
		next.HighestBid = req.Amount
		next.HighestBidderUserID = &req.UserID
		next.HighestBidderTeamID = &req.TeamID
		next.HighestBidderName = &req.BidderName
		next.BidCount = state.BidCount + 1
		next.DurationSec = state.DurationSec + BidExtensionSec
		next.UpdatedAt = now

		entry := models.BidEntry{
			ID:         uuid.New(),
			UserID:     req.UserID,
			TeamID:     req.TeamID,
			TeamName:   req.TeamName,
			BidderName: req.BidderName,
			Amount:     req.Amount,
			Timestamp:  now,
		}
		if err := tx.AppendBid(ctx, entry); err != nil {
			return err
		}
		if err := tx.PutAuctionState(ctx, next); err != nil {
			return err
		}
		return a.emit(ctx, tx, events.TypeBidPlaced, events.BidPlacedPayload{
			BidID:       entry.ID.String(),
			ItemID:      state.CurrentItem.ID.String(),
			TeamID:      req.TeamID.String(),
			TeamName:    req.TeamName,
			BidderName:  req.BidderName,
			Amount:      req.Amount,
			BidCount:    next.BidCount,
			DurationSec: next.DurationSec,
			PlacedAt:    now,
		})
	})
	if err != nil {
		return nil, a.translate(err)
	}

	log.Info().
		Str("team_id", req.TeamID.String()).
		Int64("amount", req.Amount).
		Int("bid_count", next.BidCount).
		Msg("bid accepted")
	return &next, nil
}

// Pause freezes the countdown, capturing the remaining seconds so Resume can
// carry them forward exactly. Pausing while not running is ErrInvalidState.
func (a *App) Pause(ctx context.Context, actorName string) (*models.AuctionState, error) {
	var next models.AuctionState
	err := a.db.Atomic(ctx, func(tx store.Tx) error {
		state, err := tx.AuctionState(ctx)
		if err != nil {
			return err
		}
		if state.CurrentItem == nil || state.Phase != models.AuctionPhaseRunning {
			return fmt.Errorf("%w: auction is not running", ErrInvalidState)
		}

		now := a.clock.Now()
		remaining := Remaining(now, state.StartTime, state.DurationSec)

		next = *state
		next.Phase = models.AuctionPhasePaused
		next.PausedRemainingSec = &remaining
		next.PausedBy = &actorName
		next.UpdatedAt = now

		if err := tx.PutAuctionState(ctx, next); err != nil {
			return err
		}
		return a.emit(ctx, tx, events.TypeAuctionPaused, events.AuctionPausedPayload{
			ItemID:       state.CurrentItem.ID.String(),
			PausedBy:     actorName,
			RemainingSec: remaining,
			PausedAt:     now,
		})
	})
	if err != nil {
		return nil, a.translate(err)
	}

	log.Info().Str("paused_by", actorName).Int("remaining_sec", *next.PausedRemainingSec).Msg("auction paused")
	return &next, nil
}

// Resume restarts the countdown from the paused remainder: the remaining
// seconds become the new total duration anchored at now, so no time is lost
// or gained by pausing.
func (a *App) Resume(ctx context.Context) (*models.AuctionState, error) {
	var next models.AuctionState
	err := a.db.Atomic(ctx, func(tx store.Tx) error {
		state, err := tx.AuctionState(ctx)
		if err != nil {
			return err
		}
		if state.CurrentItem == nil || state.PausedRemainingSec == nil {
			return fmt.Errorf("%w: auction is not paused", ErrInvalidState)
		}

		now := a.clock.Now()
		remaining := *state.PausedRemainingSec

		next = *state
		next.Phase = models.AuctionPhaseRunning
		next.StartTime = now
		next.DurationSec = remaining
		next.PausedRemainingSec = nil
		next.PausedBy = nil
		next.UpdatedAt = now

		if err := tx.PutAuctionState(ctx, next); err != nil {
			return err
		}
		return a.emit(ctx, tx, events.TypeAuctionResumed, events.AuctionResumedPayload{
			ItemID:       state.CurrentItem.ID.String(),
			RemainingSec: remaining,
			ResumedAt:    now,
		})
	})
	if err != nil {
		return nil, a.translate(err)
	}

	log.Info().Int("remaining_sec", next.DurationSec).Msg("auction resumed")
	return &next, nil
}

// Extend adds seconds to the total allotted duration without touching the
// start anchor. Valid only while the countdown is running.
func (a *App) Extend(ctx context.Context, seconds int) (*models.AuctionState, error) {
	if seconds <= 0 {
		return nil, fmt.Errorf("%w: extension must be positive", ErrInvalidState)
	}

	var next models.AuctionState
	err := a.db.Atomic(ctx, func(tx store.Tx) error {
		state, err := tx.AuctionState(ctx)
		if err != nil {
			return err
		}
		if state.CurrentItem == nil || state.Phase != models.AuctionPhaseRunning {
			return fmt.Errorf("%w: auction is not running", ErrInvalidState)
		}

		now := a.clock.Now()
		next = *state
		next.DurationSec = state.DurationSec + seconds
		next.UpdatedAt = now

		if err := tx.PutAuctionState(ctx, next); err != nil {
			return err
		}
		return a.emit(ctx, tx, events.TypeAuctionExtended, events.AuctionExtendedPayload{
			ItemID:      state.CurrentItem.ID.String(),
			AddedSec:    seconds,
			DurationSec: next.DurationSec,
			ExtendedAt:  now,
		})
	})
	if err != nil {
		return nil, a.translate(err)
	}

	log.Info().Int("added_sec", seconds).Int("duration_sec", next.DurationSec).Msg("auction extended")
	return &next, nil
}

// EndAuction settles the live auction: the item goes to the leading bidder
// (debiting the purse and growing the roster) or back to the pool when no
// bids were placed, and the state resets to idle — all in one transaction.
// If no auction is live the call is a no-op, not an error, so racing clients
// that both observe the countdown hit zero settle exactly once.
func (a *App) EndAuction(ctx context.Context) (*Settlement, error) {
	var settlement *Settlement
	err := a.db.Atomic(ctx, func(tx store.Tx) error {
		settlement = nil
		state, err := tx.AuctionState(ctx)
		if err != nil {
			return err
		}
		if state.CurrentItem == nil {
			// Already settled by a concurrent caller.
			return nil
		}
		item := *state.CurrentItem

		// Read phase: everything the write phase touches.
		var team *models.Team
		if state.HighestBidderUserID != nil && state.HighestBidderTeamID != nil {
			team, err = tx.Team(ctx, *state.HighestBidderTeamID)
			if err != nil {
				return err
			}
		}
		if _, err := tx.Actress(ctx, item.ID); err != nil {
			return err
		}

		now := a.clock.Now()
		payload := events.AuctionSettledPayload{
			ItemID:    item.ID.String(),
			ItemName:  item.Name,
			SettledAt: now,
		}

		if team != nil {
			if err := tx.SettleActress(ctx, item.ID, team.ID, state.HighestBid, now); err != nil {
				return err
			}
			if err := tx.DebitTeam(ctx, team.ID, state.HighestBid); err != nil {
				return err
			}
			if err := tx.IncrementRoster(ctx, team.ID); err != nil {
				return err
			}
			teamID := team.ID.String()
			payload.Sold = true
			payload.TeamID = &teamID
			payload.TeamName = &team.Name
			payload.Price = state.HighestBid
			settlement = &Settlement{Item: item, Sold: true, TeamID: &team.ID, Price: state.HighestBid}
		} else {
			if err := tx.RevertActress(ctx, item.ID); err != nil {
				return err
			}
			settlement = &Settlement{Item: item, Sold: false}
		}

		idle := models.IdleAuctionState()
		idle.UpdatedAt = now
		if err := tx.PutAuctionState(ctx, idle); err != nil {
			return err
		}
		return a.emit(ctx, tx, events.TypeAuctionSettled, payload)
	})
	if err != nil {
		return nil, a.translate(err)
	}

	if settlement == nil {
		return nil, nil
	}
	evt := log.Info().Str("item", settlement.Item.Name).Bool("sold", settlement.Sold)
	if settlement.Sold {
		evt = evt.Str("team_id", settlement.TeamID.String()).Int64("price", settlement.Price)
	}
	evt.Msg("auction settled")
	return settlement, nil
}

// CancelBid is the admin override that reverts the current leader to the
// next most recent ledger entry, or back to the item base price when the
// cancelled bid was the only one. The ledger itself is never rewritten.
func (a *App) CancelBid(ctx context.Context, entryID uuid.UUID) (*models.AuctionState, error) {
	var next models.AuctionState
	err := a.db.Atomic(ctx, func(tx store.Tx) error {
		state, err := tx.AuctionState(ctx)
		if err != nil {
			return err
		}
		if state.CurrentItem == nil {
			return ErrNoActiveAuction
		}

		recent, err := tx.RecentBids(ctx, recentBidWindow)
		if err != nil {
			return err
		}
		found := false
		var prev *models.BidEntry
		for i := range recent {
			if recent[i].ID == entryID {
				found = true
			} else if prev == nil {
				prev = &recent[i]
			}
		}
		if !found {
			return fmt.Errorf("%w: bid entry not in recent history", ErrNotFound)
		}

		now := a.clock.Now()
		next = *state
		next.UpdatedAt = now
		if prev != nil {
			next.HighestBid = prev.Amount
			next.HighestBidderUserID = &prev.UserID
			next.HighestBidderTeamID = &prev.TeamID
			next.HighestBidderName = &prev.BidderName
			if next.BidCount > 0 {
				next.BidCount--
			}
		} else {
			next.HighestBid = state.CurrentItem.BasePrice
			next.HighestBidderUserID = nil
			next.HighestBidderTeamID = nil
			next.HighestBidderName = nil
			next.BidCount = 0
		}

		if err := tx.PutAuctionState(ctx, next); err != nil {
			return err
		}
		return a.emit(ctx, tx, events.TypeBidCancelled, events.BidCancelledPayload{
			CancelledBidID: entryID.String(),
			ItemID:         state.CurrentItem.ID.String(),
			HighestBid:     next.HighestBid,
			LeaderName:     next.HighestBidderName,
			CancelledAt:    now,
		})
	})
	if err != nil {
		return nil, a.translate(err)
	}

	log.Info().Str("bid_id", entryID.String()).Int64("highest_bid", next.HighestBid).Msg("bid cancelled")
	return &next, nil
}

// ReturnToPool reverses an erroneous settlement: the owning team is credited
// the purchase price, its roster shrinks by one, and the actress becomes
// available again.
func (a *App) ReturnToPool(ctx context.Context, actressID uuid.UUID) error {
	err := a.db.Atomic(ctx, func(tx store.Tx) error {
		actress, err := tx.Actress(ctx, actressID)
		if err != nil {
			return err
		}
		if !actress.Sold() {
			return fmt.Errorf("%w: actress has not been sold", ErrInvalidState)
		}
		teamID := *actress.TeamID
		refund := *actress.PurchasePrice
		if _, err := tx.Team(ctx, teamID); err != nil {
			return err
		}

		if err := tx.CreditTeam(ctx, teamID, refund); err != nil {
			return err
		}
		if err := tx.DecrementRoster(ctx, teamID); err != nil {
			return err
		}
		if err := tx.RevertActress(ctx, actressID); err != nil {
			return err
		}
		return a.emit(ctx, tx, events.TypeItemReturned, events.ItemReturnedPayload{
			ItemID:     actressID.String(),
			TeamID:     teamID.String(),
			Refund:     refund,
			ReturnedAt: a.clock.Now(),
		})
	})
	if err != nil {
		return a.translate(err)
	}

	log.Info().Str("actress_id", actressID.String()).Msg("actress returned to pool")
	return nil
}

// emit marshals an event payload and writes it to the outbox inside tx.
func (a *App) emit(ctx context.Context, tx store.Tx, eventType string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}
	return tx.InsertOutbox(ctx, eventType, data)
}

// translate maps store errors onto the engine's error kinds.
func (a *App) translate(err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case errors.Is(err, store.ErrConflict):
		return fmt.Errorf("%w: %v", ErrTransientConflict, err)
	default:
		return err
	}
}
