package engine

import "errors"

// Error kinds surfaced by engine operations. Every rejection is detected
// before any write commits, so a returned error always means the persisted
// state is unchanged.
var (
	// ErrNotFound means the referenced item, team, or bid does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidState means the operation is illegal in the current phase,
	// e.g. pausing while already paused or starting over a live auction.
	ErrInvalidState = errors.New("operation not valid in current auction state")
	// ErrNoActiveAuction means no item is under the hammer at all.
	ErrNoActiveAuction = errors.New("no active auction")
	// ErrAuctionNotActive means the auction exists but the countdown is not
	// running (paused or settling).
	ErrAuctionNotActive = errors.New("auction is not active")
	// ErrBidTooLow rejects bids that do not strictly exceed the highest bid.
	ErrBidTooLow = errors.New("bid must be higher than current highest bid")
	ErrInsufficientBudget = errors.New("insufficient budget for this bid")
	ErrRosterFull         = errors.New("team roster is full")
	// ErrCategoryQuotaExceeded means the team already holds the category cap.
	ErrCategoryQuotaExceeded = errors.New("category quota reached for this team")
	// ErrTransientConflict means the store exhausted its conflict retries;
	// the caller may retry the whole operation.
	ErrTransientConflict = errors.New("transient write conflict, retry the operation")
)
