package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/Breezy-Bae/ddl.github.io/internal/engine"
	"github.com/Breezy-Bae/ddl.github.io/internal/models"
	"github.com/Breezy-Bae/ddl.github.io/internal/store"
)

// Engine is the auction operation surface the handlers need.
type Engine interface {
	StartAuction(ctx context.Context, req engine.StartAuctionRequest) (*models.AuctionState, error)
	PlaceBid(ctx context.Context, req engine.PlaceBidRequest) (*models.AuctionState, error)
	Pause(ctx context.Context, actorName string) (*models.AuctionState, error)
	Resume(ctx context.Context) (*models.AuctionState, error)
	Extend(ctx context.Context, seconds int) (*models.AuctionState, error)
	EndAuction(ctx context.Context) (*engine.Settlement, error)
	CancelBid(ctx context.Context, entryID uuid.UUID) (*models.AuctionState, error)
	ReturnToPool(ctx context.Context, actressID uuid.UUID) error
}

// Reader is the query surface backed directly by the store.
type Reader interface {
	CurrentState(ctx context.Context) (*models.AuctionState, error)
	RecentBids(ctx context.Context, limit int) ([]models.BidEntry, error)
	ListTeams(ctx context.Context) ([]models.Team, error)
	ActressByID(ctx context.Context, id uuid.UUID) (*models.Actress, error)
}

// Handler contains the HTTP request handlers for the auction API.
type Handler struct {
	engine Engine
	reader Reader
	clock  func() time.Time
}

// NewHandler creates a new HTTP handler.
func NewHandler(eng Engine, reader Reader) *Handler {
	return &Handler{
		engine: eng,
		reader: reader,
		clock:  time.Now,
	}
}

// SetupRoutes configures all HTTP routes.
func (h *Handler) SetupRoutes() *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/health", h.HealthCheck).Methods("GET")

	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/auction", h.GetAuction).Methods("GET")
	api.HandleFunc("/auction/start", h.StartAuction).Methods("POST")
	api.HandleFunc("/auction/bid", h.PlaceBid).Methods("POST")
	api.HandleFunc("/auction/pause", h.PauseAuction).Methods("POST")
	api.HandleFunc("/auction/resume", h.ResumeAuction).Methods("POST")
	api.HandleFunc("/auction/extend", h.ExtendAuction).Methods("POST")
	api.HandleFunc("/auction/end", h.EndAuction).Methods("POST")
	api.HandleFunc("/auction/bids", h.RecentBids).Methods("GET")
	api.HandleFunc("/auction/bids/{id}/cancel", h.CancelBid).Methods("POST")
	api.HandleFunc("/actresses/{id}", h.GetActress).Methods("GET")
	api.HandleFunc("/actresses/{id}/return", h.ReturnToPool).Methods("POST")
	api.HandleFunc("/teams", h.ListTeams).Methods("GET")

	router.Use(loggingMiddleware)

	return router
}

// HealthCheck returns service health status.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "auction-api",
		"time":    h.clock().UTC().Format(time.RFC3339),
	})
}

// auctionView is the auction state with the countdown computed server-side,
// so clients render the same remaining time regardless of their local clock.
type auctionView struct {
	models.AuctionState
	RemainingSec int `json:"remaining_sec"`
}

func (h *Handler) view(state *models.AuctionState) auctionView {
	v := auctionView{AuctionState: *state}
	switch {
	case state.PausedRemainingSec != nil:
		v.RemainingSec = *state.PausedRemainingSec
	case state.IsActive():
		v.RemainingSec = engine.Remaining(h.clock(), state.StartTime, state.DurationSec)
	}
	return v
}

// GetAuction returns the current auction state.
func (h *Handler) GetAuction(w http.ResponseWriter, r *http.Request) {
	state, err := h.reader.CurrentState(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load auction state")
		return
	}
	respondJSON(w, http.StatusOK, h.view(state))
}

// StartAuction puts an actress under the hammer.
func (h *Handler) StartAuction(w http.ResponseWriter, r *http.Request) {
	var req engine.StartAuctionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ActressID == uuid.Nil {
		respondError(w, http.StatusBadRequest, "actress_id is required")
		return
	}

	state, err := h.engine.StartAuction(r.Context(), req)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, h.view(state))
}

// PlaceBid handles bid placement requests.
func (h *Handler) PlaceBid(w http.ResponseWriter, r *http.Request) {
	var req engine.PlaceBidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Amount <= 0 {
		respondError(w, http.StatusBadRequest, "bid amount must be positive")
		return
	}
	if req.UserID == uuid.Nil || req.TeamID == uuid.Nil {
		respondError(w, http.StatusBadRequest, "user_id and team_id are required")
		return
	}

	state, err := h.engine.PlaceBid(r.Context(), req)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, h.view(state))
}

type pauseRequest struct {
	PausedBy string `json:"paused_by"`
}

// PauseAuction freezes the countdown.
func (h *Handler) PauseAuction(w http.ResponseWriter, r *http.Request) {
	var req pauseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.PausedBy == "" {
		req.PausedBy = "admin"
	}

	state, err := h.engine.Pause(r.Context(), req.PausedBy)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, h.view(state))
}

// ResumeAuction restarts a paused countdown.
func (h *Handler) ResumeAuction(w http.ResponseWriter, r *http.Request) {
	state, err := h.engine.Resume(r.Context())
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, h.view(state))
}

type extendRequest struct {
	Seconds int `json:"seconds"`
}

// ExtendAuction adds time to the running countdown.
func (h *Handler) ExtendAuction(w http.ResponseWriter, r *http.Request) {
	var req extendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Seconds <= 0 {
		respondError(w, http.StatusBadRequest, "seconds must be positive")
		return
	}

	state, err := h.engine.Extend(r.Context(), req.Seconds)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, h.view(state))
}

// EndAuction settles the live auction. Ending when nothing is live succeeds
// with settled=false so racing countdown observers are harmless.
func (h *Handler) EndAuction(w http.ResponseWriter, r *http.Request) {
	settlement, err := h.engine.EndAuction(r.Context())
	if err != nil {
		respondEngineError(w, err)
		return
	}
	if settlement == nil {
		respondJSON(w, http.StatusOK, map[string]bool{"settled": false})
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"settled":    true,
		"settlement": settlement,
	})
}

// RecentBids returns the most recent ledger entries, newest first.
func (h *Handler) RecentBids(w http.ResponseWriter, r *http.Request) {
	limit := 10
	bids, err := h.reader.RecentBids(r.Context(), limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load bid history")
		return
	}
	respondJSON(w, http.StatusOK, bids)
}

// CancelBid is the admin override for a mistaken bid.
func (h *Handler) CancelBid(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid bid id")
		return
	}

	state, err := h.engine.CancelBid(r.Context(), id)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, h.view(state))
}

// GetActress returns one actress with its current sale status.
func (h *Handler) GetActress(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid actress id")
		return
	}

	actress, err := h.reader.ActressByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "actress not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to load actress")
		return
	}
	respondJSON(w, http.StatusOK, actress)
}

// ReturnToPool reverses an erroneous sale.
func (h *Handler) ReturnToPool(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid actress id")
		return
	}

	if err := h.engine.ReturnToPool(r.Context(), id); err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"returned": true})
}

// ListTeams returns all teams with their purse and roster counts.
func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.reader.ListTeams(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load teams")
		return
	}
	respondJSON(w, http.StatusOK, teams)
}

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, statusCode int, message string) {
	respondJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

// respondEngineError maps engine error kinds onto HTTP statuses. Bid
// rejections are 422 so clients can distinguish them from state conflicts.
func respondEngineError(w http.ResponseWriter, err error) {
	var status int
	var kind string
	switch {
	case errors.Is(err, engine.ErrNotFound):
		status, kind = http.StatusNotFound, "not_found"
	case errors.Is(err, engine.ErrInvalidState),
		errors.Is(err, engine.ErrNoActiveAuction),
		errors.Is(err, engine.ErrAuctionNotActive):
		status, kind = http.StatusConflict, "invalid_state"
	case errors.Is(err, engine.ErrBidTooLow),
		errors.Is(err, engine.ErrInsufficientBudget),
		errors.Is(err, engine.ErrRosterFull),
		errors.Is(err, engine.ErrCategoryQuotaExceeded):
		status, kind = http.StatusUnprocessableEntity, "bid_rejected"
	case errors.Is(err, engine.ErrTransientConflict):
		status, kind = http.StatusServiceUnavailable, "conflict_retry"
	default:
		status, kind = http.StatusInternalServerError, "internal"
	}

	respondJSON(w, status, map[string]string{
		"error": err.Error(),
		"kind":  kind,
	})
}

// loggingMiddleware logs all HTTP requests.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}
