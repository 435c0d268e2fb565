package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/peterldowns/testy/assert"
	"github.com/peterldowns/testy/check"

	"github.com/Breezy-Bae/ddl.github.io/internal/engine"
	"github.com/Breezy-Bae/ddl.github.io/internal/models"
	"github.com/Breezy-Bae/ddl.github.io/internal/store"
)

type stubEngine struct {
	state      *models.AuctionState
	settlement *engine.Settlement
	err        error

	gotBid *engine.PlaceBidRequest
}

func (s *stubEngine) StartAuction(context.Context, engine.StartAuctionRequest) (*models.AuctionState, error) {
	return s.state, s.err
}

func (s *stubEngine) PlaceBid(_ context.Context, req engine.PlaceBidRequest) (*models.AuctionState, error) {
	s.gotBid = &req
	return s.state, s.err
}

func (s *stubEngine) Pause(context.Context, string) (*models.AuctionState, error) {
	return s.state, s.err
}

func (s *stubEngine) Resume(context.Context) (*models.AuctionState, error) {
	return s.state, s.err
}

func (s *stubEngine) Extend(context.Context, int) (*models.AuctionState, error) {
	return s.state, s.err
}

func (s *stubEngine) EndAuction(context.Context) (*engine.Settlement, error) {
	return s.settlement, s.err
}

func (s *stubEngine) CancelBid(context.Context, uuid.UUID) (*models.AuctionState, error) {
	return s.state, s.err
}

func (s *stubEngine) ReturnToPool(context.Context, uuid.UUID) error {
	return s.err
}

type stubReader struct {
	state *models.AuctionState
	bids  []models.BidEntry
	teams []models.Team
}

func (s *stubReader) CurrentState(context.Context) (*models.AuctionState, error) {
	return s.state, nil
}

func (s *stubReader) RecentBids(context.Context, int) ([]models.BidEntry, error) {
	return s.bids, nil
}

func (s *stubReader) ListTeams(context.Context) ([]models.Team, error) {
	return s.teams, nil
}

func (s *stubReader) ActressByID(context.Context, uuid.UUID) (*models.Actress, error) {
	return nil, store.ErrNotFound
}

func runningState(start time.Time) *models.AuctionState {
	return &models.AuctionState{
		Phase: models.AuctionPhaseRunning,
		CurrentItem: &models.ItemRef{
			ID:        uuid.New(),
			Name:      "Deepika",
			Category:  models.CategoryBlockbusterQueens,
			BasePrice: models.MinBasePrice,
		},
		HighestBid:  models.MinBasePrice,
		DurationSec: 30,
		StartTime:   start,
	}
}

func newTestHandler(eng Engine, reader Reader, now time.Time) *Handler {
	h := NewHandler(eng, reader)
	h.clock = func() time.Time { return now }
	return h
}

func TestGetAuction_ComputesRemaining(t *testing.T) {
	now := time.Date(2025, 6, 1, 18, 0, 12, 0, time.UTC)
	state := runningState(now.Add(-12 * time.Second))
	h := newTestHandler(&stubEngine{}, &stubReader{state: state}, now)

	rec := httptest.NewRecorder()
	h.SetupRoutes().ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/auction", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Phase        string `json:"phase"`
		RemainingSec int    `json:"remaining_sec"`
	}
	assert.Nil(t, json.Unmarshal(rec.Body.Bytes(), &body))
	check.Equal(t, "RUNNING", body.Phase)
	check.Equal(t, 18, body.RemainingSec)
}

func TestGetAuction_PausedUsesFrozenRemaining(t *testing.T) {
	now := time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)
	state := runningState(now.Add(-time.Hour))
	frozen := 21
	state.Phase = models.AuctionPhasePaused
	state.PausedRemainingSec = &frozen
	h := newTestHandler(&stubEngine{}, &stubReader{state: state}, now)

	rec := httptest.NewRecorder()
	h.SetupRoutes().ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/auction", nil))

	var body struct {
		RemainingSec int `json:"remaining_sec"`
	}
	assert.Nil(t, json.Unmarshal(rec.Body.Bytes(), &body))
	check.Equal(t, 21, body.RemainingSec)
}

func TestPlaceBid_Success(t *testing.T) {
	now := time.Now()
	eng := &stubEngine{state: runningState(now)}
	h := newTestHandler(eng, &stubReader{}, now)

	body := `{"amount":150000,"user_id":"` + uuid.NewString() + `","team_id":"` + uuid.NewString() + `","team_name":"Mumbai Stars","bidder_name":"Aanya"}`
	rec := httptest.NewRecorder()
	h.SetupRoutes().ServeHTTP(rec, httptest.NewRequest("POST", "/api/v1/auction/bid", strings.NewReader(body)))

	check.Equal(t, http.StatusCreated, rec.Code)
	assert.NotNil(t, eng.gotBid)
	check.Equal(t, int64(150000), eng.gotBid.Amount)
	check.Equal(t, "Mumbai Stars", eng.gotBid.TeamName)
}

func TestPlaceBid_Validation(t *testing.T) {
	h := newTestHandler(&stubEngine{}, &stubReader{}, time.Now())
	router := h.SetupRoutes()

	for name, body := range map[string]string{
		"bad json":        `{`,
		"zero amount":     `{"amount":0,"user_id":"` + uuid.NewString() + `","team_id":"` + uuid.NewString() + `"}`,
		"missing team id": `{"amount":150000,"user_id":"` + uuid.NewString() + `"}`,
	} {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest("POST", "/api/v1/auction/bid", strings.NewReader(body)))
			check.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestEngineErrorMapping(t *testing.T) {
	now := time.Now()
	tests := []struct {
		err    error
		status int
		kind   string
	}{
		{engine.ErrNotFound, http.StatusNotFound, "not_found"},
		{engine.ErrInvalidState, http.StatusConflict, "invalid_state"},
		{engine.ErrNoActiveAuction, http.StatusConflict, "invalid_state"},
		{engine.ErrAuctionNotActive, http.StatusConflict, "invalid_state"},
		{engine.ErrBidTooLow, http.StatusUnprocessableEntity, "bid_rejected"},
		{engine.ErrInsufficientBudget, http.StatusUnprocessableEntity, "bid_rejected"},
		{engine.ErrRosterFull, http.StatusUnprocessableEntity, "bid_rejected"},
		{engine.ErrCategoryQuotaExceeded, http.StatusUnprocessableEntity, "bid_rejected"},
		{engine.ErrTransientConflict, http.StatusServiceUnavailable, "conflict_retry"},
	}

	for _, tc := range tests {
		h := newTestHandler(&stubEngine{err: tc.err}, &stubReader{}, now)
		body := `{"amount":150000,"user_id":"` + uuid.NewString() + `","team_id":"` + uuid.NewString() + `"}`
		rec := httptest.NewRecorder()
		h.SetupRoutes().ServeHTTP(rec, httptest.NewRequest("POST", "/api/v1/auction/bid", strings.NewReader(body)))

		check.Equal(t, tc.status, rec.Code)
		var resp map[string]string
		assert.Nil(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		check.Equal(t, tc.kind, resp["kind"])
	}
}

func TestEndAuction_NoLiveAuction(t *testing.T) {
	h := newTestHandler(&stubEngine{}, &stubReader{}, time.Now())

	rec := httptest.NewRecorder()
	h.SetupRoutes().ServeHTTP(rec, httptest.NewRequest("POST", "/api/v1/auction/end", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]bool
	assert.Nil(t, json.Unmarshal(rec.Body.Bytes(), &body))
	check.Equal(t, false, body["settled"])
}

func TestCancelBid_InvalidID(t *testing.T) {
	h := newTestHandler(&stubEngine{}, &stubReader{}, time.Now())

	rec := httptest.NewRecorder()
	h.SetupRoutes().ServeHTTP(rec, httptest.NewRequest("POST", "/api/v1/auction/bids/not-a-uuid/cancel", nil))

	check.Equal(t, http.StatusBadRequest, rec.Code)
}
