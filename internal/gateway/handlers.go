// Package gateway exposes the HTTP surface: the JSON API the display
// board and admin tools call, the clock control endpoints, and the
// websocket feed pushing live updates to boards.
package gateway

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/mkarpis/railbird/internal/announce"
	"github.com/mkarpis/railbird/internal/apperrors"
	"github.com/mkarpis/railbird/internal/clock"
	"github.com/mkarpis/railbird/internal/events"
	"github.com/mkarpis/railbird/internal/models"
	"github.com/mkarpis/railbird/internal/tournament"
)

// Gateway bundles the collaborators the HTTP handlers drive.
type Gateway struct {
	store     *tournament.App
	announcer *announce.Announcer
	clock     *clock.LevelClock
	publisher events.Publisher
	board     *Board
}

// New creates the gateway.
func New(store *tournament.App, announcer *announce.Announcer, levelClock *clock.LevelClock, publisher events.Publisher, board *Board) *Gateway {
	return &Gateway{
		store:     store,
		announcer: announcer,
		clock:     levelClock,
		publisher: publisher,
		board:     board,
	}
}

// RegisterRoutes attaches all endpoints to the mux.
func (g *Gateway) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/health", g.handleHealth)
	mux.HandleFunc("GET /api/state", g.handleGetState)
	mux.HandleFunc("GET /api/dealers", g.handleListDealers)
	mux.HandleFunc("POST /api/dealers", g.handleAssignDealer)
	mux.HandleFunc("DELETE /api/dealers/{id}", g.handleUnassignDealer)
	mux.HandleFunc("POST /api/rounds", g.handleAnnounceRound)
	// Legacy alias kept for older display board clients.
	mux.HandleFunc("POST /round", g.handleAnnounceRound)
	mux.HandleFunc("POST /api/rebuys", g.handleSubmitRebuy)
	mux.HandleFunc("POST /api/eliminations", g.handleSubmitElimination)

	mux.HandleFunc("GET /api/clock", g.handleGetClock)
	mux.HandleFunc("POST /api/clock/{action}", g.handleClockAction)

	mux.HandleFunc("/ws/board", g.board.HandleWS)
}

func (g *Gateway) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"dealers": len(g.store.Dealers()),
	})
}

func (g *Gateway) handleGetState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, g.store.GetState())
}

func (g *Gateway) handleListDealers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"dealers": g.store.Dealers()})
}

func (g *Gateway) handleAssignDealer(w http.ResponseWriter, r *http.Request) {
	var req tournament.AssignDealerRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if strings.TrimSpace(req.ID) == "" || strings.TrimSpace(req.Table) == "" {
		writeError(w, apperrors.Validationf("both id and table are required to assign a dealer"))
		return
	}

	dealer := g.store.AssignDealer(req)
	writeJSON(w, http.StatusCreated, map[string]any{"dealer": dealer})
}

func (g *Gateway) handleUnassignDealer(w http.ResponseWriter, r *http.Request) {
	removed := g.store.UnassignDealer(r.PathValue("id"))
	if removed == nil {
		writeError(w, apperrors.NotFoundf("dealer not found"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"dealer": removed})
}

func (g *Gateway) handleAnnounceRound(w http.ResponseWriter, r *http.Request) {
	var payload announce.RoundPayload
	if err := decodeBody(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	result, err := g.announcer.AnnounceRound(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (g *Gateway) handleSubmitRebuy(w http.ResponseWriter, r *http.Request) {
	var payload announce.RebuyPayload
	if err := decodeBody(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	result, err := g.announcer.SubmitRebuy(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (g *Gateway) handleSubmitElimination(w http.ResponseWriter, r *http.Request) {
	var payload announce.EliminationPayload
	if err := decodeBody(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	result, err := g.announcer.SubmitElimination(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperrors.Validationf("invalid JSON body: %v", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to write response")
	}
}

// writeError maps the error taxonomy onto status codes. Anything
// outside the taxonomy is an unexpected internal failure.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case apperrors.IsValidation(err):
		status = http.StatusBadRequest
	case apperrors.IsNotFound(err):
		status = http.StatusNotFound
	default:
		log.Error().Err(err).Msg("internal error")
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// clockLevelView pairs the clock state with the level it points at for
// API responses.
type clockLevelView struct {
	Clock models.ClockState `json:"clock"`
	Level *models.Level     `json:"level,omitempty"`
	Next  *models.Level     `json:"next,omitempty"`
}

func (g *Gateway) clockView() clockLevelView {
	return clockLevelView{
		Clock: g.clock.State(),
		Level: g.clock.CurrentLevel(),
		Next:  g.clock.PeekNext(),
	}
}

func (g *Gateway) handleGetClock(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, g.clockView())
}

// handleClockAction executes a clock control operation. Advancing onto
// a level and restarting announce the new level to dealers so the
// operator does not have to post a round update separately.
func (g *Gateway) handleClockAction(w http.ResponseWriter, r *http.Request) {
	action := r.PathValue("action")

	var announced *announce.AnnounceResult
	var announceErr error
	switch action {
	case "start":
		g.clock.Start()
	case "pause":
		g.clock.Pause()
	case "reset":
		g.clock.ResetCurrent()
	case "advance":
		if lvl := g.clock.Advance(); lvl != nil {
			announced, announceErr = g.announcer.AnnounceLevel(r.Context(), *lvl)
		}
	case "retreat":
		g.clock.Retreat()
	case "restart":
		if lvl := g.clock.Restart(); lvl != nil {
			announced, announceErr = g.announcer.AnnounceLevel(r.Context(), *lvl)
		}
	default:
		writeError(w, apperrors.NotFoundf("unknown clock action %q", action))
		return
	}
	if announceErr != nil {
		writeError(w, announceErr)
		return
	}

	state := g.clock.State()
	payload := events.ClockStateChangedPayload{
		Action:            action,
		CurrentLevelIndex: state.CurrentLevelIndex,
		RemainingMs:       state.RemainingMs,
		Running:           state.Running,
		Finished:          state.Finished,
	}
	if err := g.publisher.Publish(r.Context(), events.EventTypeClockStateChanged, payload); err != nil {
		log.Error().Err(err).Str("action", action).Msg("failed to publish clock state change")
	}
	g.board.Broadcast(events.EventTypeClockStateChanged, payload)

	resp := map[string]any{"clock": g.clockView()}
	if announced != nil {
		resp["round"] = announced.Round
		resp["notified"] = announced.Notified
		resp["failures"] = announced.Failures
	}
	writeJSON(w, http.StatusOK, resp)
}
