package main

import (
	"errors"
	"net/http"

	"github.com/AdamBeresnev/swiss-pairings/internal/archive"
	"github.com/AdamBeresnev/swiss-pairings/internal/httputil"
	"github.com/AdamBeresnev/swiss-pairings/internal/live"
	"github.com/AdamBeresnev/swiss-pairings/internal/middleware"
	"github.com/AdamBeresnev/swiss-pairings/internal/pairing"
	"github.com/AdamBeresnev/swiss-pairings/internal/service"
	"github.com/AdamBeresnev/swiss-pairings/internal/store"
	"github.com/AdamBeresnev/swiss-pairings/internal/swiss"
)

// writeError maps domain errors to a status code. Anything unrecognised is a 500.
func writeError(w http.ResponseWriter, msg string, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		httputil.NotFound(w, msg+": not found", err)
	case errors.Is(err, service.ErrInvalidName),
		errors.Is(err, service.ErrMissingPlayer),
		errors.Is(err, service.ErrUnknownPlayer),
		errors.Is(err, service.ErrSamePlayer),
		errors.Is(err, service.ErrInvalidWinner),
		errors.Is(err, service.ErrDuplicatePlayer):
		httputil.BadRequest(w, err.Error(), err)
	case errors.Is(err, service.ErrTournamentClosed),
		errors.Is(err, service.ErrHasMatches),
		errors.Is(err, service.ErrRematch),
		errors.Is(err, service.ErrByeAlreadyAwarded),
		errors.Is(err, pairing.ErrNoPlayers),
		errors.Is(err, pairing.ErrNoEligibleBye),
		errors.Is(err, pairing.ErrNoValidPairing):
		httputil.Conflict(w, err.Error(), err)
	case errors.Is(err, archive.ErrDisabled):
		httputil.ServiceUnavailable(w, err.Error(), err)
	default:
		httputil.InternalServerError(w, msg, err)
	}
}

// tournament is set by middleware.LoadTournament on every /tournaments/{id} route.
func tournament(r *http.Request) *swiss.Tournament {
	t, _ := middleware.GetTournamentFromContext(r.Context())
	return t
}

func (a *api) listTournaments(w http.ResponseWriter, r *http.Request) {
	tournaments, err := a.tournaments.ListTournaments(r.Context())
	if err != nil {
		writeError(w, "Failed to list tournaments", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, tournaments)
}

type createTournamentRequest struct {
	Name    string   `json:"name"`
	Players []string `json:"players"`
}

func (a *api) createTournament(w http.ResponseWriter, r *http.Request) {
	var req createTournamentRequest
	if err := httputil.ReadJSON(w, r, &req); err != nil {
		httputil.BadRequest(w, err.Error(), err)
		return
	}

	id, err := a.tournaments.CreateTournament(r.Context(), req.Name, req.Players)
	if err != nil {
		writeError(w, "Failed to create tournament", err)
		return
	}

	created, err := a.tournaments.GetTournament(r.Context(), id)
	if err != nil {
		writeError(w, "Failed to load tournament", err)
		return
	}
	w.Header().Set("Location", "/tournaments/"+id.String())
	httputil.WriteJSON(w, http.StatusCreated, created)
}

func (a *api) currentTournament(w http.ResponseWriter, r *http.Request) {
	current, err := a.tournaments.CurrentTournament(r.Context())
	if err != nil {
		writeError(w, "Current tournament", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, current)
}

func (a *api) getTournament(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, tournament(r))
}

func (a *api) completeTournament(w http.ResponseWriter, r *http.Request) {
	t := tournament(r)
	if err := a.tournaments.CompleteTournament(r.Context(), t.ID); err != nil {
		writeError(w, "Failed to complete tournament", err)
		return
	}
	t.Status = swiss.TournamentCompleted

	a.hub.Publish(t.ID, live.TournamentCompleted, t)
	httputil.WriteJSON(w, http.StatusOK, t)
}

func (a *api) listPlayers(w http.ResponseWriter, r *http.Request) {
	players, err := a.tournaments.ListPlayers(r.Context(), tournament(r).ID)
	if err != nil {
		writeError(w, "Failed to list players", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, players)
}

// registerPlayersRequest takes a single name or newline separated names.
type registerPlayersRequest struct {
	Name  string `json:"name"`
	Names string `json:"names"`
}

func (a *api) registerPlayers(w http.ResponseWriter, r *http.Request) {
	var req registerPlayersRequest
	if err := httputil.ReadJSON(w, r, &req); err != nil {
		httputil.BadRequest(w, err.Error(), err)
		return
	}

	id := tournament(r).ID
	var (
		players []swiss.Player
		err     error
	)
	if req.Names != "" {
		players, err = a.tournaments.RegisterPlayersText(r.Context(), id, req.Names)
	} else {
		players, err = a.tournaments.RegisterPlayers(r.Context(), id, []string{req.Name})
	}
	if err != nil {
		writeError(w, "Failed to register players", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, players)
}

func (a *api) deletePlayers(w http.ResponseWriter, r *http.Request) {
	deleted, err := a.tournaments.DeletePlayers(r.Context(), tournament(r).ID)
	if err != nil {
		writeError(w, "Failed to delete players", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]int64{"deleted": deleted})
}

func (a *api) countPlayers(w http.ResponseWriter, r *http.Request) {
	count, err := a.tournaments.CountPlayers(r.Context(), tournament(r).ID)
	if err != nil {
		writeError(w, "Failed to count players", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]int{"count": count})
}

func (a *api) standings(w http.ResponseWriter, r *http.Request) {
	rows, err := a.pairings.ComputeStandings(r.Context(), tournament(r).ID)
	if err != nil {
		writeError(w, "Failed to compute standings", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, rows)
}

func (a *api) generatePairings(w http.ResponseWriter, r *http.Request) {
	id := tournament(r).ID
	pairings, err := a.pairings.GeneratePairings(r.Context(), id)
	if err != nil {
		writeError(w, "Failed to generate pairings", err)
		return
	}

	a.hub.Publish(id, live.PairingsGenerated, pairings)
	httputil.WriteJSON(w, http.StatusOK, pairings)
}

func (a *api) listMatches(w http.ResponseWriter, r *http.Request) {
	matches, err := a.tournaments.ListMatches(r.Context(), tournament(r).ID)
	if err != nil {
		writeError(w, "Failed to list matches", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, matches)
}

func (a *api) reportMatch(w http.ResponseWriter, r *http.Request) {
	var report service.MatchReport
	if err := httputil.ReadJSON(w, r, &report); err != nil {
		httputil.BadRequest(w, err.Error(), err)
		return
	}

	id := tournament(r).ID
	match, err := a.pairings.ReportMatch(r.Context(), id, report)
	if err != nil {
		writeError(w, "Failed to report match", err)
		return
	}

	a.hub.Publish(id, live.MatchReported, []swiss.Match{match})
	httputil.WriteJSON(w, http.StatusCreated, match)
}

func (a *api) deleteMatches(w http.ResponseWriter, r *http.Request) {
	deleted, err := a.tournaments.DeleteMatches(r.Context(), tournament(r).ID)
	if err != nil {
		writeError(w, "Failed to delete matches", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]int64{"deleted": deleted})
}

func (a *api) listRounds(w http.ResponseWriter, r *http.Request) {
	rounds, err := a.tournaments.Rounds(r.Context(), tournament(r).ID)
	if err != nil {
		writeError(w, "Failed to list rounds", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, rounds)
}

type reportRoundRequest struct {
	Matches []service.MatchReport `json:"matches"`
}

func (a *api) reportRound(w http.ResponseWriter, r *http.Request) {
	var req reportRoundRequest
	if err := httputil.ReadJSON(w, r, &req); err != nil {
		httputil.BadRequest(w, err.Error(), err)
		return
	}

	id := tournament(r).ID
	matches, err := a.pairings.ReportRound(r.Context(), id, req.Matches)
	if err != nil {
		writeError(w, "Failed to report round", err)
		return
	}

	a.hub.Publish(id, live.MatchReported, matches)
	httputil.WriteJSON(w, http.StatusCreated, matches)
}

func (a *api) archiveStandings(w http.ResponseWriter, r *http.Request) {
	t := tournament(r)

	matches, err := a.tournaments.ListMatches(r.Context(), t.ID)
	if err != nil {
		writeError(w, "Failed to list matches", err)
		return
	}
	rows, err := a.pairings.ComputeStandings(r.Context(), t.ID)
	if err != nil {
		writeError(w, "Failed to compute standings", err)
		return
	}

	key, err := a.exporter.Export(r.Context(), archive.NewSnapshot(*t, matches, rows))
	if err != nil {
		writeError(w, "Failed to archive standings", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, map[string]string{"key": key})
}
