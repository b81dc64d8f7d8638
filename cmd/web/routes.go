package main

import (
	"net/http"

	"github.com/AdamBeresnev/swiss-pairings/internal/archive"
	"github.com/AdamBeresnev/swiss-pairings/internal/live"
	"github.com/AdamBeresnev/swiss-pairings/internal/middleware"
	"github.com/AdamBeresnev/swiss-pairings/internal/service"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type api struct {
	tournaments *service.TournamentService
	pairings    *service.PairingService
	hub         *live.Hub
	exporter    archive.Exporter
}

func newRouter(a *api, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	loadTournament := middleware.LoadTournament(a.tournaments)

	r.Route("/tournaments", func(r chi.Router) {
		r.Get("/", a.listTournaments)
		r.Post("/", a.createTournament)
		r.Get("/current", a.currentTournament)

		r.Route("/{id}", func(r chi.Router) {
			r.Use(loadTournament)

			r.Get("/", a.getTournament)
			r.Post("/complete", a.completeTournament)

			r.Get("/players", a.listPlayers)
			r.Post("/players", a.registerPlayers)
			r.Delete("/players", a.deletePlayers)
			r.Get("/players/count", a.countPlayers)

			r.Get("/standings", a.standings)
			r.Post("/pairings", a.generatePairings)

			r.Get("/matches", a.listMatches)
			r.Post("/matches", a.reportMatch)
			r.Delete("/matches", a.deleteMatches)

			r.Get("/rounds", a.listRounds)
			r.Post("/rounds", a.reportRound)

			r.Post("/archive", a.archiveStandings)
		})
	})

	r.With(loadTournament).Get("/ws/tournaments/{id}", a.hub.ServeWS)

	return r
}
