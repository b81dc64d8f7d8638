package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/AdamBeresnev/swiss-pairings/internal/httputil"
	"github.com/AdamBeresnev/swiss-pairings/internal/store"
	"github.com/AdamBeresnev/swiss-pairings/internal/swiss"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type ContextKey string

const TournamentKey ContextKey = "tournament"

type TournamentFinder interface {
	GetTournament(ctx context.Context, id uuid.UUID) (*swiss.Tournament, error)
}

// LoadTournament resolves the {id} URL parameter and puts the tournament in the request context.
func LoadTournament(finder TournamentFinder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := uuid.Parse(chi.URLParam(r, "id"))
			if err != nil {
				httputil.BadRequest(w, "Invalid tournament ID", err)
				return
			}

			tournament, err := finder.GetTournament(r.Context(), id)
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					httputil.NotFound(w, "Tournament not found", err)
					return
				}
				httputil.InternalServerError(w, "Failed to load tournament", err)
				return
			}

			ctx := context.WithValue(r.Context(), TournamentKey, tournament)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetTournamentFromContext(ctx context.Context) (*swiss.Tournament, bool) {
	val := ctx.Value(TournamentKey)
	if val == nil {
		return nil, false
	}

	tournament, ok := val.(*swiss.Tournament)
	return tournament, ok
}
