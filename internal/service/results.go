package service

import (
	"context"

	"github.com/AdamBeresnev/swiss-pairings/internal/swiss"
	"github.com/google/uuid"
)

// ResultsStore is everything pairing needs from persistence.
type ResultsStore interface {
	ListPlayers(ctx context.Context, tournamentID uuid.UUID) ([]swiss.Player, error)
	ListMatches(ctx context.Context, tournamentID uuid.UUID) ([]swiss.Match, error)
	CountPlayers(ctx context.Context, tournamentID uuid.UUID) (int, error)
	RecordMatch(ctx context.Context, match swiss.Match) error
}

// RoundRecorder is implemented by stores that can record several matches atomically.
type RoundRecorder interface {
	RecordMatches(ctx context.Context, matches []swiss.Match) error
}

type TournamentFinder interface {
	GetTournament(ctx context.Context, id uuid.UUID) (*swiss.Tournament, error)
}
