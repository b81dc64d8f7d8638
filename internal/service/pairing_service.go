package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/AdamBeresnev/swiss-pairings/internal/pairing"
	"github.com/AdamBeresnev/swiss-pairings/internal/swiss"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type PairingService struct {
	store       ResultsStore
	tournaments TournamentFinder
	logger      *slog.Logger
}

func NewPairingService(store ResultsStore, tournaments TournamentFinder, logger *slog.Logger) *PairingService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PairingService{store: store, tournaments: tournaments, logger: logger}
}

// MatchReport is a reported result. A missing PlayerTwo is a bye for PlayerOne and a
// missing Winner on a played match is a draw. A report with only PlayerTwo is a bye for PlayerTwo.
type MatchReport struct {
	PlayerOne *int64 `json:"player_one_id"`
	PlayerTwo *int64 `json:"player_two_id"`
	Winner    *int64 `json:"winner_id"`
}

// history is everything recorded for one tournament at the time of the call.
type history struct {
	players []swiss.Player
	matches []swiss.Match
}

func (s *PairingService) load(ctx context.Context, tournamentID uuid.UUID) (*history, error) {
	h := &history{}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		players, err := s.store.ListPlayers(gCtx, tournamentID)
		if err != nil {
			return fmt.Errorf("failed to list players: %w", err)
		}
		h.players = players
		return nil
	})
	g.Go(func() error {
		matches, err := s.store.ListMatches(gCtx, tournamentID)
		if err != nil {
			return fmt.Errorf("failed to list matches: %w", err)
		}
		h.matches = matches
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return h, nil
}

func (s *PairingService) ComputeStandings(ctx context.Context, tournamentID uuid.UUID) ([]swiss.StandingsRow, error) {
	h, err := s.load(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	return pairing.ComputeStandings(h.players, h.matches), nil
}

// GeneratePairings proposes the next round. Nothing is written: a pairing only becomes
// a match once its result is reported.
func (s *PairingService) GeneratePairings(ctx context.Context, tournamentID uuid.UUID) ([]swiss.Pairing, error) {
	h, err := s.load(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	standings := pairing.ComputeStandings(h.players, h.matches)
	pairings, err := pairing.Pair(standings, h.matches)
	if err != nil {
		s.logger.WarnContext(ctx, "pairing failed",
			slog.String("tournament_id", tournamentID.String()),
			slog.Int("players", len(standings)),
			slog.Int("matches", len(h.matches)),
			slog.Any("error", err))
		return nil, fmt.Errorf("failed to pair tournament %s: %w", tournamentID, err)
	}

	s.logger.InfoContext(ctx, "pairings generated",
		slog.String("tournament_id", tournamentID.String()),
		slog.Int("players", len(standings)),
		slog.Int("pairings", len(pairings)))
	return pairings, nil
}

func (s *PairingService) ensureOpen(ctx context.Context, tournamentID uuid.UUID) error {
	if s.tournaments == nil {
		return nil
	}
	tournament, err := s.tournaments.GetTournament(ctx, tournamentID)
	if err != nil {
		return err
	}
	if tournament.IsCompleted() {
		return ErrTournamentClosed
	}
	return nil
}

func (s *PairingService) ReportMatch(ctx context.Context, tournamentID uuid.UUID, report MatchReport) (swiss.Match, error) {
	matches, err := s.ReportRound(ctx, tournamentID, []MatchReport{report})
	if err != nil {
		return swiss.Match{}, err
	}
	return matches[0], nil
}

// ReportRound validates every report against the history and against each other, then
// records them. Stores implementing RoundRecorder record the round atomically.
func (s *PairingService) ReportRound(ctx context.Context, tournamentID uuid.UUID, reports []MatchReport) ([]swiss.Match, error) {
	if len(reports) == 0 {
		return nil, ErrMissingPlayer
	}
	if err := s.ensureOpen(ctx, tournamentID); err != nil {
		return nil, err
	}

	h, err := s.load(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	v := newValidator(tournamentID, h)
	matches := make([]swiss.Match, 0, len(reports))
	for i, report := range reports {
		m, err := v.accept(report)
		if err != nil {
			return nil, fmt.Errorf("report %d: %w", i+1, err)
		}
		matches = append(matches, m)
	}

	if recorder, ok := s.store.(RoundRecorder); ok && len(matches) > 1 {
		err = recorder.RecordMatches(ctx, matches)
	} else {
		for _, m := range matches {
			if err = s.store.RecordMatch(ctx, m); err != nil {
				break
			}
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to record matches: %w", err)
	}

	for _, m := range matches {
		s.logger.InfoContext(ctx, "match reported",
			slog.String("tournament_id", tournamentID.String()),
			slog.String("match_id", m.ID.String()),
			slog.Int("round", m.RoundNumber),
			slog.String("kind", string(m.Kind)),
			slog.String("result", string(m.Result)))
	}
	return matches, nil
}
