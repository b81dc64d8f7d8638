package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/AdamBeresnev/swiss-pairings/internal/store"
	"github.com/AdamBeresnev/swiss-pairings/internal/swiss"
	"github.com/AdamBeresnev/swiss-pairings/internal/utils"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const maxNameLength = 50

type TournamentService struct {
	db    *sqlx.DB
	store *store.TournamentStore
}

func NewTournamentService(db *sqlx.DB, store *store.TournamentStore) *TournamentService {
	return &TournamentService{db: db, store: store}
}

func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > maxNameLength {
		return "", ErrInvalidName
	}
	return name, nil
}

func (s *TournamentService) CreateTournament(ctx context.Context, name string, playerNames []string) (uuid.UUID, error) {
	name, err := cleanName(name)
	if err != nil {
		return uuid.Nil, err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return uuid.Nil, err
	}
	defer tx.Rollback()

	tournament := swiss.Tournament{
		ID:     uuid.New(),
		Name:   name,
		Status: swiss.TournamentOpen,
	}
	if err := s.store.CreateTournament(ctx, tx, &tournament); err != nil {
		return uuid.Nil, fmt.Errorf("failed to create tournament: %w", err)
	}

	if _, err := s.createPlayers(ctx, tx, tournament.ID, playerNames); err != nil {
		return uuid.Nil, err
	}

	return tournament.ID, tx.Commit()
}

func (s *TournamentService) createPlayers(ctx context.Context, tx *sqlx.Tx, tournamentID uuid.UUID, names []string) ([]swiss.Player, error) {
	players := make([]swiss.Player, 0, len(names))
	for _, raw := range names {
		name, err := cleanName(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", err, raw)
		}
		p := swiss.Player{TournamentID: tournamentID, Name: name}
		if err := s.store.CreatePlayer(ctx, tx, &p); err != nil {
			return nil, fmt.Errorf("failed to register %q: %w", name, err)
		}
		players = append(players, p)
	}
	return players, nil
}

// openTournament fails for unknown or completed tournaments.
func (s *TournamentService) openTournament(ctx context.Context, id uuid.UUID) (*swiss.Tournament, error) {
	tournament, err := s.store.GetTournament(ctx, id)
	if err != nil {
		return nil, err
	}
	if tournament.IsCompleted() {
		return nil, ErrTournamentClosed
	}
	return tournament, nil
}

func (s *TournamentService) RegisterPlayer(ctx context.Context, tournamentID uuid.UUID, name string) (swiss.Player, error) {
	players, err := s.RegisterPlayers(ctx, tournamentID, []string{name})
	if err != nil {
		return swiss.Player{}, err
	}
	return players[0], nil
}

// RegisterPlayers adds every name in one transaction.
func (s *TournamentService) RegisterPlayers(ctx context.Context, tournamentID uuid.UUID, names []string) ([]swiss.Player, error) {
	if _, err := s.openTournament(ctx, tournamentID); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	players, err := s.createPlayers(ctx, tx, tournamentID, names)
	if err != nil {
		return nil, err
	}
	return players, tx.Commit()
}

// RegisterPlayersText registers one player per non-blank line.
func (s *TournamentService) RegisterPlayersText(ctx context.Context, tournamentID uuid.UUID, text string) ([]swiss.Player, error) {
	names := utils.NonEmptyLines(text)
	if len(names) == 0 {
		return nil, ErrInvalidName
	}
	return s.RegisterPlayers(ctx, tournamentID, names)
}

func (s *TournamentService) CountPlayers(ctx context.Context, tournamentID uuid.UUID) (int, error) {
	return s.store.CountPlayers(ctx, tournamentID)
}

func (s *TournamentService) ListPlayers(ctx context.Context, tournamentID uuid.UUID) ([]swiss.Player, error) {
	return s.store.ListPlayers(ctx, tournamentID)
}

func (s *TournamentService) GetTournament(ctx context.Context, id uuid.UUID) (*swiss.Tournament, error) {
	return s.store.GetTournament(ctx, id)
}

func (s *TournamentService) ListTournaments(ctx context.Context) ([]swiss.Tournament, error) {
	return s.store.ListTournaments(ctx)
}

// CurrentTournament is the most recently created tournament.
func (s *TournamentService) CurrentTournament(ctx context.Context) (*swiss.Tournament, error) {
	return s.store.GetLatestTournament(ctx)
}

func (s *TournamentService) DeleteMatches(ctx context.Context, tournamentID uuid.UUID) (int64, error) {
	if _, err := s.openTournament(ctx, tournamentID); err != nil {
		return 0, err
	}
	return s.store.DeleteMatches(ctx, tournamentID)
}

// DeletePlayers only succeeds once the tournament's matches are gone.
func (s *TournamentService) DeletePlayers(ctx context.Context, tournamentID uuid.UUID) (int64, error) {
	if _, err := s.openTournament(ctx, tournamentID); err != nil {
		return 0, err
	}
	matches, err := s.store.ListMatches(ctx, tournamentID)
	if err != nil {
		return 0, err
	}
	if len(matches) > 0 {
		return 0, ErrHasMatches
	}
	return s.store.DeletePlayers(ctx, tournamentID)
}

// CountAllPlayers counts registrations across every tournament.
func (s *TournamentService) CountAllPlayers(ctx context.Context) (int, error) {
	return s.store.CountAllPlayers(ctx)
}

// Reset deletes every tournament with its players and matches.
func (s *TournamentService) Reset(ctx context.Context) error {
	return s.store.Reset(ctx)
}

func (s *TournamentService) CompleteTournament(ctx context.Context, tournamentID uuid.UUID) error {
	return s.store.UpdateTournamentStatus(ctx, tournamentID, swiss.TournamentCompleted)
}

func (s *TournamentService) ListMatches(ctx context.Context, tournamentID uuid.UUID) ([]swiss.Match, error) {
	return s.store.ListMatches(ctx, tournamentID)
}

func (s *TournamentService) Rounds(ctx context.Context, tournamentID uuid.UUID) ([]Round, error) {
	matches, err := s.store.ListMatches(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	return GroupByRound(matches), nil
}
