package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/AdamBeresnev/swiss-pairings/internal/swiss"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var ErrNotFound = errors.New("not found")

type TournamentStore struct {
	db *sqlx.DB
}

func NewTournamentStore(db *sqlx.DB) *TournamentStore {
	return &TournamentStore{db: db}
}

func notFound(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return err
}

func (s *TournamentStore) CreateTournament(ctx context.Context, tx *sqlx.Tx, tournament *swiss.Tournament) error {
	if tournament.CreatedAt.IsZero() {
		tournament.CreatedAt = time.Now().UTC()
	}
	_, err := tx.NamedExecContext(ctx, `INSERT INTO tournaments (id, name, status, created_at)
        VALUES (:id, :name, :status, :created_at)`, tournament)
	return err
}

func (s *TournamentStore) GetTournament(ctx context.Context, id uuid.UUID) (*swiss.Tournament, error) {
	var tournament swiss.Tournament
	err := s.db.GetContext(ctx, &tournament, s.db.Rebind("SELECT * FROM tournaments WHERE id = ?"), id)
	if err != nil {
		return nil, notFound(err, "tournament "+id.String())
	}
	return &tournament, nil
}

func (s *TournamentStore) GetLatestTournament(ctx context.Context) (*swiss.Tournament, error) {
	var tournament swiss.Tournament
	err := s.db.GetContext(ctx, &tournament, "SELECT * FROM tournaments ORDER BY created_at DESC, id DESC LIMIT 1")
	if err != nil {
		return nil, notFound(err, "latest tournament")
	}
	return &tournament, nil
}

func (s *TournamentStore) ListTournaments(ctx context.Context) ([]swiss.Tournament, error) {
	var tournaments []swiss.Tournament
	err := s.db.SelectContext(ctx, &tournaments, "SELECT * FROM tournaments ORDER BY created_at DESC")
	return tournaments, err
}

func (s *TournamentStore) UpdateTournamentStatus(ctx context.Context, id uuid.UUID, status swiss.TournamentStatus) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind("UPDATE tournaments SET status = ? WHERE id = ?"), status, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("tournament %s: %w", id, ErrNotFound)
	}
	return nil
}

// CreatePlayer fills in the store assigned id.
func (s *TournamentStore) CreatePlayer(ctx context.Context, tx *sqlx.Tx, player *swiss.Player) error {
	if player.CreatedAt.IsZero() {
		player.CreatedAt = time.Now().UTC()
	}
	return tx.QueryRowxContext(ctx,
		tx.Rebind("INSERT INTO players (tournament_id, name, created_at) VALUES (?, ?, ?) RETURNING id"),
		player.TournamentID, player.Name, player.CreatedAt,
	).Scan(&player.ID)
}

func (s *TournamentStore) ListPlayers(ctx context.Context, tournamentID uuid.UUID) ([]swiss.Player, error) {
	players := []swiss.Player{}
	err := s.db.SelectContext(ctx, &players,
		s.db.Rebind("SELECT * FROM players WHERE tournament_id = ? ORDER BY id ASC"), tournamentID)
	return players, err
}

func (s *TournamentStore) CountPlayers(ctx context.Context, tournamentID uuid.UUID) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count,
		s.db.Rebind("SELECT count(id) FROM players WHERE tournament_id = ?"), tournamentID)
	return count, err
}

// DeletePlayers fails while the tournament still has matches referencing its players.
func (s *TournamentStore) DeletePlayers(ctx context.Context, tournamentID uuid.UUID) (int64, error) {
	res, err := s.db.ExecContext(ctx, s.db.Rebind("DELETE FROM players WHERE tournament_id = ?"), tournamentID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// CountAllPlayers counts registrations across every tournament.
func (s *TournamentStore) CountAllPlayers(ctx context.Context) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count, "SELECT count(id) FROM players")
	return count, err
}

func (s *TournamentStore) DeleteAllMatches(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM matches")
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DeleteAllPlayers fails while any match is still recorded.
func (s *TournamentStore) DeleteAllPlayers(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM players")
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Reset empties every table, leaving the schema in place.
func (s *TournamentStore) Reset(ctx context.Context) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"matches", "players", "tournaments"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return tx.Commit()
}
