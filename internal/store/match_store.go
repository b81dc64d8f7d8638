package store

import (
	"context"
	"fmt"
	"time"

	"github.com/AdamBeresnev/swiss-pairings/internal/swiss"
	"github.com/AdamBeresnev/swiss-pairings/internal/utils"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const insertMatchQuery = `
	INSERT INTO matches (id, tournament_id, round_number, player_one_id, player_two_id, winner_id, created_at)
	VALUES (:id, :tournament_id, :round_number, :player_one_id, :player_two_id, :winner_id, :created_at)
`

// matchRow is the stored shape of a match: a NULL player two is a bye and a NULL winner a draw.
type matchRow struct {
	ID           uuid.UUID `db:"id"`
	TournamentID uuid.UUID `db:"tournament_id"`
	RoundNumber  int       `db:"round_number"`
	PlayerOneID  int64     `db:"player_one_id"`
	PlayerTwoID  *int64    `db:"player_two_id"`
	WinnerID     *int64    `db:"winner_id"`
	CreatedAt    time.Time `db:"created_at"`
}

func newMatchRow(m swiss.Match) matchRow {
	row := matchRow{
		ID:           m.ID,
		TournamentID: m.TournamentID,
		RoundNumber:  m.RoundNumber,
		PlayerOneID:  m.PlayerOne,
		CreatedAt:    m.CreatedAt,
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if !m.IsBye() {
		row.PlayerTwoID = utils.Ptr(m.PlayerTwo)
	}
	if winner, ok := m.Winner(); ok {
		row.WinnerID = utils.Ptr(winner)
	}
	return row
}

func (r matchRow) toMatch() (swiss.Match, error) {
	m := swiss.Match{
		ID:           r.ID,
		TournamentID: r.TournamentID,
		RoundNumber:  r.RoundNumber,
		PlayerOne:    r.PlayerOneID,
		CreatedAt:    r.CreatedAt,
	}

	if r.PlayerTwoID == nil {
		if utils.OrZero(r.WinnerID) != r.PlayerOneID {
			return m, fmt.Errorf("match %s: bye winner must be player one", r.ID)
		}
		m.Kind = swiss.ByeMatch
		m.Result = swiss.PlayerOneWon
		return m, nil
	}

	m.Kind = swiss.PlayedMatch
	m.PlayerTwo = *r.PlayerTwoID
	switch {
	case r.WinnerID == nil:
		m.Result = swiss.Draw
	case *r.WinnerID == r.PlayerOneID:
		m.Result = swiss.PlayerOneWon
	case *r.WinnerID == m.PlayerTwo:
		m.Result = swiss.PlayerTwoWon
	default:
		return m, fmt.Errorf("match %s: winner %d did not play", r.ID, *r.WinnerID)
	}
	return m, nil
}

func (s *TournamentStore) ListMatches(ctx context.Context, tournamentID uuid.UUID) ([]swiss.Match, error) {
	var rows []matchRow
	err := s.db.SelectContext(ctx, &rows,
		s.db.Rebind("SELECT * FROM matches WHERE tournament_id = ? ORDER BY round_number ASC, created_at ASC"), tournamentID)
	if err != nil {
		return nil, err
	}

	matches := make([]swiss.Match, 0, len(rows))
	for _, row := range rows {
		m, err := row.toMatch()
		if err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	return matches, nil
}

func (s *TournamentStore) RecordMatch(ctx context.Context, match swiss.Match) error {
	_, err := s.db.NamedExecContext(ctx, insertMatchQuery, newMatchRow(match))
	return err
}

func (s *TournamentStore) RecordMatchTx(ctx context.Context, tx *sqlx.Tx, match swiss.Match) error {
	_, err := tx.NamedExecContext(ctx, insertMatchQuery, newMatchRow(match))
	return err
}

// RecordMatches stores a whole round atomically.
func (s *TournamentStore) RecordMatches(ctx context.Context, matches []swiss.Match) error {
	if len(matches) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, m := range matches {
		if err := s.RecordMatchTx(ctx, tx, m); err != nil {
			return fmt.Errorf("failed to record match %s: %w", m.ID, err)
		}
	}
	return tx.Commit()
}

func (s *TournamentStore) DeleteMatches(ctx context.Context, tournamentID uuid.UUID) (int64, error) {
	res, err := s.db.ExecContext(ctx, s.db.Rebind("DELETE FROM matches WHERE tournament_id = ?"), tournamentID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
