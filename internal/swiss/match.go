package swiss

import (
	"time"

	"github.com/google/uuid"
)

type MatchKind string

const (
	ByeMatch    MatchKind = "bye"
	PlayedMatch MatchKind = "played"
)

type Result string

const (
	PlayerOneWon Result = "player_one"
	PlayerTwoWon Result = "player_two"
	Draw         Result = "draw"
)

// Match is either a bye for PlayerOne or a played game between PlayerOne and PlayerTwo.
// PlayerTwo is zero and Result is PlayerOneWon for a bye.
type Match struct {
	ID           uuid.UUID `json:"id"`
	TournamentID uuid.UUID `json:"tournament_id"`
	RoundNumber  int       `json:"round"`

	Kind      MatchKind `json:"kind"`
	PlayerOne int64     `json:"player_one_id"`
	PlayerTwo int64     `json:"player_two_id,omitempty"`
	Result    Result    `json:"result"`

	CreatedAt time.Time `json:"created_at"`
}

func NewBye(tournamentID uuid.UUID, round int, player int64) Match {
	return Match{
		ID:           uuid.New(),
		TournamentID: tournamentID,
		RoundNumber:  round,
		Kind:         ByeMatch,
		PlayerOne:    player,
		Result:       PlayerOneWon,
	}
}

func NewPlayed(tournamentID uuid.UUID, round int, playerOne, playerTwo int64, result Result) Match {
	return Match{
		ID:           uuid.New(),
		TournamentID: tournamentID,
		RoundNumber:  round,
		Kind:         PlayedMatch,
		PlayerOne:    playerOne,
		PlayerTwo:    playerTwo,
		Result:       result,
	}
}

func (m *Match) IsBye() bool {
	return m.Kind == ByeMatch
}

func (m *Match) Involves(player int64) bool {
	if m.PlayerOne == player {
		return true
	}
	return m.Kind == PlayedMatch && m.PlayerTwo == player
}

// Opponent returns the other participant. Byes have no opponent.
func (m *Match) Opponent(player int64) (int64, bool) {
	if m.Kind != PlayedMatch {
		return 0, false
	}
	switch player {
	case m.PlayerOne:
		return m.PlayerTwo, true
	case m.PlayerTwo:
		return m.PlayerOne, true
	}
	return 0, false
}

// Winner returns false for a draw.
func (m *Match) Winner() (int64, bool) {
	switch {
	case m.Kind == ByeMatch:
		return m.PlayerOne, true
	case m.Result == PlayerOneWon:
		return m.PlayerOne, true
	case m.Result == PlayerTwoWon:
		return m.PlayerTwo, true
	}
	return 0, false
}
