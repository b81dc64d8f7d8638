package swiss

import (
	"time"

	"github.com/google/uuid"
)

// Player ids are assigned by the store in registration order.
type Player struct {
	ID           int64     `db:"id" json:"id"`
	TournamentID uuid.UUID `db:"tournament_id" json:"tournament_id"`
	Name         string    `db:"name" json:"name"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// StandingsRow is derived from the match history on every request and never stored.
type StandingsRow struct {
	PlayerID int64  `json:"id"`
	Name     string `json:"name"`
	Wins     int    `json:"wins"`
	Draws    int    `json:"draws"`
	Matches  int    `json:"matches"`
	OMW      int    `json:"omw"`
	HadBye   bool   `json:"had_bye"`
}

// Pairing is a proposed match for the next round. It only becomes a Match once reported.
type Pairing struct {
	PlayerOne     int64  `json:"player_one_id"`
	PlayerOneName string `json:"player_one_name"`
	PlayerTwo     int64  `json:"player_two_id,omitempty"`
	PlayerTwoName string `json:"player_two_name,omitempty"`
	Bye           bool   `json:"bye"`
}
