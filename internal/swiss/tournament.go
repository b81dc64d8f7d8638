package swiss

import (
	"time"

	"github.com/google/uuid"
)

type TournamentStatus string

const (
	TournamentOpen      TournamentStatus = "open"
	TournamentCompleted TournamentStatus = "completed"
)

type Tournament struct {
	ID        uuid.UUID        `db:"id" json:"id"`
	Name      string           `db:"name" json:"name"`
	Status    TournamentStatus `db:"status" json:"status"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"`
}

func (t *Tournament) IsCompleted() bool {
	return t.Status == TournamentCompleted
}
