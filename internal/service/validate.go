package service

import (
	"fmt"
	"time"

	"github.com/AdamBeresnev/swiss-pairings/internal/pairing"
	"github.com/AdamBeresnev/swiss-pairings/internal/swiss"
	"github.com/google/uuid"
)

// validator turns reports into matches, checking each one against the recorded history
// and the reports accepted before it in the same round.
type validator struct {
	tournamentID uuid.UUID
	registered   map[int64]bool
	played       pairing.Opponents
	byes         map[int64]bool
	matchCount   map[int64]int
	inRound      map[int64]bool
}

func newValidator(tournamentID uuid.UUID, h *history) *validator {
	v := &validator{
		tournamentID: tournamentID,
		registered:   make(map[int64]bool, len(h.players)),
		played:       pairing.PlayedOpponents(h.matches),
		byes:         pairing.ByeRecipients(h.matches),
		matchCount:   make(map[int64]int, len(h.players)),
		inRound:      make(map[int64]bool),
	}
	for _, p := range h.players {
		v.registered[p.ID] = true
	}
	for _, m := range h.matches {
		v.matchCount[m.PlayerOne]++
		if !m.IsBye() {
			v.matchCount[m.PlayerTwo]++
		}
	}
	return v
}

// normalize resolves the shorthand forms of a report into a match.
// The round is filled in by accept.
func normalize(tournamentID uuid.UUID, r MatchReport) (swiss.Match, error) {
	one, two := r.PlayerOne, r.PlayerTwo
	if one == nil && two == nil {
		return swiss.Match{}, ErrMissingPlayer
	}
	if one == nil {
		one, two = two, nil
	}

	if two == nil {
		if r.Winner != nil && *r.Winner != *one {
			return swiss.Match{}, ErrInvalidWinner
		}
		return swiss.NewBye(tournamentID, 0, *one), nil
	}

	if *one == *two {
		return swiss.Match{}, ErrSamePlayer
	}

	result := swiss.Draw
	if r.Winner != nil {
		switch *r.Winner {
		case *one:
			result = swiss.PlayerOneWon
		case *two:
			result = swiss.PlayerTwoWon
		default:
			return swiss.Match{}, ErrInvalidWinner
		}
	}
	return swiss.NewPlayed(tournamentID, 0, *one, *two, result), nil
}

func (v *validator) accept(r MatchReport) (swiss.Match, error) {
	m, err := normalize(v.tournamentID, r)
	if err != nil {
		return swiss.Match{}, err
	}

	participants := []int64{m.PlayerOne}
	if !m.IsBye() {
		participants = append(participants, m.PlayerTwo)
	}
	for _, id := range participants {
		if !v.registered[id] {
			return swiss.Match{}, fmt.Errorf("%w: %d", ErrUnknownPlayer, id)
		}
		if v.inRound[id] {
			return swiss.Match{}, fmt.Errorf("%w: %d", ErrDuplicatePlayer, id)
		}
	}

	if m.IsBye() {
		if v.byes[m.PlayerOne] {
			return swiss.Match{}, fmt.Errorf("%w: %d", ErrByeAlreadyAwarded, m.PlayerOne)
		}
	} else if v.played.Played(m.PlayerOne, m.PlayerTwo) {
		return swiss.Match{}, fmt.Errorf("%w: %d and %d", ErrRematch, m.PlayerOne, m.PlayerTwo)
	}

	// A late registration joins in the round its opponent is on.
	played := 0
	for _, id := range participants {
		played = max(played, v.matchCount[id])
	}
	m.RoundNumber = played + 1
	m.CreatedAt = time.Now().UTC()

	for _, id := range participants {
		v.inRound[id] = true
		v.matchCount[id]++
	}
	v.played.Record(m)
	if m.IsBye() {
		v.byes[m.PlayerOne] = true
	}
	return m, nil
}
