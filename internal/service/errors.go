package service

import "errors"

var (
	ErrTournamentClosed = errors.New("tournament is completed")
	ErrInvalidName      = errors.New("name must be between 1 and 50 characters")
	ErrHasMatches       = errors.New("tournament already has recorded matches")

	// Match report validation
	ErrMissingPlayer     = errors.New("match report needs at least one player")
	ErrUnknownPlayer     = errors.New("player is not registered in this tournament")
	ErrSamePlayer        = errors.New("a player cannot play against themselves")
	ErrInvalidWinner     = errors.New("winner is not part of this match")
	ErrRematch           = errors.New("players have already played each other")
	ErrByeAlreadyAwarded = errors.New("player has already received a bye")
	ErrDuplicatePlayer   = errors.New("player appears more than once in the round")
)
