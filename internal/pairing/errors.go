package pairing

import "errors"

var (
	ErrNoPlayers = errors.New("no players registered")

	// Odd player count and every player has already received a bye.
	ErrNoEligibleBye = errors.New("no player is eligible for a bye")

	// No perfect matching exists without repeating an opponent.
	ErrNoValidPairing = errors.New("no valid pairing without rematches")
)
