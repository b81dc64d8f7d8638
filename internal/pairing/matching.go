package pairing

import (
	"fmt"
	"slices"

	"github.com/AdamBeresnev/swiss-pairings/internal/swiss"
)

// Opponents records which players have already met.
type Opponents map[int64]map[int64]struct{}

func PlayedOpponents(history []swiss.Match) Opponents {
	played := make(Opponents)
	for _, m := range history {
		played.Record(m)
	}
	return played
}

// Record adds the pairing of a played match. Byes are ignored.
func (o Opponents) Record(m swiss.Match) {
	if m.IsBye() {
		return
	}
	o.add(m.PlayerOne, m.PlayerTwo)
	o.add(m.PlayerTwo, m.PlayerOne)
}

func (o Opponents) add(a, b int64) {
	if o[a] == nil {
		o[a] = make(map[int64]struct{})
	}
	o[a][b] = struct{}{}
}

func (o Opponents) Played(a, b int64) bool {
	_, ok := o[a][b]
	return ok
}

// ByeRecipients returns the players that already had a bye in this tournament.
func ByeRecipients(history []swiss.Match) map[int64]bool {
	received := make(map[int64]bool)
	for _, m := range history {
		if m.IsBye() {
			received[m.PlayerOne] = true
		}
	}
	return received
}

// Pair produces the next round from ranked standings. With an odd player count the lowest
// ranked player without a prior bye sits out, then the rest are matched so that nobody
// meets a previous opponent, preferring opponents closest in the standings.
func Pair(standings []swiss.StandingsRow, history []swiss.Match) ([]swiss.Pairing, error) {
	if len(standings) == 0 {
		return nil, ErrNoPlayers
	}

	pool := slices.Clone(standings)
	var pairings []swiss.Pairing

	if len(pool)%2 == 1 {
		idx, err := byeIndex(pool, ByeRecipients(history))
		if err != nil {
			return nil, err
		}
		pairings = append(pairings, swiss.Pairing{
			PlayerOne:     pool[idx].PlayerID,
			PlayerOneName: pool[idx].Name,
			Bye:           true,
		})
		pool = slices.Delete(pool, idx, idx+1)
	}

	matched, ok := search(searchState{pool: pool}, PlayedOpponents(history))
	if !ok {
		return nil, fmt.Errorf("%w: %d players left to pair", ErrNoValidPairing, len(pool))
	}

	return append(pairings, matched...), nil
}

// Scans from the bottom of the standings upward.
func byeIndex(pool []swiss.StandingsRow, received map[int64]bool) (int, error) {
	for i := len(pool) - 1; i >= 0; i-- {
		if !received[pool[i].PlayerID] {
			return i, nil
		}
	}
	return -1, ErrNoEligibleBye
}

// searchState is never mutated in place. Each branch builds its own pool and pairs,
// so a failed branch cannot leave anything behind for its siblings.
type searchState struct {
	pool  []swiss.StandingsRow
	pairs []swiss.Pairing
}

func (s searchState) pair(i int) searchState {
	top, opponent := s.pool[0], s.pool[i]

	rest := make([]swiss.StandingsRow, 0, len(s.pool)-2)
	rest = append(rest, s.pool[1:i]...)
	rest = append(rest, s.pool[i+1:]...)

	return searchState{
		pool: rest,
		pairs: append(slices.Clip(s.pairs), swiss.Pairing{
			PlayerOne:     top.PlayerID,
			PlayerOneName: top.Name,
			PlayerTwo:     opponent.PlayerID,
			PlayerTwoName: opponent.Name,
		}),
	}
}

// search pairs the highest ranked remaining player with each candidate in standings order
// and backtracks when the rest of the pool cannot be completed.
func search(s searchState, played Opponents) ([]swiss.Pairing, bool) {
	if len(s.pool) == 0 {
		return s.pairs, true
	}

	if stranded(s.pool, played) {
		return nil, false
	}

	top := s.pool[0]
	for i := 1; i < len(s.pool); i++ {
		if played.Played(top.PlayerID, s.pool[i].PlayerID) {
			continue
		}
		if pairs, ok := search(s.pair(i), played); ok {
			return pairs, true
		}
	}
	return nil, false
}

// stranded reports whether some player in the pool has already met everyone else in it.
func stranded(pool []swiss.StandingsRow, played Opponents) bool {
	for i, p := range pool {
		open := false
		for j, q := range pool {
			if i != j && !played.Played(p.PlayerID, q.PlayerID) {
				open = true
				break
			}
		}
		if !open {
			return true
		}
	}
	return false
}
