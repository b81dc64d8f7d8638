package pairing

import (
	"cmp"
	"slices"

	"github.com/AdamBeresnev/swiss-pairings/internal/swiss"
)

// ComputeStandings ranks every registered player by wins, then opponent match wins, then id.
// Players without matches are included with zero records.
func ComputeStandings(players []swiss.Player, matches []swiss.Match) []swiss.StandingsRow {
	rows := make(map[int64]*swiss.StandingsRow, len(players))
	standings := make([]swiss.StandingsRow, 0, len(players))
	for _, p := range players {
		rows[p.ID] = &swiss.StandingsRow{PlayerID: p.ID, Name: p.Name}
	}

	for _, m := range matches {
		if row, ok := rows[m.PlayerOne]; ok {
			row.Matches++
			if m.IsBye() {
				row.HadBye = true
			}
		}
		if !m.IsBye() {
			if row, ok := rows[m.PlayerTwo]; ok {
				row.Matches++
			}
		}

		winner, ok := m.Winner()
		if !ok {
			for _, id := range []int64{m.PlayerOne, m.PlayerTwo} {
				if row, found := rows[id]; found {
					row.Draws++
				}
			}
			continue
		}
		if row, found := rows[winner]; found {
			row.Wins++
		}
	}

	// OMW reads the win counts computed above, it is not iterated.
	for _, m := range matches {
		if m.IsBye() {
			continue
		}
		one, okOne := rows[m.PlayerOne]
		two, okTwo := rows[m.PlayerTwo]
		if okOne && okTwo {
			one.OMW += two.Wins
			two.OMW += one.Wins
		}
	}

	for _, p := range players {
		standings = append(standings, *rows[p.ID])
	}
	slices.SortStableFunc(standings, compareRows)
	return standings
}

func compareRows(a, b swiss.StandingsRow) int {
	if c := cmp.Compare(b.Wins, a.Wins); c != 0 {
		return c
	}
	if c := cmp.Compare(b.OMW, a.OMW); c != 0 {
		return c
	}
	return cmp.Compare(a.PlayerID, b.PlayerID)
}
