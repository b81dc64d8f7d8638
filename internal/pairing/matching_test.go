package pairing

import (
	"math/rand"
	"testing"
	"time"

	"github.com/AdamBeresnev/swiss-pairings/internal/swiss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ranked builds standings in the given order, best first.
func ranked(ids ...int64) []swiss.StandingsRow {
	rows := make([]swiss.StandingsRow, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, swiss.StandingsRow{PlayerID: id, Name: string(rune('A' + id - 1))})
	}
	return rows
}

func pairs(pairings []swiss.Pairing) [][2]int64 {
	out := make([][2]int64, 0, len(pairings))
	for _, p := range pairings {
		out = append(out, [2]int64{p.PlayerOne, p.PlayerTwo})
	}
	return out
}

// requireValidRound checks every player appears once, at most one bye was handed out
// and nobody meets a previous opponent.
func requireValidRound(t *testing.T, standings []swiss.StandingsRow, history []swiss.Match, pairings []swiss.Pairing) {
	t.Helper()

	seen := make(map[int64]int)
	byes := 0
	prior := PlayedOpponents(history)
	priorByes := ByeRecipients(history)

	for _, p := range pairings {
		seen[p.PlayerOne]++
		if p.Bye {
			byes++
			assert.False(t, priorByes[p.PlayerOne], "player %d received a second bye", p.PlayerOne)
			continue
		}
		seen[p.PlayerTwo]++
		assert.NotEqual(t, p.PlayerOne, p.PlayerTwo)
		assert.False(t, prior.Played(p.PlayerOne, p.PlayerTwo), "rematch %d vs %d", p.PlayerOne, p.PlayerTwo)
	}

	require.Len(t, seen, len(standings))
	for _, row := range standings {
		assert.Equal(t, 1, seen[row.PlayerID], "player %d", row.PlayerID)
	}
	assert.Equal(t, len(standings)%2, byes)
	assert.Len(t, pairings, (len(standings)+1)/2)
}

func TestPair_NoHistory(t *testing.T) {
	testCases := []struct {
		name      string
		standings []swiss.StandingsRow
		expected  [][2]int64
	}{
		{
			name:      "2 players",
			standings: ranked(1, 2),
			expected:  [][2]int64{{1, 2}},
		},
		{
			name:      "4 players pair adjacent ranks",
			standings: ranked(1, 2, 3, 4),
			expected:  [][2]int64{{1, 2}, {3, 4}},
		},
		{
			name:      "8 players keep standings order",
			standings: ranked(4, 7, 1, 2, 8, 3, 6, 5),
			expected:  [][2]int64{{4, 7}, {1, 2}, {8, 3}, {6, 5}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			pairings, err := Pair(tc.standings, nil)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, pairs(pairings))
			requireValidRound(t, tc.standings, nil, pairings)
		})
	}
}

func TestPair_Bye(t *testing.T) {
	testCases := []struct {
		name     string
		history  []swiss.Match
		expected int64
	}{
		{
			name:     "lowest ranked player gets the bye",
			expected: 5,
		},
		{
			name:     "skips players that already had a bye",
			history:  []swiss.Match{bye(5), bye(4)},
			expected: 3,
		},
		{
			name:     "top player when everyone else had one",
			history:  []swiss.Match{bye(2), bye(3), bye(4), bye(5)},
			expected: 1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			standings := ranked(1, 2, 3, 4, 5)
			pairings, err := Pair(standings, tc.history)
			require.NoError(t, err)

			require.NotEmpty(t, pairings)
			assert.True(t, pairings[0].Bye)
			assert.Equal(t, tc.expected, pairings[0].PlayerOne)
			assert.Zero(t, pairings[0].PlayerTwo)
			requireValidRound(t, standings, tc.history, pairings)
		})
	}
}

func TestPair_SinglePlayer(t *testing.T) {
	pairings, err := Pair(ranked(1), nil)
	require.NoError(t, err)
	require.Len(t, pairings, 1)
	assert.True(t, pairings[0].Bye)
}

func TestPair_Backtracking(t *testing.T) {
	testCases := []struct {
		name      string
		standings []swiss.StandingsRow
		history   []swiss.Match
		expected  [][2]int64
	}{
		{
			name:      "skips previous opponents",
			standings: ranked(1, 2, 3, 4),
			history:   []swiss.Match{played(1, 3, swiss.PlayerOneWon), played(2, 4, swiss.PlayerOneWon)},
			expected:  [][2]int64{{1, 2}, {3, 4}},
		},
		{
			name:      "greedy dead end on the last pair",
			standings: ranked(1, 2, 3, 4),
			history:   []swiss.Match{played(3, 4, swiss.Draw)},
			expected:  [][2]int64{{1, 3}, {2, 4}},
		},
		{
			name:      "greedy dead end forces non adjacent pairs",
			standings: ranked(1, 2, 3, 4),
			history:   []swiss.Match{played(1, 2, swiss.PlayerOneWon), played(3, 4, swiss.PlayerOneWon), played(1, 3, swiss.PlayerOneWon)},
			expected:  [][2]int64{{1, 4}, {2, 3}},
		},
		{
			name:      "backtracks into a lower branch",
			standings: ranked(1, 2, 3, 4, 5, 6),
			history:   []swiss.Match{played(5, 6, swiss.PlayerTwoWon)},
			expected:  [][2]int64{{1, 2}, {3, 5}, {4, 6}},
		},
		{
			name:      "backtracks the top pair",
			standings: ranked(1, 2, 3, 4, 5, 6),
			history: []swiss.Match{
				played(3, 4, swiss.PlayerOneWon),
				played(3, 5, swiss.PlayerOneWon),
				played(3, 6, swiss.PlayerOneWon),
			},
			expected: [][2]int64{{1, 3}, {2, 4}, {5, 6}},
		},
		{
			name:      "bye then backtracking on the rest",
			standings: ranked(1, 2, 3, 4, 5),
			history:   []swiss.Match{played(3, 4, swiss.PlayerTwoWon)},
			expected:  [][2]int64{{5, 0}, {1, 3}, {2, 4}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			pairings, err := Pair(tc.standings, tc.history)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, pairs(pairings))
			requireValidRound(t, tc.standings, tc.history, pairings)
		})
	}
}

func TestPair_Errors(t *testing.T) {
	testCases := []struct {
		name      string
		standings []swiss.StandingsRow
		history   []swiss.Match
		expected  error
	}{
		{
			name:     "no players",
			expected: ErrNoPlayers,
		},
		{
			name:      "every pair already played",
			standings: ranked(1, 2, 3, 4),
			history: []swiss.Match{
				played(1, 2, swiss.PlayerOneWon), played(3, 4, swiss.PlayerOneWon),
				played(1, 3, swiss.PlayerOneWon), played(2, 4, swiss.PlayerOneWon),
				played(1, 4, swiss.PlayerOneWon), played(2, 3, swiss.PlayerOneWon),
			},
			expected: ErrNoValidPairing,
		},
		{
			name:      "one player has met everyone",
			standings: ranked(1, 2, 3, 4, 5, 6),
			history: []swiss.Match{
				played(6, 1, swiss.PlayerOneWon), played(6, 2, swiss.PlayerOneWon),
				played(6, 3, swiss.PlayerOneWon), played(6, 4, swiss.PlayerOneWon),
				played(6, 5, swiss.PlayerOneWon),
			},
			expected: ErrNoValidPairing,
		},
		{
			name:      "odd count and every player had a bye",
			standings: ranked(1, 2, 3),
			history:   []swiss.Match{bye(1), bye(2), bye(3)},
			expected:  ErrNoEligibleBye,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			pairings, err := Pair(tc.standings, tc.history)
			assert.ErrorIs(t, err, tc.expected)
			assert.Nil(t, pairings)
		})
	}
}

func TestPair_StrandedPlayerFailsFast(t *testing.T) {
	const n = 40
	ids := make([]int64, n)
	var history []swiss.Match
	for i := range ids {
		ids[i] = int64(i + 1)
		if ids[i] != n {
			history = append(history, played(n, ids[i], swiss.PlayerOneWon))
		}
	}

	start := time.Now()
	pairings, err := Pair(ranked(ids...), history)
	assert.ErrorIs(t, err, ErrNoValidPairing)
	assert.Nil(t, pairings)
	assert.Less(t, time.Since(start), time.Second)
}

func TestPair_DoesNotModifyStandings(t *testing.T) {
	standings := ranked(1, 2, 3, 4, 5)
	before := append([]swiss.StandingsRow(nil), standings...)

	_, err := Pair(standings, []swiss.Match{played(3, 4, swiss.Draw)})
	require.NoError(t, err)
	assert.Equal(t, before, standings)
}

func TestPair_WinnersMeetWinners(t *testing.T) {
	ps := players("Twilight Sparkle", "Fluttershy", "Applejack", "Pinkie Pie")
	history := []swiss.Match{played(1, 2, swiss.PlayerOneWon), played(3, 4, swiss.PlayerOneWon)}

	pairings, err := Pair(ComputeStandings(ps, history), history)
	require.NoError(t, err)
	assert.ElementsMatch(t, [][2]int64{{1, 3}, {2, 4}}, pairs(pairings))
}

func TestPair_FullTournament(t *testing.T) {
	const numPlayers = 25
	const rounds = 4

	names := make([]string, numPlayers)
	for i := range names {
		names[i] = "Player"
	}
	ps := players(names...)
	rng := rand.New(rand.NewSource(7))

	var history []swiss.Match
	for round := 1; round <= rounds; round++ {
		standings := ComputeStandings(ps, history)
		pairings, err := Pair(standings, history)
		require.NoError(t, err, "round %d", round)
		requireValidRound(t, standings, history, pairings)

		for _, p := range pairings {
			if p.Bye {
				history = append(history, swiss.NewBye(testTournamentID, round, p.PlayerOne))
				continue
			}
			result := []swiss.Result{swiss.PlayerOneWon, swiss.PlayerTwoWon, swiss.Draw}[rng.Intn(3)]
			history = append(history, swiss.NewPlayed(testTournamentID, round, p.PlayerOne, p.PlayerTwo, result))
		}
	}

	assert.Len(t, ByeRecipients(history), rounds)
	for _, row := range ComputeStandings(ps, history) {
		assert.Equal(t, rounds, row.Matches)
	}
}
