package service

import (
	"slices"

	"github.com/AdamBeresnev/swiss-pairings/internal/swiss"
)

type Round struct {
	Number  int           `json:"number"`
	Matches []swiss.Match `json:"matches"`
}

// GroupByRound returns rounds in ascending order. Byes come last within a round.
func GroupByRound(matches []swiss.Match) []Round {
	byRound := make(map[int][]swiss.Match)
	var numbers []int

	for _, m := range matches {
		if _, exists := byRound[m.RoundNumber]; !exists {
			numbers = append(numbers, m.RoundNumber)
		}
		byRound[m.RoundNumber] = append(byRound[m.RoundNumber], m)
	}

	slices.Sort(numbers)

	rounds := make([]Round, 0, len(numbers))
	for _, n := range numbers {
		ms := byRound[n]
		slices.SortStableFunc(ms, func(a, b swiss.Match) int {
			switch {
			case a.IsBye() == b.IsBye():
				return 0
			case a.IsBye():
				return 1
			}
			return -1
		})
		rounds = append(rounds, Round{Number: n, Matches: ms})
	}
	return rounds
}
