package main

import (
	"fmt"
	"strconv"

	"github.com/AdamBeresnev/swiss-pairings/internal/swiss"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("240")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	leaderStyle = cellStyle.Foreground(lipgloss.Color("220"))
	mutedStyle  = cellStyle.Foreground(lipgloss.Color("240"))
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers(headers...)
}

func renderStandings(name string, rows []swiss.StandingsRow) string {
	if len(rows) == 0 {
		return titleStyle.Render(name) + "\nNo players registered"
	}

	t := newTable("#", "ID", "Player", "W", "D", "L", "Played", "OMW").
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row == 0:
				return leaderStyle
			}
			return cellStyle
		})

	for i, r := range rows {
		losses := r.Matches - r.Wins - r.Draws
		t.Row(
			strconv.Itoa(i+1),
			strconv.FormatInt(r.PlayerID, 10),
			r.Name,
			strconv.Itoa(r.Wins),
			strconv.Itoa(r.Draws),
			strconv.Itoa(losses),
			strconv.Itoa(r.Matches),
			strconv.Itoa(r.OMW),
		)
	}
	return titleStyle.Render(name) + "\n" + t.Render()
}

func renderPairings(name string, pairings []swiss.Pairing) string {
	t := newTable("Table", "Player one", "Player two").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	n := 0
	for _, p := range pairings {
		one := fmt.Sprintf("%s (%d)", p.PlayerOneName, p.PlayerOne)
		if p.Bye {
			t.Row("bye", one, mutedStyle.Render("-"))
			continue
		}
		n++
		t.Row(strconv.Itoa(n), one, fmt.Sprintf("%s (%d)", p.PlayerTwoName, p.PlayerTwo))
	}
	return titleStyle.Render(name) + "\n" + t.Render()
}

func describeMatch(m swiss.Match) string {
	if m.IsBye() {
		return fmt.Sprintf("round %d: bye for player %d", m.RoundNumber, m.PlayerOne)
	}
	if winner, ok := m.Winner(); ok {
		loser, _ := m.Opponent(winner)
		return fmt.Sprintf("round %d: player %d beat player %d", m.RoundNumber, winner, loser)
	}
	return fmt.Sprintf("round %d: player %d drew with player %d", m.RoundNumber, m.PlayerOne, m.PlayerTwo)
}
