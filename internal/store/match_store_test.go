package store

import (
	"context"
	"testing"

	"github.com/AdamBeresnev/swiss-pairings/internal/swiss"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordMatch(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	store := NewTournamentStore(db)
	ctx := context.Background()
	tournament := createTournament(t, db, store, "Matches")
	p := createPlayers(t, db, store, tournament.ID, "Bruno Walton", "Boots O'Neal", "Cathy Burton")

	testCases := []struct {
		name  string
		match swiss.Match
	}{
		{"player one wins", swiss.NewPlayed(tournament.ID, 1, p[0].ID, p[1].ID, swiss.PlayerOneWon)},
		{"player two wins", swiss.NewPlayed(tournament.ID, 2, p[0].ID, p[2].ID, swiss.PlayerTwoWon)},
		{"draw", swiss.NewPlayed(tournament.ID, 3, p[1].ID, p[2].ID, swiss.Draw)},
		{"bye", swiss.NewBye(tournament.ID, 1, p[2].ID)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.NoError(t, store.RecordMatch(ctx, tc.match))

			matches, err := store.ListMatches(ctx, tournament.ID)
			require.NoError(t, err)

			var found *swiss.Match
			for i := range matches {
				if matches[i].ID == tc.match.ID {
					found = &matches[i]
				}
			}
			require.NotNil(t, found)
			assert.Equal(t, tc.match.Kind, found.Kind)
			assert.Equal(t, tc.match.PlayerOne, found.PlayerOne)
			assert.Equal(t, tc.match.PlayerTwo, found.PlayerTwo)
			assert.Equal(t, tc.match.Result, found.Result)
			assert.Equal(t, tc.match.RoundNumber, found.RoundNumber)
		})
	}

	var nullOpponents int
	require.NoError(t, db.Get(&nullOpponents, "SELECT count(*) FROM matches WHERE player_two_id IS NULL"))
	assert.Equal(t, 1, nullOpponents)

	var draws int
	require.NoError(t, db.Get(&draws, "SELECT count(*) FROM matches WHERE winner_id IS NULL"))
	assert.Equal(t, 1, draws)
}

func TestListMatches_OrderedByRound(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	store := NewTournamentStore(db)
	ctx := context.Background()
	tournament := createTournament(t, db, store, "Order")
	p := createPlayers(t, db, store, tournament.ID, "A", "B", "C", "D")

	require.NoError(t, store.RecordMatch(ctx, swiss.NewPlayed(tournament.ID, 2, p[0].ID, p[2].ID, swiss.PlayerOneWon)))
	require.NoError(t, store.RecordMatch(ctx, swiss.NewPlayed(tournament.ID, 1, p[0].ID, p[1].ID, swiss.PlayerOneWon)))

	matches, err := store.ListMatches(ctx, tournament.ID)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, 1, matches[0].RoundNumber)
	assert.Equal(t, 2, matches[1].RoundNumber)
}

func TestMatchConstraints(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	store := NewTournamentStore(db)
	tournament := createTournament(t, db, store, "Constraints")
	p := createPlayers(t, db, store, tournament.ID, "A", "B")

	_, err := db.Exec(`INSERT INTO matches (id, tournament_id, round_number, player_one_id, player_two_id, winner_id)
		VALUES (?, ?, 1, ?, NULL, ?)`, uuid.New(), tournament.ID, p[0].ID, p[1].ID)
	assert.Error(t, err, "a bye must be won by player one")

	_, err = db.Exec(`INSERT INTO matches (id, tournament_id, round_number, player_one_id, player_two_id, winner_id)
		VALUES (?, ?, 1, ?, ?, NULL)`, uuid.New(), tournament.ID, p[0].ID, p[0].ID)
	assert.Error(t, err, "a player cannot play themselves")

	err = store.RecordMatch(context.Background(), swiss.NewPlayed(tournament.ID, 1, p[0].ID, 9999, swiss.Draw))
	assert.Error(t, err, "unknown players are rejected by the foreign key")
}

func TestRecordMatches_Atomic(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	store := NewTournamentStore(db)
	ctx := context.Background()
	tournament := createTournament(t, db, store, "Round")
	p := createPlayers(t, db, store, tournament.ID, "A", "B", "C", "D")

	err := store.RecordMatches(ctx, []swiss.Match{
		swiss.NewPlayed(tournament.ID, 1, p[0].ID, p[1].ID, swiss.PlayerOneWon),
		swiss.NewPlayed(tournament.ID, 1, p[2].ID, 9999, swiss.PlayerOneWon),
	})
	require.Error(t, err)

	matches, err := store.ListMatches(ctx, tournament.ID)
	require.NoError(t, err)
	assert.Empty(t, matches)

	err = store.RecordMatches(ctx, []swiss.Match{
		swiss.NewPlayed(tournament.ID, 1, p[0].ID, p[1].ID, swiss.PlayerOneWon),
		swiss.NewPlayed(tournament.ID, 1, p[2].ID, p[3].ID, swiss.PlayerTwoWon),
	})
	require.NoError(t, err)

	matches, err = store.ListMatches(ctx, tournament.ID)
	require.NoError(t, err)
	assert.Len(t, matches, 2)
}

func TestDeleteMatches(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	store := NewTournamentStore(db)
	ctx := context.Background()
	tournament := createTournament(t, db, store, "Delete")
	p := createPlayers(t, db, store, tournament.ID, "A", "B")
	require.NoError(t, store.RecordMatch(ctx, swiss.NewPlayed(tournament.ID, 1, p[0].ID, p[1].ID, swiss.Draw)))

	_, err := store.DeletePlayers(ctx, tournament.ID)
	assert.Error(t, err, "players with recorded matches cannot be deleted")

	deleted, err := store.DeleteMatches(ctx, tournament.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	deleted, err = store.DeletePlayers(ctx, tournament.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)
}

func TestMatchRowConversion(t *testing.T) {
	one, two := int64(1), int64(2)
	stranger := int64(3)

	_, err := matchRow{ID: uuid.New(), PlayerOneID: one, PlayerTwoID: &two, WinnerID: &stranger}.toMatch()
	assert.Error(t, err)

	_, err = matchRow{ID: uuid.New(), PlayerOneID: one}.toMatch()
	assert.Error(t, err, "bye rows carry player one as winner")

	m, err := matchRow{ID: uuid.New(), PlayerOneID: one, WinnerID: &one}.toMatch()
	require.NoError(t, err)
	assert.True(t, m.IsBye())

	row := newMatchRow(swiss.NewPlayed(uuid.New(), 1, one, two, swiss.Draw))
	assert.Nil(t, row.WinnerID)
	require.NotNil(t, row.PlayerTwoID)
	assert.Equal(t, two, *row.PlayerTwoID)
}
