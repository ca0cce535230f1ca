package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGame_lifecycle(t *testing.T) {
	g := NewGameWithSeed(7)

	require.NoError(t, g.AddPlayer("alice", "red"))
	require.NoError(t, g.AddPlayer("bob", "blue"))

	assert.Equal(t, ErrPlayerExists, g.AddPlayer("alice", "green"))

	ts, err := g.Start()
	require.NoError(t, err)
	assert.Equal(t, 1, ts.Number)
	assert.Equal(t, NumDice, ts.DiceLeft)
	assert.Equal(t, []string{"roll"}, ts.Can)

	_, err = g.Start()
	assert.Equal(t, ErrAlreadyStarted, err)

	assert.Equal(t, ErrAlreadyStarted, g.AddPlayer("carol", "green"))

	state := g.GetGameState()
	assert.Equal(t, StatusPlaying, state.Status)
	assert.Len(t, state.Supply, 16)
	assert.Len(t, state.Players, 2)
	assert.Equal(t, ts.Player, state.Playing)
}

func TestGame_startNeedsTwo(t *testing.T) {
	g := NewGameWithSeed(7)
	require.NoError(t, g.AddPlayer("alice", "red"))

	_, err := g.Start()
	assert.Equal(t, ErrNotEnoughPlayers, err)
}

func TestGame_full(t *testing.T) {
	g := NewGameWithSeed(7)
	names := []string{"a", "b", "c", "d", "e", "f", "g"}
	for _, n := range names {
		require.NoError(t, g.AddPlayer(n, ""))
	}

	assert.Equal(t, ErrGameFull, g.AddPlayer("h", ""))
}

func TestGame_notYourTurn(t *testing.T) {
	g := testGame(t, "alice", "bob")

	_, err := g.Play("bob", Command{Command: "roll"})
	assert.Equal(t, ErrNotYourTurn, err)
}

func TestGame_notStarted(t *testing.T) {
	g := NewGameWithSeed(7)
	require.NoError(t, g.AddPlayer("alice", "red"))
	require.NoError(t, g.AddPlayer("bob", "blue"))

	_, err := g.Play("alice", Command{Command: "roll"})
	assert.Equal(t, ErrMatchNotActive, err)
}

func TestGame_badCommand(t *testing.T) {
	g := testGame(t, "alice", "bob")

	_, err := g.Play("alice", Command{Command: "dance"})
	assert.Equal(t, ErrBadRequest, err)
}

func TestGame_finishedRejectsPlay(t *testing.T) {
	g := testGame(t, "alice", "bob")
	for v := MinTileValue; v <= MaxTileValue; v++ {
		g.moveTile(t, v, v%2)
	}
	g.status = StatusFinished
	g.turn = nil

	_, err := g.Play("alice", Command{Command: "roll"})
	assert.Equal(t, ErrMatchNotActive, err)
}

func TestGame_tileConservation(t *testing.T) {
	g := testGame(t, "alice", "bob", "carol")

	// play a while with real dice and check the invariant as we go
	for i := 0; i < 200 && g.status == StatusPlaying; i++ {
		ts := g.GetTurnState()

		var cmd CommandString
		switch {
		case len(ts.LastRoll) > 0:
			// take the first untaken face
			for _, f := range ts.LastRoll {
				taken := false
				for _, x := range ts.Taken {
					if f == x {
						taken = true
						break
					}
				}
				if !taken {
					cmd = CommandString("take:" + string(f))
					break
				}
			}
		case ts.HasWorm && ts.Score >= MinTileValue:
			cmd = "stop"
		default:
			cmd = "roll"
		}

		_, err := g.Play(ts.Player, Command{Command: cmd})
		require.NoError(t, err)
		require.NoError(t, g.checkTiles())
	}
}
