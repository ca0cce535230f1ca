package game

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSave_roundTrip(t *testing.T) {
	g := testGame(t, "alice", "bob")
	g.moveTile(t, 25, 1)
	g.script([]Face{"w", "w", "1", "2", "3", "4", "5", "1"})

	_, err := g.Play("alice", Command{Command: "roll"})
	require.NoError(t, err)
	_, err = g.Play("alice", Command{Command: "take:w"})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, g.WriteOut(&buf))

	g2, err := NewFromSaved(&buf)
	require.NoError(t, err)

	assert.Equal(t, g.GetGameState(), g2.GetGameState())
	assert.Equal(t, g.GetTurnState(), g2.GetTurnState())

	// the restored game keeps playing
	_, err = g2.Play("alice", Command{Command: "stop"})
	require.NoError(t, err)
}

func TestSave_notStarted(t *testing.T) {
	g := NewGameWithSeed(3)
	require.NoError(t, g.AddPlayer("alice", "red"))

	var buf bytes.Buffer
	require.NoError(t, g.WriteOut(&buf))

	g2, err := NewFromSaved(&buf)
	require.NoError(t, err)
	assert.Equal(t, StatusWaiting, g2.GetGameState().Status)
}
