package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTileSupply_new(t *testing.T) {
	s := NewTileSupply()
	require.Len(t, s, 16)

	for i, tile := range s {
		assert.Equal(t, MinTileValue+i, tile.Value)
	}

	// worm counts step up every four tiles
	assert.Equal(t, 1, s[0].Worms)  // 21
	assert.Equal(t, 1, s[3].Worms)  // 24
	assert.Equal(t, 2, s[4].Worms)  // 25
	assert.Equal(t, 3, s[8].Worms)  // 29
	assert.Equal(t, 4, s[12].Worms) // 33
	assert.Equal(t, 4, s[15].Worms) // 36
}

func TestTileSupply_takeExact(t *testing.T) {
	s := NewTileSupply()

	tile, s, ok := s.TakeExact(24)
	require.True(t, ok)
	assert.Equal(t, 24, tile.Value)
	assert.Len(t, s, 15)
	assert.False(t, s.Contains(24))

	_, s, ok = s.TakeExact(24)
	assert.False(t, ok)
	assert.Len(t, s, 15)
}

func TestTileSupply_takeBelow(t *testing.T) {
	s := NewTileSupply()

	// 26 present, so strictly-below means 25
	tile, s, ok := s.TakeBelow(26)
	require.True(t, ok)
	assert.Equal(t, 25, tile.Value)

	// nothing below the lowest tile
	_, s, ok = s.TakeBelow(21)
	assert.False(t, ok)
	assert.Len(t, s, 15)
}

func TestTileSupply_returnSorts(t *testing.T) {
	s := NewTileSupply()

	tile, s, ok := s.TakeExact(28)
	require.True(t, ok)

	s = s.Return(tile)
	require.Len(t, s, 16)
	for i, x := range s {
		assert.Equal(t, MinTileValue+i, x.Value)
	}
}

func TestTileSupply_returnAtEnd(t *testing.T) {
	s := TileSupply{NewTile(21), NewTile(22)}
	s = s.Return(NewTile(36))
	require.Len(t, s, 3)
	assert.Equal(t, 36, s[2].Value)
}

func TestTileSupply_highestBelow(t *testing.T) {
	s := TileSupply{NewTile(22), NewTile(24), NewTile(30)}

	tile, ok := s.HighestBelow(26)
	require.True(t, ok)
	assert.Equal(t, 24, tile.Value)
	assert.Len(t, s, 3)

	tile, ok = s.HighestBelow(23)
	require.True(t, ok)
	assert.Equal(t, 22, tile.Value)

	_, ok = s.HighestBelow(22)
	assert.False(t, ok)
}
