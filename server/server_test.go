package server

import (
	"path/filepath"
	"testing"

	"wormpot/game"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *server {
	t.Helper()
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.DataDir = dir
	cfg.HistoryFile = filepath.Join(dir, "history.jsonl")
	return NewServer(cfg).(*server)
}

func TestServer_rooms(t *testing.T) {
	s := newTestServer(t)

	assert.Empty(t, s.ListRooms())

	info := s.CreateRoom("kitchen")
	assert.Len(t, info.ID, 6)
	assert.Equal(t, "kitchen", info.Name)
	assert.Equal(t, game.StatusWaiting, info.Status)

	got, ok := s.QueryRoom(info.ID)
	require.True(t, ok)
	assert.Equal(t, info, got)

	_, ok = s.QueryRoom("missing")
	assert.False(t, ok)

	assert.Len(t, s.ListRooms(), 1)

	assert.True(t, s.DeleteRoom(info.ID))
	assert.False(t, s.DeleteRoom(info.ID))
	assert.Empty(t, s.ListRooms())
}

func TestServer_join(t *testing.T) {
	s := newTestServer(t)
	info := s.CreateRoom("kitchen")

	rep, err := s.Join(info.ID, "alice", "red", false)
	require.NoError(t, err)
	require.NoError(t, rep.Err)
	assert.NotEmpty(t, rep.PlayerID)
	assert.NotEmpty(t, rep.Code)

	_, err = s.Join("missing", "alice", "red", false)
	assert.Equal(t, errRoomNotFound, err)

	got, ok := s.QueryRoom(info.ID)
	require.True(t, ok)
	assert.Equal(t, []string{"alice"}, got.Players)
}

func TestServer_reload(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.DataDir = dir
	cfg.HistoryFile = filepath.Join(dir, "history.jsonl")

	s1 := NewServer(cfg).(*server)
	info := s1.CreateRoom("kitchen")
	rep, err := s1.Join(info.ID, "alice", "red", false)
	require.NoError(t, err)
	require.NoError(t, rep.Err)

	// sync on the loop so the save has happened
	_, ok := s1.QueryRoom(info.ID)
	require.True(t, ok)

	s2 := NewServer(cfg).(*server)
	got, ok := s2.QueryRoom(info.ID)
	require.True(t, ok)
	assert.Equal(t, []string{"alice"}, got.Players)
}
