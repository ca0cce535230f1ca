package server

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"wormpot/comms"
	"wormpot/game"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRoom(t *testing.T) *room {
	t.Helper()
	dir := t.TempDir()
	r := newRoom("abc123", "kitchen", newHistory(filepath.Join(dir, "history.jsonl")), dir)
	go r.run()
	t.Cleanup(func() { r.coreCh <- stopMsg{} })
	return r
}

func join(t *testing.T, r *room, name string) joinRep {
	t.Helper()
	rep := make(chan joinRep)
	r.coreCh <- joinMsg{Name: name, Colour: "red", Rep: rep}
	jr := <-rep
	require.NoError(t, jr.Err)
	return jr
}

func connect(t *testing.T, r *room, id string) chan interface{} {
	t.Helper()
	downCh := make(chan interface{}, 100)
	rep := make(chan error)
	r.coreCh <- connectMsg{PlayerID: id, Client: clientBundle{downCh: downCh}, Rep: rep}
	require.NoError(t, <-rep)
	return downCh
}

func play(t *testing.T, r *room, who, reqId string, cmd game.CommandString) {
	t.Helper()
	body, err := json.Marshal(game.Command{Command: cmd})
	require.NoError(t, err)
	r.coreCh <- requestFromUser{Who: who, ID: reqId, Cmd: []string{"play"}, Body: body}
}

func awaitResponse(t *testing.T, ch chan interface{}, reqId string) comms.PlayResponse {
	t.Helper()
	deadline := time.After(time.Second)
	for {
		select {
		case m := <-ch:
			if rtu, ok := m.(responseToUser); ok && rtu.ID == reqId {
				pr, ok := rtu.Body.(comms.PlayResponse)
				require.True(t, ok, "unexpected response body: %#v", rtu.Body)
				return pr
			}
		case <-deadline:
			t.Fatal("no response")
		}
	}
}

func awaitUpdate(t *testing.T, ch chan interface{}) game.GameUpdate {
	t.Helper()
	deadline := time.After(time.Second)
	for {
		select {
		case m := <-ch:
			if msg, ok := m.(comms.Message); ok && msg.Head == "update" {
				var update game.GameUpdate
				require.NoError(t, comms.Decode(msg, &update))
				return update
			}
		case <-deadline:
			t.Fatal("no update")
		}
	}
}

func TestRoom_joinAndConnect(t *testing.T) {
	r := newTestRoom(t)

	alice := join(t, r, "alice")
	assert.NotEmpty(t, alice.PlayerID)
	assert.NotEmpty(t, alice.Code)

	roomId, playerId, err := decodeConnectString(alice.Code)
	require.NoError(t, err)
	assert.Equal(t, "abc123", roomId)
	assert.Equal(t, alice.PlayerID, playerId)

	downCh := connect(t, r, alice.PlayerID)
	update := awaitUpdate(t, downCh)
	assert.Equal(t, game.StatusWaiting, update.State.Status)
	require.Len(t, update.State.Players, 1)
	assert.Equal(t, "alice", update.State.Players[0].Name)
}

func TestRoom_connectUnknown(t *testing.T) {
	r := newTestRoom(t)

	rep := make(chan error)
	r.coreCh <- connectMsg{PlayerID: "nobody", Client: clientBundle{downCh: make(chan interface{}, 1)}, Rep: rep}
	assert.Equal(t, errUnknownPlayer, <-rep)
}

func TestRoom_startAndPlay(t *testing.T) {
	r := newTestRoom(t)

	alice := join(t, r, "alice")
	bob := join(t, r, "bob")

	aliceCh := connect(t, r, alice.PlayerID)
	bobCh := connect(t, r, bob.PlayerID)

	// only the host can start
	r.coreCh <- requestFromUser{Who: bob.PlayerID, ID: "1", Cmd: []string{"start"}}
	res := awaitResponse(t, bobCh, "1")
	require.NotNil(t, res.Err)
	assert.Equal(t, "NOTHOST", res.Err.Code)

	r.coreCh <- requestFromUser{Who: alice.PlayerID, ID: "2", Cmd: []string{"start"}}
	res = awaitResponse(t, aliceCh, "2")
	require.Nil(t, res.Err)

	update := awaitUpdate(t, aliceCh)
	assert.Equal(t, game.StatusPlaying, update.State.Status)
	require.NotEmpty(t, update.Turn.Player)

	// find who goes first and who doesn't
	chans := map[string]chan interface{}{"alice": aliceCh, "bob": bobCh}
	ids := map[string]string{"alice": alice.PlayerID, "bob": bob.PlayerID}
	active := update.Turn.Player
	other := "bob"
	if active == "bob" {
		other = "alice"
	}

	// the wrong player gets told off
	play(t, r, ids[other], "3", "roll")
	res = awaitResponse(t, chans[other], "3")
	require.NotNil(t, res.Err)
	assert.Equal(t, "NOTYOURTURN", res.Err.Code)

	// the active player rolls
	play(t, r, ids[active], "4", "roll")
	res = awaitResponse(t, chans[active], "4")
	require.Nil(t, res.Err)
}

func TestRoom_joinAfterStart(t *testing.T) {
	r := newTestRoom(t)

	alice := join(t, r, "alice")
	join(t, r, "bob")

	aliceCh := connect(t, r, alice.PlayerID)
	r.coreCh <- requestFromUser{Who: alice.PlayerID, ID: "1", Cmd: []string{"start"}}
	awaitResponse(t, aliceCh, "1")

	rep := make(chan joinRep)
	r.coreCh <- joinMsg{Name: "carol", Rep: rep}
	jr := <-rep
	assert.Equal(t, game.ErrAlreadyStarted, jr.Err)
}

func TestRoom_duplicateName(t *testing.T) {
	r := newTestRoom(t)

	join(t, r, "alice")

	rep := make(chan joinRep)
	r.coreCh <- joinMsg{Name: "alice", Rep: rep}
	jr := <-rep
	assert.Equal(t, game.ErrPlayerExists, jr.Err)
}

func TestRoom_text(t *testing.T) {
	r := newTestRoom(t)

	alice := join(t, r, "alice")
	aliceCh := connect(t, r, alice.PlayerID)
	awaitUpdate(t, aliceCh) // the connect news

	r.coreCh <- textFromUser{Who: alice.PlayerID, Text: "hello"}
	update := awaitUpdate(t, aliceCh)
	require.Len(t, update.News, 1)
	assert.Equal(t, "alice", update.News[0].Who)
	assert.Equal(t, "says hello", update.News[0].What)
}

func TestRoom_saveAndLoad(t *testing.T) {
	dir := t.TempDir()
	h := newHistory(filepath.Join(dir, "history.jsonl"))
	r := newRoom("save01", "attic", h, dir)
	go r.run()
	defer func() { r.coreCh <- stopMsg{} }()

	alice := join(t, r, "alice")
	join(t, r, "bob")

	// wait for the loop to settle, a query is processed after the save
	rep := make(chan RoomInfo)
	r.coreCh <- queryMsg{Rep: rep}
	info := <-rep
	assert.Equal(t, []string{"alice", "bob"}, info.Players)

	path := filepath.Join(dir, "room-save01.json")
	_, err := os.Stat(path)
	require.NoError(t, err)

	r2, err := loadRoom(path, h, dir)
	require.NoError(t, err)
	assert.Equal(t, "save01", r2.id)
	assert.Equal(t, "attic", r2.name)
	assert.Equal(t, alice.PlayerID, r2.host)
	assert.Len(t, r2.players, 2)
	assert.Equal(t, game.StatusWaiting, r2.game.GetGameState().Status)
}
