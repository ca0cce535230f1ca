package server

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"time"

	"wormpot/comms"
	"wormpot/game"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	errNotHost       = &game.GameError{Code: "NOTHOST", Msg: "only the host can start the game"}
	errUnknownPlayer = &game.GameError{Code: "UNKNOWNPLAYER", Msg: "no such player in this room"}
)

// room owns one game. Everything that touches the game goes through coreCh
// and is handled by one goroutine, so operations on a room happen strictly in
// arrival order. Different rooms run independently.
type room struct {
	id   string
	name string
	host string

	game game.Game

	players  map[string]roomPlayer
	watchers map[string]string
	clients  map[string]*clientBundle

	coreCh chan interface{}

	history *history
	dataDir string

	dirty    bool
	recorded bool

	log zerolog.Logger
}

func newRoom(id, name string, history *history, dataDir string) *room {
	return &room{
		id:       id,
		name:     name,
		game:     game.NewGame(),
		players:  map[string]roomPlayer{},
		watchers: map[string]string{},
		clients:  map[string]*clientBundle{},
		coreCh:   make(chan interface{}, 100),
		history:  history,
		dataDir:  dataDir,
		log:      log.With().Str("room", id).Logger(),
	}
}

// run is the room's main loop.
func (r *room) run() {
	for in := range r.coreCh {
		if _, ok := in.(stopMsg); ok {
			r.shutdown()
			return
		}

		news := r.processMessage(in)

		if r.dirty {
			r.save()
			r.dirty = false
		}

		if len(news) > 0 {
			r.broadcastUpdate(news)
			r.notifyTurn()
			r.recordIfFinished()
		}
	}
}

func (r *room) shutdown() {
	r.log.Info().Msg("room stopping")
	r.wipe()
	for _, c := range r.clients {
		close(c.downCh)
	}
	r.clients = map[string]*clientBundle{}
}

func (r *room) processMessage(in interface{}) []game.Change {
	switch msg := in.(type) {
	case joinMsg:
		return r.handleJoin(msg)

	case connectMsg:
		name, ok := r.nameFor(msg.PlayerID)
		if !ok {
			msg.Rep <- errUnknownPlayer
			return nil
		}
		if old, exists := r.clients[msg.PlayerID]; exists {
			close(old.downCh)
		}
		r.clients[msg.PlayerID] = &msg.Client
		msg.Rep <- nil
		return []game.Change{{Who: name, What: "connects"}}

	case disconnectMsg:
		c, ok := r.clients[msg.PlayerID]
		if !ok {
			return nil
		}
		close(c.downCh)
		delete(r.clients, msg.PlayerID)
		name, _ := r.nameFor(msg.PlayerID)
		r.log.Info().Msgf("client gone: %s", name)
		return []game.Change{{Who: name, What: "disconnects"}}

	case textFromUser:
		name, ok := r.nameFor(msg.Who)
		if !ok {
			return nil
		}
		return []game.Change{{Who: name, What: "says " + msg.Text}}

	case requestFromUser:
		return r.handleRequest(msg)

	case queryMsg:
		msg.Rep <- r.info()
		return nil

	default:
		r.log.Warn().Msgf("nonsense in core: %#v", in)
	}
	return nil
}

func (r *room) handleJoin(msg joinMsg) []game.Change {
	if msg.Watch {
		id := newPlayerID()
		r.watchers[id] = msg.Name
		msg.Rep <- joinRep{PlayerID: id, Code: encodeConnectString(r.id, id)}
		return []game.Change{{Who: msg.Name, What: "watches"}}
	}

	err := r.game.AddPlayer(msg.Name, msg.Colour)
	if err != nil {
		msg.Rep <- joinRep{Err: err}
		return nil
	}

	id := newPlayerID()
	r.players[id] = roomPlayer{ID: id, Name: msg.Name, Colour: msg.Colour}
	if r.host == "" {
		r.host = id
	}
	r.dirty = true

	msg.Rep <- joinRep{PlayerID: id, Code: encodeConnectString(r.id, id)}
	return []game.Change{{Who: msg.Name, What: "joins"}}
}

func (r *room) handleRequest(in requestFromUser) []game.Change {
	res, news := r.parseRequest(in)()

	if c, ok := r.clients[in.Who]; ok {
		select {
		case c.downCh <- responseToUser{ID: in.ID, Body: res}:
		default:
			// client lagging
			r.log.Info().Msgf("client lagging: %s", in.Who)
		}
	}

	return news
}

type requestFunc func() (forUser interface{}, forEveryone []game.Change)

func (r *room) parseRequest(in requestFromUser) requestFunc {
	fail := func(err error) requestFunc {
		return func() (interface{}, []game.Change) {
			return comms.PlayResponse{Err: comms.WrapError(err)}, nil
		}
	}

	if len(in.Cmd) == 0 {
		return fail(game.ErrBadRequest)
	}

	switch in.Cmd[0] {
	case "start":
		return func() (interface{}, []game.Change) {
			if in.Who != r.host {
				return comms.PlayResponse{Err: comms.WrapError(errNotHost)}, nil
			}
			_, err := r.game.Start()
			if err != nil {
				return comms.PlayResponse{Err: comms.WrapError(err)}, nil
			}
			r.dirty = true
			return comms.PlayResponse{}, []game.Change{{What: "the game starts"}}
		}

	case "play":
		pl, ok := r.players[in.Who]
		if !ok {
			return fail(errUnknownPlayer)
		}

		cmd := game.Command{}
		if err := json.Unmarshal(in.Body, &cmd); err != nil {
			return fail(game.ErrBadRequest)
		}

		return func() (interface{}, []game.Change) {
			res, err := r.game.Play(pl.Name, cmd)
			if err != nil {
				if _, isGame := err.(*game.GameError); !isGame {
					// something inside the rules broke, not the player's fault
					r.log.Error().Err(err).Msg("internal game error")
				}
				return comms.PlayResponse{Err: comms.WrapError(err)}, nil
			}
			r.dirty = true
			return comms.PlayResponse{Msg: res.Response}, res.News
		}

	case "state":
		return func() (interface{}, []game.Change) {
			return game.GameUpdate{State: r.game.GetGameState(), Turn: r.game.GetTurnState()}, nil
		}

	default:
		return fail(game.ErrBadRequest)
	}
}

// broadcastUpdate sends the news and a full snapshot to everyone in the room.
func (r *room) broadcastUpdate(news []game.Change) {
	update := game.GameUpdate{
		News:  news,
		State: r.game.GetGameState(),
		Turn:  r.game.GetTurnState(),
	}

	msg, err := comms.Encode("update", update)
	if err != nil {
		r.log.Error().Err(err).Msg("failed to encode update")
		return
	}

	for id, c := range r.clients {
		select {
		case c.downCh <- msg:
		default:
			// client lagging
			r.log.Info().Msgf("client lagging: %s", id)
		}
	}
}

// notifyTurn tells the active player it is their move.
func (r *room) notifyTurn() {
	ts := r.game.GetTurnState()
	if ts.Number < 0 {
		return
	}

	id, ok := r.playerIDByName(ts.Player)
	if !ok {
		return
	}
	c, ok := r.clients[id]
	if !ok {
		r.log.Info().Msgf("current player not connected: %s", ts.Player)
		return
	}

	msg, err := comms.Encode("turn", ts)
	if err != nil {
		r.log.Error().Err(err).Msg("failed to encode turn")
		return
	}

	select {
	case c.downCh <- msg:
	default:
		r.log.Info().Msgf("client lagging: %s", ts.Player)
	}
}

// recordIfFinished appends the result record once the game ends, and wipes
// the state file.
func (r *room) recordIfFinished() {
	if r.recorded {
		return
	}
	state := r.game.GetGameState()
	if state.Status != game.StatusFinished {
		return
	}
	r.recorded = true

	rec := MatchRecord{Room: r.name, Timestamp: time.Now().UTC()}
	for _, ps := range state.Players {
		id, _ := r.playerIDByName(ps.Name)
		mp := MatchPlayer{ID: id, Name: ps.Name, Worms: ps.Worms}
		rec.Players = append(rec.Players, mp)
		if ps.Name == state.Winner {
			rec.Winner = mp
		}
	}

	if err := r.history.Append(rec); err != nil {
		r.log.Error().Err(err).Msg("cannot record result")
	}

	r.wipe()
}

func (r *room) info() RoomInfo {
	state := r.game.GetGameState()
	players := []string{}
	for _, p := range state.Players {
		players = append(players, p.Name)
	}
	return RoomInfo{ID: r.id, Name: r.name, Status: state.Status, Players: players}
}

func (r *room) nameFor(playerID string) (string, bool) {
	if pl, ok := r.players[playerID]; ok {
		return pl.Name, true
	}
	if name, ok := r.watchers[playerID]; ok {
		return name, true
	}
	return "", false
}

func (r *room) playerIDByName(name string) (string, bool) {
	for id, pl := range r.players {
		if pl.Name == name {
			return id, true
		}
	}
	return "", false
}

type roomSave struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Host    string          `json:"host"`
	Players []roomPlayer    `json:"players"`
	Game    json.RawMessage `json:"game"`
}

func (r *room) saveFileName() string {
	return filepath.Join(r.dataDir, "room-"+r.id+".json")
}

func (r *room) save() {
	var buf bytes.Buffer
	if err := r.game.WriteOut(&buf); err != nil {
		r.log.Error().Err(err).Msg("can't save")
		return
	}

	players := make([]roomPlayer, 0, len(r.players))
	for _, p := range r.players {
		players = append(players, p)
	}
	sort.Slice(players, func(i, j int) bool { return players[i].ID < players[j].ID })

	out := roomSave{
		ID:      r.id,
		Name:    r.name,
		Host:    r.host,
		Players: players,
		Game:    buf.Bytes(),
	}

	jdata, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		r.log.Error().Err(err).Msg("can't save")
		return
	}

	if err := os.WriteFile(r.saveFileName(), jdata, 0644); err != nil {
		r.log.Error().Err(err).Msg("can't save")
	}
}

func (r *room) wipe() {
	err := os.Remove(r.saveFileName())
	if err != nil && !os.IsNotExist(err) {
		r.log.Error().Err(err).Msg("can't delete")
	}
}

func loadRoom(path string, history *history, dataDir string) (*room, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	save := roomSave{}
	if err := json.Unmarshal(data, &save); err != nil {
		return nil, err
	}

	g, err := game.NewFromSaved(bytes.NewReader(save.Game))
	if err != nil {
		return nil, err
	}

	r := newRoom(save.ID, save.Name, history, dataDir)
	r.game = g
	r.host = save.Host
	for _, p := range save.Players {
		r.players[p.ID] = p
	}
	r.recorded = g.GetGameState().Status == game.StatusFinished

	return r, nil
}
