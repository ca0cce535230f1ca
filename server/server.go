package server

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"wormpot/game"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

var errRoomNotFound = errors.New("room not found")

type Server interface {
	Run(ctx context.Context) error
}

func NewServer(cfg Config) Server {
	s := &server{
		cfg:     cfg,
		history: newHistory(cfg.HistoryFile),
		rooms:   map[string]*room{},
	}
	s.loadRooms()
	return s
}

// server is the room registry. The lock covers only the map; everything that
// touches a game goes through that room's own channel, so rooms never block
// each other.
type server struct {
	cfg     Config
	history *history

	mu    sync.Mutex
	rooms map[string]*room
}

func (s *server) loadRooms() {
	files, err := os.ReadDir(s.cfg.DataDir)
	if err != nil {
		log.Error().Err(err).Msg("not loading anything")
		return
	}

	for _, f := range files {
		fname := f.Name()
		if !strings.HasPrefix(fname, "room-") || !strings.HasSuffix(fname, ".json") {
			continue
		}

		r, err := loadRoom(filepath.Join(s.cfg.DataDir, fname), s.history, s.cfg.DataDir)
		if err != nil {
			log.Error().Err(err).Str("file", fname).Msg("cannot restore room")
			continue
		}

		s.rooms[r.id] = r
		go r.run()
		r.log.Info().Msg("loaded room")
	}
}

func (s *server) Run(ctx context.Context) error {
	log.Info().Msg("server running")
	defer log.Info().Msg("server stopping")

	grp, gctx := errgroup.WithContext(ctx)
	grp.Go(func() error {
		return runWebGateway(gctx, s, s.cfg.WebAddr)
	})
	grp.Go(func() error {
		return runTcpGateway(gctx, s, s.cfg.TCPAddr)
	})
	return grp.Wait()
}

func (s *server) room(id string) (*room, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[id]
	return r, ok
}

func (s *server) CreateRoom(name string) RoomInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := RandomString(6)
	for {
		if _, exists := s.rooms[id]; !exists {
			break
		}
		id = RandomString(6)
	}

	r := newRoom(id, name, s.history, s.cfg.DataDir)
	s.rooms[id] = r
	go r.run()

	r.log.Info().Msg("created room")

	return RoomInfo{ID: id, Name: name, Status: game.StatusWaiting, Players: []string{}}
}

func (s *server) ListRooms() []RoomInfo {
	s.mu.Lock()
	rooms := make([]*room, 0, len(s.rooms))
	for _, r := range s.rooms {
		rooms = append(rooms, r)
	}
	s.mu.Unlock()

	out := []RoomInfo{}
	for _, r := range rooms {
		rep := make(chan RoomInfo)
		r.coreCh <- queryMsg{Rep: rep}
		out = append(out, <-rep)
	}
	return out
}

func (s *server) QueryRoom(id string) (RoomInfo, bool) {
	r, ok := s.room(id)
	if !ok {
		return RoomInfo{}, false
	}
	rep := make(chan RoomInfo)
	r.coreCh <- queryMsg{Rep: rep}
	return <-rep, true
}

func (s *server) DeleteRoom(id string) bool {
	s.mu.Lock()
	r, ok := s.rooms[id]
	if ok {
		delete(s.rooms, id)
	}
	s.mu.Unlock()

	if !ok {
		return false
	}

	r.coreCh <- stopMsg{}
	r.log.Info().Msg("deleted room")
	return true
}

func (s *server) Join(roomId, name, colour string, watch bool) (joinRep, error) {
	r, ok := s.room(roomId)
	if !ok {
		return joinRep{}, errRoomNotFound
	}

	rep := make(chan joinRep)
	r.coreCh <- joinMsg{Name: name, Colour: colour, Watch: watch, Rep: rep}
	return <-rep, nil
}

func (s *server) Connect(roomId, playerId string, client clientBundle) error {
	r, ok := s.room(roomId)
	if !ok {
		return errRoomNotFound
	}

	rep := make(chan error)
	r.coreCh <- connectMsg{PlayerID: playerId, Client: client, Rep: rep}
	return <-rep
}

// Deliver drops a message into a room's loop, if the room exists.
func (s *server) Deliver(roomId string, in interface{}) bool {
	r, ok := s.room(roomId)
	if !ok {
		return false
	}
	r.coreCh <- in
	return true
}
