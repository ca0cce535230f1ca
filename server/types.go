package server

import "wormpot/game"

// RoomInfo is the public summary of one room.
type RoomInfo struct {
	ID      string      `json:"id"`
	Name    string      `json:"name"`
	Status  game.Status `json:"status"`
	Players []string    `json:"players"`
}

// roomPlayer is a seat at the table: a stable id plus the display name the
// game knows the player by.
type roomPlayer struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Colour string `json:"colour"`
}

// clientBundle is the downstream half of one connection.
type clientBundle struct {
	downCh chan interface{}
}

// toSend wraps anything for the downstream encoder.
type toSend struct {
	mtype string
	data  interface{}
}

type joinMsg struct {
	Name   string
	Colour string
	Watch  bool
	Rep    chan joinRep
}

type joinRep struct {
	PlayerID string
	Code     string
	Err      error
}

type connectMsg struct {
	PlayerID string
	Client   clientBundle
	Rep      chan error
}

type disconnectMsg struct {
	PlayerID string
}

type textFromUser struct {
	Who  string
	Text string
}

type requestFromUser struct {
	Who  string
	ID   string
	Cmd  []string
	Body []byte
}

type responseToUser struct {
	ID   string
	Body interface{}
}

type queryMsg struct {
	Rep chan RoomInfo
}

// stopMsg shuts a room's loop down.
type stopMsg struct{}
