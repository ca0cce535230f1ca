package game

import "io"

type Status string

const (
	StatusWaiting  Status = "waiting"
	StatusPlaying  Status = "playing"
	StatusFinished Status = "finished"
)

// TurnState is the broadcastable view of the turn in progress.
type TurnState struct {
	Number int    `json:"number"`
	Player string `json:"player"`
	Seq    int    `json:"seq"`

	DiceLeft int    `json:"diceLeft"`
	LastRoll []Face `json:"lastRoll"`
	Taken    []Face `json:"taken"`
	Score    int    `json:"score"`
	HasWorm  bool   `json:"hasWorm"`

	// things that the player can do now
	Can []string `json:"can"`
}

type PlayerState struct {
	Name   string `json:"name"`
	Colour string `json:"colour"`

	Stack []Tile `json:"stack"`
	Worms int    `json:"worms"`
}

type GameState struct {
	Status  Status        `json:"status"`
	Playing string        `json:"playing"`
	Winner  string        `json:"winner"`
	Supply  []Tile        `json:"supply"`
	Players []PlayerState `json:"players"`
}

// Change is one line of news about something that happened.
type Change struct {
	Who  string `json:"who"`
	What string `json:"what"`
}

// GameUpdate is what gets broadcast to everyone after a mutation.
type GameUpdate struct {
	News  []Change  `json:"news"`
	State GameState `json:"state"`
	Turn  TurnState `json:"turn"`
}

// PlayResult is the outcome of one accepted command.
type PlayResult struct {
	Response interface{}
	News     []Change
	Next     TurnState
}

// RollResult is the typed response to a roll command.
type RollResult struct {
	Roll   []Face `json:"roll"`
	Busted bool   `json:"busted"`
}

// TakeResult is the typed response to a take command.
type TakeResult struct {
	Face  Face `json:"face"`
	Count int  `json:"count"`
	Score int  `json:"score"`
}

type Game interface {
	// activities
	AddPlayer(name string, colour string) error
	Start() (TurnState, error)
	Play(player string, c Command) (PlayResult, error)

	// general state
	GetGameState() GameState
	GetTurnState() TurnState

	// admin
	WriteOut(io.Writer) error
}
