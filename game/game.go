package game

import (
	"fmt"
	"math/rand"
	"time"
)

const (
	// MinPlayers before the game can start.
	MinPlayers = 2
	// MaxPlayers at one table.
	MaxPlayers = 7
)

type CommandHandler func(*turn, CommandPattern, []string) (interface{}, error)

type game struct {
	cmds map[string]CommandHandler

	rng    *rand.Rand
	roller Roller

	supply  TileSupply
	players []player
	status  Status
	winner  string
	turnNo  int
	turn    *turn
}

func NewGame() Game {
	return NewGameWithSeed(time.Now().UnixNano())
}

func NewGameWithSeed(seed int64) Game {
	g := &game{}

	g.cmds = map[string]CommandHandler{}
	g.cmds["roll"] = g.turn_roll
	g.cmds["take"] = g.turn_take
	g.cmds["stop"] = g.turn_stop
	g.cmds["claim"] = g.turn_claim

	g.rng = rand.New(rand.NewSource(seed))
	g.roller = &randRoller{rng: g.rng}

	g.supply = NewTileSupply()
	g.status = StatusWaiting

	return g
}

// patterns is everything a player can ever ask for. The turn's Can list is a
// hint for clients; handlers do the real state checks so that the error says
// what was actually wrong.
var patterns = []CommandPattern{"roll", "take:*", "stop", "claim:*"}

// AddPlayer adds a player
func (g *game) AddPlayer(name string, colour string) error {
	if g.status != StatusWaiting {
		return ErrAlreadyStarted
	}
	for _, pl := range g.players {
		if pl.Name == name {
			return ErrPlayerExists
		}
	}
	if len(g.players) >= MaxPlayers {
		return ErrGameFull
	}

	g.players = append(g.players, player{
		Name:   name,
		Colour: colour,
	})

	return nil
}

// Start starts the game
func (g *game) Start() (TurnState, error) {
	if g.status != StatusWaiting {
		return TurnState{}, ErrAlreadyStarted
	}
	if len(g.players) < MinPlayers {
		return TurnState{}, ErrNotEnoughPlayers
	}

	g.rng.Shuffle(len(g.players), func(i, j int) {
		g.players[i], g.players[j] = g.players[j], g.players[i]
	})

	g.status = StatusPlaying
	g.toNextPlayer()

	return g.GetTurnState(), nil
}

// Play is the current player doing things
func (g *game) Play(player string, c Command) (PlayResult, error) {
	t := g.turn
	if g.status != StatusPlaying || t == nil {
		return PlayResult{}, ErrMatchNotActive
	}

	if t.player.Name != player {
		return PlayResult{}, ErrNotYourTurn
	}

	if c.Seq != 0 && c.Seq != t.Seq {
		return PlayResult{}, ErrStaleCommand
	}

	res, err := g.doPlay(t, c)
	if err != nil {
		return PlayResult{}, err
	}

	if err := g.checkTiles(); err != nil {
		// nothing recoverable left to do, surface as internal
		return PlayResult{}, err
	}

	t.Seq++

	news := t.news
	t.news = nil

	return PlayResult{res, news, g.GetTurnState()}, nil
}

func (g *game) doPlay(t *turn, c Command) (interface{}, error) {
	handler, ok := g.cmds[c.Command.First()]
	if !ok {
		return nil, ErrBadRequest
	}

	var pattern CommandPattern
	var args []string
	for _, p := range patterns {
		args = p.Match(c.Command)
		if args != nil {
			pattern = p
			break
		}
	}

	if args == nil {
		return nil, ErrBadRequest
	}

	return handler(t, pattern, args[1:])
}

// checkTiles verifies that the fixed tile set still exists exactly once
// across the supply and all stacks.
func (g *game) checkTiles() error {
	if g.status == StatusWaiting {
		return nil
	}

	seen := map[int]int{}
	for _, t := range g.supply {
		seen[t.Value]++
	}
	for _, pl := range g.players {
		for _, t := range pl.Stack {
			seen[t.Value]++
		}
	}

	for v := MinTileValue; v <= MaxTileValue; v++ {
		if seen[v] != 1 {
			return fmt.Errorf("tile set broken: %d appears %d times", v, seen[v])
		}
	}
	return nil
}

func (g *game) GetTurnState() TurnState {
	if g.turn == nil {
		return TurnState{
			Number: -1,
		}
	}

	t := g.turn

	return TurnState{
		Number:   t.Num,
		Player:   t.player.Name,
		Seq:      t.Seq,
		DiceLeft: t.DiceLeft,
		LastRoll: append([]Face{}, t.LastRoll...),
		Taken:    append([]Face{}, t.Taken...),
		Score:    t.Score,
		HasWorm:  t.HasWorm,
		Can:      append([]string{}, t.Can...),
	}
}

func (g *game) GetGameState() GameState {
	var players []PlayerState
	for _, pl := range g.players {
		players = append(players, PlayerState{
			Name:   pl.Name,
			Colour: pl.Colour,
			Stack:  append([]Tile{}, pl.Stack...),
			Worms:  pl.wormTotal(),
		})
	}

	playing := ""
	if g.turn != nil {
		playing = g.turn.player.Name
	}

	return GameState{
		Status:  g.status,
		Playing: playing,
		Winner:  g.winner,
		Supply:  append([]Tile{}, g.supply...),
		Players: players,
	}
}

func (g *game) toNextPlayer() {
	np := -1
	if g.turn != nil {
		np = g.turn.PlayerID
	}

	g.turnNo++
	np = (np + 1) % len(g.players)

	g.turn = &turn{
		Num:      g.turnNo,
		PlayerID: np,
		player:   &g.players[np],
		Seq:      1,
		DiceLeft: NumDice,
		Can:      []string{"roll"},
	}
}

type turn struct {
	// static state
	Num      int `json:"num"`
	PlayerID int `json:"player"`
	player   *player

	// Seq counts accepted commands within this turn
	Seq int `json:"seq"`

	DiceLeft int    `json:"diceLeft"`
	LastRoll []Face `json:"lastRoll"`
	Taken    []Face `json:"taken"`
	Score    int    `json:"score"`
	HasWorm  bool   `json:"hasWorm"`

	// things that the user can do now
	Can []string `json:"can"`

	// things that happened in this execution
	news []Change
}

func (t *turn) hasTaken(f Face) bool {
	for _, x := range t.Taken {
		if x == f {
			return true
		}
	}
	return false
}

func (t *turn) addEvent(msg string) {
	t.news = append(t.news, Change{Who: t.player.Name, What: msg})
}

func (t *turn) addEventf(format string, a ...interface{}) {
	msg := fmt.Sprintf(format, a...)
	t.news = append(t.news, Change{Who: t.player.Name, What: msg})
}

type player struct {
	Name   string `json:"name"`
	Colour string `json:"colour"`

	// Stack is ordered by acquisition, last is the top
	Stack []Tile `json:"stack"`
}

func (p *player) wormTotal() int {
	n := 0
	for _, t := range p.Stack {
		n += t.Worms
	}
	return n
}

func (p *player) topTile() (Tile, bool) {
	if len(p.Stack) == 0 {
		return Tile{}, false
	}
	return p.Stack[len(p.Stack)-1], true
}

func (p *player) popTile() (Tile, bool) {
	t, ok := p.topTile()
	if !ok {
		return Tile{}, false
	}
	p.Stack = p.Stack[:len(p.Stack)-1]
	return t, true
}
