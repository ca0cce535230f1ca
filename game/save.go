package game

import (
	"encoding/json"
	"io"
)

type gameSave struct {
	Status  Status     `json:"status"`
	Winner  string     `json:"winner"`
	Supply  TileSupply `json:"supply"`
	Players []player   `json:"players"`
	TurnNo  int        `json:"turnNo"`
	Turn    *turn      `json:"turn"`
}

func (g *game) WriteOut(w io.Writer) error {
	out := gameSave{
		Status:  g.status,
		Winner:  g.winner,
		Supply:  g.supply,
		Players: g.players,
		TurnNo:  g.turnNo,
		Turn:    g.turn,
	}

	jdata, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}

	_, err = w.Write(jdata)
	return err
}

func NewFromSaved(r io.Reader) (Game, error) {
	g := NewGame().(*game)

	injson := json.NewDecoder(r)
	save := gameSave{}
	err := injson.Decode(&save)
	if err != nil {
		return nil, err
	}

	g.status = save.Status
	g.winner = save.Winner
	g.supply = save.Supply
	g.players = save.Players
	g.turnNo = save.TurnNo
	g.turn = save.Turn
	if g.turn != nil {
		// relink the live player pointer
		g.turn.player = &g.players[g.turn.PlayerID]
	}

	return g, nil
}
