package game

// Tile is one claimable tile. Value is the number printed on it, Worms is
// what it scores at the end. Tiles are never changed, only moved between the
// supply and player stacks.
type Tile struct {
	Value int `json:"value"`
	Worms int `json:"worms"`
}

const (
	// MinTileValue is the lowest tile, and also the minimum qualifying score.
	MinTileValue = 21
	// MaxTileValue is the highest tile.
	MaxTileValue = 36
)

func NewTile(value int) Tile {
	return Tile{Value: value, Worms: wormsFor(value)}
}

// wormsFor gives the worm count for a tile value: 21-24 have one worm, and
// each block of four above that has one more.
func wormsFor(value int) int {
	return (value-MinTileValue)/4 + 1
}

// TileSupply is the shared pot of tiles, kept sorted ascending by value,
// unique by value.
type TileSupply []Tile

func NewTileSupply() TileSupply {
	supply := TileSupply{}
	for v := MinTileValue; v <= MaxTileValue; v++ {
		supply = append(supply, NewTile(v))
	}
	return supply
}

// TakeExact removes the tile with the given value.
func (s TileSupply) TakeExact(value int) (Tile, TileSupply, bool) {
	for i, t := range s {
		if t.Value == value {
			out := TileSupply{}
			out = append(out, s[:i]...)
			out = append(out, s[i+1:]...)
			return t, out, true
		}
	}
	return Tile{}, s, false
}

// TakeBelow removes the tile with the largest value strictly less than the
// given value.
func (s TileSupply) TakeBelow(value int) (Tile, TileSupply, bool) {
	best := -1
	for i, t := range s {
		if t.Value < value {
			// sorted ascending, so the last hit is the largest
			best = i
		}
	}
	if best < 0 {
		return Tile{}, s, false
	}
	t := s[best]
	out := TileSupply{}
	out = append(out, s[:best]...)
	out = append(out, s[best+1:]...)
	return t, out, true
}

// Return puts a forfeited tile back, keeping the supply sorted.
func (s TileSupply) Return(tile Tile) TileSupply {
	out := TileSupply{}
	added := false
	for _, t := range s {
		if !added && tile.Value < t.Value {
			out = append(out, tile)
			added = true
		}
		out = append(out, t)
	}
	if !added {
		out = append(out, tile)
	}
	return out
}

func (s TileSupply) Contains(value int) bool {
	for _, t := range s {
		if t.Value == value {
			return true
		}
	}
	return false
}

// HighestBelow is the non-removing version of TakeBelow.
func (s TileSupply) HighestBelow(value int) (Tile, bool) {
	var best Tile
	found := false
	for _, t := range s {
		if t.Value < value {
			best = t
			found = true
		}
	}
	return best, found
}

func (s TileSupply) Empty() bool {
	return len(s) == 0
}
