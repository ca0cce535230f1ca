package game

// resolveTurn settles what the player keeps or loses. It runs exactly once
// per turn, whether the player stopped, busted, or ran out of dice. After it,
// either the game is finished or it is the next player's turn.
func (g *game) resolveTurn(t *turn) {
	if !t.HasWorm || t.Score < MinTileValue {
		g.forfeit(t)
	} else if !g.executeClaim(t) {
		g.forfeit(t)
	}

	if g.supply.Empty() {
		g.finish(t)
		return
	}

	g.toNextPlayer()
}

// claimTarget is which tile value the precedence rules would give for the
// turn's score: the exact tile from the supply, else the same value off
// another stack's top, else the highest supply tile below the score.
func (g *game) claimTarget(t *turn) (int, bool) {
	if g.supply.Contains(t.Score) {
		return t.Score, true
	}
	for i := range g.players {
		pl := &g.players[i]
		if pl == t.player {
			continue
		}
		if top, ok := pl.topTile(); ok && top.Value == t.Score {
			return t.Score, true
		}
	}
	if tile, ok := g.supply.HighestBelow(t.Score); ok {
		return tile.Value, true
	}
	return 0, false
}

// executeClaim moves the claimed tile onto the player's stack, in the same
// strict order as claimTarget. False means nothing was claimable.
func (g *game) executeClaim(t *turn) bool {
	if tile, rest, ok := g.supply.TakeExact(t.Score); ok {
		g.supply = rest
		t.player.Stack = append(t.player.Stack, tile)
		t.addEventf("takes tile %d from the pot", tile.Value)
		return true
	}

	for i := range g.players {
		pl := &g.players[i]
		if pl == t.player {
			continue
		}
		if top, ok := pl.topTile(); ok && top.Value == t.Score {
			pl.popTile()
			t.player.Stack = append(t.player.Stack, top)
			t.addEventf("steals tile %d from %s", top.Value, pl.Name)
			return true
		}
	}

	if tile, rest, ok := g.supply.TakeBelow(t.Score); ok {
		g.supply = rest
		t.player.Stack = append(t.player.Stack, tile)
		t.addEventf("settles for tile %d", tile.Value)
		return true
	}

	return false
}

// forfeit returns the player's top tile to the supply, if they have one.
func (g *game) forfeit(t *turn) {
	tile, ok := t.player.popTile()
	if !ok {
		t.addEvent("comes away with nothing")
		return
	}

	g.supply = g.supply.Return(tile)
	t.addEventf("puts tile %d back", tile.Value)
}

func (g *game) finish(t *turn) {
	g.status = StatusFinished
	g.turn = nil
	g.winner = g.computeWinner()

	t.addEventf("ends the game, %s wins", g.winner)
}

// computeWinner is the player with the most worms across their stack. Ties go
// to whoever comes first in play order, so the result is deterministic.
func (g *game) computeWinner() string {
	winner := ""
	best := -1
	for _, pl := range g.players {
		if w := pl.wormTotal(); w > best {
			best = w
			winner = pl.Name
		}
	}
	return winner
}
