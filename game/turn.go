package game

import "strconv"

func (g *game) turn_roll(t *turn, c CommandPattern, args []string) (interface{}, error) {
	if len(t.LastRoll) > 0 {
		// a face must be taken first
		return nil, ErrInvalidState
	}
	if t.DiceLeft == 0 {
		return nil, ErrInvalidState
	}

	roll := g.roller.Roll(t.DiceLeft)
	t.addEventf("rolls %s", formatRoll(roll))

	eligible := false
	for _, f := range roll {
		if !t.hasTaken(f) {
			eligible = true
			break
		}
	}

	if !eligible {
		// busted: the roll is wasted, no dice are consumed, no score changes
		t.addEvent("goes bust")
		g.resolveTurn(t)
		return RollResult{Roll: roll, Busted: true}, nil
	}

	t.LastRoll = roll
	t.Can = []string{"take:*"}

	return RollResult{Roll: roll}, nil
}

func (g *game) turn_take(t *turn, c CommandPattern, args []string) (interface{}, error) {
	face, ok := ParseFace(args[0])
	if !ok {
		return nil, ErrBadRequest
	}

	if t.hasTaken(face) {
		return nil, ErrFaceCommitted
	}

	count := 0
	for _, f := range t.LastRoll {
		if f == face {
			count++
		}
	}
	if count == 0 {
		return nil, ErrFaceNotRolled
	}

	t.Score += FaceValue(face) * count
	t.DiceLeft -= count
	t.Taken = append(t.Taken, face)
	if face == Worm {
		t.HasWorm = true
	}
	t.LastRoll = nil

	t.addEventf("takes %d of %s, now at %d", count, face, t.Score)

	res := TakeResult{Face: face, Count: count, Score: t.Score}

	if t.DiceLeft == 0 {
		t.addEvent("is out of dice")
		g.resolveTurn(t)
		return res, nil
	}

	t.Can = []string{"roll", "stop", "claim:*"}

	return res, nil
}

func (g *game) turn_stop(t *turn, c CommandPattern, args []string) (interface{}, error) {
	if len(t.LastRoll) > 0 {
		// once rolled, a face must be taken
		return nil, ErrNotNow
	}

	t.addEventf("stops at %d", t.Score)
	g.resolveTurn(t)

	return nil, nil
}

// turn_claim is the strict variant of stopping: the player names the exact
// tile they are ending their turn on. It never allows anything the normal
// precedence wouldn't give them.
func (g *game) turn_claim(t *turn, c CommandPattern, args []string) (interface{}, error) {
	if len(t.LastRoll) > 0 {
		return nil, ErrNotNow
	}

	value, err := strconv.Atoi(args[0])
	if err != nil {
		return nil, ErrBadRequest
	}

	if !t.HasWorm || t.Score < MinTileValue {
		return nil, ErrIllegalClaim
	}

	target, ok := g.claimTarget(t)
	if !ok || target != value {
		return nil, ErrIllegalClaim
	}

	t.addEventf("claims tile %d", value)
	g.resolveTurn(t)

	return nil, nil
}
