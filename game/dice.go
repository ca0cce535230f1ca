package game

import (
	"math/rand"
	"strings"
)

// Face is one die face: "1" to "5", or "w" for the worm.
type Face string

// Worm is the face that must be taken at least once before any tile can be
// claimed. It scores 5.
const Worm Face = "w"

// NumDice is how many dice a player starts their turn with.
const NumDice = 8

var allFaces = []Face{"1", "2", "3", "4", "5", Worm}

// FaceValue is what one die showing this face adds to the turn score.
func FaceValue(f Face) int {
	switch f {
	case "1":
		return 1
	case "2":
		return 2
	case "3":
		return 3
	case "4":
		return 4
	case "5":
		return 5
	case Worm:
		return 5
	}
	return 0
}

func ParseFace(s string) (Face, bool) {
	f := Face(s)
	for _, x := range allFaces {
		if f == x {
			return f, true
		}
	}
	return "", false
}

// Roller produces dice rolls. It is a separate thing so that tests can
// script exact rolls.
type Roller interface {
	Roll(n int) []Face
}

type randRoller struct {
	rng *rand.Rand
}

func (r *randRoller) Roll(n int) []Face {
	out := make([]Face, n)
	for i := range out {
		out[i] = allFaces[r.rng.Intn(len(allFaces))]
	}
	return out
}

func formatRoll(roll []Face) string {
	ss := make([]string, len(roll))
	for i, f := range roll {
		ss[i] = string(f)
	}
	return strings.Join(ss, " ")
}
