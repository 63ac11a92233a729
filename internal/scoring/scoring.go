// Package scoring computes Zonk points for a pool of six dice. Everything in
// here is pure: no state, no I/O.
package scoring

// PoolSize is the number of dice in a pool
const PoolSize = 6

const (
	// StraightPoints is awarded for 1-2-3-4-5-6 held together
	StraightPoints = 1500

	// ThreePairsPoints is awarded for three distinct values held twice each
	ThreePairsPoints = 750

	// SingleOnePoints is awarded per held 1 outside a set
	SingleOnePoints = 100

	// SingleFivePoints is awarded per held 5 outside a set
	SingleFivePoints = 50

	// OpeningMinimum is the round score needed to bank for the first time
	OpeningMinimum = 300
)

// Pool is six die values, each in [1,6]. Positions are stable across a turn.
type Pool [PoolSize]int

// Mask marks which positions of a Pool are held
type Mask [PoolSize]bool

// Count returns the number of held positions
func (m Mask) Count() int {
	n := 0
	for _, held := range m {
		if held {
			n++
		}
	}
	return n
}

// All reports whether every position is held
func (m Mask) All() bool {
	return m.Count() == PoolSize
}

// Score returns the points for the held dice of the pool. Unheld dice
// contribute nothing.
func Score(dice Pool, held Mask) int {
	values := make([]int, 0, PoolSize)
	for i, h := range held {
		if h {
			values = append(values, dice[i])
		}
	}
	return ScoreValues(values)
}

// ScoreValues returns the points for a set of die values taken together.
// Values outside [1,6] are ignored.
func ScoreValues(values []int) int {
	if len(values) == 0 {
		return 0
	}

	counts := countFaces(values)

	if isStraight(counts) {
		return StraightPoints
	}
	if isThreePairs(counts) {
		return ThreePairsPoints
	}

	score := 0
	for face := 1; face <= 6; face++ {
		if counts[face] >= 3 {
			score += setBase(face) * (counts[face] - 2)
			counts[face] = 0
		}
	}

	score += counts[1] * SingleOnePoints
	score += counts[5] * SingleFivePoints

	return score
}

// IsZonk reports whether freshly rolled dice contain nothing that scores:
// no 1, no 5, no three of a kind, and for a full pool neither three pairs
// nor a straight.
func IsZonk(rolled []int) bool {
	return ScoreValues(rolled) == 0
}

// IsHotDice reports whether every die is held and the held set scores
func IsHotDice(dice Pool, held Mask) bool {
	return held.All() && Score(dice, held) > 0
}

// CanBank applies the minimum-to-bank rule. A player who has never banked
// needs opening points, OpeningMinimum under standard rules; afterwards any
// positive round score will do.
func CanBank(banked, round, opening int) bool {
	if banked == 0 {
		return round >= opening && round > 0
	}
	return round > 0
}

// setBase is the three-of-a-kind value for a face; four, five and six of a
// kind multiply it by 2, 3 and 4.
func setBase(face int) int {
	if face == 1 {
		return 1000
	}
	return face * 100
}

// countFaces indexes counts by face value; index 0 is unused
func countFaces(values []int) [7]int {
	var counts [7]int
	for _, v := range values {
		if v >= 1 && v <= 6 {
			counts[v]++
		}
	}
	return counts
}

func isStraight(counts [7]int) bool {
	for face := 1; face <= 6; face++ {
		if counts[face] != 1 {
			return false
		}
	}
	return true
}

func isThreePairs(counts [7]int) bool {
	pairs := 0
	for face := 1; face <= 6; face++ {
		switch counts[face] {
		case 0:
		case 2:
			pairs++
		default:
			return false
		}
	}
	return pairs == 3
}
