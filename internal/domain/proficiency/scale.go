package proficiency

import (
	"math"
	"strings"
)

type Level string

const (
	Beginner     Level = "beginner"
	Intermediate Level = "intermediate"
	Advanced     Level = "advanced"
	Expert       Level = "expert"
)

const (
	MinRank = 1
	MaxRank = 4

	defaultRank = 2
)

var ranks = map[Level]int{
	Beginner:     1,
	Intermediate: 2,
	Advanced:     3,
	Expert:       4,
}

// ParseLevel normalises free-form input. Unknown values map to Intermediate.
func ParseLevel(raw string) Level {
	l := Level(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := ranks[l]; ok {
		return l
	}
	return Intermediate
}

func (l Level) Valid() bool {
	_, ok := ranks[l]
	return ok
}

func (l Level) String() string {
	return string(l)
}

func Rank(l Level) int {
	if r, ok := ranks[Level(strings.ToLower(string(l)))]; ok {
		return r
	}
	return defaultRank
}

func LevelForRank(r int) Level {
	switch {
	case r <= 1:
		return Beginner
	case r == 2:
		return Intermediate
	case r == 3:
		return Advanced
	default:
		return Expert
	}
}

// Compare returns how much of the required level the user level covers, in [0,100].
func Compare(user, required Level) float64 {
	u := Rank(user)
	r := Rank(required)
	if u >= r {
		return 100
	}
	return float64(u) / float64(r) * 100
}

// AverageRank is the half-up rounded mean rank of levels. No levels means Intermediate.
func AverageRank(levels []Level) int {
	if len(levels) == 0 {
		return defaultRank
	}
	sum := 0
	for _, l := range levels {
		sum += Rank(l)
	}
	avg := int(math.Floor(float64(sum)/float64(len(levels)) + 0.5))
	if avg < MinRank {
		return MinRank
	}
	if avg > MaxRank {
		return MaxRank
	}
	return avg
}

func Max(a, b Level) Level {
	if Rank(b) > Rank(a) {
		return b
	}
	return a
}
