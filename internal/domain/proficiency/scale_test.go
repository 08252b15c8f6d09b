package proficiency

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRank_FixedMapping(t *testing.T) {
	assert.Equal(t, 1, Rank(Beginner))
	assert.Equal(t, 2, Rank(Intermediate))
	assert.Equal(t, 3, Rank(Advanced))
	assert.Equal(t, 4, Rank(Expert))
	assert.Equal(t, 3, Rank(Level("ADVANCED")))
}

func TestRank_UnknownDefaultsToIntermediate(t *testing.T) {
	assert.Equal(t, 2, Rank(Level("guru")))
	assert.Equal(t, 2, Rank(Level("")))
	assert.Equal(t, Intermediate, ParseLevel("  nonsense "))
	assert.Equal(t, Expert, ParseLevel(" Expert "))
}

func TestCompare(t *testing.T) {
	for _, l := range []Level{Beginner, Intermediate, Advanced, Expert} {
		assert.Equal(t, 100.0, Compare(l, l), "level %s", l)
	}
	assert.Equal(t, 25.0, Compare(Beginner, Expert))
	assert.Equal(t, 75.0, Compare(Advanced, Expert))
	assert.Equal(t, 100.0, Compare(Expert, Beginner))
	assert.InDelta(t, 66.666, Compare(Intermediate, Advanced), 0.01)
}

func TestCompare_AlwaysWithinBounds(t *testing.T) {
	levels := []Level{Beginner, Intermediate, Advanced, Expert, Level("unknown")}
	for _, u := range levels {
		for _, r := range levels {
			got := Compare(u, r)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 100.0)
		}
	}
}

func TestAverageRank(t *testing.T) {
	assert.Equal(t, 2, AverageRank(nil))
	assert.Equal(t, 3, AverageRank([]Level{Advanced, Expert, Intermediate}))
	assert.Equal(t, 3, AverageRank([]Level{Intermediate, Advanced}))
	assert.Equal(t, 1, AverageRank([]Level{Beginner}))
}

func TestLevelForRank(t *testing.T) {
	assert.Equal(t, Beginner, LevelForRank(0))
	assert.Equal(t, Intermediate, LevelForRank(2))
	assert.Equal(t, Advanced, LevelForRank(3))
	assert.Equal(t, Expert, LevelForRank(9))
	assert.Equal(t, Expert, Max(Advanced, Expert))
}
