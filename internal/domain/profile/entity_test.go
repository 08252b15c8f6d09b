package profile

import (
	"testing"

	"skillpath/internal/domain/proficiency"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSkillProfile_UpsertIsCaseInsensitive(t *testing.T) {
	var p SkillProfile
	p.Upsert(Skill{Name: "Go", Level: proficiency.Beginner, Score: 140})
	p.Upsert(Skill{Name: "  go ", Level: proficiency.Advanced, Score: 80})
	p.Upsert(Skill{Name: "SQL", Level: proficiency.Intermediate})
	p.Upsert(Skill{Name: "   "})

	require.Len(t, p.Skills, 2)
	s, ok := p.Find("GO")
	require.True(t, ok)
	assert.Equal(t, proficiency.Advanced, s.Level)
	assert.Equal(t, 80.0, s.Score)
}

func TestSkillProfile_Clone(t *testing.T) {
	p := SkillProfile{Skills: []Skill{{Name: "Go"}}, PreferredRoles: []string{"backend"}}
	c := p.Clone()
	c.Skills[0].Name = "Rust"
	c.PreferredRoles[0] = "frontend"

	assert.Equal(t, "Go", p.Skills[0].Name)
	assert.Equal(t, "backend", p.PreferredRoles[0])
}
