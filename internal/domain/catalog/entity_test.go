package catalog

import (
	"testing"

	"skillpath/internal/domain/policy"

	"github.com/stretchr/testify/assert"
)

func TestParseImportance(t *testing.T) {
	assert.Equal(t, MustHave, ParseImportance(" Must-Have "))
	assert.Equal(t, NiceToHave, ParseImportance("nice-to-have"))
	assert.Equal(t, Preferred, ParseImportance("preferred"))
	assert.Equal(t, Preferred, ParseImportance("whatever"))
	assert.Equal(t, Preferred, ParseImportance(""))
}

func TestRequirement_EffectiveWeight(t *testing.T) {
	w := policy.Default().Importance

	assert.Equal(t, 3.0, Requirement{Importance: MustHave}.EffectiveWeight(w))
	assert.Equal(t, 2.0, Requirement{Importance: Preferred}.EffectiveWeight(w))
	assert.Equal(t, 1.0, Requirement{Importance: NiceToHave}.EffectiveWeight(w))
	assert.Equal(t, 7.5, Requirement{Importance: NiceToHave, Weight: 7.5}.EffectiveWeight(w))
	assert.Equal(t, 3.0, Requirement{Importance: MustHave, Weight: -1}.EffectiveWeight(w))
}

func TestRequirementSet_SkillNames(t *testing.T) {
	s := RequirementSet{Requirements: []Requirement{{SkillName: "Go"}, {SkillName: "SQL"}}}
	assert.Equal(t, []string{"Go", "SQL"}, s.SkillNames())
	assert.Empty(t, RequirementSet{}.SkillNames())
}
