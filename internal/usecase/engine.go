package usecase

import (
	"skillpath/internal/domain/gap"
	"skillpath/internal/domain/learningpath"
	"skillpath/internal/domain/matching"
	"skillpath/internal/domain/policy"
	"skillpath/internal/domain/skill"
)

// Engine bundles the pure domain components built from one policy and synonym table.
type Engine struct {
	Policy   policy.Policy
	Resolver *skill.Resolver
	Analyzer *gap.Analyzer
	Scorer   *matching.Scorer
	Builder  *learningpath.Builder
}

func NewEngine(p policy.Policy, synonyms map[string][]string) Engine {
	if synonyms == nil {
		synonyms = skill.DefaultSynonyms
	}
	resolver := skill.NewResolver(synonyms, p.StrictAliasing)
	return Engine{
		Policy:   p,
		Resolver: resolver,
		Analyzer: gap.NewAnalyzer(resolver, p.Importance),
		Scorer:   matching.NewScorer(resolver, p),
		Builder:  learningpath.NewBuilder(resolver, p.Path),
	}
}
