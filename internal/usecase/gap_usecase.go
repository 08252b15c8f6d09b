package usecase

import (
	"context"

	"skillpath/internal/domain/gap"
	"skillpath/internal/repository"

	"github.com/google/uuid"
)

type GapUsecase interface {
	Analyze(ctx context.Context, profileID, targetID uuid.UUID) (gap.Report, error)
}

type Gap struct {
	profiles repository.ProfileRepository
	catalog  repository.CatalogRepository
	engine   Engine
}

func NewGapUsecase(profiles repository.ProfileRepository, catalog repository.CatalogRepository, engine Engine) *Gap {
	return &Gap{profiles: profiles, catalog: catalog, engine: engine}
}

// Analyze loads a fresh profile snapshot every call; reports are never cached.
func (u *Gap) Analyze(ctx context.Context, profileID, targetID uuid.UUID) (gap.Report, error) {
	if profileID == uuid.Nil || targetID == uuid.Nil {
		return gap.Report{}, ErrMalformedInput
	}
	p, err := u.profiles.Get(ctx, profileID)
	if err != nil {
		return gap.Report{}, translate(err)
	}
	reqs, err := u.catalog.FindRequirement(ctx, targetID)
	if err != nil {
		return gap.Report{}, translate(err)
	}
	return u.engine.Analyzer.Analyze(p, reqs), nil
}
