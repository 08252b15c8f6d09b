package usecase

import (
	"context"

	"skillpath/internal/domain/proficiency"
	"skillpath/internal/domain/profile"
	"skillpath/internal/repository"

	"github.com/google/uuid"
)

type ProfileUsecase interface {
	CompleteCourse(ctx context.Context, profileID, courseID uuid.UUID) (profile.SkillProfile, error)
}

type Profile struct {
	profiles repository.ProfileRepository
	catalog  repository.CatalogRepository
}

func NewProfileUsecase(profiles repository.ProfileRepository, catalog repository.CatalogRepository) *Profile {
	return &Profile{profiles: profiles, catalog: catalog}
}

// CompleteCourse raises every skill the course teaches to at least the course level.
// Skills already above it are left alone.
func (u *Profile) CompleteCourse(ctx context.Context, profileID, courseID uuid.UUID) (profile.SkillProfile, error) {
	p, err := u.profiles.Get(ctx, profileID)
	if err != nil {
		return profile.SkillProfile{}, translate(err)
	}
	c, err := u.catalog.FindCourse(ctx, courseID)
	if err != nil {
		return profile.SkillProfile{}, translate(err)
	}

	for _, name := range c.SkillsTaught {
		s, ok := p.Find(name)
		if !ok {
			s = profile.Skill{Name: name, Level: c.Level}
		} else if proficiency.Rank(s.Level) >= proficiency.Rank(c.Level) {
			continue
		}
		s.Level = proficiency.Max(s.Level, c.Level)
		if err := u.profiles.UpsertSkill(ctx, profileID, s); err != nil {
			return profile.SkillProfile{}, translate(err)
		}
	}

	updated, err := u.profiles.Get(ctx, profileID)
	if err != nil {
		return profile.SkillProfile{}, translate(err)
	}
	return updated, nil
}
