package seeder

import (
	"context"
	"fmt"
	"io"
	"strings"

	"skillpath/internal/database"
	"skillpath/internal/domain/catalog"
	"skillpath/internal/domain/proficiency"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// catalogNamespace derives stable IDs from titles so reseeding is a no-op.
var catalogNamespace = uuid.MustParse("5b0c8e0e-3f3c-4d8e-9a55-6f1f2a7c9d41")

type CatalogFile struct {
	Jobs    []JobEntry    `yaml:"jobs"`
	Roles   []RoleEntry   `yaml:"roles"`
	Courses []CourseEntry `yaml:"courses"`
}

type RequirementEntry struct {
	Skill      string  `yaml:"skill"`
	Importance string  `yaml:"importance"`
	Minimum    string  `yaml:"minimum"`
	Weight     float64 `yaml:"weight"`
}

type JobEntry struct {
	Title              string             `yaml:"title"`
	Company            string             `yaml:"company"`
	City               string             `yaml:"city"`
	WorkMode           string             `yaml:"work_mode"`
	Categories         []string           `yaml:"categories"`
	MinExperienceYears int                `yaml:"min_experience_years"`
	Requirements       []RequirementEntry `yaml:"requirements"`
}

type RoleEntry struct {
	Title        string             `yaml:"title"`
	Requirements []RequirementEntry `yaml:"requirements"`
}

type CourseEntry struct {
	Title         string   `yaml:"title"`
	Level         string   `yaml:"level"`
	Skills        []string `yaml:"skills"`
	DurationHours int      `yaml:"duration_hours"`
	Rating        float64  `yaml:"rating"`
}

func ParseCatalog(r io.Reader) (CatalogFile, error) {
	var f CatalogFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return CatalogFile{}, fmt.Errorf("decode catalog: %w", err)
	}
	for _, j := range f.Jobs {
		if strings.TrimSpace(j.Title) == "" {
			return CatalogFile{}, fmt.Errorf("decode catalog: job without title")
		}
	}
	for _, c := range f.Courses {
		if strings.TrimSpace(c.Title) == "" {
			return CatalogFile{}, fmt.Errorf("decode catalog: course without title")
		}
	}
	return f, nil
}

func JobID(title, company string) uuid.UUID {
	return uuid.NewSHA1(catalogNamespace, []byte("job:"+strings.ToLower(title)+"|"+strings.ToLower(company)))
}

func RoleID(title string) uuid.UUID {
	return uuid.NewSHA1(catalogNamespace, []byte("role:"+strings.ToLower(title)))
}

func CourseID(title string) uuid.UUID {
	return uuid.NewSHA1(catalogNamespace, []byte("course:"+strings.ToLower(title)))
}

func (e RequirementEntry) toDomain() catalog.Requirement {
	return catalog.Requirement{
		SkillName:          strings.TrimSpace(e.Skill),
		Importance:         catalog.ParseImportance(e.Importance),
		MinimumProficiency: proficiency.ParseLevel(e.Minimum),
		Weight:             e.Weight,
	}
}

// CatalogSeeder inserts jobs, roles, courses and their requirement sets. Existing rows
// are left untouched; requirement sets are immutable once attached.
type CatalogSeeder struct {
	Catalog CatalogFile
}

func (CatalogSeeder) Name() string { return "catalog" }

func (s CatalogSeeder) Run(ctx context.Context, db database.DB) error {
	for table, cols := range map[string][]string{
		"jobs":         {"id", "title", "company", "city", "work_mode", "categories", "min_experience_years"},
		"roles":        {"id", "title"},
		"courses":      {"id", "title", "level", "skills_taught", "duration_hours", "rating"},
		"requirements": {"target_id", "position", "skill_name", "importance", "minimum_proficiency", "weight"},
	} {
		if err := EnsureTableColumns(ctx, db, table, cols...); err != nil {
			return err
		}
	}

	return database.InTx(ctx, db, func(tx database.Tx) error {
		for _, j := range s.Catalog.Jobs {
			id := JobID(j.Title, j.Company)
			mode := strings.ToLower(strings.TrimSpace(j.WorkMode))
			if mode == "" {
				mode = string(catalog.WorkModeOnsite)
			}
			if _, err := tx.Exec(ctx,
				`INSERT INTO jobs (id, title, company, city, work_mode, categories, min_experience_years)
				 VALUES ($1, $2, $3, $4, $5, $6, $7)
				 ON CONFLICT (id) DO NOTHING`,
				id, j.Title, j.Company, j.City, mode, nonNil(j.Categories), j.MinExperienceYears,
			); err != nil {
				return fmt.Errorf("insert job %q: %w", j.Title, err)
			}
			if err := insertRequirements(ctx, tx, id, j.Requirements); err != nil {
				return fmt.Errorf("job %q: %w", j.Title, err)
			}
		}

		for _, r := range s.Catalog.Roles {
			id := RoleID(r.Title)
			if _, err := tx.Exec(ctx,
				`INSERT INTO roles (id, title) VALUES ($1, $2) ON CONFLICT (id) DO NOTHING`,
				id, r.Title,
			); err != nil {
				return fmt.Errorf("insert role %q: %w", r.Title, err)
			}
			if err := insertRequirements(ctx, tx, id, r.Requirements); err != nil {
				return fmt.Errorf("role %q: %w", r.Title, err)
			}
		}

		for _, c := range s.Catalog.Courses {
			if _, err := tx.Exec(ctx,
				`INSERT INTO courses (id, title, level, skills_taught, duration_hours, rating)
				 VALUES ($1, $2, $3, $4, $5, $6)
				 ON CONFLICT (id) DO NOTHING`,
				CourseID(c.Title), c.Title, string(proficiency.ParseLevel(c.Level)), nonNil(c.Skills), c.DurationHours, c.Rating,
			); err != nil {
				return fmt.Errorf("insert course %q: %w", c.Title, err)
			}
		}
		return nil
	})
}

func insertRequirements(ctx context.Context, tx database.Tx, targetID uuid.UUID, entries []RequirementEntry) error {
	for i, e := range entries {
		r := e.toDomain()
		if r.SkillName == "" {
			return fmt.Errorf("requirement %d has no skill", i)
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO requirements (target_id, position, skill_name, importance, minimum_proficiency, weight)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 ON CONFLICT (target_id, position) DO NOTHING`,
			targetID, i, r.SkillName, string(r.Importance), string(r.MinimumProficiency), r.Weight,
		); err != nil {
			return fmt.Errorf("insert requirement %s: %w", r.SkillName, err)
		}
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
