package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"skillpath/internal/database"
	"skillpath/internal/domain/proficiency"
	"skillpath/internal/domain/profile"
	"skillpath/internal/domain/skill"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type PostgresProfileRepository struct {
	db database.DB
}

func NewPostgresProfileRepository(db database.DB) *PostgresProfileRepository {
	return &PostgresProfileRepository{db: db}
}

func (r *PostgresProfileRepository) Get(ctx context.Context, id uuid.UUID) (profile.SkillProfile, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, interest_domains, city, remote_tolerant, preferred_roles,
		        expected_graduation_year, has_successful_application, updated_at
		 FROM profiles
		 WHERE id = $1`,
		id,
	)

	var p profile.SkillProfile
	if err := row.Scan(
		&p.ID, &p.InterestDomains, &p.Location.City, &p.Location.RemoteTolerant, &p.PreferredRoles,
		&p.ExpectedGraduationYear, &p.HasSuccessfulApplication, &p.UpdatedAt,
	); err != nil {
		if isNoRows(err) {
			return profile.SkillProfile{}, ErrNotFound
		}
		return profile.SkillProfile{}, err
	}

	rows, err := r.db.Query(ctx,
		`SELECT name, level, score, verified, category
		 FROM profile_skills
		 WHERE profile_id = $1
		 ORDER BY normalized_name ASC`,
		id,
	)
	if err != nil {
		return profile.SkillProfile{}, err
	}
	defer rows.Close()

	p.Skills = make([]profile.Skill, 0)
	for rows.Next() {
		var s profile.Skill
		var level string
		if err := rows.Scan(&s.Name, &level, &s.Score, &s.Verified, &s.Category); err != nil {
			return profile.SkillProfile{}, err
		}
		s.Level = proficiency.ParseLevel(level)
		p.Skills = append(p.Skills, s)
	}
	if err := rows.Err(); err != nil {
		return profile.SkillProfile{}, err
	}
	return p, nil
}

func (r *PostgresProfileRepository) Save(ctx context.Context, p profile.SkillProfile) error {
	return database.InTx(ctx, r.db, func(tx database.Tx) error {
		return saveProfile(ctx, tx, p)
	})
}

func saveProfile(ctx context.Context, tx database.Tx, p profile.SkillProfile) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO profiles (id, interest_domains, city, remote_tolerant, preferred_roles,
		                       expected_graduation_year, has_successful_application, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (id) DO UPDATE SET
		   interest_domains = EXCLUDED.interest_domains,
		   city = EXCLUDED.city,
		   remote_tolerant = EXCLUDED.remote_tolerant,
		   preferred_roles = EXCLUDED.preferred_roles,
		   expected_graduation_year = EXCLUDED.expected_graduation_year,
		   has_successful_application = EXCLUDED.has_successful_application,
		   updated_at = EXCLUDED.updated_at`,
		p.ID, nonNil(p.InterestDomains), p.Location.City, p.Location.RemoteTolerant, nonNil(p.PreferredRoles),
		p.ExpectedGraduationYear, p.HasSuccessfulApplication, time.Now().UTC(),
	)
	if err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM profile_skills WHERE profile_id = $1`, p.ID); err != nil {
		return err
	}
	for _, s := range p.Skills {
		if err := upsertSkill(ctx, tx, p.ID, s); err != nil {
			return err
		}
	}
	return nil
}

func (r *PostgresProfileRepository) UpsertSkill(ctx context.Context, profileID uuid.UUID, s profile.Skill) error {
	return database.InTx(ctx, r.db, func(tx database.Tx) error {
		n, err := tx.Exec(ctx, `UPDATE profiles SET updated_at = $2 WHERE id = $1`, profileID, time.Now().UTC())
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}
		return upsertSkill(ctx, tx, profileID, s)
	})
}

func (r *PostgresProfileRepository) VerifySkills(ctx context.Context, profileID uuid.UUID, names []string) error {
	normalized := make([]string, 0, len(names))
	for _, n := range names {
		if v := skill.Normalize(n); v != "" {
			normalized = append(normalized, v)
		}
	}
	if len(normalized) == 0 {
		return nil
	}
	_, err := r.db.Exec(ctx,
		`UPDATE profile_skills
		 SET verified = true
		 WHERE profile_id = $1 AND normalized_name = ANY($2::text[])`,
		profileID, normalized,
	)
	return err
}

func upsertSkill(ctx context.Context, tx database.Tx, profileID uuid.UUID, s profile.Skill) error {
	name := skill.Normalize(s.Name)
	if name == "" {
		return nil
	}
	_, err := tx.Exec(ctx,
		`INSERT INTO profile_skills (profile_id, normalized_name, name, level, score, verified, category)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (profile_id, normalized_name) DO UPDATE SET
		   name = EXCLUDED.name,
		   level = EXCLUDED.level,
		   score = EXCLUDED.score,
		   verified = EXCLUDED.verified,
		   category = EXCLUDED.category`,
		profileID, name, s.Name, string(proficiency.ParseLevel(string(s.Level))), clamp(s.Score, 0, 100), s.Verified, s.Category,
	)
	return err
}

func isNoRows(err error) bool {
	return err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows)
}

func nonNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
