package repository

import (
	"context"
	"time"

	"skillpath/internal/database"
	"skillpath/internal/domain/catalog"
	"skillpath/internal/domain/effectiveness"
	"skillpath/internal/domain/proficiency"
	"skillpath/internal/domain/skill"

	"github.com/google/uuid"
)

type PostgresCatalogRepository struct {
	db database.DB
}

func NewPostgresCatalogRepository(db database.DB) *PostgresCatalogRepository {
	return &PostgresCatalogRepository{db: db}
}

func (r *PostgresCatalogRepository) FindRequirement(ctx context.Context, targetID uuid.UUID) (catalog.RequirementSet, error) {
	sets, err := r.requirementsFor(ctx, []uuid.UUID{targetID})
	if err != nil {
		return catalog.RequirementSet{}, err
	}
	if set, ok := sets[targetID]; ok {
		return set, nil
	}

	var exists bool
	row := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM jobs WHERE id = $1) OR EXISTS(SELECT 1 FROM roles WHERE id = $1)`,
		targetID,
	)
	if err := row.Scan(&exists); err != nil {
		return catalog.RequirementSet{}, err
	}
	if !exists {
		return catalog.RequirementSet{}, ErrNotFound
	}
	return catalog.RequirementSet{TargetID: targetID, Requirements: []catalog.Requirement{}}, nil
}

func (r *PostgresCatalogRepository) FindCourses(ctx context.Context, filter catalog.CourseFilter) ([]catalog.Course, error) {
	names := make([]string, 0, len(filter.Skills))
	for _, s := range filter.Skills {
		if n := skill.Normalize(s); n != "" {
			names = append(names, n)
		}
	}
	level := ""
	if filter.Level != "" {
		level = string(proficiency.ParseLevel(string(filter.Level)))
	}
	limit := filter.Limit
	if limit < 0 {
		limit = 0
	}

	rows, err := r.db.Query(ctx,
		`SELECT c.id, c.title, c.level, c.skills_taught, c.duration_hours, c.rating,
		        COALESCE(e.avg_skill_improvement, 0), COALESCE(e.placement_success_rate, 0),
		        COALESCE(e.sample_size, 0), e.last_calculated
		 FROM courses c
		 LEFT JOIN effectiveness e ON e.kind = 'course' AND e.entity_id = c.id
		 WHERE (cardinality($1::text[]) = 0
		        OR EXISTS (SELECT 1 FROM unnest(c.skills_taught) s WHERE lower(trim(s)) = ANY($1::text[])))
		   AND ($2 = '' OR c.level = $2)
		 ORDER BY c.title ASC, c.id ASC
		 LIMIT NULLIF($3, 0)`,
		names, level, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]catalog.Course, 0)
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresCatalogRepository) FindCourse(ctx context.Context, id uuid.UUID) (catalog.Course, error) {
	row := r.db.QueryRow(ctx,
		`SELECT c.id, c.title, c.level, c.skills_taught, c.duration_hours, c.rating,
		        COALESCE(e.avg_skill_improvement, 0), COALESCE(e.placement_success_rate, 0),
		        COALESCE(e.sample_size, 0), e.last_calculated
		 FROM courses c
		 LEFT JOIN effectiveness e ON e.kind = 'course' AND e.entity_id = c.id
		 WHERE c.id = $1`,
		id,
	)
	c, err := scanCourse(row)
	if err != nil {
		if isNoRows(err) {
			return catalog.Course{}, ErrNotFound
		}
		return catalog.Course{}, err
	}
	return c, nil
}

func (r *PostgresCatalogRepository) FindJob(ctx context.Context, id uuid.UUID) (catalog.Job, error) {
	row := r.db.QueryRow(ctx, jobSelect+` WHERE j.id = $1`, id)
	j, err := scanJob(row)
	if err != nil {
		if isNoRows(err) {
			return catalog.Job{}, ErrNotFound
		}
		return catalog.Job{}, err
	}

	sets, err := r.requirementsFor(ctx, []uuid.UUID{id})
	if err != nil {
		return catalog.Job{}, err
	}
	j.Requirements = requirementSetOrEmpty(sets, id)
	return j, nil
}

func (r *PostgresCatalogRepository) ListJobs(ctx context.Context, limit, offset int) ([]catalog.Job, error) {
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.db.Query(ctx, jobSelect+` ORDER BY j.id ASC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := make([]catalog.Job, 0, limit)
	ids := make([]uuid.UUID, 0, limit)
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
		ids = append(ids, j.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(jobs) == 0 {
		return jobs, nil
	}

	sets, err := r.requirementsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range jobs {
		jobs[i].Requirements = requirementSetOrEmpty(sets, jobs[i].ID)
	}
	return jobs, nil
}

const jobSelect = `SELECT j.id, j.title, j.company, j.city, j.work_mode, j.categories, j.min_experience_years,
        COALESCE(e.avg_skill_improvement, 0), COALESCE(e.placement_success_rate, 0),
        COALESCE(e.sample_size, 0), e.last_calculated
 FROM jobs j
 LEFT JOIN effectiveness e ON e.kind = 'job' AND e.entity_id = j.id`

func (r *PostgresCatalogRepository) requirementsFor(ctx context.Context, targetIDs []uuid.UUID) (map[uuid.UUID]catalog.RequirementSet, error) {
	rows, err := r.db.Query(ctx,
		`SELECT target_id, skill_name, importance, minimum_proficiency, weight
		 FROM requirements
		 WHERE target_id = ANY($1::uuid[])
		 ORDER BY target_id ASC, position ASC`,
		uuidStrings(targetIDs),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[uuid.UUID]catalog.RequirementSet{}
	for rows.Next() {
		var target uuid.UUID
		var req catalog.Requirement
		var importance, level string
		if err := rows.Scan(&target, &req.SkillName, &importance, &level, &req.Weight); err != nil {
			return nil, err
		}
		req.Importance = catalog.ParseImportance(importance)
		req.MinimumProficiency = proficiency.ParseLevel(level)

		set := out[target]
		set.TargetID = target
		set.Requirements = append(set.Requirements, req)
		out[target] = set
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func requirementSetOrEmpty(sets map[uuid.UUID]catalog.RequirementSet, id uuid.UUID) catalog.RequirementSet {
	if set, ok := sets[id]; ok {
		return set
	}
	return catalog.RequirementSet{TargetID: id, Requirements: []catalog.Requirement{}}
}

func scanCourse(row database.Row) (catalog.Course, error) {
	var c catalog.Course
	var level string
	var last *time.Time
	if err := row.Scan(
		&c.ID, &c.Title, &level, &c.SkillsTaught, &c.DurationHours, &c.Rating,
		&c.Effectiveness.AverageSkillImprovement, &c.Effectiveness.PlacementSuccessRate,
		&c.Effectiveness.SampleSize, &last,
	); err != nil {
		return catalog.Course{}, err
	}
	c.Level = proficiency.ParseLevel(level)
	if last != nil {
		c.Effectiveness.LastCalculated = *last
	}
	return c, nil
}

func scanJob(row database.Row) (catalog.Job, error) {
	var j catalog.Job
	var mode string
	var last *time.Time
	var eff effectiveness.Record
	if err := row.Scan(
		&j.ID, &j.Title, &j.Company, &j.City, &mode, &j.Categories, &j.MinExperienceYears,
		&eff.AverageSkillImprovement, &eff.PlacementSuccessRate, &eff.SampleSize, &last,
	); err != nil {
		return catalog.Job{}, err
	}
	j.WorkMode = catalog.WorkMode(mode)
	if last != nil {
		eff.LastCalculated = *last
	}
	j.Effectiveness = eff
	return j, nil
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}
