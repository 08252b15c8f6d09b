package repository

import (
	"context"
	"errors"
	"time"

	"skillpath/internal/database"
	"skillpath/internal/domain/proficiency"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

type PostgresAssessmentRepository struct {
	db database.DB
}

func NewPostgresAssessmentRepository(db database.DB) *PostgresAssessmentRepository {
	return &PostgresAssessmentRepository{db: db}
}

func (r *PostgresAssessmentRepository) StartAttempt(ctx context.Context, a AssessmentAttempt) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO assessment_attempts (id, profile_id, assessment_id, skill_name, level, status, score, started_at)
		 VALUES ($1, $2, $3, $4, $5, $6, 0, $7)`,
		a.ID, a.ProfileID, a.AssessmentID, a.SkillName, string(a.Level), string(AttemptInProgress), a.StartedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrAttemptInProgress
		}
		return err
	}
	return nil
}

func (r *PostgresAssessmentRepository) FinishAttempt(ctx context.Context, id uuid.UUID, status AttemptStatus, score float64, at time.Time) (AssessmentAttempt, error) {
	row := r.db.QueryRow(ctx,
		`UPDATE assessment_attempts
		 SET status = $2, score = $3, finished_at = $4
		 WHERE id = $1 AND status = 'in-progress'
		 RETURNING id, profile_id, assessment_id, skill_name, level, status, score, started_at, finished_at`,
		id, string(status), score, at.UTC(),
	)

	var a AssessmentAttempt
	var level, st string
	if err := row.Scan(&a.ID, &a.ProfileID, &a.AssessmentID, &a.SkillName, &level, &st, &a.Score, &a.StartedAt, &a.FinishedAt); err != nil {
		if isNoRows(err) {
			return AssessmentAttempt{}, ErrNotFound
		}
		return AssessmentAttempt{}, err
	}
	a.Level = proficiency.ParseLevel(level)
	a.Status = AttemptStatus(st)
	return a, nil
}

func (r *PostgresAssessmentRepository) CountAttempts(ctx context.Context, profileID, assessmentID uuid.UUID) (int, error) {
	var n int
	row := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM assessment_attempts WHERE profile_id = $1 AND assessment_id = $2`,
		profileID, assessmentID,
	)
	if err := row.Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
