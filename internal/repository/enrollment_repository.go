package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"skillpath/internal/database"
	"skillpath/internal/domain/learningpath"

	"github.com/google/uuid"
)

type PostgresEnrollmentRepository struct {
	db database.DB
}

func NewPostgresEnrollmentRepository(db database.DB) *PostgresEnrollmentRepository {
	return &PostgresEnrollmentRepository{db: db}
}

func (r *PostgresEnrollmentRepository) SavePath(ctx context.Context, p learningpath.Path) error {
	doc, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode learning path: %w", err)
	}
	var owner any
	if p.OwnerProfileID != uuid.Nil {
		owner = p.OwnerProfileID
	}
	_, err = r.db.Exec(ctx,
		`INSERT INTO learning_paths (id, owner_profile_id, target_id, document, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (id) DO UPDATE SET document = EXCLUDED.document`,
		p.ID, owner, p.TargetID, doc, p.CreatedAt,
	)
	return err
}

func (r *PostgresEnrollmentRepository) GetPath(ctx context.Context, id uuid.UUID) (learningpath.Path, error) {
	var doc []byte
	row := r.db.QueryRow(ctx, `SELECT document FROM learning_paths WHERE id = $1`, id)
	if err := row.Scan(&doc); err != nil {
		if isNoRows(err) {
			return learningpath.Path{}, ErrNotFound
		}
		return learningpath.Path{}, err
	}
	var p learningpath.Path
	if err := json.Unmarshal(doc, &p); err != nil {
		return learningpath.Path{}, fmt.Errorf("decode learning path %s: %w", id, err)
	}
	return p, nil
}

func (r *PostgresEnrollmentRepository) Get(ctx context.Context, profileID, pathID uuid.UUID) (learningpath.Enrollment, error) {
	row := r.db.QueryRow(ctx,
		`SELECT profile_id, path_id, current_stage, completed_modules::text[], status, version, updated_at
		 FROM enrollments
		 WHERE profile_id = $1 AND path_id = $2`,
		profileID, pathID,
	)

	var e learningpath.Enrollment
	var completed []string
	var status string
	if err := row.Scan(&e.ProfileID, &e.PathID, &e.CurrentStage, &completed, &status, &e.Version, &e.UpdatedAt); err != nil {
		if isNoRows(err) {
			return learningpath.Enrollment{}, ErrNotFound
		}
		return learningpath.Enrollment{}, err
	}
	e.Status = learningpath.Status(status)
	e.CompletedModules = make([]uuid.UUID, 0, len(completed))
	for _, raw := range completed {
		id, err := uuid.Parse(raw)
		if err != nil {
			return learningpath.Enrollment{}, fmt.Errorf("decode completed module: %w", err)
		}
		e.CompletedModules = append(e.CompletedModules, id)
	}
	return e, nil
}

func (r *PostgresEnrollmentRepository) Save(ctx context.Context, e learningpath.Enrollment) (learningpath.Enrollment, error) {
	at := e.UpdatedAt
	if at.IsZero() {
		at = time.Now().UTC()
	}

	var n int64
	var err error
	if e.Version == 0 {
		n, err = r.db.Exec(ctx,
			`INSERT INTO enrollments (profile_id, path_id, current_stage, completed_modules, status, version, updated_at)
			 VALUES ($1, $2, $3, $4::uuid[], $5, 1, $6)
			 ON CONFLICT (profile_id, path_id) DO NOTHING`,
			e.ProfileID, e.PathID, e.CurrentStage, uuidStrings(e.CompletedModules), string(e.Status), at,
		)
	} else {
		n, err = r.db.Exec(ctx,
			`UPDATE enrollments
			 SET current_stage = $3, completed_modules = $4::uuid[], status = $5, version = version + 1, updated_at = $6
			 WHERE profile_id = $1 AND path_id = $2 AND version = $7`,
			e.ProfileID, e.PathID, e.CurrentStage, uuidStrings(e.CompletedModules), string(e.Status), at, e.Version,
		)
	}
	if err != nil {
		return learningpath.Enrollment{}, err
	}
	if n == 0 {
		return learningpath.Enrollment{}, ErrVersionConflict
	}

	e.Version++
	e.UpdatedAt = at
	return e, nil
}
