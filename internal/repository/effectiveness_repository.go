package repository

import (
	"context"
	"time"

	"skillpath/internal/database"
	"skillpath/internal/domain/effectiveness"

	"github.com/google/uuid"
)

type PostgresEffectivenessRepository struct {
	db  database.DB
	now func() time.Time
}

func NewPostgresEffectivenessRepository(db database.DB) *PostgresEffectivenessRepository {
	return &PostgresEffectivenessRepository{db: db, now: time.Now}
}

func (r *PostgresEffectivenessRepository) Fold(ctx context.Context, agg effectiveness.Aggregate, minSample int) (effectiveness.FoldOutcome, error) {
	if agg.Count() == 0 || agg.Count() < minSample {
		return effectiveness.FoldDeferred, nil
	}
	at := r.now().UTC()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	rows, err := tx.Query(ctx,
		`UPDATE feedback
		 SET is_processed = true, processed_at = $2
		 WHERE id = ANY($1::uuid[]) AND NOT is_processed
		 RETURNING id`,
		uuidStrings(agg.FeedbackIDs()), at,
	)
	if err != nil {
		return "", err
	}
	keep := map[uuid.UUID]struct{}{}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return "", err
		}
		keep[id] = struct{}{}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return "", err
	}

	claimed := agg.Restrict(keep)
	if claimed.Count() < minSample {
		return effectiveness.FoldDeferred, nil
	}

	sum, cnt, placed := claimed.Sums()
	fresh := effectiveness.Record{}.Fold(claimed, at)
	_, err = tx.Exec(ctx,
		`INSERT INTO effectiveness (kind, entity_id, avg_skill_improvement, placement_success_rate, sample_size, last_calculated)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (kind, entity_id) DO UPDATE SET
		   avg_skill_improvement = CASE WHEN $7::int > 0
		     THEN (effectiveness.avg_skill_improvement * effectiveness.sample_size + $8::float8) / (effectiveness.sample_size + $7::int)
		     ELSE effectiveness.avg_skill_improvement END,
		   placement_success_rate = (effectiveness.placement_success_rate * effectiveness.sample_size + $9::float8) / (effectiveness.sample_size + $5),
		   sample_size = effectiveness.sample_size + $5,
		   last_calculated = $6`,
		string(agg.Kind), agg.EntityID, fresh.AverageSkillImprovement, fresh.PlacementSuccessRate, claimed.Count(), at,
		cnt, sum, float64(placed)*100,
	)
	if err != nil {
		return "", err
	}

	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	return effectiveness.FoldCommitted, nil
}

func (r *PostgresEffectivenessRepository) Get(ctx context.Context, kind effectiveness.Kind, entityID uuid.UUID) (effectiveness.Record, error) {
	row := r.db.QueryRow(ctx,
		`SELECT avg_skill_improvement, placement_success_rate, sample_size, last_calculated
		 FROM effectiveness
		 WHERE kind = $1 AND entity_id = $2`,
		string(kind), entityID,
	)

	var rec effectiveness.Record
	var last *time.Time
	if err := row.Scan(&rec.AverageSkillImprovement, &rec.PlacementSuccessRate, &rec.SampleSize, &last); err != nil {
		if isNoRows(err) {
			return effectiveness.Record{}, ErrNotFound
		}
		return effectiveness.Record{}, err
	}
	if last != nil {
		rec.LastCalculated = *last
	}
	return rec, nil
}
