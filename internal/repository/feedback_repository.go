package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"skillpath/internal/database"
	"skillpath/internal/domain/feedback"

	"github.com/google/uuid"
)

type PostgresFeedbackRepository struct {
	db  database.DB
	now func() time.Time
}

func NewPostgresFeedbackRepository(db database.DB) *PostgresFeedbackRepository {
	return &PostgresFeedbackRepository{db: db, now: time.Now}
}

func (r *PostgresFeedbackRepository) Create(ctx context.Context, rec feedback.Record) error {
	payload, err := json.Marshal(rec.Payload)
	if err != nil {
		return fmt.Errorf("encode feedback payload: %w", err)
	}
	var related any
	if rec.RelatedEntityID != uuid.Nil {
		related = rec.RelatedEntityID
	}
	_, err = r.db.Exec(ctx,
		`INSERT INTO feedback (id, type, subject_profile_id, related_entity_id, payload, is_processed, created_at)
		 VALUES ($1, $2, $3, $4, $5, false, $6)`,
		rec.ID, string(rec.Type), rec.SubjectProfileID, related, payload, rec.CreatedAt,
	)
	return err
}

// FetchUnprocessed returns the oldest unprocessed records first.
func (r *PostgresFeedbackRepository) FetchUnprocessed(ctx context.Context, limit int) ([]feedback.Record, error) {
	if limit <= 0 {
		limit = 500
	}
	rows, err := r.db.Query(ctx,
		`SELECT id, type, subject_profile_id,
		        COALESCE(related_entity_id, '00000000-0000-0000-0000-000000000000'::uuid),
		        payload, created_at
		 FROM feedback
		 WHERE NOT is_processed
		 ORDER BY created_at ASC, id ASC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	return scanFeedback(rows)
}

// FetchReady skips entities still below minSample so they cannot fill the batch window.
func (r *PostgresFeedbackRepository) FetchReady(ctx context.Context, limit, minSample int) ([]feedback.Record, error) {
	if limit <= 0 {
		limit = 500
	}
	if minSample < 1 {
		minSample = 1
	}
	rows, err := r.db.Query(ctx,
		`WITH ready AS (
		   SELECT type, related_entity_id, min(created_at) AS first_at
		   FROM feedback
		   WHERE NOT is_processed AND type = ANY($3::text[]) AND related_entity_id IS NOT NULL
		   GROUP BY type, related_entity_id
		   HAVING count(*) >= $2
		 )
		 SELECT f.id, f.type, f.subject_profile_id,
		        COALESCE(f.related_entity_id, '00000000-0000-0000-0000-000000000000'::uuid),
		        f.payload, f.created_at
		 FROM feedback f
		 LEFT JOIN ready g ON g.type = f.type AND g.related_entity_id = f.related_entity_id
		 WHERE NOT f.is_processed
		   AND (g.type IS NOT NULL OR f.related_entity_id IS NULL OR NOT (f.type = ANY($3::text[])))
		 ORDER BY COALESCE(g.first_at, f.created_at), COALESCE(g.related_entity_id, f.id), f.created_at, f.id
		 LIMIT $1`,
		limit, minSample, foldedTypes,
	)
	if err != nil {
		return nil, err
	}
	return scanFeedback(rows)
}

var foldedTypes = []string{string(feedback.TypeCourseEffectiveness), string(feedback.TypePlacementOutcome)}

func scanFeedback(rows database.Rows) ([]feedback.Record, error) {
	defer rows.Close()

	out := make([]feedback.Record, 0)
	for rows.Next() {
		var rec feedback.Record
		var typ string
		var payload []byte
		if err := rows.Scan(&rec.ID, &typ, &rec.SubjectProfileID, &rec.RelatedEntityID, &payload, &rec.CreatedAt); err != nil {
			return nil, err
		}
		rec.Type = feedback.Type(typ)
		rec.State = feedback.StateUnprocessed
		// an undecodable payload stays zero-valued; the recalibrator rejects and retires it
		_ = json.Unmarshal(payload, &rec.Payload)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresFeedbackRepository) MarkProcessed(ctx context.Context, ids []uuid.UUID) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	n, err := r.db.Exec(ctx,
		`UPDATE feedback
		 SET is_processed = true, processed_at = $2
		 WHERE id = ANY($1::uuid[]) AND NOT is_processed`,
		uuidStrings(ids), r.now().UTC(),
	)
	if err != nil {
		return 0, err
	}
	return int(n), nil
}
