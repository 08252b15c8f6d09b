package feedback

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypePlacementOutcome       Type = "placement-outcome"
	TypeCourseEffectiveness    Type = "course-effectiveness"
	TypeRecommendationAccuracy Type = "recommendation-accuracy"
)

func (t Type) Valid() bool {
	switch t {
	case TypePlacementOutcome, TypeCourseEffectiveness, TypeRecommendationAccuracy:
		return true
	}
	return false
}

// State is the processing lifecycle of a record: unprocessed -> processed, once.
type State string

const (
	StateUnprocessed State = "unprocessed"
	StateProcessed   State = "processed"
)

var (
	ErrMalformedPayload = errors.New("malformed feedback payload")
	ErrAlreadyProcessed = errors.New("feedback already processed")
)

type Payload struct {
	SkillImprovement  *float64 `json:"skillImprovement,omitempty"`
	HelpedInPlacement *bool    `json:"helpedInPlacement,omitempty"`
	Placed            *bool    `json:"placed,omitempty"`
	VerifiedSkills    []string `json:"verifiedSkills,omitempty"`
	Accurate          *bool    `json:"accurate,omitempty"`
	Rating            *float64 `json:"rating,omitempty"`
}

type Record struct {
	ID               uuid.UUID
	Type             Type
	SubjectProfileID uuid.UUID
	RelatedEntityID  uuid.UUID
	Payload          Payload
	State            State
	CreatedAt        time.Time
	ProcessedAt      *time.Time
}

func (r Record) IsProcessed() bool {
	return r.State == StateProcessed
}

func (r *Record) MarkProcessed(at time.Time) error {
	if r.State == StateProcessed {
		return ErrAlreadyProcessed
	}
	t := at.UTC()
	r.State = StateProcessed
	r.ProcessedAt = &t
	return nil
}

func NewRecord(typ Type, subject, related uuid.UUID, payload Payload, at time.Time) (Record, error) {
	if err := Validate(typ, subject, related, payload); err != nil {
		return Record{}, err
	}
	return Record{
		ID:               uuid.New(),
		Type:             typ,
		SubjectProfileID: subject,
		RelatedEntityID:  related,
		Payload:          payload,
		State:            StateUnprocessed,
		CreatedAt:        at.UTC(),
	}, nil
}

func Validate(typ Type, subject, related uuid.UUID, p Payload) error {
	malformed := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrMalformedPayload, fmt.Sprintf(format, args...))
	}

	if !typ.Valid() {
		return malformed("unknown type %q", typ)
	}
	if subject == uuid.Nil {
		return malformed("subject profile id is required")
	}

	switch typ {
	case TypeCourseEffectiveness:
		if related == uuid.Nil {
			return malformed("course id is required")
		}
		if p.SkillImprovement == nil {
			return malformed("skillImprovement is required")
		}
		if v := *p.SkillImprovement; v < -100 || v > 100 {
			return malformed("skillImprovement %.2f out of range", v)
		}
		if p.HelpedInPlacement == nil {
			return malformed("helpedInPlacement is required")
		}
	case TypePlacementOutcome:
		if related == uuid.Nil {
			return malformed("job id is required")
		}
		if p.Placed == nil {
			return malformed("placed is required")
		}
	case TypeRecommendationAccuracy:
		if p.Accurate == nil {
			return malformed("accurate is required")
		}
		if p.Rating != nil && (*p.Rating < 1 || *p.Rating > 5) {
			return malformed("rating %.2f out of range", *p.Rating)
		}
	}
	return nil
}
