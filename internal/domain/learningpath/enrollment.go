package learningpath

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusPaused    Status = "paused"
	StatusCompleted Status = "completed"
)

var (
	ErrInvalidTransition = errors.New("invalid enrollment transition")
	ErrUnknownModule     = errors.New("module not part of path")
)

// Enrollment is the per-profile progress through a path. Version guards concurrent saves.
type Enrollment struct {
	ProfileID        uuid.UUID
	PathID           uuid.UUID
	CurrentStage     int
	CompletedModules []uuid.UUID
	Status           Status
	Version          int
	UpdatedAt        time.Time
}

func NewEnrollment(profileID uuid.UUID, p Path, at time.Time) Enrollment {
	e := Enrollment{
		ProfileID:        profileID,
		PathID:           p.ID,
		CompletedModules: make([]uuid.UUID, 0),
		Status:           StatusActive,
		UpdatedAt:        at.UTC(),
	}
	if len(p.Stages) == 0 {
		e.Status = StatusCompleted
	}
	return e
}

func (e Enrollment) IsModuleCompleted(id uuid.UUID) bool {
	for _, m := range e.CompletedModules {
		if m == id {
			return true
		}
	}
	return false
}

// CompleteModule records moduleID and advances at most one stage once every required
// module of the current stage is done. The final stage completes the enrollment.
func (e *Enrollment) CompleteModule(p Path, moduleID uuid.UUID, at time.Time) error {
	if e.Status != StatusActive {
		return fmt.Errorf("%w: complete module while %s", ErrInvalidTransition, e.Status)
	}
	if _, _, ok := p.FindModule(moduleID); !ok {
		return ErrUnknownModule
	}
	if !e.IsModuleCompleted(moduleID) {
		e.CompletedModules = append(e.CompletedModules, moduleID)
	}
	e.UpdatedAt = at.UTC()

	if e.CurrentStage < 0 || e.CurrentStage >= len(p.Stages) {
		return nil
	}
	for _, id := range p.Stages[e.CurrentStage].RequiredModuleIDs() {
		if !e.IsModuleCompleted(id) {
			return nil
		}
	}

	if e.CurrentStage == len(p.Stages)-1 {
		e.Status = StatusCompleted
		return nil
	}
	e.CurrentStage++
	return nil
}

func (e *Enrollment) Pause(at time.Time) error {
	if e.Status != StatusActive {
		return fmt.Errorf("%w: pause while %s", ErrInvalidTransition, e.Status)
	}
	e.Status = StatusPaused
	e.UpdatedAt = at.UTC()
	return nil
}

func (e *Enrollment) Resume(at time.Time) error {
	if e.Status != StatusPaused {
		return fmt.Errorf("%w: resume while %s", ErrInvalidTransition, e.Status)
	}
	e.Status = StatusActive
	e.UpdatedAt = at.UTC()
	return nil
}
