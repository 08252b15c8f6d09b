package usecase

import (
	"errors"
	"fmt"

	"skillpath/internal/domain/feedback"
	"skillpath/internal/domain/learningpath"
	"skillpath/internal/repository"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrMalformedInput = errors.New("malformed input")
	ErrConflict       = errors.New("conflict")
	ErrInternal       = errors.New("internal error")
)

// translate maps repository and domain errors onto the use case taxonomy. Unknown errors
// become ErrInternal with the cause kept for logging.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrMalformedInput),
		errors.Is(err, ErrConflict), errors.Is(err, ErrInternal):
		return err
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, learningpath.ErrUnknownModule):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case errors.Is(err, repository.ErrVersionConflict), errors.Is(err, repository.ErrAttemptInProgress),
		errors.Is(err, learningpath.ErrInvalidTransition), errors.Is(err, feedback.ErrAlreadyProcessed):
		return fmt.Errorf("%w: %v", ErrConflict, err)
	case errors.Is(err, feedback.ErrMalformedPayload):
		return fmt.Errorf("%w: %v", ErrMalformedInput, err)
	default:
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
}
