package proposal

import (
	"errors"
	"fmt"
)

var (
	// ErrDocumentTooLarge indicates the submission exceeds the size ceiling.
	ErrDocumentTooLarge = errors.New("submission document too large")

	// ErrUnusableResponse indicates the model answered but its output could
	// not be parsed. The raw response is kept on the run record.
	ErrUnusableResponse = errors.New("model response accepted but unusable")

	// ErrEmptyRecommendation indicates no package and no deliverable
	// survived reconciliation.
	ErrEmptyRecommendation = errors.New("model recommended nothing from the active catalog")
)

// RunError ties a failed generation attempt to its audit run.
type RunError struct {
	RunID string
	Kind  error
	Err   error
}

func (e *RunError) Error() string {
	switch {
	case e.Err != nil && e.Kind != nil && !errors.Is(e.Err, e.Kind):
		return fmt.Sprintf("%v (run %s): %v", e.Kind, e.RunID, e.Err)
	case e.Kind != nil:
		return fmt.Sprintf("%v (run %s)", e.Kind, e.RunID)
	default:
		return fmt.Sprintf("%v (run %s)", e.Err, e.RunID)
	}
}

func (e *RunError) Unwrap() []error {
	var errs []error
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// RunIDOf returns the run id carried by err, if any.
func RunIDOf(err error) (string, bool) {
	var re *RunError
	if errors.As(err, &re) && re.RunID != "" {
		return re.RunID, true
	}
	return "", false
}
