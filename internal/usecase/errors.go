package usecase

import "fmt"

// Pipeline stages that can fail with a client-facing error. The validation
// gate is not among them: a missing-fields outcome is a normal response,
// not an error.
const (
	StageExtraction   = "extraction"
	StageAssignee     = "assignee"
	StageNotification = "notification"
	StageStore        = "store"
)

// StageError identifies which pipeline stage failed. Every external-call
// failure is converted into one of these at its call site; nothing is allowed
// to panic past the pipeline boundary.
type StageError struct {
	Stage   string
	Message string
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %s", e.Stage, e.Message)
}

func newStageError(stage string, err error) *StageError {
	return &StageError{Stage: stage, Message: err.Error()}
}

// AsStageError unwraps err into a *StageError when it is one.
func AsStageError(err error) (*StageError, bool) {
	se, ok := err.(*StageError)
	return se, ok
}
