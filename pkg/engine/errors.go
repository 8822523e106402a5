package engine

import "fmt"

// A navigation dead end (no forward, backward, or month-picker
// transition available) is navigator state, not an error: the loop
// ends and whatever was collected is a completed outcome. Only the
// form path has a dedicated error type, because it is the one place a
// missing element is fatal for the whole request.

// FormFillError reports that a required form field could not be
// located or operated within its wait window. Fatal for the request.
type FormFillError struct {
	Field string
	Err   error
}

func (e *FormFillError) Error() string {
	return fmt.Sprintf("form field %s: %v", e.Field, e.Err)
}

func (e *FormFillError) Unwrap() error { return e.Err }
