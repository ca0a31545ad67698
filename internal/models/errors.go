package models

import "fmt"

// InvalidTransitionError reports an attempted status change from a state the
// state machine does not allow it from. Current is always included so failed
// transitions are debuggable from the message alone.
type InvalidTransitionError struct {
	Entity    string
	Current   string
	Attempted string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s cannot transition to %s from %s", e.Entity, e.Attempted, e.Current)
}
