package tracking

import (
	"errors"
	"fmt"
)

// ErrGoalNotFound matches any GoalNotFoundError via errors.Is
var ErrGoalNotFound = errors.New("goal not found")

// GoalNotFoundError is returned when an operation addresses a goal that is not tracked
type GoalNotFoundError struct {
	ID string
}

func (e *GoalNotFoundError) Error() string {
	return fmt.Sprintf("goal not found: %s", e.ID)
}

// Is reports whether target is ErrGoalNotFound
func (e *GoalNotFoundError) Is(target error) bool {
	return target == ErrGoalNotFound
}

func goalNotFound(id string) error {
	return &GoalNotFoundError{ID: id}
}
