package mutate

import (
	"errors"
	"fmt"
)

// ErrRefused is returned by Exec for an operation whose guards failed
// (no signed-in user or an empty required field). Nothing was sent.
var ErrRefused = errors.New("refused: sign in and fill in the required fields")

type NotFoundError struct {
	Kind string
	ID   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}
