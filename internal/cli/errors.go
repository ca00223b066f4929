package cli

import (
	"errors"
	"fmt"

	"ideapad/internal/mutate"
)

type notFoundError struct {
	kind string
	id   string
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.kind, e.id)
}

func errNotFound(kind, id string) error {
	return notFoundError{kind: kind, id: id}
}

// asCLIError maps lookup errors from mutate onto the CLI's own error types.
func asCLIError(err error) error {
	var nf mutate.NotFoundError
	if errors.As(err, &nf) {
		return errNotFound(nf.Kind, nf.ID)
	}
	return err
}

type usageError struct {
	msg string
}

func (e usageError) Error() string {
	return "usage: " + e.msg
}

func errUsage(msg string) error {
	return usageError{msg: msg}
}
