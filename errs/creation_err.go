package errs

import (
	"errors"
	"fmt"
)

/*
A error type for a failed factory call

The adapter error stays reachable through Unwrap; the pool never
retries a failed creation on its own
*/
type CreationErr struct {
	cause error
}

func (e CreationErr) Error() string {
	return fmt.Sprintf("create resource err: %v", e.cause)
}

func (e CreationErr) Unwrap() error {
	return e.cause
}

func NewCreationErr(cause error) CreationErr {
	return CreationErr{
		cause: cause,
	}
}

func IsCreationErr(e error) bool {
	var target CreationErr
	return errors.As(e, &target)
}
