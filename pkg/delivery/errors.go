// pkg/delivery/errors.go
package delivery

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means the delivery, supplier or settings row the
	// operation needs does not exist. Returned before any write.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput covers malformed identifiers and out-of-range
	// status codes or amounts. Returned before any write.
	ErrInvalidInput = errors.New("invalid input")

	// ErrSequencingConflict means two concurrent PO assignments
	// collided and retries were exhausted.
	ErrSequencingConflict = errors.New("po sequencing conflict")
)

// StorageError wraps a failed read or write against the primary
// store. The operation it interrupted did not commit.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// NotifyError reports a broadcast or email failure that happened
// after the state transition committed. Callers must treat the
// transition as successful and surface this as a warning only.
type NotifyError struct {
	Err error
}

func (e *NotifyError) Error() string {
	return fmt.Sprintf("notify: %v", e.Err)
}

func (e *NotifyError) Unwrap() error { return e.Err }

// IsNotifyError reports whether err is a post-commit notification
// failure rather than a failed transition.
func IsNotifyError(err error) bool {
	var ne *NotifyError
	return errors.As(err, &ne)
}

func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrSequencingConflict) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}
