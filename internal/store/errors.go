package store

import (
	"errors"
	"fmt"

	"salonbook/backend/internal/domain"
)

var (
	ErrConflict      = errors.New("conflict")
	ErrNotFound      = errors.New("not found")
	ErrDuplicate     = errors.New("duplicate booking")
	ErrStatusChanged = errors.New("status changed")
)

// WindowConflictError reports the reserved window a reservation collided
// with. It matches ErrConflict.
type WindowConflictError struct {
	Existing domain.Window
}

func (e *WindowConflictError) Error() string {
	if e.Existing.Start.IsZero() {
		return ErrConflict.Error()
	}
	return fmt.Sprintf("conflict with window %s-%s", e.Existing.Start.Format("2006-01-02 15:04"), e.Existing.End.Format("15:04"))
}

func (e *WindowConflictError) Unwrap() error {
	return ErrConflict
}
