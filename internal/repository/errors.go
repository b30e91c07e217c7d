// Package repository holds the SQL access for every marketplace entity.
//
// Sentinel errors let handlers tell failure scenarios apart.  Entity
// specific not-found values wrap ErrNotFound, and the different duplicate
// cases wrap ErrConflict, so callers can match either the precise or the
// general condition with errors.Is.
package repository

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is the root of every "row does not exist" error.
	ErrNotFound = errors.New("not found")
	// ErrForbidden is returned when the caller attempts an operation on a
	// resource they do not own.
	ErrForbidden = errors.New("forbidden")
	// ErrConflict is returned on uniqueness or duplicate-action violations.
	ErrConflict = errors.New("conflict")
	// ErrLimitReached is returned when a per-seller collection cap is hit.
	ErrLimitReached = errors.New("limit reached")
	// ErrNotClient is returned when a client-only target is not a client.
	ErrNotClient = errors.New("user is not a client")
)

var (
	ErrUserNotFound        = fmt.Errorf("user %w", ErrNotFound)
	ErrSellerNotFound      = fmt.Errorf("seller %w", ErrNotFound)
	ErrGigNotFound         = fmt.Errorf("gig %w", ErrNotFound)
	ErrGigFileNotFound     = fmt.Errorf("gig file %w", ErrNotFound)
	ErrCategoryNotFound    = fmt.Errorf("category %w", ErrNotFound)
	ErrTagNotFound         = fmt.Errorf("tag %w", ErrNotFound)
	ErrSkillNotFound       = fmt.Errorf("skill %w", ErrNotFound)
	ErrOccupationNotFound  = fmt.Errorf("occupation %w", ErrNotFound)
	ErrProjectNotFound     = fmt.Errorf("project %w", ErrNotFound)
	ErrProjectFileNotFound = fmt.Errorf("project file %w", ErrNotFound)
	ErrExperienceNotFound  = fmt.Errorf("experience %w", ErrNotFound)
	ErrCertificateNotFound = fmt.Errorf("certificate %w", ErrNotFound)
	ErrBookmarkNotFound    = fmt.Errorf("bookmark %w", ErrNotFound)
)

var (
	ErrUsernameExists = fmt.Errorf("username %w", ErrConflict)
	ErrEmailExists    = fmt.Errorf("email %w", ErrConflict)
	ErrSellerExists   = fmt.Errorf("seller profile %w", ErrConflict)
	ErrDuplicate      = fmt.Errorf("duplicate record: %w", ErrConflict)
	ErrTagAttached    = fmt.Errorf("tag already attached: %w", ErrConflict)
)

// MissingIDError names the referenced id that does not exist.
type MissingIDError struct {
	Err error
	ID  int64
}

// Error names the wrapped sentinel and the id.
func (e *MissingIDError) Error() string { return fmt.Sprintf("%v: id %d", e.Err, e.ID) }

func (e *MissingIDError) Unwrap() error { return e.Err }
