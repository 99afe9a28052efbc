// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package store

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a project, branch, folder, or file does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAuth is returned when a backend rejects the credentials.
	ErrAuth = errors.New("authentication failed")
)

// Error describes a failed backend operation.
type Error struct {
	Op      string
	Store   string
	Project string
	Path    string
	Err     error
}

func (e *Error) Error() string {
	if len(e.Path) > 0 && len(e.Project) == 0 {
		return fmt.Sprintf("error %s %q on %s: %s", e.Op, e.Path, e.Store, e.Err.Error())
	}
	if len(e.Path) > 0 {
		return fmt.Sprintf("error %s %q in project %q on %s: %s", e.Op, e.Path, e.Project, e.Store, e.Err.Error())
	}
	if len(e.Project) > 0 {
		return fmt.Sprintf("error %s project %q on %s: %s", e.Op, e.Project, e.Store, e.Err.Error())
	}
	return fmt.Sprintf("error %s on %s: %s", e.Op, e.Store, e.Err.Error())
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewError(op string, store string, project string, path string, err error) *Error {
	return &Error{
		Op:      op,
		Store:   store,
		Project: project,
		Path:    path,
		Err:     err,
	}
}

// NotFound wraps err so that IsNotFound returns true.
func NotFound(err error) error {
	return fmt.Errorf("%w: %w", ErrNotFound, err)
}

// Auth wraps err so that IsAuth returns true.
func Auth(err error) error {
	return fmt.Errorf("%w: %w", ErrAuth, err)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsAuth(err error) bool {
	return errors.Is(err, ErrAuth)
}
