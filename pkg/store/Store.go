// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package store

import (
	"context"
)

// Store is the capability set every backend implements.
// Callers never branch on the concrete backend.
type Store interface {
	// Name returns a short name for logging, e.g., "github" or "gdrive".
	Name() string
	// HashesOnRead returns true if the backend has no native content identity,
	// so the identity of an entry is the ContentHash of its bytes.
	HashesOnRead() bool
	// Root resolves the root folder of the project on this backend.
	Root(ctx context.Context, project *Project) (*Scope, error)
	// Lookup resolves the root folder of the project without creating anything.
	// Returns an error wrapping ErrNotFound if the root does not exist.
	Lookup(ctx context.Context, project *Project) (*Scope, error)
	// ListAll recursively lists every file under the root of the scope.
	ListAll(ctx context.Context, scope *Scope) ([]*Entry, error)
	// Read returns the full content of the entry.
	Read(ctx context.Context, scope *Scope, entry *Entry) ([]byte, error)
	// Write creates the file if input.Existing is empty, and otherwise updates it in place.
	Write(ctx context.Context, input *WriteInput) (Handle, error)
	// EnsureFolder returns the handle of the named folder under the parent,
	// creating it if it does not exist.
	EnsureFolder(ctx context.Context, input *EnsureFolderInput) (Handle, error)
}

// ProjectLister enumerates the projects owned by an account.
type ProjectLister interface {
	ListProjects(ctx context.Context) ([]*Project, error)
}
