// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package pathmap

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/navwar/hubsync/pkg/store"
)

// FolderEnsurer resolves or creates one folder under a parent.
type FolderEnsurer interface {
	EnsureFolder(ctx context.Context, input *store.EnsureFolderInput) (store.Handle, error)
}

// FolderFinder resolves one folder under a parent without creating it.
// Returns an error wrapping store.ErrNotFound if the folder does not exist.
type FolderFinder interface {
	FindFolder(ctx context.Context, input *store.EnsureFolderInput) (store.Handle, error)
}

// Mapper translates relative paths into folder handles on one backend,
// memoizing the handle of every folder prefix it has resolved.
// Prefixes are keyed by the full path, since folder names are only unique within a parent.
type Mapper struct {
	ensurer FolderEnsurer
	scope   *store.Scope
	mu      *sync.Mutex
	handles map[string]store.Handle
	group   *singleflight.Group
}

// Resolve returns the handle of the parent folder and the leaf name of the relative path,
// ensuring every ancestor folder exists.
func (m *Mapper) Resolve(ctx context.Context, relativePath string) (store.Handle, string, error) {
	segments := Split(relativePath)
	if len(segments) == 0 {
		return "", "", fmt.Errorf("error resolving path %q: path is empty", relativePath)
	}
	parent, err := m.ResolveFolder(ctx, Dir(relativePath))
	if err != nil {
		return "", "", fmt.Errorf("error resolving parent folder of %q: %w", relativePath, err)
	}
	return parent, segments[len(segments)-1], nil
}

// ResolveFolder returns the handle of the folder at the slash-separated prefix.
func (m *Mapper) ResolveFolder(ctx context.Context, prefix string) (store.Handle, error) {
	return m.Folder(ctx, Split(prefix))
}

// Folder returns the handle of the folder identified by the segments,
// calling EnsureFolder once for each prefix not resolved before.
func (m *Mapper) Folder(ctx context.Context, segments []string) (store.Handle, error) {
	parent := m.scope.Root
	prefix := ""
	for _, segment := range segments {
		if len(prefix) == 0 {
			prefix = segment
		} else {
			prefix = prefix + "/" + segment
		}
		h, err := m.ensure(ctx, parent, segment, prefix)
		if err != nil {
			return "", err
		}
		parent = h
	}
	return parent, nil
}

// Lookup returns the handle of the folder identified by the segments without creating any folder.
// The ensurer of the mapper must also be a FolderFinder.
func (m *Mapper) Lookup(ctx context.Context, segments []string) (store.Handle, error) {
	finder, ok := m.ensurer.(FolderFinder)
	if !ok {
		return "", errors.New("error looking up folder: backend cannot find folders")
	}
	parent := m.scope.Root
	prefix := ""
	for _, segment := range segments {
		if len(prefix) == 0 {
			prefix = segment
		} else {
			prefix = prefix + "/" + segment
		}
		if h, ok := m.lookup(prefix); ok {
			parent = h
			continue
		}
		h, err := finder.FindFolder(ctx, &store.EnsureFolderInput{
			Scope:  m.scope,
			Parent: parent,
			Name:   segment,
			Prefix: prefix,
		})
		if err != nil {
			return "", fmt.Errorf("error finding folder %q: %w", prefix, err)
		}
		// only folders that exist are memoized
		m.mu.Lock()
		m.handles[prefix] = h
		m.mu.Unlock()
		parent = h
	}
	return parent, nil
}

func (m *Mapper) lookup(prefix string) (store.Handle, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.handles[prefix]
	return h, ok
}

func (m *Mapper) ensure(ctx context.Context, parent store.Handle, name string, prefix string) (store.Handle, error) {
	if h, ok := m.lookup(prefix); ok {
		return h, nil
	}
	v, err, _ := m.group.Do(prefix, func() (interface{}, error) {
		if h, ok := m.lookup(prefix); ok {
			return h, nil
		}
		h, err := m.ensurer.EnsureFolder(ctx, &store.EnsureFolderInput{
			Scope:  m.scope,
			Parent: parent,
			Name:   name,
			Prefix: prefix,
		})
		if err != nil {
			return nil, fmt.Errorf("error ensuring folder %q: %w", prefix, err)
		}
		if len(h) == 0 {
			return nil, fmt.Errorf("error ensuring folder %q: %w", prefix, errors.New("backend returned an empty handle"))
		}
		m.mu.Lock()
		m.handles[prefix] = h
		m.mu.Unlock()
		return h, nil
	})
	if err != nil {
		return "", err
	}
	return v.(store.Handle), nil
}

// Len returns the number of resolved folder prefixes.
func (m *Mapper) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.handles)
}

// New returns a Mapper rooted at the root of the scope.
func New(ensurer FolderEnsurer, scope *store.Scope) *Mapper {
	return &Mapper{
		ensurer: ensurer,
		scope:   scope,
		mu:      &sync.Mutex{},
		handles: map[string]store.Handle{},
		group:   &singleflight.Group{},
	}
}
