// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package storetest

import (
	"context"
	"errors"
	"fmt"
	"path"
	"sort"
	"sync"
	"time"

	"github.com/navwar/hubsync/pkg/store"
)

// Call is one recorded call on a MemoryStore.
type Call struct {
	Op      string
	Project string
	Path    string
}

// MemoryStore is an in-memory store.Store and store.ProjectLister that records every call.
type MemoryStore struct {
	name         string
	hashesOnRead bool

	mu       sync.Mutex
	projects []*store.Project
	files    map[string]map[string][]byte
	folders  map[string]map[string]store.Handle
	calls    []Call

	// MissingHashes lists paths for which ListAll reports a blank content hash.
	MissingHashes map[string]bool
	// Errors injected by operation, keyed by project for project-level operations,
	// and by "project/path" for file-level operations.
	ProjectsError error
	RootErrors    map[string]error
	ListErrors    map[string]error
	ReadErrors    map[string]error
	WriteErrors   map[string]error
}

func (m *MemoryStore) record(op string, project string, p string) {
	m.calls = append(m.calls, Call{Op: op, Project: project, Path: p})
}

func (m *MemoryStore) Name() string {
	return m.name
}

func (m *MemoryStore) HashesOnRead() bool {
	return m.hashesOnRead
}

// AddProject registers a project with the given files.
func (m *MemoryStore) AddProject(project *store.Project, files map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.projects = append(m.projects, project)
	if _, ok := m.files[project.Name]; !ok {
		m.files[project.Name] = map[string][]byte{}
	}
	for p, content := range files {
		m.files[project.Name][p] = []byte(content)
	}
}

func (m *MemoryStore) ListProjects(ctx context.Context) ([]*store.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("listProjects", "", "")
	if m.ProjectsError != nil {
		return nil, m.ProjectsError
	}
	projects := make([]*store.Project, len(m.projects))
	copy(projects, m.projects)
	return projects, nil
}

func (m *MemoryStore) Root(ctx context.Context, project *store.Project) (*store.Scope, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("root", project.Name, "")
	if err, ok := m.RootErrors[project.Name]; ok {
		return nil, err
	}
	if _, ok := m.files[project.Name]; !ok {
		m.files[project.Name] = map[string][]byte{}
	}
	return &store.Scope{Project: project, Root: store.Handle("root:" + project.Name)}, nil
}

// Lookup returns the root of a project that exists, and creates nothing.
func (m *MemoryStore) Lookup(ctx context.Context, project *store.Project) (*store.Scope, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("lookup", project.Name, "")
	if err, ok := m.RootErrors[project.Name]; ok {
		return nil, err
	}
	if _, ok := m.files[project.Name]; !ok {
		return nil, store.NewError("looking up root", m.name, project.Name, "", store.NotFound(errors.New("project does not exist")))
	}
	return &store.Scope{Project: project, Root: store.Handle("root:" + project.Name)}, nil
}

func (m *MemoryStore) ListAll(ctx context.Context, scope *store.Scope) ([]*store.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	projectName := scope.ProjectName()
	m.record("listAll", projectName, "")
	if err, ok := m.ListErrors[projectName]; ok {
		return nil, err
	}
	files, ok := m.files[projectName]
	if !ok {
		return nil, store.NewError("listing", m.name, projectName, "", store.NotFound(errors.New("project does not exist")))
	}
	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	entries := make([]*store.Entry, 0, len(paths))
	for _, p := range paths {
		contentHash := ""
		if !m.hashesOnRead && !m.MissingHashes[p] {
			contentHash = store.ContentHash(files[p])
		}
		entries = append(entries, store.NewEntry(p, contentHash, fileHandle(projectName, p), time.Time{}, int64(len(files[p]))))
	}
	return entries, nil
}

func (m *MemoryStore) Read(ctx context.Context, scope *store.Scope, entry *store.Entry) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	projectName := scope.ProjectName()
	m.record("read", projectName, entry.Path)
	if err, ok := m.ReadErrors[path.Join(projectName, entry.Path)]; ok {
		return nil, err
	}
	content, ok := m.files[projectName][entry.Path]
	if !ok {
		return nil, store.NewError("reading", m.name, projectName, entry.Path, store.NotFound(errors.New("file does not exist")))
	}
	return append([]byte{}, content...), nil
}

func (m *MemoryStore) Write(ctx context.Context, input *store.WriteInput) (store.Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	projectName := input.Scope.ProjectName()
	m.record("write", projectName, input.Path)
	if err, ok := m.WriteErrors[path.Join(projectName, input.Path)]; ok {
		return "", err
	}
	if dir := path.Dir(input.Path); dir != "." {
		if h := m.folders[projectName][dir]; h != input.Parent {
			return "", fmt.Errorf("parent %q of %q was not resolved through EnsureFolder", input.Parent, input.Path)
		}
	} else if input.Parent != input.Scope.Root {
		return "", fmt.Errorf("parent %q of %q is not the root %q", input.Parent, input.Path, input.Scope.Root)
	}
	if _, ok := m.files[projectName]; !ok {
		m.files[projectName] = map[string][]byte{}
	}
	m.files[projectName][input.Path] = append([]byte{}, input.Content...)
	return fileHandle(projectName, input.Path), nil
}

func (m *MemoryStore) EnsureFolder(ctx context.Context, input *store.EnsureFolderInput) (store.Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	projectName := input.Scope.ProjectName()
	m.record("ensureFolder", projectName, input.Prefix)
	if _, ok := m.folders[projectName]; !ok {
		m.folders[projectName] = map[string]store.Handle{}
	}
	h := store.Handle("folder:" + path.Join(projectName, input.Prefix))
	m.folders[projectName][input.Prefix] = h
	return h, nil
}

// FindFolder returns the handle of a folder created by EnsureFolder.
func (m *MemoryStore) FindFolder(ctx context.Context, input *store.EnsureFolderInput) (store.Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	projectName := input.Scope.ProjectName()
	m.record("findFolder", projectName, input.Prefix)
	h, ok := m.folders[projectName][input.Prefix]
	if !ok {
		return "", store.NewError("finding folder", m.name, projectName, input.Prefix, store.NotFound(errors.New("folder does not exist")))
	}
	return h, nil
}

// File returns the content of a file and true if it exists.
func (m *MemoryStore) File(project string, p string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	content, ok := m.files[project][p]
	return string(content), ok
}

// Calls returns every recorded call.
func (m *MemoryStore) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	calls := make([]Call, len(m.calls))
	copy(calls, m.calls)
	return calls
}

// Count returns the number of calls for the operation, optionally filtered by path.
func (m *MemoryStore) Count(op string, p ...string) int {
	count := 0
	for _, c := range m.Calls() {
		if c.Op != op {
			continue
		}
		if len(p) > 0 && c.Path != p[0] {
			continue
		}
		count++
	}
	return count
}

// CallsFor returns the calls made for the project.
func (m *MemoryStore) CallsFor(project string) []Call {
	calls := []Call{}
	for _, c := range m.Calls() {
		if c.Project == project {
			calls = append(calls, c)
		}
	}
	return calls
}

// Reset clears the recorded calls.
func (m *MemoryStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = []Call{}
}

func fileHandle(project string, p string) store.Handle {
	return store.Handle("file:" + path.Join(project, p))
}

// NewMemoryStore returns a new MemoryStore.
// If hashesOnRead is true, then entries are listed without a content hash.
func NewMemoryStore(name string, hashesOnRead bool) *MemoryStore {
	return &MemoryStore{
		name:         name,
		hashesOnRead: hashesOnRead,
		projects:     []*store.Project{},
		files:        map[string]map[string][]byte{},
		folders:      map[string]map[string]store.Handle{},
		calls:        []Call{},
	}
}
