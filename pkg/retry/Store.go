// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package retry

import (
	"context"

	"github.com/navwar/hubsync/pkg/store"
)

// Store retries every call of the underlying store with the policy.
type Store struct {
	store.Store
	policy *Policy
}

func (s *Store) Root(ctx context.Context, project *store.Project) (*store.Scope, error) {
	return Do(ctx, s.policy, s.Name()+" root", func() (*store.Scope, error) {
		return s.Store.Root(ctx, project)
	})
}

func (s *Store) Lookup(ctx context.Context, project *store.Project) (*store.Scope, error) {
	return Do(ctx, s.policy, s.Name()+" lookup", func() (*store.Scope, error) {
		return s.Store.Lookup(ctx, project)
	})
}

func (s *Store) ListAll(ctx context.Context, scope *store.Scope) ([]*store.Entry, error) {
	return Do(ctx, s.policy, s.Name()+" list", func() ([]*store.Entry, error) {
		return s.Store.ListAll(ctx, scope)
	})
}

func (s *Store) Read(ctx context.Context, scope *store.Scope, entry *store.Entry) ([]byte, error) {
	return Do(ctx, s.policy, s.Name()+" read", func() ([]byte, error) {
		return s.Store.Read(ctx, scope, entry)
	})
}

func (s *Store) Write(ctx context.Context, input *store.WriteInput) (store.Handle, error) {
	return Do(ctx, s.policy, s.Name()+" write", func() (store.Handle, error) {
		return s.Store.Write(ctx, input)
	})
}

func (s *Store) EnsureFolder(ctx context.Context, input *store.EnsureFolderInput) (store.Handle, error) {
	return Do(ctx, s.policy, s.Name()+" ensure folder", func() (store.Handle, error) {
		return s.Store.EnsureFolder(ctx, input)
	})
}

func NewStore(s store.Store, policy *Policy) *Store {
	return &Store{Store: s, policy: policy}
}

// ProjectLister retries project enumeration with the policy.
type ProjectLister struct {
	lister store.ProjectLister
	policy *Policy
}

func (l *ProjectLister) ListProjects(ctx context.Context) ([]*store.Project, error) {
	return Do(ctx, l.policy, "list projects", func() ([]*store.Project, error) {
		return l.lister.ListProjects(ctx)
	})
}

func NewProjectLister(lister store.ProjectLister, policy *Policy) *ProjectLister {
	return &ProjectLister{lister: lister, policy: policy}
}
