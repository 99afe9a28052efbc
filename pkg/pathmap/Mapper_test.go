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
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/navwar/hubsync/pkg/store"
	"github.com/navwar/hubsync/pkg/store/storetest"
)

func newScope(t *testing.T, m *storetest.MemoryStore, name string) *store.Scope {
	scope, err := m.Root(context.Background(), &store.Project{Name: name})
	require.NoError(t, err)
	return scope
}

func TestMapperResolveRoot(t *testing.T) {
	ctx := context.Background()
	fake := storetest.NewMemoryStore("cloud", false)
	scope := newScope(t, fake, "a")
	mapper := New(fake, scope)

	parent, name, err := mapper.Resolve(ctx, "a.txt")
	require.NoError(t, err)
	assert.Equal(t, scope.Root, parent)
	assert.Equal(t, "a.txt", name)
	assert.Equal(t, 0, fake.Count("ensureFolder"))
}

func TestMapperSiblingsShareFolder(t *testing.T) {
	ctx := context.Background()
	fake := storetest.NewMemoryStore("cloud", false)
	scope := newScope(t, fake, "a")
	mapper := New(fake, scope)

	p1, n1, err := mapper.Resolve(ctx, "x/y/one.txt")
	require.NoError(t, err)
	p2, n2, err := mapper.Resolve(ctx, "x/y/two.txt")
	require.NoError(t, err)
	p3, _, err := mapper.Resolve(ctx, "x/z.txt")
	require.NoError(t, err)

	assert.Equal(t, p1, p2)
	assert.Equal(t, "one.txt", n1)
	assert.Equal(t, "two.txt", n2)
	assert.NotEqual(t, p1, p3)
	assert.Equal(t, 1, fake.Count("ensureFolder", "x"))
	assert.Equal(t, 1, fake.Count("ensureFolder", "x/y"))
	assert.Equal(t, 2, fake.Count("ensureFolder"))
	assert.Equal(t, 2, mapper.Len())
}

func TestMapperSameNameDifferentParents(t *testing.T) {
	ctx := context.Background()
	fake := storetest.NewMemoryStore("cloud", false)
	scope := newScope(t, fake, "a")
	mapper := New(fake, scope)

	p1, _, err := mapper.Resolve(ctx, "a/lib/x.go")
	require.NoError(t, err)
	p2, _, err := mapper.Resolve(ctx, "b/lib/x.go")
	require.NoError(t, err)
	assert.NotEqual(t, p1, p2)
	assert.Equal(t, 4, fake.Count("ensureFolder"))
}

func TestMapperConcurrent(t *testing.T) {
	ctx := context.Background()
	fake := storetest.NewMemoryStore("cloud", false)
	scope := newScope(t, fake, "a")
	mapper := New(fake, scope)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := mapper.Resolve(ctx, "deep/shared/folder/file.txt")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, fake.Count("ensureFolder", "deep"))
	assert.Equal(t, 1, fake.Count("ensureFolder", "deep/shared"))
	assert.Equal(t, 1, fake.Count("ensureFolder", "deep/shared/folder"))
}

func TestMapperEmptyPath(t *testing.T) {
	fake := storetest.NewMemoryStore("cloud", false)
	mapper := New(fake, newScope(t, fake, "a"))
	_, _, err := mapper.Resolve(context.Background(), "")
	assert.Error(t, err)
}

type failingEnsurer struct {
	calls int
}

func (f *failingEnsurer) EnsureFolder(ctx context.Context, input *store.EnsureFolderInput) (store.Handle, error) {
	f.calls++
	return "", store.NewError("creating folder", "fake", "a", input.Prefix, store.Auth(errors.New("401")))
}

func TestMapperErrorNotCached(t *testing.T) {
	ctx := context.Background()
	f := &failingEnsurer{}
	mapper := New(f, &store.Scope{Project: &store.Project{Name: "a"}, Root: "root"})
	_, _, err := mapper.Resolve(ctx, "x/y.txt")
	assert.True(t, store.IsAuth(err))
	_, _, err = mapper.Resolve(ctx, "x/y.txt")
	assert.Error(t, err)
	assert.Equal(t, 2, f.calls)
	assert.Equal(t, 0, mapper.Len())
}

func TestMapperLookupCreatesNothing(t *testing.T) {
	ctx := context.Background()
	fake := storetest.NewMemoryStore("cloud", false)
	scope := newScope(t, fake, "a")
	mapper := New(fake, scope)

	_, err := mapper.Lookup(ctx, []string{"x", "y"})
	assert.True(t, store.IsNotFound(err))
	assert.Equal(t, 0, fake.Count("ensureFolder"))
	assert.Equal(t, 0, mapper.Len())

	created, err := mapper.ResolveFolder(ctx, "x/y")
	require.NoError(t, err)

	found, err := New(fake, scope).Lookup(ctx, []string{"x", "y"})
	require.NoError(t, err)
	assert.Equal(t, created, found)
	assert.Equal(t, 3, fake.Count("findFolder"))
}

func TestMapperLookupUnsupported(t *testing.T) {
	mapper := New(&failingEnsurer{}, &store.Scope{Project: &store.Project{Name: "a"}, Root: "root"})
	_, err := mapper.Lookup(context.Background(), []string{"x"})
	assert.Error(t, err)
}
