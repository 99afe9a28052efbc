// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package diff

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/navwar/hubsync/pkg/ignore"
	"github.com/navwar/hubsync/pkg/store"
	"github.com/navwar/hubsync/pkg/store/storetest"
)

type fixture struct {
	source      *storetest.MemoryStore
	destination *storetest.MemoryStore
	planner     *Planner
}

// newFixture returns a code host source that hashes on read and a cloud destination with native hashes.
func newFixture(t *testing.T, sourceFiles map[string]string, destinationFiles map[string]string) *fixture {
	source := storetest.NewMemoryStore("code", true)
	source.AddProject(&store.Project{Name: "p"}, sourceFiles)
	destination := storetest.NewMemoryStore("cloud", false)
	destination.AddProject(&store.Project{Name: "p"}, destinationFiles)
	return &fixture{
		source:      source,
		destination: destination,
		planner: &Planner{
			Source:      source,
			Destination: destination,
			Ignore:      ignore.NewDefaultPolicy(),
		},
	}
}

func (f *fixture) plan(t *testing.T) *Plan {
	ctx := context.Background()
	project := &store.Project{Name: "p"}
	sourceScope, err := f.source.Root(ctx, project)
	require.NoError(t, err)
	destinationScope, err := f.destination.Root(ctx, project)
	require.NoError(t, err)
	sourceEntries, err := f.source.ListAll(ctx, sourceScope)
	require.NoError(t, err)
	destinationEntries, err := f.destination.ListAll(ctx, destinationScope)
	require.NoError(t, err)
	plan, err := f.planner.Plan(ctx, &PlanInput{
		SourceScope:        sourceScope,
		SourceEntries:      sourceEntries,
		DestinationScope:   destinationScope,
		DestinationEntries: destinationEntries,
	})
	require.NoError(t, err)
	return plan
}

func paths(actions []*Action) []string {
	out := []string{}
	for _, a := range actions {
		out = append(out, a.String())
	}
	return out
}

func TestPlanCreateAndSkip(t *testing.T) {
	f := newFixture(t,
		map[string]string{"a.txt": "X", "dir/b.txt": "Y"},
		map[string]string{"a.txt": "X"},
	)
	plan := f.plan(t)
	assert.Equal(t, []string{"skip a.txt", "create dir/b.txt"}, paths(plan.Actions))
	assert.Equal(t, []byte("Y"), plan.Actions[1].Content)
	assert.Nil(t, plan.Actions[0].Content)
	assert.Empty(t, plan.Failures)
	assert.Equal(t, 1, plan.Count(Skip))
	assert.Equal(t, 1, plan.Count(Create))
	assert.Len(t, plan.Transfers(), 1)
}

func TestPlanNoDelete(t *testing.T) {
	f := newFixture(t,
		map[string]string{"a.txt": "X"},
		map[string]string{"a.txt": "X", "old.txt": "Z"},
	)
	plan := f.plan(t)
	for _, a := range plan.Actions {
		assert.NotEqual(t, "old.txt", a.Path)
	}
	assert.Equal(t, []string{"skip a.txt"}, paths(plan.Actions))
}

func TestPlanUpdate(t *testing.T) {
	f := newFixture(t,
		map[string]string{"a.txt": "new"},
		map[string]string{"a.txt": "old"},
	)
	plan := f.plan(t)
	require.Len(t, plan.Actions, 1)
	assert.Equal(t, Update, plan.Actions[0].Type)
	assert.Equal(t, []byte("new"), plan.Actions[0].Content)
	assert.Equal(t, store.Handle("file:p/a.txt"), plan.Actions[0].Existing)
}

func TestPlanUnknownIdentityTransfers(t *testing.T) {
	f := newFixture(t,
		map[string]string{"a.txt": "same"},
		map[string]string{"a.txt": "same"},
	)
	f.destination.MissingHashes = map[string]bool{"a.txt": true}
	plan := f.plan(t)
	require.Len(t, plan.Actions, 1)
	assert.Equal(t, Update, plan.Actions[0].Type)
}

func TestPlanIgnored(t *testing.T) {
	f := newFixture(t,
		map[string]string{".git/config": "c", "node_modules/x/y.js": "y", "src/.env": "e", "src/main.go": "m"},
		map[string]string{},
	)
	plan := f.plan(t)
	assert.Equal(t, []string{"create src/main.go"}, paths(plan.Actions))
	assert.Equal(t, 0, f.source.Count("read", ".git/config"))
}

func TestPlanReadFailureIsSoft(t *testing.T) {
	f := newFixture(t,
		map[string]string{"a.txt": "X", "b.txt": "Y", "c.txt": "Z"},
		map[string]string{},
	)
	f.source.ReadErrors = map[string]error{
		"p/a.txt": store.NewError("reading", "code", "p", "a.txt", store.NotFound(errors.New("gone"))),
		"p/b.txt": store.NewError("reading", "code", "p", "b.txt", errors.New("500")),
	}
	plan := f.plan(t)
	assert.Equal(t, []string{"create c.txt"}, paths(plan.Actions))
	require.Len(t, plan.Failures, 2)
	assert.Equal(t, "a.txt", plan.Failures[0].Path)
	assert.True(t, store.IsNotFound(plan.Failures[0]))
	assert.Equal(t, "b.txt", plan.Failures[1].Path)
}

func TestPlanDestinationReadFailureIsSoft(t *testing.T) {
	// cloud source with native hashes, code host destination hashing on read
	source := storetest.NewMemoryStore("cloud", false)
	source.AddProject(&store.Project{Name: "p"}, map[string]string{"a.txt": "X", "b.txt": "Y"})
	destination := storetest.NewMemoryStore("code", true)
	destination.AddProject(&store.Project{Name: "p"}, map[string]string{"a.txt": "X", "b.txt": "old"})
	destination.ReadErrors = map[string]error{"p/a.txt": errors.New("503")}
	f := &fixture{source: source, destination: destination, planner: &Planner{Source: source, Destination: destination}}
	plan := f.plan(t)
	assert.Equal(t, []string{"update b.txt"}, paths(plan.Actions))
	require.Len(t, plan.Failures, 1)
	assert.Equal(t, "a.txt", plan.Failures[0].Path)
}

func TestPlanSkipWithoutReadingSource(t *testing.T) {
	source := storetest.NewMemoryStore("cloud", false)
	source.AddProject(&store.Project{Name: "p"}, map[string]string{"a.txt": "X"})
	destination := storetest.NewMemoryStore("code", true)
	destination.AddProject(&store.Project{Name: "p"}, map[string]string{"a.txt": "X"})
	f := &fixture{source: source, destination: destination, planner: &Planner{Source: source, Destination: destination}}
	plan := f.plan(t)
	assert.Equal(t, []string{"skip a.txt"}, paths(plan.Actions))
	assert.Equal(t, 0, source.Count("read"))
	assert.Equal(t, 1, destination.Count("read", "a.txt"))
}

func TestPlanDestinationVanished(t *testing.T) {
	source := storetest.NewMemoryStore("cloud", false)
	source.AddProject(&store.Project{Name: "p"}, map[string]string{"a.txt": "X"})
	destination := storetest.NewMemoryStore("code", true)
	destination.AddProject(&store.Project{Name: "p"}, map[string]string{"a.txt": "X"})
	destination.ReadErrors = map[string]error{"p/a.txt": store.NotFound(errors.New("gone"))}
	f := &fixture{source: source, destination: destination, planner: &Planner{Source: source, Destination: destination}}
	plan := f.plan(t)
	assert.Empty(t, plan.Actions)
	require.Len(t, plan.Failures, 1)
	assert.Equal(t, "a.txt", plan.Failures[0].Path)
	assert.True(t, store.IsNotFound(plan.Failures[0].Err))
	assert.Equal(t, 0, destination.Count("write"))
}

func TestPlanAuthFailureAborts(t *testing.T) {
	f := newFixture(t, map[string]string{"a.txt": "X"}, map[string]string{})
	f.source.ReadErrors = map[string]error{"p/a.txt": store.Auth(errors.New("401"))}
	ctx := context.Background()
	scope, err := f.source.Root(ctx, &store.Project{Name: "p"})
	require.NoError(t, err)
	entries, err := f.source.ListAll(ctx, scope)
	require.NoError(t, err)
	_, err = f.planner.Plan(ctx, &PlanInput{SourceScope: scope, SourceEntries: entries, DestinationScope: scope})
	assert.True(t, store.IsAuth(err))
}

func TestPlanDuplicateSourcePath(t *testing.T) {
	f := newFixture(t, map[string]string{}, map[string]string{})
	entries := []*store.Entry{{Path: "a.txt"}, {Path: "a.txt"}}
	f.source.AddProject(&store.Project{Name: "p"}, map[string]string{"a.txt": "X"})
	scope := &store.Scope{Project: &store.Project{Name: "p"}}
	plan, err := f.planner.Plan(context.Background(), &PlanInput{SourceScope: scope, SourceEntries: entries, DestinationScope: scope})
	require.NoError(t, err)
	assert.Equal(t, []string{"create a.txt"}, paths(plan.Actions))
	assert.Len(t, plan.Failures, 1)
}

func TestPlanKindIsPureFunctionOfPresenceAndIdentity(t *testing.T) {
	cases := []struct {
		source      map[string]string
		destination map[string]string
		expected    ActionType
	}{
		{map[string]string{"f": "1"}, map[string]string{}, Create},
		{map[string]string{"f": "1"}, map[string]string{"f": "2"}, Update},
		{map[string]string{"f": "1"}, map[string]string{"f": "1"}, Skip},
		{map[string]string{"f": ""}, map[string]string{"f": ""}, Skip},
		{map[string]string{"f": ""}, map[string]string{"f": "x"}, Update},
	}
	for _, c := range cases {
		f := newFixture(t, c.source, c.destination)
		plan := f.plan(t)
		require.Len(t, plan.Actions, 1)
		assert.Equal(t, c.expected, plan.Actions[0].Type)
	}
}
