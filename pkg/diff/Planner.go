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
	"fmt"

	"github.com/navwar/hubsync/pkg/store"
)

// Ignorer reports whether a relative path is excluded.
type Ignorer interface {
	ShouldSkip(relativePath string) bool
}

// Planner compares the listings of a source and a destination.
type Planner struct {
	Source      store.Store
	Destination store.Store
	Ignore      Ignorer
}

// identity returns the content identity of the entry, and the content if it had to be read.
// A blank identity is unknown.
func identity(ctx context.Context, s store.Store, scope *store.Scope, entry *store.Entry) (string, []byte, error) {
	if len(entry.ContentHash) > 0 {
		return entry.ContentHash, nil, nil
	}
	if !s.HashesOnRead() {
		return "", nil, nil
	}
	content, err := s.Read(ctx, scope, entry)
	if err != nil {
		return "", nil, err
	}
	return store.ContentHash(content), content, nil
}

func (p *Planner) skip(relativePath string) bool {
	return p.Ignore != nil && p.Ignore.ShouldSkip(relativePath)
}

// Plan returns one action for every source path that is not ignored and could be compared.
// Paths that could not be compared are returned as failures.
// An error is returned only if a backend rejected the credentials.
func (p *Planner) Plan(ctx context.Context, input *PlanInput) (*Plan, error) {
	plan := &Plan{
		Actions:  []*Action{},
		Failures: []*Failure{},
	}

	destinationEntries := map[string]*store.Entry{}
	for _, de := range input.DestinationEntries {
		if p.skip(de.Path) {
			continue
		}
		if _, ok := destinationEntries[de.Path]; !ok {
			destinationEntries[de.Path] = de
		}
	}

	seen := map[string]struct{}{}
	for _, se := range input.SourceEntries {
		if p.skip(se.Path) {
			continue
		}
		if _, ok := seen[se.Path]; ok {
			plan.Failures = append(plan.Failures, &Failure{
				Path: se.Path,
				Err:  errors.New("path is listed more than once by the source"),
			})
			continue
		}
		seen[se.Path] = struct{}{}

		action, err := p.compare(ctx, input, se, destinationEntries[se.Path])
		if err != nil {
			if store.IsAuth(err) {
				return nil, fmt.Errorf("error comparing %q: %w", se.Path, err)
			}
			plan.Failures = append(plan.Failures, &Failure{Path: se.Path, Err: err})
			continue
		}
		plan.Actions = append(plan.Actions, action)
	}

	return plan, nil
}

func (p *Planner) compare(ctx context.Context, input *PlanInput, se *store.Entry, de *store.Entry) (*Action, error) {
	// absent at destination
	if de == nil {
		content, err := p.Source.Read(ctx, input.SourceScope, se)
		if err != nil {
			return nil, err
		}
		return &Action{Type: Create, Path: se.Path, Content: content}, nil
	}

	sourceIdentity, content, err := identity(ctx, p.Source, input.SourceScope, se)
	if err != nil {
		return nil, err
	}

	// an unknown source identity is always transferred
	if len(sourceIdentity) > 0 {
		// a destination that vanished since it was listed is a failure, not a create
		destinationIdentity, _, err := identity(ctx, p.Destination, input.DestinationScope, de)
		if err != nil {
			return nil, err
		}
		if len(destinationIdentity) > 0 && destinationIdentity == sourceIdentity {
			return &Action{Type: Skip, Path: se.Path}, nil
		}
	}

	if content == nil {
		content, err = p.Source.Read(ctx, input.SourceScope, se)
		if err != nil {
			return nil, err
		}
	}

	return &Action{Type: Update, Path: se.Path, Content: content, Existing: de.Handle}, nil
}
