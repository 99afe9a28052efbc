// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package syncer

import (
	"context"
	"fmt"

	"github.com/navwar/hubsync/pkg/diff"
	"github.com/navwar/hubsync/pkg/pathmap"
	"github.com/navwar/hubsync/pkg/store"
)

// pass lists both sides, plans, and transfers one direction of one project.
// The returned error aborts the project.
func (o *Orchestrator) pass(ctx context.Context, input *PassInput, summary *Summary) error {
	projectName := input.SourceScope.ProjectName()

	sourceEntries, err := list(ctx, input.Source, input.SourceScope)
	if err != nil {
		return fmt.Errorf("error listing source on %s: %w", input.Source.Name(), err)
	}

	destinationEntries, err := list(ctx, input.Destination, input.DestinationScope)
	if err != nil {
		return fmt.Errorf("error listing destination on %s: %w", input.Destination.Name(), err)
	}

	planner := &diff.Planner{
		Source:      input.Source,
		Destination: input.Destination,
		Ignore:      o.config.Ignore,
	}

	plan, err := planner.Plan(ctx, &diff.PlanInput{
		SourceScope:        input.SourceScope,
		SourceEntries:      sourceEntries,
		DestinationScope:   input.DestinationScope,
		DestinationEntries: destinationEntries,
	})
	if err != nil {
		return err
	}

	for _, f := range plan.Failures {
		msg := "Error comparing file"
		if store.IsNotFound(f.Err) {
			msg = "Skipping missing file"
		}
		o.log(msg, map[string]interface{}{
			"project":   projectName,
			"direction": input.Direction.String(),
			"path":      f.Path,
			"err":       f.Err.Error(),
		})
		summary.Failures++
	}

	summary.Skipped += plan.Count(diff.Skip)

	// folder handles are only valid for this project and direction
	var mapper *pathmap.Mapper
	if !o.config.DryRun {
		mapper = pathmap.New(input.Destination, input.DestinationScope)
	}

	for _, action := range plan.Transfers() {
		if o.limitReached() {
			o.log("Limit reached", map[string]interface{}{
				"project":   projectName,
				"direction": input.Direction.String(),
				"limit":     o.config.Limit,
			})
			return nil
		}

		fields := map[string]interface{}{
			"project":   projectName,
			"direction": input.Direction.String(),
			"action":    string(action.Type),
			"path":      action.Path,
			"size":      len(action.Content),
		}

		if o.config.DryRun {
			o.log("Planned transfer", fields)
			summary.Planned++
			continue
		}

		h, err := o.transfer(ctx, mapper, input, action)
		if err != nil {
			if store.IsAuth(err) {
				return err
			}
			fields["err"] = err.Error()
			o.log("Error transferring file", fields)
			summary.Failures++
			continue
		}

		fields["handle"] = string(h)
		o.log("Transferred file", fields)

		o.transfers++
		summary.Bytes += int64(len(action.Content))
		switch action.Type {
		case diff.Create:
			summary.Created++
		case diff.Update:
			summary.Updated++
		}
	}

	return nil
}

// list returns every file of the scope.
// A scope without a root handle has not been created and has no files.
func list(ctx context.Context, s store.Store, scope *store.Scope) ([]*store.Entry, error) {
	if len(scope.Root) == 0 {
		return []*store.Entry{}, nil
	}
	return s.ListAll(ctx, scope)
}

// transfer resolves the parent folder of the action and writes its content.
func (o *Orchestrator) transfer(ctx context.Context, mapper *pathmap.Mapper, input *PassInput, action *diff.Action) (store.Handle, error) {
	// ignored paths never create folders
	if o.config.Ignore != nil && o.config.Ignore.ShouldSkip(action.Path) {
		return "", fmt.Errorf("path %q is ignored", action.Path)
	}
	parent, name, err := mapper.Resolve(ctx, action.Path)
	if err != nil {
		return "", err
	}
	h, err := input.Destination.Write(ctx, &store.WriteInput{
		Scope:    input.DestinationScope,
		Path:     action.Path,
		Parent:   parent,
		Name:     name,
		Content:  action.Content,
		Existing: action.Existing,
	})
	if err != nil {
		return "", fmt.Errorf("error writing %q to %s: %w", action.Path, input.Destination.Name(), err)
	}
	return h, nil
}
