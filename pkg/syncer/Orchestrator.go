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

	"github.com/navwar/hubsync/pkg/store"
)

// Orchestrator synchronizes every project of an account between a code host and a cloud store.
type Orchestrator struct {
	codeHost store.Store
	lister   store.ProjectLister
	cloud    store.Store
	config   *Config
	// transfers counts files written so far in the run
	transfers int
}

type NewOrchestratorInput struct {
	CodeHost store.Store
	Projects store.ProjectLister
	Cloud    store.Store
	Config   *Config
}

func (o *Orchestrator) log(msg string, fields map[string]interface{}) {
	if o.config.Logger == nil {
		return
	}
	if len(o.config.RunID) > 0 {
		fields["run"] = o.config.RunID
	}
	_ = o.config.Logger.Log(msg, fields)
}

func (o *Orchestrator) selected(project *store.Project) bool {
	if len(o.config.Projects) == 0 {
		return true
	}
	for _, name := range o.config.Projects {
		if name == project.Name {
			return true
		}
	}
	return false
}

func (o *Orchestrator) limitReached() bool {
	return o.config.Limit > 0 && o.transfers >= o.config.Limit
}

// Run synchronizes all selected projects that are not archived.
// Failures of a single project or file are logged and counted in the summary.
// An error is returned only if the projects could not be listed or a backend rejected the credentials.
func (o *Orchestrator) Run(ctx context.Context) (*Summary, error) {
	summary := &Summary{}

	o.log("Synchronizing", map[string]interface{}{
		"account":   o.config.Account,
		"direction": o.config.Direction.String(),
		"code_host": o.codeHost.Name(),
		"cloud":     o.cloud.Name(),
		"dry_run":   o.config.DryRun,
	})

	projects, err := o.lister.ListProjects(ctx)
	if err != nil {
		return summary, fmt.Errorf("error listing projects for account %q: %w", o.config.Account, err)
	}

	for _, project := range projects {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		if project.Archived {
			o.log("Skipping archived project", map[string]interface{}{
				"project": project.Name,
			})
			summary.ProjectsArchived++
			continue
		}
		if !o.selected(project) {
			summary.ProjectsFiltered++
			continue
		}
		if o.limitReached() {
			break
		}
		summary.Projects++
		if err := o.syncProject(ctx, project, summary); err != nil {
			if store.IsAuth(err) {
				return summary, err
			}
			o.log("Error synchronizing project", map[string]interface{}{
				"project": project.Name,
				"err":     err.Error(),
			})
			summary.ProjectsFailed++
			continue
		}
	}

	summary.LimitReached = o.limitReached()

	o.log("Done synchronizing", summary.Fields())

	return summary, nil
}

func (o *Orchestrator) syncProject(ctx context.Context, project *store.Project, summary *Summary) error {
	codeHostScope, err := o.codeHost.Root(ctx, project)
	if err != nil {
		return fmt.Errorf("error resolving root of project %q on %s: %w", project.Name, o.codeHost.Name(), err)
	}

	cloudScope, err := o.cloudRoot(ctx, project)
	if err != nil {
		return fmt.Errorf("error resolving root of project %q on %s: %w", project.Name, o.cloud.Name(), err)
	}

	// push completes before pull begins for the same project
	if o.config.Direction.Push() {
		err := o.pass(ctx, &PassInput{
			Direction:        Push,
			Source:           o.codeHost,
			SourceScope:      codeHostScope,
			Destination:      o.cloud,
			DestinationScope: cloudScope,
		}, summary)
		if err != nil {
			return fmt.Errorf("error pushing project %q: %w", project.Name, err)
		}
	}

	if o.config.Direction.Pull() {
		err := o.pass(ctx, &PassInput{
			Direction:        Pull,
			Source:           o.cloud,
			SourceScope:      cloudScope,
			Destination:      o.codeHost,
			DestinationScope: codeHostScope,
		}, summary)
		if err != nil {
			return fmt.Errorf("error pulling project %q: %w", project.Name, err)
		}
	}

	return nil
}

// cloudRoot resolves the root of the project on the cloud backend.
// A dry run creates nothing, so a missing root is returned as a scope without a handle.
func (o *Orchestrator) cloudRoot(ctx context.Context, project *store.Project) (*store.Scope, error) {
	if !o.config.DryRun {
		return o.cloud.Root(ctx, project)
	}
	scope, err := o.cloud.Lookup(ctx, project)
	if err != nil {
		if !store.IsNotFound(err) {
			return nil, err
		}
		o.log("Project root does not exist", map[string]interface{}{
			"project": project.Name,
			"store":   o.cloud.Name(),
		})
		return &store.Scope{Project: project}, nil
	}
	return scope, nil
}

func NewOrchestrator(input *NewOrchestratorInput) *Orchestrator {
	config := input.Config
	if config == nil {
		config = &Config{}
	}
	if len(config.Direction) == 0 {
		config.Direction = DefaultDirection
	}
	return &Orchestrator{
		codeHost: input.CodeHost,
		lister:   input.Projects,
		cloud:    input.Cloud,
		config:   config,
	}
}
