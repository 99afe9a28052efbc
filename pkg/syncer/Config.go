// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package syncer

import (
	"github.com/navwar/hubsync/pkg/diff"
	"github.com/navwar/hubsync/pkg/store"
)

// Config is everything a run needs besides the backends.
// Nothing in the engine reads the process environment.
type Config struct {
	// Account owns the projects.  Cloud stores nest project folders under it.
	Account   string
	Direction Direction
	Ignore    diff.Ignorer
	// Projects restricts the run to the named projects.  Empty means all projects.
	Projects []string
	// Limit is the maximum number of files transferred in the run.  Zero or less means no limit.
	Limit  int
	DryRun bool
	// RunID is included in every log message.
	RunID  string
	Logger store.Logger
}
