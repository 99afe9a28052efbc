// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package syncer

import (
	"github.com/navwar/hubsync/pkg/store"
)

// PassInput is one direction of one project.
type PassInput struct {
	Direction        Direction
	Source           store.Store
	SourceScope      *store.Scope
	Destination      store.Store
	DestinationScope *store.Scope
}
