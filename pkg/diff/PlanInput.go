// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package diff

import (
	"github.com/navwar/hubsync/pkg/store"
)

type PlanInput struct {
	SourceScope        *store.Scope
	SourceEntries      []*store.Entry
	DestinationScope   *store.Scope
	DestinationEntries []*store.Entry
}
