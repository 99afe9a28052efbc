// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package diff

import (
	"encoding/json"

	"github.com/navwar/hubsync/pkg/store"
)

type ActionType string

const (
	Create ActionType = "create"
	Update ActionType = "update"
	Skip   ActionType = "skip"
)

// Action is one planned operation for a source path.
// Actions never delete.
type Action struct {
	Type ActionType
	Path string
	// Content is the source content for Create and Update.
	Content []byte
	// Existing is the destination handle replaced by an Update.
	Existing store.Handle
}

func (a *Action) String() string {
	return string(a.Type) + " " + a.Path
}

func (a *Action) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"path": a.Path,
		"size": len(a.Content),
		"type": a.Type,
	})
}
