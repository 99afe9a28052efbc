// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package store

import (
	"encoding/json"
)

type Project struct {
	Name          string
	Archived      bool
	DefaultBranch string
}

func (p *Project) String() string {
	return p.Name
}

func (p *Project) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"archived":       p.Archived,
		"default_branch": p.DefaultBranch,
		"name":           p.Name,
	})
}
