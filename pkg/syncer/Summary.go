// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package syncer

import (
	"github.com/dustin/go-humanize"
)

// Summary counts the outcome of a run.
type Summary struct {
	Projects         int
	ProjectsArchived int
	ProjectsFiltered int
	ProjectsFailed   int
	Created          int
	Updated          int
	Skipped          int
	Planned          int
	Failures         int
	Bytes            int64
	LimitReached     bool
}

// Transfers returns the number of files written.
func (s *Summary) Transfers() int {
	return s.Created + s.Updated
}

func (s *Summary) Fields() map[string]interface{} {
	fields := map[string]interface{}{
		"projects":          s.Projects,
		"projects_archived": s.ProjectsArchived,
		"projects_failed":   s.ProjectsFailed,
		"created":           s.Created,
		"updated":           s.Updated,
		"skipped":           s.Skipped,
		"failures":          s.Failures,
		"transferred":       humanize.Bytes(uint64(s.Bytes)),
	}
	if s.ProjectsFiltered > 0 {
		fields["projects_filtered"] = s.ProjectsFiltered
	}
	if s.Planned > 0 {
		fields["planned"] = s.Planned
	}
	if s.LimitReached {
		fields["limit_reached"] = true
	}
	return fields
}
