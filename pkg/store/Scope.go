// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package store

// Scope is a project resolved on one backend.
type Scope struct {
	Project *Project
	Root    Handle
}

// ProjectName returns the name of the project or a blank string.
func (s *Scope) ProjectName() string {
	if s == nil || s.Project == nil {
		return ""
	}
	return s.Project.Name
}
