// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package store

type EnsureFolderInput struct {
	Scope  *Scope
	Parent Handle
	Name   string
	// Prefix is the full slash-separated path of the folder relative to the root of the mapper.
	Prefix string
}
