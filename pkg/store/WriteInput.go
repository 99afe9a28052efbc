// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package store

type WriteInput struct {
	Scope *Scope
	// Path is relative to the project root.
	Path string
	// Parent is the handle of the folder containing the file.
	Parent  Handle
	Name    string
	Content []byte
	// Existing is the handle of the file being replaced, if any.
	Existing Handle
}
