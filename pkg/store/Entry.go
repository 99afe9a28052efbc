// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package store

import (
	"encoding/json"
	"time"
)

// Entry is one file within a project.
// Path is relative to the project root and slash-separated.
// ContentHash is blank when the backend cannot supply one.
type Entry struct {
	Path        string
	ContentHash string
	Handle      Handle
	ModTime     time.Time
	Size        int64
}

func (e *Entry) String() string {
	return e.Path
}

func (e *Entry) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"hash":    e.ContentHash,
		"modTime": e.ModTime,
		"path":    e.Path,
		"size":    e.Size,
	})
}

func NewEntry(path string, contentHash string, handle Handle, modTime time.Time, size int64) *Entry {
	return &Entry{
		Path:        path,
		ContentHash: contentHash,
		Handle:      handle,
		ModTime:     modTime,
		Size:        size,
	}
}
