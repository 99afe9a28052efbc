// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package store

import (
	"mime"
	"path"

	"github.com/gabriel-vasile/mimetype"
)

// ContentType returns the media type for a file, using the extension of the name if it is registered,
// and otherwise detecting the type from the content.
func ContentType(name string, content []byte) string {
	if t := mime.TypeByExtension(path.Ext(name)); len(t) > 0 {
		return t
	}
	return mimetype.Detect(content).String()
}
