// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package pathmap

import (
	"strings"
)

// Dir returns the folder prefix of a relative path, or a blank string if the path is at the root.
func Dir(p string) string {
	segments := Split(p)
	if len(segments) < 2 {
		return ""
	}
	return strings.Join(segments[0:len(segments)-1], "/")
}
