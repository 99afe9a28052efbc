// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package pathmap

// Split returns the segments of a slash-separated relative path.
// Empty segments and "." segments are dropped.
func Split(p string) []string {
	segments := []string{}
	d := []byte{}
	for i := 0; i < len(p); i++ {
		if p[i] == '/' {
			if len(d) > 0 && string(d) != "." {
				segments = append(segments, string(d))
			}
			d = []byte{}
			continue
		}
		d = append(d, p[i])
	}
	if len(d) > 0 && string(d) != "." {
		segments = append(segments, string(d))
	}
	return segments
}
