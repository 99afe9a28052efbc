// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package store

import (
	"crypto/md5"
	"encoding/hex"
)

// ContentHash returns the lowercase hex MD5 digest of the content.
// All backends agree on this digest, so identical bytes compare equal across backends.
func ContentHash(content []byte) string {
	sum := md5.Sum(content)
	return hex.EncodeToString(sum[:])
}
