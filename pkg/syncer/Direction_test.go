// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package syncer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDirection(t *testing.T) {
	d, err := ParseDirection("push")
	assert.NoError(t, err)
	assert.Equal(t, Push, d)
	assert.True(t, d.Push())
	assert.False(t, d.Pull())

	d, err = ParseDirection("pull")
	assert.NoError(t, err)
	assert.False(t, d.Push())
	assert.True(t, d.Pull())

	d, err = ParseDirection("both")
	assert.NoError(t, err)
	assert.True(t, d.Push())
	assert.True(t, d.Pull())

	for _, s := range []string{"", "PUSH", "sync", "push,pull"} {
		_, err = ParseDirection(s)
		assert.Error(t, err, s)
	}
}
