// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package syncer

import (
	"fmt"
)

// Direction selects which passes run for each project.
type Direction string

const (
	// Push copies from the code host to the cloud store.
	Push Direction = "push"
	// Pull copies from the cloud store to the code host.
	Pull Direction = "pull"
	// Both runs Push and then Pull.
	Both Direction = "both"
)

const DefaultDirection = Both

// Directions lists the accepted values.
var Directions = []Direction{Push, Pull, Both}

func (d Direction) Push() bool {
	return d == Push || d == Both
}

func (d Direction) Pull() bool {
	return d == Pull || d == Both
}

func (d Direction) String() string {
	return string(d)
}

// ParseDirection returns the direction named by s.
// Only the exact values push, pull, and both are accepted.
func ParseDirection(s string) (Direction, error) {
	for _, d := range Directions {
		if s == string(d) {
			return d, nil
		}
	}
	return "", fmt.Errorf("invalid direction %q, expecting one of %q, %q, or %q", s, Push, Pull, Both)
}
