// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package ts

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// ParseLocation parses "Local", "UTC", an hour offset such as "-8", or an IANA zone name.
func ParseLocation(location string) (*time.Location, error) {
	switch location {
	case "":
		return nil, errors.New("cannot parse location from empty string")
	case "Local":
		return time.Local, nil
	case "UTC":
		return time.UTC, nil
	}
	if hours, err := strconv.Atoi(location); err == nil {
		if hours < -12 || hours > 14 {
			return nil, fmt.Errorf("offset %d is out of range", hours)
		}
		return time.FixedZone("UTC"+location, hours*60*60), nil
	}
	l, err := time.LoadLocation(location)
	if err != nil {
		return nil, fmt.Errorf("error loading location %q: %w", location, err)
	}
	return l, nil
}
