// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package ts

import (
	"strconv"
	"time"
)

// Layout formats modification times in listings.
type Layout string

const (
	// Unix formats times as seconds since the epoch.
	Unix Layout = "Unix"
)

// Format returns the time in the location, or a dash for the zero time.
// GitHub listings carry no modification times.
func (l Layout) Format(t time.Time, location *time.Location) string {
	if t.IsZero() {
		return "-"
	}
	if l == Unix {
		return strconv.FormatInt(t.Unix(), 10)
	}
	if location != nil {
		t = t.In(location)
	}
	return t.Format(string(l))
}

// Width returns the width of a formatted time, for aligning columns.
func (l Layout) Width() int {
	if l == Unix {
		return 10
	}
	return len(string(l))
}

var NamedLayouts = map[string]Layout{
	"Unix":        Unix,
	"RFC3339":     time.RFC3339,
	"RFC3339Nano": time.RFC3339Nano,
	"DateTime":    time.DateTime,
	"DateOnly":    time.DateOnly,
	"Default":     "Jan 02 15:04",
	"Full":        "Jan 02 15:04:05 2006",
}

// ParseLayout returns the named layout, or the value itself as a Go layout.
func ParseLayout(layout string) Layout {
	if format, ok := NamedLayouts[layout]; ok {
		return format
	}
	return Layout(layout)
}
