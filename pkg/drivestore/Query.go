// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package drivestore

import (
	"fmt"
	"strings"
)

const (
	FolderMimeType = "application/vnd.google-apps.folder"
	// NativeMimeTypePrefix marks documents that have no binary content.
	NativeMimeTypePrefix = "application/vnd.google-apps."
)

// Escape escapes a value for use in a single-quoted string of a query.
func Escape(s string) string {
	return strings.NewReplacer(`\`, `\\`, "'", `\'`).Replace(s)
}

// ChildrenQuery returns the query for the children of a folder that are not trashed.
func ChildrenQuery(parent string) string {
	return fmt.Sprintf("'%s' in parents and trashed = false", Escape(parent))
}

// FolderQuery returns the query for a folder by name under a parent.
func FolderQuery(parent string, name string) string {
	return fmt.Sprintf("name = '%s' and mimeType = '%s' and '%s' in parents and trashed = false",
		Escape(name),
		FolderMimeType,
		Escape(parent))
}
