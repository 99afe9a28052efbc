// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	SchemeGDrive = "gdrive"
	SchemeS3     = "s3"
	SchemeFile   = "file"
)

var Schemes = []string{SchemeFile, SchemeGDrive, SchemeS3}

// Destination is a parsed cloud destination URI.
type Destination struct {
	Scheme string
	// Bucket is the S3 bucket or the Google Drive folder id.
	Bucket string
	// Path is the S3 key prefix or the local directory.
	Path string
}

func (d *Destination) String() string {
	switch d.Scheme {
	case SchemeFile:
		return SchemeFile + "://" + d.Path
	case SchemeS3:
		if len(d.Path) > 0 {
			return SchemeS3 + "://" + d.Bucket + "/" + d.Path
		}
		return SchemeS3 + "://" + d.Bucket
	}
	return d.Scheme + "://" + d.Bucket
}

// ParseDestination parses a cloud destination URI.
// A path without a scheme is a local directory.
func ParseDestination(uri string) (*Destination, error) {
	if len(uri) == 0 {
		return nil, fmt.Errorf("destination is missing")
	}
	if strings.HasPrefix(uri, SchemeGDrive+"://") {
		folderID := strings.Trim(uri[len(SchemeGDrive+"://"):], "/")
		if len(folderID) == 0 {
			return nil, fmt.Errorf("destination %q is missing the folder id", uri)
		}
		if strings.Contains(folderID, "/") {
			return nil, fmt.Errorf("destination %q is invalid, expecting a single folder id", uri)
		}
		return &Destination{Scheme: SchemeGDrive, Bucket: folderID}, nil
	}
	if strings.HasPrefix(uri, SchemeS3+"://") {
		parts := strings.SplitN(strings.TrimPrefix(uri[len(SchemeS3+"://"):], "/"), "/", 2)
		if len(parts[0]) == 0 {
			return nil, fmt.Errorf("destination %q is missing the bucket", uri)
		}
		d := &Destination{Scheme: SchemeS3, Bucket: parts[0]}
		if len(parts) == 2 {
			d.Path = strings.Trim(parts[1], "/")
		}
		return d, nil
	}
	if strings.HasPrefix(uri, SchemeFile+"://") {
		uri = uri[len(SchemeFile+"://"):]
		if len(uri) == 0 {
			return nil, fmt.Errorf("destination %q is missing the path", SchemeFile+"://")
		}
	}
	if i := strings.Index(uri, "://"); i != -1 {
		return nil, fmt.Errorf("destination %q has unknown scheme %q, expecting one of %s", uri, uri[:i], strings.Join(Schemes, ", "))
	}
	return &Destination{Scheme: SchemeFile, Path: uri}, nil
}

// destinationURI returns the destination, defaulting to the Google Drive folder.
func destinationURI(v *viper.Viper) string {
	if d := v.GetString(flagDestination); len(d) > 0 {
		return d
	}
	if folderID := v.GetString(flagGDriveFolderID); len(folderID) > 0 {
		return SchemeGDrive + "://" + folderID
	}
	return ""
}
