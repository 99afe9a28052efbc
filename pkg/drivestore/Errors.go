// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package drivestore

import (
	"errors"
	"net/http"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"

	"github.com/navwar/hubsync/pkg/store"
)

const storeName = "gdrive"

// wrap maps a failed call onto the store error taxonomy.
func wrap(op string, project string, path string, err error) error {
	var apiError *googleapi.Error
	if errors.As(err, &apiError) {
		switch apiError.Code {
		case http.StatusUnauthorized:
			err = store.Auth(err)
		case http.StatusNotFound:
			err = store.NotFound(err)
		}
	}
	// the token endpoint rejects a service account before drive is called
	var retrieveError *oauth2.RetrieveError
	if errors.As(err, &retrieveError) && retrieveError.Response != nil {
		switch retrieveError.Response.StatusCode {
		case http.StatusBadRequest, http.StatusUnauthorized:
			err = store.Auth(err)
		}
	}
	return store.NewError(op, storeName, project, path, err)
}
