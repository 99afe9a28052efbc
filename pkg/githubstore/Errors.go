// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package githubstore

import (
	"errors"
	"net/http"

	"github.com/google/go-github/v57/github"

	"github.com/navwar/hubsync/pkg/store"
)

const storeName = "github"

// statusCode returns the HTTP status code of a failed call, or zero.
func statusCode(resp *github.Response, err error) int {
	var errorResponse *github.ErrorResponse
	if errors.As(err, &errorResponse) && errorResponse.Response != nil {
		return errorResponse.Response.StatusCode
	}
	if resp != nil && resp.Response != nil {
		return resp.StatusCode
	}
	return 0
}

// wrap maps a failed call onto the store error taxonomy.
func wrap(op string, project string, path string, resp *github.Response, err error) error {
	switch statusCode(resp, err) {
	case http.StatusUnauthorized:
		err = store.Auth(err)
	case http.StatusNotFound:
		err = store.NotFound(err)
	}
	return store.NewError(op, storeName, project, path, err)
}
