// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package s3store

import (
	"errors"
	"net/http"
	"path"
	"strings"

	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/navwar/hubsync/pkg/store"
)

const storeName = "s3"

// authErrorCodes are the error codes returned when the credentials themselves are rejected.
// Other 403 responses, such as AccessDenied, are specific to one key.
var authErrorCodes = map[string]struct{}{
	"InvalidAccessKeyId":    {},
	"SignatureDoesNotMatch": {},
	"ExpiredToken":          {},
	"InvalidToken":          {},
}

// wrap maps a failed call onto the store error taxonomy.
func wrap(op string, project string, p string, err error) error {
	return store.NewError(op, storeName, project, p, classify(err))
}

func classify(err error) error {
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return store.NotFound(err)
	}
	var noSuchBucket *types.NoSuchBucket
	if errors.As(err, &noSuchBucket) {
		return store.NotFound(err)
	}
	var apiError smithy.APIError
	if errors.As(err, &apiError) {
		if _, ok := authErrorCodes[apiError.ErrorCode()]; ok {
			return store.Auth(err)
		}
	}
	var responseError *awshttp.ResponseError
	if errors.As(err, &responseError) && responseError.HTTPStatusCode() == http.StatusNotFound {
		return store.NotFound(err)
	}
	return err
}

// Join joins the non-empty key segments with a slash.
func Join(segments ...string) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		if s = strings.Trim(s, "/"); len(s) > 0 {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return path.Join(parts...)
}

// NormalizeETag returns the MD5 of the object from the entity tag, or an empty string if the tag is not an MD5.
// Objects uploaded in parts have a tag with a dash and the number of parts.
func NormalizeETag(etag string) string {
	etag = strings.Trim(etag, "\"")
	if strings.Contains(etag, "-") || len(etag) != 32 {
		return ""
	}
	return strings.ToLower(etag)
}
