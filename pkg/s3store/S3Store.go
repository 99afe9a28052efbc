// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package s3store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/navwar/hubsync/pkg/pathmap"
	"github.com/navwar/hubsync/pkg/store"
)

// S3Store stores projects under the key prefix <prefix>/<account>/<project>/.
// Folders are zero-byte objects with a trailing slash.
type S3Store struct {
	client           *s3.Client
	bucket           string
	prefix           string
	account          string
	maxPages         int
	bucketKeyEnabled bool
	base             *pathmap.Mapper
}

func (s *S3Store) Name() string {
	return storeName
}

// HashesOnRead is true since objects uploaded in parts have no MD5 in the listing.
func (s *S3Store) HashesOnRead() bool {
	return true
}

func (s *S3Store) Root(ctx context.Context, project *store.Project) (*store.Scope, error) {
	h, err := s.base.Folder(ctx, []string{s.account, project.Name})
	if err != nil {
		return nil, fmt.Errorf("error resolving folder for project %q: %w", project.Name, err)
	}
	return &store.Scope{Project: project, Root: h}, nil
}

// Lookup returns the prefix of the project without putting any folder marker.
// A prefix with no objects lists as empty.
func (s *S3Store) Lookup(ctx context.Context, project *store.Project) (*store.Scope, error) {
	h, err := s.base.Lookup(ctx, []string{s.account, project.Name})
	if err != nil {
		return nil, fmt.Errorf("error looking up folder for project %q: %w", project.Name, err)
	}
	return &store.Scope{Project: project, Root: h}, nil
}

func (s *S3Store) ListAll(ctx context.Context, scope *store.Scope) ([]*store.Entry, error) {
	root := string(scope.Root) + "/"
	entries := []*store.Entry{}
	var continuationToken *string
	for i := 0; s.maxPages == -1 || i < s.maxPages; i++ {
		listObjectsInput := &s3.ListObjectsV2Input{
			Bucket: aws.String(s.bucket),
			Prefix: aws.String(root),
		}
		if continuationToken != nil {
			listObjectsInput.ContinuationToken = continuationToken
		}
		listObjectsOutput, err := s.client.ListObjectsV2(ctx, listObjectsInput)
		if err != nil {
			return nil, wrap("listing objects", scope.ProjectName(), "", err)
		}
		for _, object := range listObjectsOutput.Contents {
			key := aws.ToString(object.Key)
			// folder markers
			if strings.HasSuffix(key, "/") {
				continue
			}
			entries = append(entries, store.NewEntry(
				strings.TrimPrefix(key, root),
				NormalizeETag(aws.ToString(object.ETag)),
				store.Handle(key),
				aws.ToTime(object.LastModified),
				aws.ToInt64(object.Size),
			))
		}
		if !aws.ToBool(listObjectsOutput.IsTruncated) {
			return entries, nil
		}
		continuationToken = listObjectsOutput.NextContinuationToken
	}
	return nil, store.NewError("listing objects", storeName, scope.ProjectName(), "", fmt.Errorf("more than %d pages", s.maxPages))
}

func (s *S3Store) Read(ctx context.Context, scope *store.Scope, entry *store.Entry) ([]byte, error) {
	getObjectOutput, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(string(entry.Handle)),
	})
	if err != nil {
		return nil, wrap("getting object", scope.ProjectName(), entry.Path, err)
	}
	defer getObjectOutput.Body.Close()
	body, err := io.ReadAll(getObjectOutput.Body)
	if err != nil {
		return nil, wrap("reading object", scope.ProjectName(), entry.Path, err)
	}
	return body, nil
}

func (s *S3Store) put(ctx context.Context, key string, contentType string, content []byte) error {
	putObjectInput := &s3.PutObjectInput{
		ACL:           types.ObjectCannedACLBucketOwnerFullControl,
		Body:          bytes.NewReader(content),
		Bucket:        aws.String(s.bucket),
		ContentLength: aws.Int64(int64(len(content))),
		Key:           aws.String(key),
	}
	if s.bucketKeyEnabled {
		putObjectInput.BucketKeyEnabled = aws.Bool(true)
	}
	if len(contentType) > 0 {
		putObjectInput.ContentType = aws.String(contentType)
	}
	_, err := s.client.PutObject(ctx, putObjectInput)
	return err
}

// Write puts the object under the parent prefix.
// An existing object is overwritten in place.
func (s *S3Store) Write(ctx context.Context, input *store.WriteInput) (store.Handle, error) {
	key := string(input.Existing)
	if len(key) == 0 {
		key = Join(string(input.Parent), input.Name)
	}
	if len(key) == 0 {
		return "", store.NewError("putting object", storeName, input.Scope.ProjectName(), input.Path, errors.New("key is empty"))
	}
	if err := s.put(ctx, key, store.ContentType(input.Name, input.Content), input.Content); err != nil {
		return "", wrap("putting object", input.Scope.ProjectName(), input.Path, err)
	}
	return store.Handle(key), nil
}

// FindFolder returns the key of the folder.  No call is made.
func (s *S3Store) FindFolder(ctx context.Context, input *store.EnsureFolderInput) (store.Handle, error) {
	return store.Handle(Join(string(input.Parent), input.Name)), nil
}

// EnsureFolder puts a folder marker, which is idempotent.
func (s *S3Store) EnsureFolder(ctx context.Context, input *store.EnsureFolderInput) (store.Handle, error) {
	key := Join(string(input.Parent), input.Name)
	if err := s.put(ctx, key+"/", "", []byte{}); err != nil {
		return "", wrap("putting folder marker", input.Scope.ProjectName(), input.Prefix, err)
	}
	return store.Handle(key), nil
}

type NewS3StoreInput struct {
	Client           *s3.Client
	Bucket           string
	Prefix           string
	Account          string
	MaxPages         int
	BucketKeyEnabled bool
}

func NewS3Store(input *NewS3StoreInput) *S3Store {
	maxPages := input.MaxPages
	if maxPages == 0 {
		maxPages = -1
	}
	s := &S3Store{
		client:           input.Client,
		bucket:           input.Bucket,
		prefix:           Join(input.Prefix),
		account:          input.Account,
		maxPages:         maxPages,
		bucketKeyEnabled: input.BucketKeyEnabled,
	}
	s.base = pathmap.New(s, &store.Scope{Project: &store.Project{}, Root: store.Handle(s.prefix)})
	return s
}
