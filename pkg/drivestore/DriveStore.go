// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package drivestore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"

	"github.com/navwar/hubsync/pkg/pathmap"
	"github.com/navwar/hubsync/pkg/store"
)

const (
	DefaultPageSize = 1000
)

const listFields = "nextPageToken, files(id, name, mimeType, md5Checksum, modifiedTime, size)"

// DriveStore stores projects as folders under <root>/<account>/<project>.
// Drive supplies an MD5 checksum for every binary file.
type DriveStore struct {
	service  *drive.Service
	root     string
	account  string
	pageSize int64
	// base resolves project roots and lives as long as the store
	base *pathmap.Mapper
}

func (d *DriveStore) Name() string {
	return storeName
}

func (d *DriveStore) HashesOnRead() bool {
	return false
}

// Root returns the folder of the project, creating it and the account folder if needed.
func (d *DriveStore) Root(ctx context.Context, project *store.Project) (*store.Scope, error) {
	h, err := d.base.Folder(ctx, []string{d.account, project.Name})
	if err != nil {
		return nil, fmt.Errorf("error resolving folder for project %q: %w", project.Name, err)
	}
	return &store.Scope{Project: project, Root: h}, nil
}

// Lookup returns the folder of the project without creating it.
func (d *DriveStore) Lookup(ctx context.Context, project *store.Project) (*store.Scope, error) {
	h, err := d.base.Lookup(ctx, []string{d.account, project.Name})
	if err != nil {
		return nil, fmt.Errorf("error looking up folder for project %q: %w", project.Name, err)
	}
	return &store.Scope{Project: project, Root: h}, nil
}

func (d *DriveStore) list(ctx context.Context, q string, fields googleapi.Field, fn func(*drive.File) error) error {
	pageToken := ""
	for {
		call := d.service.Files.List().
			Q(q).
			Fields(fields).
			PageSize(d.pageSize).
			SupportsAllDrives(true).
			IncludeItemsFromAllDrives(true).
			Context(ctx)
		if len(pageToken) > 0 {
			call = call.PageToken(pageToken)
		}
		fileList, err := call.Do()
		if err != nil {
			return err
		}
		for _, f := range fileList.Files {
			if err := fn(f); err != nil {
				return err
			}
		}
		if len(fileList.NextPageToken) == 0 {
			return nil
		}
		pageToken = fileList.NextPageToken
	}
}

// ListAll walks the folder of the project breadth-first.
// Google-native documents are not listed, since they have no binary content.
func (d *DriveStore) ListAll(ctx context.Context, scope *store.Scope) ([]*store.Entry, error) {
	projectName := scope.ProjectName()

	root, err := d.service.Files.Get(string(scope.Root)).Fields("id, mimeType, trashed").SupportsAllDrives(true).Context(ctx).Do()
	if err != nil {
		return nil, wrap("getting root folder", projectName, "", err)
	}
	if root.Trashed || root.MimeType != FolderMimeType {
		return nil, store.NewError("getting root folder", storeName, projectName, "", store.NotFound(errors.New("root is not a folder")))
	}

	type folder struct {
		id     string
		prefix string
	}

	entries := []*store.Entry{}
	seen := map[string]struct{}{}
	queue := []folder{{id: string(scope.Root)}}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		err := d.list(ctx, ChildrenQuery(current.id), listFields, func(f *drive.File) error {
			p := f.Name
			if len(current.prefix) > 0 {
				p = current.prefix + "/" + f.Name
			}
			if f.MimeType == FolderMimeType {
				queue = append(queue, folder{id: f.Id, prefix: p})
				return nil
			}
			if strings.HasPrefix(f.MimeType, NativeMimeTypePrefix) {
				return nil
			}
			// drive allows duplicate names, only the first is synchronized
			if _, ok := seen[p]; ok {
				return nil
			}
			seen[p] = struct{}{}
			modTime, _ := time.Parse(time.RFC3339, f.ModifiedTime)
			entries = append(entries, store.NewEntry(p, f.Md5Checksum, store.Handle(f.Id), modTime, f.Size))
			return nil
		})
		if err != nil {
			return nil, wrap("listing folder", projectName, current.prefix, err)
		}
	}
	return entries, nil
}

func (d *DriveStore) Read(ctx context.Context, scope *store.Scope, entry *store.Entry) ([]byte, error) {
	resp, err := d.service.Files.Get(string(entry.Handle)).SupportsAllDrives(true).Context(ctx).Download()
	if err != nil {
		return nil, wrap("downloading", scope.ProjectName(), entry.Path, err)
	}
	defer resp.Body.Close()
	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, wrap("downloading", scope.ProjectName(), entry.Path, err)
	}
	return content, nil
}

func (d *DriveStore) Write(ctx context.Context, input *store.WriteInput) (store.Handle, error) {
	contentType := googleapi.ContentType(store.ContentType(input.Name, input.Content))
	if len(input.Existing) > 0 {
		f, err := d.service.Files.Update(string(input.Existing), &drive.File{}).
			Media(bytes.NewReader(input.Content), contentType).
			Fields("id").
			SupportsAllDrives(true).
			Context(ctx).
			Do()
		if err != nil {
			return "", wrap("updating", input.Scope.ProjectName(), input.Path, err)
		}
		return store.Handle(f.Id), nil
	}
	f, err := d.service.Files.Create(&drive.File{
		Name:    path.Base(input.Name),
		Parents: []string{string(input.Parent)},
	}).
		Media(bytes.NewReader(input.Content), contentType).
		Fields("id").
		SupportsAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return "", wrap("uploading", input.Scope.ProjectName(), input.Path, err)
	}
	return store.Handle(f.Id), nil
}

func (d *DriveStore) findFolder(ctx context.Context, input *store.EnsureFolderInput) (string, error) {
	fileList, err := d.service.Files.List().
		Q(FolderQuery(string(input.Parent), input.Name)).
		Fields("files(id)").
		PageSize(1).
		SupportsAllDrives(true).
		IncludeItemsFromAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return "", wrap("finding folder", input.Scope.ProjectName(), input.Prefix, err)
	}
	if len(fileList.Files) == 0 {
		return "", nil
	}
	return fileList.Files[0].Id, nil
}

// FindFolder finds the folder by name under the parent.
func (d *DriveStore) FindFolder(ctx context.Context, input *store.EnsureFolderInput) (store.Handle, error) {
	id, err := d.findFolder(ctx, input)
	if err != nil {
		return "", err
	}
	if len(id) == 0 {
		return "", store.NewError("finding folder", storeName, input.Scope.ProjectName(), input.Prefix, store.NotFound(errors.New("folder does not exist")))
	}
	return store.Handle(id), nil
}

// EnsureFolder finds the folder by name under the parent, creating it if it does not exist.
func (d *DriveStore) EnsureFolder(ctx context.Context, input *store.EnsureFolderInput) (store.Handle, error) {
	id, err := d.findFolder(ctx, input)
	if err != nil {
		return "", err
	}
	if len(id) > 0 {
		return store.Handle(id), nil
	}
	f, err := d.service.Files.Create(&drive.File{
		Name:     input.Name,
		MimeType: FolderMimeType,
		Parents:  []string{string(input.Parent)},
	}).
		Fields("id").
		SupportsAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return "", wrap("creating folder", input.Scope.ProjectName(), input.Prefix, err)
	}
	return store.Handle(f.Id), nil
}

type NewDriveStoreInput struct {
	Service *drive.Service
	// Root is the ID of the folder containing account folders.
	Root     string
	Account  string
	PageSize int64
}

func NewDriveStore(input *NewDriveStoreInput) *DriveStore {
	pageSize := input.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	d := &DriveStore{
		service:  input.Service,
		root:     input.Root,
		account:  input.Account,
		pageSize: pageSize,
	}
	d.base = pathmap.New(d, &store.Scope{Project: &store.Project{}, Root: store.Handle(input.Root)})
	return d
}
