// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package localstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/navwar/hubsync/pkg/pathmap"
	"github.com/navwar/hubsync/pkg/store"
)

const storeName = "file"

// LocalStore stores projects as directories under <root>/<account>/<project>.
// Handles are slash-separated paths within the root.
type LocalStore struct {
	fs      afero.Fs
	account string
	base    *pathmap.Mapper
}

func (l *LocalStore) Name() string {
	return storeName
}

// HashesOnRead is true since a directory listing carries no checksums.
func (l *LocalStore) HashesOnRead() bool {
	return true
}

func (l *LocalStore) Root(ctx context.Context, project *store.Project) (*store.Scope, error) {
	h, err := l.base.Folder(ctx, []string{l.account, project.Name})
	if err != nil {
		return nil, fmt.Errorf("error resolving directory for project %q: %w", project.Name, err)
	}
	return &store.Scope{Project: project, Root: h}, nil
}

func (l *LocalStore) Lookup(ctx context.Context, project *store.Project) (*store.Scope, error) {
	h, err := l.base.Lookup(ctx, []string{l.account, project.Name})
	if err != nil {
		return nil, fmt.Errorf("error looking up directory for project %q: %w", project.Name, err)
	}
	return &store.Scope{Project: project, Root: h}, nil
}

func (l *LocalStore) ListAll(ctx context.Context, scope *store.Scope) ([]*store.Entry, error) {
	root := string(scope.Root)
	entries := []*store.Entry{}
	err := afero.Walk(l.fs, root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if info.IsDir() || !info.Mode().IsRegular() {
			return nil
		}
		relativePath, err := filepath.Rel(root, p)
		if err != nil {
			return fmt.Errorf("error calculating relative path for %q: %w", p, err)
		}
		entries = append(entries, store.NewEntry(
			filepath.ToSlash(relativePath),
			"",
			store.Handle(filepath.ToSlash(p)),
			info.ModTime(),
			info.Size(),
		))
		return nil
	})
	if err != nil {
		return nil, wrap("walking directory", scope.ProjectName(), "", err)
	}
	return entries, nil
}

func (l *LocalStore) Read(ctx context.Context, scope *store.Scope, entry *store.Entry) ([]byte, error) {
	content, err := afero.ReadFile(l.fs, string(entry.Handle))
	if err != nil {
		return nil, wrap("reading file", scope.ProjectName(), entry.Path, err)
	}
	return content, nil
}

func (l *LocalStore) Write(ctx context.Context, input *store.WriteInput) (store.Handle, error) {
	p := string(input.Existing)
	if len(p) == 0 {
		p = path.Join(string(input.Parent), input.Name)
	}
	if err := afero.WriteFile(l.fs, p, input.Content, 0644); err != nil {
		return "", wrap("writing file", input.Scope.ProjectName(), input.Path, err)
	}
	return store.Handle(p), nil
}

func (l *LocalStore) FindFolder(ctx context.Context, input *store.EnsureFolderInput) (store.Handle, error) {
	p := path.Join(string(input.Parent), input.Name)
	info, err := l.fs.Stat(p)
	if err != nil {
		return "", wrap("finding directory", input.Scope.ProjectName(), input.Prefix, err)
	}
	if !info.IsDir() {
		return "", store.NewError("finding directory", storeName, input.Scope.ProjectName(), input.Prefix, store.NotFound(fmt.Errorf("%q is not a directory", p)))
	}
	return store.Handle(p), nil
}

func (l *LocalStore) EnsureFolder(ctx context.Context, input *store.EnsureFolderInput) (store.Handle, error) {
	p := path.Join(string(input.Parent), input.Name)
	if err := l.fs.MkdirAll(p, 0755); err != nil {
		return "", wrap("creating directory", input.Scope.ProjectName(), input.Prefix, err)
	}
	return store.Handle(p), nil
}

func wrap(op string, project string, p string, err error) error {
	if errors.Is(err, os.ErrNotExist) {
		err = store.NotFound(err)
	}
	return store.NewError(op, storeName, project, p, err)
}

type NewLocalStoreInput struct {
	Fs      afero.Fs
	Account string
}

func NewLocalStore(input *NewLocalStoreInput) *LocalStore {
	l := &LocalStore{
		fs:      input.Fs,
		account: input.Account,
	}
	l.base = pathmap.New(l, &store.Scope{Project: &store.Project{}, Root: "/"})
	return l
}

// NewLocalStoreAt returns a store rooted at the directory on the local file system.
func NewLocalStoreAt(rootPath string, account string) (*LocalStore, error) {
	absolutePath, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, fmt.Errorf("error resolving absolute path of %q: %w", rootPath, err)
	}
	return NewLocalStore(&NewLocalStoreInput{
		Fs:      afero.NewBasePathFs(afero.NewOsFs(), absolutePath),
		Account: account,
	}), nil
}
