// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package drivestore

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/navwar/hubsync/pkg/store"
)

type fakeFile struct {
	Id          string `json:"id"`
	Name        string `json:"name"`
	MimeType    string `json:"mimeType"`
	Md5Checksum string `json:"md5Checksum,omitempty"`
	Size        int64  `json:"size,omitempty,string"`
	parent      string
	content     string
	contentType string
}

type fakeMetadata struct {
	Name     string   `json:"name"`
	MimeType string   `json:"mimeType"`
	Parents  []string `json:"parents"`
}

// readUpload returns the metadata and the media of a request.
// Media uploads are sent as multipart/related with the metadata first.
func readUpload(r *http.Request) (*fakeMetadata, string, string, error) {
	metadata := &fakeMetadata{}
	mediaType, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return nil, "", "", err
	}
	if !strings.HasPrefix(mediaType, "multipart/") {
		if err := json.NewDecoder(r.Body).Decode(metadata); err != nil && err != io.EOF {
			return nil, "", "", err
		}
		return metadata, "", "", nil
	}
	reader := multipart.NewReader(r.Body, params["boundary"])
	part, err := reader.NextPart()
	if err != nil {
		return nil, "", "", err
	}
	if err := json.NewDecoder(part).Decode(metadata); err != nil {
		return nil, "", "", err
	}
	part, err = reader.NextPart()
	if err != nil {
		return nil, "", "", err
	}
	media, err := io.ReadAll(part)
	if err != nil {
		return nil, "", "", err
	}
	return metadata, string(media), part.Header.Get("Content-Type"), nil
}

// fakeDrive serves the subset of the Drive API used by the store.
type fakeDrive struct {
	mu      sync.Mutex
	files   map[string]*fakeFile
	created []string
	updated []string
	nextID  int
}

func newFakeDrive(files ...*fakeFile) *fakeDrive {
	f := &fakeDrive{files: map[string]*fakeFile{}}
	for _, file := range files {
		f.files[file.Id] = file
	}
	return f
}

func (f *fakeDrive) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	p := r.URL.Path
	switch {
	case r.Method == http.MethodGet && strings.HasSuffix(p, "/files"):
		q := r.URL.Query().Get("q")
		files := []*fakeFile{}
		for _, file := range f.files {
			if !strings.Contains(q, "'"+file.parent+"' in parents") {
				continue
			}
			if strings.HasPrefix(q, "name = ") && (file.MimeType != FolderMimeType || !strings.HasPrefix(q, "name = '"+Escape(file.Name)+"'")) {
				continue
			}
			files = append(files, file)
		}
		// deterministic order by id
		for i := 0; i < len(files); i++ {
			for j := i + 1; j < len(files); j++ {
				if files[j].Id < files[i].Id {
					files[i], files[j] = files[j], files[i]
				}
			}
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"files": files})
	case r.Method == http.MethodGet && strings.Contains(p, "/files/"):
		id := p[strings.LastIndex(p, "/")+1:]
		file, ok := f.files[id]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":{"code":404,"message":"File not found"}}`))
			return
		}
		if r.URL.Query().Get("alt") == "media" {
			w.Header().Set("Content-Type", "application/octet-stream")
			_, _ = w.Write([]byte(file.content))
			return
		}
		_ = json.NewEncoder(w).Encode(file)
	case r.Method == http.MethodPost && strings.HasSuffix(p, "/files"):
		metadata, content, contentType, err := readUpload(r)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.nextID++
		id := "new" + string(rune('0'+f.nextID))
		file := &fakeFile{Id: id, Name: metadata.Name, MimeType: metadata.MimeType, content: content, contentType: contentType}
		if len(metadata.Parents) > 0 {
			file.parent = metadata.Parents[0]
		}
		f.files[id] = file
		f.created = append(f.created, id)
		_ = json.NewEncoder(w).Encode(map[string]string{"id": id})
	case r.Method == http.MethodPatch && strings.Contains(p, "/files/"):
		id := p[strings.LastIndex(p, "/")+1:]
		file, ok := f.files[id]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":{"code":404,"message":"File not found"}}`))
			return
		}
		_, content, contentType, err := readUpload(r)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		file.content = content
		file.contentType = contentType
		f.updated = append(f.updated, id)
		_ = json.NewEncoder(w).Encode(map[string]string{"id": id})
	default:
		w.WriteHeader(http.StatusNotImplemented)
	}
}

func newTestStore(t *testing.T, fake *fakeDrive) *DriveStore {
	t.Helper()
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)
	service, err := drive.NewService(
		context.Background(),
		option.WithEndpoint(server.URL+"/"),
		option.WithHTTPClient(server.Client()),
	)
	require.NoError(t, err)
	return NewDriveStore(&NewDriveStoreInput{
		Service: service,
		Root:    "root",
		Account: "octo",
	})
}

func TestDriveStoreListAll(t *testing.T) {
	fake := newFakeDrive(
		&fakeFile{Id: "p", Name: "alpha", MimeType: FolderMimeType, parent: "a"},
		&fakeFile{Id: "f1", Name: "README.md", MimeType: "text/markdown", Md5Checksum: "aaa", Size: 5, parent: "p"},
		&fakeFile{Id: "d1", Name: "docs", MimeType: FolderMimeType, parent: "p"},
		&fakeFile{Id: "f2", Name: "guide.txt", MimeType: "text/plain", Md5Checksum: "bbb", parent: "d1"},
		&fakeFile{Id: "f3", Name: "guide.txt", MimeType: "text/plain", Md5Checksum: "ccc", parent: "d1"},
		&fakeFile{Id: "g1", Name: "Notes", MimeType: "application/vnd.google-apps.document", parent: "p"},
	)
	s := newTestStore(t, fake)

	entries, err := s.ListAll(context.Background(), &store.Scope{Project: &store.Project{Name: "alpha"}, Root: "p"})
	require.NoError(t, err)
	paths := map[string]string{}
	for _, e := range entries {
		paths[e.Path] = e.ContentHash
	}
	assert.Equal(t, map[string]string{
		"README.md":      "aaa",
		"docs/guide.txt": "bbb",
	}, paths)
}

func TestDriveStoreListAllMissingRoot(t *testing.T) {
	s := newTestStore(t, newFakeDrive())
	_, err := s.ListAll(context.Background(), &store.Scope{Project: &store.Project{Name: "alpha"}, Root: "gone"})
	require.Error(t, err)
	assert.True(t, store.IsNotFound(err))
}

func TestDriveStoreRead(t *testing.T) {
	fake := newFakeDrive(&fakeFile{Id: "f1", Name: "a.txt", MimeType: "text/plain", parent: "p", content: "hello"})
	s := newTestStore(t, fake)
	content, err := s.Read(
		context.Background(),
		&store.Scope{Project: &store.Project{Name: "alpha"}, Root: "p"},
		&store.Entry{Path: "a.txt", Handle: "f1"})
	require.NoError(t, err)
	assert.Equal(t, "hello", string(content))
}

func TestDriveStoreEnsureFolder(t *testing.T) {
	fake := newFakeDrive(&fakeFile{Id: "d1", Name: "docs", MimeType: FolderMimeType, parent: "p"})
	s := newTestStore(t, fake)
	scope := &store.Scope{Project: &store.Project{Name: "alpha"}, Root: "p"}

	h, err := s.EnsureFolder(context.Background(), &store.EnsureFolderInput{Scope: scope, Parent: "p", Name: "docs", Prefix: "docs"})
	require.NoError(t, err)
	assert.Equal(t, store.Handle("d1"), h)
	assert.Empty(t, fake.created)

	h, err = s.EnsureFolder(context.Background(), &store.EnsureFolderInput{Scope: scope, Parent: "p", Name: "src", Prefix: "src"})
	require.NoError(t, err)
	assert.Equal(t, []string{string(h)}, fake.created)
}

func TestDriveStoreRoot(t *testing.T) {
	fake := newFakeDrive()
	s := newTestStore(t, fake)

	scope, err := s.Root(context.Background(), &store.Project{Name: "alpha"})
	require.NoError(t, err)
	_, err = s.Root(context.Background(), &store.Project{Name: "beta"})
	require.NoError(t, err)

	// the account folder is created once
	assert.Len(t, fake.created, 3)
	assert.Equal(t, "alpha", fake.files[string(scope.Root)].Name)
	assert.Equal(t, "octo", fake.files[fake.files[string(scope.Root)].parent].Name)
}

func TestDriveStoreLookup(t *testing.T) {
	fake := newFakeDrive()
	s := newTestStore(t, fake)
	ctx := context.Background()

	_, err := s.Lookup(ctx, &store.Project{Name: "alpha"})
	require.Error(t, err)
	assert.True(t, store.IsNotFound(err))
	assert.Empty(t, fake.created)

	scope, err := s.Root(ctx, &store.Project{Name: "alpha"})
	require.NoError(t, err)
	found, err := newTestStore(t, fake).Lookup(ctx, &store.Project{Name: "alpha"})
	require.NoError(t, err)
	assert.Equal(t, scope.Root, found.Root)
	assert.Len(t, fake.created, 2)
}

func TestDriveStoreWriteCreate(t *testing.T) {
	fake := newFakeDrive(&fakeFile{Id: "d1", Name: "docs", MimeType: FolderMimeType, parent: "p"})
	s := newTestStore(t, fake)

	h, err := s.Write(context.Background(), &store.WriteInput{
		Scope:   &store.Scope{Project: &store.Project{Name: "alpha"}, Root: "p"},
		Path:    "docs/guide.txt",
		Parent:  "d1",
		Name:    "guide.txt",
		Content: []byte("hello drive"),
	})
	require.NoError(t, err)
	require.Equal(t, []string{string(h)}, fake.created)
	assert.Empty(t, fake.updated)

	file := fake.files[string(h)]
	assert.Equal(t, "guide.txt", file.Name)
	assert.Equal(t, "d1", file.parent)
	assert.Equal(t, "hello drive", file.content)
	assert.True(t, strings.HasPrefix(file.contentType, "text/plain"))
}

func TestDriveStoreWriteUpdate(t *testing.T) {
	fake := newFakeDrive(&fakeFile{Id: "f1", Name: "a.txt", MimeType: "text/plain", parent: "p", content: "old"})
	s := newTestStore(t, fake)

	h, err := s.Write(context.Background(), &store.WriteInput{
		Scope:    &store.Scope{Project: &store.Project{Name: "alpha"}, Root: "p"},
		Path:     "a.txt",
		Parent:   "p",
		Name:     "a.txt",
		Content:  []byte("new"),
		Existing: "f1",
	})
	require.NoError(t, err)
	assert.Equal(t, store.Handle("f1"), h)
	assert.Equal(t, []string{"f1"}, fake.updated)
	assert.Empty(t, fake.created)
	assert.Equal(t, "new", fake.files["f1"].content)
	assert.Equal(t, "p", fake.files["f1"].parent)
}

func TestDriveStoreWriteUpdateMissing(t *testing.T) {
	s := newTestStore(t, newFakeDrive())
	_, err := s.Write(context.Background(), &store.WriteInput{
		Scope:    &store.Scope{Project: &store.Project{Name: "alpha"}, Root: "p"},
		Path:     "a.txt",
		Name:     "a.txt",
		Content:  []byte("new"),
		Existing: "gone",
	})
	require.Error(t, err)
	assert.True(t, store.IsNotFound(err))
}

// newServiceAccountKey returns a service account key whose token endpoint is tokenURL.
func newServiceAccountKey(t *testing.T, tokenURL string) []byte {
	t.Helper()
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(privateKey)})
	key, err := json.Marshal(map[string]string{
		"type":           "service_account",
		"client_email":   "hubsync@example.iam.gserviceaccount.com",
		"private_key_id": "1",
		"private_key":    string(keyPEM),
		"token_uri":      tokenURL,
	})
	require.NoError(t, err)
	return key
}

func TestDriveStoreRejectedServiceAccount(t *testing.T) {
	tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"invalid_client","error_description":"The OAuth client was not found."}`))
	}))
	t.Cleanup(tokenServer.Close)
	fake := newFakeDrive()
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	ctx := context.Background()
	conf, err := google.JWTConfigFromJSON(newServiceAccountKey(t, tokenServer.URL), drive.DriveScope)
	require.NoError(t, err)
	service, err := drive.NewService(ctx, option.WithEndpoint(server.URL+"/"), option.WithHTTPClient(conf.Client(ctx)))
	require.NoError(t, err)
	s := NewDriveStore(&NewDriveStoreInput{Service: service, Root: "root", Account: "octo"})

	_, err = s.Root(ctx, &store.Project{Name: "alpha"})
	require.Error(t, err)
	assert.True(t, store.IsAuth(err))
	assert.Contains(t, err.Error(), `project "alpha"`)
	assert.NotContains(t, err.Error(), `project ""`)
	assert.Empty(t, fake.created)
}
