// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package githubstore

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/go-github/v57/github"

	"github.com/navwar/hubsync/pkg/store"
)

const (
	DefaultCommitMessagePrefix = "[hubsync]"
	DefaultPerPage             = 100
)

// DefaultBranches are tried in order when listing a repository.
var DefaultBranches = []string{"main", "master", "HEAD"}

// GitHubStore stores files as commits on the default branch of repositories owned by one account.
// Entries have no content hash, since blob SHAs are not MD5 digests.
type GitHubStore struct {
	client              *github.Client
	owner               string
	branches            []string
	commitMessagePrefix string
	now                 func() time.Time
	logger              store.Logger
	mu                  *sync.Mutex
	// refs maps repository name to the branch its tree was listed from
	refs map[string]string
}

func (s *GitHubStore) Name() string {
	return storeName
}

func (s *GitHubStore) HashesOnRead() bool {
	return true
}

func (s *GitHubStore) ListProjects(ctx context.Context) ([]*store.Project, error) {
	projects := []*store.Project{}
	opts := &github.RepositoryListByUserOptions{
		Type:        "owner",
		ListOptions: github.ListOptions{PerPage: DefaultPerPage},
	}
	for {
		repos, resp, err := s.client.Repositories.ListByUser(ctx, s.owner, opts)
		if err != nil {
			return nil, wrap("listing projects", "", "", resp, err)
		}
		for _, repo := range repos {
			projects = append(projects, &store.Project{
				Name:          repo.GetName(),
				Archived:      repo.GetArchived(),
				DefaultBranch: repo.GetDefaultBranch(),
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return projects, nil
}

// Root returns the repository root.  No call is made.
func (s *GitHubStore) Root(ctx context.Context, project *store.Project) (*store.Scope, error) {
	return &store.Scope{Project: project, Root: store.Handle("/")}, nil
}

// Lookup is the same as Root.
func (s *GitHubStore) Lookup(ctx context.Context, project *store.Project) (*store.Scope, error) {
	return s.Root(ctx, project)
}

// candidates returns the branches to try, starting with the default branch of the project.
func (s *GitHubStore) candidates(project *store.Project) []string {
	candidates := []string{}
	seen := map[string]struct{}{}
	for _, b := range append([]string{project.DefaultBranch}, s.branches...) {
		if len(b) == 0 {
			continue
		}
		if _, ok := seen[b]; ok {
			continue
		}
		seen[b] = struct{}{}
		candidates = append(candidates, b)
	}
	return candidates
}

func (s *GitHubStore) setRef(repo string, ref string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refs[repo] = ref
}

func (s *GitHubStore) ref(repo string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refs[repo]
}

// ListAll lists the blobs of the first branch that resolves.
// An empty repository, or one where no branch resolves, has no entries.
func (s *GitHubStore) ListAll(ctx context.Context, scope *store.Scope) ([]*store.Entry, error) {
	repo := scope.ProjectName()
	for _, branch := range s.candidates(scope.Project) {
		tree, resp, err := s.client.Git.GetTree(ctx, s.owner, repo, branch, true)
		if err != nil {
			switch statusCode(resp, err) {
			case http.StatusConflict:
				// repository is empty
				s.setRef(repo, "")
				return []*store.Entry{}, nil
			case http.StatusNotFound, http.StatusUnprocessableEntity:
				continue
			}
			return nil, wrap("listing tree", repo, branch, resp, err)
		}
		s.setRef(repo, branch)
		if tree.GetTruncated() && s.logger != nil {
			_ = s.logger.Log("Tree listing is truncated", map[string]interface{}{
				"project": repo,
				"branch":  branch,
				"entries": len(tree.Entries),
			})
		}
		entries := make([]*store.Entry, 0, len(tree.Entries))
		for _, te := range tree.Entries {
			if te.GetType() != "blob" {
				continue
			}
			entries = append(entries, store.NewEntry(
				te.GetPath(),
				"",
				store.Handle(te.GetSHA()),
				time.Time{},
				int64(te.GetSize())))
		}
		return entries, nil
	}
	// no branch resolved, so check that the repository exists
	_, resp, err := s.client.Repositories.Get(ctx, s.owner, repo)
	if err != nil {
		return nil, wrap("getting repository", repo, "", resp, err)
	}
	s.setRef(repo, "")
	return []*store.Entry{}, nil
}

func (s *GitHubStore) Read(ctx context.Context, scope *store.Scope, entry *store.Entry) ([]byte, error) {
	repo := scope.ProjectName()
	fileContent, _, resp, err := s.client.Repositories.GetContents(ctx, s.owner, repo, entry.Path, &github.RepositoryContentGetOptions{
		Ref: s.ref(repo),
	})
	if err != nil {
		return nil, wrap("reading", repo, entry.Path, resp, err)
	}
	if fileContent == nil {
		return nil, store.NewError("reading", storeName, repo, entry.Path, errors.New("path is a directory"))
	}
	content, err := fileContent.GetContent()
	if err == nil {
		return []byte(content), nil
	}
	// content above the size limit of the contents api is only available as a blob
	blob, resp, err := s.client.Git.GetBlobRaw(ctx, s.owner, repo, fileContent.GetSHA())
	if err != nil {
		return nil, wrap("reading blob", repo, entry.Path, resp, err)
	}
	return blob, nil
}

// sha returns the blob SHA currently stored at the path, or a blank string if there is none.
func (s *GitHubStore) sha(ctx context.Context, repo string, path string) (string, error) {
	fileContent, _, resp, err := s.client.Repositories.GetContents(ctx, s.owner, repo, path, &github.RepositoryContentGetOptions{
		Ref: s.ref(repo),
	})
	if err != nil {
		if statusCode(resp, err) == http.StatusNotFound {
			return "", nil
		}
		return "", wrap("getting sha", repo, path, resp, err)
	}
	if fileContent == nil {
		return "", store.NewError("getting sha", storeName, repo, path, errors.New("path is a directory"))
	}
	return fileContent.GetSHA(), nil
}

func (s *GitHubStore) commitMessage(path string) string {
	return fmt.Sprintf("%s %s %s", s.commitMessagePrefix, path, s.now().UTC().Format(time.RFC3339))
}

func (s *GitHubStore) put(ctx context.Context, repo string, path string, opts *github.RepositoryContentFileOptions) (*github.RepositoryContentResponse, *github.Response, error) {
	if opts.SHA == nil {
		return s.client.Repositories.CreateFile(ctx, s.owner, repo, path, opts)
	}
	return s.client.Repositories.UpdateFile(ctx, s.owner, repo, path, opts)
}

// Write commits the content to the path.
// A missing or stale SHA is refreshed once, so a file is never overwritten blindly.
func (s *GitHubStore) Write(ctx context.Context, input *store.WriteInput) (store.Handle, error) {
	repo := input.Scope.ProjectName()
	opts := &github.RepositoryContentFileOptions{
		Message: github.String(s.commitMessage(input.Path)),
		Content: input.Content,
	}
	if ref := s.ref(repo); len(ref) > 0 && ref != "HEAD" {
		opts.Branch = github.String(ref)
	}
	if len(input.Existing) > 0 {
		opts.SHA = github.String(string(input.Existing))
	}

	res, resp, err := s.put(ctx, repo, input.Path, opts)
	if err != nil {
		status := statusCode(resp, err)
		if status != http.StatusConflict && status != http.StatusUnprocessableEntity {
			return "", wrap("writing", repo, input.Path, resp, err)
		}
		sha, shaError := s.sha(ctx, repo, input.Path)
		if shaError != nil {
			return "", shaError
		}
		opts.SHA = nil
		if len(sha) > 0 {
			opts.SHA = github.String(sha)
		}
		res, resp, err = s.put(ctx, repo, input.Path, opts)
		if err != nil {
			return "", wrap("writing", repo, input.Path, resp, err)
		}
	}

	return store.Handle(res.GetContent().GetSHA()), nil
}

// EnsureFolder returns the prefix as the handle.
// Git has no empty folders, so folders come into existence with their first file.
func (s *GitHubStore) EnsureFolder(ctx context.Context, input *store.EnsureFolderInput) (store.Handle, error) {
	return store.Handle(input.Prefix), nil
}

type NewGitHubStoreInput struct {
	Client *github.Client
	Owner  string
	// Branches are tried in order.  Defaults to DefaultBranches.
	Branches            []string
	CommitMessagePrefix string
	Logger              store.Logger
	Now                 func() time.Time
}

func NewGitHubStore(input *NewGitHubStoreInput) *GitHubStore {
	branches := input.Branches
	if len(branches) == 0 {
		branches = DefaultBranches
	}
	commitMessagePrefix := input.CommitMessagePrefix
	if len(commitMessagePrefix) == 0 {
		commitMessagePrefix = DefaultCommitMessagePrefix
	}
	now := input.Now
	if now == nil {
		now = time.Now
	}
	return &GitHubStore{
		client:              input.Client,
		owner:               input.Owner,
		branches:            branches,
		commitMessagePrefix: commitMessagePrefix,
		now:                 now,
		logger:              input.Logger,
		mu:                  &sync.Mutex{},
		refs:                map[string]string{},
	}
}
