// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package ignore

import (
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"
)

// DefaultNames are the names ignored when no names are configured.
var DefaultNames = []string{
	".git",
	".DS_Store",
	"__pycache__",
	"node_modules",
}

// DefaultHiddenPrefix marks hidden entries.
const DefaultHiddenPrefix = "."

// Policy decides which relative paths are never synchronized.
// A path is skipped if any segment equals an ignored name or begins with the hidden prefix,
// or if the path matches one of the exclude patterns.
type Policy struct {
	names        map[string]struct{}
	hiddenPrefix string
	exclude      *gitignore.GitIgnore
}

// ShouldSkip returns true if the relative path must not be synchronized.
// The predicate is evaluated once against all segments of the path.
func (p *Policy) ShouldSkip(relativePath string) bool {
	if p == nil {
		return false
	}
	for _, segment := range strings.Split(relativePath, "/") {
		if len(segment) == 0 {
			continue
		}
		if _, ok := p.names[segment]; ok {
			return true
		}
		if len(p.hiddenPrefix) > 0 && strings.HasPrefix(segment, p.hiddenPrefix) {
			return true
		}
	}
	if p.exclude != nil && p.exclude.MatchesPath(relativePath) {
		return true
	}
	return false
}

// Names returns the ignored names.
func (p *Policy) Names() []string {
	names := make([]string, 0, len(p.names))
	for name := range p.names {
		names = append(names, name)
	}
	return names
}

type NewPolicyInput struct {
	Names        []string
	HiddenPrefix string
	// Exclude is a list of gitignore-style patterns.
	Exclude []string
}

func NewPolicy(input *NewPolicyInput) *Policy {
	p := &Policy{
		names:        map[string]struct{}{},
		hiddenPrefix: input.HiddenPrefix,
	}
	for _, name := range input.Names {
		if name = strings.TrimSpace(name); len(name) > 0 {
			p.names[name] = struct{}{}
		}
	}
	patterns := []string{}
	for _, pattern := range input.Exclude {
		if pattern = strings.TrimSpace(pattern); len(pattern) > 0 {
			patterns = append(patterns, pattern)
		}
	}
	if len(patterns) > 0 {
		p.exclude = gitignore.CompileIgnoreLines(patterns...)
	}
	return p
}

// NewDefaultPolicy returns a policy with the default names and hidden prefix.
func NewDefaultPolicy() *Policy {
	return NewPolicy(&NewPolicyInput{
		Names:        DefaultNames,
		HiddenPrefix: DefaultHiddenPrefix,
	})
}
