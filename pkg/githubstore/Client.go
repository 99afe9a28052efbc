// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package githubstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"
)

type NewClientInput struct {
	Token string
	// BaseURL is the API endpoint of a GitHub Enterprise Server.  Blank means github.com.
	BaseURL string
}

// NewClient returns a GitHub client authenticating with a personal access token.
func NewClient(ctx context.Context, input *NewClientInput) (*github.Client, error) {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: input.Token})
	client := github.NewClient(oauth2.NewClient(ctx, ts))
	if len(input.BaseURL) > 0 {
		baseURL := input.BaseURL
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		c, err := client.WithEnterpriseURLs(baseURL, baseURL)
		if err != nil {
			return nil, fmt.Errorf("error configuring GitHub base url %q: %w", input.BaseURL, err)
		}
		client = c
	}
	return client, nil
}
