// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package drivestore

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/go-homedir"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// LoadCredentials returns service account credentials given either the JSON document itself or a path to it.
func LoadCredentials(credentials string) ([]byte, error) {
	if trimmed := strings.TrimSpace(credentials); strings.HasPrefix(trimmed, "{") {
		return []byte(trimmed), nil
	}
	p, err := homedir.Expand(credentials)
	if err != nil {
		return nil, fmt.Errorf("error expanding credentials path %q: %w", credentials, err)
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("error reading credentials file %q: %w", p, err)
	}
	return b, nil
}

// NewService returns a Drive service authenticating as the service account.
func NewService(ctx context.Context, credentials []byte) (*drive.Service, error) {
	conf, err := google.JWTConfigFromJSON(credentials, drive.DriveScope)
	if err != nil {
		return nil, fmt.Errorf("error parsing service account credentials: %w", err)
	}
	service, err := drive.NewService(ctx, option.WithHTTPClient(conf.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("error creating drive service: %w", err)
	}
	return service, nil
}
