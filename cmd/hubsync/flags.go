// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package main

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/navwar/hubsync/pkg/githubstore"
	"github.com/navwar/hubsync/pkg/ignore"
	"github.com/navwar/hubsync/pkg/log"
	"github.com/navwar/hubsync/pkg/retry"
	"github.com/navwar/hubsync/pkg/syncer"
)

// GitHub Flags
const (
	flagGitHubUser          = "github-user"
	flagGitHubToken         = "github-token"
	flagGitHubBaseURL       = "github-base-url"
	flagGitHubBranches      = "github-branches"
	flagCommitMessagePrefix = "commit-message-prefix"
)

// Cloud Flags
const (
	flagDestination       = "destination"
	flagGDriveCredentials = "gdrive-credentials"
	flagGDriveFolderID    = "gdrive-folder-id"
	flagGDrivePageSize    = "gdrive-page-size"
)

// AWS Flags
const (
	flagAWSProfile       = "aws-profile"
	flagAWSDefaultRegion = "aws-default-region"
	flagAWSRegion        = "aws-region"

	flagAWSAccessKeyID     = "aws-access-key-id"
	flagAWSSecretAccessKey = "aws-secret-access-key"
	flagAWSSessionToken    = "aws-session-token"

	flagAWSRetryMaxAttempts   = "aws-retry-max-attempts"
	flagAWSInsecureSkipVerify = "aws-insecure-skip-verify"

	flagAWSS3Endpoint     = "aws-s3-endpoint"
	flagAWSS3UsePathStyle = "aws-s3-use-path-style"
	flagBucketKeyEnabled  = "aws-bucket-key-enabled"
	flagMaxPages          = "max-pages"
)

// Retry Flags
const (
	flagRetryMaxAttempts     = "retry-max-attempts"
	flagRetryInitialInterval = "retry-initial-interval"
	flagRetryMaxInterval     = "retry-max-interval"
)

// Debug Flag
const (
	flagDebug = "debug"
)

// Env Flag
const (
	flagEnvFile = "env-file"

	DefaultEnvFile = ".env"
)

// Sync Flags
const (
	flagDirection    = "direction"
	flagSyncLimit    = "limit"
	flagDryRun       = "dry-run"
	flagProject      = "project"
	flagExclude      = "exclude"
	flagIgnoreNames  = "ignore-names"
	flagHiddenPrefix = "hidden-prefix"
	flagLockFile     = "lock-file"

	DefaultLimit    = -1
	DefaultLockFile = "~/.hubsync.lock"
)

// List Flags
const (
	flagSide                  = "side"
	flagHumanReadableFileSize = "human-readable-file-size"
	flagTimeLayout            = "time-layout"
	flagTimeZone              = "time-zone"

	sideGitHub = "github"
	sideCloud  = "cloud"
)

// Log Flags
const (
	flagLogPath            = "log-path"
	flagLogFormat          = "log-format"
	flagLogPerm            = "log-perm"
	flagLogClientSigning   = "log-client-signing"
	flagLogClientRequests  = "log-client-requests"
	flagLogClientResponses = "log-client-responses"
	flagLogClientRetries   = "log-client-retries"
)

func initGitHubFlags(flag *pflag.FlagSet) {
	flag.String(flagGitHubUser, "", "GitHub user that owns the repositories")
	flag.String(flagGitHubToken, "", "GitHub personal access token")
	flag.String(flagGitHubBaseURL, "", "GitHub Enterprise Server API URL (default is github.com)")
	flag.StringSlice(flagGitHubBranches, githubstore.DefaultBranches, "branches to try in order when the default branch is unknown")
	flag.String(flagCommitMessagePrefix, githubstore.DefaultCommitMessagePrefix, "prefix of commit messages for files pulled from the cloud")
}

func initCloudFlags(flag *pflag.FlagSet) {
	flag.String(flagDestination, "", "cloud destination URI, e.g., gdrive://FOLDER_ID, s3://bucket/prefix, or file:///path (default is gdrive:// with the Google Drive folder id)")
	flag.String(flagGDriveCredentials, "", "Google service account credentials as JSON or a path to a JSON file")
	flag.String(flagGDriveFolderID, "", "Google Drive folder id of the backup root")
	flag.Int64(flagGDrivePageSize, 1000, "page size when listing Google Drive folders")
}

func initAWSFlags(flag *pflag.FlagSet) {
	// Profile
	flag.String(flagAWSProfile, "default", "AWS Profile")
	flag.String(flagAWSDefaultRegion, "", "AWS Default Region")
	flag.String(flagAWSRegion, "", "AWS Region (overrides default region)")
	// Credentials
	flag.String(flagAWSAccessKeyID, "", "AWS Access Key ID")
	flag.String(flagAWSSecretAccessKey, "", "AWS Secret Access Key")
	flag.String(flagAWSSessionToken, "", "AWS Session Token")
	// Client
	flag.Int(flagAWSRetryMaxAttempts, 5, "the maximum number attempts an AWS API client will call an operation that fails with a retryable error.")
	// TLS
	flag.Bool(flagAWSInsecureSkipVerify, false, "Skip verification of AWS TLS certificate")
	// Misceallenous
	flag.String(flagAWSS3Endpoint, "", "AWS S3 Endpoint URL")
	flag.Bool(flagAWSS3UsePathStyle, false, "Use path-style addressing (default is to use virtual-host-style addressing)")
	flag.Bool(flagBucketKeyEnabled, false, "bucket key enabled")
	flag.Int(flagMaxPages, -1, "maximum number of pages to return from S3 when listing a project")
}

func initRetryFlags(flag *pflag.FlagSet) {
	flag.Int(flagRetryMaxAttempts, retry.DefaultMaxAttempts, "maximum number of attempts for each backend call")
	flag.Duration(flagRetryInitialInterval, retry.DefaultInitialInterval, "wait before the first retry")
	flag.Duration(flagRetryMaxInterval, retry.DefaultMaxInterval, "maximum wait between retries")
}

func initDebugFlags(flag *pflag.FlagSet) {
	flag.BoolP(flagDebug, "d", false, "print debug messages")
}

func initEnvFlags(flag *pflag.FlagSet) {
	flag.String(flagEnvFile, DefaultEnvFile, "file of environment variables loaded if it exists")
}

func initSyncFlags(flag *pflag.FlagSet) {
	flag.String(flagDirection, string(syncer.Both), fmt.Sprintf("direction of synchronization, either %q, %q, or %q", syncer.Push, syncer.Pull, syncer.Both))
	flag.Int(flagSyncLimit, DefaultLimit, "limit number of files transferred (-1 is unlimited)")
	flag.Bool(flagDryRun, false, "log planned transfers without writing")
	flag.StringSlice(flagProject, []string{}, "synchronize only the named projects")
	flag.StringSliceP(flagExclude, "e", []string{}, "gitignore-style patterns of paths to exclude")
	flag.StringSlice(flagIgnoreNames, ignore.DefaultNames, "path segments that are never synchronized")
	flag.String(flagHiddenPrefix, ignore.DefaultHiddenPrefix, "path segments with this prefix are never synchronized (blank disables)")
	flag.String(flagLockFile, DefaultLockFile, "path to the lock file that prevents concurrent runs")
}

func initListFlags(flag *pflag.FlagSet) {
	flag.String(flagSide, sideGitHub, fmt.Sprintf("side to list, either %q or %q", sideGitHub, sideCloud))
	flag.Bool(flagHumanReadableFileSize, false, "display file sizes in human-readable format")
	flag.StringP(flagTimeLayout, "t", "RFC3339", "the layout to use for file timestamps.  Use go layout format, or the name of a layout.  Use hubsync layouts to show all named layouts.")
	flag.StringP(flagTimeZone, "z", "Local", "the timezone to use for file timestamps")
}

func initLogFlags(flag *pflag.FlagSet) {
	flag.String(flagLogPath, "-", "path to the log output.  Defaults to the operating system's stdout device.")
	flag.StringP(flagLogFormat, "f", log.FormatJSONL, "output log format.  Either jsonl or text.")
	flag.String(flagLogPerm, "0600", "file permissions for log output file as unix file mode.")
	flag.Bool(flagLogClientSigning, false, "log AWS client signature requests")
	flag.Bool(flagLogClientRequests, false, "log AWS client requests")
	flag.Bool(flagLogClientResponses, false, "log AWS client responses")
	flag.Bool(flagLogClientRetries, false, "log AWS client retries")
}

func initProjectsCommandFlags(flag *pflag.FlagSet) {
	initDebugFlags(flag)
	initEnvFlags(flag)
	initGitHubFlags(flag)
	initRetryFlags(flag)
	initLogFlags(flag)
}

func initListCommandFlags(flag *pflag.FlagSet) {
	initDebugFlags(flag)
	initEnvFlags(flag)
	initGitHubFlags(flag)
	initCloudFlags(flag)
	initAWSFlags(flag)
	initRetryFlags(flag)
	initListFlags(flag)
	initLogFlags(flag)
}

func initSyncCommandFlags(flag *pflag.FlagSet) {
	initDebugFlags(flag)
	initEnvFlags(flag)
	initGitHubFlags(flag)
	initCloudFlags(flag)
	initAWSFlags(flag)
	initRetryFlags(flag)
	initSyncFlags(flag)
	initLogFlags(flag)
}
