// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/navwar/hubsync/pkg/drivestore"
	"github.com/navwar/hubsync/pkg/githubstore"
	"github.com/navwar/hubsync/pkg/localstore"
	"github.com/navwar/hubsync/pkg/log"
	"github.com/navwar/hubsync/pkg/retry"
	"github.com/navwar/hubsync/pkg/s3store"
	"github.com/navwar/hubsync/pkg/store"
)

func initLogger(path string, perm string, format string, debug bool) (*log.SimpleLogger, error) {

	options := &log.SimpleLoggerOptions{Format: format, Debug: debug}

	if path == os.DevNull {
		return log.NewSimpleLoggerWithOptions(io.Discard, options)
	}

	if path == "-" {
		return log.NewSimpleLoggerWithOptions(os.Stdout, options)
	}

	fileMode := os.FileMode(0600)

	if len(perm) > 0 {
		fm, err := strconv.ParseUint(perm, 8, 32)
		if err != nil {
			return nil, fmt.Errorf("error parsing file permissions for log file from %q", perm)
		}
		fileMode = os.FileMode(fm)
	}

	p, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("error expanding log path %q: %w", path, err)
	}

	f, err := os.OpenFile(p, os.O_CREATE|os.O_APPEND|os.O_WRONLY, fileMode)
	if err != nil {
		return nil, fmt.Errorf("error opening log file %q: %w", p, err)
	}

	return log.NewSimpleLoggerWithOptions(f, options)
}

func initRetryPolicy(v *viper.Viper, logger store.Logger) *retry.Policy {
	return &retry.Policy{
		MaxAttempts:     v.GetInt(flagRetryMaxAttempts),
		InitialInterval: v.GetDuration(flagRetryInitialInterval),
		MaxInterval:     v.GetDuration(flagRetryMaxInterval),
		Logger:          logger,
	}
}

func initGitHubStore(ctx context.Context, v *viper.Viper, logger store.Logger) (*githubstore.GitHubStore, error) {
	client, err := githubstore.NewClient(ctx, &githubstore.NewClientInput{
		Token:   v.GetString(flagGitHubToken),
		BaseURL: v.GetString(flagGitHubBaseURL),
	})
	if err != nil {
		return nil, err
	}
	return githubstore.NewGitHubStore(&githubstore.NewGitHubStoreInput{
		Client:              client,
		Owner:               v.GetString(flagGitHubUser),
		Branches:            v.GetStringSlice(flagGitHubBranches),
		CommitMessagePrefix: v.GetString(flagCommitMessagePrefix),
		Logger:              logger,
	}), nil
}

type InitS3ClientInput struct {
	Profile string
	Region  string
	// AWS Client
	Endpoint           string
	InsecureSkipVerify bool
	RetryMaxAttempts   int
	UsePathStyle       bool
	// AWS Credentials
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
	// Client Log Mode
	Logger             *log.SimpleLogger
	LogClientSigning   bool
	LogClientRetries   bool
	LogClientRequests  bool
	LogClientResponses bool
}

func InitS3Client(ctx context.Context, input *InitS3ClientInput) *s3.Client {
	clientLogMode := aws.ClientLogMode(0)
	if input.LogClientSigning {
		clientLogMode |= aws.LogSigning
	}
	if input.LogClientRetries {
		clientLogMode |= aws.LogRetries
	}
	if input.LogClientRequests {
		clientLogMode |= aws.LogRequest
	}
	if input.LogClientResponses {
		clientLogMode |= aws.LogResponse
	}

	c := aws.Config{
		ClientLogMode:    clientLogMode,
		RetryMaxAttempts: input.RetryMaxAttempts,
		Region:           input.Region,
		Logger:           log.NewClientLogger(input.Logger),
	}

	if len(input.AccessKeyID) > 0 && len(input.SecretAccessKey) > 0 {
		c.Credentials = credentials.NewStaticCredentialsProvider(
			input.AccessKeyID,
			input.SecretAccessKey,
			input.SessionToken)
	} else {
		sharedConfig, err := config.LoadSharedConfigProfile(ctx, input.Profile)
		if err == nil {
			c.Credentials = credentials.NewStaticCredentialsProvider(
				sharedConfig.Credentials.AccessKeyID,
				sharedConfig.Credentials.SecretAccessKey,
				"")
		}
	}

	if input.InsecureSkipVerify {
		c.HTTPClient = &http.Client{
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					InsecureSkipVerify: true,
				},
			},
		}
	}

	client := s3.NewFromConfig(c, func(o *s3.Options) {
		o.UsePathStyle = input.UsePathStyle
		if len(input.Endpoint) > 0 {
			o.BaseEndpoint = aws.String(input.Endpoint)
		}
	})

	return client
}

func awsRegion(ctx context.Context, v *viper.Viper, profile string) string {
	region := v.GetString(flagAWSRegion)
	if len(region) == 0 {
		region = v.GetString(flagAWSDefaultRegion)
	}
	// if neither region nor default region is specified
	if len(region) == 0 {
		sharedConfig, err := config.LoadSharedConfigProfile(ctx, profile)
		if err == nil {
			region = sharedConfig.Region
		}
	}
	return region
}

type InitCloudStoreInput struct {
	Viper       *viper.Viper
	Destination *Destination
	Account     string
	Logger      *log.SimpleLogger
}

// InitCloudStore returns the cloud store for the scheme of the destination.
func InitCloudStore(ctx context.Context, input *InitCloudStoreInput) (store.Store, error) {
	v := input.Viper
	switch input.Destination.Scheme {
	case SchemeGDrive:
		credentials, err := drivestore.LoadCredentials(v.GetString(flagGDriveCredentials))
		if err != nil {
			return nil, err
		}
		service, err := drivestore.NewService(ctx, credentials)
		if err != nil {
			return nil, err
		}
		return drivestore.NewDriveStore(&drivestore.NewDriveStoreInput{
			Service:  service,
			Root:     input.Destination.Bucket,
			Account:  input.Account,
			PageSize: v.GetInt64(flagGDrivePageSize),
		}), nil
	case SchemeS3:
		profile := v.GetString(flagAWSProfile)
		if len(profile) == 0 {
			profile = "default"
		}
		client := InitS3Client(ctx, &InitS3ClientInput{
			Profile: profile,
			Region:  awsRegion(ctx, v, profile),
			// AWS Client
			Endpoint:           v.GetString(flagAWSS3Endpoint),
			InsecureSkipVerify: v.GetBool(flagAWSInsecureSkipVerify),
			UsePathStyle:       v.GetBool(flagAWSS3UsePathStyle),
			RetryMaxAttempts:   v.GetInt(flagAWSRetryMaxAttempts),
			// AWS Credentials
			AccessKeyID:     v.GetString(flagAWSAccessKeyID),
			SecretAccessKey: v.GetString(flagAWSSecretAccessKey),
			SessionToken:    v.GetString(flagAWSSessionToken),
			// Client Mode
			Logger:             input.Logger,
			LogClientSigning:   v.GetBool(flagLogClientSigning),
			LogClientRetries:   v.GetBool(flagLogClientRetries),
			LogClientRequests:  v.GetBool(flagLogClientRequests),
			LogClientResponses: v.GetBool(flagLogClientResponses),
		})
		return s3store.NewS3Store(&s3store.NewS3StoreInput{
			Client:           client,
			Bucket:           input.Destination.Bucket,
			Prefix:           input.Destination.Path,
			Account:          input.Account,
			MaxPages:         v.GetInt(flagMaxPages),
			BucketKeyEnabled: v.GetBool(flagBucketKeyEnabled),
		}), nil
	case SchemeFile:
		p, err := homedir.Expand(input.Destination.Path)
		if err != nil {
			return nil, fmt.Errorf("error expanding path %q: %w", input.Destination.Path, err)
		}
		return localstore.NewLocalStoreAt(p, input.Account)
	}
	return nil, fmt.Errorf("unknown scheme %q", input.Destination.Scheme)
}
