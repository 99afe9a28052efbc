// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/navwar/hubsync/pkg/syncer"
	"github.com/navwar/hubsync/pkg/ts"
)

func loadEnvFile(cmd *cobra.Command) error {
	envFile, err := cmd.Flags().GetString(flagEnvFile)
	if err != nil || len(envFile) == 0 {
		return nil
	}
	envFile, err = homedir.Expand(envFile)
	if err != nil {
		return fmt.Errorf("error expanding env file path %q: %w", envFile, err)
	}
	// existing environment variables take precedence
	if err := godotenv.Load(envFile); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("error loading env file %q: %w", envFile, err)
	}
	return nil
}

func initViper(cmd *cobra.Command) (*viper.Viper, error) {
	if err := loadEnvFile(cmd); err != nil {
		return nil, err
	}
	v := viper.New()
	err := v.BindPFlags(cmd.Flags())
	if err != nil {
		return v, fmt.Errorf("error binding flag set to viper: %w", err)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv() // set environment variables to overwrite config
	return v, nil
}

func checkLogConfig(v *viper.Viper, args []string) error {
	logPath := v.GetString(flagLogPath)
	if len(logPath) == 0 {
		return fmt.Errorf("log path is missing")
	}
	logPerm := v.GetString(flagLogPerm)
	if len(logPerm) == 0 {
		return fmt.Errorf("log perm is missing")
	}
	_, err := strconv.ParseUint(logPerm, 8, 32)
	if err != nil {
		return fmt.Errorf("invalid format for log perm: %s", logPerm)
	}
	return nil
}

func checkGitHubConfig(v *viper.Viper, args []string) error {
	if len(v.GetString(flagGitHubUser)) == 0 {
		return fmt.Errorf("%q is missing", flagGitHubUser)
	}
	if len(v.GetString(flagGitHubToken)) == 0 {
		return fmt.Errorf("%q is missing", flagGitHubToken)
	}
	return nil
}

func checkRetryConfig(v *viper.Viper, args []string) error {
	if maxAttempts := v.GetInt(flagRetryMaxAttempts); maxAttempts < 1 {
		return fmt.Errorf("%q value %d is invalid, expecting value greater than or equal to 1", flagRetryMaxAttempts, maxAttempts)
	}
	return nil
}

func checkCloudConfig(v *viper.Viper, args []string) error {
	d, err := ParseDestination(destinationURI(v))
	if err != nil {
		return err
	}
	if d.Scheme == SchemeGDrive && len(v.GetString(flagGDriveCredentials)) == 0 {
		return fmt.Errorf("%q is missing", flagGDriveCredentials)
	}
	return nil
}

func checkProjectsConfig(v *viper.Viper, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("expecting no positional arguments, but found %d arguments", len(args))
	}
	if err := checkGitHubConfig(v, args); err != nil {
		return fmt.Errorf("error with GitHub configuration: %w", err)
	}
	if err := checkRetryConfig(v, args); err != nil {
		return fmt.Errorf("error with retry configuration: %w", err)
	}
	if err := checkLogConfig(v, args); err != nil {
		return fmt.Errorf("error with log configuration: %w", err)
	}
	return nil
}

func checkListConfig(v *viper.Viper, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("expecting 1 positional argument for project, but found %d arguments", len(args))
	}
	if side := v.GetString(flagSide); side != sideGitHub && side != sideCloud {
		return fmt.Errorf("%q value %q is invalid, expecting %q or %q", flagSide, side, sideGitHub, sideCloud)
	}
	if _, err := ts.ParseLocation(v.GetString(flagTimeZone)); err != nil {
		return fmt.Errorf("%q value %q is invalid: %w", flagTimeZone, v.GetString(flagTimeZone), err)
	}
	if err := checkGitHubConfig(v, args); err != nil {
		return fmt.Errorf("error with GitHub configuration: %w", err)
	}
	if v.GetString(flagSide) == sideCloud {
		if err := checkCloudConfig(v, args); err != nil {
			return fmt.Errorf("error with cloud configuration: %w", err)
		}
	}
	if err := checkRetryConfig(v, args); err != nil {
		return fmt.Errorf("error with retry configuration: %w", err)
	}
	if err := checkLogConfig(v, args); err != nil {
		return fmt.Errorf("error with log configuration: %w", err)
	}
	return nil
}

func checkSyncConfig(v *viper.Viper, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("expecting no positional arguments, but found %d arguments", len(args))
	}
	if _, err := syncer.ParseDirection(v.GetString(flagDirection)); err != nil {
		return err
	}
	if limit := v.GetInt(flagSyncLimit); limit == 0 {
		return errors.New("limit cannot be zero")
	}
	if err := checkGitHubConfig(v, args); err != nil {
		return fmt.Errorf("error with GitHub configuration: %w", err)
	}
	if err := checkCloudConfig(v, args); err != nil {
		return fmt.Errorf("error with cloud configuration: %w", err)
	}
	if err := checkRetryConfig(v, args); err != nil {
		return fmt.Errorf("error with retry configuration: %w", err)
	}
	if err := checkLogConfig(v, args); err != nil {
		return fmt.Errorf("error with log configuration: %w", err)
	}
	return nil
}
