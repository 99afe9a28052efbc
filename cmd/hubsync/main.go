// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"github.com/navwar/hubsync/pkg/ignore"
	"github.com/navwar/hubsync/pkg/log"
	"github.com/navwar/hubsync/pkg/retry"
	"github.com/navwar/hubsync/pkg/store"
	"github.com/navwar/hubsync/pkg/syncer"
	"github.com/navwar/hubsync/pkg/ts"
)

const (
	HubSyncVersion = "0.0.1"
)

// acquireLock returns the lock held for the duration of a run.
func acquireLock(path string) (*flock.Flock, error) {
	p, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("error expanding lock file path %q: %w", path, err)
	}
	lock := flock.New(p)
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("error locking %q: %w", p, err)
	}
	if !locked {
		return nil, fmt.Errorf("another run holds the lock %q", p)
	}
	return lock, nil
}

func findProject(projects []*store.Project, name string) *store.Project {
	for _, p := range projects {
		if p.Name == name {
			return p
		}
	}
	return nil
}

func main() {
	rootCommand := &cobra.Command{
		Use:                   `hubsync [flags]`,
		DisableFlagsInUseLine: true,
		Short: strings.Join([]string{
			"hubsync is a simple command line program for synchronizing GitHub repositories with a cloud file store.",
			"hubsync schemes returns the currently supported cloud schemes.",
			"Google Drive folders are specified using the \"gdrive://\" scheme.",
			"S3 prefixes are specified using the \"s3://\" scheme.",
			"Local directories are specified using the \"file://\" scheme or a path without a scheme.",
		}, "\n"),
	}

	projectsCommand := &cobra.Command{
		Use:                   "projects",
		DisableFlagsInUseLine: true,
		Short:                 "projects",
		Long:                  "list the repositories of the GitHub user",
		SilenceErrors:         true,
		SilenceUsage:          true,
		RunE: func(cmd *cobra.Command, args []string) error {

			ctx := cmd.Context()

			v, err := initViper(cmd)
			if err != nil {
				return fmt.Errorf("error initializing viper: %w", err)
			}

			if errConfig := checkProjectsConfig(v, args); errConfig != nil {
				return errConfig
			}

			logger, err := initLogger(v.GetString(flagLogPath), v.GetString(flagLogPerm), v.GetString(flagLogFormat), v.GetBool(flagDebug))
			if err != nil {
				return fmt.Errorf("error initializing logger: %w", err)
			}

			codeHost, err := initGitHubStore(ctx, v, logger)
			if err != nil {
				return fmt.Errorf("error initializing GitHub: %w", err)
			}

			projects, err := retry.NewProjectLister(codeHost, initRetryPolicy(v, logger)).ListProjects(ctx)
			if err != nil {
				return fmt.Errorf("error listing projects: %w", err)
			}

			switch v.GetString(flagLogFormat) {
			case log.FormatText:
				for _, p := range projects {
					archived := ""
					if p.Archived {
						archived = "archived"
					}
					_, _ = fmt.Fprintf(os.Stdout, "%-40s %-10s %s\n", p.Name, p.DefaultBranch, archived)
				}
			default:
				encoder := json.NewEncoder(os.Stdout)
				for _, p := range projects {
					if err := encoder.Encode(p); err != nil {
						return fmt.Errorf("error encoding project %q: %w", p.Name, err)
					}
				}
			}

			return nil
		},
	}
	initProjectsCommandFlags(projectsCommand.Flags())

	listCommand := &cobra.Command{
		Use:                   "list PROJECT",
		DisableFlagsInUseLine: true,
		Short:                 "list",
		Long:                  "list the files of the project on GitHub or in the cloud",
		SilenceErrors:         true,
		SilenceUsage:          true,
		RunE: func(cmd *cobra.Command, args []string) error {

			ctx := cmd.Context()

			v, err := initViper(cmd)
			if err != nil {
				return fmt.Errorf("error initializing viper: %w", err)
			}

			if errConfig := checkListConfig(v, args); errConfig != nil {
				return errConfig
			}

			logger, err := initLogger(v.GetString(flagLogPath), v.GetString(flagLogPerm), v.GetString(flagLogFormat), v.GetBool(flagDebug))
			if err != nil {
				return fmt.Errorf("error initializing logger: %w", err)
			}

			policy := initRetryPolicy(v, logger)

			codeHost, err := initGitHubStore(ctx, v, logger)
			if err != nil {
				return fmt.Errorf("error initializing GitHub: %w", err)
			}

			projects, err := retry.NewProjectLister(codeHost, policy).ListProjects(ctx)
			if err != nil {
				return fmt.Errorf("error listing projects: %w", err)
			}

			project := findProject(projects, args[0])
			if project == nil {
				return fmt.Errorf("project %q not found for user %q", args[0], v.GetString(flagGitHubUser))
			}

			var side store.Store = codeHost
			if v.GetString(flagSide) == sideCloud {
				destination, err := ParseDestination(destinationURI(v))
				if err != nil {
					return err
				}
				cloud, err := InitCloudStore(ctx, &InitCloudStoreInput{
					Viper:       v,
					Destination: destination,
					Account:     v.GetString(flagGitHubUser),
					Logger:      logger,
				})
				if err != nil {
					return fmt.Errorf("error initializing cloud store %q: %w", destination, err)
				}
				side = cloud
			}
			side = retry.NewStore(side, policy)

			scope, err := side.Lookup(ctx, project)
			if err != nil {
				return fmt.Errorf("error resolving project %q on %s: %w", project.Name, side.Name(), err)
			}

			entries, err := side.ListAll(ctx, scope)
			if err != nil {
				return fmt.Errorf("error listing project %q on %s: %w", project.Name, side.Name(), err)
			}

			switch v.GetString(flagLogFormat) {
			case log.FormatText:
				humanReadableFileSize := v.GetBool(flagHumanReadableFileSize)
				timeLayout := ts.ParseLayout(v.GetString(flagTimeLayout))
				timeZone, err := ts.ParseLocation(v.GetString(flagTimeZone))
				if err != nil {
					return fmt.Errorf("error parsing time zone location %q: %w", v.GetString(flagTimeZone), err)
				}
				for _, e := range entries {
					size := fmt.Sprintf("%12d", e.Size)
					if humanReadableFileSize {
						size = fmt.Sprintf("%8s", humanize.Bytes(uint64(e.Size)))
					}
					hash := e.ContentHash
					if len(hash) == 0 {
						hash = strings.Repeat("-", 32)
					}
					_, _ = fmt.Fprintf(os.Stdout, "%s %s %s %s\n",
						hash,
						size,
						fmt.Sprintf("%"+strconv.Itoa(timeLayout.Width())+"s", timeLayout.Format(e.ModTime, timeZone)),
						e.Path)
				}
			default:
				encoder := json.NewEncoder(os.Stdout)
				for _, e := range entries {
					if err := encoder.Encode(e); err != nil {
						return fmt.Errorf("error encoding entry %q: %w", e.Path, err)
					}
				}
			}

			return nil
		},
	}
	initListCommandFlags(listCommand.Flags())

	syncCommand := &cobra.Command{
		Use:                   "sync",
		DisableFlagsInUseLine: true,
		Short:                 "sync",
		Long:                  "synchronize the repositories of the GitHub user with the cloud destination",
		SilenceErrors:         true,
		SilenceUsage:          true,
		RunE: func(cmd *cobra.Command, args []string) error {

			ctx := cmd.Context()

			v, err := initViper(cmd)
			if err != nil {
				return fmt.Errorf("error initializing viper: %w", err)
			}

			if errConfig := checkSyncConfig(v, args); errConfig != nil {
				return errConfig
			}

			logger, err := initLogger(v.GetString(flagLogPath), v.GetString(flagLogPerm), v.GetString(flagLogFormat), v.GetBool(flagDebug))
			if err != nil {
				return fmt.Errorf("error initializing logger: %w", err)
			}

			runID := uuid.New().String()

			if lockFile := v.GetString(flagLockFile); len(lockFile) > 0 {
				lock, err := acquireLock(lockFile)
				if err != nil {
					return err
				}
				defer func() {
					_ = lock.Unlock()
				}()
			}

			direction, _ := syncer.ParseDirection(v.GetString(flagDirection))

			destination, err := ParseDestination(destinationURI(v))
			if err != nil {
				return err
			}

			account := v.GetString(flagGitHubUser)

			if v.GetBool(flagDebug) {
				_ = logger.Debug("Creating stores", map[string]interface{}{
					"run":         runID,
					"account":     account,
					"destination": destination.String(),
				})
			}

			codeHost, err := initGitHubStore(ctx, v, logger)
			if err != nil {
				return fmt.Errorf("error initializing GitHub: %w", err)
			}

			cloud, err := InitCloudStore(ctx, &InitCloudStoreInput{
				Viper:       v,
				Destination: destination,
				Account:     account,
				Logger:      logger,
			})
			if err != nil {
				return fmt.Errorf("error initializing cloud store %q: %w", destination, err)
			}

			policy := initRetryPolicy(v, logger)

			orchestrator := syncer.NewOrchestrator(&syncer.NewOrchestratorInput{
				CodeHost: retry.NewStore(codeHost, policy),
				Projects: retry.NewProjectLister(codeHost, policy),
				Cloud:    retry.NewStore(cloud, policy),
				Config: &syncer.Config{
					Account:   account,
					Direction: direction,
					Ignore: ignore.NewPolicy(&ignore.NewPolicyInput{
						Names:        v.GetStringSlice(flagIgnoreNames),
						HiddenPrefix: v.GetString(flagHiddenPrefix),
						Exclude:      v.GetStringSlice(flagExclude),
					}),
					Projects: v.GetStringSlice(flagProject),
					Limit:    v.GetInt(flagSyncLimit),
					DryRun:   v.GetBool(flagDryRun),
					RunID:    runID,
					Logger:   logger,
				},
			})

			summary, err := orchestrator.Run(ctx)
			if err != nil {
				_ = logger.Log("Error synchronizing", map[string]interface{}{
					"run":         runID,
					"account":     account,
					"destination": destination.String(),
					"err":         err.Error(),
				})
				return err
			}

			if v.GetBool(flagDebug) {
				_ = logger.Debug("Summary", map[string]interface{}{
					"run":       runID,
					"transfers": summary.Transfers(),
				})
			}

			return nil
		},
	}
	initSyncCommandFlags(syncCommand.Flags())

	layoutsCommand := &cobra.Command{
		Use:                   `layouts`,
		DisableFlagsInUseLine: true,
		Short:                 "show supported timestamp layouts",
		SilenceErrors:         true,
		SilenceUsage:          true,
		RunE: func(cmd *cobra.Command, args []string) error {
			names := make([]string, 0, len(ts.NamedLayouts))
			for name := range ts.NamedLayouts {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Printf("%s: %s\n", name, ts.NamedLayouts[name])
			}
			return nil
		},
	}

	schemesCommand := &cobra.Command{
		Use:                   `schemes`,
		DisableFlagsInUseLine: true,
		Short:                 "show supported schemes",
		SilenceErrors:         true,
		SilenceUsage:          true,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, scheme := range Schemes {
				fmt.Println(scheme)
			}
			return nil
		},
	}

	versionCommand := &cobra.Command{
		Use:                   `version`,
		DisableFlagsInUseLine: true,
		Short:                 "show version",
		SilenceErrors:         true,
		SilenceUsage:          true,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(HubSyncVersion)
			return nil
		},
	}

	rootCommand.AddCommand(layoutsCommand, projectsCommand, listCommand, syncCommand, schemesCommand, versionCommand)

	if err := rootCommand.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "hubsync: "+err.Error())
		fmt.Fprintln(os.Stderr, "Try \"hubsync --help\" for more information.")
		os.Exit(1)
	}
}
