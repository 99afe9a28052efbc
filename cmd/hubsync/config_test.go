// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package main

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func newSyncViper() *viper.Viper {
	v := viper.New()
	v.Set(flagDirection, "both")
	v.Set(flagSyncLimit, -1)
	v.Set(flagGitHubUser, "octo")
	v.Set(flagGitHubToken, "token")
	v.Set(flagDestination, "file:///tmp/backup")
	v.Set(flagRetryMaxAttempts, 3)
	v.Set(flagLogPath, "-")
	v.Set(flagLogPerm, "0600")
	v.Set(flagTimeZone, "Local")
	return v
}

func TestCheckSyncConfig(t *testing.T) {
	assert.NoError(t, checkSyncConfig(newSyncViper(), []string{}))
}

func TestCheckSyncConfigArgs(t *testing.T) {
	assert.Error(t, checkSyncConfig(newSyncViper(), []string{"extra"}))
}

func TestCheckSyncConfigDirection(t *testing.T) {
	v := newSyncViper()
	v.Set(flagDirection, "sideways")
	assert.Error(t, checkSyncConfig(v, []string{}))
}

func TestCheckSyncConfigLimit(t *testing.T) {
	v := newSyncViper()
	v.Set(flagSyncLimit, 0)
	assert.EqualError(t, checkSyncConfig(v, []string{}), "limit cannot be zero")
}

func TestCheckSyncConfigMissingToken(t *testing.T) {
	v := newSyncViper()
	v.Set(flagGitHubToken, "")
	assert.Error(t, checkSyncConfig(v, []string{}))
}

func TestCheckSyncConfigDriveCredentials(t *testing.T) {
	v := newSyncViper()
	v.Set(flagDestination, "gdrive://abc123")
	assert.Error(t, checkSyncConfig(v, []string{}))
	v.Set(flagGDriveCredentials, "~/credentials.json")
	assert.NoError(t, checkSyncConfig(v, []string{}))
}

func TestCheckLogConfig(t *testing.T) {
	v := newSyncViper()
	v.Set(flagLogPerm, "abc")
	assert.Error(t, checkLogConfig(v, []string{}))
}

func TestCheckListConfigSide(t *testing.T) {
	v := newSyncViper()
	v.Set(flagSide, "both")
	assert.Error(t, checkListConfig(v, []string{"alpha"}))
	v.Set(flagSide, sideCloud)
	assert.NoError(t, checkListConfig(v, []string{"alpha"}))
	assert.Error(t, checkListConfig(v, []string{}))
}

func TestCheckListConfigTimeZone(t *testing.T) {
	v := newSyncViper()
	v.Set(flagSide, sideGitHub)
	v.Set(flagTimeZone, "Not/AZone")
	assert.Error(t, checkListConfig(v, []string{"alpha"}))
}
