package cli_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/dbtargets/internal/cli"
)

func TestBindEnvVars(t *testing.T) {
	tcs := map[string]struct {
		envVars         map[string]string
		wantLogLevel    string
		wantLogFormat   string
		wantProfilesDir string
		args            []string
	}{
		"environment variables are bound when no args provided": {
			envVars: map[string]string{
				"DBTARGETS_LOG_LEVEL":    "debug",
				"DBTARGETS_LOG_FORMAT":   "json",
				"DBTARGETS_PROFILES_DIR": "/etc/dbt",
			},
			args:            []string{},
			wantLogLevel:    "debug",
			wantLogFormat:   "json",
			wantProfilesDir: "/etc/dbt",
		},
		"command line args take precedence over environment variables": {
			envVars: map[string]string{
				"DBTARGETS_LOG_LEVEL":    "debug",
				"DBTARGETS_LOG_FORMAT":   "json",
				"DBTARGETS_PROFILES_DIR": "/etc/dbt",
			},
			args:            []string{"--log-level", "error", "--log-format", "text", "--profiles-dir", "/srv/dbt"},
			wantLogLevel:    "error",
			wantLogFormat:   "text",
			wantProfilesDir: "/srv/dbt",
		},
		"partial environment variable override": {
			envVars: map[string]string{
				"DBTARGETS_LOG_LEVEL": "warn",
			},
			args:          []string{"--log-format", "json"},
			wantLogLevel:  "warn",
			wantLogFormat: "json",
		},
		"no environment variables uses defaults": {
			envVars:       map[string]string{},
			args:          []string{},
			wantLogLevel:  "info", // Default value.
			wantLogFormat: "text", // Default value.
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			for key, val := range tc.envVars {
				t.Setenv(key, val)
			}

			cmd := cli.NewRootCmd()
			cmd.SetArgs(tc.args)

			// Parse flags (this triggers environment variable binding).
			err := cmd.ParseFlags(tc.args)
			require.NoError(t, err)

			logLevel, err := cmd.Flags().GetString("log-level")
			require.NoError(t, err)
			assert.Equal(t, tc.wantLogLevel, logLevel)

			logFormat, err := cmd.Flags().GetString("log-format")
			require.NoError(t, err)
			assert.Equal(t, tc.wantLogFormat, logFormat)

			profilesDir, err := cmd.Flags().GetString("profiles-dir")
			require.NoError(t, err)
			assert.Equal(t, tc.wantProfilesDir, profilesDir)
		})
	}
}

// Test that flag usage strings are updated to include environment variable names.
func TestEnvironmentVariableUsageUpdate(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCmd()

	logLevelFlag := cmd.PersistentFlags().Lookup("log-level")
	require.NotNil(t, logLevelFlag)
	assert.Contains(t, logLevelFlag.Usage, "$DBTARGETS_LOG_LEVEL")

	targetsCmd, _, err := cmd.Find([]string{"targets"})
	require.NoError(t, err)

	detailsFlag := targetsCmd.Flags().Lookup("details")
	require.NotNil(t, detailsFlag)
	assert.Contains(t, detailsFlag.Usage, "$DBTARGETS_DETAILS")
}
