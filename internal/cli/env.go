package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// envPrefix is prepended to every environment variable bound to a flag.
var envPrefix = strings.ToUpper(cmdName)

// bindEnvVars binds environment variables to the flags of cmd and all of its
// subcommands. Environment variable names are generated as
// DBTARGETS_<FLAG_NAME>, where the flag name is converted to uppercase and
// dashes are replaced with underscores.
//
// For example:
//   - Flag "log-level" becomes environment variable "DBTARGETS_LOG_LEVEL"
//   - Flag "profiles-dir" becomes environment variable "DBTARGETS_PROFILES_DIR"
//
// Arguments take precedence over environment variables, which take precedence
// over default values. Flag usage strings are updated to show the variable.
func bindEnvVars(cmd *cobra.Command) {
	cmd.Flags().VisitAll(bindFlagToEnv)
	cmd.PersistentFlags().VisitAll(bindFlagToEnv)

	for _, sub := range cmd.Commands() {
		bindEnvVars(sub)
	}
}

// bindFlagToEnv binds a single flag to its corresponding environment variable.
func bindFlagToEnv(flag *pflag.Flag) {
	envName := flagToEnvName(flag.Name)

	if !strings.Contains(flag.Usage, envName) {
		flag.Usage = fmt.Sprintf("%s ($%s)", flag.Usage, envName)
	}

	// Skip if flag was already set via command line arguments.
	if flag.Changed {
		return
	}

	envValue, ok := os.LookupEnv(envName)
	if !ok {
		return
	}

	err := flag.Value.Set(envValue)
	if err != nil {
		// Keep the default value.
		slog.Error("failed to set flag from environment variable",
			slog.String("flag", flag.Name),
			slog.String("env", envName),
			slog.String("value", envValue),
			slog.Any("error", err),
		)

		return
	}

	// Defaults shown in help output follow the environment.
	flag.DefValue = flag.Value.String()
}

// flagToEnvName converts a flag name to its corresponding environment variable name.
// Example: "log-level" -> "DBTARGETS_LOG_LEVEL".
func flagToEnvName(flagName string) string {
	return envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(flagName, "-", "_"))
}
