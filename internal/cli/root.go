package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/macropower/dbtargets/pkg/log"
	"github.com/macropower/dbtargets/pkg/profiles"
	"github.com/macropower/dbtargets/pkg/telemetry"
)

const (
	cmdName = "dbtargets"
	cmdDesc = `Discover the dbt targets defined in profiles.yml.`

	cmdExamples = `  # List target names:
  dbtargets targets

  # Show the adapter type and database of each target:
  dbtargets targets --details

  # Only Snowflake targets of the "analytics" profile:
  dbtargets targets --details --profile analytics --filter 'target.type == "snowflake"'

  # Check profiles.yml for structural problems:
  dbtargets validate

  # Serve the MCP tools over stdio:
  dbtargets serve`
)

type RootArgs struct {
	shutdown telemetry.ShutdownFunc

	LogLevel       string
	LogFormat      string
	ProfilesDir    string
	ProjectDir     string
	ProfilesDirEnv string
	ProjectDirEnv  string
	TraceEndpoint  string
	TraceInsecure  bool
}

func NewRootArgs() *RootArgs {
	return &RootArgs{}
}

func (ra *RootArgs) AddFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()

	flags.StringVar(&ra.LogLevel, "log-level", "info", fmt.Sprintf("Log level, one of: %s", log.AllLevels))
	flags.StringVar(&ra.LogFormat, "log-format", "text", fmt.Sprintf("Log format, one of: %s", log.AllFormats))

	flags.StringVar(&ra.ProfilesDir, "profiles-dir", "",
		"Directory containing profiles.yml, overrides the environment")
	flags.StringVar(&ra.ProjectDir, "project-dir", "",
		"dbt project directory, overrides the environment")
	flags.StringVar(&ra.ProfilesDirEnv, "profiles-dir-env", profiles.DefaultEnvNames.ProfilesDir,
		"Environment variable naming the profiles directory")
	flags.StringVar(&ra.ProjectDirEnv, "project-dir-env", profiles.DefaultEnvNames.ProjectDir,
		"Environment variable naming the dbt project directory")

	flags.StringVar(&ra.TraceEndpoint, "trace-endpoint", "",
		"OTLP/gRPC collector address, tracing is disabled when empty")
	flags.BoolVar(&ra.TraceInsecure, "trace-insecure", false,
		"Disable TLS for the trace collector connection")

	must(cmd.RegisterFlagCompletionFunc("log-format",
		cobra.FixedCompletions(log.AllFormats, cobra.ShellCompDirectiveNoFileComp),
	))
	must(cmd.RegisterFlagCompletionFunc("log-level",
		cobra.FixedCompletions(log.AllLevels, cobra.ShellCompDirectiveNoFileComp),
	))
	must(cmd.MarkPersistentFlagDirname("profiles-dir"))
	must(cmd.MarkPersistentFlagDirname("project-dir"))
}

// LocatorConfig resolves the locator signals. Explicit directory flags win
// over the environment variables they are named after.
func (ra *RootArgs) LocatorConfig() profiles.LocatorConfig {
	cfg := profiles.LocatorConfigFromEnv(os.LookupEnv, profiles.EnvNames{
		ProfilesDir: ra.ProfilesDirEnv,
		ProjectDir:  ra.ProjectDirEnv,
	})

	if ra.ProfilesDir != "" {
		cfg.ProfilesDir = ra.ProfilesDir
	}
	if ra.ProjectDir != "" {
		cfg.ProjectDir = ra.ProjectDir
	}

	return cfg
}

// NewExtractor creates a [profiles.Extractor] for the resolved locator
// signals.
func (ra *RootArgs) NewExtractor() *profiles.Extractor {
	return profiles.NewExtractor(profiles.NewLocator(ra.LocatorConfig()))
}

func NewRootCmd() *cobra.Command {
	args := NewRootArgs()

	cmd := &cobra.Command{
		Use:                cmdName,
		Short:              cmdDesc,
		Example:            cmdExamples,
		SilenceUsage:       true,
		PersistentPreRunE:  args.setup,
		PersistentPostRunE: args.teardown,
	}

	args.AddFlags(cmd)

	cmd.AddCommand(
		NewTargetsCmd(args),
		NewProfilesCmd(args),
		NewValidateCmd(args),
		NewServeCmd(args),
	)

	bindEnvVars(cmd)

	return cmd
}

func (ra *RootArgs) setup(cmd *cobra.Command, _ []string) error {
	err := log.Setup(cmd.ErrOrStderr(), ra.LogLevel, ra.LogFormat)
	if err != nil {
		return fmt.Errorf("create log handler: %w", err)
	}

	ra.shutdown, err = telemetry.Setup(cmd.Context(), telemetry.Config{
		Endpoint: ra.TraceEndpoint,
		Insecure: ra.TraceInsecure,
	})
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}

	return nil
}

func (ra *RootArgs) teardown(cmd *cobra.Command, _ []string) error {
	if ra.shutdown == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(cmd.Context()), 5*time.Second)
	defer cancel()

	err := ra.shutdown(ctx)
	if err != nil {
		slog.WarnContext(ctx, "flush traces", slog.Any("error", err))
	}

	return nil
}
