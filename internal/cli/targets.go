package cli

import (
	"github.com/spf13/cobra"

	"github.com/macropower/dbtargets/pkg/profiles"
)

const targetsExamples = `  # Names only:
  dbtargets targets

  # Names with adapter type and database:
  dbtargets targets --details

  # Targets without a known database:
  dbtargets targets --details --filter '!isSet(target.database)'`

type TargetsArgs struct {
	*RootArgs
	OutputArgs

	Profile string
	Filter  string
	Details bool
}

func NewTargetsArgs(rootArgs *RootArgs) *TargetsArgs {
	return &TargetsArgs{RootArgs: rootArgs}
}

func (ta *TargetsArgs) AddFlags(cmd *cobra.Command) {
	ta.OutputArgs.AddFlags(cmd)

	cmd.Flags().BoolVarP(&ta.Details, "details", "d", false, "Include the adapter type and database of each target")
	cmd.Flags().StringVarP(&ta.Profile, "profile", "p", "", "Only list targets of this profile")
	cmd.Flags().StringVarP(&ta.Filter, "filter", "f", "",
		"CEL expression over 'target' (name, profile, type, database) selecting targets")
}

func (ta *TargetsArgs) queryOpts() []profiles.QueryOpt {
	var opts []profiles.QueryOpt
	if ta.Profile != "" {
		opts = append(opts, profiles.WithProfile(ta.Profile))
	}
	if ta.Filter != "" {
		opts = append(opts, profiles.WithFilter(ta.Filter))
	}

	return opts
}

func NewTargetsCmd(rootArgs *RootArgs) *cobra.Command {
	args := NewTargetsArgs(rootArgs)

	cmd := &cobra.Command{
		Use:     "targets",
		Short:   "List the targets defined in profiles.yml",
		Example: targetsExamples,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			extractor := args.NewExtractor()

			if args.Details {
				details, err := extractor.ListTargetDetails(cmd.Context(), args.queryOpts()...)
				if err != nil {
					return err //nolint:wrapcheck // Structured error.
				}

				return args.Write(cmd.OutOrStdout(), details)
			}

			names, err := extractor.ListTargetNames(cmd.Context(), args.queryOpts()...)
			if err != nil {
				return err //nolint:wrapcheck // Structured error.
			}

			return args.Write(cmd.OutOrStdout(), names)
		},
	}

	args.AddFlags(cmd)

	return cmd
}
