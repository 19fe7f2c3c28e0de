package cli

import (
	"github.com/spf13/cobra"

	"github.com/macropower/dbtargets/pkg/profiles"
)

type ProfilesArgs struct {
	*RootArgs
	OutputArgs

	Profile string
}

func NewProfilesCmd(rootArgs *RootArgs) *cobra.Command {
	args := &ProfilesArgs{RootArgs: rootArgs}

	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "Describe every profile with its default target and connection details",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var opts []profiles.QueryOpt
			if args.Profile != "" {
				opts = append(opts, profiles.WithProfile(args.Profile))
			}

			report, err := args.NewExtractor().Profiles(cmd.Context(), opts...)
			if err != nil {
				return err //nolint:wrapcheck // Structured error.
			}

			return args.Write(cmd.OutOrStdout(), report)
		},
	}

	args.OutputArgs.AddFlags(cmd)
	cmd.Flags().StringVarP(&args.Profile, "profile", "p", "", "Only describe this profile")

	return cmd
}
