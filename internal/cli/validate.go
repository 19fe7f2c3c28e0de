package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// ErrInvalidProfiles is returned by the validate command when profiles.yml
// violates the schema.
var ErrInvalidProfiles = errors.New("profiles.yml is invalid")

func NewValidateCmd(rootArgs *RootArgs) *cobra.Command {
	out := &OutputArgs{}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the structure of profiles.yml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := rootArgs.NewExtractor().Validate(cmd.Context())
			if err != nil {
				return err //nolint:wrapcheck // Structured error.
			}

			err = out.Write(cmd.OutOrStdout(), report)
			if err != nil {
				return err
			}

			if !report.Valid {
				return fmt.Errorf("%w: %s", ErrInvalidProfiles, report.Violation)
			}

			return nil
		},
	}

	out.AddFlags(cmd)

	return cmd
}
