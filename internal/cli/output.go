package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/macropower/dbtargets/pkg/yaml"
)

type outputFormat string

const (
	outputJSON outputFormat = "json"
	outputYAML outputFormat = "yaml"
)

var (
	ErrUnknownOutput = errors.New("unknown output format")

	allOutputs = []string{string(outputJSON), string(outputYAML)}
)

// OutputArgs selects how command results are written to stdout.
type OutputArgs struct {
	Output string
}

func (oa *OutputArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&oa.Output, "output", "o", string(outputJSON),
		fmt.Sprintf("Output format, one of: %s", allOutputs))

	must(cmd.RegisterFlagCompletionFunc("output",
		cobra.FixedCompletions(allOutputs, cobra.ShellCompDirectiveNoFileComp),
	))
}

// Write encodes v to w in the selected format.
func (oa *OutputArgs) Write(w io.Writer, v any) error {
	switch outputFormat(strings.ToLower(oa.Output)) {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		err := enc.Encode(v)
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}

		return nil

	case outputYAML:
		enc := yaml.NewEncoder(w)

		err := enc.Encode(v)
		if err != nil {
			return err //nolint:wrapcheck // Already wrapped.
		}

		return enc.Close()
	}

	return fmt.Errorf("%w: %q", ErrUnknownOutput, oa.Output)
}
