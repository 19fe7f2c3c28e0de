package cli

import (
	"github.com/spf13/cobra"

	"github.com/macropower/dbtargets/pkg/mcp"
)

type ServeArgs struct {
	*RootArgs

	Address string
}

func NewServeCmd(rootArgs *RootArgs) *cobra.Command {
	args := &ServeArgs{RootArgs: rootArgs}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the MCP tools over stdio, or over HTTP when an address is given",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			server := mcp.NewServer(args.Address, args.NewExtractor())

			return server.Serve(cmd.Context()) //nolint:wrapcheck // Already wrapped.
		},
	}

	cmd.Flags().StringVar(&args.Address, "address", "", "HTTP listen address, e.g. localhost:8080")

	return cmd
}
