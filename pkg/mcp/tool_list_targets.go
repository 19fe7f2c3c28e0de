package mcp

import (
	"context"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/macropower/dbtargets/pkg/log"
	"github.com/macropower/dbtargets/pkg/profiles"
)

// ListTargetsParams defines parameters for the list_targets tool.
type ListTargetsParams struct {
	Profile string `json:"profile,omitempty"`
}

// ListTargetsResult contains the target names of profiles.yml.
type ListTargetsResult struct {
	Error   *ToolError `json:"error,omitempty"`
	Targets []string   `json:"targets"`
	Count   int        `json:"count"`
}

func newListTargetsTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "list_targets",
		Description: "List the names of all dbt targets defined in profiles.yml, in file order. Names are unique within a profile, but may repeat across profiles.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"profile": newProfileParamSchema(),
			},
		},
		OutputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"targets": {
					Type:        "array",
					Description: "The target names.",
					Items:       &jsonschema.Schema{Type: "string"},
				},
				"count": {Type: "integer", Description: "The number of targets."},
				"error": newToolErrorSchema(),
			},
			Required: []string{"targets", "count"},
		},
	}
}

// handleListTargets handles the list_targets tool call.
func (s *Server) handleListTargets(
	ctx context.Context,
	_ *mcp.ServerSession,
	params *mcp.CallToolParamsFor[ListTargetsParams],
) (*mcp.CallToolResultFor[ListTargetsResult], error) {
	names, err := s.extractor.ListTargetNames(ctx, profileOpts(params.Arguments.Profile)...)
	if err != nil {
		toolErr := newToolError(err)

		return errorResult(toolErr, ListTargetsResult{Targets: []string{}, Error: toolErr}), nil
	}

	log.WithContext(ctx).DebugContext(ctx, "listed targets", slog.Int("count", len(names)))

	return jsonResult(names, ListTargetsResult{
		Targets: names,
		Count:   len(names),
	})
}

func profileOpts(profile string) []profiles.QueryOpt {
	if profile == "" {
		return nil
	}

	return []profiles.QueryOpt{profiles.WithProfile(profile)}
}
