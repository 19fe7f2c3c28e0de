package mcp

import (
	"context"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/macropower/dbtargets/pkg/log"
	"github.com/macropower/dbtargets/pkg/profiles"
)

// ListTargetDetailsParams defines parameters for the list_target_details tool.
type ListTargetDetailsParams struct {
	Profile string `json:"profile,omitempty"`
	Filter  string `json:"filter,omitempty"`
}

// ListTargetDetailsResult contains a summary of every target.
type ListTargetDetailsResult struct {
	Error   *ToolError               `json:"error,omitempty"`
	Targets []profiles.TargetSummary `json:"targets"`
	Count   int                      `json:"count"`
}

func newListTargetDetailsTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "list_target_details",
		Description: "List every dbt target in profiles.yml with its adapter type and database. Fields that are not set are null.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"profile": newProfileParamSchema(),
				"filter": {
					Type: "string",
					Description: "A CEL expression over the variable 'target', with fields name, profile, type and database. " +
						`Examples: target.type == "snowflake", isSet(target.database), target.name.startsWith("prod").`,
				},
			},
		},
		OutputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"targets": {
					Type:        "array",
					Description: "The target summaries, in file order.",
					Items:       newTargetSummarySchema(),
				},
				"count": {Type: "integer", Description: "The number of targets."},
				"error": newToolErrorSchema(),
			},
			Required: []string{"targets", "count"},
		},
	}
}

// handleListTargetDetails handles the list_target_details tool call.
func (s *Server) handleListTargetDetails(
	ctx context.Context,
	_ *mcp.ServerSession,
	params *mcp.CallToolParamsFor[ListTargetDetailsParams],
) (*mcp.CallToolResultFor[ListTargetDetailsResult], error) {
	opts := profileOpts(params.Arguments.Profile)
	if params.Arguments.Filter != "" {
		opts = append(opts, profiles.WithFilter(params.Arguments.Filter))
	}

	details, err := s.extractor.ListTargetDetails(ctx, opts...)
	if err != nil {
		toolErr := newToolError(err)

		return errorResult(toolErr, ListTargetDetailsResult{
			Targets: []profiles.TargetSummary{},
			Error:   toolErr,
		}), nil
	}

	log.WithContext(ctx).DebugContext(ctx, "listed target details", slog.Int("count", len(details)))

	return jsonResult(details, ListTargetDetailsResult{
		Targets: details,
		Count:   len(details),
	})
}
