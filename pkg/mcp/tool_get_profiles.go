package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/macropower/dbtargets/pkg/profiles"
)

// GetProfilesParams defines parameters for the get_profiles tool.
type GetProfilesParams struct {
	Profile string `json:"profile,omitempty"`
}

// GetProfilesResult wraps a [profiles.Report].
type GetProfilesResult struct {
	*profiles.Report

	Error *ToolError `json:"error,omitempty"`
}

func newGetProfilesTool() *mcp.Tool {
	target := newTargetSummarySchema()
	target.Properties["host"] = &jsonschema.Schema{Type: "string", Description: "The host, when set."}
	target.Properties["port"] = &jsonschema.Schema{Type: "integer", Description: "The port, when set."}
	target.Properties["schema"] = &jsonschema.Schema{Type: "string", Description: "The default schema, when set."}

	return &mcp.Tool{
		Name:        "get_profiles",
		Description: "Describe every profile in profiles.yml: its default target and its targets with connection details. Credentials are never included.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"profile": newProfileParamSchema(),
			},
		},
		OutputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"profiles_file": {Type: "string", Description: "The absolute path of profiles.yml."},
				"profiles": {
					Type: "array",
					Items: &jsonschema.Schema{
						Type: "object",
						Properties: map[string]*jsonschema.Schema{
							"name":           {Type: "string", Description: "The profile name."},
							"default_target": nullableString("The target used when dbt runs without --target."),
							"targets":        {Type: "array", Items: target},
						},
						Required: []string{"name", "default_target", "targets"},
					},
				},
				"error": newToolErrorSchema(),
			},
		},
	}
}

// handleGetProfiles handles the get_profiles tool call.
func (s *Server) handleGetProfiles(
	ctx context.Context,
	_ *mcp.ServerSession,
	params *mcp.CallToolParamsFor[GetProfilesParams],
) (*mcp.CallToolResultFor[GetProfilesResult], error) {
	report, err := s.extractor.Profiles(ctx, profileOpts(params.Arguments.Profile)...)
	if err != nil {
		toolErr := newToolError(err)

		return errorResult(toolErr, GetProfilesResult{Error: toolErr}), nil
	}

	return jsonResult(report, GetProfilesResult{Report: report})
}
