package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/macropower/dbtargets/pkg/profiles"
)

// ValidateProfilesParams defines parameters for the validate_profiles tool.
type ValidateProfilesParams struct{}

// ValidateProfilesResult wraps a [profiles.ValidationReport].
type ValidateProfilesResult struct {
	*profiles.ValidationReport

	Error *ToolError `json:"error,omitempty"`
}

func newValidateProfilesTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "validate_profiles",
		Description: "Check the structure of profiles.yml. Reports the first problem with its line and column.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
		},
		OutputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"profiles_file": {Type: "string", Description: "The absolute path of profiles.yml."},
				"valid":         {Type: "boolean"},
				"violation":     {Type: "string", Description: "The first schema violation, when invalid."},
				"error":         newToolErrorSchema(),
				"line":          {Type: "integer"},
				"column":        {Type: "integer"},
			},
		},
	}
}

// handleValidateProfiles handles the validate_profiles tool call.
func (s *Server) handleValidateProfiles(
	ctx context.Context,
	_ *mcp.ServerSession,
	_ *mcp.CallToolParamsFor[ValidateProfilesParams],
) (*mcp.CallToolResultFor[ValidateProfilesResult], error) {
	report, err := s.extractor.Validate(ctx)
	if err != nil {
		toolErr := newToolError(err)

		return errorResult(toolErr, ValidateProfilesResult{Error: toolErr}), nil
	}

	msg := report.ProfilesFile + " is valid."
	if !report.Valid {
		msg = fmt.Sprintf("%s is invalid: %s", report.ProfilesFile, report.Violation)
	}

	return &mcp.CallToolResultFor[ValidateProfilesResult]{
		Content: []mcp.Content{
			&mcp.TextContent{Text: msg},
		},
		StructuredContent: ValidateProfilesResult{ValidationReport: report},
	}, nil
}
