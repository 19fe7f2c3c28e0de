// Package mcp serves dbt target discovery over the Model Context Protocol.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/macropower/dbtargets/pkg/profiles"
)

const (
	name         = "dbtargets"
	instructions = `MCP Server 'dbtargets' reports the dbt targets (named warehouse connections) defined in profiles.yml.

The file is located the same way dbt does it: $DBT_PROFILES_DIR, then the dbt project directory, then ~/.dbt. It is read again on every call, so edits are picked up immediately.

When to use these tools:
- Choosing a value for dbt's --target flag
- Checking which adapter (postgres, snowflake, bigquery, ...) and database a target points at
- Diagnosing a missing or broken profiles.yml

Workflow:
1. Use 'list_targets' to get the target names.
2. Use 'list_target_details' for the adapter type and database of each target. Pass a CEL 'filter' such as target.type == "snowflake" to narrow the result.
3. Use 'get_profiles' to see which profile each target belongs to and its default target.
4. If a call fails with MalformedYAML, use 'validate_profiles' to locate the problem.

Credentials are never returned.
`
)

// Extractor answers profile queries. It is implemented by
// [profiles.Extractor].
type Extractor interface {
	ListTargetNames(ctx context.Context, opts ...profiles.QueryOpt) ([]string, error)
	ListTargetDetails(ctx context.Context, opts ...profiles.QueryOpt) ([]profiles.TargetSummary, error)
	Profiles(ctx context.Context, opts ...profiles.QueryOpt) (*profiles.Report, error)
	Validate(ctx context.Context) (*profiles.ValidationReport, error)
}

// ToolError is the structured form of a failed tool call.
type ToolError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func newToolError(err error) *ToolError {
	pErr := profiles.AsError(err)

	return &ToolError{
		Kind:    string(pErr.Kind),
		Message: pErr.Message,
	}
}

func (e *ToolError) String() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// errorResult creates a tool result reporting toolErr. The protocol call
// itself succeeds; clients see IsError.
func errorResult[Out any](toolErr *ToolError, out Out) *mcp.CallToolResultFor[Out] {
	return &mcp.CallToolResultFor[Out]{
		Content: []mcp.Content{
			&mcp.TextContent{Text: toolErr.String()},
		},
		StructuredContent: out,
		IsError:           true,
	}
}

// jsonResult creates a tool result whose text content is v as JSON.
func jsonResult[Out any](v any, out Out) (*mcp.CallToolResultFor[Out], error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}

	return &mcp.CallToolResultFor[Out]{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(b)},
		},
		StructuredContent: out,
	}, nil
}

func nullableString(description string) *jsonschema.Schema {
	return &jsonschema.Schema{
		Types:       []string{"string", "null"},
		Description: description,
	}
}

func newProfileParamSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "string",
		Description: "Only report targets of this profile. All profiles are reported when empty.",
	}
}

func newToolErrorSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "object",
		Description: "Set when the call failed.",
		Properties: map[string]*jsonschema.Schema{
			"kind": {
				Type:        "string",
				Description: "One of ProfileNotFound, MalformedYAML, NoProfilesDefined, InvalidFilter, ReadError.",
			},
			"message": {
				Type:        "string",
				Description: "A human readable description of the failure.",
			},
		},
		Required: []string{"kind", "message"},
	}
}

func newTargetSummarySchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "object",
		Description: "A dbt target.",
		Properties: map[string]*jsonschema.Schema{
			"name":     {Type: "string", Description: "The target name, usable with dbt's --target flag."},
			"type":     nullableString("The adapter type, or null when unset."),
			"database": nullableString("The database or catalog, or null when it cannot be determined."),
		},
		Required: []string{"name", "type", "database"},
	}
}
