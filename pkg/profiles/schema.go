package profiles

import (
	"sync"

	"github.com/invopop/jsonschema"

	"github.com/macropower/dbtargets/pkg/yaml"
)

//go:generate go run ../../internal/schemagen -o profiles.schema.json

const schemaURL = "/profiles.schema.json"

// profileSchema describes a profile for schema generation only.
type profileSchema struct {
	// Outputs maps target names to adapter-specific connection settings.
	Outputs map[string]targetSchema `json:"outputs" jsonschema:"title=Outputs"`
	// Target is the default target of the profile.
	Target string `json:"target,omitempty" jsonschema:"title=Default Target"`
}

type targetSchema struct {
	// Type is the adapter type, e.g. postgres or snowflake.
	Type string `json:"type,omitempty" jsonschema:"title=Adapter Type"`
}

var (
	validatorOnce sync.Once
	validator     *yaml.Validator
	validatorErr  error
)

// Schema returns the JSON schema of profiles.yml.
func Schema() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		Anonymous:                 true,
		DoNotReference:            true,
		ExpandedStruct:            true,
		AllowAdditionalProperties: true,
	}

	profile := r.Reflect(&profileSchema{})
	profile.Version = ""
	profile.Title = "Profile"

	props := jsonschema.NewProperties()
	_, _ = props.Set(ConfigKey, &jsonschema.Schema{
		Type:  "object",
		Title: "Global Config",
	})

	return &jsonschema.Schema{
		Version:              jsonschema.Version,
		Title:                "dbt profiles",
		Type:                 "object",
		Properties:           props,
		AdditionalProperties: profile,
	}
}

func schemaValidator() (*yaml.Validator, error) {
	validatorOnce.Do(func() {
		validator, validatorErr = yaml.NewValidatorFromSchema(schemaURL, Schema())
	})

	return validator, validatorErr
}
