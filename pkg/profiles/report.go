package profiles

import (
	"context"
	"errors"
	"strconv"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/macropower/dbtargets/pkg/yaml"
)

// Report describes every profile in profiles.yml.
type Report struct {
	ProfilesFile string          `json:"profiles_file"`
	Profiles     []ProfileReport `json:"profiles"`
}

// ProfileReport describes a single profile.
type ProfileReport struct {
	DefaultTarget *string      `json:"default_target"`
	Name          string       `json:"name"`
	Targets       []TargetInfo `json:"targets"`
}

// TargetInfo extends [TargetSummary] with connection details.
type TargetInfo struct {
	Type     *string `json:"type"`
	Database *string `json:"database"`
	Host     *string `json:"host,omitempty"`
	Port     *int    `json:"port,omitempty"`
	Schema   *string `json:"schema,omitempty"`
	Name     string  `json:"name"`
}

// ValidationReport is the result of validating profiles.yml against
// [Schema].
type ValidationReport struct {
	ProfilesFile string `json:"profiles_file"`
	Violation    string `json:"violation,omitempty"`
	Line         int    `json:"line,omitempty"`
	Column       int    `json:"column,omitempty"`
	Valid        bool   `json:"valid"`
}

// Profiles returns a report of all profiles and their targets.
// The default target of a profile is its target field, or its first output
// when the field is unset.
func (e *Extractor) Profiles(ctx context.Context, opts ...QueryOpt) (*Report, error) {
	options := &queryOptions{}
	for _, opt := range opts {
		opt(options)
	}

	ctx, span := e.tracer.Start(ctx, "get_profiles", trace.WithAttributes(
		attribute.String("profile", options.profile),
	))
	defer span.End()

	f, err := e.load(ctx)
	if err != nil {
		return nil, recordError(span, err)
	}

	selected, err := selectProfiles(f, options.profile)
	if err != nil {
		return nil, recordError(span, err)
	}

	report := &Report{
		ProfilesFile: f.Path,
		Profiles:     make([]ProfileReport, 0, len(selected)),
	}

	for _, p := range selected {
		pr := ProfileReport{
			Name:          p.Name,
			DefaultTarget: p.Target,
			Targets:       make([]TargetInfo, 0, len(p.Outputs)),
		}

		if pr.DefaultTarget == nil && len(p.Outputs) > 0 {
			first := p.Outputs[0].Name
			pr.DefaultTarget = &first
		}

		for _, t := range p.Outputs {
			s := Summarize(p.Name, t)
			pr.Targets = append(pr.Targets, TargetInfo{
				Name:     s.Name,
				Type:     s.Type,
				Database: s.Database,
				Host:     t.Config.String("host"),
				Port:     intValue(t.Config["port"]),
				Schema:   t.Config.String("schema"),
			})
		}

		report.Profiles = append(report.Profiles, pr)
	}

	return report, nil
}

// Validate checks profiles.yml against [Schema]. Schema violations are
// reported in the [ValidationReport]; only failures to locate or parse the
// file are returned as errors.
func (e *Extractor) Validate(ctx context.Context) (*ValidationReport, error) {
	ctx, span := e.tracer.Start(ctx, "validate_profiles")
	defer span.End()

	path, err := e.locator.Locate()
	if err != nil {
		return nil, recordError(span, err)
	}

	span.SetAttributes(attribute.String("path", path))

	data, err := readFile(path)
	if err != nil {
		return nil, recordError(span, &Error{Kind: KindReadError, Message: err.Error(), Err: err})
	}

	// Parse first, so that syntax and emptiness errors match the other
	// queries.
	_, err = Parse(path, data)
	if err != nil {
		return nil, recordError(span, err)
	}

	v, err := schemaValidator()
	if err != nil {
		return nil, recordError(span, err)
	}

	report := &ValidationReport{ProfilesFile: path, Valid: true}

	err = v.ValidateYAML(data)
	if err != nil {
		report.Valid = false
		report.Violation = err.Error()

		var yamlErr *yaml.Error
		if errors.As(err, &yamlErr) {
			report.Line, report.Column = yamlErr.Position()
		}

		span.SetAttributes(attribute.Bool("valid", false))
	}

	return report, nil
}

func intValue(v any) *int {
	var i int

	switch val := v.(type) {
	case int:
		i = val
	case int64:
		i = int(val)
	case uint64:
		i = int(val) //nolint:gosec // G115: ports are small.
	case string:
		n, err := strconv.Atoi(val)
		if err != nil {
			return nil
		}

		i = n
	default:
		return nil
	}

	return &i
}
