package profiles

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/macropower/dbtargets/pkg/expr"
	"github.com/macropower/dbtargets/pkg/log"
)

// TargetSummary is the normalized projection of a single target.
type TargetSummary struct {
	Type     *string `json:"type"`
	Database *string `json:"database"`
	Name     string  `json:"name"`
	Profile  string  `json:"-"`
}

// QueryOpt narrows a query.
type QueryOpt func(*queryOptions)

type queryOptions struct {
	profile string
	filter  string
}

// WithProfile restricts a query to the named profile.
func WithProfile(name string) QueryOpt {
	return func(o *queryOptions) {
		o.profile = name
	}
}

// WithFilter keeps only targets matching a CEL expression. The expression
// sees the variables name, profile, type and database.
func WithFilter(expression string) QueryOpt {
	return func(o *queryOptions) {
		o.filter = expression
	}
}

// Extractor reads profiles.yml and projects its targets.
// Every call locates and parses the file again.
type Extractor struct {
	locator *Locator
	tracer  trace.Tracer
}

// NewExtractor creates a new [Extractor].
func NewExtractor(locator *Locator) *Extractor {
	return &Extractor{
		locator: locator,
		tracer:  otel.Tracer("profiles"),
	}
}

// ListTargetNames returns the names of all targets of all profiles in source
// order. Names are only unique within a profile, so the result can contain
// duplicates.
func (e *Extractor) ListTargetNames(ctx context.Context, opts ...QueryOpt) ([]string, error) {
	summaries, err := e.ListTargetDetails(ctx, opts...)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(summaries))
	for _, s := range summaries {
		names = append(names, s.Name)
	}

	return names, nil
}

// ListTargetDetails returns one [TargetSummary] per target, in the same order
// as [Extractor.ListTargetNames].
func (e *Extractor) ListTargetDetails(ctx context.Context, opts ...QueryOpt) ([]TargetSummary, error) {
	options := &queryOptions{}
	for _, opt := range opts {
		opt(options)
	}

	ctx, span := e.tracer.Start(ctx, "list_targets", trace.WithAttributes(
		attribute.String("profile", options.profile),
		attribute.String("filter", options.filter),
	))
	defer span.End()

	var filter *expr.TargetFilter
	if options.filter != "" {
		var err error

		filter, err = expr.NewTargetFilter(options.filter)
		if err != nil {
			return nil, recordError(span, &Error{
				Kind:    KindInvalidFilter,
				Message: err.Error(),
				Err:     err,
			})
		}
	}

	f, err := e.load(ctx)
	if err != nil {
		return nil, recordError(span, err)
	}

	selected, err := selectProfiles(f, options.profile)
	if err != nil {
		return nil, recordError(span, err)
	}

	summaries := []TargetSummary{}

	for _, p := range selected {
		for _, t := range p.Outputs {
			s := Summarize(p.Name, t)

			if filter != nil {
				ok, err := filter.Match(summaryVars(s))
				if err != nil {
					return nil, recordError(span, &Error{
						Kind:    KindInvalidFilter,
						Message: err.Error(),
						Err:     err,
					})
				}
				if !ok {
					continue
				}
			}

			summaries = append(summaries, s)
		}
	}

	span.SetAttributes(attribute.Int("target_count", len(summaries)))

	return summaries, nil
}

// Summarize projects a target of the named profile into a [TargetSummary].
func Summarize(profile string, t Target) TargetSummary {
	adapter := t.Config.Type()

	return TargetSummary{
		Name:     t.Name,
		Profile:  profile,
		Type:     adapter,
		Database: resolveDatabase(adapter, t.Config),
	}
}

// Path returns the resolved location of profiles.yml.
func (e *Extractor) Path() (string, error) {
	return e.locator.Locate()
}

func (e *Extractor) load(ctx context.Context) (*ProfileFile, error) {
	logger := log.WithContext(ctx)
	start := time.Now()

	path, err := e.locator.Locate()
	if err != nil {
		return nil, err
	}

	trace.SpanFromContext(ctx).SetAttributes(attribute.String("path", path))

	f, err := ReadFile(path)
	if err != nil {
		return nil, err
	}

	logger.DebugContext(ctx, "loaded profiles",
		slog.String("path", path),
		slog.Int("profile_count", len(f.Profiles)),
		slog.Duration("duration", time.Since(start)),
	)

	return f, nil
}

func selectProfiles(f *ProfileFile, name string) ([]Profile, error) {
	if name == "" {
		return f.Profiles, nil
	}

	p, ok := f.Profile(name)
	if !ok {
		return nil, newNoProfilesError(f.Path, fmt.Sprintf("profile %q is not defined", name))
	}

	return []Profile{p}, nil
}

func summaryVars(s TargetSummary) map[string]any {
	vars := map[string]any{
		"name":     s.Name,
		"profile":  s.Profile,
		"type":     nil,
		"database": nil,
	}
	if s.Type != nil {
		vars["type"] = *s.Type
	}
	if s.Database != nil {
		vars["database"] = *s.Database
	}

	return vars
}

func recordError(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	return err
}
