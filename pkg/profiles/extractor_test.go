package profiles_test

import (
	"encoding/json"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/dbtargets/pkg/profiles"
)

const jaffleShop = `config:
  send_anonymous_usage_stats: false

my_project:
  target: dev
  outputs:
    dev:
      type: postgres
      dbname: devdb
    prod:
      type: postgres
      dbname: proddb
`

const multiAdapter = `analytics:
  target: bq
  outputs:
    bq:
      type: bigquery
      project: my-gcp-project
      dataset: analytics
    sf:
      type: snowflake
      account: abc123
      database: ANALYTICS
    lake:
      type: databricks
      catalog: main
      schema: default
    scratch:
      dbname: nowhere
warehouse:
  outputs:
    dev:
      type: redshift
      database: wh_dev
    local:
      type: duckdb
      path: /tmp/dev.duckdb
    custom:
      type: exotic
      catalog: exotic_catalog
`

func newExtractor(t *testing.T, content string) *profiles.Extractor {
	t.Helper()

	dir := t.TempDir()
	writeProfiles(t, dir, content)

	return profiles.NewExtractor(profiles.NewLocator(profiles.LocatorConfig{
		ProfilesDir: dir,
		HomeDir:     t.TempDir(),
	}))
}

func ptr(s string) *string {
	return &s
}

func TestExtractor_ListTargets(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		content     string
		wantNames   []string
		wantDetails []profiles.TargetSummary
	}{
		"postgres profile excludes config": {
			content:   jaffleShop,
			wantNames: []string{"dev", "prod"},
			wantDetails: []profiles.TargetSummary{
				{Name: "dev", Profile: "my_project", Type: ptr("postgres"), Database: ptr("devdb")},
				{Name: "prod", Profile: "my_project", Type: ptr("postgres"), Database: ptr("proddb")},
			},
		},
		"adapter aware database fields": {
			content:   multiAdapter,
			wantNames: []string{"bq", "sf", "lake", "scratch", "dev", "local", "custom"},
			wantDetails: []profiles.TargetSummary{
				{Name: "bq", Profile: "analytics", Type: ptr("bigquery"), Database: ptr("my-gcp-project")},
				{Name: "sf", Profile: "analytics", Type: ptr("snowflake"), Database: ptr("ANALYTICS")},
				{Name: "lake", Profile: "analytics", Type: ptr("databricks"), Database: ptr("main")},
				{Name: "scratch", Profile: "analytics"},
				{Name: "dev", Profile: "warehouse", Type: ptr("redshift"), Database: ptr("wh_dev")},
				{Name: "local", Profile: "warehouse", Type: ptr("duckdb"), Database: ptr("/tmp/dev.duckdb")},
				{Name: "custom", Profile: "warehouse", Type: ptr("exotic"), Database: ptr("exotic_catalog")},
			},
		},
		"duplicate names across profiles are kept": {
			content: `a:
  outputs:
    dev: {type: postgres}
b:
  outputs:
    dev: {type: snowflake}
`,
			wantNames: []string{"dev", "dev"},
			wantDetails: []profiles.TargetSummary{
				{Name: "dev", Profile: "a", Type: ptr("postgres")},
				{Name: "dev", Profile: "b", Type: ptr("snowflake")},
			},
		},
		"duplicate target keys collapse to last value": {
			content: `a:
  outputs:
    dev: {type: postgres, dbname: one}
    prod: {type: postgres, dbname: two}
    dev: {type: postgres, dbname: three}
`,
			wantNames: []string{"dev", "prod"},
			wantDetails: []profiles.TargetSummary{
				{Name: "dev", Profile: "a", Type: ptr("postgres"), Database: ptr("three")},
				{Name: "prod", Profile: "a", Type: ptr("postgres"), Database: ptr("two")},
			},
		},
		"non mapping targets and scalars": {
			content: `a:
  outputs:
    empty:
    numeric:
      type: postgres
      dbname: 42
    listy:
      type: postgres
      dbname: [x, y]
b: just a string
c:
  target: dev
`,
			wantNames: []string{"empty", "numeric", "listy"},
			wantDetails: []profiles.TargetSummary{
				{Name: "empty", Profile: "a"},
				{Name: "numeric", Profile: "a", Type: ptr("postgres"), Database: ptr("42")},
				{Name: "listy", Profile: "a", Type: ptr("postgres")},
			},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			e := newExtractor(t, tc.content)

			names, err := e.ListTargetNames(t.Context())
			require.NoError(t, err)
			assert.Equal(t, tc.wantNames, names)

			details, err := e.ListTargetDetails(t.Context())
			require.NoError(t, err)
			assert.Equal(t, tc.wantDetails, details)

			// Every name has exactly one summary with the same name.
			require.Len(t, details, len(names))
			for i, d := range details {
				assert.Equal(t, names[i], d.Name)
			}
		})
	}
}

func TestExtractor_Idempotent(t *testing.T) {
	t.Parallel()

	e := newExtractor(t, multiAdapter)

	first, err := e.ListTargetNames(t.Context())
	require.NoError(t, err)

	second, err := e.ListTargetNames(t.Context())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestExtractor_RereadsFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeProfiles(t, dir, jaffleShop)

	e := profiles.NewExtractor(profiles.NewLocator(profiles.LocatorConfig{ProfilesDir: dir}))

	names, err := e.ListTargetNames(t.Context())
	require.NoError(t, err)
	assert.Equal(t, []string{"dev", "prod"}, names)

	writeProfiles(t, dir, "p:\n  outputs:\n    ci: {type: postgres}\n")

	names, err = e.ListTargetNames(t.Context())
	require.NoError(t, err)
	assert.Equal(t, []string{"ci"}, names)
}

func TestExtractor_MissingTypeSerializesNulls(t *testing.T) {
	t.Parallel()

	e := newExtractor(t, "p:\n  outputs:\n    x:\n      dbname: somewhere\n")

	details, err := e.ListTargetDetails(t.Context())
	require.NoError(t, err)

	b, err := json.Marshal(details)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"name": "x", "type": null, "database": null}]`, string(b))
}

func TestExtractor_Errors(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		wantErr  error
		wantKind profiles.Kind
		wantMsg  *regexp.Regexp
		content  string
	}{
		"empty mapping": {
			content:  "{}",
			wantErr:  profiles.ErrNoProfilesDefined,
			wantKind: profiles.KindNoProfilesDefined,
		},
		"empty file": {
			content:  "",
			wantErr:  profiles.ErrNoProfilesDefined,
			wantKind: profiles.KindNoProfilesDefined,
		},
		"config only": {
			content:  "config:\n  use_colors: false\n",
			wantErr:  profiles.ErrNoProfilesDefined,
			wantKind: profiles.KindNoProfilesDefined,
		},
		"unterminated mapping": {
			content:  "my_project:\n  outputs: {dev: {type: postgres}\n",
			wantErr:  profiles.ErrMalformedYAML,
			wantKind: profiles.KindMalformedYAML,
			wantMsg:  regexp.MustCompile(`\[\d+:\d+\]`),
		},
		"root is a sequence": {
			content:  "- a\n- b\n",
			wantErr:  profiles.ErrMalformedYAML,
			wantKind: profiles.KindMalformedYAML,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			e := newExtractor(t, tc.content)

			_, err := e.ListTargetNames(t.Context())
			require.ErrorIs(t, err, tc.wantErr)

			_, err = e.ListTargetDetails(t.Context())
			require.ErrorIs(t, err, tc.wantErr)

			var pErr *profiles.Error
			require.ErrorAs(t, err, &pErr)
			assert.Equal(t, tc.wantKind, pErr.Kind)

			if tc.wantMsg != nil {
				assert.Regexp(t, tc.wantMsg, err.Error())
			}
		})
	}
}

func TestExtractor_NotFound(t *testing.T) {
	t.Parallel()

	cfg := profiles.LocatorConfig{
		ProfilesDir: t.TempDir(),
		ProjectDir:  t.TempDir(),
		HomeDir:     t.TempDir(),
	}
	e := profiles.NewExtractor(profiles.NewLocator(cfg))

	_, err := e.ListTargetNames(t.Context())
	require.ErrorIs(t, err, profiles.ErrProfileNotFound)

	_, err = e.ListTargetDetails(t.Context())
	require.ErrorIs(t, err, profiles.ErrProfileNotFound)

	var pErr *profiles.Error
	require.ErrorAs(t, err, &pErr)
	assert.Len(t, pErr.Paths, 3)
	assert.Contains(t, err.Error(), filepath.Join(cfg.HomeDir, ".dbt", "profiles.yml"))
}

func TestExtractor_QueryOptions(t *testing.T) {
	t.Parallel()

	e := newExtractor(t, multiAdapter)

	tcs := map[string]struct {
		wantErr error
		opts    []profiles.QueryOpt
		want    []string
	}{
		"select profile": {
			opts: []profiles.QueryOpt{profiles.WithProfile("warehouse")},
			want: []string{"dev", "local", "custom"},
		},
		"unknown profile": {
			opts:    []profiles.QueryOpt{profiles.WithProfile("nope")},
			wantErr: profiles.ErrNoProfilesDefined,
		},
		"filter by adapter": {
			opts: []profiles.QueryOpt{profiles.WithFilter(`target.type in ["bigquery", "snowflake"]`)},
			want: []string{"bq", "sf"},
		},
		"filter by profile and database": {
			opts: []profiles.QueryOpt{profiles.WithFilter(`target.profile == "analytics" && !isSet(target.database)`)},
			want: []string{"scratch"},
		},
		"filter and profile": {
			opts: []profiles.QueryOpt{
				profiles.WithProfile("warehouse"),
				profiles.WithFilter(`target.name.startsWith("d")`),
			},
			want: []string{"dev"},
		},
		"filter matches nothing": {
			opts: []profiles.QueryOpt{profiles.WithFilter(`false`)},
			want: []string{},
		},
		"invalid filter": {
			opts:    []profiles.QueryOpt{profiles.WithFilter(`target.type ==`)},
			wantErr: profiles.ErrInvalidFilter,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := e.ListTargetNames(t.Context(), tc.opts...)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
