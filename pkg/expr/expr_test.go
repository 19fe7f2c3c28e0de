package expr_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/dbtargets/pkg/expr"
)

func TestTargetFilter_Match(t *testing.T) {
	t.Parallel()

	prod := map[string]any{
		"name":     "prod",
		"profile":  "jaffle_shop",
		"type":     "postgres",
		"database": "proddb",
	}
	untyped := map[string]any{
		"name":     "scratch",
		"profile":  "jaffle_shop",
		"type":     nil,
		"database": nil,
	}

	tcs := map[string]struct {
		vars       map[string]any
		expression string
		want       bool
	}{
		"adapter matches": {
			expression: `target.type == "postgres"`,
			vars:       prod,
			want:       true,
		},
		"null adapter does not match": {
			expression: `target.type == "postgres"`,
			vars:       untyped,
			want:       false,
		},
		"string functions": {
			expression: `target.name.startsWith("pro") && target.profile == "jaffle_shop"`,
			vars:       prod,
			want:       true,
		},
		"isSet on null": {
			expression: `isSet(target.database)`,
			vars:       untyped,
			want:       false,
		},
		"isSet on value": {
			expression: `isSet(target.database)`,
			vars:       prod,
			want:       true,
		},
		"in list": {
			expression: `target.type in ["snowflake", "postgres"]`,
			vars:       prod,
			want:       true,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			f, err := expr.NewTargetFilter(tc.expression)
			require.NoError(t, err)
			assert.Equal(t, tc.expression, f.String())

			got, err := f.Match(tc.vars)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNewTargetFilter_Errors(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		expression string
		compileErr bool
	}{
		"syntax error": {
			expression: `target.type ==`,
			compileErr: true,
		},
		"unknown variable": {
			expression: `adapter == "postgres"`,
			compileErr: true,
		},
		"non boolean result": {
			expression: `target.name`,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			f, err := expr.NewTargetFilter(tc.expression)
			if tc.compileErr {
				require.Error(t, err)

				return
			}

			require.NoError(t, err)

			_, err = f.Match(map[string]any{"name": "dev"})
			require.ErrorIs(t, err, expr.ErrNotBool)
		})
	}
}
