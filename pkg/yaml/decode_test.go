package yaml_test

import (
	"io"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/dbtargets/pkg/yaml"
)

func TestDecoder_Decode(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		want    any
		input   string
		wantEOF bool
		wantErr bool
	}{
		"keeps source order": {
			input: "b: x\na: y\nc: z\n",
			want: yaml.MapSlice{
				{Key: "b", Value: "x"},
				{Key: "a", Value: "y"},
				{Key: "c", Value: "z"},
			},
		},
		"nested mappings are ordered": {
			input: "p:\n  z: x\n  y: w\n",
			want: yaml.MapSlice{
				{Key: "p", Value: yaml.MapSlice{
					{Key: "z", Value: "x"},
					{Key: "y", Value: "w"},
				}},
			},
		},
		"empty input": {
			input:   "",
			wantEOF: true,
		},
		"unterminated flow mapping": {
			input:   "a: {b: c\n",
			wantErr: true,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var got any

			err := yaml.NewDecoder(strings.NewReader(tc.input), yaml.WithOrderedMaps()).Decode(&got)

			switch {
			case tc.wantEOF:
				require.ErrorIs(t, err, io.EOF)
			case tc.wantErr:
				var yamlErr *yaml.Error
				require.ErrorAs(t, err, &yamlErr)

				line, _ := yamlErr.Position()
				assert.Positive(t, line)
				assert.Regexp(t, regexp.MustCompile(`^\[\d+:\d+\] `), err.Error())
			default:
				require.NoError(t, err)
				assert.Equal(t, tc.want, got)
			}
		})
	}
}

func TestDecoder_DuplicateKeys(t *testing.T) {
	t.Parallel()

	var got map[string]any

	err := yaml.NewDecoder(strings.NewReader("a: first\na: second\n")).Decode(&got)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": "second"}, got)
}
