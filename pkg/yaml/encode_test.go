package yaml_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/dbtargets/pkg/yaml"
)

func TestEncoder(t *testing.T) {
	t.Parallel()

	type target struct {
		Type *string `json:"type"`
		Name string  `json:"name"`
	}

	postgres := "postgres"

	var buf bytes.Buffer

	enc := yaml.NewEncoder(&buf)
	require.NoError(t, enc.Encode([]target{
		{Name: "dev", Type: &postgres},
		{Name: "ci"},
	}))
	require.NoError(t, enc.Close())

	out := buf.String()
	assert.Contains(t, out, "- type: postgres\n")
	assert.Contains(t, out, "  name: dev\n")
	assert.Contains(t, out, "type: null\n")
	assert.Contains(t, out, "  name: ci\n")
}
