package version_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/macropower/dbtargets/pkg/version"
)

func TestGet(t *testing.T) {
	t.Parallel()

	info := version.Get()
	assert.NotEmpty(t, info.Version)
	assert.NotEmpty(t, info.Revision)
	assert.Equal(t, version.GoVersion, info.GoVersion)
	assert.Contains(t, info.String(), info.Version)
	assert.Contains(t, info.String(), info.Platform)
}
