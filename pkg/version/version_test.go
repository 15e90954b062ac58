package version_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ecobazaarx/ecoimpact/pkg/version"
)

func TestVersion(t *testing.T) {
	assert.NotEmpty(t, version.GetVersion())
	assert.NotEmpty(t, version.GetGitCommit())
	assert.NotEmpty(t, version.GetBuildDate())
	assert.Contains(t, version.String(), version.GetVersion())
	assert.Contains(t, version.String(), "commit "+version.GetGitCommit())
}
