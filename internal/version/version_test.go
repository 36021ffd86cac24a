package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetPrefersLinkTimeValues(t *testing.T) {
	origVersion, origCommit := Version, GitCommit
	t.Cleanup(func() { Version, GitCommit = origVersion, origCommit })

	Version = "1.2.3"
	GitCommit = "abc1234"

	info := Get()
	assert.Equal(t, "1.2.3", info.Version)
	assert.Equal(t, "abc1234", info.GitCommit)
}

func TestGetFallsBackToBuildInfo(t *testing.T) {
	info := Get()

	// Under `go test` the build info is always present.
	assert.NotEmpty(t, info.GoVersion)
	assert.NotEmpty(t, info.Version)
}
