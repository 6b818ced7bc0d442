package version

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfoString(t *testing.T) {
	i := Info{CommitHash: "0123456789abcdef", BuildTime: "2024-01-01T00:00:00Z", Version: "v0.3.0"}
	assert.Equal(t, "gridsense v0.3.0 (commit 0123456, built 2024-01-01T00:00:00Z)", i.String())
	assert.Equal(t, "dev", Info{CommitHash: "dev"}.Short())
}

func TestFillFromSettings(t *testing.T) {
	info := Info{CommitHash: "dev", BuildTime: "unknown"}
	fillFromSettings(&info, []debug.BuildSetting{
		{Key: "vcs.revision", Value: "abcdef1234"},
		{Key: "vcs.time", Value: "2024-02-02T10:00:00Z"},
	})
	assert.Equal(t, "abcdef1234", info.CommitHash)
	assert.Equal(t, "2024-02-02T10:00:00Z", info.BuildTime)

	pinned := Info{CommitHash: "1111111", BuildTime: "then"}
	fillFromSettings(&pinned, []debug.BuildSetting{{Key: "vcs.revision", Value: "abcdef1234"}})
	assert.Equal(t, "1111111", pinned.CommitHash, "ldflags win")
}

func TestGet(t *testing.T) {
	info := Get()
	assert.NotEmpty(t, info.GoVersion)
	assert.Contains(t, info.Platform, "/")
}
