package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfo_String(t *testing.T) {
	info := Info{Version: "v1.2.0", GitCommit: "0123456789abcdef", GoVersion: "go1.25.0", Platform: "linux/amd64"}
	assert.Equal(t, "i2p v1.2.0-0123456 (go1.25.0, linux/amd64)", info.String())

	info.BuildDate = "2026-10-01"
	assert.Equal(t, "i2p v1.2.0-0123456 (built 2026-10-01, go1.25.0, linux/amd64)", info.String())
}

func TestGetVersion_Ldflags(t *testing.T) {
	original := Version
	t.Cleanup(func() { Version = original })

	Version = "v9.9.9"
	assert.Equal(t, "v9.9.9", GetVersion())
	assert.Equal(t, "v9.9.9", Get().Version)
}
