package versions

import (
	"runtime"
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	t.Parallel()

	vcs := []debug.BuildSetting{
		{Key: "vcs.revision", Value: "0123456789abcdef"},
		{Key: "vcs.time", Value: "2024-07-01T09:30:00Z"},
	}

	tests := []struct {
		name      string
		version   string
		commit    string
		buildDate string
		settings  []debug.BuildSetting
		want      Info
	}{
		{
			name:      "release build",
			version:   "v1.4.0",
			commit:    "abc",
			buildDate: "2024-08-01T00:00:00Z",
			settings:  vcs,
			want:      Info{Version: "v1.4.0", Commit: "abc", BuildDate: "2024-08-01 00:00:00 UTC"},
		},
		{
			name:      "dev build uses vcs stamp",
			version:   "dev",
			commit:    unknown,
			buildDate: unknown,
			settings:  vcs,
			want:      Info{Version: "build-01234567", Commit: "0123456789abcdef", BuildDate: "2024-07-01 09:30:00 UTC"},
		},
		{
			name:      "dev build without stamp",
			version:   "dev",
			commit:    unknown,
			buildDate: unknown,
			want:      Info{Version: "build-unknown", Commit: unknown, BuildDate: unknown},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := resolve(tt.version, tt.commit, tt.buildDate, tt.settings)
			tt.want.GoVersion = runtime.Version()
			tt.want.Platform = runtime.GOOS + "/" + runtime.GOARCH
			assert.Equal(t, tt.want, got)
		})
	}
}
