package buildinfo

import (
	"runtime/debug"
	"strings"
	"testing"
)

func TestFill(t *testing.T) {
	defer func(v, c, d string) { Version, Commit, Date = v, c, d }(Version, Commit, Date)

	tests := []struct {
		name        string
		start       [3]string
		info        debug.BuildInfo
		wantVersion string
		wantCommit  string
	}{
		{
			name:        "module version",
			start:       [3]string{"dev", "none", "unknown"},
			info:        debug.BuildInfo{Main: debug.Module{Version: "v0.3.0"}},
			wantVersion: "v0.3.0",
			wantCommit:  "none",
		},
		{
			name:  "devel build keeps dev",
			start: [3]string{"dev", "none", "unknown"},
			info: debug.BuildInfo{
				Main:     debug.Module{Version: "(devel)"},
				Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "0123456789abcdef0123"}},
			},
			wantVersion: "dev",
			wantCommit:  "0123456789ab",
		},
		{
			name:        "ldflags win",
			start:       [3]string{"v1.0.0", "abc", "today"},
			info:        debug.BuildInfo{Main: debug.Module{Version: "v0.3.0"}, Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "ffff"}}},
			wantVersion: "v1.0.0",
			wantCommit:  "abc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Version, Commit, Date = tt.start[0], tt.start[1], tt.start[2]
			fill(&tt.info)
			if Version != tt.wantVersion || Commit != tt.wantCommit {
				t.Errorf("got %s/%s, want %s/%s", Version, Commit, tt.wantVersion, tt.wantCommit)
			}
		})
	}
}

func TestTemplate(t *testing.T) {
	if !strings.HasPrefix(Template(), "{{.Name}} ") {
		t.Errorf("Template() = %q", Template())
	}
	if !strings.Contains(String(), "version: ") {
		t.Errorf("String() = %q", String())
	}
}
