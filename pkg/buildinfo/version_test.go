package buildinfo

import (
	"runtime/debug"
	"strings"
	"testing"
)

func TestFillFromBuildInfo(t *testing.T) {
	saved := [3]string{Version, Commit, Date}
	t.Cleanup(func() { Version, Commit, Date = saved[0], saved[1], saved[2] })

	tests := []struct {
		name                  string
		version, commit, date string
		bi                    debug.BuildInfo
		wantVersion           string
		wantCommit            string
	}{
		{
			name:    "go install",
			version: "dev", commit: "none", date: "unknown",
			bi: debug.BuildInfo{
				Main:     debug.Module{Version: "v0.3.1"},
				Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "abc123"}},
			},
			wantVersion: "v0.3.1",
			wantCommit:  "abc123",
		},
		{
			name:    "ldflags win",
			version: "v1.0.0", commit: "deadbeef", date: "2025-01-01",
			bi: debug.BuildInfo{
				Main:     debug.Module{Version: "v0.3.1"},
				Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "abc123"}},
			},
			wantVersion: "v1.0.0",
			wantCommit:  "deadbeef",
		},
		{
			name:    "devel build",
			version: "dev", commit: "none", date: "unknown",
			bi:          debug.BuildInfo{Main: debug.Module{Version: "(devel)"}},
			wantVersion: "dev",
			wantCommit:  "none",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Version, Commit, Date = tt.version, tt.commit, tt.date
			fillFromBuildInfo(&tt.bi)
			if Version != tt.wantVersion || Commit != tt.wantCommit {
				t.Errorf("got %s/%s, want %s/%s", Version, Commit, tt.wantVersion, tt.wantCommit)
			}
		})
	}
}

func TestString(t *testing.T) {
	s := String()
	for _, want := range []string{"version: ", "commit: ", "built: ", "go: "} {
		if !strings.Contains(s, want) {
			t.Errorf("String() missing %q:\n%s", want, s)
		}
	}
	if !strings.Contains(Template(), "{{.Name}} version") {
		t.Error("Template() missing cobra name placeholder")
	}
}
