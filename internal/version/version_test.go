package version

import (
	"runtime/debug"
	"testing"
)

func TestApply(t *testing.T) {
	savedVersion, savedCommit := Version, Commit
	t.Cleanup(func() { Version, Commit = savedVersion, savedCommit })

	tests := []struct {
		name        string
		settings    []debug.BuildSetting
		wantVersion string
		wantCommit  string
	}{
		{
			name: "clean checkout",
			settings: []debug.BuildSetting{
				{Key: "vcs.revision", Value: "0123456789abcdef"},
				{Key: "vcs.time", Value: "2026-03-04T10:00:00Z"},
			},
			wantVersion: "dev-20260304",
			wantCommit:  "0123456",
		},
		{
			name: "modified tree",
			settings: []debug.BuildSetting{
				{Key: "vcs.revision", Value: "abc"},
				{Key: "vcs.modified", Value: "true"},
			},
			wantCommit: "abc-dirty",
		},
		{
			name:     "no vcs info",
			settings: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Version, Commit = "", ""
			apply(tt.settings)
			if Version != tt.wantVersion || Commit != tt.wantCommit {
				t.Errorf("apply() = %q, %q, want %q, %q", Version, Commit, tt.wantVersion, tt.wantCommit)
			}
		})
	}
}

func TestBanner(t *testing.T) {
	savedVersion, savedCommit := Version, Commit
	t.Cleanup(func() { Version, Commit = savedVersion, savedCommit })

	Version, Commit = "v1.0.0", "abc1234"
	if got := Banner("codewall"); got != "codewall v1.0.0 (commit: abc1234)" {
		t.Errorf("Banner() = %q", got)
	}
}
