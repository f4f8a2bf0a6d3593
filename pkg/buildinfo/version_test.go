package buildinfo

import (
	"runtime/debug"
	"strings"
	"testing"
)

func TestFill(t *testing.T) {
	saved := [3]string{Version, Commit, Date}
	t.Cleanup(func() { Version, Commit, Date = saved[0], saved[1], saved[2] })

	Version, Commit, Date = "dev", "none", "v-stamped"
	fill(&debug.BuildInfo{
		Main: debug.Module{Version: "v0.3.1"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc123"},
			{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
		},
	})
	if Version != "v0.3.1" || Commit != "abc123" {
		t.Errorf("fill = %s %s, want v0.3.1 abc123", Version, Commit)
	}
	if Date != "v-stamped" {
		t.Errorf("stamped Date overwritten with %s", Date)
	}

	Version = "dev"
	fill(&debug.BuildInfo{Main: debug.Module{Version: "(devel)"}})
	if Version != "dev" {
		t.Errorf("(devel) should not replace dev, got %s", Version)
	}
}

func TestTemplate(t *testing.T) {
	if got := Template(); !strings.Contains(got, Version) || !strings.HasPrefix(got, "{{.Name}} ") {
		t.Errorf("Template() = %q", got)
	}
}
