package buildinfo

import (
	"runtime/debug"
	"strings"
	"testing"
)

func withBuildInfo(t *testing.T, bi *debug.BuildInfo) {
	t.Helper()
	orig := readBuildInfo
	readBuildInfo = func() (*debug.BuildInfo, bool) { return bi, bi != nil }
	t.Cleanup(func() { readBuildInfo = orig })
}

func TestGetFallsBackToModuleInfo(t *testing.T) {
	withBuildInfo(t, &debug.BuildInfo{
		Main: debug.Module{Version: "v0.3.1"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef0123"},
			{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
		},
	})

	got := Get()
	want := Info{Version: "v0.3.1", Commit: "0123456789ab", Date: "2026-01-02T03:04:05Z"}
	if got != want {
		t.Errorf("Get() = %+v, want %+v", got, want)
	}
}

func TestGetPrefersLdflags(t *testing.T) {
	withBuildInfo(t, &debug.BuildInfo{Main: debug.Module{Version: "v0.3.1"}})
	orig := Version
	Version = "v9.9.9"
	t.Cleanup(func() { Version = orig })

	if got := Get().Version; got != "v9.9.9" {
		t.Errorf("Version = %q, want v9.9.9", got)
	}
}

func TestGetWithoutBuildInfo(t *testing.T) {
	withBuildInfo(t, nil)
	if got := Get(); got.Version != Version || got.Commit != Commit {
		t.Errorf("Get() = %+v", got)
	}
	if !strings.Contains(Template(), "{{.Name}}") {
		t.Error("template lost the command name")
	}
}

func TestDevelVersionIgnored(t *testing.T) {
	withBuildInfo(t, &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}})
	if got := Get().Version; got != "dev" {
		t.Errorf("Version = %q, want dev", got)
	}
}
