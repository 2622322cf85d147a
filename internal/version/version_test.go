package version

import (
	"runtime/debug"
	"testing"
)

func TestFromBuildInfo(t *testing.T) {
	t.Parallel()

	bi := &debug.BuildInfo{
		Main: debug.Module{Version: "v1.2.3"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef"},
			{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
		},
	}
	got := fromBuildInfo(Info{}, bi)
	if got.Version != "v1.2.3" || got.Commit != "0123456789abcdef" || got.BuildTime != "2026-01-02T03:04:05Z" {
		t.Fatalf("unexpected info %+v", got)
	}

	// ldflags values win over build info.
	got = fromBuildInfo(Info{Version: "v9", Commit: "abc"}, bi)
	if got.Version != "v9" || got.Commit != "abc" {
		t.Fatalf("ldflags overridden: %+v", got)
	}

	got = fromBuildInfo(Info{}, &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}})
	if got.Version != "" {
		t.Fatalf("devel version leaked: %+v", got)
	}
}

func TestShortCommit(t *testing.T) {
	t.Parallel()

	if got := shortCommit("0123456789abcdef"); got != "0123456789ab" {
		t.Fatalf("shortCommit: %q", got)
	}
	if got := shortCommit("abc"); got != "abc" {
		t.Fatalf("shortCommit: %q", got)
	}
}
