// Copyright 2026 The Supportdesk Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"runtime/debug"
	"strings"
	"testing"
)

func TestBuildString(t *testing.T) {
	build := Build{Version: "1.2.0", Commit: "abc1234", Dirty: true, BuildTime: "2026-03-01T10:00:00Z"}
	if got, want := build.String(), "1.2.0 (abc1234-dirty, 2026-03-01T10:00:00Z)"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	build.Dirty = false
	build.GoVersion = "go1.25.6"
	build.Platform = "linux/amd64"
	full := build.Full()
	if !strings.HasPrefix(full, "1.2.0 (abc1234, ") {
		t.Errorf("Full() = %q", full)
	}
	if !strings.Contains(full, "Go: go1.25.6") || !strings.Contains(full, "Platform: linux/amd64") {
		t.Errorf("Full() = %q", full)
	}
}

func TestFillFromSettings(t *testing.T) {
	settings := []debug.BuildSetting{
		{Key: "vcs.revision", Value: "0123456789abcdef0123"},
		{Key: "vcs.time", Value: "2026-04-02T08:30:00Z"},
		{Key: "vcs.modified", Value: "true"},
	}

	t.Run("fills unset fields", func(t *testing.T) {
		build := Build{Commit: "unknown", BuildTime: "unknown"}
		fillFromSettings(&build, settings)
		if build.Commit != "0123456789ab" {
			t.Errorf("Commit = %q", build.Commit)
		}
		if build.BuildTime != "2026-04-02T08:30:00Z" {
			t.Errorf("BuildTime = %q", build.BuildTime)
		}
		if GitCommit == "unknown" && !build.Dirty {
			t.Error("Dirty not taken from vcs.modified")
		}
	})

	t.Run("linker values win", func(t *testing.T) {
		build := Build{Commit: "release1", BuildTime: "2026-01-01T00:00:00Z"}
		fillFromSettings(&build, settings)
		if build.Commit != "release1" || build.BuildTime != "2026-01-01T00:00:00Z" {
			t.Errorf("linker values overwritten: %+v", build)
		}
	})
}

func TestReadReportsRuntime(t *testing.T) {
	build := Read()
	if build.Version != Version {
		t.Errorf("Version = %q, want %q", build.Version, Version)
	}
	if build.GoVersion == "" || !strings.Contains(build.Platform, "/") {
		t.Errorf("runtime fields missing: %+v", build)
	}
	if UserAgent() != "supportctl/"+Version {
		t.Errorf("UserAgent() = %q", UserAgent())
	}
}
