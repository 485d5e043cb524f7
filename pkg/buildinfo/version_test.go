package buildinfo

import (
	"strings"
	"testing"
)

func TestGet(t *testing.T) {
	old := Version
	defer func() { Version = old }()
	Version = "v1.2.3"

	if got := Get().Version; got != "v1.2.3" {
		t.Errorf("Get().Version = %q", got)
	}
	if !strings.Contains(String(), "version: v1.2.3") {
		t.Errorf("String() = %q", String())
	}
	if !strings.HasPrefix(Template(), "{{.Name}} version v1.2.3") {
		t.Errorf("Template() = %q", Template())
	}
}

func TestGetKeepsLdflagValues(t *testing.T) {
	oldCommit, oldDate := Commit, Date
	defer func() { Commit, Date = oldCommit, oldDate }()
	Commit, Date = "abc123", "2024-01-02T03:04:05Z"

	info := Get()
	if info.Commit != "abc123" || info.Date != "2024-01-02T03:04:05Z" {
		t.Errorf("Get() = %+v, want ldflag values kept", info)
	}
}
