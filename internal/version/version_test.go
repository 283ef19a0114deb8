package version

import "testing"

func TestGet(t *testing.T) {
	old := Version
	t.Cleanup(func() { Version = old })
	Version = "v1.2.3"

	info := Get()
	if info.Version != "v1.2.3" || info.GoVersion == "" {
		t.Errorf("Get() = %+v", info)
	}
}

func TestInfoString(t *testing.T) {
	i := Info{Version: "v1.0.0", Commit: "abc123", BuildDate: "2026-01-01", GoVersion: "go1.25.5"}
	want := "v1.0.0 (commit=abc123, built=2026-01-01, go=go1.25.5)"
	if got := i.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
