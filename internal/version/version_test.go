package version

import (
	"strings"
	"testing"

	"go.astrophena.name/servedir/internal/testutil"
)

func TestInfoString(t *testing.T) {
	t.Parallel()

	i := Info{
		Version: "v1.2.3",
		Commit:  "deadbeef",
		BuiltAt: "2024-01-02T03:04:05Z",
		Go:      "go1.22.0",
		OS:      "linux",
		Arch:    "amd64",
	}

	s := i.String()
	for _, want := range []string{
		"v1.2.3 (go1.22.0, linux/amd64)",
		"commit deadbeef",
		"built at 2024-01-02T03:04:05Z",
	} {
		if !strings.Contains(s, want) {
			t.Errorf("Info.String() must contain %q, got:\n%s", want, s)
		}
	}
}

func TestCmdName(t *testing.T) {
	t.Parallel()

	// Test binaries always have an executable path, so the fallback name
	// shouldn't appear here.
	if name := CmdName(); name == "" || name == "cmd" {
		t.Errorf("CmdName() = %q", name)
	}
	testutil.AssertEqual(t, Version().Go != "", true)
}
