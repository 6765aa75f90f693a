package commands

import (
	"runtime"
	"strings"
	"testing"

	"github.com/thoreinstein/mdsync/cmd"
)

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{
		"mdsync version " + cmd.Version,
		"commit: " + cmd.Commit,
		"built:  " + cmd.Date,
		"go:     " + runtime.Version(),
	} {
		if !strings.Contains(out, want) {
			t.Errorf("version output missing %q\nGot:\n%s", want, out)
		}
	}
}

func TestVersionCommand_Metadata(t *testing.T) {
	if versionCmd.Use != "version" {
		t.Errorf("versionCmd.Use = %q", versionCmd.Use)
	}
	if versionCmd.Short == "" {
		t.Error("versionCmd.Short should not be empty")
	}
}
