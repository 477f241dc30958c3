//go:build blackbox

package blackbox

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

var journalBin string

func TestMain(m *testing.M) {
	tmp, err := os.MkdirTemp("", "tradejournal-blackbox-*")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(tmp)

	journalBin = filepath.Join(tmp, "tradejournal")

	// Build the binary once for all tests.
	cmd := exec.Command("go", "build", "-o", journalBin, "./cmd/tradejournal")
	cmd.Dir = filepath.Join("..", "..")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		panic(err)
	}

	os.Exit(m.Run())
}

// run executes the binary and returns stdout. Logs go to stderr and are only
// shown when the command fails.
func run(t *testing.T, args ...string) string {
	t.Helper()

	cmd := exec.Command(journalBin, args...)
	var stderr strings.Builder
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		t.Fatalf("command failed: %v\nargs: %v\nstderr:\n%s", err, args, stderr.String())
	}
	return string(out)
}
