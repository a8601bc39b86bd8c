// Package chrony acquires and parses the diagnostic output of a running
// chronyd through the chronyc command line interface.
package chrony

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"
)

const DefaultTimeout = 2 * time.Second

// The three diagnostic queries this monitor issues.
const (
	CommandTracking    = "tracking"
	CommandSources     = "sources -v"
	CommandSourceStats = "sourcestats -v"
)

// Runner executes a single chronyc query and returns its text output.
// A non-zero exit still yields the combined output so that error-signature
// detection can run on it; an error is returned only when the process
// could not be executed at all (missing binary, timeout).
type Runner interface {
	Run(ctx context.Context, command string) (string, error)
}

type execRunner struct {
	path    string
	timeout time.Duration
}

func NewRunner(path string, timeout time.Duration) Runner {
	if path == "" {
		path = "chronyc"
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &execRunner{path: path, timeout: timeout}
}

func (r *execRunner) Run(ctx context.Context, command string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, r.path, strings.Fields(command)...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if _, ok := err.(*exec.ExitError); !ok {
			return "", err
		}
		out := stdout.String()
		if stderr.Len() > 0 {
			out += "\n" + stderr.String()
		}

		return out, nil
	}

	return stdout.String(), nil
}

// chronyc output indicating the daemon is unreachable or the socket is
// missing rather than a valid report.
var errorSignatures = []string{
	"Cannot talk to daemon",
	"506",
	"Could not open command socket",
	"Connection refused",
	"No such file or directory",
	"Operation not permitted",
}

// IsErrorOutput reports whether out is empty or matches a known chronyc
// error signature.
func IsErrorOutput(out string) bool {
	s := strings.TrimSpace(out)
	if s == "" {
		return true
	}
	for _, sig := range errorSignatures {
		if strings.Contains(s, sig) {
			return true
		}
	}

	return false
}
