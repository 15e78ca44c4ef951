package probe

import (
	"context"
	"errors"
	"net"
	"os/exec"
	"strings"
	"time"

	"github.com/hervehildenbrand/gmtu/internal/pmtu"
	"github.com/sirupsen/logrus"
)

// Runner executes a command and returns its combined output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// execRunner runs the command through os/exec.
func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// CommandMechanism probes by running the platform ping binary and capturing
// its output for classification.
type CommandMechanism struct {
	syntax  Syntax
	timeout time.Duration
	run     Runner
	logger  logrus.FieldLogger
}

// NewCommandMechanism creates a mechanism for the given ping syntax.
func NewCommandMechanism(syntax Syntax, timeout time.Duration) *CommandMechanism {
	return &CommandMechanism{
		syntax:  syntax,
		timeout: timeout,
		run:     execRunner,
		logger:  logrus.StandardLogger(),
	}
}

// SetRunner replaces the command runner.
func (m *CommandMechanism) SetRunner(r Runner) {
	m.run = r
}

// Name returns the mechanism name.
func (m *CommandMechanism) Name() string {
	return "command/" + m.syntax.OS
}

// Reachable runs one ping without DF and reports whether it exited cleanly.
func (m *CommandMechanism) Reachable(ctx context.Context, target net.IP) bool {
	ctx, cancel := m.bound(ctx)
	defer cancel()

	args := m.syntax.ReachArgs(target.String(), m.timeout)
	out, err := m.run(ctx, m.syntax.Binary, args...)
	if err != nil {
		m.logger.WithError(err).WithField("output", strings.TrimSpace(string(out))).Debug("reachability ping failed")
		return false
	}
	return true
}

// Probe runs one DF ping of size bytes.
func (m *CommandMechanism) Probe(ctx context.Context, target net.IP, size int) pmtu.RawResult {
	ctx, cancel := m.bound(ctx)
	defer cancel()

	args := m.syntax.ProbeArgs(target.String(), size, m.timeout)
	m.logger.WithField("args", args).Debug("running ping")

	out, err := m.run(ctx, m.syntax.Binary, args...)
	return commandResult(size, out, err)
}

// bound caps the command runtime in case the binary ignores its own timeout.
func (m *CommandMechanism) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, m.timeout+2*time.Second)
}

// commandResult converts a command's output and exit error into a raw result.
// A non-zero exit keeps the output as diagnostic text; any other error (binary
// missing, killed by timeout) is appended so it classifies as indeterminate.
func commandResult(size int, out []byte, err error) pmtu.RawResult {
	text := strings.TrimSpace(string(out))
	if err == nil {
		return pmtu.RawResult{Size: size, Succeeded: true, Diagnostic: text}
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return pmtu.RawResult{Size: size, Succeeded: false, Diagnostic: text}
	}

	if text != "" {
		text += "\n"
	}
	return pmtu.RawResult{Size: size, Succeeded: false, Diagnostic: text + err.Error()}
}
