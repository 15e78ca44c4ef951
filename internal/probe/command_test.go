package probe

import (
	"context"
	"errors"
	"net"
	"os/exec"
	"testing"
	"time"

	"github.com/hervehildenbrand/gmtu/internal/pmtu"
)

type fakeRunner struct {
	out   []byte
	err   error
	calls [][]string
}

func (f *fakeRunner) run(ctx context.Context, name string, args ...string) ([]byte, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	return f.out, f.err
}

func newTestCommandMechanism(r *fakeRunner) *CommandMechanism {
	m := NewCommandMechanism(LinuxSyntax, time.Second)
	m.SetRunner(r.run)
	return m
}

func TestCommandMechanism_Name(t *testing.T) {
	m := NewCommandMechanism(WindowsSyntax, time.Second)

	if m.Name() != "command/windows" {
		t.Errorf("Name() = %q, want command/windows", m.Name())
	}
}

func TestCommandMechanism_Probe_Delivered(t *testing.T) {
	r := &fakeRunner{out: []byte("PING 192.0.2.1 (192.0.2.1) 1472(1500) bytes of data.\n1480 bytes from 192.0.2.1: icmp_seq=1 ttl=57 time=10.1 ms\n")}
	m := newTestCommandMechanism(r)

	raw := m.Probe(context.Background(), net.ParseIP("192.0.2.1"), 1472)

	if !raw.Succeeded {
		t.Error("expected success")
	}
	if raw.Size != 1472 {
		t.Errorf("Size = %d, want 1472", raw.Size)
	}
	if got := pmtu.DefaultClassifier().Classify(raw).Class; got != pmtu.Fits {
		t.Errorf("classified as %v, want fits", got)
	}
	if len(r.calls) != 1 || r.calls[0][0] != "ping" {
		t.Fatalf("unexpected calls: %v", r.calls)
	}
}

func TestCommandMechanism_Probe_ExitErrorKeepsOutput(t *testing.T) {
	r := &fakeRunner{
		out: []byte("ping: local error: message too long, mtu=1500\n"),
		err: &exec.ExitError{},
	}
	m := newTestCommandMechanism(r)

	raw := m.Probe(context.Background(), net.ParseIP("192.0.2.1"), 1600)

	if raw.Succeeded {
		t.Error("expected failure")
	}
	if raw.Diagnostic != "ping: local error: message too long, mtu=1500" {
		t.Errorf("Diagnostic = %q", raw.Diagnostic)
	}
	if got := pmtu.DefaultClassifier().Classify(raw).Class; got != pmtu.DoesNotFit {
		t.Errorf("classified as %v, want too-large", got)
	}
}

func TestCommandMechanism_Probe_TransportFaultIsIndeterminate(t *testing.T) {
	r := &fakeRunner{err: exec.ErrNotFound}
	m := newTestCommandMechanism(r)

	raw := m.Probe(context.Background(), net.ParseIP("192.0.2.1"), 1000)

	if raw.Succeeded {
		t.Error("expected failure")
	}
	if raw.Diagnostic == "" {
		t.Error("expected the error text in the diagnostic")
	}
	if got := pmtu.DefaultClassifier().Classify(raw).Class; got != pmtu.Indeterminate {
		t.Errorf("classified as %v, want indeterminate", got)
	}
}

func TestCommandMechanism_Reachable(t *testing.T) {
	ok := newTestCommandMechanism(&fakeRunner{out: []byte("64 bytes from 192.0.2.1")})
	if !ok.Reachable(context.Background(), net.ParseIP("192.0.2.1")) {
		t.Error("expected reachable on clean exit")
	}

	down := newTestCommandMechanism(&fakeRunner{err: errors.New("exit status 1")})
	if down.Reachable(context.Background(), net.ParseIP("192.0.2.1")) {
		t.Error("expected unreachable on error")
	}
}

func TestCommandMechanism_Reachable_OmitsDF(t *testing.T) {
	r := &fakeRunner{}
	m := newTestCommandMechanism(r)

	m.Reachable(context.Background(), net.ParseIP("192.0.2.1"))

	for _, arg := range r.calls[0] {
		if arg == "-M" {
			t.Errorf("reachability ping must not set DF: %v", r.calls[0])
		}
	}
}
