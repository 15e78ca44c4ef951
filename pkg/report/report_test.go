package report

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNew(t *testing.T) {
	r := New("dns.google", "8.8.8.8", "socket")

	if r.ID == uuid.Nil {
		t.Error("expected a non-nil report ID")
	}
	if r.Target != "dns.google" || r.TargetIP != "8.8.8.8" {
		t.Errorf("unexpected target %s (%s)", r.Target, r.TargetIP)
	}
	if r.TotalProbes() != 0 {
		t.Errorf("expected no probes, got %d", r.TotalProbes())
	}

	other := New("dns.google", "8.8.8.8", "socket")
	if other.ID == r.ID {
		t.Error("expected distinct IDs for separate runs")
	}
}

func TestReport_SetResult(t *testing.T) {
	r := New("8.8.8.8", "8.8.8.8", "command/linux")
	r.Overhead = 28

	r.SetResult(1472)

	if r.MTU != 1500 {
		t.Errorf("expected MTU 1500, got %d", r.MTU)
	}
	if !r.Succeeded() {
		t.Error("expected report to succeed")
	}
}

func TestReport_SetError(t *testing.T) {
	r := New("8.8.8.8", "8.8.8.8", "command/linux")
	r.Overhead = 28
	r.SetResult(20)

	r.SetError(errors.New("abnormally low MTU: 48 < 68"))

	if r.Succeeded() {
		t.Error("expected report with error to fail")
	}
	if r.MTU != 48 {
		t.Errorf("expected MTU to be kept as 48, got %d", r.MTU)
	}

	r.SetError(nil)
	if r.Error != "" {
		t.Errorf("expected error cleared, got %q", r.Error)
	}
}

func TestReport_Probes(t *testing.T) {
	r := New("8.8.8.8", "8.8.8.8", "socket")
	r.AddProbe(Probe{Seq: 1, Size: 4506, Low: 40, High: 8972, Outcome: "too-large"})
	r.AddProbe(Probe{Seq: 2, Size: 2272, Low: 40, High: 4505, Outcome: "indeterminate"})
	r.AddProbe(Probe{Seq: 3, Size: 1155, Low: 40, High: 2271, Outcome: "fits"})

	if r.TotalProbes() != 3 {
		t.Fatalf("expected 3 probes, got %d", r.TotalProbes())
	}
	if r.Probes[0].Fits() || r.Probes[1].Fits() {
		t.Error("only the third probe should fit")
	}
	if !r.Probes[2].Fits() {
		t.Error("expected third probe to fit")
	}
}

func TestReport_Applied(t *testing.T) {
	r := New("8.8.8.8", "8.8.8.8", "socket")
	if r.Applied {
		t.Fatal("new report should not be applied")
	}

	r.SetApplied("eth0", 1500)

	if !r.Applied || r.Interface != "eth0" || r.PreviousMTU != 1500 {
		t.Errorf("unexpected apply state: %+v", r)
	}
}

func TestReport_Duration(t *testing.T) {
	r := New("8.8.8.8", "8.8.8.8", "socket")
	if r.Duration() != 0 {
		t.Error("expected zero duration before timestamps are set")
	}

	r.StartTime = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	r.EndTime = r.StartTime.Add(3 * time.Second)

	if r.Duration() != 3*time.Second {
		t.Errorf("expected 3s, got %v", r.Duration())
	}
}
