// Package report defines the data model for path MTU discovery results.
package report

import (
	"time"

	"github.com/google/uuid"
)

// Probe records a single probe issued during discovery.
type Probe struct {
	Seq        int
	Size       int // payload bytes
	Low        int // search range before the probe
	High       int
	Outcome    string // fits, too-large or indeterminate
	Diagnostic string // raw mechanism output
	Elapsed    time.Duration
}

// Fits returns true if the probe got through unfragmented.
func (p Probe) Fits() bool {
	return p.Outcome == "fits"
}

// Report contains the complete result of a discovery run.
type Report struct {
	ID          uuid.UUID // Unique per run, used to correlate exports
	Target      string    // Target hostname
	TargetIP    string    // Resolved target IP
	Mechanism   string    // Probe mechanism (command/<os>, socket)
	Floor       int
	Ceiling     int
	Overhead    int
	Probes      []Probe
	PayloadSize int // Largest payload that fit, 0 if none
	MTU         int // PayloadSize + Overhead, 0 if none
	Interface   string
	PreviousMTU int  // Interface MTU before apply
	Applied     bool // Whether the MTU was written to Interface
	Error       string
	StartTime   time.Time
	EndTime     time.Time
}

// New creates a report for the given target.
func New(target, targetIP, mechanism string) *Report {
	return &Report{
		ID:        uuid.New(),
		Target:    target,
		TargetIP:  targetIP,
		Mechanism: mechanism,
		Probes:    make([]Probe, 0),
	}
}

// AddProbe appends a probe record.
func (r *Report) AddProbe(p Probe) {
	r.Probes = append(r.Probes, p)
}

// SetResult records the discovered payload size.
func (r *Report) SetResult(payload int) {
	r.PayloadSize = payload
	r.MTU = payload + r.Overhead
}

// SetError records a failure.
func (r *Report) SetError(err error) {
	if err == nil {
		r.Error = ""
		return
	}
	r.Error = err.Error()
}

// SetApplied records that mtu was written to iface, replacing previous.
func (r *Report) SetApplied(iface string, previous int) {
	r.Interface = iface
	r.PreviousMTU = previous
	r.Applied = true
}

// Succeeded returns true if an MTU was found without error.
func (r *Report) Succeeded() bool {
	return r.MTU > 0 && r.Error == ""
}

// TotalProbes returns the number of DF probes sent.
func (r *Report) TotalProbes() int {
	return len(r.Probes)
}

// Duration returns the wall time of the run.
func (r *Report) Duration() time.Duration {
	if r.StartTime.IsZero() || r.EndTime.IsZero() {
		return 0
	}
	return r.EndTime.Sub(r.StartTime)
}
