package pmtu

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/sirupsen/logrus"
)

// Mechanism sends probes toward a target. Implementations own the per-probe
// timeout; both calls block until an answer, an error or that timeout.
type Mechanism interface {
	// Name identifies the mechanism in logs and reports.
	Name() string

	// Reachable sends one unconstrained probe (no DF, default size).
	Reachable(ctx context.Context, target net.IP) bool

	// Probe sends one DF probe carrying size bytes of payload.
	Probe(ctx context.Context, target net.IP, size int) RawResult
}

// ProbeEvent describes one probe issued during a discovery run.
type ProbeEvent struct {
	Seq        int
	Range      SearchRange // range before narrowing
	Outcome    ProbeOutcome
	Diagnostic string
	Elapsed    time.Duration
	Best       int // best known payload after this probe
}

// ProbeCallback is called after each probe is classified.
type ProbeCallback func(ProbeEvent)

// Prober runs the binary search protocol against a target.
type Prober struct {
	mechanism  Mechanism
	classifier *Classifier
	logger     logrus.FieldLogger
}

// NewProber creates a prober. A nil classifier uses the default markers.
func NewProber(m Mechanism, c *Classifier) *Prober {
	if c == nil {
		c = DefaultClassifier()
	}
	return &Prober{
		mechanism:  m,
		classifier: c,
		logger:     logrus.StandardLogger(),
	}
}

// SetLogger replaces the logger used for per-probe debug output.
func (p *Prober) SetLogger(l logrus.FieldLogger) {
	p.logger = l
}

// Discover finds the largest payload in [floor, ceiling] that reaches target
// with the DF bit set.
//
// Any probe that does not fit, including indeterminate failures, lowers the
// upper bound; a failure is never retried. The context is consulted only
// between probes.
func (p *Prober) Discover(ctx context.Context, target net.IP, floor, ceiling, overhead int, callback ProbeCallback) (*DiscoveryResult, error) {
	if floor < 0 || ceiling < 0 || floor > ceiling {
		return nil, fmt.Errorf("%w: floor %d, ceiling %d", ErrInvalidRange, floor, ceiling)
	}
	if overhead < 0 {
		return nil, fmt.Errorf("%w: negative header overhead %d", ErrInvalidRange, overhead)
	}

	log := p.logger.WithFields(logrus.Fields{
		"target":    target.String(),
		"mechanism": p.mechanism.Name(),
	})

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !p.mechanism.Reachable(ctx, target) {
		log.Debug("reachability probe failed")
		return nil, fmt.Errorf("%w: %s", ErrTargetUnreachable, target)
	}

	r := SearchRange{Low: floor, High: ceiling}
	best := 0

	for seq := 1; r.Open(); seq++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("discovery interrupted: %w", err)
		}

		before := r
		mid := r.Midpoint()

		start := time.Now()
		raw := p.mechanism.Probe(ctx, target, mid)
		elapsed := time.Since(start)
		raw.Size = mid

		outcome := p.classifier.Classify(raw)
		if outcome.Fits() {
			best = mid
			r.Low = mid + 1
		} else {
			r.High = mid - 1
		}

		log.WithFields(logrus.Fields{
			"seq":     seq,
			"size":    mid,
			"class":   outcome.Class.String(),
			"range":   before.String(),
			"elapsed": elapsed,
		}).Debug("probe classified")

		if callback != nil {
			callback(ProbeEvent{
				Seq:        seq,
				Range:      before,
				Outcome:    outcome,
				Diagnostic: raw.Diagnostic,
				Elapsed:    elapsed,
				Best:       best,
			})
		}
	}

	if best == 0 {
		return nil, ErrDiscoveryFailed
	}

	res := &DiscoveryResult{PayloadSize: best, HeaderOverhead: overhead}
	log.WithField("result", res.String()).Debug("search converged")
	return res, nil
}
