package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/hervehildenbrand/gmtu/internal/config"
	"github.com/hervehildenbrand/gmtu/internal/iface"
	"github.com/hervehildenbrand/gmtu/internal/pmtu"
	"github.com/hervehildenbrand/gmtu/internal/probe"
	"github.com/hervehildenbrand/gmtu/pkg/report"
	"golang.org/x/term"
)

// runner holds the collaborators a command needs. Tests replace them.
type runner struct {
	resolve    func(target string) (net.IP, error)
	mechanism  func(cfg *probe.Config) (pmtu.Mechanism, error)
	manager    func() iface.Manager
	isTerminal func() bool
}

func defaultRunner() *runner {
	return &runner{
		resolve:    probe.ResolveTarget,
		mechanism:  probe.New,
		manager:    iface.NewManager,
		isTerminal: stdoutIsTerminal,
	}
}

func stdoutIsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// session is one prepared discovery run.
type session struct {
	cfg    *config.Config
	target net.IP
	prober *pmtu.Prober
	report *report.Report
}

// prepare resolves the target and builds the mechanism and prober.
func (r *runner) prepare(cfg *config.Config) (*session, error) {
	target, err := r.resolve(cfg.Target)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve target: %w", err)
	}

	m, err := r.mechanism(cfg.ProbeConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create mechanism: %w", err)
	}

	rep := report.New(cfg.Target, target.String(), m.Name())
	rep.Floor = cfg.Floor
	rep.Ceiling = cfg.Ceiling
	rep.Overhead = cfg.Overhead
	rep.Interface = cfg.Interface

	return &session{
		cfg:    cfg,
		target: target,
		prober: pmtu.NewProber(m, cfg.Classifier()),
		report: rep,
	}, nil
}

// run searches for the path MTU, recording every probe in the report. The
// report carries the error text when the run fails.
func (s *session) run(ctx context.Context, onProbe func(report.Probe)) error {
	s.report.StartTime = time.Now()
	defer func() { s.report.EndTime = time.Now() }()

	res, err := s.prober.Discover(ctx, s.target, s.cfg.Floor, s.cfg.Ceiling, s.cfg.Overhead, func(ev pmtu.ProbeEvent) {
		p := probeRecord(ev)
		s.report.AddProbe(p)
		if onProbe != nil {
			onProbe(p)
		}
	})
	if err != nil {
		s.report.SetError(err)
		return err
	}

	s.report.SetResult(res.PayloadSize)
	if _, err := pmtu.CheckMinimum(*res); err != nil {
		s.report.SetError(err)
		return err
	}

	return nil
}

// probeRecord converts a prober event to its report form.
func probeRecord(ev pmtu.ProbeEvent) report.Probe {
	return report.Probe{
		Seq:        ev.Seq,
		Size:       ev.Outcome.Size,
		Low:        ev.Range.Low,
		High:       ev.Range.High,
		Outcome:    ev.Outcome.Class.String(),
		Diagnostic: ev.Diagnostic,
		Elapsed:    ev.Elapsed,
	}
}
