// Package display provides output rendering for path MTU discovery.
package display

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/hervehildenbrand/gmtu/internal/pmtu"
	"github.com/hervehildenbrand/gmtu/pkg/report"
)

// SimpleRenderer renders discovery progress as plain text lines.
type SimpleRenderer struct {
	ShowDiagnostic bool
}

// NewSimpleRenderer creates a new SimpleRenderer with default settings.
func NewSimpleRenderer() *SimpleRenderer {
	return &SimpleRenderer{}
}

// FormatElapsed formats a duration as milliseconds.
func (r *SimpleRenderer) FormatElapsed(d time.Duration) string {
	ms := float64(d) / float64(time.Millisecond)
	return fmt.Sprintf("%.2fms", ms)
}

// RenderHeader writes the line printed before the first probe.
func (r *SimpleRenderer) RenderHeader(w io.Writer, rep *report.Report) {
	fmt.Fprintf(w, "path MTU discovery to %s (%s) via %s, payload range [%d, %d]\n",
		rep.Target, rep.TargetIP, rep.Mechanism, rep.Floor, rep.Ceiling)
}

// RenderProbe renders a single probe as a text line.
func (r *SimpleRenderer) RenderProbe(p report.Probe) string {
	parts := []string{
		fmt.Sprintf("%3d", p.Seq),
		fmt.Sprintf("%5d bytes", p.Size),
		fmt.Sprintf("%-14s", fmt.Sprintf("[%d, %d]", p.Low, p.High)),
		fmt.Sprintf("%-13s", p.Outcome),
		r.FormatElapsed(p.Elapsed),
	}
	line := strings.Join(parts, "  ")

	if r.ShowDiagnostic && p.Diagnostic != "" {
		for _, l := range strings.Split(p.Diagnostic, "\n") {
			if l = strings.TrimSpace(l); l != "" {
				line += "\n      " + l
			}
		}
	}

	return line
}

// RenderResult writes the summary after the search finishes.
func (r *SimpleRenderer) RenderResult(w io.Writer, rep *report.Report) {
	fmt.Fprintln(w)
	if rep.Error != "" {
		fmt.Fprintf(w, "Discovery failed after %d probes: %s\n", rep.TotalProbes(), rep.Error)
		return
	}
	fmt.Fprintf(w, "Path MTU to %s: %d (payload %d + %d header bytes), %d probes%s\n",
		rep.Target, rep.MTU, rep.PayloadSize, rep.Overhead, rep.TotalProbes(), pathNote(rep))
}

// pathNote marks a path MTU that differs from standard Ethernet.
func pathNote(rep *report.Report) string {
	r := pmtu.DiscoveryResult{PayloadSize: rep.PayloadSize, HeaderOverhead: rep.Overhead}
	switch {
	case r.IsReduced():
		return fmt.Sprintf(" [reduced, below %d]", pmtu.StandardMTU)
	case r.IsJumbo():
		return " [jumbo]"
	}
	return ""
}
