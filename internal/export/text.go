package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/hervehildenbrand/gmtu/pkg/report"
)

// TextExporter exports discovery reports to human-readable text format.
type TextExporter struct{}

// NewTextExporter creates a new text exporter.
func NewTextExporter() *TextExporter {
	return &TextExporter{}
}

// Export writes the report as text to the writer.
func (e *TextExporter) Export(w io.Writer, r *report.Report) error {
	fmt.Fprintf(w, "Path MTU discovery to %s (%s)\n", r.Target, r.TargetIP)
	fmt.Fprintf(w, "Mechanism: %s, payload range [%d, %d], overhead %d\n", r.Mechanism, r.Floor, r.Ceiling, r.Overhead)
	fmt.Fprintf(w, "Report: %s\n", r.ID)
	fmt.Fprintln(w, strings.Repeat("=", 70))
	fmt.Fprintln(w)

	for _, p := range r.Probes {
		fmt.Fprintf(w, "%3d  %5d bytes  [%d, %d]  %-13s %.2fms\n",
			p.Seq, p.Size, p.Low, p.High, p.Outcome,
			float64(p.Elapsed)/float64(time.Millisecond))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("=", 70))
	switch {
	case r.Error != "":
		fmt.Fprintf(w, "Failed after %d probes: %s\n", r.TotalProbes(), r.Error)
	default:
		fmt.Fprintf(w, "Path MTU %d (payload %d + %d) after %d probes\n", r.MTU, r.PayloadSize, r.Overhead, r.TotalProbes())
	}
	if r.Applied {
		fmt.Fprintf(w, "Applied to %s (was %d)\n", r.Interface, r.PreviousMTU)
	}
	if d := r.Duration(); d > 0 {
		fmt.Fprintf(w, "Duration: %v\n", d.Round(time.Millisecond))
	}

	return nil
}
