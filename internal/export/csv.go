package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/hervehildenbrand/gmtu/pkg/report"
)

// CSVExporter exports discovery reports to CSV format, one row per probe.
type CSVExporter struct{}

// NewCSVExporter creates a new CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Export writes the report as CSV to the writer.
func (e *CSVExporter) Export(w io.Writer, r *report.Report) error {
	writer := csv.NewWriter(w)

	header := []string{
		"report_id", "target", "target_ip", "seq", "size",
		"low", "high", "outcome", "elapsed_ms", "diagnostic",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, p := range r.Probes {
		if err := writer.Write(e.probeToRow(r, p)); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// probeToRow converts a probe to a CSV row.
func (e *CSVExporter) probeToRow(r *report.Report, p report.Probe) []string {
	return []string{
		r.ID.String(),
		r.Target,
		r.TargetIP,
		strconv.Itoa(p.Seq),
		strconv.Itoa(p.Size),
		strconv.Itoa(p.Low),
		strconv.Itoa(p.High),
		p.Outcome,
		fmt.Sprintf("%.2f", float64(p.Elapsed)/float64(time.Millisecond)),
		// Keep ping output on one line
		strings.Join(strings.Fields(p.Diagnostic), " "),
	}
}
