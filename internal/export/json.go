// Package export writes discovery reports as JSON, CSV or text.
package export

import (
	"encoding/json"
	"io"
	"time"

	"github.com/hervehildenbrand/gmtu/pkg/report"
)

// ExportedReport is the JSON representation of a discovery report.
type ExportedReport struct {
	ID          string          `json:"id"`
	Target      string          `json:"target"`
	TargetIP    string          `json:"targetIP"`
	Mechanism   string          `json:"mechanism"`
	Floor       int             `json:"floor"`
	Ceiling     int             `json:"ceiling"`
	Overhead    int             `json:"overhead"`
	PayloadSize int             `json:"payloadSize"`
	MTU         int             `json:"mtu"`
	Interface   string          `json:"interface,omitempty"`
	PreviousMTU int             `json:"previousMtu,omitempty"`
	Applied     bool            `json:"applied"`
	Error       string          `json:"error,omitempty"`
	StartTime   time.Time       `json:"startTime,omitempty"`
	EndTime     time.Time       `json:"endTime,omitempty"`
	Probes      []ExportedProbe `json:"probes"`
}

// ExportedProbe is the JSON representation of a single probe.
type ExportedProbe struct {
	Seq        int     `json:"seq"`
	Size       int     `json:"size"`
	Low        int     `json:"low"`
	High       int     `json:"high"`
	Outcome    string  `json:"outcome"`
	Diagnostic string  `json:"diagnostic,omitempty"`
	ElapsedMs  float64 `json:"elapsedMs"`
}

// JSONExporter exports discovery reports to JSON format.
type JSONExporter struct {
	Pretty bool // Whether to pretty-print the JSON
}

// NewJSONExporter creates a new JSON exporter.
func NewJSONExporter() *JSONExporter {
	return &JSONExporter{
		Pretty: true,
	}
}

// Export writes the report as JSON to the writer.
func (e *JSONExporter) Export(w io.Writer, r *report.Report) error {
	encoder := json.NewEncoder(w)
	if e.Pretty {
		encoder.SetIndent("", "  ")
	}

	return encoder.Encode(Convert(r))
}

// Convert transforms a Report to its JSON representation.
func Convert(r *report.Report) *ExportedReport {
	exported := &ExportedReport{
		ID:          r.ID.String(),
		Target:      r.Target,
		TargetIP:    r.TargetIP,
		Mechanism:   r.Mechanism,
		Floor:       r.Floor,
		Ceiling:     r.Ceiling,
		Overhead:    r.Overhead,
		PayloadSize: r.PayloadSize,
		MTU:         r.MTU,
		Interface:   r.Interface,
		PreviousMTU: r.PreviousMTU,
		Applied:     r.Applied,
		Error:       r.Error,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		Probes:      make([]ExportedProbe, 0, len(r.Probes)),
	}

	for _, p := range r.Probes {
		exported.Probes = append(exported.Probes, ExportedProbe{
			Seq:        p.Seq,
			Size:       p.Size,
			Low:        p.Low,
			High:       p.High,
			Outcome:    p.Outcome,
			Diagnostic: p.Diagnostic,
			ElapsedMs:  float64(p.Elapsed) / float64(time.Millisecond),
		})
	}

	return exported
}
