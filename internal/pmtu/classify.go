package pmtu

import (
	"strings"
)

// Class is the interpretation of a single probe.
type Class int

const (
	// Indeterminate means the probe failed for a reason unrelated to size.
	Indeterminate Class = iota
	// Fits means the probe was delivered and answered.
	Fits
	// DoesNotFit means the probe was too large or was not delivered.
	DoesNotFit
)

// String returns the class name.
func (c Class) String() string {
	switch c {
	case Fits:
		return "fits"
	case DoesNotFit:
		return "too-large"
	default:
		return "indeterminate"
	}
}

// RawResult is the captured result of one DF probe before interpretation.
type RawResult struct {
	// Size is the payload size that was probed
	Size int

	// Succeeded is false when the probe mechanism reported an error
	Succeeded bool

	// Diagnostic is any text the mechanism produced (command output, ICMP summary)
	Diagnostic string
}

// ProbeOutcome is the classified result of one probe.
type ProbeOutcome struct {
	Class Class
	Size  int
}

// Fits reports whether the outcome confirms the size.
func (o ProbeOutcome) Fits() bool {
	return o.Class == Fits
}

// Default marker sets. Matching is case-insensitive.
var (
	// DefaultDeliveryMarkers confirm a round trip: Linux/macOS ping print
	// "bytes from", Windows ping prints "TTL=" on replies only.
	DefaultDeliveryMarkers = []string{"bytes from", "ttl="}

	// DefaultFragmentationMarkers indicate the DF probe was too large.
	DefaultFragmentationMarkers = []string{
		"message too long",
		"fragmentation needed",
		"frag needed",
		"needs to be fragmented",
		"packet too big",
	}
)

// Classifier interprets raw probe results. It holds no probe logic, only the
// text markers used to recognise delivery and fragmentation.
type Classifier struct {
	delivery      []string
	fragmentation []string
}

// NewClassifier creates a classifier with the given markers. Empty sets fall
// back to the defaults.
func NewClassifier(delivery, fragmentation []string) *Classifier {
	if len(delivery) == 0 {
		delivery = DefaultDeliveryMarkers
	}
	if len(fragmentation) == 0 {
		fragmentation = DefaultFragmentationMarkers
	}
	return &Classifier{
		delivery:      lowerAll(delivery),
		fragmentation: lowerAll(fragmentation),
	}
}

// DefaultClassifier returns a classifier using the default marker sets.
func DefaultClassifier() *Classifier {
	return NewClassifier(nil, nil)
}

// Classify interprets one raw probe result.
func (c *Classifier) Classify(raw RawResult) ProbeOutcome {
	text := strings.ToLower(raw.Diagnostic)

	if raw.Succeeded {
		// A zero exit status alone is not delivery evidence.
		if containsAny(text, c.delivery) {
			return ProbeOutcome{Class: Fits, Size: raw.Size}
		}
		return ProbeOutcome{Class: DoesNotFit, Size: raw.Size}
	}

	if containsAny(text, c.fragmentation) {
		return ProbeOutcome{Class: DoesNotFit, Size: raw.Size}
	}
	return ProbeOutcome{Class: Indeterminate, Size: raw.Size}
}

func containsAny(text string, markers []string) bool {
	for _, m := range markers {
		if m != "" && strings.Contains(text, m) {
			return true
		}
	}
	return false
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, strings.ToLower(s))
	}
	return out
}
