//go:build !windows

package probe

import "testing"

func TestCapEffHasNetRaw(t *testing.T) {
	tests := []struct {
		name     string
		status   string
		expected bool
	}{
		{name: "full caps", status: "Name:\tgmtu\nCapEff:\t000001ffffffffff\n", expected: true},
		{name: "net raw only", status: "CapEff:\t0000000000002000\n", expected: true},
		{name: "no caps", status: "CapEff:\t0000000000000000\n", expected: false},
		{name: "missing line", status: "Name:\tgmtu\n", expected: false},
		{name: "malformed", status: "CapEff:\n", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := capEffHasNetRaw(tt.status); got != tt.expected {
				t.Errorf("capEffHasNetRaw() = %v, want %v", got, tt.expected)
			}
		})
	}
}
