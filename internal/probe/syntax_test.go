package probe

import (
	"reflect"
	"testing"
	"time"
)

func TestSyntaxFor_Platforms(t *testing.T) {
	tests := []struct {
		goos      string
		wantProbe []string
		wantReach []string
	}{
		{
			goos:      "linux",
			wantProbe: []string{"-c", "1", "-W", "2", "-M", "do", "-s", "1472", "192.0.2.1"},
			wantReach: []string{"-c", "1", "-W", "2", "192.0.2.1"},
		},
		{
			goos:      "darwin",
			wantProbe: []string{"-c", "1", "-t", "2", "-D", "-s", "1472", "192.0.2.1"},
			wantReach: []string{"-c", "1", "-t", "2", "192.0.2.1"},
		},
		{
			goos:      "windows",
			wantProbe: []string{"-n", "1", "-w", "2000", "-f", "-l", "1472", "192.0.2.1"},
			wantReach: []string{"-n", "1", "-w", "2000", "192.0.2.1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			s, err := SyntaxFor(tt.goos)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if s.OS != tt.goos {
				t.Errorf("OS = %q, want %q", s.OS, tt.goos)
			}
			if got := s.ProbeArgs("192.0.2.1", 1472, 2*time.Second); !reflect.DeepEqual(got, tt.wantProbe) {
				t.Errorf("ProbeArgs() = %v, want %v", got, tt.wantProbe)
			}
			if got := s.ReachArgs("192.0.2.1", 2*time.Second); !reflect.DeepEqual(got, tt.wantReach) {
				t.Errorf("ReachArgs() = %v, want %v", got, tt.wantReach)
			}
		})
	}
}

func TestSyntaxFor_RejectsUnknownPlatform(t *testing.T) {
	if _, err := SyntaxFor("plan9"); err == nil {
		t.Error("expected error for unsupported platform")
	}
}

func TestSeconds_RoundsUp(t *testing.T) {
	tests := []struct {
		in       time.Duration
		expected string
	}{
		{500 * time.Millisecond, "1"},
		{time.Second, "1"},
		{1500 * time.Millisecond, "2"},
		{0, "1"},
	}

	for _, tt := range tests {
		if got := seconds(tt.in); got != tt.expected {
			t.Errorf("seconds(%v) = %q, want %q", tt.in, got, tt.expected)
		}
	}
}
