//go:build !windows

package probe

import (
	"fmt"
	"os"
	"strings"
)

// CheckPrivileges verifies that the process may open raw ICMP sockets, which
// the socket mechanism needs. Returns nil if privileged, error otherwise with
// a hint to use the command mechanism instead.
func CheckPrivileges() error {
	if os.Geteuid() == 0 {
		return nil
	}

	if HasNetRawCapability() {
		return nil
	}

	return fmt.Errorf("the socket mechanism requires raw socket access.\n\nRun with: sudo %s\nor use --mechanism command", strings.Join(os.Args, " "))
}

// HasNetRawCapability checks if the current process has CAP_NET_RAW (Linux only).
// On macOS and BSD /proc does not exist and this returns false.
func HasNetRawCapability() bool {
	data, err := os.ReadFile("/proc/self/status")
	if err != nil {
		return false
	}
	return capEffHasNetRaw(string(data))
}

// capEffHasNetRaw parses the CapEff line of /proc/<pid>/status.
func capEffHasNetRaw(status string) bool {
	for _, line := range strings.Split(status, "\n") {
		if !strings.HasPrefix(line, "CapEff:") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 2 {
			return false
		}

		var capMask uint64
		if _, err := fmt.Sscanf(fields[1], "%x", &capMask); err != nil {
			return false
		}

		// CAP_NET_RAW is capability bit 13
		const capNetRaw = 1 << 13
		return capMask&capNetRaw != 0
	}

	return false
}
