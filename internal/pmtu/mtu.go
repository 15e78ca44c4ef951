// Package pmtu implements path MTU discovery by binary search over DF probes.
package pmtu

import (
	"fmt"
)

// MTU constants
const (
	// StandardMTU is the typical Ethernet MTU
	StandardMTU = 1500

	// MinMTU is the minimum MTU for IPv4 (RFC 791)
	MinMTU = 68

	// JumboMTU is the largest MTU the search considers (jumbo frames)
	JumboMTU = 9000

	// HeaderOverhead is the IPv4 header (20) plus the ICMP echo header (8).
	HeaderOverhead = 28

	// DefaultFloor is the smallest meaningful ICMP payload (MinMTU - HeaderOverhead).
	DefaultFloor = MinMTU - HeaderOverhead

	// DefaultCeiling is the largest payload considered (JumboMTU - HeaderOverhead).
	DefaultCeiling = JumboMTU - HeaderOverhead
)

// SearchRange holds inclusive bounds on candidate payload sizes.
type SearchRange struct {
	Low  int
	High int
}

// Open reports whether candidates remain.
func (r SearchRange) Open() bool {
	return r.Low <= r.High
}

// Midpoint returns the next candidate size.
func (r SearchRange) Midpoint() int {
	return SearchMidpoint(r.Low, r.High)
}

// String returns the range as [low, high].
func (r SearchRange) String() string {
	return fmt.Sprintf("[%d, %d]", r.Low, r.High)
}

// SearchMidpoint calculates the midpoint for binary search MTU discovery.
func SearchMidpoint(low, high int) int {
	return (low + high) / 2
}

// DiscoveryResult is the outcome of a successful discovery run.
type DiscoveryResult struct {
	// PayloadSize is the largest ICMP payload that crossed the path unfragmented
	PayloadSize int

	// HeaderOverhead is added to PayloadSize to obtain the MTU
	HeaderOverhead int
}

// MTU returns the path MTU implied by the result.
func (r DiscoveryResult) MTU() int {
	return r.PayloadSize + r.HeaderOverhead
}

// String returns a formatted string for MTU display.
func (r DiscoveryResult) String() string {
	return fmt.Sprintf("MTU:%d (payload %d + %d)", r.MTU(), r.PayloadSize, r.HeaderOverhead)
}

// IsReduced returns true if the MTU is below the standard 1500 bytes.
func (r DiscoveryResult) IsReduced() bool {
	return r.MTU() < StandardMTU
}

// IsJumbo returns true if the MTU is above the standard 1500 bytes (jumbo frames).
func (r DiscoveryResult) IsJumbo() bool {
	return r.MTU() > StandardMTU
}

// CheckMinimum rejects results whose MTU is below the IPv4 minimum.
func CheckMinimum(r DiscoveryResult) (int, error) {
	mtu := r.MTU()
	if mtu < MinMTU {
		return mtu, fmt.Errorf("%w: %d < %d", ErrAbnormallyLowMTU, mtu, MinMTU)
	}
	return mtu, nil
}

// ParseMTUFromICMP extracts the MTU value from an ICMP Destination Unreachable
// (Fragmentation Needed) message.
//
// ICMP message structure for Type 3, Code 4:
// - Type (1 byte): 3 (Destination Unreachable)
// - Code (1 byte): 4 (Fragmentation Needed and DF set)
// - Checksum (2 bytes)
// - unused (2 bytes)
// - Next-Hop MTU (2 bytes) - big-endian
// - Original IP header + first 8 bytes of original datagram
//
// Returns the MTU value and true if successfully parsed, or 0 and false otherwise.
func ParseMTUFromICMP(data []byte) (int, bool) {
	if len(data) < 8 {
		return 0, false
	}

	if data[0] != 3 || data[1] != 4 {
		return 0, false
	}

	mtu := int(data[6])<<8 | int(data[7])

	// RFC 1191: routers predating the Next-Hop MTU field send zero
	if mtu == 0 {
		return 0, false
	}

	return mtu, true
}
