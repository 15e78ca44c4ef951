// Package iface enumerates local network interfaces and applies MTU values.
package iface

import (
	"fmt"
	"sort"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/sirupsen/logrus"
)

// Largest MTU an interface can be given (IPv4 total length field).
const MaxMTU = 65535

// minMTU is the IPv4 minimum (RFC 791).
const minMTU = 68

// Interface describes one local network interface.
type Interface struct {
	Name         string   `json:"name"`
	Index        int      `json:"index"`
	MTU          int      `json:"mtu"`
	Up           bool     `json:"up"`
	Loopback     bool     `json:"loopback"`
	HardwareAddr string   `json:"hardware_addr,omitempty"`
	Addrs        []string `json:"addrs,omitempty"`
}

// String returns a one-line summary of the interface.
func (i Interface) String() string {
	state := "down"
	if i.Up {
		state = "up"
	}
	addrs := "-"
	if len(i.Addrs) > 0 {
		addrs = strings.Join(i.Addrs, ", ")
	}
	return fmt.Sprintf("%-16s mtu %-5d %-4s %s", i.Name, i.MTU, state, addrs)
}

// Manager lists interfaces and changes their MTU on the local host.
type Manager interface {
	// List returns the addressable interfaces, ordered by index.
	List() ([]Interface, error)

	// SetMTU changes the MTU of the named interface.
	SetMTU(name string, mtu int) error
}

// ValidateMTU checks that mtu is a legal IPv4 interface MTU.
func ValidateMTU(mtu int) error {
	if mtu < minMTU || mtu > MaxMTU {
		return fmt.Errorf("MTU %d is not in range [%d..%d]", mtu, minMTU, MaxMTU)
	}
	return nil
}

// Names returns the set of interface names.
func Names(ifaces []Interface) mapset.Set[string] {
	names := mapset.NewSet[string]()
	for _, i := range ifaces {
		names.Add(i.Name)
	}
	return names
}

// Find returns the interface with the given name.
func Find(ifaces []Interface, name string) (Interface, bool) {
	for _, i := range ifaces {
		if i.Name == name {
			return i, true
		}
	}
	return Interface{}, false
}

// Apply validates the interface name and MTU, then sets the MTU once.
// Returns the interface's previous MTU.
func Apply(m Manager, name string, mtu int) (int, error) {
	if err := ValidateMTU(mtu); err != nil {
		return 0, err
	}

	ifaces, err := m.List()
	if err != nil {
		return 0, fmt.Errorf("failed to list interfaces: %w", err)
	}

	if !Names(ifaces).Contains(name) {
		known := Names(ifaces).ToSlice()
		sort.Strings(known)
		return 0, fmt.Errorf("interface %q not found (available: %s)", name, strings.Join(known, ", "))
	}

	current, _ := Find(ifaces, name)
	if current.MTU == mtu {
		logrus.Debugf("interface %s already has MTU %d", name, mtu)
		return current.MTU, nil
	}

	logrus.Infof("Setting MTU of %s from %d to %d", name, current.MTU, mtu)
	if err := m.SetMTU(name, mtu); err != nil {
		return current.MTU, fmt.Errorf("failed to set MTU %d on %s: %w", mtu, name, err)
	}

	return current.MTU, nil
}

func sortByIndex(ifaces []Interface) {
	sort.Slice(ifaces, func(a, b int) bool {
		return ifaces[a].Index < ifaces[b].Index
	})
}
