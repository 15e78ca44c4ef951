//go:build linux

package iface

import (
	"fmt"
	"net"

	"github.com/cenk/backoff"
	"github.com/sirupsen/logrus"
	"github.com/vishvananda/netlink"
)

// maxRetryAttempts bounds retries of LinkSetMTU on transient kernel conflicts.
const maxRetryAttempts = 3

// netlinkManager uses rtnetlink directly instead of shelling out to ip(8).
type netlinkManager struct{}

// NewManager returns the interface manager for this platform.
func NewManager() Manager {
	return &netlinkManager{}
}

func (m *netlinkManager) List() ([]Interface, error) {
	links, err := netlink.LinkList()
	if err != nil {
		return nil, fmt.Errorf("list links failed: %w", err)
	}

	out := make([]Interface, 0, len(links))
	for _, l := range links {
		attrs := l.Attrs()
		entry := Interface{
			Name:     attrs.Name,
			Index:    attrs.Index,
			MTU:      attrs.MTU,
			Up:       attrs.OperState == netlink.OperUp || attrs.Flags&net.FlagUp != 0,
			Loopback: attrs.Flags&net.FlagLoopback != 0,
		}
		if attrs.HardwareAddr != nil {
			entry.HardwareAddr = attrs.HardwareAddr.String()
		}

		addrs, err := netlink.AddrList(l, netlink.FAMILY_V4)
		if err != nil {
			logrus.Debugf("list addresses of %s failed: %v", attrs.Name, err)
		}
		for _, a := range addrs {
			entry.Addrs = append(entry.Addrs, a.IPNet.String())
		}

		out = append(out, entry)
	}

	sortByIndex(out)
	return out, nil
}

// SetMTU is equivalent to `ip link set dev DEV mtu MTU`.
func (m *netlinkManager) SetMTU(name string, mtu int) error {
	attempt := 0
	operation := func() error {
		attempt++

		// Always refetch the link to get current state
		link, err := netlink.LinkByName(name)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("could not lookup link, error: %w, link: %s", err, name))
		}

		err = netlink.LinkSetMTU(link, mtu)
		if err == nil {
			return nil
		}
		if isKernelConflictError(err) {
			logrus.Warnf("Kernel conflict setting MTU on %s (attempt %d/%d): %v. Retrying...",
				name, attempt, maxRetryAttempts, err)
			return err
		}
		return backoff.Permanent(err)
	}

	return backoff.Retry(operation, backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxRetryAttempts))
}
