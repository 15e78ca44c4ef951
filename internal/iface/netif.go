package iface

import (
	"net"
)

// netInterfaces lists interfaces through the standard library, for platforms
// without a netlink equivalent.
func netInterfaces() ([]Interface, error) {
	ifs, err := net.Interfaces()
	if err != nil {
		return nil, err
	}

	out := make([]Interface, 0, len(ifs))
	for _, it := range ifs {
		entry := Interface{
			Name:         it.Name,
			Index:        it.Index,
			MTU:          it.MTU,
			Up:           it.Flags&net.FlagUp != 0,
			Loopback:     it.Flags&net.FlagLoopback != 0,
			HardwareAddr: it.HardwareAddr.String(),
		}

		addrs, _ := it.Addrs()
		for _, a := range addrs {
			if ipnet, ok := a.(*net.IPNet); ok && ipnet.IP.To4() != nil {
				entry.Addrs = append(entry.Addrs, ipnet.String())
			}
		}

		out = append(out, entry)
	}

	sortByIndex(out)
	return out, nil
}
