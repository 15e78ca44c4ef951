//go:build linux

package probe

import (
	"errors"

	"golang.org/x/sys/unix"
)

// setDontFragment sets the Don't Fragment (DF) bit on an IPv4 socket.
// On Linux this uses IP_MTU_DISCOVER with IP_PMTUDISC_DO, which also makes
// oversized sends fail locally with EMSGSIZE.
func setDontFragment(fd uintptr) error {
	return unix.SetsockoptInt(int(fd), unix.IPPROTO_IP, unix.IP_MTU_DISCOVER, unix.IP_PMTUDISC_DO)
}

// isMessageTooLong reports whether a send failed because the datagram
// exceeds the known path or interface MTU.
func isMessageTooLong(err error) bool {
	return errors.Is(err, unix.EMSGSIZE)
}
