//go:build darwin

package probe

import (
	"errors"

	"golang.org/x/sys/unix"
)

// ipDontFrag is IP_DONTFRAG from <netinet/in.h>.
const ipDontFrag = 28

// setDontFragment sets the Don't Fragment (DF) bit on an IPv4 socket.
// On macOS/BSD this uses IP_DONTFRAG (28).
func setDontFragment(fd uintptr) error {
	return unix.SetsockoptInt(int(fd), unix.IPPROTO_IP, ipDontFrag, 1)
}

// isMessageTooLong reports whether a send failed because the datagram
// exceeds the interface MTU.
func isMessageTooLong(err error) bool {
	return errors.Is(err, unix.EMSGSIZE)
}
