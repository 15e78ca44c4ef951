//go:build windows

package probe

import (
	"errors"

	"golang.org/x/sys/windows"
)

// ipDontFragment is IP_DONTFRAGMENT from ws2ipdef.h.
const ipDontFragment = 14

// setDontFragment sets the Don't Fragment (DF) bit on an IPv4 socket.
func setDontFragment(fd uintptr) error {
	return windows.SetsockoptInt(windows.Handle(fd), windows.IPPROTO_IP, ipDontFragment, 1)
}

// isMessageTooLong reports whether a send failed with WSAEMSGSIZE.
func isMessageTooLong(err error) bool {
	return errors.Is(err, windows.WSAEMSGSIZE)
}
