//go:build windows

package probe

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/sys/windows"
)

// CheckPrivileges verifies that the process runs as Administrator, which raw
// ICMP sockets require on Windows.
func CheckPrivileges() error {
	if IsAdmin() {
		return nil
	}

	return fmt.Errorf("the socket mechanism requires Administrator privileges.\n\nRun as Administrator: runas /user:Administrator %s\nor use --mechanism command", strings.Join(os.Args, " "))
}

// HasNetRawCapability is always false on Windows (capabilities are a Linux concept).
func HasNetRawCapability() bool {
	return false
}

// IsAdmin checks if the current process is a member of the Administrators group.
// Applying an MTU with netsh needs the same elevation.
func IsAdmin() bool {
	var sid *windows.SID

	err := windows.AllocateAndInitializeSid(
		&windows.SECURITY_NT_AUTHORITY,
		2,
		windows.SECURITY_BUILTIN_DOMAIN_RID,
		windows.DOMAIN_ALIAS_RID_ADMINS,
		0, 0, 0, 0, 0, 0,
		&sid,
	)
	if err != nil {
		return false
	}
	defer windows.FreeSid(sid)

	token := windows.Token(0) // Current process token
	member, err := token.IsMember(sid)
	if err != nil {
		return false
	}

	return member
}
