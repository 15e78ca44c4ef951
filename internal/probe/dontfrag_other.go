//go:build !linux && !darwin && !windows

package probe

import "errors"

func setDontFragment(fd uintptr) error {
	return errors.New("setting don't fragment bit not supported on this OS")
}

func isMessageTooLong(err error) bool {
	return false
}
