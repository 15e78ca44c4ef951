//go:build !linux && !darwin && !windows

package iface

import "fmt"

type unsupportedManager struct{}

// NewManager returns a manager that can list interfaces but not change them.
func NewManager() Manager {
	return unsupportedManager{}
}

func (unsupportedManager) List() ([]Interface, error) {
	return netInterfaces()
}

func (unsupportedManager) SetMTU(name string, mtu int) error {
	return fmt.Errorf("setting MTU not supported on this OS")
}
