//go:build windows

package iface

// NewManager returns the interface manager for this platform.
func NewManager() Manager {
	return &commandManager{
		list: netInterfaces,
		run:  execRunner,
		argv: netshArgv,
	}
}
