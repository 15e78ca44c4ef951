package iface

import (
	"fmt"
	"os/exec"
	"strings"
)

// Runner executes a command and returns its combined output.
type Runner func(name string, args ...string) ([]byte, error)

func execRunner(name string, args ...string) ([]byte, error) {
	return exec.Command(name, args...).CombinedOutput()
}

// commandManager sets the MTU by running a platform tool.
type commandManager struct {
	list func() ([]Interface, error)
	run  Runner
	argv func(name string, mtu int) []string
}

func (m *commandManager) List() ([]Interface, error) {
	return m.list()
}

func (m *commandManager) SetMTU(name string, mtu int) error {
	argv := m.argv(name, mtu)
	out, err := m.run(argv[0], argv[1:]...)
	if err != nil {
		text := strings.TrimSpace(string(out))
		if text == "" {
			return err
		}
		return fmt.Errorf("%w: %s", err, text)
	}
	return nil
}

// ifconfigArgv is the macOS/BSD form: ifconfig <if> mtu <n>.
func ifconfigArgv(name string, mtu int) []string {
	return []string{"ifconfig", name, "mtu", fmt.Sprintf("%d", mtu)}
}

// netshArgv is the Windows form; store=persistent keeps it across reboots.
func netshArgv(name string, mtu int) []string {
	return []string{"netsh", "interface", "ipv4", "set", "subinterface", name, fmt.Sprintf("mtu=%d", mtu), "store=persistent"}
}
