// Package probe implements the probe mechanisms used for path MTU discovery.
package probe

import (
	"errors"
	"fmt"
	"net"
	"runtime"
	"time"

	"github.com/hervehildenbrand/gmtu/internal/pmtu"
)

// Kind selects a probe mechanism.
type Kind string

const (
	// KindCommand runs the platform ping binary.
	KindCommand Kind = "command"
	// KindSocket sends ICMP echo requests on a raw socket with DF set.
	KindSocket Kind = "socket"
)

// Config holds probe mechanism configuration.
type Config struct {
	Kind    Kind
	Timeout time.Duration // per probe
	GOOS    string        // platform whose ping syntax is used
}

// DefaultConfig returns the default mechanism configuration.
func DefaultConfig() *Config {
	return &Config{
		Kind:    KindCommand,
		Timeout: 2 * time.Second,
		GOOS:    runtime.GOOS,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	switch c.Kind {
	case KindCommand, KindSocket:
	default:
		return fmt.Errorf("invalid mechanism %q: must be command or socket", c.Kind)
	}

	if c.Timeout <= 0 {
		return errors.New("timeout must be positive")
	}

	return nil
}

// New creates the mechanism selected by the configuration.
func New(cfg *Config) (pmtu.Mechanism, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	switch cfg.Kind {
	case KindCommand:
		syntax, err := SyntaxFor(cfg.GOOS)
		if err != nil {
			return nil, err
		}
		return NewCommandMechanism(syntax, cfg.Timeout), nil
	case KindSocket:
		if err := CheckPrivileges(); err != nil {
			return nil, err
		}
		return NewSocketMechanism(cfg.Timeout), nil
	default:
		return nil, fmt.Errorf("unsupported mechanism: %s", cfg.Kind)
	}
}

// ResolveTarget resolves a hostname or IP string to an IPv4 address.
func ResolveTarget(target string) (net.IP, error) {
	if ip := net.ParseIP(target); ip != nil {
		if ip4 := ip.To4(); ip4 != nil {
			return ip4, nil
		}
		return nil, fmt.Errorf("%s is not an IPv4 address", target)
	}

	ips, err := net.LookupIP(target)
	if err != nil {
		return nil, err
	}

	for _, ip := range ips {
		if ip4 := ip.To4(); ip4 != nil {
			return ip4, nil
		}
	}

	return nil, errors.New("no IPv4 addresses found for hostname")
}
