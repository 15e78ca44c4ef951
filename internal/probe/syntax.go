package probe

import (
	"fmt"
	"strconv"
	"time"
)

// Syntax describes how a platform's ping binary is told to send one echo
// request, optionally with DF set and a given payload size.
type Syntax struct {
	OS     string
	Binary string

	reach func(host string, timeout time.Duration) []string
	probe func(host string, size int, timeout time.Duration) []string
}

// ReachArgs returns the arguments for an unconstrained single ping.
func (s Syntax) ReachArgs(host string, timeout time.Duration) []string {
	return s.reach(host, timeout)
}

// ProbeArgs returns the arguments for a single DF ping of size bytes.
func (s Syntax) ProbeArgs(host string, size int, timeout time.Duration) []string {
	return s.probe(host, size, timeout)
}

// LinuxSyntax uses iputils ping: -M do sets DF, -s the payload size.
var LinuxSyntax = Syntax{
	OS:     "linux",
	Binary: "ping",
	reach: func(host string, timeout time.Duration) []string {
		return []string{"-c", "1", "-W", seconds(timeout), host}
	},
	probe: func(host string, size int, timeout time.Duration) []string {
		return []string{"-c", "1", "-W", seconds(timeout), "-M", "do", "-s", strconv.Itoa(size), host}
	},
}

// BSDSyntax covers macOS and FreeBSD ping: -D sets DF, -t bounds the run.
var BSDSyntax = Syntax{
	OS:     "darwin",
	Binary: "ping",
	reach: func(host string, timeout time.Duration) []string {
		return []string{"-c", "1", "-t", seconds(timeout), host}
	},
	probe: func(host string, size int, timeout time.Duration) []string {
		return []string{"-c", "1", "-t", seconds(timeout), "-D", "-s", strconv.Itoa(size), host}
	},
}

// WindowsSyntax uses ping.exe: -f sets DF, -l the payload size, -w is in ms.
var WindowsSyntax = Syntax{
	OS:     "windows",
	Binary: "ping",
	reach: func(host string, timeout time.Duration) []string {
		return []string{"-n", "1", "-w", strconv.FormatInt(timeout.Milliseconds(), 10), host}
	},
	probe: func(host string, size int, timeout time.Duration) []string {
		return []string{"-n", "1", "-w", strconv.FormatInt(timeout.Milliseconds(), 10), "-f", "-l", strconv.Itoa(size), host}
	},
}

// SyntaxFor returns the ping syntax for the given GOOS.
func SyntaxFor(goos string) (Syntax, error) {
	switch goos {
	case "linux", "android":
		return LinuxSyntax, nil
	case "darwin", "freebsd":
		s := BSDSyntax
		s.OS = goos
		return s, nil
	case "windows":
		return WindowsSyntax, nil
	default:
		return Syntax{}, fmt.Errorf("no ping syntax known for %s", goos)
	}
}

// seconds rounds a timeout up to whole seconds, minimum 1.
func seconds(d time.Duration) string {
	s := int((d + time.Second - 1) / time.Second)
	if s < 1 {
		s = 1
	}
	return strconv.Itoa(s)
}
