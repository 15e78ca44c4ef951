package display

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/hervehildenbrand/gmtu/internal/iface"
)

// PromptInterface asks for an interface by number or name on a plain
// terminal. An empty answer cancels. in is shared with later prompts, so
// only one line is consumed per answer.
func PromptInterface(in *bufio.Reader, out io.Writer, ifaces []iface.Interface, mtu int) (iface.Interface, error) {
	if len(ifaces) == 0 {
		return iface.Interface{}, errors.New("no interfaces to choose from")
	}

	fmt.Fprintf(out, "Apply MTU %d to which interface?\n", mtu)
	for i, ifc := range ifaces {
		fmt.Fprintf(out, "  %d) %s\n", i+1, ifc)
	}

	for {
		fmt.Fprintf(out, "Select [1-%d]: ", len(ifaces))
		answer, err := readLine(in)
		if err != nil {
			return iface.Interface{}, err
		}
		if answer == "" {
			return iface.Interface{}, ErrSelectionCancelled
		}

		if n, err := strconv.Atoi(answer); err == nil {
			if n >= 1 && n <= len(ifaces) {
				return ifaces[n-1], nil
			}
		} else if ifc, ok := iface.Find(ifaces, answer); ok {
			return ifc, nil
		}

		fmt.Fprintf(out, "Invalid selection %q\n", answer)
	}
}

// Confirm asks a yes/no question. Anything but y or yes is a no.
func Confirm(in *bufio.Reader, out io.Writer, question string) (bool, error) {
	fmt.Fprintf(out, "%s [y/N]: ", question)

	answer, err := readLine(in)
	if err != nil {
		return false, err
	}

	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// readLine returns the next trimmed line. EOF reads as an empty answer.
func readLine(in *bufio.Reader) (string, error) {
	line, err := in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
