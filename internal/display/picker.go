package display

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/hervehildenbrand/gmtu/internal/iface"
)

// ErrSelectionCancelled is returned when the user leaves a prompt without choosing.
var ErrSelectionCancelled = errors.New("interface selection cancelled")

// PickerModel is the Bubbletea model for choosing the interface to update.
type PickerModel struct {
	ifaces    []iface.Interface
	mtu       int
	cursor    int
	chosen    int
	cancelled bool
}

// NewPickerModel creates a picker over ifaces for the given MTU.
func NewPickerModel(ifaces []iface.Interface, mtu int) *PickerModel {
	return &PickerModel{
		ifaces: ifaces,
		mtu:    mtu,
		chosen: -1,
	}
}

// Init implements tea.Model
func (m *PickerModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m *PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.ifaces)-1 {
			m.cursor++
		}
	case "enter":
		if len(m.ifaces) > 0 {
			m.chosen = m.cursor
		}
		return m, tea.Quit
	case "q", "esc", "ctrl+c":
		m.cancelled = true
		return m, tea.Quit
	}

	return m, nil
}

// View implements tea.Model
func (m *PickerModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("Apply MTU %d to which interface?", m.mtu)))
	b.WriteString("\n\n")

	for i, ifc := range m.ifaces {
		line := ifc.String()
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString(probeStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(headerStyle.Render("↑/↓ move • enter select • q cancel"))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the chosen interface.
func (m *PickerModel) Selected() (iface.Interface, error) {
	if m.cancelled || m.chosen < 0 || m.chosen >= len(m.ifaces) {
		return iface.Interface{}, ErrSelectionCancelled
	}
	return m.ifaces[m.chosen], nil
}

// RunPicker shows the interactive interface picker.
func RunPicker(ifaces []iface.Interface, mtu int) (iface.Interface, error) {
	if len(ifaces) == 0 {
		return iface.Interface{}, errors.New("no interfaces to choose from")
	}

	model := NewPickerModel(ifaces, mtu)
	if _, err := tea.NewProgram(model).Run(); err != nil {
		return iface.Interface{}, fmt.Errorf("TUI error: %w", err)
	}
	return model.Selected()
}
