package display

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/hervehildenbrand/gmtu/pkg/report"
)

// Styles for the TUI
var (
	titleStyle    lipgloss.Style
	headerStyle   lipgloss.Style
	probeStyle    lipgloss.Style
	fitsStyle     lipgloss.Style
	tooLargeStyle lipgloss.Style
	failStyle     lipgloss.Style
	rangeStyle    lipgloss.Style
	statusStyle   lipgloss.Style
	completeStyle lipgloss.Style
	selectedStyle lipgloss.Style
	spinnerStyle  lipgloss.Style
)

func init() {
	SetColor(true)
}

// SetColor switches the TUI styles between colored and plain.
func SetColor(enabled bool) {
	plain := lipgloss.NewStyle()
	if !enabled {
		titleStyle, headerStyle, probeStyle = plain, plain, plain
		fitsStyle, tooLargeStyle, failStyle = plain, plain, plain
		rangeStyle, statusStyle, completeStyle = plain, plain, plain
		selectedStyle, spinnerStyle = plain.Bold(true), plain
		return
	}

	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("205"))

	headerStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("240"))

	probeStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))

	fitsStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("82"))

	tooLargeStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("208"))

	failStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("196"))

	rangeStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("39"))

	statusStyle = lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		Padding(0, 1)

	completeStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("82")).
		Bold(true)

	selectedStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("205")).
		Bold(true)

	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
}

// Range bar characters (eliminated, remaining)
const (
	barWidth      = 50
	barEliminated = '░'
	barRemaining  = '█'
)

// Sparkline characters (from low to high)
var sparkChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// ProbeMsg is sent when a probe has been classified
type ProbeMsg struct {
	Probe report.Probe
}

// CompleteMsg is sent when the search is over
type CompleteMsg struct {
	Report *report.Report
}

// TUIModel is the Bubbletea model for discovery progress
type TUIModel struct {
	mu        sync.RWMutex
	target    string
	targetIP  string
	probes    []report.Probe
	stats     *SearchStats
	result    *report.Report
	complete  bool
	cancelled bool
	cancel    func()
	spinner   spinner.Model
	width     int
	height    int
	startTime time.Time
}

// NewTUIModel creates a new TUI model
func NewTUIModel(target, targetIP string, floor, ceiling int) *TUIModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	return &TUIModel{
		target:    target,
		targetIP:  targetIP,
		probes:    make([]report.Probe, 0),
		stats:     NewSearchStats(floor, ceiling),
		spinner:   s,
		startTime: time.Now(),
	}
}

// AddProbe adds a probe to the model
func (m *TUIModel) AddProbe(p report.Probe) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.probes = append(m.probes, p)
	m.stats.Add(p)
}

// SetComplete marks the search as complete
func (m *TUIModel) SetComplete(r *report.Report) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.complete = true
	m.result = r
}

// Cancelled reports whether the user quit before the search finished.
func (m *TUIModel) Cancelled() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cancelled
}

// Init implements tea.Model
func (m *TUIModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update implements tea.Model
func (m *TUIModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.mu.Lock()
			if !m.complete {
				m.cancelled = true
				if m.cancel != nil {
					m.cancel()
				}
			}
			m.mu.Unlock()
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case ProbeMsg:
		m.AddProbe(msg.Probe)

	case CompleteMsg:
		m.SetComplete(msg.Report)
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model
func (m *TUIModel) View() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var b strings.Builder

	// Title
	title := fmt.Sprintf("gmtu → %s (%s)", m.target, m.targetIP)
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")

	// Header
	header := fmt.Sprintf("%-4s %-7s %-16s %-14s %s",
		"#", "Size", "Range", "Outcome", "Time")
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", 60))
	b.WriteString("\n")

	for _, p := range m.probes {
		b.WriteString(m.formatProbeRow(p))
		b.WriteString("\n")
	}

	// Remaining candidates
	b.WriteString("\n")
	b.WriteString(m.renderRangeBar())
	b.WriteString("\n")
	if graph := renderSparkline(m.stats.WidthHistory, m.stats.Ceiling-m.stats.Floor+1); graph != "" {
		b.WriteString(headerStyle.Render("Narrowing") + " " + graph)
		b.WriteString("\n")
	}
	b.WriteString(strings.Repeat("─", 60))
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())
	b.WriteString("\n")

	switch {
	case m.complete && m.result != nil && m.result.Error == "":
		b.WriteString(completeStyle.Render(fmt.Sprintf("✓ Path MTU %d (payload %d + %d)%s",
			m.result.MTU, m.result.PayloadSize, m.result.Overhead, pathNote(m.result))))
	case m.complete && m.result != nil:
		b.WriteString(failStyle.Render("✗ " + m.result.Error))
	case m.cancelled:
		b.WriteString(failStyle.Render("✗ Cancelled"))
	default:
		b.WriteString(m.spinner.View())
		b.WriteString(" Probing... Press 'q' to cancel")
	}
	b.WriteString("\n")

	return b.String()
}

// formatProbeRow formats a single probe row
func (m *TUIModel) formatProbeRow(p report.Probe) string {
	var b strings.Builder

	b.WriteString(probeStyle.Render(fmt.Sprintf("%-4d %-7d ", p.Seq, p.Size)))
	b.WriteString(rangeStyle.Render(fmt.Sprintf("%-16s ", fmt.Sprintf("[%d, %d]", p.Low, p.High))))
	b.WriteString(outcomeStyle(p.Outcome).Render(fmt.Sprintf("%-14s ", p.Outcome)))

	ms := float64(p.Elapsed) / float64(time.Millisecond)
	b.WriteString(probeStyle.Render(fmt.Sprintf("%.1fms", ms)))

	return b.String()
}

// outcomeStyle picks the style for a probe outcome
func outcomeStyle(outcome string) lipgloss.Style {
	switch outcome {
	case "fits":
		return fitsStyle
	case "too-large":
		return tooLargeStyle
	default:
		return failStyle
	}
}

// renderRangeBar draws the part of [floor, ceiling] still being searched
func (m *TUIModel) renderRangeBar() string {
	s := m.stats
	total := s.Ceiling - s.Floor + 1
	if total <= 0 {
		return ""
	}

	var b strings.Builder
	for i := 0; i < barWidth; i++ {
		// Payload size at the start of this cell
		size := s.Floor + i*total/barWidth
		next := s.Floor + (i+1)*total/barWidth - 1
		if next >= s.Low && size <= s.High && s.Width() > 0 {
			b.WriteRune(barRemaining)
		} else {
			b.WriteRune(barEliminated)
		}
	}

	return rangeStyle.Render(b.String()) + fmt.Sprintf(" %d-%d", s.Floor, s.Ceiling)
}

// renderSparkline draws range widths scaled against the initial width, so a
// converging search reads as a falling line.
func renderSparkline(widths []int, total int) string {
	if len(widths) == 0 || total <= 0 {
		return ""
	}

	var b strings.Builder
	top := len(sparkChars) - 1
	for _, w := range widths {
		idx := w * top / total
		if w > 0 && idx == 0 {
			idx = 1
		}
		if idx > top {
			idx = top
		}
		b.WriteRune(sparkChars[idx])
	}

	return rangeStyle.Render(b.String())
}

// renderStatusBar renders the status bar
func (m *TUIModel) renderStatusBar() string {
	s := m.stats

	parts := []string{
		fmt.Sprintf("Probes: %d", s.Sent),
		fmt.Sprintf("Range: [%d, %d]", s.Low, s.High),
		fmt.Sprintf("Narrowed: %.0f%%", s.Narrowed()*100),
	}
	if s.Best > 0 {
		parts = append(parts, fitsStyle.Render(fmt.Sprintf("Best: %d", s.Best)))
	}
	if s.Indeterminate > 0 {
		parts = append(parts, failStyle.Render(fmt.Sprintf("Indeterminate: %d", s.Indeterminate)))
	}

	if s.Sent > 0 {
		ms := float64(s.AvgElapsed()) / float64(time.Millisecond)
		parts = append(parts, fmt.Sprintf("Avg: %.1fms", ms))
	}

	elapsed := time.Since(m.startTime).Round(time.Millisecond)
	parts = append(parts, fmt.Sprintf("Time: %v", elapsed))

	return statusStyle.Render(strings.Join(parts, " │ "))
}

// RunTUI runs the TUI program until the search completes or the user quits.
// cancel is called when the user quits early; the return value reports that.
func RunTUI(target, targetIP string, floor, ceiling int, probeChan <-chan report.Probe, doneChan <-chan *report.Report, cancel func()) (bool, error) {
	model := NewTUIModel(target, targetIP, floor, ceiling)
	model.cancel = cancel

	p := tea.NewProgram(model)

	// Goroutine to receive probes
	go func() {
		for pr := range probeChan {
			p.Send(ProbeMsg{Probe: pr})
		}
		if r, ok := <-doneChan; ok {
			p.Send(CompleteMsg{Report: r})
		}
	}()

	_, err := p.Run()
	return model.Cancelled(), err
}
