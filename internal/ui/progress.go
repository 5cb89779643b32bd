package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"facet/internal/driver"
)

// stageWeight is how far through a unit each stage starts.
var stageWeight = map[driver.Stage]float64{
	driver.StageLoad:     0.1,
	driver.StageMacro:    0.4,
	driver.StageFreeze:   0.7,
	driver.StageTracking: 0.9,
}

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	queuedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	workingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	elapsedStyle = lipgloss.NewStyle().Faint(true)
)

const statusWidth = 12

type unitRow struct {
	path    string
	stage   driver.Stage
	status  driver.Status
	elapsed time.Duration
}

func (r unitRow) finished() bool {
	return r.status == driver.StatusDone || r.status == driver.StatusError
}

func (r unitRow) label() string {
	switch r.status {
	case driver.StatusQueued:
		return "queued"
	case driver.StatusWorking:
		return r.stage.String()
	case driver.StatusDone:
		return "done"
	case driver.StatusError:
		return "error"
	}
	return ""
}

func (r unitRow) style() lipgloss.Style {
	switch r.status {
	case driver.StatusDone:
		return doneStyle
	case driver.StatusError:
		return failedStyle
	case driver.StatusQueued:
		return queuedStyle
	}
	return workingStyle
}

type progressModel struct {
	project string
	events  <-chan driver.Event
	spinner spinner.Model
	bar     progress.Model
	rows    []unitRow
	byPath  map[string]int
	width   int
	closed  bool
}

type eventMsg driver.Event

// closedMsg arrives once the driver has closed the event channel.
type closedMsg struct{}

// NewProgressModel renders one row per compilation unit from driver events.
// Rows appear in the order the driver queues files.
func NewProgressModel(project string, events <-chan driver.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = workingStyle

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 76

	return &progressModel{
		project: project,
		events:  events,
		spinner: sp,
		bar:     bar,
		byPath:  make(map[string]int),
		width:   80,
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.next())
}

func (m *progressModel) next() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return closedMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.apply(driver.Event(msg)), m.next())
	case closedMsg:
		m.closed = true
		return m, tea.Quit
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = msg.Width - 4
		}
	case spinner.TickMsg:
		if !m.closed {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

// apply folds one driver event into the row for its file.
func (m *progressModel) apply(ev driver.Event) tea.Cmd {
	if ev.File == "" {
		return nil
	}
	i, ok := m.byPath[ev.File]
	if !ok {
		i = len(m.rows)
		m.byPath[ev.File] = i
		m.rows = append(m.rows, unitRow{path: ev.File})
	}
	row := &m.rows[i]
	row.stage, row.status = ev.Stage, ev.Status
	if row.finished() {
		row.elapsed = ev.Elapsed
	}
	return m.bar.SetPercent(m.fraction())
}

func (m *progressModel) fraction() float64 {
	if len(m.rows) == 0 {
		return 0
	}
	sum := 0.0
	for _, r := range m.rows {
		if r.finished() {
			sum++
		} else if r.status == driver.StatusWorking {
			sum += stageWeight[r.stage]
		}
	}
	return sum / float64(len(m.rows))
}

func (m *progressModel) counts() (finished, failed int) {
	for _, r := range m.rows {
		if r.finished() {
			finished++
		}
		if r.status == driver.StatusError {
			failed++
		}
	}
	return finished, failed
}

func (m *progressModel) View() string {
	finished, failed := m.counts()
	header := fmt.Sprintf("%s: %d/%d units", m.project, finished, len(m.rows))
	if failed > 0 {
		header += fmt.Sprintf(", %d failed", failed)
	}
	if m.closed {
		header = "done " + header
	} else {
		header = m.spinner.View() + " " + header
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n\n")
	pathWidth := max(m.width-statusWidth-14, 20)
	for _, r := range m.rows {
		fmt.Fprintf(&b, "  %s %s", r.style().Render(fmt.Sprintf("%*s", statusWidth, r.label())), fit(r.path, pathWidth))
		if r.finished() {
			b.WriteString(elapsedStyle.Render(fmt.Sprintf("  %s", r.elapsed.Round(time.Millisecond))))
		}
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	if m.closed {
		b.WriteString(m.bar.ViewAs(1))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteByte('\n')
	return b.String()
}

// fit shortens path to width cells, keeping its tail where the file name is.
func fit(path string, width int) string {
	if width <= 0 || runewidth.StringWidth(path) <= width {
		return path
	}
	if width <= 3 {
		return runewidth.Truncate(path, width, "")
	}
	runes := []rune(path)
	budget, start := width-3, len(runes)
	for start > 0 {
		w := runewidth.RuneWidth(runes[start-1])
		if w > budget {
			break
		}
		budget -= w
		start--
	}
	return "..." + string(runes[start:])
}
