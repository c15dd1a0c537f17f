package ui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/a-aigner/mtb-timetracking/internal/race"
)

// displayInterval is how often the live clocks refresh. Each tick only reads
// timer snapshots; it never mutates the session.
const displayInterval = 100 * time.Millisecond

const recentEntryCount = 8

// Model owns Bubble Tea state for the live timing screen.
type Model struct {
	sess  *race.Session
	input textinput.Model

	mode     mode
	selected int

	// Pending ambiguous entry awaiting a category pick.
	candidates []string
	pendingID  string
	pendingAt  time.Time

	now        time.Time
	statusLine string
	warnLine   string
	errorLine  string
	width      int
}

type mode uint8

const (
	modeNormal mode = iota
	modePickCategory
)

type tickMsg time.Time

// NewModel seeds the timing screen with the session it drives.
func NewModel(sess *race.Session) Model {
	input := textinput.New()
	input.Placeholder = "type participant ID, press enter"
	input.Prompt = "ID> "
	input.CharLimit = 32
	input.Focus()

	return Model{
		sess:       sess,
		input:      input,
		now:        time.Now(),
		statusLine: "Ready.",
	}
}

// Init starts the display clock.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tick())
}

func tick() tea.Cmd {
	return tea.Tick(displayInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update wires TUI state transitions from keys and the display clock.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.now = time.Time(msg)
		return m, tick()
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.mode == modePickCategory {
		return m.handlePickKey(msg)
	}

	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit
	case "enter":
		return m.submit()
	case "tab":
		if n := len(m.sess.CategoryNames()); n > 0 {
			m.selected = (m.selected + 1) % n
		}
		return m, nil
	case "ctrl+s":
		return m.startSelected()
	case "ctrl+x":
		return m.stopSelected()
	case "ctrl+z":
		return m.undo()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handlePickKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key := msg.String(); key {
	case "esc":
		m.mode = modeNormal
		m.candidates = nil
		m.statusLine = "Entry discarded."
		m.warnLine = ""
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	default:
		n, err := strconv.Atoi(key)
		if err != nil || n < 1 || n > len(m.candidates) {
			return m, nil
		}
		entry, recErr := m.sess.RecordIn(m.candidates[n-1], m.pendingID, m.pendingAt)
		m.mode = modeNormal
		m.candidates = nil
		m.warnLine = ""
		if recErr != nil {
			m.errorLine = recErr.Error()
			return m, nil
		}
		m.statusLine = "Recorded " + m.describe(entry)
		return m, nil
	}
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	rawID := strings.TrimSpace(m.input.Value())
	if rawID == "" {
		return m, nil
	}
	m.input.SetValue("")
	m.errorLine = ""
	m.warnLine = ""

	at := time.Now()
	entry, res, err := m.sess.Record(rawID, at)
	if err != nil {
		m.errorLine = err.Error()
		return m, nil
	}

	if res.Kind == race.Ambiguous && entry.ID == "" {
		m.mode = modePickCategory
		m.candidates = res.Candidates
		m.pendingID = rawID
		m.pendingAt = at
		return m, nil
	}

	if entry.Status == race.StatusUnresolved {
		m.warnLine = fmt.Sprintf("ID %s not found in any roster; recorded against %s", rawID, entry.Category)
	}
	m.statusLine = "Recorded " + m.describe(entry)
	return m, nil
}

func (m Model) startSelected() (tea.Model, tea.Cmd) {
	name, ok := m.selectedCategory()
	if !ok {
		return m, nil
	}
	started, err := m.sess.StartTimer(name, time.Now())
	switch {
	case err != nil:
		m.errorLine = err.Error()
	case !started:
		m.warnLine = fmt.Sprintf("Timer for %s already ran; start ignored", name)
	default:
		m.statusLine = "Started " + name
		m.errorLine = ""
	}
	return m, nil
}

func (m Model) stopSelected() (tea.Model, tea.Cmd) {
	name, ok := m.selectedCategory()
	if !ok {
		return m, nil
	}
	stopped, err := m.sess.StopTimer(name, time.Now())
	switch {
	case err != nil:
		m.errorLine = err.Error()
	case !stopped:
		m.warnLine = fmt.Sprintf("Timer for %s is not running; stop ignored", name)
	default:
		m.statusLine = "Stopped " + name
		m.errorLine = ""
	}
	return m, nil
}

func (m Model) undo() (tea.Model, tea.Cmd) {
	if err := m.sess.Undo(); err != nil {
		m.errorLine = err.Error()
		return m, nil
	}
	m.statusLine = "Undone."
	m.errorLine = ""
	return m, nil
}

func (m Model) selectedCategory() (string, bool) {
	names := m.sess.CategoryNames()
	if len(names) == 0 {
		return "", false
	}
	if m.selected >= len(names) {
		m.selected = 0
	}
	return names[m.selected], true
}

// describe renders an entry for the status line, with the participant name
// when the ID resolved.
func (m Model) describe(e race.Entry) string {
	elapsed := ""
	if d, err := m.sess.Elapsed(e); err == nil {
		elapsed = " - " + race.FormatDuration(d)
	}
	return fmt.Sprintf("%s in %s%s", e.RawID, e.Category, elapsed)
}

// View renders the full screen: clocks, input, status, recent entries.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("MTB TimeTracker - " + sessionTitle(m.sess)))
	b.WriteString("\n\n")

	b.WriteString(categoryHeaderStyle.Render("Categories"))
	b.WriteString("\n")
	statuses := m.sess.CategoryStatuses(m.now)
	if len(statuses) == 0 {
		b.WriteString(idleStyle.Render("  (none loaded - run \"mtbtimer load\" first)"))
		b.WriteString("\n")
	}
	for i, st := range statuses {
		marker := "  "
		if i == m.selected {
			marker = selectedMarkerStyle.Render("> ")
		}
		b.WriteString(marker + categoryLine(st))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if m.mode == modePickCategory {
		b.WriteString(promptStyle.Render(fmt.Sprintf("ID %s is in several categories - pick one:", m.pendingID)))
		b.WriteString("\n")
		for i, name := range m.candidates {
			b.WriteString(fmt.Sprintf("  %d. %s\n", i+1, name))
		}
		b.WriteString(helpStyle.Render("press 1-" + strconv.Itoa(len(m.candidates)) + ", esc to discard"))
		b.WriteString("\n")
	} else {
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch {
	case m.errorLine != "":
		b.WriteString(errorStyle.Render(m.errorLine))
		b.WriteString("\n")
	case m.warnLine != "":
		b.WriteString(warningStyle.Render(m.warnLine))
		b.WriteString("\n")
	case m.statusLine != "":
		b.WriteString(statusStyle.Render(m.statusLine))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(categoryHeaderStyle.Render("Recent entries"))
	b.WriteString("\n")
	recent := m.sess.RecentEntries(recentEntryCount)
	if len(recent) == 0 {
		b.WriteString(idleStyle.Render("  (none yet)"))
		b.WriteString("\n")
	}
	for _, e := range recent {
		style := entryStyle
		if e.Status == race.StatusDNF {
			style = dnfStyle
		}
		b.WriteString("  " + style.Render(m.entryLine(e)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter record | tab select | ctrl+s start | ctrl+x stop | ctrl+z undo | esc quit"))
	b.WriteString("\n")

	return b.String()
}

func categoryLine(st race.CategoryStatus) string {
	clock := race.FormatClock(st.Elapsed)
	switch st.State {
	case race.TimerRunning:
		return fmt.Sprintf("%-16s %s  %d/%d", st.Name, runningStyle.Render(clock), st.Finished, st.Total)
	case race.TimerStopped:
		return fmt.Sprintf("%-16s %s  %d/%d", st.Name, stoppedStyle.Render(clock+" (stopped)"), st.Finished, st.Total)
	default:
		return fmt.Sprintf("%-16s %s  0/%d", st.Name, idleStyle.Render("not started"), st.Total)
	}
}

func (m Model) entryLine(e race.Entry) string {
	elapsed := "--:--:--.---"
	if d, err := m.sess.Elapsed(e); err == nil {
		elapsed = race.FormatDuration(d)
	}
	line := fmt.Sprintf("%s  %s  %-12s %s", e.FinishedAt.Format("15:04:05"), elapsed, e.Category, e.RawID)
	if e.Status != race.StatusNormal {
		line += "  [" + e.Status.String() + "]"
	}
	return line
}

func sessionTitle(sess *race.Session) string {
	if name := sess.Name(); name != "" {
		return name
	}
	return sess.CreatedAt().Format("2006-01-02 15:04")
}
