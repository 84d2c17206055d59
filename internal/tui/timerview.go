package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/fastr/internal/engine"
	"github.com/sadopc/fastr/internal/fasting"
	"github.com/sadopc/fastr/internal/store"
)

type timerModel struct {
	engine *engine.Engine
	store  *store.Store
	width  int
	height int

	state     engine.TimerState
	isLoading bool
	prefs     fasting.Preferences

	// Protocol picker state
	picking      bool
	pickerCursor int

	// Notes / discard forms
	formActive bool
	form       *huh.Form
	formKind   string // "notes", "discard"
	notesVal   *string
	confirmVal *bool

	overallBar progress.Model
	phaseBar   progress.Model
}

func newTimerModel(e *engine.Engine, s *store.Store) timerModel {
	notes := ""
	confirm := false
	return timerModel{
		engine:     e,
		store:      s,
		isLoading:  true,
		prefs:      s.GetPreferences(),
		notesVal:   &notes,
		confirmVal: &confirm,
		overallBar: progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		phaseBar:   progress.New(progress.WithSolidFill("#10B981"), progress.WithoutPercentage()),
	}
}

func (t *timerModel) setSize(w, h int) {
	t.width = w
	t.height = h
	barWidth := w - 24
	if barWidth < 10 {
		barWidth = 10
	}
	t.overallBar.Width = barWidth
	t.phaseBar.Width = barWidth
}

func (t timerModel) isActive() bool { return t.state.IsActive }
func (t timerModel) hasSession() bool {
	return t.state.Session != nil && !t.state.Session.Status.Terminal()
}

// refreshNow forces a recomputation of the derived timer state. The engine
// may auto-complete an expired session as a side effect.
func (t timerModel) refreshNow() (timerModel, tea.Cmd) {
	state, completed, err := t.engine.Refresh()
	t.state = state
	t.isLoading = false

	if err != nil {
		return t, statusCmd(fmt.Sprintf("Error: %v", err), true)
	}
	if completed {
		return t, statusCmd("Fast complete! Well done. \a", false)
	}
	return t, nil
}

func (t timerModel) update(msg tea.Msg) (timerModel, tea.Cmd) {
	if t.formActive && t.form != nil {
		return t.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		// Keep the default protocol and education toggle in sync.
		t.prefs = msg.prefs
		return t, nil

	case tea.KeyMsg:
		if t.picking {
			return t.updatePicker(msg)
		}

		switch {
		case key.Matches(msg, keys.Start):
			if t.hasSession() {
				return t, nil
			}
			t.picking = true
			t.pickerCursor = protocolIndex(t.prefs.DefaultProtocol)
			return t, nil

		case key.Matches(msg, keys.Pause):
			if !t.hasSession() {
				return t, nil
			}
			if t.state.IsPaused {
				return t.runAction(t.engine.ResumeSession, "Fast resumed")
			}
			return t.runAction(t.engine.PauseSession, "Fast paused")

		case key.Matches(msg, keys.Finish):
			if !t.hasSession() {
				return t, nil
			}
			return t.runAction(t.engine.CompleteSession, "Fast completed")

		case key.Matches(msg, keys.Stop):
			if !t.hasSession() {
				return t, nil
			}
			return t.runAction(t.engine.StopSession, "Fast stopped")

		case key.Matches(msg, keys.Cancel):
			if !t.hasSession() {
				return t, nil
			}
			return t.showDiscardForm()

		case key.Matches(msg, keys.Extend):
			if !t.hasSession() {
				return t, nil
			}
			return t.runAction(func() error { return t.engine.ExtendSession(30) }, "Extended by 30 minutes")

		case key.Matches(msg, keys.Notes):
			if !t.hasSession() {
				return t, nil
			}
			return t.showNotesForm()
		}
	}
	return t, nil
}

func (t timerModel) updatePicker(msg tea.KeyMsg) (timerModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if t.pickerCursor > 0 {
			t.pickerCursor--
		}
	case key.Matches(msg, keys.Down):
		if t.pickerCursor < len(fasting.Protocols)-1 {
			t.pickerCursor++
		}
	case key.Matches(msg, keys.Enter):
		protocol := fasting.Protocols[t.pickerCursor]
		t.picking = false
		return t.runAction(
			func() error { return t.engine.StartSession(protocol) },
			fmt.Sprintf("Started %s fast", protocol),
		)
	case key.Matches(msg, keys.Back):
		t.picking = false
	}
	return t, nil
}

// runAction invokes an engine action and forces a recomputation, reporting
// the outcome on the status line.
func (t timerModel) runAction(action func() error, okText string) (timerModel, tea.Cmd) {
	if err := action(); err != nil {
		t, _ = t.refreshNow()
		return t, statusCmd(fmt.Sprintf("Error: %v", err), true)
	}
	t, cmd := t.refreshNow()
	if cmd != nil {
		return t, cmd
	}
	return t, statusCmd(okText, false)
}

func (t timerModel) showNotesForm() (timerModel, tea.Cmd) {
	if t.state.Session != nil {
		*t.notesVal = t.state.Session.Notes
	}
	t.form = huh.NewForm(
		huh.NewGroup(
			huh.NewText().Title("Session notes").Value(t.notesVal),
		),
	).WithShowHelp(true)
	t.formKind = "notes"
	t.formActive = true
	return t, t.form.Init()
}

func (t timerModel) showDiscardForm() (timerModel, tea.Cmd) {
	*t.confirmVal = false
	t.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Discard this fast?").
				Description("The session will be deleted permanently, leaving no record.").
				Value(t.confirmVal),
		),
	).WithShowHelp(true)
	t.formKind = "discard"
	t.formActive = true
	return t, t.form.Init()
}

func (t timerModel) updateForm(msg tea.Msg) (timerModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			t.formActive = false
			t.form = nil
			return t, nil
		}
	}

	form, cmd := t.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		t.form = f
	}

	if t.form.State == huh.StateCompleted {
		t.formActive = false
		switch t.formKind {
		case "notes":
			return t.runAction(
				func() error { return t.engine.UpdateNotes(*t.notesVal) },
				"Notes saved",
			)
		case "discard":
			if *t.confirmVal {
				return t.runAction(t.engine.CancelSession, "Fast discarded")
			}
		}
		return t, nil
	}

	return t, cmd
}

func (t timerModel) view() string {
	w := t.width - 4

	if t.isLoading {
		return panelStyle.Width(w).Render(mutedStyle.Render("Loading..."))
	}

	if t.formActive && t.form != nil {
		return panelStyle.Width(w).Render(t.form.View())
	}

	if !t.hasSession() {
		return t.idleView(w)
	}
	return t.sessionView(w)
}

func (t timerModel) idleView(w int) string {
	title := titleStyle.Render("Ready to fast")

	if t.picking {
		var rows []string
		rows = append(rows, title)
		rows = append(rows, "")
		rows = append(rows, mutedStyle.Render("Choose a protocol:"))
		for i, p := range fasting.Protocols {
			cursor := "  "
			style := normalItemStyle
			if i == t.pickerCursor {
				cursor = "> "
				style = selectedItemStyle
			}
			hours := fasting.ProtocolDurations[p] / 60
			rows = append(rows, style.Render(fmt.Sprintf("%s%-6s %d hours fasting", cursor, p, hours)))
		}
		rows = append(rows, "")
		rows = append(rows, mutedStyle.Render("enter: start  esc: cancel"))
		return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
	}

	hint := mutedStyle.Render(fmt.Sprintf("Press s to start a fast (default %s)", t.prefs.DefaultProtocol))
	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, title, "", hint))
}

func (t timerModel) sessionView(w int) string {
	s := t.state
	session := s.Session

	// Big clock
	clock := clockStyle
	statusLabel := successStyle.Bold(true).Render(fmt.Sprintf("● %s FAST", session.Protocol))
	if s.IsPaused {
		clock = clockPausedStyle
		statusLabel = warningStyle.Bold(true).Render(fmt.Sprintf("⏸ %s FAST (paused)", session.Protocol))
	}
	clockView := clock.Width(w - 6).Render(formatSeconds(s.TimeElapsed))
	remaining := mutedStyle.Render(fmt.Sprintf("%s remaining of %s", formatSeconds(s.TimeRemaining), formatMinutes(session.TargetDuration)))

	// Progress bars
	overall := fmt.Sprintf("%-10s %s %3.0f%%", "Overall", t.overallBar.ViewAs(s.OverallProgress), s.OverallProgress*100)
	phaseRow := fmt.Sprintf("%-10s %s %3.0f%%", "Phase", t.phaseBar.ViewAs(s.PhaseProgress), s.PhaseProgress*100)

	rows := []string{
		statusLabel,
		"",
		clockView,
		lipgloss.NewStyle().Width(w - 6).Align(lipgloss.Center).Render(remaining),
		"",
		overall,
		phaseRow,
	}

	if s.CurrentPhase != nil {
		rows = append(rows, "", t.phaseCard(w, *s.CurrentPhase))
	}
	if next := s.NextPhase; next != nil {
		eta := formatHoursFrac(s.TimeToNextPhase())
		rows = append(rows, mutedStyle.Render(fmt.Sprintf("Next: %s in %s", next.Title, eta)))
	}
	if session.Notes != "" {
		rows = append(rows, "", mutedStyle.Render("Notes: ")+normalItemStyle.Render(session.Notes))
	}

	rows = append(rows, "", mutedStyle.Render("space: pause/resume  f: finish  x: stop  X: discard  +: extend  n: notes"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (t timerModel) phaseCard(w int, phase fasting.PhaseConfig) string {
	title := phaseStyle(phase.Color).Bold(true).Render(strings.ToUpper(phase.Title))
	lines := []string{
		title + "  " + mutedStyle.Render(fasting.MotivationalMessage(phase.Phase)),
		normalItemStyle.Render(phase.Description),
	}
	if t.prefs.EnablePhaseEducation {
		for _, b := range phase.Benefits {
			lines = append(lines, mutedStyle.Render("  • "+b))
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func protocolIndex(p fasting.Protocol) int {
	for i, candidate := range fasting.Protocols {
		if candidate == p {
			return i
		}
	}
	return 0
}

func statusCmd(text string, isError bool) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: text, isError: isError}
	}
}
