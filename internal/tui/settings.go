package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/fastr/internal/fasting"
	"github.com/sadopc/fastr/internal/store"
)

type settingsModel struct {
	store  *store.Store
	width  int
	height int

	prefs      fasting.Preferences
	formActive bool
	form       *huh.Form
	formKind   string // "edit", "reset"

	// Form values as pointers (survive value copies)
	protocol      *string
	notifications *bool
	notifyTimes   *string
	education     *bool
	streaks       *bool
	goal          *string
	resetConfirm  *bool
}

func newSettingsModel(s *store.Store) settingsModel {
	protocol, times, goal := "", "", ""
	notifications, education, streaks, reset := false, false, false, false
	return settingsModel{
		store:         s,
		prefs:         s.GetPreferences(),
		protocol:      &protocol,
		notifications: &notifications,
		notifyTimes:   &times,
		education:     &education,
		streaks:       &streaks,
		goal:          &goal,
		resetConfirm:  &reset,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

func (s settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		return settingsDataMsg{prefs: s.store.GetPreferences()}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		s.prefs = msg.prefs
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter):
			return s.showEditForm()
		case key.Matches(msg, keys.Delete):
			return s.showResetForm()
		}
	}
	return s, nil
}

func (s settingsModel) showEditForm() (settingsModel, tea.Cmd) {
	*s.protocol = string(s.prefs.DefaultProtocol)
	*s.notifications = s.prefs.EnableNotifications
	*s.notifyTimes = joinInts(s.prefs.NotificationTimes)
	*s.education = s.prefs.EnablePhaseEducation
	*s.streaks = s.prefs.EnableStreakCounter
	*s.goal = strconv.Itoa(s.prefs.FastingGoal)

	var protocolOptions []huh.Option[string]
	for _, p := range fasting.Protocols {
		protocolOptions = append(protocolOptions, huh.NewOption(string(p), string(p)))
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Default protocol").
				Options(protocolOptions...).Value(s.protocol),
			huh.NewInput().Title("Weekly goal (fasts per week)").Value(s.goal),
		).Title("Fasting"),
		huh.NewGroup(
			huh.NewConfirm().Title("Enable notifications").Value(s.notifications),
			huh.NewInput().Title("Notification hours (comma-separated)").Value(s.notifyTimes),
			huh.NewConfirm().Title("Show phase education").Value(s.education),
			huh.NewConfirm().Title("Show streak counter").Value(s.streaks),
		).Title("Display & Notifications"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formKind = "edit"
	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) showResetForm() (settingsModel, tea.Cmd) {
	*s.resetConfirm = false
	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Clear all fasting data?").
				Description("Sessions, the running fast and stats are removed. Preferences are kept.").
				Value(s.resetConfirm),
		),
	).WithShowHelp(true)
	s.formKind = "reset"
	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		switch s.formKind {
		case "edit":
			if err := s.savePreferences(); err != nil {
				return s, tea.Batch(s.refresh(), statusCmd(fmt.Sprintf("Error: %v", err), true))
			}
			return s, tea.Batch(s.refresh(), statusCmd("Preferences saved", false))
		case "reset":
			if *s.resetConfirm {
				if err := s.store.ClearAllData(); err != nil {
					return s, statusCmd(fmt.Sprintf("Error: %v", err), true)
				}
				return s, tea.Batch(s.refresh(), statusCmd("All fasting data cleared", false))
			}
		}
		return s, nil
	}

	return s, cmd
}

func (s settingsModel) savePreferences() error {
	prefs := s.prefs
	if p := fasting.Protocol(*s.protocol); p.Valid() {
		prefs.DefaultProtocol = p
	}
	prefs.EnableNotifications = *s.notifications
	prefs.NotificationTimes = parseInts(*s.notifyTimes, prefs.NotificationTimes)
	prefs.EnablePhaseEducation = *s.education
	prefs.EnableStreakCounter = *s.streaks
	if goal, err := strconv.Atoi(strings.TrimSpace(*s.goal)); err == nil && goal > 0 {
		prefs.FastingGoal = goal
	}

	return s.store.SavePreferences(prefs)
}

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		title := titleStyle.Render("Settings")
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View()),
		)
	}

	title := titleStyle.Render("Settings")

	rows := []string{
		title,
		"",
		settingRow("Default protocol", string(s.prefs.DefaultProtocol)),
		settingRow("Weekly goal", fmt.Sprintf("%d fasts", s.prefs.FastingGoal)),
		settingRow("Notifications", onOff(s.prefs.EnableNotifications)),
		settingRow("Notification hours", joinInts(s.prefs.NotificationTimes)),
		settingRow("Phase education", onOff(s.prefs.EnablePhaseEducation)),
		settingRow("Streak counter", onOff(s.prefs.EnableStreakCounter)),
		"",
		mutedStyle.Render("enter: edit  d: clear all data"),
	}

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func settingRow(label, value string) string {
	return fmt.Sprintf("  %s %s", lipgloss.NewStyle().Width(24).Render(label), highlightStyle.Render(value))
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

func parseInts(raw string, fallback []int) []int {
	var out []int
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.Atoi(part)
		if err != nil {
			return fallback
		}
		out = append(out, v)
	}
	if out == nil {
		return fallback
	}
	return out
}
