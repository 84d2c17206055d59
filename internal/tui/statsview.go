package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/fastr/internal/fasting"
	"github.com/sadopc/fastr/internal/store"
)

type statsModel struct {
	store  *store.Store
	width  int
	height int

	stats    fasting.Stats
	sessions []fasting.Session
	prefs    fasting.Preferences

	chart barchart.Model
}

func newStatsModel(s *store.Store) statsModel {
	return statsModel{
		store: s,
		chart: barchart.New(60, 10),
	}
}

func (m *statsModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m statsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		return statsDataMsg{
			stats:    m.store.GetStats(),
			sessions: m.store.GetAllSessions(),
			prefs:    m.store.GetPreferences(),
		}
	}
}

func (m statsModel) update(msg tea.Msg) (statsModel, tea.Cmd) {
	if msg, ok := msg.(statsDataMsg); ok {
		m.stats = msg.stats
		m.sessions = msg.sessions
		m.prefs = msg.prefs
		m.buildChart()
		return m, nil
	}
	return m, nil
}

// buildChart plots fasted hours per calendar day over the last week.
func (m *statsModel) buildChart() {
	chartWidth := m.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	m.chart = barchart.New(chartWidth, 10)

	perDay := make(map[string]float64)
	for _, s := range m.sessions {
		if s.EndTime == nil {
			continue
		}
		day := s.StartTime.Local().Format("2006-01-02")
		perDay[day] += float64(s.ActualDuration) / 60.0
	}

	now := time.Now()
	var bars []barchart.BarData
	for i := 6; i >= 0; i-- {
		d := now.AddDate(0, 0, -i)
		day := d.Format("2006-01-02")
		hours := perDay[day]
		style := lipgloss.NewStyle().Foreground(colorPrimary)
		if hours == 0 {
			style = lipgloss.NewStyle().Foreground(colorSubtle)
		}
		bars = append(bars, barchart.BarData{
			Label: d.Format("Mon"),
			Values: []barchart.BarValue{
				{Name: "fasted", Value: hours, Style: style},
			},
		})
	}

	m.chart.PushAll(bars)
	m.chart.Draw()
}

func (m statsModel) view() string {
	w := m.width - 4

	title := titleStyle.Render("Statistics")

	summary := m.renderSummary(w)
	goal := m.renderGoal()

	chartTitle := mutedStyle.Render("Fasted hours, last 7 days")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			title, "", summary, "", goal, "", chartTitle, m.chart.View(),
		),
	)
}

func (m statsModel) renderSummary(w int) string {
	st := m.stats

	left := []string{
		statLine("Total fasts", fmt.Sprintf("%d", st.TotalSessions)),
		statLine("Total fasted", formatMinutes(st.TotalDuration)),
		statLine("Average fast", formatMinutes(int(st.AverageDuration))),
		statLine("Completion", fmt.Sprintf("%.0f%%", st.CompletionRate*100)),
	}

	right := []string{
		statLine("Favorite", string(st.FavoriteProtocol)),
	}
	if m.prefs.EnableStreakCounter {
		right = append(right,
			statLine("Streak", fmt.Sprintf("%d days", st.CurrentStreak)),
			statLine("Best streak", fmt.Sprintf("%d days", st.LongestStreak)),
		)
	}
	if st.LastSession != nil {
		right = append(right, statLine("Last fast", st.LastSession.StartTime.Local().Format("Jan 02")))
	}

	leftCol := lipgloss.JoinVertical(lipgloss.Left, left...)
	rightCol := lipgloss.JoinVertical(lipgloss.Left, right...)
	gap := strings.Repeat(" ", max(2, w/10))
	return lipgloss.JoinHorizontal(lipgloss.Top, leftCol, gap, rightCol)
}

// renderGoal shows progress toward the weekly session goal.
func (m statsModel) renderGoal() string {
	goal := m.prefs.FastingGoal
	if goal <= 0 {
		return ""
	}

	weekAgo := time.Now().AddDate(0, 0, -7)
	done := 0
	for _, s := range m.sessions {
		if s.EndTime != nil && s.StartTime.After(weekAgo) {
			done++
		}
	}

	filled := min(done, goal)
	dots := successStyle.Render(strings.Repeat("● ", filled)) +
		mutedStyle.Render(strings.Repeat("○ ", goal-filled))
	label := fmt.Sprintf("Weekly goal  %s %d/%d", dots, done, goal)
	if done >= goal {
		return label + "  " + successStyle.Render("reached!")
	}
	return label
}

func statLine(label, value string) string {
	return fmt.Sprintf("%s %s", mutedStyle.Width(14).Render(label), highlightStyle.Render(value))
}
