package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/fastr/internal/fasting"
	"github.com/sadopc/fastr/internal/store"
)

type historyModel struct {
	store  *store.Store
	width  int
	height int

	sessions []fasting.Session
	cursor   int
}

func newHistoryModel(s *store.Store) historyModel {
	return historyModel{store: s}
}

func (h *historyModel) setSize(w, height int) {
	h.width = w
	h.height = height
}

// refresh reloads the collection, newest first. Storage order is not
// chronological, so the view sorts explicitly.
func (h historyModel) refresh() tea.Cmd {
	return func() tea.Msg {
		sessions := h.store.GetAllSessions()
		sort.Slice(sessions, func(i, j int) bool {
			return sessions[i].StartTime.After(sessions[j].StartTime)
		})
		return historyDataMsg{sessions: sessions}
	}
}

func (h historyModel) update(msg tea.Msg) (historyModel, tea.Cmd) {
	switch msg := msg.(type) {
	case historyDataMsg:
		h.sessions = msg.sessions
		if h.cursor >= len(h.sessions) {
			h.cursor = len(h.sessions) - 1
		}
		if h.cursor < 0 {
			h.cursor = 0
		}
		return h, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if h.cursor > 0 {
				h.cursor--
			}
		case key.Matches(msg, keys.Down):
			if h.cursor < len(h.sessions)-1 {
				h.cursor++
			}
		case key.Matches(msg, keys.Delete):
			if len(h.sessions) == 0 {
				return h, nil
			}
			id := h.sessions[h.cursor].ID
			if err := h.store.DeleteSession(id); err != nil {
				return h, statusCmd(fmt.Sprintf("Error: %v", err), true)
			}
			return h, tea.Batch(h.refresh(), statusCmd("Session deleted", false))
		}
	}
	return h, nil
}

func (h historyModel) view() string {
	w := h.width - 4

	title := titleStyle.Render("Fasting History")

	if len(h.sessions) == 0 {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", mutedStyle.Render("No fasts recorded yet.")),
		)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	header := mutedStyle.Render(fmt.Sprintf("  %-12s %-6s %-10s %10s %10s", "Date", "Proto", "Status", "Target", "Fasted"))
	rows = append(rows, header)
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 54))))

	visible := h.height - 10
	if visible < 3 {
		visible = 3
	}
	start := 0
	if h.cursor >= visible {
		start = h.cursor - visible + 1
	}

	for i := start; i < len(h.sessions) && i < start+visible; i++ {
		s := h.sessions[i]
		cursor := "  "
		style := normalItemStyle
		if i == h.cursor {
			cursor = "> "
			style = selectedItemStyle
		}

		row := fmt.Sprintf("%s%-12s %-6s %s %10s %10s",
			cursor,
			s.StartTime.Local().Format("Jan 02 15:04"),
			s.Protocol,
			statusBadge(s.Status),
			formatMinutes(s.TargetDuration),
			formatMinutes(s.ActualDuration),
		)
		rows = append(rows, style.Render(row))
		if i == h.cursor && s.Notes != "" {
			rows = append(rows, mutedStyle.Render("    "+s.Notes))
		}
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  d: delete  ↑/↓: navigate"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func statusBadge(s fasting.Status) string {
	switch s {
	case fasting.StatusCompleted:
		return successStyle.Render(fmt.Sprintf("%-10s", "completed"))
	case fasting.StatusCancelled:
		return errorStyle.Render(fmt.Sprintf("%-10s", "stopped"))
	case fasting.StatusActive:
		return accentStyle.Render(fmt.Sprintf("%-10s", "active"))
	case fasting.StatusPaused:
		return warningStyle.Render(fmt.Sprintf("%-10s", "paused"))
	default:
		return mutedStyle.Render(fmt.Sprintf("%-10s", string(s)))
	}
}
