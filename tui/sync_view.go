// ABOUTME: TUI tab for import sync status and manual lead imports
// ABOUTME: Lists sync_state rows and runs the configured importer in the background
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/crmcore/db"
	gsync "github.com/harperreed/crmcore/sync"
)

var (
	syncHeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Underline(true)

	syncServiceStyle = lipgloss.NewStyle().
				Bold(true).
				Width(18)

	syncIdleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	syncSyncingStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)

	syncErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))

	syncMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Italic(true)
)

// ImportFunc runs one lead import from an external source.
type ImportFunc func(ctx context.Context) (*gsync.ImportResult, error)

// SyncCompleteMsg is sent when a background import finishes.
type SyncCompleteMsg struct {
	Result *gsync.ImportResult
	Error  error
}

// WithImport enables the sync tab's import action.
func (m Model) WithImport(fn ImportFunc) Model {
	m.runImport = fn
	return m
}

func (m Model) renderSyncView() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("CRM"))
	s.WriteString("\n\n")
	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")

	if len(m.syncStates) == 0 {
		s.WriteString(syncMessageStyle.Render("No sync data found. Run 'crmcore sync leads <user-id>' first."))
		s.WriteString("\n\n")
	} else {
		s.WriteString(syncHeaderStyle.Render("Service Status"))
		s.WriteString("\n\n")
		for _, state := range m.syncStates {
			s.WriteString(m.renderSyncRow(state))
			s.WriteString("\n")
		}
		s.WriteString("\n")
	}

	if len(m.syncMessages) > 0 {
		s.WriteString(syncHeaderStyle.Render("Recent Activity"))
		s.WriteString("\n\n")
		start := max(len(m.syncMessages)-5, 0)
		for _, line := range m.syncMessages[start:] {
			s.WriteString(syncMessageStyle.Render("  " + line))
			s.WriteString("\n")
		}
		s.WriteString("\n")
	}

	if status := m.renderStatus(); status != "" {
		s.WriteString(status)
		s.WriteString("\n")
	}

	s.WriteString(m.renderSyncHelp())

	return s.String()
}

func (m Model) renderSyncRow(state db.SyncState) string {
	var row strings.Builder
	row.WriteString(syncServiceStyle.Render(state.Service))
	row.WriteString(syncMessageStyle.Render(" (user " + state.UserID + ")"))

	switch {
	case state.Status == db.SyncRunning || m.syncInProgress:
		row.WriteString(syncSyncingStyle.Render("  ⟳ Syncing..."))
	case state.Status == db.SyncError:
		row.WriteString(syncErrorStyle.Render("  ✗ Error"))
		if state.ErrorMessage != nil {
			row.WriteString(syncErrorStyle.Render(": " + *state.ErrorMessage))
		}
	default:
		row.WriteString(syncIdleStyle.Render("  ✓ Idle"))
	}

	row.WriteString(syncMessageStyle.Render(fmt.Sprintf(" • %d imported", state.Imported)))
	if state.LastSyncTime != nil {
		row.WriteString(syncMessageStyle.Render(" • Last synced " + formatTimeSince(*state.LastSyncTime, m.svc.Now())))
	}
	return row.String()
}

func (m Model) renderSyncHelp() string {
	help := []string{"Tab: Switch entity"}
	if m.runImport != nil {
		help = append(help, "Enter: Import leads")
	}
	help = append(help, "r: Refresh status", "q: Quit")
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) handleSyncKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab":
		m.switchTab(1)
	case "shift+tab":
		m.switchTab(-1)
	case "enter":
		if m.runImport == nil || m.syncInProgress {
			return m, nil
		}
		m.syncInProgress = true
		m.addSyncMessage("Starting lead import...")
		return m, m.importLeads()
	case "r":
		m.reload()
	}
	return m, nil
}

func (m Model) importLeads() tea.Cmd {
	run, ctx := m.runImport, m.ctx
	return func() tea.Msg {
		res, err := run(ctx)
		return SyncCompleteMsg{Result: res, Error: err}
	}
}

func (m *Model) addSyncMessage(msg string) {
	m.syncMessages = append(m.syncMessages, fmt.Sprintf("[%s] %s", m.svc.Now().Format("15:04:05"), msg))
}

func (m *Model) handleSyncComplete(msg SyncCompleteMsg) {
	m.syncInProgress = false
	if msg.Error != nil {
		m.addSyncMessage(fmt.Sprintf("✗ import failed: %v", msg.Error))
	} else {
		m.addSyncMessage(fmt.Sprintf("✓ import done: %d created, %d duplicates, %d skipped",
			msg.Result.Created, msg.Result.Duplicates, msg.Result.Skipped))
	}
	if m.tab == syncTab {
		m.reload()
	}
}

// formatTimeSince formats the age of t relative to now.
func formatTimeSince(t, now time.Time) string {
	duration := now.Sub(t)

	switch {
	case duration < time.Minute:
		return "just now"
	case duration < time.Hour:
		minutes := int(duration.Minutes())
		if minutes == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", minutes)
	case duration < 24*time.Hour:
		hours := int(duration.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	}
	days := int(duration.Hours() / 24)
	if days == 1 {
		return "1 day ago"
	}
	return fmt.Sprintf("%d days ago", days)
}
