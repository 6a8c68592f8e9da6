// ABOUTME: List view for the TUI with one tab per entity kind
// ABOUTME: Renders records in a bubbles table and handles tab and row navigation
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/crmcore/models"
)

// listColumns are the extra fields shown after the name column.
var listColumns = map[models.Kind][]string{
	models.KindUser:     {"email"},
	models.KindContact:  {"email", "phone"},
	models.KindCompany:  {"industry", "city"},
	models.KindDeal:     {"stage", "value"},
	models.KindLead:     {"status", "email"},
	models.KindActivity: {"status", "priority"},
	models.KindNote:     {"contactId", "dealId"},
}

func (m Model) renderListView() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("CRM"))
	s.WriteString("\n\n")

	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")

	s.WriteString(m.renderTable())
	s.WriteString("\n\n")

	if status := m.renderStatus(); status != "" {
		s.WriteString(status)
		s.WriteString("\n")
	}

	s.WriteString(m.renderListHelp())

	return s.String()
}

func (m Model) renderTabs() string {
	rendered := make([]string, 0, len(models.Kinds)+1)
	for i, k := range models.Kinds {
		rendered = append(rendered, tabStyle(i == m.tab).Render(k.Title()))
	}
	rendered = append(rendered, tabStyle(m.tab == syncTab).Render("Sync"))
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func tabStyle(active bool) lipgloss.Style {
	if active {
		return tabActiveStyle
	}
	return tabInactiveStyle
}

func (m Model) renderTable() string {
	if len(m.records) == 0 {
		return helpStyle.Render(fmt.Sprintf("No %s yet. Press 'n' to create one.", m.kind().Table()))
	}

	extra := listColumns[m.kind()]
	columns := []table.Column{{Title: "Name", Width: 30}}
	for _, key := range extra {
		columns = append(columns, table.Column{Title: strings.ToUpper(key[:1]) + key[1:], Width: 22})
	}
	columns = append(columns, table.Column{Title: "ID", Width: 36})

	rows := make([]table.Row, 0, len(m.records))
	for _, rec := range m.records {
		values, err := models.AsMap(rec)
		if err != nil {
			return fmt.Sprintf("Error: %v", err)
		}
		row := table.Row{rec.Label()}
		for _, key := range extra {
			row = append(row, formatValue(values[key]))
		}
		rows = append(rows, append(row, rec.RecordID()))
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(max(m.height-10, 3)),
	)
	if m.selectedRow < len(rows) {
		t.SetCursor(m.selectedRow)
	}

	return t.View()
}

// formatValue renders a decoded JSON value for display and form editing.
func formatValue(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return fmt.Sprintf("%g", v)
	}
	return fmt.Sprint(v)
}

func (m Model) renderListHelp() string {
	help := []string{
		"↑/↓: Navigate",
		"Tab: Switch entity",
		"Enter: View",
		"n: New",
		"r: Refresh",
		"q: Quit",
	}
	return helpStyle.Render(strings.Join(help, " • "))
}

// switchTab moves by delta tabs, wrapping around the entity and sync tabs.
func (m *Model) switchTab(delta int) {
	n := len(models.Kinds) + 1
	m.tab = ((m.tab+delta)%n + n) % n
	m.selectedRow = 0
	m.message = ""
	m.reload()
}

func (m Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.selectedRow > 0 {
			m.selectedRow--
		}
	case "down", "j":
		if m.selectedRow < len(m.records)-1 {
			m.selectedRow++
		}
	case "tab":
		m.switchTab(1)
	case "shift+tab":
		m.switchTab(-1)
	case "enter":
		if m.selectedRow < len(m.records) {
			m.selected = m.records[m.selectedRow]
			m.message = ""
			m.viewMode = ViewDetail
		}
	case "n":
		m.selected = nil
		m.message = ""
		m.initForm()
		m.viewMode = ViewEdit
	case "r":
		m.reload()
	}
	return m, nil
}
