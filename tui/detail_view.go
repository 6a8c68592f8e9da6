// ABOUTME: Detail view for a single CRM record in the TUI
// ABOUTME: Shows every field and dispatches edit, delete, convert, and graph actions
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/crmcore/models"
)

var (
	fieldLabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			Width(24)

	fieldValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))
)

func (m Model) renderDetailView() string {
	var s strings.Builder

	if m.selected == nil {
		return "No record selected"
	}

	s.WriteString(titleStyle.Render(strings.ToUpper(m.selected.RecordKind().Title()) + ": " + m.selected.Label()))
	s.WriteString("\n\n")

	values, err := models.AsMap(m.selected)
	if err != nil {
		return fmt.Sprintf("Error: %v", err)
	}
	for _, key := range models.DisplayKeys(m.selected.RecordKind()) {
		s.WriteString(m.renderField(key, formatValue(values[key])))
	}

	s.WriteString("\n")
	if status := m.renderStatus(); status != "" {
		s.WriteString(status)
		s.WriteString("\n")
	}

	s.WriteString(m.renderDetailHelp())

	return s.String()
}

func (m Model) renderField(label, value string) string {
	if value == "" {
		value = "-"
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		fieldLabelStyle.Render(label+":"),
		fieldValueStyle.Render(value),
	) + "\n"
}

func (m Model) renderDetailHelp() string {
	help := []string{"Esc: Back", "e: Edit", "d: Delete", "g: Graph"}
	if m.canConvert() {
		help = append(help, "c: Convert to contact")
	}
	help = append(help, "q: Quit")
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) canConvert() bool {
	lead, ok := m.selected.(*models.Lead)
	return ok && lead.Status != models.LeadConverted
}

func (m Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.viewMode = ViewList
		m.selected = nil
		m.message = ""
		m.reload()
	case "e":
		m.message = ""
		m.initForm()
		m.viewMode = ViewEdit
	case "d":
		m.viewMode = ViewConfirmDelete
	case "g":
		if err := m.generateGraph(); err != nil {
			m.err = err
			return m, nil
		}
		m.viewMode = ViewGraph
	case "c":
		if m.canConvert() {
			m.convertLead()
		}
	}
	return m, nil
}

// convertLead turns the selected lead into a contact and stays on the lead.
func (m *Model) convertLead() {
	conv, err := m.svc.ConvertLead(m.ctx, m.selected.RecordID(), nil)
	if err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.selected = conv.Lead
	m.message = fmt.Sprintf("Converted to contact %s (ID: %s)", conv.Contact.Label(), conv.Contact.ID)
}
