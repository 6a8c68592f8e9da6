// ABOUTME: Delete confirmation view for TUI
// ABOUTME: Deletes the selected record through the service after a y/n dialog
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/crmcore/models"
)

var (
	confirmBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("9")).
			Padding(1, 2).
			Width(60).
			Align(lipgloss.Center)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)

	confirmButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("9")).
				Padding(0, 2).
				MarginRight(2)

	cancelButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("8")).
				Padding(0, 2)
)

// deleteEffect describes what happens to records pointing at the one being deleted.
func deleteEffect(k models.Kind) string {
	switch k {
	case models.KindUser:
		return "Users that still own records cannot be deleted."
	case models.KindContact:
		return "References from other records will be cleared.\nContacts converted from a lead cannot be deleted."
	case models.KindCompany, models.KindDeal:
		return "References from other records will be cleared."
	}
	return "This action cannot be undone!"
}

func (m Model) renderConfirmDeleteView() string {
	if m.selected == nil {
		return "No record selected"
	}
	kind := m.selected.RecordKind()

	title := warningStyle.Render("⚠  DELETE CONFIRMATION  ⚠")
	message := fmt.Sprintf("Are you sure you want to delete this %s?", kind)
	entityInfo := fmt.Sprintf("\n%s: %s\n", strings.ToUpper(string(kind)), m.selected.Label())
	warning := "\n" + deleteEffect(kind)

	buttons := lipgloss.JoinHorizontal(
		lipgloss.Left,
		confirmButtonStyle.Render("Yes, Delete (y)"),
		cancelButtonStyle.Render("Cancel (n/esc)"),
	)

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		title,
		"",
		message,
		entityInfo,
		warning,
		"",
		buttons,
	)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		confirmBoxStyle.Render(content),
	)
}

func (m Model) handleConfirmDeleteKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		if err := m.svc.Delete(m.ctx, m.selected.RecordKind(), m.selected.RecordID()); err != nil {
			m.err = err
			m.viewMode = ViewDetail
			return m, nil
		}
		m.message = fmt.Sprintf("Deleted %s %s", m.selected.RecordKind(), m.selected.Label())
		m.selected = nil
		m.viewMode = ViewList
		m.reload()
	case "n", "N", "esc":
		m.viewMode = ViewDetail
	}

	return m, nil
}
