// ABOUTME: Create and edit form for CRM records in the TUI
// ABOUTME: Sends only changed fields on edit and clears emptied fields with null
package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/harperreed/crmcore/models"
	"github.com/harperreed/crmcore/patch"
)

// numericKeys are form fields sent as JSON numbers.
var numericKeys = map[string]bool{
	"value":       true,
	"revenue":     true,
	"probability": true,
	"score":       true,
}

func (m Model) renderEditView() string {
	var s strings.Builder

	name := strings.ToUpper(m.kind().Title())
	if m.selected == nil {
		s.WriteString(titleStyle.Render("NEW " + name))
	} else {
		s.WriteString(titleStyle.Render("EDIT " + name))
	}
	s.WriteString("\n\n")

	for i, input := range m.formInputs {
		if i == m.focusIndex {
			s.WriteString("> ")
		} else {
			s.WriteString("  ")
		}
		s.WriteString(fieldLabelStyle.Render(m.formKeys[i] + ":"))
		s.WriteString(input.View())
		s.WriteString("\n")
	}

	s.WriteString("\n")
	if status := m.renderStatus(); status != "" {
		s.WriteString(status)
		s.WriteString("\n")
	}

	s.WriteString(m.renderEditHelp())

	return s.String()
}

func (m Model) renderEditHelp() string {
	help := []string{
		"Tab/Shift+Tab: Move between fields",
		"Enter: Save",
		"Esc: Cancel",
	}
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) handleEditKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.err = nil
		if m.selected != nil {
			m.viewMode = ViewDetail
		} else {
			m.viewMode = ViewList
		}
		return m, nil
	case "tab", "down":
		m.focusIndex = (m.focusIndex + 1) % len(m.formInputs)
		m.updateFormFocus()
		return m, nil
	case "shift+tab", "up":
		m.focusIndex = (m.focusIndex - 1 + len(m.formInputs)) % len(m.formInputs)
		m.updateFormFocus()
		return m, nil
	case "enter":
		if err := m.saveRecord(); err != nil {
			m.err = err
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.formInputs[m.focusIndex], cmd = m.formInputs[m.focusIndex].Update(msg)
	return m, cmd
}

// initForm builds one input per writable field, prefilled from the selected record.
func (m *Model) initForm() {
	fields, err := models.NewFields(m.kind())
	if err != nil {
		m.err = err
		return
	}

	var values map[string]any
	if m.selected != nil {
		if values, err = models.AsMap(m.selected); err != nil {
			m.err = err
			return
		}
	}

	m.formKeys = patch.Keys(fields)
	m.formInputs = make([]textinput.Model, len(m.formKeys))
	m.original = make(map[string]string, len(m.formKeys))
	for i, key := range m.formKeys {
		input := textinput.New()
		input.Placeholder = key
		input.CharLimit = 500
		input.Width = 50
		if v := formatValue(values[key]); v != "" {
			input.SetValue(v)
			m.original[key] = v
		}
		m.formInputs[i] = input
	}
	m.focusIndex = 0
	m.err = nil
	m.updateFormFocus()
}

func (m *Model) updateFormFocus() {
	for i := range m.formInputs {
		if i == m.focusIndex {
			m.formInputs[i].Focus()
		} else {
			m.formInputs[i].Blur()
		}
	}
}

// formPayload returns the fields to send. New records carry every non-empty
// input; edits carry only inputs that differ from the stored value.
func (m Model) formPayload() (map[string]any, error) {
	payload := make(map[string]any)
	for i, key := range m.formKeys {
		text := strings.TrimSpace(m.formInputs[i].Value())
		if m.selected != nil && text == m.original[key] {
			continue
		}
		if text == "" {
			if m.selected != nil {
				payload[key] = nil
			}
			continue
		}
		if numericKeys[key] {
			n, err := strconv.ParseFloat(text, 64)
			if err != nil {
				return nil, fmt.Errorf("%s must be a number", key)
			}
			payload[key] = n
			continue
		}
		payload[key] = text
	}
	return payload, nil
}

func (m *Model) saveRecord() error {
	payload, err := m.formPayload()
	if err != nil {
		return err
	}

	if m.selected == nil {
		rec, err := m.svc.Create(m.ctx, m.kind(), payload)
		if err != nil {
			return err
		}
		m.message = fmt.Sprintf("Created %s %s", rec.RecordKind(), rec.Label())
		m.selected = rec
		m.err = nil
		m.viewMode = ViewDetail
		return nil
	}

	if len(payload) == 0 {
		m.message = "No changes"
		m.viewMode = ViewDetail
		return nil
	}

	rec, err := m.svc.Update(m.ctx, m.kind(), m.selected.RecordID(), payload)
	if err != nil {
		return err
	}
	m.message = fmt.Sprintf("Updated %s %s", rec.RecordKind(), rec.Label())
	m.selected = rec
	m.err = nil
	m.viewMode = ViewDetail
	return nil
}
