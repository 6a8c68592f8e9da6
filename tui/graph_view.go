// ABOUTME: Graph view showing the ownership graph for the selected record's user
// ABOUTME: Displays the Graphviz DOT source produced by the viz package
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/crmcore/models"
	"github.com/harperreed/crmcore/viz"
)

func (m Model) renderGraphView() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("GRAPH VIEW"))
	s.WriteString("\n\n")

	if m.graphDOT == "" {
		s.WriteString("No graph generated\n")
	} else {
		nodes, edges := viz.CountGraph(m.graphDOT)
		s.WriteString(fmt.Sprintf("%d nodes, %d edges\n\n", nodes, edges))
		s.WriteString(lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Render(m.graphDOT))
	}

	s.WriteString("\n\n")
	s.WriteString(m.renderGraphHelp())

	return s.String()
}

func (m Model) renderGraphHelp() string {
	help := []string{
		"Esc: Back",
		"q: Quit",
	}
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) handleGraphKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" {
		m.viewMode = ViewDetail
		m.graphDOT = ""
	}
	return m, nil
}

// generateGraph renders the records owned by the selected user, or by the
// selected record's owner.
func (m *Model) generateGraph() error {
	userID := m.selected.OwnerID()
	if m.selected.RecordKind() == models.KindUser {
		userID = m.selected.RecordID()
	}

	dot, err := viz.NewGraphGenerator(m.svc.DB()).GenerateOwnershipGraph(m.ctx, userID)
	if err != nil {
		return err
	}
	m.graphDOT = dot
	return nil
}
