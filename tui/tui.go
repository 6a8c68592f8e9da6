// ABOUTME: Terminal User Interface using bubbletea framework
// ABOUTME: Browses, edits, deletes, and converts CRM records through the service
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/crmcore/crm"
	"github.com/harperreed/crmcore/db"
	"github.com/harperreed/crmcore/models"
)

// ViewMode represents the current TUI view
type ViewMode int

const (
	ViewList ViewMode = iota
	ViewDetail
	ViewEdit
	ViewGraph
	ViewConfirmDelete
)

// syncTab is the tab index after the entity tabs.
var syncTab = len(models.Kinds)

// Model is the main bubbletea model
type Model struct {
	svc      *crm.Service
	ctx      context.Context
	viewMode ViewMode
	tab      int

	// List view state
	records     []models.Record
	selectedRow int

	// Detail view state
	selected models.Record

	// Edit view state
	formKeys   []string
	formInputs []textinput.Model
	focusIndex int
	original   map[string]string

	// Graph view state
	graphDOT string

	// Sync tab state
	syncStates     []db.SyncState
	syncMessages   []string
	syncInProgress bool
	runImport      ImportFunc

	// UI state
	message string
	width   int
	height  int
	err     error
}

// NewModel creates a new TUI model showing the first entity tab.
func NewModel(svc *crm.Service) Model {
	m := Model{
		svc:      svc,
		ctx:      context.Background(),
		viewMode: ViewList,
		width:    100,
		height:   24,
	}
	m.reload()
	return m
}

// kind is the entity of the active tab, or "" on the sync tab.
func (m Model) kind() models.Kind {
	if m.tab < len(models.Kinds) {
		return models.Kinds[m.tab]
	}
	return ""
}

// reload refreshes the data behind the active tab.
func (m *Model) reload() {
	m.err = nil
	if m.tab == syncTab {
		m.records = nil
		m.syncStates, m.err = db.ListSyncStates(m.ctx, m.svc.DB())
		return
	}
	m.records, m.err = m.svc.List(m.ctx, m.kind())
	if m.selectedRow >= len(m.records) {
		m.selectedRow = max(len(m.records)-1, 0)
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case SyncCompleteMsg:
		m.handleSyncComplete(msg)
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}
	return m, nil
}

func (m Model) View() string {
	switch m.viewMode {
	case ViewList:
		if m.tab == syncTab {
			return m.renderSyncView()
		}
		return m.renderListView()
	case ViewDetail:
		return m.renderDetailView()
	case ViewEdit:
		return m.renderEditView()
	case ViewGraph:
		return m.renderGraphView()
	case ViewConfirmDelete:
		return m.renderConfirmDeleteView()
	}
	return ""
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	// Typing into a form must not quit.
	if msg.String() == "q" && m.viewMode != ViewEdit {
		return m, tea.Quit
	}

	switch m.viewMode {
	case ViewList:
		if m.tab == syncTab {
			return m.handleSyncKeys(msg)
		}
		return m.handleListKeys(msg)
	case ViewDetail:
		return m.handleDetailKeys(msg)
	case ViewEdit:
		return m.handleEditKeys(msg)
	case ViewGraph:
		return m.handleGraphKeys(msg)
	case ViewConfirmDelete:
		return m.handleConfirmDeleteKeys(msg)
	}

	return m, nil
}

func (m Model) renderStatus() string {
	if m.err != nil {
		return errorStyle.Render("Error: " + m.err.Error())
	}
	if m.message != "" {
		return messageStyle.Render(m.message)
	}
	return ""
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			MarginBottom(1)

	tabActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			Background(lipgloss.Color("235")).
			Padding(0, 2)

	tabInactiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Padding(0, 2)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			MarginTop(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))

	messageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")).
			Italic(true)
)
