// ABOUTME: CLI command launching the full-screen bubbletea interface
// ABOUTME: Enables the sync tab's import action when a user and Google token are available
package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/harperreed/crmcore/config"
	"github.com/harperreed/crmcore/crm"
	"github.com/harperreed/crmcore/sync"
	"github.com/harperreed/crmcore/tui"
)

// TUICommand runs the interactive interface until the user quits.
func TUICommand(svc *crm.Service, cfg *config.Config, logger *log.Logger, args []string) error {
	fs := newFlagSet("tui")
	userID := fs.String("user", "", "User ID that imported leads belong to")
	if err := fs.Parse(args); err != nil {
		return err
	}

	model := tui.NewModel(svc)
	if *userID != "" {
		fn, err := leadImport(svc, cfg, logger, *userID)
		if err != nil {
			return err
		}
		model = model.WithImport(fn)
	}

	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("tui failed: %w", err)
	}
	return nil
}

func leadImport(svc *crm.Service, cfg *config.Config, logger *log.Logger, userID string) (tui.ImportFunc, error) {
	if err := sync.CheckCredentials(cfg); err != nil {
		return nil, err
	}
	token, err := sync.LoadToken(sync.TokenPath())
	if err != nil {
		return nil, fmt.Errorf("no authentication token found. Run 'crmcore sync init' first: %w", err)
	}

	importer := sync.NewLeadsImporter(svc, logger)
	return func(ctx context.Context) (*sync.ImportResult, error) {
		src, err := sync.NewPeopleSource(ctx, sync.NewOAuthConfig(cfg), token)
		if err != nil {
			return nil, err
		}
		return importer.Import(ctx, userID, src)
	}, nil
}
