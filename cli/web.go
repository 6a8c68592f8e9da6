// ABOUTME: CLI command serving the read-only web UI
// ABOUTME: Runs until interrupted
package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/harperreed/crmcore/crm"
	"github.com/harperreed/crmcore/web"
)

// WebCommand starts the web dashboard on --port.
func WebCommand(ctx context.Context, svc *crm.Service, logger *log.Logger, args []string) error {
	fs := newFlagSet("web")
	port := fs.Int("port", 8080, "Port to listen on")
	if err := fs.Parse(args); err != nil {
		return err
	}

	server, err := web.NewServer(svc, logger)
	if err != nil {
		return err
	}
	return server.Start(ctx, fmt.Sprintf("localhost:%d", *port))
}
