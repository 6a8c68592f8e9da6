// ABOUTME: Google sync CLI commands
// ABOUTME: Handles OAuth setup, the contacts-to-leads import, and sync status
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/exec"
	"runtime"
	"text/tabwriter"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/harperreed/crmcore/config"
	"github.com/harperreed/crmcore/crm"
	"github.com/harperreed/crmcore/db"
	"github.com/harperreed/crmcore/sync"
	"golang.org/x/oauth2"
)

// SyncInitCommand handles OAuth setup
func SyncInitCommand(cfg *config.Config, w io.Writer, args []string) error {
	fs := newFlagSet("sync init")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := sync.CheckCredentials(cfg); err != nil {
		return err
	}

	ctx := context.Background()
	oauthCfg := sync.NewOAuthConfig(cfg)
	state := uuid.NewString()

	callbackChan := make(chan *oauth2.Token, 1)
	errChan := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc(sync.CallbackPath, func(rw http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("state") != state {
			errChan <- fmt.Errorf("state mismatch in OAuth callback")
			return
		}
		code := r.URL.Query().Get("code")
		if code == "" {
			errChan <- fmt.Errorf("no authorization code received")
			return
		}

		token, err := oauthCfg.Exchange(ctx, code)
		if err != nil {
			errChan <- fmt.Errorf("failed to exchange code: %w", err)
			return
		}

		callbackChan <- token
		_, _ = fmt.Fprintf(rw, "Authorization successful! You can close this window.")
	})

	server := &http.Server{Addr: sync.CallbackAddr, Handler: mux}
	go func() {
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	authURL := oauthCfg.AuthCodeURL(state, oauth2.AccessTypeOffline)

	_, _ = fmt.Fprintln(w, "Opening browser for Google OAuth...")
	_, _ = fmt.Fprintf(w, "\nIf browser doesn't open, visit this URL:\n%s\n\n", authURL)
	_ = openBrowser(authURL)

	select {
	case token := <-callbackChan:
		_ = server.Shutdown(ctx)

		if err := sync.SaveToken(sync.TokenPath(), token); err != nil {
			return fmt.Errorf("failed to save token: %w", err)
		}

		_, _ = fmt.Fprintf(w, "\n✓ Authenticated successfully\n")
		_, _ = fmt.Fprintf(w, "✓ Tokens saved to %s\n\n", sync.TokenPath())
		_, _ = fmt.Fprintln(w, "Ready to sync! Run 'crmcore sync leads <user-id>' to import contacts as leads.")
		return nil

	case err := <-errChan:
		_ = server.Shutdown(ctx)
		return fmt.Errorf("OAuth flow failed: %w", err)
	}
}

// SyncLeadsCommand imports Google Contacts as leads owned by a user.
func SyncLeadsCommand(svc *crm.Service, cfg *config.Config, logger *log.Logger, w io.Writer, args []string) error {
	fs := newFlagSet("sync leads")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("user ID required")
	}
	if err := sync.CheckCredentials(cfg); err != nil {
		return err
	}

	token, err := sync.LoadToken(sync.TokenPath())
	if err != nil {
		return fmt.Errorf("no authentication token found. Run 'crmcore sync init' first: %w", err)
	}

	ctx := context.Background()
	src, err := sync.NewPeopleSource(ctx, sync.NewOAuthConfig(cfg), token)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(w, "Syncing Google Contacts...")
	result, err := sync.NewLeadsImporter(svc, logger).Import(ctx, fs.Arg(0), src)
	if err != nil {
		return fmt.Errorf("contacts sync failed: %w", err)
	}

	printImportResult(w, result)
	return nil
}

func printImportResult(w io.Writer, result *sync.ImportResult) {
	_, _ = fmt.Fprintf(w, "\n✓ Fetched %d contacts from Google\n", result.Fetched)
	if result.Created == 0 {
		_, _ = fmt.Fprintln(w, "  ✓ No new leads to import (all up to date)")
	} else {
		_, _ = fmt.Fprintf(w, "  ✓ Created %d new leads\n", result.Created)
	}
	if result.Duplicates > 0 {
		_, _ = fmt.Fprintf(w, "  → Skipped %d already known\n", result.Duplicates)
	}
	if result.Skipped > 0 {
		_, _ = fmt.Fprintf(w, "  → Skipped %d without a full name or email\n", result.Skipped)
	}
	if result.Failed > 0 {
		_, _ = fmt.Fprintf(w, "  ✗ %d contacts failed to import\n", result.Failed)
	}
}

// SyncStatusCommand shows the state of every import source.
func SyncStatusCommand(svc *crm.Service, w io.Writer, args []string) error {
	fs := newFlagSet("sync status")
	if err := fs.Parse(args); err != nil {
		return err
	}

	states, err := db.ListSyncStates(context.Background(), svc.DB())
	if err != nil {
		return err
	}
	if len(states) == 0 {
		_, _ = fmt.Fprintln(w, "No syncs have run yet.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "SERVICE\tUSER\tSTATUS\tLAST SYNC\tIMPORTED\tERROR")
	for _, st := range states {
		last := "never"
		if st.LastSyncTime != nil {
			last = st.LastSyncTime.Format("2006-01-02 15:04")
		}
		msg := ""
		if st.ErrorMessage != nil {
			msg = *st.ErrorMessage
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\n", st.Service, st.UserID, st.Status, last, st.Imported, msg)
	}
	return tw.Flush()
}

// openBrowser attempts to open URL in default browser
func openBrowser(url string) error {
	var cmd string
	var args []string

	switch runtime.GOOS {
	case "darwin":
		cmd = "open"
		args = []string{url}
	case "windows":
		cmd = "cmd"
		args = []string{"/c", "start", url}
	default:
		cmd = "xdg-open"
		args = []string{url}
	}

	return exec.Command(cmd, args...).Start()
}
