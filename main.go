// ABOUTME: Entry point for the CRM MCP server, CLI, and TUI
// ABOUTME: Loads config, opens the database, and routes to the requested command
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"

	"github.com/harperreed/crmcore/cli"
	"github.com/harperreed/crmcore/config"
	"github.com/harperreed/crmcore/crm"
	"github.com/harperreed/crmcore/db"
)

const version = "0.2.0"

func main() {
	// Global flags
	showVersion := flag.Bool("version", false, "Show version and exit")
	dbPath := flag.String("db-path", "", "Database path (default: ~/.local/share/crmcore/crm.db)")
	configPath := flag.String("config", "", "Config file (default: ~/.config/crmcore/config.json)")
	initOnly := flag.Bool("init", false, "Initialize database and config, then exit")
	flag.Usage = printUsage
	flag.Parse()

	if *showVersion {
		fmt.Printf("crmcore version %s\n", version)
		os.Exit(0)
	}

	if err := config.LoadEnvFile(".env"); err != nil {
		log.Fatalf("Error: %v", err)
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}

	args := flag.Args()
	if len(args) == 0 && !*initOnly {
		printUsage()
		os.Exit(0)
	}

	logger := cfg.Logger(os.Stderr)

	database, err := db.OpenDatabase(cfg.DBPath)
	if err != nil {
		logger.Fatal("failed to open database", "path", cfg.DBPath, "err", err)
	}
	defer func() { _ = database.Close() }()
	logger.Debug("opened database", "path", cfg.DBPath)

	if *initOnly {
		if err := initConfig(cfg, *configPath); err != nil {
			logger.Fatal("failed to write config", "err", err)
		}
		logger.Info("database initialized", "path", cfg.DBPath)
		return
	}

	svc, err := newService(database, cfg, logger)
	if err != nil {
		logger.Fatal("invalid configuration", "err", err)
	}

	if err := dispatch(svc, cfg, logger, os.Stdout, args); err != nil {
		_ = database.Close()
		logger.Fatal("command failed", "err", err)
	}
}

func newService(database *sql.DB, cfg *config.Config, logger *log.Logger) (*crm.Service, error) {
	ids, err := crm.NewIDGenerator(cfg.IDScheme)
	if err != nil {
		return nil, err
	}
	return crm.NewService(database, crm.WithIDGenerator(ids), crm.WithLogger(logger)), nil
}

// initConfig writes the effective config when no config file exists yet.
func initConfig(cfg *config.Config, path string) error {
	if path == "" {
		path = config.ConfigPath()
	}
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	return config.Save(cfg, path)
}

func dispatch(svc *crm.Service, cfg *config.Config, logger *log.Logger, w io.Writer, args []string) error {
	command, rest := args[0], args[1:]

	switch command {
	case "mcp":
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return cli.MCPCommand(ctx, svc, logger, version)

	case "crm":
		if len(rest) == 0 {
			return fmt.Errorf("crm requires a subcommand")
		}
		sub, subArgs := rest[0], rest[1:]
		switch sub {
		case "create":
			return cli.CreateCommand(svc, w, subArgs)
		case "get":
			return cli.GetCommand(svc, w, subArgs)
		case "list":
			return cli.ListCommand(svc, w, subArgs)
		case "update":
			return cli.UpdateCommand(svc, w, subArgs)
		case "delete":
			return cli.DeleteCommand(svc, w, subArgs)
		case "convert-lead":
			return cli.ConvertLeadCommand(svc, w, subArgs)
		}
		return fmt.Errorf("unknown crm command: %s", sub)

	case "viz":
		if len(rest) == 0 {
			return fmt.Errorf("viz requires a subcommand")
		}
		sub, subArgs := rest[0], rest[1:]
		switch sub {
		case "graph":
			return cli.VizGraphCommand(svc, w, subArgs)
		case "dashboard":
			return cli.VizDashboardCommand(svc, w, subArgs)
		}
		return fmt.Errorf("unknown viz command: %s", sub)

	case "sync":
		if len(rest) == 0 {
			return fmt.Errorf("sync requires a subcommand")
		}
		sub, subArgs := rest[0], rest[1:]
		switch sub {
		case "init":
			return cli.SyncInitCommand(cfg, w, subArgs)
		case "leads":
			return cli.SyncLeadsCommand(svc, cfg, logger, w, subArgs)
		case "status":
			return cli.SyncStatusCommand(svc, w, subArgs)
		}
		return fmt.Errorf("unknown sync command: %s", sub)

	case "tui":
		return cli.TUICommand(svc, cfg, logger, rest)

	case "web":
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return cli.WebCommand(ctx, svc, logger, rest)
	}

	printUsage()
	return fmt.Errorf("unknown command: %s", command)
}

func printUsage() {
	fmt.Printf(`crmcore v%s - CRM backend with MCP, CLI, and TUI front ends

USAGE:
  crmcore [global flags] <command> [subcommand] [flags]

GLOBAL FLAGS:
  --version              Show version and exit
  --db-path <path>       Database path (default: ~/.local/share/crmcore/crm.db)
  --config <path>        Config file (default: ~/.config/crmcore/config.json)
  --init                 Initialize database and config, then exit

ENTITIES:
  user, contact, company, deal, lead, activity, note (plural forms accepted)

COMMANDS:
  mcp                    Start MCP server on stdio
  crm                    Record management commands
  viz                    Visualization commands
  sync                   Google Contacts lead import
  tui                    Interactive terminal interface
  web                    Read-only web dashboard

CRM COMMANDS:
  crmcore crm create <entity> [flags]
    --set key=value           Set a field (repeatable)
    --unset key               Set a field to null (repeatable)
    --data <json>             Fields as a JSON object
    --json                    Print the record as JSON

  crmcore crm get <entity> <id>

  crmcore crm list <entity> [flags]
    --query <text>            Search by name or email
    --limit <n>               Max results (default: 50)
    --json                    Print records as JSON

  crmcore crm update <entity> [flags] <id>
    --set / --unset / --data  Same as create; absent fields are left unchanged
    Note: flags must come before the record ID

  crmcore crm delete <entity> <id>

  crmcore crm convert-lead [flags] <lead-id>
    --company <id>            Company for the new contact
    --json                    Print the lead and contact as JSON

VIZ COMMANDS:
  crmcore viz graph [flags] <user-id>   Ownership graph of a user's records
    --format <fmt>                        dot, svg, or png (default: dot)
    --output <file>                       Output file (required for png)

  crmcore viz dashboard [--json]        Pipeline and activity dashboard

SYNC COMMANDS:
  crmcore sync init                     Authorize Google Contacts access
  crmcore sync leads <user-id>          Import Google Contacts as leads
  crmcore sync status                   Show import state

TUI AND WEB:
  crmcore tui [--user <id>]             --user enables lead import from the Sync tab
  crmcore web [--port <n>]              Serve the dashboard on localhost (default: 8080)

EXAMPLES:
  # Create a user and a contact
  crmcore crm create user --set email=ada@example.com --set name="Ada Lovelace"
  crmcore crm create contact --data '{"firstName":"Grace","lastName":"Hopper","email":"grace@example.com","userId":"<id>"}'

  # Clear a contact's phone number
  crmcore crm update contact --unset phone <id>

  # Render the ownership graph as SVG
  crmcore viz graph --format svg --output graph.svg <user-id>

`, version)
}
