// ABOUTME: Visualization CLI commands
// ABOUTME: Handles viz dashboard and ownership graph generation commands
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/harperreed/crmcore/crm"
	"github.com/harperreed/crmcore/viz"
)

// VizGraphCommand renders the ownership graph of one user.
func VizGraphCommand(svc *crm.Service, w io.Writer, args []string) error {
	fs := newFlagSet("viz graph")
	output := fs.String("output", "", "Output file (default: stdout)")
	format := fs.String("format", "dot", "Output format: dot, svg, or png")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("user ID required")
	}

	gvFormat, ok := viz.Formats[strings.ToLower(*format)]
	if !ok {
		return fmt.Errorf("unknown format %q (valid: dot, svg, png)", *format)
	}
	if gvFormat == viz.Formats["png"] && *output == "" {
		return fmt.Errorf("--output is required for png")
	}

	out := w
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", *output, err)
		}
		defer func() { _ = f.Close() }()
		out = f
	}

	generator := viz.NewGraphGenerator(svc.DB())
	if err := generator.RenderOwnershipGraph(context.Background(), fs.Arg(0), gvFormat, out); err != nil {
		return err
	}

	if *output != "" {
		_, _ = fmt.Fprintf(w, "✓ Graph written to %s\n", *output)
	}
	return nil
}

// VizDashboardCommand prints the ASCII dashboard.
func VizDashboardCommand(svc *crm.Service, w io.Writer, args []string) error {
	fs := newFlagSet("viz dashboard")
	asJSON := fs.Bool("json", false, "Print the statistics as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	stats, err := viz.GenerateDashboardStats(context.Background(), svc.DB(), svc.Now())
	if err != nil {
		return err
	}

	if *asJSON {
		return writeJSON(w, stats)
	}
	_, _ = fmt.Fprint(w, viz.RenderDashboard(stats))
	return nil
}
