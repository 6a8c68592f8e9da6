// ABOUTME: Record CLI commands
// ABOUTME: Generic create, get, list, update, delete, and convert-lead over every entity
package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/harperreed/crmcore/crm"
	"github.com/harperreed/crmcore/models"
)

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

// entityArg splits "<entity> [flags] [id]" into the kind and the remaining args.
func entityArg(command string, args []string) (models.Kind, []string, error) {
	if len(args) == 0 {
		return "", nil, fmt.Errorf("%s requires an entity (user, contact, company, deal, lead, activity, note)", command)
	}
	kind, err := models.ParseKind(args[0])
	if err != nil {
		return "", nil, err
	}
	return kind, args[1:], nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// CreateCommand creates a record of any kind.
func CreateCommand(svc *crm.Service, w io.Writer, args []string) error {
	kind, rest, err := entityArg("create", args)
	if err != nil {
		return err
	}

	fs := newFlagSet("create " + string(kind))
	ff := addFieldFlags(fs)
	asJSON := fs.Bool("json", false, "Print the created record as JSON")
	if err := fs.Parse(rest); err != nil {
		return err
	}

	payload, err := ff.payload()
	if err != nil {
		return err
	}

	rec, err := svc.Create(context.Background(), kind, payload)
	if err != nil {
		return err
	}

	if *asJSON {
		return writeJSON(w, rec)
	}
	_, _ = fmt.Fprintf(w, "✓ %s created: %s (ID: %s)\n", kind.Title(), rec.Label(), rec.RecordID())
	return nil
}

// GetCommand prints one record.
func GetCommand(svc *crm.Service, w io.Writer, args []string) error {
	kind, rest, err := entityArg("get", args)
	if err != nil {
		return err
	}

	fs := newFlagSet("get " + string(kind))
	if err := fs.Parse(rest); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("%s ID required", kind)
	}

	rec, err := svc.Get(context.Background(), kind, fs.Arg(0))
	if err != nil {
		return err
	}
	return writeJSON(w, rec)
}

// ListCommand lists every record of one kind.
func ListCommand(svc *crm.Service, w io.Writer, args []string) error {
	kind, rest, err := entityArg("list", args)
	if err != nil {
		return err
	}

	fs := newFlagSet("list " + string(kind))
	query := fs.String("query", "", "Filter by name or email")
	limit := fs.Int("limit", 50, "Max results")
	asJSON := fs.Bool("json", false, "Print records as JSON")
	if err := fs.Parse(rest); err != nil {
		return err
	}

	records, err := svc.List(context.Background(), kind)
	if err != nil {
		return err
	}

	q := strings.ToLower(*query)
	var matched []models.Record
	for _, rec := range records {
		if q != "" && !strings.Contains(strings.ToLower(rec.Label()+" "+summary(rec)), q) {
			continue
		}
		matched = append(matched, rec)
		if *limit > 0 && len(matched) == *limit {
			break
		}
	}

	if *asJSON {
		if matched == nil {
			matched = []models.Record{}
		}
		return writeJSON(w, matched)
	}

	if len(matched) == 0 {
		_, _ = fmt.Fprintf(w, "No %s found.\n", kind.Table())
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tNAME\tDETAILS")
	_, _ = fmt.Fprintln(tw, "--\t----\t-------")
	for _, rec := range matched {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", rec.RecordID(), rec.Label(), summary(rec))
	}
	_ = tw.Flush()

	_, _ = fmt.Fprintf(w, "\nFound %d %s\n", len(matched), kind.Table())
	return nil
}

// summary is the DETAILS column for a record.
func summary(rec models.Record) string {
	switch r := rec.(type) {
	case *models.User:
		return r.Email
	case *models.Contact:
		return r.Email
	case *models.Company:
		if r.Industry != nil {
			return *r.Industry
		}
	case *models.Deal:
		return fmt.Sprintf("%s $%.2f %d%%", r.Stage, r.Value, r.Probability)
	case *models.Lead:
		return fmt.Sprintf("%s %s", r.Status, r.Email)
	case *models.Activity:
		s := fmt.Sprintf("%s %s %s", r.Type, r.Status, r.Priority)
		if r.DueDate != nil {
			s += " due " + r.DueDate.Format("2006-01-02")
		}
		return s
	case *models.Note:
		if r.Title != nil {
			return r.Content
		}
	}
	return ""
}

// UpdateCommand applies a partial update.
func UpdateCommand(svc *crm.Service, w io.Writer, args []string) error {
	kind, rest, err := entityArg("update", args)
	if err != nil {
		return err
	}

	fs := newFlagSet("update " + string(kind))
	ff := addFieldFlags(fs)
	asJSON := fs.Bool("json", false, "Print the updated record as JSON")
	if err := fs.Parse(rest); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("%s ID required (flags must come before the ID)", kind)
	}

	payload, err := ff.payload()
	if err != nil {
		return err
	}
	if len(payload) == 0 {
		return fmt.Errorf("nothing to update: use --set, --unset, or --data")
	}

	rec, err := svc.Update(context.Background(), kind, fs.Arg(0), payload)
	if err != nil {
		return err
	}

	if *asJSON {
		return writeJSON(w, rec)
	}
	_, _ = fmt.Fprintf(w, "✓ %s updated: %s (ID: %s)\n", kind.Title(), rec.Label(), rec.RecordID())
	return nil
}

// DeleteCommand deletes one record.
func DeleteCommand(svc *crm.Service, w io.Writer, args []string) error {
	kind, rest, err := entityArg("delete", args)
	if err != nil {
		return err
	}

	fs := newFlagSet("delete " + string(kind))
	if err := fs.Parse(rest); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("%s ID required", kind)
	}

	id := fs.Arg(0)
	if err := svc.Delete(context.Background(), kind, id); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(w, "✓ %s deleted: %s\n", kind.Title(), id)
	return nil
}

// ConvertLeadCommand turns a lead into a contact.
func ConvertLeadCommand(svc *crm.Service, w io.Writer, args []string) error {
	fs := newFlagSet("convert-lead")
	company := fs.String("company", "", "Company ID for the new contact")
	asJSON := fs.Bool("json", false, "Print the conversion as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("lead ID required (flags must come before the ID)")
	}

	var companyID *string
	if *company != "" {
		companyID = company
	}

	conv, err := svc.ConvertLead(context.Background(), fs.Arg(0), companyID)
	if err != nil {
		return err
	}

	if *asJSON {
		return writeJSON(w, conv)
	}
	_, _ = fmt.Fprintf(w, "✓ Lead converted: %s\n", conv.Lead.Label())
	_, _ = fmt.Fprintf(w, "  Contact: %s (ID: %s)\n", conv.Contact.Label(), conv.Contact.ID)
	return nil
}
