// ABOUTME: Google Contacts to Lead importer
// ABOUTME: Creates one New lead per connection the user has not imported, logged in sync_log
package sync

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/harperreed/crmcore/crm"
	"github.com/harperreed/crmcore/db"
	"github.com/harperreed/crmcore/models"
	"github.com/harperreed/crmcore/patch"
	"google.golang.org/api/people/v1"
)

const (
	// ServiceName keys the sync_state and sync_log rows for this import, alongside the user.
	ServiceName = "google_contacts"
	LeadSource  = "Google Contacts"
)

type GoogleContact struct {
	ResourceName string
	FirstName    string
	LastName     string
	Email        string
	Phone        string
	Company      string
	JobTitle     string
	Notes        string
}

type ImportResult struct {
	Fetched    int
	Created    int
	Duplicates int
	Skipped    int
	Failed     int
}

type LeadsImporter struct {
	svc *crm.Service
	log *log.Logger
}

func NewLeadsImporter(svc *crm.Service, logger *log.Logger) *LeadsImporter {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &LeadsImporter{svc: svc, log: logger}
}

// Import pulls every connection from src and files new ones as leads owned by userID.
func (li *LeadsImporter) Import(ctx context.Context, userID string, src ConnectionSource) (*ImportResult, error) {
	database := li.svc.DB()

	if _, err := li.svc.Get(ctx, models.KindUser, userID); err != nil {
		return nil, err
	}
	if err := db.MarkSyncRunning(ctx, database, ServiceName, userID, li.svc.Now()); err != nil {
		return nil, err
	}

	result, err := li.importPages(ctx, userID, src)
	if err != nil {
		_ = db.MarkSyncFailed(ctx, database, ServiceName, userID, err, li.svc.Now())
		return result, err
	}

	if err := db.MarkSyncDone(ctx, database, ServiceName, userID, result.Created, li.svc.Now()); err != nil {
		return result, err
	}
	return result, nil
}

func (li *LeadsImporter) importPages(ctx context.Context, userID string, src ConnectionSource) (*ImportResult, error) {
	database := li.svc.DB()
	result := &ImportResult{}

	known, err := db.KnownEmails(ctx, database, userID)
	if err != nil {
		return result, fmt.Errorf("failed to load existing emails: %w", err)
	}
	matcher := NewEmailMatcher(known)

	pageToken := ""
	for {
		response, err := src.Connections(ctx, pageToken)
		if err != nil {
			return result, fmt.Errorf("failed to fetch contacts: %w", err)
		}
		if response == nil {
			break
		}

		for _, person := range response.Connections {
			result.Fetched++
			gc := convertPerson(person)

			if gc.Email == "" || gc.FirstName == "" || gc.LastName == "" {
				result.Skipped++
				continue
			}

			exists, err := db.SyncLogExists(ctx, database, ServiceName, userID, gc.ResourceName)
			if err != nil {
				return result, err
			}
			if exists || matcher.Seen(gc.Email) {
				result.Duplicates++
				continue
			}

			_, err = li.svc.CreateLeadWith(ctx, gc.LeadFields(userID), func(q db.Querier, lead *models.Lead) error {
				return db.LogImport(ctx, q, db.ImportEntry{
					Service:    ServiceName,
					UserID:     userID,
					SourceID:   gc.ResourceName,
					EntityKind: string(models.KindLead),
					EntityID:   lead.ID,
					ImportedAt: lead.CreatedAt,
				})
			})
			if err != nil {
				li.log.Warn("failed to import contact", "resource", gc.ResourceName, "err", err)
				result.Failed++
				continue
			}
			matcher.Add(gc.Email)
			result.Created++
		}

		li.log.Debug("imported page", "fetched", result.Fetched, "created", result.Created)

		pageToken = response.NextPageToken
		if pageToken == "" {
			break
		}
	}

	li.log.Info("google contacts import finished",
		"user", userID, "fetched", result.Fetched, "created", result.Created,
		"duplicates", result.Duplicates, "skipped", result.Skipped, "failed", result.Failed)
	return result, nil
}

// LeadFields maps the contact onto a new lead owned by userID.
func (gc *GoogleContact) LeadFields(userID string) *models.LeadFields {
	in := &models.LeadFields{
		FirstName: patch.Value(gc.FirstName),
		LastName:  patch.Value(gc.LastName),
		Email:     patch.Value(gc.Email),
		Source:    patch.Value(LeadSource),
		UserID:    patch.Value(userID),
	}
	optional := []struct {
		dst *patch.Field[string]
		v   string
	}{
		{&in.Phone, gc.Phone},
		{&in.Company, gc.Company},
		{&in.JobTitle, gc.JobTitle},
		{&in.Notes, gc.Notes},
	}
	for _, o := range optional {
		if o.v != "" {
			*o.dst = patch.Value(o.v)
		}
	}
	return in
}

// convertPerson converts a People API Person to GoogleContact.
func convertPerson(person *people.Person) *GoogleContact {
	gc := &GoogleContact{ResourceName: person.ResourceName}

	if len(person.Names) > 0 {
		name := person.Names[0]
		gc.FirstName = strings.TrimSpace(name.GivenName)
		gc.LastName = strings.TrimSpace(name.FamilyName)
		if gc.FirstName == "" && gc.LastName == "" {
			gc.FirstName, gc.LastName = splitName(name.DisplayName)
		}
	}

	// Prefer primary, otherwise first available
	for _, email := range person.EmailAddresses {
		if email.Value == "" {
			continue
		}
		if gc.Email == "" {
			gc.Email = email.Value
		}
		if email.Metadata != nil && email.Metadata.Primary {
			gc.Email = email.Value
			break
		}
	}

	for _, phone := range person.PhoneNumbers {
		if phone.Value == "" {
			continue
		}
		if gc.Phone == "" {
			gc.Phone = phone.Value
		}
		if phone.Metadata != nil && phone.Metadata.Primary {
			gc.Phone = phone.Value
			break
		}
	}

	if len(person.Organizations) > 0 {
		org := person.Organizations[0]
		gc.Company = org.Name
		gc.JobTitle = org.Title
	}

	if len(person.Biographies) > 0 {
		gc.Notes = person.Biographies[0].Value
	}

	return gc
}

// splitName puts the last word in the last name and everything before it in the first.
func splitName(display string) (first, last string) {
	parts := strings.Fields(display)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], ""
	}
	return strings.Join(parts[:len(parts)-1], " "), parts[len(parts)-1]
}
