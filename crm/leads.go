// ABOUTME: Lead lifecycle: status rules and conversion into a contact
// ABOUTME: Conversion writes the new contact and the converted lead in a single transaction
package crm

import (
	"context"
	"database/sql"
	"strings"

	"github.com/harperreed/crmcore/crmerr"
	"github.com/harperreed/crmcore/db"
	"github.com/harperreed/crmcore/models"
)

// Conversion is the result of converting a lead.
type Conversion struct {
	Lead    *models.Lead    `json:"lead"`
	Contact *models.Contact `json:"contact"`
}

func (s *Service) CreateLead(ctx context.Context, in *models.LeadFields) (*models.Lead, error) {
	return s.CreateLeadWith(ctx, in, nil)
}

// CreateLeadWith creates a lead and runs also in the same transaction once the row
// is written. An error from also leaves no lead behind.
func (s *Service) CreateLeadWith(ctx context.Context, in *models.LeadFields, also func(q db.Querier, lead *models.Lead) error) (*models.Lead, error) {
	if status, ok := in.Status.Get(); ok && status == models.LeadConverted {
		return nil, crmerr.Validation("status", "a lead can only become Converted through conversion")
	}
	l := models.NewLead()
	if _, err := in.ApplyTo(l); err != nil {
		return nil, err
	}
	var hooks []func(tx *sql.Tx) error
	if also != nil {
		hooks = append(hooks, func(tx *sql.Tx) error { return also(tx, l) })
	}
	if err := s.insert(ctx, l, hooks...); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *Service) UpdateLead(ctx context.Context, id string, in *models.LeadFields) (*models.Lead, error) {
	return update(ctx, s, models.KindLead, id, func(l *models.Lead) ([]models.Ref, error) {
		prev := l.Status
		refs, err := in.ApplyTo(l)
		if err != nil {
			return nil, err
		}
		switch {
		case prev == models.LeadConverted && l.Status != prev:
			return nil, crmerr.Conflict("lead %q is converted; its status cannot change", l.ID)
		case prev != models.LeadConverted && l.Status == models.LeadConverted:
			return nil, crmerr.Conflict("lead %q must be converted with convert_lead", l.ID)
		}
		return refs, nil
	})
}

// ConvertLead materializes a contact from the lead and marks the lead Converted.
// A second conversion of the same lead fails with a conflict and writes nothing.
func (s *Service) ConvertLead(ctx context.Context, leadID string, companyID *string) (*Conversion, error) {
	if companyID != nil && strings.TrimSpace(*companyID) == "" {
		companyID = nil
	}

	var out *Conversion
	err := db.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		lead, err := db.GetLead(ctx, tx, leadID)
		if err != nil {
			return err
		}
		if lead.Status == models.LeadConverted {
			return crmerr.Conflict("lead %q is already converted", leadID)
		}

		contact := &models.Contact{
			FirstName: lead.FirstName,
			LastName:  lead.LastName,
			Email:     lead.Email,
			Phone:     lead.Phone,
			UserID:    lead.UserID,
			CompanyID: companyID,
		}
		if err := contact.Validate(); err != nil {
			return err
		}
		if err := checkReferences(ctx, tx, contact.References()); err != nil {
			return err
		}

		now := s.timestamp()
		contact.Stamp(s.newID(), now)
		if err := db.CreateContact(ctx, tx, contact); err != nil {
			return err
		}

		lead.Status = models.LeadConverted
		lead.ConvertedToContactID = &contact.ID
		lead.Touch(now)
		if err := db.UpdateLead(ctx, tx, lead); err != nil {
			return err
		}

		out = &Conversion{Lead: lead, Contact: contact}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("converted lead", "lead", leadID, "contact", out.Contact.ID)
	return out, nil
}
