// ABOUTME: Kind-generic operations over loosely typed payloads
// ABOUTME: Decodes caller-supplied field maps and routes them to the typed operations
package crm

import (
	"context"
	"fmt"

	"github.com/harperreed/crmcore/db"
	"github.com/harperreed/crmcore/models"
	"github.com/harperreed/crmcore/patch"
)

func (s *Service) Get(ctx context.Context, kind models.Kind, id string) (models.Record, error) {
	s.log.Debug("get record", "kind", kind, "id", id)
	return db.GetRecord(ctx, s.db, kind, id)
}

func (s *Service) List(ctx context.Context, kind models.Kind) ([]models.Record, error) {
	s.log.Debug("list records", "kind", kind)
	return db.ListRecords(ctx, s.db, kind)
}

// DecodeFields turns a caller payload into the typed fields for kind.
func DecodeFields(kind models.Kind, payload map[string]any) (models.Fields, error) {
	fields, err := models.NewFields(kind)
	if err != nil {
		return nil, err
	}
	if err := patch.DecodeMap(payload, fields); err != nil {
		return nil, err
	}
	return fields, nil
}

func (s *Service) Create(ctx context.Context, kind models.Kind, payload map[string]any) (models.Record, error) {
	fields, err := DecodeFields(kind, payload)
	if err != nil {
		return nil, err
	}

	switch in := fields.(type) {
	case *models.UserFields:
		return record(s.CreateUser(ctx, in))
	case *models.ContactFields:
		return record(s.CreateContact(ctx, in))
	case *models.CompanyFields:
		return record(s.CreateCompany(ctx, in))
	case *models.DealFields:
		return record(s.CreateDeal(ctx, in))
	case *models.LeadFields:
		return record(s.CreateLead(ctx, in))
	case *models.ActivityFields:
		return record(s.CreateActivity(ctx, in))
	case *models.NoteFields:
		return record(s.CreateNote(ctx, in))
	}
	return nil, fmt.Errorf("unsupported entity %q", kind)
}

func (s *Service) Update(ctx context.Context, kind models.Kind, id string, payload map[string]any) (models.Record, error) {
	fields, err := DecodeFields(kind, payload)
	if err != nil {
		return nil, err
	}

	switch in := fields.(type) {
	case *models.UserFields:
		return record(s.UpdateUser(ctx, id, in))
	case *models.ContactFields:
		return record(s.UpdateContact(ctx, id, in))
	case *models.CompanyFields:
		return record(s.UpdateCompany(ctx, id, in))
	case *models.DealFields:
		return record(s.UpdateDeal(ctx, id, in))
	case *models.LeadFields:
		return record(s.UpdateLead(ctx, id, in))
	case *models.ActivityFields:
		return record(s.UpdateActivity(ctx, id, in))
	case *models.NoteFields:
		return record(s.UpdateNote(ctx, id, in))
	}
	return nil, fmt.Errorf("unsupported entity %q", kind)
}

// record keeps a nil typed pointer from becoming a non-nil models.Record.
func record[T any, P interface {
	*T
	models.Record
}](rec P, err error) (models.Record, error) {
	if err != nil {
		return nil, err
	}
	return rec, nil
}
