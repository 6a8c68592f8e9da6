// ABOUTME: Create and update paths shared by every entity
// ABOUTME: Merge, validate, integrity-check, then write, all inside one transaction
package crm

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/harperreed/crmcore/crmerr"
	"github.com/harperreed/crmcore/db"
	"github.com/harperreed/crmcore/models"
)

// insert validates rec, assigns identity, and writes it once every reference resolves.
// Each of also runs in the same transaction after the row is written.
func (s *Service) insert(ctx context.Context, rec models.Record, also ...func(tx *sql.Tx) error) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	rec.Stamp(s.newID(), s.timestamp())

	err := db.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := checkReferences(ctx, tx, rec.References()); err != nil {
			return err
		}
		if err := db.InsertRecord(ctx, tx, rec); err != nil {
			return err
		}
		for _, fn := range also {
			if err := fn(tx); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info("created record", "kind", rec.RecordKind(), "id", rec.RecordID())
	return nil
}

// update loads the record, merges, validates, checks only the references the payload
// named, and writes. A failure at any step leaves the stored row untouched.
func update[R models.Record](ctx context.Context, s *Service, kind models.Kind, id string, merge func(rec R) ([]models.Ref, error)) (R, error) {
	var out R
	err := db.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		rec, err := db.GetRecord(ctx, tx, kind, id)
		if err != nil {
			return err
		}
		r, ok := rec.(R)
		if !ok {
			return fmt.Errorf("unexpected %T for %s", rec, kind)
		}

		refs, err := merge(r)
		if err != nil {
			return err
		}
		if err := r.Validate(); err != nil {
			return err
		}
		if err := checkReferences(ctx, tx, refs); err != nil {
			return err
		}

		r.Touch(s.timestamp())
		if err := db.UpdateRecord(ctx, tx, r); err != nil {
			return err
		}
		out = r
		return nil
	})
	if err != nil {
		var zero R
		return zero, err
	}

	s.log.Info("updated record", "kind", kind, "id", id)
	return out, nil
}

func (s *Service) CreateUser(ctx context.Context, in *models.UserFields) (*models.User, error) {
	u := &models.User{}
	if _, err := in.ApplyTo(u); err != nil {
		return nil, err
	}
	if err := s.insert(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) UpdateUser(ctx context.Context, id string, in *models.UserFields) (*models.User, error) {
	return update(ctx, s, models.KindUser, id, func(u *models.User) ([]models.Ref, error) {
		return in.ApplyTo(u)
	})
}

func (s *Service) CreateContact(ctx context.Context, in *models.ContactFields) (*models.Contact, error) {
	c := &models.Contact{}
	if _, err := in.ApplyTo(c); err != nil {
		return nil, err
	}
	if err := s.insert(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) UpdateContact(ctx context.Context, id string, in *models.ContactFields) (*models.Contact, error) {
	return update(ctx, s, models.KindContact, id, func(c *models.Contact) ([]models.Ref, error) {
		return in.ApplyTo(c)
	})
}

func (s *Service) CreateCompany(ctx context.Context, in *models.CompanyFields) (*models.Company, error) {
	c := &models.Company{}
	if _, err := in.ApplyTo(c); err != nil {
		return nil, err
	}
	if err := s.insert(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) UpdateCompany(ctx context.Context, id string, in *models.CompanyFields) (*models.Company, error) {
	return update(ctx, s, models.KindCompany, id, func(c *models.Company) ([]models.Ref, error) {
		return in.ApplyTo(c)
	})
}

func (s *Service) CreateDeal(ctx context.Context, in *models.DealFields) (*models.Deal, error) {
	if !in.Value.IsSet() {
		return nil, crmerr.Validation("value", "is required")
	}
	d := models.NewDeal()
	if _, err := in.ApplyTo(d); err != nil {
		return nil, err
	}
	if err := s.insert(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Service) UpdateDeal(ctx context.Context, id string, in *models.DealFields) (*models.Deal, error) {
	return update(ctx, s, models.KindDeal, id, func(d *models.Deal) ([]models.Ref, error) {
		return in.ApplyTo(d)
	})
}

func (s *Service) CreateNote(ctx context.Context, in *models.NoteFields) (*models.Note, error) {
	n := &models.Note{}
	if _, err := in.ApplyTo(n); err != nil {
		return nil, err
	}
	if err := s.insert(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *Service) UpdateNote(ctx context.Context, id string, in *models.NoteFields) (*models.Note, error) {
	return update(ctx, s, models.KindNote, id, func(n *models.Note) ([]models.Ref, error) {
		return in.ApplyTo(n)
	})
}
