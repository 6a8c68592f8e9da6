// ABOUTME: Delete policy for every entity
// ABOUTME: Users and converted contacts are restricted; contacts, companies, and deals detach referrers
package crm

import (
	"context"
	"database/sql"

	"github.com/harperreed/crmcore/crmerr"
	"github.com/harperreed/crmcore/db"
	"github.com/harperreed/crmcore/models"
)

// Delete removes one record. Deleting a user who still owns records is a conflict, as is
// deleting the contact a lead was converted into. Deleting a contact, company, or deal
// otherwise nulls the optional references pointing at it.
func (s *Service) Delete(ctx context.Context, kind models.Kind, id string) error {
	var detached int64
	err := db.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		switch kind {
		case models.KindUser:
			owned, err := db.CountOwned(ctx, tx, id)
			if err != nil {
				return err
			}
			if owned > 0 {
				return crmerr.Conflict("user %q still owns %d records", id, owned)
			}
		case models.KindContact, models.KindCompany, models.KindDeal:
			if kind == models.KindContact {
				leadID, err := db.ConvertedFrom(ctx, tx, id)
				if err != nil {
					return err
				}
				if leadID != "" {
					return crmerr.Conflict("contact %q was converted from lead %q", id, leadID)
				}
			}
			n, err := db.DetachReferences(ctx, tx, kind, id, s.timestamp())
			if err != nil {
				return err
			}
			detached = n
		}
		return db.DeleteRecord(ctx, tx, kind, id)
	})
	if err != nil {
		return err
	}

	s.log.Info("deleted record", "kind", kind, "id", id, "detached", detached)
	return nil
}
