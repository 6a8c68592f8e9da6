// ABOUTME: Referential integrity checks run inside the write transaction
// ABOUTME: The first foreign key that names no stored record fails the whole write
package crm

import (
	"context"

	"github.com/harperreed/crmcore/crmerr"
	"github.com/harperreed/crmcore/db"
	"github.com/harperreed/crmcore/models"
)

func checkReferences(ctx context.Context, q db.Querier, refs []models.Ref) error {
	for _, ref := range refs {
		if ref.ID == "" {
			continue
		}
		ok, err := db.Exists(ctx, q, ref.Kind, ref.ID)
		if err != nil {
			return err
		}
		if !ok {
			return crmerr.Reference(ref.Field, string(ref.Kind), ref.ID)
		}
	}
	return nil
}
