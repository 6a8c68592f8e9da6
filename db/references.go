// ABOUTME: Cross-table lookups used by referential integrity and delete policy
// ABOUTME: Existence checks, ownership counts, and nulling of dangling foreign keys
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/harperreed/crmcore/models"
)

// Exists reports whether a record of kind k with the given id is stored.
func Exists(ctx context.Context, q Querier, k models.Kind, id string) (bool, error) {
	table := k.Table()
	if table == "" {
		return false, fmt.Errorf("unknown entity %q", k)
	}

	var found int
	err := q.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM `+table+` WHERE id = ?)`, id).Scan(&found)
	if err != nil {
		return false, mapError("check "+string(k), err)
	}
	return found == 1, nil
}

var ownedTables = []string{"contacts", "companies", "deals", "leads", "activities", "notes"}

// CountOwned returns how many records of any kind belong to userID.
func CountOwned(ctx context.Context, q Querier, userID string) (int, error) {
	total := 0
	for _, table := range ownedTables {
		var n int
		err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+table+` WHERE user_id = ?`, userID).Scan(&n)
		if err != nil {
			return 0, mapError("count "+table, err)
		}
		total += n
	}
	return total, nil
}

// ConvertedFrom returns the id of the lead that was converted into contactID, or "" if none.
func ConvertedFrom(ctx context.Context, q Querier, contactID string) (string, error) {
	var leadID string
	err := q.QueryRowContext(ctx,
		`SELECT id FROM leads WHERE converted_to_contact_id = ? LIMIT 1`, contactID).Scan(&leadID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", mapError("find converted lead", err)
	}
	return leadID, nil
}

type fkColumn struct {
	table  string
	column string
}

// referrers lists every nullable column that may hold an id of the keyed kind.
var referrers = map[models.Kind][]fkColumn{
	models.KindContact: {
		{"deals", "contact_id"},
		{"activities", "contact_id"},
		{"notes", "contact_id"},
	},
	models.KindCompany: {
		{"contacts", "company_id"},
		{"deals", "company_id"},
		{"activities", "company_id"},
		{"notes", "company_id"},
	},
	models.KindDeal: {
		{"activities", "deal_id"},
		{"notes", "deal_id"},
	},
}

// DetachReferences nulls every optional foreign key pointing at kind k / id,
// touching updated_at on the rows it changes. Returns the number of rows changed.
func DetachReferences(ctx context.Context, q Querier, k models.Kind, id string, at time.Time) (int64, error) {
	var total int64
	for _, fk := range referrers[k] {
		res, err := q.ExecContext(ctx,
			`UPDATE `+fk.table+` SET `+fk.column+` = NULL, updated_at = ? WHERE `+fk.column+` = ?`,
			at, id)
		if err != nil {
			return 0, mapError("detach "+fk.table+"."+fk.column, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, mapError("detach "+fk.table+"."+fk.column, err)
		}
		total += n
	}
	return total, nil
}
