// ABOUTME: Per-user listings used by the ownership graph and the contacts import
// ABOUTME: Returns every record a user owns, grouped by kind
package db

import (
	"context"

	"github.com/harperreed/crmcore/models"
)

// Owned groups the records belonging to one user.
type Owned struct {
	User       *models.User
	Contacts   []models.Contact
	Companies  []models.Company
	Deals      []models.Deal
	Leads      []models.Lead
	Activities []models.Activity
	Notes      []models.Note
}

func ListOwned(ctx context.Context, q Querier, userID string) (*Owned, error) {
	user, err := GetUser(ctx, q, userID)
	if err != nil {
		return nil, err
	}

	o := &Owned{User: user}
	const where = ` WHERE user_id = ? ORDER BY created_at, id`
	if o.Contacts, err = queryContacts(ctx, q, `SELECT `+contactColumns+` FROM contacts`+where, userID); err != nil {
		return nil, err
	}
	if o.Companies, err = queryCompanies(ctx, q, `SELECT `+companyColumns+` FROM companies`+where, userID); err != nil {
		return nil, err
	}
	if o.Deals, err = queryDeals(ctx, q, `SELECT `+dealColumns+` FROM deals`+where, userID); err != nil {
		return nil, err
	}
	if o.Leads, err = queryLeads(ctx, q, `SELECT `+leadColumns+` FROM leads`+where, userID); err != nil {
		return nil, err
	}
	if o.Activities, err = queryActivities(ctx, q, `SELECT `+activityColumns+` FROM activities`+where, userID); err != nil {
		return nil, err
	}
	if o.Notes, err = queryNotes(ctx, q, `SELECT `+noteColumns+` FROM notes`+where, userID); err != nil {
		return nil, err
	}
	return o, nil
}

// KnownEmails returns the lowercased emails of a user's leads and contacts.
func KnownEmails(ctx context.Context, q Querier, userID string) (map[string]bool, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT LOWER(email) FROM leads WHERE user_id = ?
		UNION
		SELECT LOWER(email) FROM contacts WHERE user_id = ?
	`, userID, userID)
	if err != nil {
		return nil, mapError("list known emails", err)
	}
	defer rows.Close()

	seen := make(map[string]bool)
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, mapError("scan email", err)
		}
		seen[email] = true
	}
	return seen, mapError("list known emails", rows.Err())
}
