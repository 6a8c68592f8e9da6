// ABOUTME: Contact database operations
// ABOUTME: Contacts belong to a user and optionally to a company
package db

import (
	"context"

	"github.com/harperreed/crmcore/models"
)

const contactColumns = `id, first_name, last_name, email, phone, address, user_id, company_id, created_at, updated_at`

func scanContact(s scanner) (*models.Contact, error) {
	c := &models.Contact{}
	err := s.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Phone, &c.Address, &c.UserID, &c.CompanyID, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func CreateContact(ctx context.Context, q Querier, c *models.Contact) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO contacts (`+contactColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, c.ID, c.FirstName, c.LastName, c.Email, c.Phone, c.Address, c.UserID, c.CompanyID, c.CreatedAt, c.UpdatedAt)
	return mapError("create contact", err)
}

func GetContact(ctx context.Context, q Querier, id string) (*models.Contact, error) {
	row := q.QueryRowContext(ctx, `SELECT `+contactColumns+` FROM contacts WHERE id = ?`, id)
	c, err := scanContact(row)
	if err != nil {
		return nil, rowError("contact", id, "get contact", err)
	}
	return c, nil
}

func ListContacts(ctx context.Context, q Querier) ([]models.Contact, error) {
	return queryContacts(ctx, q, `SELECT `+contactColumns+` FROM contacts ORDER BY created_at, id`)
}

func queryContacts(ctx context.Context, q Querier, query string, args ...any) ([]models.Contact, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError("list contacts", err)
	}
	defer rows.Close()

	var out []models.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, mapError("scan contact", err)
		}
		out = append(out, *c)
	}
	return out, mapError("list contacts", rows.Err())
}

func UpdateContact(ctx context.Context, q Querier, c *models.Contact) error {
	res, err := q.ExecContext(ctx, `
		UPDATE contacts SET
			first_name = ?,
			last_name = ?,
			email = ?,
			phone = ?,
			address = ?,
			user_id = ?,
			company_id = ?,
			updated_at = ?
		WHERE id = ?
	`, c.FirstName, c.LastName, c.Email, c.Phone, c.Address, c.UserID, c.CompanyID, c.UpdatedAt, c.ID)
	return affected("contact", c.ID, "update contact", res, err)
}

func DeleteContact(ctx context.Context, q Querier, id string) error {
	res, err := q.ExecContext(ctx, `DELETE FROM contacts WHERE id = ?`, id)
	return affected("contact", id, "delete contact", res, err)
}
