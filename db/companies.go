// ABOUTME: Company database operations
// ABOUTME: Companies carry firmographic fields and belong to a user
package db

import (
	"context"

	"github.com/harperreed/crmcore/models"
)

const companyColumns = `id, name, industry, website, phone, address, city, state, country, size, revenue, description, user_id, created_at, updated_at`

func scanCompany(s scanner) (*models.Company, error) {
	c := &models.Company{}
	err := s.Scan(&c.ID, &c.Name, &c.Industry, &c.Website, &c.Phone, &c.Address, &c.City, &c.State, &c.Country, &c.Size, &c.Revenue, &c.Description, &c.UserID, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func CreateCompany(ctx context.Context, q Querier, c *models.Company) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO companies (`+companyColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, c.ID, c.Name, c.Industry, c.Website, c.Phone, c.Address, c.City, c.State, c.Country, c.Size, c.Revenue, c.Description, c.UserID, c.CreatedAt, c.UpdatedAt)
	return mapError("create company", err)
}

func GetCompany(ctx context.Context, q Querier, id string) (*models.Company, error) {
	row := q.QueryRowContext(ctx, `SELECT `+companyColumns+` FROM companies WHERE id = ?`, id)
	c, err := scanCompany(row)
	if err != nil {
		return nil, rowError("company", id, "get company", err)
	}
	return c, nil
}

func ListCompanies(ctx context.Context, q Querier) ([]models.Company, error) {
	return queryCompanies(ctx, q, `SELECT `+companyColumns+` FROM companies ORDER BY created_at, id`)
}

func queryCompanies(ctx context.Context, q Querier, query string, args ...any) ([]models.Company, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError("list companies", err)
	}
	defer rows.Close()

	var out []models.Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, mapError("scan company", err)
		}
		out = append(out, *c)
	}
	return out, mapError("list companies", rows.Err())
}

func UpdateCompany(ctx context.Context, q Querier, c *models.Company) error {
	res, err := q.ExecContext(ctx, `
		UPDATE companies SET
			name = ?,
			industry = ?,
			website = ?,
			phone = ?,
			address = ?,
			city = ?,
			state = ?,
			country = ?,
			size = ?,
			revenue = ?,
			description = ?,
			user_id = ?,
			updated_at = ?
		WHERE id = ?
	`, c.Name, c.Industry, c.Website, c.Phone, c.Address, c.City, c.State, c.Country, c.Size, c.Revenue, c.Description, c.UserID, c.UpdatedAt, c.ID)
	return affected("company", c.ID, "update company", res, err)
}

func DeleteCompany(ctx context.Context, q Querier, id string) error {
	res, err := q.ExecContext(ctx, `DELETE FROM companies WHERE id = ?`, id)
	return affected("company", id, "delete company", res, err)
}
