// ABOUTME: Deal database operations
// ABOUTME: Handles deal rows with stage, probability, and close dates
package db

import (
	"context"

	"github.com/harperreed/crmcore/models"
)

const dealColumns = `id, title, value, description, stage, probability, expected_close_date, actual_close_date, user_id, contact_id, company_id, created_at, updated_at`

func scanDeal(s scanner) (*models.Deal, error) {
	d := &models.Deal{}
	err := s.Scan(&d.ID, &d.Title, &d.Value, &d.Description, &d.Stage, &d.Probability, &d.ExpectedCloseDate, &d.ActualCloseDate, &d.UserID, &d.ContactID, &d.CompanyID, &d.CreatedAt, &d.UpdatedAt)
	return d, err
}

func CreateDeal(ctx context.Context, q Querier, d *models.Deal) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO deals (`+dealColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, d.ID, d.Title, d.Value, d.Description, d.Stage, d.Probability, d.ExpectedCloseDate, d.ActualCloseDate, d.UserID, d.ContactID, d.CompanyID, d.CreatedAt, d.UpdatedAt)
	return mapError("create deal", err)
}

func GetDeal(ctx context.Context, q Querier, id string) (*models.Deal, error) {
	row := q.QueryRowContext(ctx, `SELECT `+dealColumns+` FROM deals WHERE id = ?`, id)
	d, err := scanDeal(row)
	if err != nil {
		return nil, rowError("deal", id, "get deal", err)
	}
	return d, nil
}

func ListDeals(ctx context.Context, q Querier) ([]models.Deal, error) {
	return queryDeals(ctx, q, `SELECT `+dealColumns+` FROM deals ORDER BY created_at, id`)
}

func queryDeals(ctx context.Context, q Querier, query string, args ...any) ([]models.Deal, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError("list deals", err)
	}
	defer rows.Close()

	var out []models.Deal
	for rows.Next() {
		d, err := scanDeal(rows)
		if err != nil {
			return nil, mapError("scan deal", err)
		}
		out = append(out, *d)
	}
	return out, mapError("list deals", rows.Err())
}

func UpdateDeal(ctx context.Context, q Querier, d *models.Deal) error {
	res, err := q.ExecContext(ctx, `
		UPDATE deals SET
			title = ?,
			value = ?,
			description = ?,
			stage = ?,
			probability = ?,
			expected_close_date = ?,
			actual_close_date = ?,
			user_id = ?,
			contact_id = ?,
			company_id = ?,
			updated_at = ?
		WHERE id = ?
	`, d.Title, d.Value, d.Description, d.Stage, d.Probability, d.ExpectedCloseDate, d.ActualCloseDate, d.UserID, d.ContactID, d.CompanyID, d.UpdatedAt, d.ID)
	return affected("deal", d.ID, "update deal", res, err)
}

func DeleteDeal(ctx context.Context, q Querier, id string) error {
	res, err := q.ExecContext(ctx, `DELETE FROM deals WHERE id = ?`, id)
	return affected("deal", id, "delete deal", res, err)
}
