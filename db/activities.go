// ABOUTME: Activity database operations
// ABOUTME: Activities are tasks, calls, and meetings tied to contacts, companies, or deals
package db

import (
	"context"

	"github.com/harperreed/crmcore/models"
)

const activityColumns = `id, title, type, description, status, due_date, completed_at, priority, user_id, contact_id, company_id, deal_id, created_at, updated_at`

func scanActivity(s scanner) (*models.Activity, error) {
	a := &models.Activity{}
	err := s.Scan(&a.ID, &a.Title, &a.Type, &a.Description, &a.Status, &a.DueDate, &a.CompletedAt, &a.Priority, &a.UserID, &a.ContactID, &a.CompanyID, &a.DealID, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

func CreateActivity(ctx context.Context, q Querier, a *models.Activity) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO activities (`+activityColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, a.ID, a.Title, a.Type, a.Description, a.Status, a.DueDate, a.CompletedAt, a.Priority, a.UserID, a.ContactID, a.CompanyID, a.DealID, a.CreatedAt, a.UpdatedAt)
	return mapError("create activity", err)
}

func GetActivity(ctx context.Context, q Querier, id string) (*models.Activity, error) {
	row := q.QueryRowContext(ctx, `SELECT `+activityColumns+` FROM activities WHERE id = ?`, id)
	a, err := scanActivity(row)
	if err != nil {
		return nil, rowError("activity", id, "get activity", err)
	}
	return a, nil
}

func ListActivities(ctx context.Context, q Querier) ([]models.Activity, error) {
	return queryActivities(ctx, q, `SELECT `+activityColumns+` FROM activities ORDER BY created_at, id`)
}

func queryActivities(ctx context.Context, q Querier, query string, args ...any) ([]models.Activity, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError("list activities", err)
	}
	defer rows.Close()

	var out []models.Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, mapError("scan activity", err)
		}
		out = append(out, *a)
	}
	return out, mapError("list activities", rows.Err())
}

func UpdateActivity(ctx context.Context, q Querier, a *models.Activity) error {
	res, err := q.ExecContext(ctx, `
		UPDATE activities SET
			title = ?,
			type = ?,
			description = ?,
			status = ?,
			due_date = ?,
			completed_at = ?,
			priority = ?,
			user_id = ?,
			contact_id = ?,
			company_id = ?,
			deal_id = ?,
			updated_at = ?
		WHERE id = ?
	`, a.Title, a.Type, a.Description, a.Status, a.DueDate, a.CompletedAt, a.Priority, a.UserID, a.ContactID, a.CompanyID, a.DealID, a.UpdatedAt, a.ID)
	return affected("activity", a.ID, "update activity", res, err)
}

func DeleteActivity(ctx context.Context, q Querier, id string) error {
	res, err := q.ExecContext(ctx, `DELETE FROM activities WHERE id = ?`, id)
	return affected("activity", id, "delete activity", res, err)
}
