// ABOUTME: Lead database operations
// ABOUTME: Leads track prospects until they are converted into contacts
package db

import (
	"context"

	"github.com/harperreed/crmcore/models"
)

const leadColumns = `id, first_name, last_name, email, phone, company, job_title, source, status, score, notes, converted_to_contact_id, user_id, created_at, updated_at`

func scanLead(s scanner) (*models.Lead, error) {
	l := &models.Lead{}
	err := s.Scan(&l.ID, &l.FirstName, &l.LastName, &l.Email, &l.Phone, &l.Company, &l.JobTitle, &l.Source, &l.Status, &l.Score, &l.Notes, &l.ConvertedToContactID, &l.UserID, &l.CreatedAt, &l.UpdatedAt)
	return l, err
}

func CreateLead(ctx context.Context, q Querier, l *models.Lead) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO leads (`+leadColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, l.ID, l.FirstName, l.LastName, l.Email, l.Phone, l.Company, l.JobTitle, l.Source, l.Status, l.Score, l.Notes, l.ConvertedToContactID, l.UserID, l.CreatedAt, l.UpdatedAt)
	return mapError("create lead", err)
}

func GetLead(ctx context.Context, q Querier, id string) (*models.Lead, error) {
	row := q.QueryRowContext(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = ?`, id)
	l, err := scanLead(row)
	if err != nil {
		return nil, rowError("lead", id, "get lead", err)
	}
	return l, nil
}

func ListLeads(ctx context.Context, q Querier) ([]models.Lead, error) {
	return queryLeads(ctx, q, `SELECT `+leadColumns+` FROM leads ORDER BY created_at, id`)
}

func queryLeads(ctx context.Context, q Querier, query string, args ...any) ([]models.Lead, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError("list leads", err)
	}
	defer rows.Close()

	var out []models.Lead
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, mapError("scan lead", err)
		}
		out = append(out, *l)
	}
	return out, mapError("list leads", rows.Err())
}

func UpdateLead(ctx context.Context, q Querier, l *models.Lead) error {
	res, err := q.ExecContext(ctx, `
		UPDATE leads SET
			first_name = ?,
			last_name = ?,
			email = ?,
			phone = ?,
			company = ?,
			job_title = ?,
			source = ?,
			status = ?,
			score = ?,
			notes = ?,
			converted_to_contact_id = ?,
			user_id = ?,
			updated_at = ?
		WHERE id = ?
	`, l.FirstName, l.LastName, l.Email, l.Phone, l.Company, l.JobTitle, l.Source, l.Status, l.Score, l.Notes, l.ConvertedToContactID, l.UserID, l.UpdatedAt, l.ID)
	return affected("lead", l.ID, "update lead", res, err)
}

func DeleteLead(ctx context.Context, q Querier, id string) error {
	res, err := q.ExecContext(ctx, `DELETE FROM leads WHERE id = ?`, id)
	return affected("lead", id, "delete lead", res, err)
}
