// ABOUTME: Note database operations
// ABOUTME: Free-form notes attached to contacts, companies, or deals
package db

import (
	"context"

	"github.com/harperreed/crmcore/models"
)

const noteColumns = `id, title, content, user_id, contact_id, company_id, deal_id, created_at, updated_at`

func scanNote(s scanner) (*models.Note, error) {
	n := &models.Note{}
	err := s.Scan(&n.ID, &n.Title, &n.Content, &n.UserID, &n.ContactID, &n.CompanyID, &n.DealID, &n.CreatedAt, &n.UpdatedAt)
	return n, err
}

func CreateNote(ctx context.Context, q Querier, n *models.Note) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO notes (`+noteColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, n.ID, n.Title, n.Content, n.UserID, n.ContactID, n.CompanyID, n.DealID, n.CreatedAt, n.UpdatedAt)
	return mapError("create note", err)
}

func GetNote(ctx context.Context, q Querier, id string) (*models.Note, error) {
	row := q.QueryRowContext(ctx, `SELECT `+noteColumns+` FROM notes WHERE id = ?`, id)
	n, err := scanNote(row)
	if err != nil {
		return nil, rowError("note", id, "get note", err)
	}
	return n, nil
}

func ListNotes(ctx context.Context, q Querier) ([]models.Note, error) {
	return queryNotes(ctx, q, `SELECT `+noteColumns+` FROM notes ORDER BY created_at, id`)
}

func queryNotes(ctx context.Context, q Querier, query string, args ...any) ([]models.Note, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError("list notes", err)
	}
	defer rows.Close()

	var out []models.Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, mapError("scan note", err)
		}
		out = append(out, *n)
	}
	return out, mapError("list notes", rows.Err())
}

func UpdateNote(ctx context.Context, q Querier, n *models.Note) error {
	res, err := q.ExecContext(ctx, `
		UPDATE notes SET
			title = ?,
			content = ?,
			user_id = ?,
			contact_id = ?,
			company_id = ?,
			deal_id = ?,
			updated_at = ?
		WHERE id = ?
	`, n.Title, n.Content, n.UserID, n.ContactID, n.CompanyID, n.DealID, n.UpdatedAt, n.ID)
	return affected("note", n.ID, "update note", res, err)
}

func DeleteNote(ctx context.Context, q Querier, id string) error {
	res, err := q.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id)
	return affected("note", id, "delete note", res, err)
}
