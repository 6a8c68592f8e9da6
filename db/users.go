// ABOUTME: User database operations
// ABOUTME: Users own every other record and carry a unique email
package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/harperreed/crmcore/models"
)

type scanner interface {
	Scan(dest ...any) error
}

const userColumns = `id, email, name, created_at, updated_at`

func scanUser(s scanner) (*models.User, error) {
	u := &models.User{}
	err := s.Scan(&u.ID, &u.Email, &u.Name, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

func CreateUser(ctx context.Context, q Querier, u *models.User) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES (?, ?, ?, ?, ?)
	`, u.ID, u.Email, u.Name, u.CreatedAt, u.UpdatedAt)
	return mapError("create user", err)
}

func GetUser(ctx context.Context, q Querier, id string) (*models.User, error) {
	row := q.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err != nil {
		return nil, rowError("user", id, "get user", err)
	}
	return u, nil
}

func ListUsers(ctx context.Context, q Querier) ([]models.User, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at, id`)
	if err != nil {
		return nil, mapError("list users", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, mapError("scan user", err)
		}
		users = append(users, *u)
	}
	return users, mapError("list users", rows.Err())
}

func UpdateUser(ctx context.Context, q Querier, u *models.User) error {
	res, err := q.ExecContext(ctx, `
		UPDATE users SET email = ?, name = ?, updated_at = ?
		WHERE id = ?
	`, u.Email, u.Name, u.UpdatedAt, u.ID)
	return affected("user", u.ID, "update user", res, err)
}

func DeleteUser(ctx context.Context, q Querier, id string) error {
	res, err := q.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	return affected("user", id, "delete user", res, err)
}

// FindUserByEmail returns nil, nil when no user has the address.
func FindUserByEmail(ctx context.Context, q Querier, email string) (*models.User, error) {
	row := q.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, mapError("find user", err)
	}
	return u, nil
}
