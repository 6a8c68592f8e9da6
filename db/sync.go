// ABOUTME: Database operations for sync_state and sync_log tables
// ABOUTME: Tracks import runs and which external records already became leads, per user
package db

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Sync statuses recorded in sync_state.
const (
	SyncIdle    = "idle"
	SyncRunning = "running"
	SyncError   = "error"
)

// SyncState is the last known state of one import source for one user.
type SyncState struct {
	Service      string
	UserID       string
	LastSyncTime *time.Time
	Status       string
	ErrorMessage *string
	Imported     int
	UpdatedAt    time.Time
}

const syncStateColumns = `service, user_id, last_sync_time, status, error_message, imported, updated_at`

func scanSyncState(s scanner) (*SyncState, error) {
	st := &SyncState{}
	err := s.Scan(&st.Service, &st.UserID, &st.LastSyncTime, &st.Status, &st.ErrorMessage, &st.Imported, &st.UpdatedAt)
	return st, err
}

// GetSyncState returns nil when the service has never run for userID.
func GetSyncState(ctx context.Context, q Querier, service, userID string) (*SyncState, error) {
	row := q.QueryRowContext(ctx,
		`SELECT `+syncStateColumns+` FROM sync_state WHERE service = ? AND user_id = ?`, service, userID)
	st, err := scanSyncState(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, mapError("get sync state", err)
	}
	return st, nil
}

// MarkSyncRunning records that an import for service has started.
func MarkSyncRunning(ctx context.Context, q Querier, service, userID string, at time.Time) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO sync_state (service, user_id, status, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(service, user_id) DO UPDATE SET
			status = excluded.status,
			error_message = NULL,
			updated_at = excluded.updated_at
	`, service, userID, SyncRunning, at)
	return mapError("mark sync running", err)
}

// MarkSyncFailed stores the error that ended an import.
func MarkSyncFailed(ctx context.Context, q Querier, service, userID string, cause error, at time.Time) error {
	msg := cause.Error()
	_, err := q.ExecContext(ctx, `
		INSERT INTO sync_state (service, user_id, status, error_message, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(service, user_id) DO UPDATE SET
			status = excluded.status,
			error_message = excluded.error_message,
			updated_at = excluded.updated_at
	`, service, userID, SyncError, msg, at)
	return mapError("mark sync failed", err)
}

// MarkSyncDone records a finished import and adds imported to the user's running total.
func MarkSyncDone(ctx context.Context, q Querier, service, userID string, imported int, at time.Time) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO sync_state (service, user_id, last_sync_time, status, imported, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(service, user_id) DO UPDATE SET
			last_sync_time = excluded.last_sync_time,
			status = excluded.status,
			error_message = NULL,
			imported = sync_state.imported + excluded.imported,
			updated_at = excluded.updated_at
	`, service, userID, at, SyncIdle, imported, at)
	return mapError("mark sync done", err)
}

// ListSyncStates returns every known import source ordered by service, then user.
func ListSyncStates(ctx context.Context, q Querier) ([]SyncState, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+syncStateColumns+` FROM sync_state ORDER BY service, user_id`)
	if err != nil {
		return nil, mapError("list sync states", err)
	}
	defer func() { _ = rows.Close() }()

	var states []SyncState
	for rows.Next() {
		st, err := scanSyncState(rows)
		if err != nil {
			return nil, mapError("scan sync state", err)
		}
		states = append(states, *st)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("iterate sync states", err)
	}
	return states, nil
}

// SyncLogExists reports whether sourceID from service was already imported for userID.
func SyncLogExists(ctx context.Context, q Querier, service, userID, sourceID string) (bool, error) {
	var exists bool
	err := q.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM sync_log WHERE source_service = ? AND user_id = ? AND source_id = ?)
	`, service, userID, sourceID).Scan(&exists)
	if err != nil {
		return false, mapError("check sync log", err)
	}
	return exists, nil
}

// ImportEntry links an external record to the entity created from it for one user.
type ImportEntry struct {
	Service    string
	UserID     string
	SourceID   string
	EntityKind string
	EntityID   string
	ImportedAt time.Time
}

func LogImport(ctx context.Context, q Querier, e ImportEntry) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO sync_log (source_service, user_id, source_id, entity_kind, entity_id, imported_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, e.Service, e.UserID, e.SourceID, e.EntityKind, e.EntityID, e.ImportedAt)
	return mapError("log import", err)
}
