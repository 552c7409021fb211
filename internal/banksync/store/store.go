// Package store provides the postgres persistence for bank connections.
// Access tokens live in their own table so a connection row can be read
// and listed without ever touching credentials.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/billfold/billfold/internal/banksync"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectConnectionColumns = `
	id, user_id, provider, institution_name, status, accounts,
	created_at, updated_at, last_synced_at
`

func scanConnection(s scanner) (*banksync.Connection, error) {
	var c banksync.Connection

	var accounts []byte

	if err := s.Scan(
		&c.ID, &c.UserID, &c.Provider, &c.InstitutionName, &c.Status,
		&accounts, &c.CreatedAt, &c.UpdatedAt, &c.LastSyncedAt,
	); err != nil {
		return nil, err
	}

	if len(accounts) > 0 {
		if err := json.Unmarshal(accounts, &c.Accounts); err != nil {
			return nil, fmt.Errorf("decoding linked accounts: %w", err)
		}
	}

	return &c, nil
}

const insertConnectionQuery = `
	INSERT INTO bank_connections (id, user_id, provider, institution_name,
		status, accounts, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, NOW())
	ON CONFLICT (id) DO UPDATE
	SET institution_name = EXCLUDED.institution_name,
		status = EXCLUDED.status,
		accounts = EXCLUDED.accounts,
		updated_at = NOW()
	RETURNING created_at
`

// CreateConnection records a connection. Relinking the same item
// refreshes the existing row instead of failing on the primary key.
func (s *Store) CreateConnection(ctx context.Context, conn *banksync.Connection) error {
	accounts, err := json.Marshal(conn.Accounts)
	if err != nil {
		return fmt.Errorf("encoding linked accounts: %w", err)
	}

	err = s.db.QueryRowContext(ctx, insertConnectionQuery,
		conn.ID, conn.UserID, conn.Provider, conn.InstitutionName,
		conn.Status, accounts,
	).Scan(&conn.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating bank connection: %w", err)
	}

	return nil
}

func (s *Store) GetConnection(ctx context.Context, userID uuid.UUID, id string) (*banksync.Connection, error) {
	query := fmt.Sprintf(`SELECT %s FROM bank_connections WHERE user_id = $1 AND id = $2`, selectConnectionColumns)

	c, err := scanConnection(s.db.QueryRowContext(ctx, query, userID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, banksync.ErrNotFound
		}

		return nil, fmt.Errorf("getting bank connection: %w", err)
	}

	return c, nil
}

func (s *Store) ListConnections(ctx context.Context, userID uuid.UUID) ([]*banksync.Connection, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM bank_connections
		WHERE user_id = $1
		ORDER BY COALESCE(last_synced_at, updated_at, created_at) DESC
	`, selectConnectionColumns)

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing bank connections: %w", err)
	}
	defer rows.Close()

	var connections []*banksync.Connection

	for rows.Next() {
		c, err := scanConnection(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning bank connection: %w", err)
		}

		connections = append(connections, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating bank connections: %w", err)
	}

	return connections, nil
}

func (s *Store) SetConnectionStatus(ctx context.Context, userID uuid.UUID, id, status string) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE bank_connections SET status = $3, updated_at = NOW() WHERE user_id = $1 AND id = $2`,
		userID, id, status,
	)
	if err != nil {
		return fmt.Errorf("updating connection status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking status update result: %w", err)
	}

	if affected == 0 {
		return banksync.ErrNotFound
	}

	return nil
}

func (s *Store) TouchSynced(ctx context.Context, userID uuid.UUID, id string, at time.Time) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE bank_connections SET last_synced_at = $3, updated_at = NOW() WHERE user_id = $1 AND id = $2`,
		userID, id, at,
	)
	if err != nil {
		return fmt.Errorf("recording sync time: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking sync time result: %w", err)
	}

	if affected == 0 {
		return banksync.ErrNotFound
	}

	return nil
}

const upsertTokenQuery = `
	INSERT INTO bank_tokens (user_id, connection_id, access_token, cursor, created_at, updated_at)
	VALUES ($1, $2, $3, '', NOW(), NOW())
	ON CONFLICT (user_id, connection_id) DO UPDATE
	SET access_token = EXCLUDED.access_token, cursor = '', updated_at = NOW()
`

// SaveToken stores the access token for a connection. Relinking resets
// the sync cursor so the next sync starts from the beginning of the feed.
func (s *Store) SaveToken(ctx context.Context, userID uuid.UUID, connectionID, accessToken string) error {
	if _, err := s.db.ExecContext(ctx, upsertTokenQuery, userID, connectionID, accessToken); err != nil {
		return fmt.Errorf("saving access token: %w", err)
	}

	return nil
}

func (s *Store) GetToken(ctx context.Context, userID uuid.UUID, connectionID string) (string, string, error) {
	var accessToken, cursor string

	err := s.db.QueryRowContext(ctx,
		`SELECT access_token, cursor FROM bank_tokens WHERE user_id = $1 AND connection_id = $2`,
		userID, connectionID,
	).Scan(&accessToken, &cursor)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", "", banksync.ErrNotFound
		}

		return "", "", fmt.Errorf("getting access token: %w", err)
	}

	return accessToken, cursor, nil
}

func (s *Store) SaveCursor(ctx context.Context, userID uuid.UUID, connectionID, cursor string) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE bank_tokens SET cursor = $3, updated_at = NOW() WHERE user_id = $1 AND connection_id = $2`,
		userID, connectionID, cursor,
	)
	if err != nil {
		return fmt.Errorf("saving sync cursor: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking cursor result: %w", err)
	}

	if affected == 0 {
		return banksync.ErrNotFound
	}

	return nil
}

func (s *Store) DeleteToken(ctx context.Context, userID uuid.UUID, connectionID string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM bank_tokens WHERE user_id = $1 AND connection_id = $2`,
		userID, connectionID,
	); err != nil {
		return fmt.Errorf("deleting access token: %w", err)
	}

	return nil
}
