// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

var (
	// ErrNotFound means no account matched the lookup.
	ErrNotFound = errors.New("store: account not found")

	// ErrDuplicateName means the username is already taken.
	ErrDuplicateName = errors.New("store: username already exists")
)

// Account is one row of the account table. Roles and Policies are JSON
// arrays of numeric discriminants as stored; lib/policy parses them.
type Account struct {
	ID           int64
	Name         string
	PasswordHash string
	AllowLogin   bool
	Roles        string
	Policies     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

const accountColumns = "id, name, password_hash, allow_login, roles, policies, created_at, updated_at"

func scanAccount(stmt *sqlite.Stmt) Account {
	return Account{
		ID:           stmt.ColumnInt64(0),
		Name:         stmt.ColumnText(1),
		PasswordHash: stmt.ColumnText(2),
		AllowLogin:   stmt.ColumnInt64(3) != 0,
		Roles:        stmt.ColumnText(4),
		Policies:     stmt.ColumnText(5),
		CreatedAt:    time.UnixMilli(stmt.ColumnInt64(6)).UTC(),
		UpdatedAt:    time.UnixMilli(stmt.ColumnInt64(7)).UTC(),
	}
}

// GetByName returns the account with the given username, or
// ErrNotFound.
func (s *Store) GetByName(ctx context.Context, name string) (*Account, error) {
	return s.getAccount(ctx, "SELECT "+accountColumns+" FROM account WHERE name = ?", name)
}

// GetByID returns the account with the given id, or ErrNotFound.
func (s *Store) GetByID(ctx context.Context, id int64) (*Account, error) {
	return s.getAccount(ctx, "SELECT "+accountColumns+" FROM account WHERE id = ?", id)
}

func (s *Store) getAccount(ctx context.Context, query string, arg any) (*Account, error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return nil, fmt.Errorf("store: take: %w", err)
	}
	defer s.pool.Put(conn)

	var account *Account
	err = sqlitex.Execute(conn, query, &sqlitex.ExecOptions{
		Args: []any{arg},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			a := scanAccount(stmt)
			account = &a
			return nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("store: querying account: %w", err)
	}
	if account == nil {
		return nil, ErrNotFound
	}
	return account, nil
}

// Create inserts a new account. New accounts cannot log in and carry
// no grants until an operator enables them; only the password hash is
// taken from the caller. Returns the new id, or ErrDuplicateName.
func (s *Store) Create(ctx context.Context, name, passwordHash string) (int64, error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return 0, fmt.Errorf("store: take: %w", err)
	}
	defer s.pool.Put(conn)

	now := s.clock.Now().UnixMilli()
	err = sqlitex.Execute(conn,
		`INSERT INTO account (name, password_hash, allow_login, roles, policies, created_at, updated_at)
		 VALUES (?, ?, 0, '[]', '[]', ?, ?)`,
		&sqlitex.ExecOptions{Args: []any{name, passwordHash, now, now}},
	)
	if err != nil {
		if sqlite.ErrCode(err) == sqlite.ResultConstraintUnique {
			return 0, fmt.Errorf("%w: %s", ErrDuplicateName, name)
		}
		return 0, fmt.Errorf("store: inserting account: %w", err)
	}
	return conn.LastInsertRowID(), nil
}

// ChangePassword replaces the stored hash for an account. Returns
// ErrNotFound if the id does not exist.
func (s *Store) ChangePassword(ctx context.Context, id int64, passwordHash string) error {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return fmt.Errorf("store: take: %w", err)
	}
	defer s.pool.Put(conn)

	err = sqlitex.Execute(conn,
		"UPDATE account SET password_hash = ?, updated_at = ? WHERE id = ?",
		&sqlitex.ExecOptions{Args: []any{passwordHash, s.clock.Now().UnixMilli(), id}},
	)
	if err != nil {
		return fmt.Errorf("store: updating password: %w", err)
	}
	if conn.Changes() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateGrants sets an account's login flag and its role and policy
// grants (JSON arrays of discriminants). No HTTP endpoint writes
// grants; this is the surface for operator tooling. Returns
// ErrNotFound if the id does not exist.
func (s *Store) UpdateGrants(ctx context.Context, id int64, allowLogin bool, rolesJSON, policiesJSON string) error {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return fmt.Errorf("store: take: %w", err)
	}
	defer s.pool.Put(conn)

	allow := int64(0)
	if allowLogin {
		allow = 1
	}
	err = sqlitex.Execute(conn,
		"UPDATE account SET allow_login = ?, roles = ?, policies = ?, updated_at = ? WHERE id = ?",
		&sqlitex.ExecOptions{Args: []any{allow, rolesJSON, policiesJSON, s.clock.Now().UnixMilli(), id}},
	)
	if err != nil {
		return fmt.Errorf("store: updating grants: %w", err)
	}
	if conn.Changes() == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns all accounts ordered by id.
func (s *Store) List(ctx context.Context) ([]Account, error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return nil, fmt.Errorf("store: take: %w", err)
	}
	defer s.pool.Put(conn)

	var accounts []Account
	err = sqlitex.Execute(conn,
		"SELECT "+accountColumns+" FROM account ORDER BY id",
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				accounts = append(accounts, scanAccount(stmt))
				return nil
			},
		},
	)
	if err != nil {
		return nil, fmt.Errorf("store: listing accounts: %w", err)
	}
	return accounts, nil
}

// Count returns the number of accounts.
func (s *Store) Count(ctx context.Context) (int64, error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return 0, fmt.Errorf("store: take: %w", err)
	}
	defer s.pool.Put(conn)

	var count int64
	err = sqlitex.Execute(conn, "SELECT COUNT(*) FROM account", &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			count = stmt.ColumnInt64(0)
			return nil
		},
	})
	if err != nil {
		return 0, fmt.Errorf("store: counting accounts: %w", err)
	}
	return count, nil
}
