// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/tidwall/jsonc"
	"zombiezen.com/go/sqlite/sqlitex"
)

// seedAccount is one entry of the bootstrap file. The file is JSONC so
// deployments can annotate why each account exists.
type seedAccount struct {
	Name         string   `json:"name"`
	PasswordHash string   `json:"password_hash"`
	AllowLogin   bool     `json:"allow_login"`
	Roles        []uint16 `json:"roles"`
	Policies     []uint16 `json:"policies"`
}

// Seed inserts the accounts from a JSONC bootstrap file. It is a no-op
// when the account table already has rows, so it is safe to run on
// every startup.
//
// Password hashes are stored verbatim; the file carries bcrypt hashes
// (produced with the encode-password endpoint or any bcrypt tool),
// never plaintext passwords.
func (s *Store) Seed(ctx context.Context, path string) error {
	count, err := s.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		s.logger.Debug("seed skipped, account table not empty",
			"path", path,
			"accounts", count,
		)
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("store: reading seed file: %w", err)
	}

	var seeds []seedAccount
	if err := json.Unmarshal(jsonc.ToJSON(data), &seeds); err != nil {
		return fmt.Errorf("store: parsing seed file %s: %w", path, err)
	}

	conn, err := s.pool.Take(ctx)
	if err != nil {
		return fmt.Errorf("store: take: %w", err)
	}
	defer s.pool.Put(conn)

	now := s.clock.Now().UnixMilli()
	for i, seed := range seeds {
		if seed.Name == "" || seed.PasswordHash == "" {
			return fmt.Errorf("store: seed entry %d: name and password_hash are required", i)
		}
		roles, err := discriminantJSON(seed.Roles)
		if err != nil {
			return fmt.Errorf("store: seed entry %d: %w", i, err)
		}
		policies, err := discriminantJSON(seed.Policies)
		if err != nil {
			return fmt.Errorf("store: seed entry %d: %w", i, err)
		}

		err = sqlitex.Execute(conn,
			`INSERT INTO account (name, password_hash, allow_login, roles, policies, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			&sqlitex.ExecOptions{Args: []any{
				seed.Name, seed.PasswordHash, boolInt(seed.AllowLogin), roles, policies, now, now,
			}},
		)
		if err != nil {
			return fmt.Errorf("store: seeding account %q: %w", seed.Name, err)
		}
		s.logger.Info("seeded account",
			"name", seed.Name,
			"allow_login", seed.AllowLogin,
			"roles", roles,
		)
	}
	return nil
}

// discriminantJSON renders a discriminant slice in the stored column
// form; nil becomes "[]", never "null".
func discriminantJSON(ds []uint16) (string, error) {
	if ds == nil {
		ds = []uint16{}
	}
	out, err := json.Marshal(ds)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func boolInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
