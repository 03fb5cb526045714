/*
 * cobad: continuous local-file backup daemon
 * Copyright (C) 2026 cobad contributors
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program. If not, see <https://www.gnu.org/licenses/>.
 */

// Package versionindex owns the SQLite database that maps a tracked
// path to the sequence of blob hashes it has had over time.
package versionindex

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
)

// pragmas tune SQLite for a single-writer daemon: foreign keys on,
// WAL journaling so readers don't block the worker, NORMAL sync as the
// WAL-appropriate durability/throughput tradeoff.
const pragmas = "?_foreign_keys=ON&_journal_mode=WAL&_synchronous=NORMAL"

//go:embed migrations/*.sql
var migrations embed.FS

// Open opens (creating if necessary) the SQLite database at path and
// migrates it to the latest schema version.
func Open(ctx context.Context, path string) (*Index, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s%s", path, pragmas))
	if err != nil {
		return nil, fmt.Errorf("versionindex: open: %w", err)
	}

	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Index{db: db}, nil
}

func gooseProvider(db *sql.DB) (*goose.Provider, error) {
	fsys, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return nil, fmt.Errorf("versionindex: preparing migrations fs: %w", err)
	}

	return goose.NewProvider(goose.DialectSQLite3, db, fsys)
}

func migrate(ctx context.Context, db *sql.DB) error {
	p, err := gooseProvider(db)
	if err != nil {
		return err
	}

	if _, err := p.Up(ctx); err != nil {
		return fmt.Errorf("versionindex: migrating database: %w", err)
	}

	return nil
}
