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

package versionindex

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// storedAtLayout matches the teacher's nowISO8601Z convention: UTC,
// millisecond precision, literal "Z" suffix.
const storedAtLayout = "2006-01-02T15:04:05.000Z"

// Version is one recorded snapshot of a path.
type Version struct {
	ID       int64
	Path     string
	Hash     string
	StoredAt time.Time
}

// Index wraps the version-index database. The zero value is not usable;
// construct one with Open.
type Index struct {
	db *sql.DB
}

// Close releases the underlying database handle.
func (idx *Index) Close() error {
	return idx.db.Close()
}

// Append records that path now has content addressed by hash, stamped
// with the current time, inside an explicit transaction.
func (idx *Index) Append(ctx context.Context, path, hash string) (Version, error) {
	var v Version

	tx, err := idx.db.BeginTx(ctx, nil)
	if err != nil {
		return v, fmt.Errorf("versionindex: begin tx: %w", err)
	}
	defer tx.Rollback()

	// Truncate to the stored precision so the returned Version equals the
	// row as later read back.
	storedAt := time.Now().UTC().Truncate(time.Millisecond)
	res, err := tx.ExecContext(ctx,
		`INSERT INTO versions (path, hash, stored_at) VALUES (?, ?, ?)`,
		path, hash, storedAt.Format(storedAtLayout),
	)
	if err != nil {
		return v, fmt.Errorf("versionindex: insert version: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return v, fmt.Errorf("versionindex: last insert id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return v, fmt.Errorf("versionindex: commit: %w", err)
	}

	return Version{ID: id, Path: path, Hash: hash, StoredAt: storedAt}, nil
}

// VersionsOf returns every recorded version of path, oldest first.
func (idx *Index) VersionsOf(ctx context.Context, path string) ([]Version, error) {
	rows, err := idx.db.QueryContext(ctx,
		`SELECT id, path, hash, stored_at FROM versions
		 WHERE path = ? ORDER BY stored_at ASC, id ASC`,
		path,
	)
	if err != nil {
		return nil, fmt.Errorf("versionindex: query versions: %w", err)
	}
	defer rows.Close()

	return scanVersions(rows)
}

// CountVersions returns the total number of version rows recorded
// across all paths.
func (idx *Index) CountVersions(ctx context.Context) (int, error) {
	var count int
	err := idx.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM versions`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("versionindex: count versions: %w", err)
	}
	return count, nil
}

// AllHashes returns the set of distinct hashes referenced by any recorded
// version, for reconciling the index against the blob pool.
func (idx *Index) AllHashes(ctx context.Context) (map[string]bool, error) {
	rows, err := idx.db.QueryContext(ctx, `SELECT DISTINCT hash FROM versions`)
	if err != nil {
		return nil, fmt.Errorf("versionindex: query distinct hashes: %w", err)
	}
	defer rows.Close()

	hashes := make(map[string]bool)
	for rows.Next() {
		var hash string
		if err := rows.Scan(&hash); err != nil {
			return nil, fmt.Errorf("versionindex: scan hash: %w", err)
		}
		hashes[hash] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("versionindex: iterate hashes: %w", err)
	}

	return hashes, nil
}

// VersionAt returns the most recent version of path whose stored_at is
// at or before at. The second return value is false if no such version
// exists.
func (idx *Index) VersionAt(ctx context.Context, path string, at time.Time) (Version, bool, error) {
	row := idx.db.QueryRowContext(ctx,
		`SELECT id, path, hash, stored_at FROM versions
		 WHERE path = ? AND stored_at <= ?
		 ORDER BY stored_at DESC, id DESC LIMIT 1`,
		path, at.UTC().Format(storedAtLayout),
	)

	v, err := scanVersion(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return Version{}, false, nil
		}
		return Version{}, false, fmt.Errorf("versionindex: query version at: %w", err)
	}

	return v, true, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVersion(r rowScanner) (Version, error) {
	var v Version
	var storedAt string

	if err := r.Scan(&v.ID, &v.Path, &v.Hash, &storedAt); err != nil {
		return v, err
	}

	t, err := time.Parse(storedAtLayout, storedAt)
	if err != nil {
		return v, fmt.Errorf("versionindex: parse stored_at %q: %w", storedAt, err)
	}
	v.StoredAt = t

	return v, nil
}

func scanVersions(rows *sql.Rows) ([]Version, error) {
	var out []Version
	for rows.Next() {
		v, err := scanVersion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("versionindex: iterate rows: %w", err)
	}
	return out, nil
}
