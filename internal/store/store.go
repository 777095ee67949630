// Package store handles SQLite persistence of profiles.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/verte-zerg/typeline/internal/model"
	"github.com/verte-zerg/typeline/internal/profile"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for profile records.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS schema_info (
			version INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS profiles (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			layout TEXT NOT NULL,
			position INTEGER NOT NULL,
			active INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS letter_stats (
			profile_id INTEGER NOT NULL,
			char TEXT NOT NULL,
			clean INTEGER NOT NULL,
			dirty INTEGER NOT NULL,
			PRIMARY KEY (profile_id, char)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_profiles_position ON profiles(position);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM schema_info`).Scan(&count); err != nil {
		return err
	}
	if count == 0 {
		if _, err := s.db.Exec(`INSERT INTO schema_info (version) VALUES (1)`); err != nil {
			return err
		}
	}
	return nil
}

// LoadProfiles reads every profile record in order plus the active index.
// An empty database yields a single synthesized default profile, so at
// least one record always comes back.
func (s *Store) LoadProfiles(ctx context.Context) ([]model.ProfileRecord, int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, layout, active FROM profiles ORDER BY position ASC`)
	if err != nil {
		return nil, 0, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	type loaded struct {
		id  int64
		rec model.ProfileRecord
	}
	var profiles []loaded
	active := 0
	for rows.Next() {
		var id int64
		var rec model.ProfileRecord
		var isActive int
		if err := rows.Scan(&id, &rec.Name, &rec.Layout, &isActive); err != nil {
			return nil, 0, err
		}
		rec.Letters = map[rune]model.LetterCounts{}
		if isActive != 0 {
			active = len(profiles)
		}
		profiles = append(profiles, loaded{id: id, rec: rec})
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	if len(profiles) == 0 {
		return []model.ProfileRecord{{
			Name:    profile.DefaultName,
			Layout:  profile.DefaultLayout,
			Letters: map[rune]model.LetterCounts{},
		}}, 0, nil
	}

	for i := range profiles {
		if err := s.loadLetters(ctx, profiles[i].id, profiles[i].rec.Letters); err != nil {
			return nil, 0, err
		}
	}

	records := make([]model.ProfileRecord, 0, len(profiles))
	for _, p := range profiles {
		records = append(records, p.rec)
	}
	return records, active, nil
}

func (s *Store) loadLetters(ctx context.Context, profileID int64, letters map[rune]model.LetterCounts) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT char, clean, dirty FROM letter_stats WHERE profile_id = ?`, profileID)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	for rows.Next() {
		var char string
		var counts model.LetterCounts
		if err := rows.Scan(&char, &counts.Clean, &counts.Dirty); err != nil {
			return err
		}
		runes := []rune(char)
		if len(runes) != 1 {
			// Skip rows that do not hold a single character.
			continue
		}
		letters[runes[0]] = counts
	}
	return rows.Err()
}

// SaveProfiles replaces every stored profile with the given records.
func (s *Store) SaveProfiles(ctx context.Context, records []model.ProfileRecord, active int) error {
	if len(records) == 0 {
		return fmt.Errorf("refusing to save an empty profile list")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM letter_stats`); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM profiles`); err != nil {
		return err
	}

	profileStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO profiles (name, layout, position, active) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := profileStmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()
	letterStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO letter_stats (profile_id, char, clean, dirty) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := letterStmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()

	for i, rec := range records {
		isActive := 0
		if i == active {
			isActive = 1
		}
		res, ierr := profileStmt.ExecContext(ctx, rec.Name, rec.Layout, i, isActive)
		if ierr != nil {
			err = ierr
			return err
		}
		id, ierr := res.LastInsertId()
		if ierr != nil {
			err = ierr
			return err
		}
		for char, counts := range rec.Letters {
			if _, ierr := letterStmt.ExecContext(ctx, id, string(char), counts.Clean, counts.Dirty); ierr != nil {
				err = ierr
				return err
			}
		}
	}

	err = tx.Commit()
	return err
}
