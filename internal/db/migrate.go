package db

import (
	"fmt"

	"github.com/Masterminds/semver/v3"

	"github.com/jakga/glotian/internal/models"
)

// currentSchemaVersion is the schema version written by this build.
// Bump it when appending to dataMigrations.
const currentSchemaVersion = "2.1.0"

// dataMigration is one versioned, lossless rewrite of existing rows.
// AutoMigrate handles additive DDL; these handle everything AutoMigrate
// cannot: coalescing data out of legacy columns before dropping them.
type dataMigration struct {
	version string
	name    string
	run     func(tx *DB) error
}

// dataMigrations must stay ordered by ascending version. Each migration
// coalesces from every known legacy column name and never assumes a
// column exists.
var dataMigrations = []dataMigration{
	{"2.0.0", "coalesce note content from legacy text/body columns", migrateNoteContent},
	{"2.1.0", "coalesce flashcard difficulty and access times from legacy columns", migrateFlashcardLegacy},
}

// runDataMigrations applies every data migration newer than the stored
// schema version, each in its own transaction, advancing the stored
// version as it goes.
func (db *DB) runDataMigrations() error {
	stored, err := db.GetSyncMeta(models.SyncMetaSchemaVersion)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if stored == "" {
		// Fresh database: no legacy rows to rewrite.
		stored = "0.0.0"
	}

	from, err := semver.NewVersion(stored)
	if err != nil {
		return fmt.Errorf("parse schema version %q: %w", stored, err)
	}

	for _, m := range dataMigrations {
		target, err := semver.NewVersion(m.version)
		if err != nil {
			return fmt.Errorf("parse migration version %q: %w", m.version, err)
		}
		if !target.GreaterThan(from) {
			continue
		}

		err = db.Transaction(func(tx *DB) error {
			if err := m.run(tx); err != nil {
				return err
			}
			return tx.SetSyncMeta(models.SyncMetaSchemaVersion, m.version)
		})
		if err != nil {
			return fmt.Errorf("migration %s (%s): %w", m.version, m.name, err)
		}
	}

	return db.SetSyncMeta(models.SyncMetaSchemaVersion, currentSchemaVersion)
}

// hasColumn reports whether a table really has a column with this exact
// name. The gorm migrator's HasColumn matches the name against the table's
// CREATE TABLE sql, where a name like "text" also matches column types and
// "accessed_at" matches inside "last_accessed_at"; the pragma lists actual
// columns.
func hasColumn(tx *DB, table, column string) (bool, error) {
	var names []string
	if err := tx.Raw("SELECT name FROM pragma_table_info(?)", table).Scan(&names).Error; err != nil {
		return false, fmt.Errorf("table info %s: %w", table, err)
	}
	for _, name := range names {
		if name == column {
			return true, nil
		}
	}
	return false, nil
}

// migrateNoteContent rewrites notes whose content still lives in the legacy
// "text" or "body" columns, then drops the legacy columns.
func migrateNoteContent(tx *DB) error {
	migrator := tx.Migrator()

	legacy := []string{"text", "body"}
	for _, col := range legacy {
		ok, err := hasColumn(tx, "notes", col)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		// Coalesce: keep existing content when present, otherwise pull
		// from the legacy column. Rows touched by neither stay empty.
		stmt := fmt.Sprintf(
			`UPDATE notes SET content = COALESCE(NULLIF(content, ''), NULLIF(%s, ''), '')`, col)
		if err := tx.Exec(stmt).Error; err != nil {
			return fmt.Errorf("coalesce notes.%s: %w", col, err)
		}
		if err := migrator.DropColumn(&models.Note{}, col); err != nil {
			return fmt.Errorf("drop notes.%s: %w", col, err)
		}
	}
	return nil
}

// migrateFlashcardLegacy rewrites flashcards that still carry the legacy
// "level" column (pre-enum difficulty) or the legacy "last_used_at" /
// "accessed_at" access timestamps, then drops the legacy columns.
func migrateFlashcardLegacy(tx *DB) error {
	migrator := tx.Migrator()

	hasLevel, err := hasColumn(tx, "flashcards", "level")
	if err != nil {
		return err
	}
	if hasLevel {
		stmt := `UPDATE flashcards SET difficulty = COALESCE(NULLIF(difficulty, ''), NULLIF(level, ''), 'intermediate')`
		if err := tx.Exec(stmt).Error; err != nil {
			return fmt.Errorf("coalesce flashcards.level: %w", err)
		}
		if err := migrator.DropColumn(&models.Flashcard{}, "level"); err != nil {
			return fmt.Errorf("drop flashcards.level: %w", err)
		}
	}

	for _, col := range []string{"last_used_at", "accessed_at"} {
		ok, err := hasColumn(tx, "flashcards", col)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		stmt := fmt.Sprintf(
			`UPDATE flashcards SET last_accessed_at = COALESCE(last_accessed_at, %s, created_at)`, col)
		if err := tx.Exec(stmt).Error; err != nil {
			return fmt.Errorf("coalesce flashcards.%s: %w", col, err)
		}
		if err := migrator.DropColumn(&models.Flashcard{}, col); err != nil {
			return fmt.Errorf("drop flashcards.%s: %w", col, err)
		}
	}
	return nil
}
