package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"
)

// schemaStep is one numbered schema file, e.g. 001_collections.sql.
type schemaStep struct {
	version int
	name    string
}

// schemaSteps lists the .sql files in fsys ordered by their numeric prefix.
func schemaSteps(fsys fs.FS) ([]schemaStep, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("read schema dir: %w", err)
	}
	var steps []schemaStep
	seen := make(map[int]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || path.Ext(name) != ".sql" {
			continue
		}
		prefix, _, _ := strings.Cut(name, "_")
		version, err := strconv.Atoi(prefix)
		if err != nil || version <= 0 {
			return nil, fmt.Errorf("schema file %s: name must start with a positive version", name)
		}
		if other, dup := seen[version]; dup {
			return nil, fmt.Errorf("schema files %s and %s share version %d", other, name, version)
		}
		seen[version] = name
		steps = append(steps, schemaStep{version: version, name: name})
	}
	sort.Slice(steps, func(i, j int) bool { return steps[i].version < steps[j].version })
	return steps, nil
}

// upgradeSchema applies every schema file newer than the database's
// user_version, each in its own transaction together with the version bump.
func upgradeSchema(ctx context.Context, sqlDB *sql.DB, fsys fs.FS) error {
	steps, err := schemaSteps(fsys)
	if err != nil {
		return err
	}
	var current int
	if err := sqlDB.QueryRowContext(ctx, "PRAGMA user_version").Scan(&current); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	for _, step := range steps {
		if step.version <= current {
			continue
		}
		body, err := fs.ReadFile(fsys, step.name)
		if err != nil {
			return fmt.Errorf("read %s: %w", step.name, err)
		}
		tx, err := sqlDB.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin %s: %w", step.name, err)
		}
		if _, err := tx.ExecContext(ctx, string(body)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply %s: %w", step.name, err)
		}
		// PRAGMA arguments cannot be bound parameters.
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", step.version)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("set schema version %d: %w", step.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit %s: %w", step.name, err)
		}
		current = step.version
	}
	return nil
}
