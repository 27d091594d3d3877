package postgres

import (
	"context"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/uptrace/bun"
)

type rawExecutor interface {
	NewRaw(query string, args ...any) *bun.RawQuery
}

// Migrate applies every pending migration in fsys inside one transaction.
// Applied versions are recorded in schema_migrations.
func Migrate(ctx context.Context, db *bun.DB, fsys fs.FS) ([]string, error) {
	var applied []string
	err := db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewRaw("SELECT pg_advisory_xact_lock(hashtext(?))", "salonbook:migrate").Exec(ctx); err != nil {
			return err
		}
		names, err := applyMigrations(ctx, tx, fsys)
		if err != nil {
			return err
		}
		applied = names
		return nil
	})
	if err != nil {
		return nil, err
	}
	return applied, nil
}

func applyMigrations(ctx context.Context, exec rawExecutor, fsys fs.FS) ([]string, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	if _, err := exec.NewRaw(`CREATE TABLE IF NOT EXISTS schema_migrations (
		version text PRIMARY KEY,
		applied_at timestamptz NOT NULL DEFAULT now()
	)`).Exec(ctx); err != nil {
		return nil, err
	}

	var applied []string
	for _, name := range names {
		var done bool
		if err := exec.NewRaw("SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = ?)", name).Scan(ctx, &done); err != nil {
			return nil, err
		}
		if done {
			continue
		}

		b, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, err
		}
		upSQL, err := extractGooseUp(string(b))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		for _, stmt := range splitSQLStatements(upSQL) {
			if normalized, ok := normalizeExtensionStatement(stmt); ok {
				stmt = normalized
			}
			if _, err := exec.NewRaw(stmt).Exec(ctx); err != nil {
				return nil, fmt.Errorf("apply %s: %w", name, err)
			}
		}
		if _, err := exec.NewRaw("INSERT INTO schema_migrations (version) VALUES (?)", name).Exec(ctx); err != nil {
			return nil, err
		}
		applied = append(applied, name)
	}
	return applied, nil
}

func extractGooseUp(sql string) (string, error) {
	upMarker := "-- +goose Up"
	downMarker := "-- +goose Down"

	upIdx := strings.Index(sql, upMarker)
	if upIdx < 0 {
		return "", fmt.Errorf("missing goose up marker")
	}
	afterUp := sql[upIdx+len(upMarker):]
	afterUp = strings.TrimLeft(afterUp, "\r\n")

	downIdx := strings.Index(afterUp, downMarker)
	if downIdx < 0 {
		return strings.TrimSpace(afterUp), nil
	}
	return strings.TrimSpace(afterUp[:downIdx]), nil
}

// normalizeExtensionStatement pins btree_gist to the public schema so that
// migrations run under a non-default search_path still share one install.
func normalizeExtensionStatement(stmt string) (string, bool) {
	s := strings.TrimSpace(stmt)
	upper := strings.ToUpper(s)
	if !strings.HasPrefix(upper, "CREATE EXTENSION") {
		return "", false
	}
	if !strings.Contains(upper, "BTREE_GIST") {
		return "", false
	}
	if strings.Contains(upper, " SCHEMA ") {
		return "", false
	}
	return s + " SCHEMA public", true
}

func splitSQLStatements(sql string) []string {
	parts := strings.Split(sql, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		s := strings.TrimSpace(p)
		if s == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}
