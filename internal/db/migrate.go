package db

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

// Migrate applies migrations and seed files found in the repository.
// It creates a `schema_migrations` table to track applied migrations and
// applies any SQL files in `db/migrations/` that have not yet been
// recorded. Seed files are applied idempotently: agent schemas and
// templates are upserted by version, the opportunity catalog by id.
func Migrate(ctx context.Context, d *DB, migrationFS embed.FS, seedFS embed.FS) error {
	// ensure migrations table exists
	if _, err := d.Exec(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (version TEXT PRIMARY KEY, applied INTEGER NOT NULL)`); err != nil {
		return fmt.Errorf("ensure schema_migrations: %w", err)
	}
	migDir := "migrations"

	entries, err := fs.ReadDir(migrationFS, migDir)
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}

	// collect .sql files and sort
	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasSuffix(strings.ToLower(name), ".sql") {
			files = append(files, name)
		}
	}
	sort.Strings(files)

	for _, fname := range files {
		// use filename (without extension) as migration version key
		version := strings.TrimSuffix(fname, path.Ext(fname))

		var count int
		row := d.QueryRow(ctx, `SELECT COUNT(1) FROM schema_migrations WHERE version = ?`, version)
		if err := row.Scan(&count); err != nil {
			return fmt.Errorf("scan migration applied count: %w", err)
		}
		if count > 0 {
			continue
		}

		p := path.Join(migDir, fname)
		b, err := fs.ReadFile(migrationFS, p)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", fname, err)
		}
		if _, err := d.Exec(ctx, string(b)); err != nil {
			return fmt.Errorf("exec migration %s: %w", fname, err)
		}

		if _, err := d.Exec(ctx, `INSERT INTO schema_migrations (version, applied) VALUES (?, strftime('%s','now'))`, version); err != nil {
			return fmt.Errorf("record migration %s: %w", fname, err)
		}
	}

	if err := seedSchemas(ctx, d, seedFS); err != nil {
		return err
	}
	if err := seedTemplates(ctx, d, seedFS); err != nil {
		return err
	}
	if err := seedOpportunities(ctx, d, seedFS); err != nil {
		return err
	}

	return nil
}

// seedSchemas loads every seed/schemas/<version>.json as an agent
// output schema keyed by the filename.
func seedSchemas(ctx context.Context, d *DB, seedFS embed.FS) error {
	dir := path.Join("seed", "schemas")
	entries, err := fs.ReadDir(seedFS, dir)
	if err != nil {
		return nil
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		version := strings.TrimSuffix(e.Name(), ".json")
		b, err := fs.ReadFile(seedFS, path.Join(dir, e.Name()))
		if err != nil {
			return fmt.Errorf("read seed schema %s: %w", e.Name(), err)
		}
		if _, err := d.Exec(ctx, `INSERT INTO agent_schemas (version, description, schema_json, created, updated) VALUES (?, ?, ?, strftime('%s','now'), strftime('%s','now')) ON CONFLICT(version) DO UPDATE SET schema_json=excluded.schema_json, updated=strftime('%s','now')`, version, "seeded schema", string(b)); err != nil {
			return fmt.Errorf("seed schema %s: %w", version, err)
		}
	}
	return nil
}

// seedTemplates loads seed/templates/<agent-name>.txt prompt templates.
// The agent name maps dots to dashes in the filename; the bound schema
// version is "<agent-name>_v1" when such a schema exists.
func seedTemplates(ctx context.Context, d *DB, seedFS embed.FS) error {
	dir := path.Join("seed", "templates")
	entries, err := fs.ReadDir(seedFS, dir)
	if err != nil {
		return nil
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".txt") {
			continue
		}
		name := strings.ReplaceAll(strings.TrimSuffix(e.Name(), ".txt"), "-", ".")
		b, err := fs.ReadFile(seedFS, path.Join(dir, e.Name()))
		if err != nil {
			return fmt.Errorf("read seed template %s: %w", e.Name(), err)
		}

		var schemaVer any
		ver := strings.ReplaceAll(strings.TrimSuffix(e.Name(), ".txt"), "-", "_") + "_v1"
		var count int
		if err := d.QueryRow(ctx, `SELECT COUNT(1) FROM agent_schemas WHERE version = ?`, ver).Scan(&count); err == nil && count > 0 {
			schemaVer = ver
		}

		if _, err := d.Exec(ctx, `INSERT INTO agent_templates (name, version, template_text, schema_version, metadata, created, updated) VALUES (?, 'v1', ?, ?, NULL, strftime('%s','now'), strftime('%s','now')) ON CONFLICT(name, version) DO UPDATE SET template_text=excluded.template_text, schema_version=excluded.schema_version, updated=strftime('%s','now')`, name, string(b), schemaVer); err != nil {
			return fmt.Errorf("seed template %s: %w", name, err)
		}
	}
	return nil
}

type seedOpportunity struct {
	ID               int64    `json:"id"`
	Title            string   `json:"title"`
	RequiredSkills   []string `json:"required_skills"`
	MinYears         int      `json:"min_years"`
	Responsibilities string   `json:"responsibilities"`
}

func seedOpportunities(ctx context.Context, d *DB, seedFS embed.FS) error {
	b, err := fs.ReadFile(seedFS, path.Join("seed", "opportunities.json"))
	if err != nil {
		return nil
	}
	var opps []seedOpportunity
	if err := json.Unmarshal(b, &opps); err != nil {
		return fmt.Errorf("parse opportunity catalog: %w", err)
	}
	for _, o := range opps {
		req, err := json.Marshal(o.RequiredSkills)
		if err != nil {
			return fmt.Errorf("marshal required skills: %w", err)
		}
		if _, err := d.Exec(ctx, `INSERT INTO job_opportunities (id, title, required_skills, min_years, responsibilities) VALUES (?, ?, ?, ?, ?) ON CONFLICT(id) DO UPDATE SET title=excluded.title, required_skills=excluded.required_skills, min_years=excluded.min_years, responsibilities=excluded.responsibilities`, o.ID, o.Title, string(req), o.MinYears, o.Responsibilities); err != nil {
			return fmt.Errorf("seed opportunity %d: %w", o.ID, err)
		}
	}
	return nil
}
