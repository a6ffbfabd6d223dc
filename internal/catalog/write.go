package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/opendatazurich/starterkit/internal/ckan"
)

// UpsertPackage stores one package and its resources, replacing any
// previous version. The write is transactional: the flattened resource
// rows never disagree with the stored metadata document.
func (s *Store) UpsertPackage(ctx context.Context, pkg ckan.Package) error {
	metadata, err := json.Marshal(pkg)
	if err != nil {
		return fmt.Errorf("upsert package %q: marshal: %w", pkg.Name, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("upsert package %q: begin: %w", pkg.Name, err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO packages (name, id, title, metadata, synced_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			id = excluded.id,
			title = excluded.title,
			metadata = excluded.metadata,
			synced_at = excluded.synced_at
	`, pkg.Name, pkg.ID, pkg.Title, string(metadata), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("upsert package %q: %w", pkg.Name, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM resources WHERE package_name = ?`, pkg.Name); err != nil {
		return fmt.Errorf("upsert package %q: clear resources: %w", pkg.Name, err)
	}

	for _, r := range pkg.Resources {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO resources (id, package_name, name, format, url)
			VALUES (?, ?, ?, ?, ?)
		`, r.ID, pkg.Name, r.Name, r.Format, r.URL)
		if err != nil {
			return fmt.Errorf("upsert package %q: resource %q: %w", pkg.Name, r.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("upsert package %q: commit: %w", pkg.Name, err)
	}
	return nil
}

// UpsertPackages stores a batch of packages.
func (s *Store) UpsertPackages(ctx context.Context, pkgs []ckan.Package) error {
	for _, pkg := range pkgs {
		if err := s.UpsertPackage(ctx, pkg); err != nil {
			return err
		}
	}
	return nil
}
