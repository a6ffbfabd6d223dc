package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/opendatazurich/starterkit/internal/ckan"
)

// ErrNotCached marks a package missing from the local cache.
var ErrNotCached = errors.New("package not cached")

// GetPackage returns the cached package by name or id.
func (s *Store) GetPackage(ctx context.Context, nameOrID string) (*ckan.Package, error) {
	var metadata string
	err := s.db.QueryRowContext(ctx, `
		SELECT metadata FROM packages WHERE name = ? OR id = ?
	`, nameOrID, nameOrID).Scan(&metadata)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%q: %w", nameOrID, ErrNotCached)
	}
	if err != nil {
		return nil, fmt.Errorf("get package %q: %w", nameOrID, err)
	}

	var pkg ckan.Package
	if err := json.Unmarshal([]byte(metadata), &pkg); err != nil {
		return nil, fmt.Errorf("get package %q: decode: %w", nameOrID, err)
	}
	return &pkg, nil
}

// CountPackages returns the number of cached packages.
func (s *Store) CountPackages(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM packages`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count packages: %w", err)
	}
	return count, nil
}

// ResourceFormatCounts returns resource counts per format, across the
// whole cache when packageName is empty.
func (s *Store) ResourceFormatCounts(ctx context.Context, packageName string) (map[string]int, error) {
	query := `SELECT format, COUNT(*) FROM resources GROUP BY format ORDER BY format`
	args := []any{}
	if packageName != "" {
		query = `SELECT format, COUNT(*) FROM resources WHERE package_name = ? GROUP BY format ORDER BY format`
		args = append(args, packageName)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("resource format counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var format string
		var n int
		if err := rows.Scan(&format, &n); err != nil {
			return nil, fmt.Errorf("resource format counts: scan: %w", err)
		}
		counts[format] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("resource format counts: %w", err)
	}
	return counts, nil
}

// ListPackageNames returns all cached package names in sorted order.
func (s *Store) ListPackageNames(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM packages ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list packages: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("list packages: scan: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list packages: %w", err)
	}
	return names, nil
}
