// Package catalog caches CKAN package metadata in a local SQLite
// database so the starter kit can answer metadata queries without hitting
// the portal on every invocation.
//
// The full package document is stored as JSON next to a few indexed
// columns; resources are additionally flattened into their own table for
// format statistics.
package catalog
