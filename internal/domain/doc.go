// Package domain contains the core entities of the ecosystem tracker:
// repositories, published artifacts, the dependency edges between them,
// the migration status model, and the analysis record consumed by the
// reconciliation engine.
//
// The domain layer has no storage or I/O concerns. Entities are plain
// structs; invariants that span entities (identity uniqueness, the weak
// repository link on artifacts) are enforced by the store and the
// reconciliation engine.
package domain
