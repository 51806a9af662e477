// Package service implements the operations of the ecosystem tracker on
// top of the storage interface: reconciling analysis records into the
// graph, the one-time duplicate-artifact consolidation pass, and the
// status/note mutation commands.
package service
