package domain

import (
	"fmt"
	"time"
)

// Repository is a source project tracked for migration. Identity is the
// (organization, name) pair; the source URL is globally unique as well.
// Repositories are created on first analysis ingestion and updated on
// every re-analysis of the same URL; normal operation never deletes them.
type Repository struct {
	ID                     int64
	URL                    string
	Organization           string
	Name                   string
	IsPluginContainingRepo bool
	Status                 Status
	Note                   string
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// Slug returns the organization/name identifier used on the command line
// and in rendered reports.
func (r *Repository) Slug() string {
	return fmt.Sprintf("%s/%s", r.Organization, r.Name)
}
