package domain

import "strings"

// RepositoryRef is a parsed organization/name repository identifier.
type RepositoryRef struct {
	Organization string
	Name         string
}

// ParseRepositoryRef parses an identifier of the form "organization/name".
func ParseRepositoryRef(s string) (RepositoryRef, error) {
	org, name, ok := strings.Cut(s, "/")
	if !ok || org == "" || name == "" {
		return RepositoryRef{}, Validationf("invalid repository identifier %q (expected organization/name)", s)
	}
	return RepositoryRef{Organization: org, Name: name}, nil
}

// ArtifactRef is a parsed organization:name artifact identifier. Version
// is optional and accepted only for compatibility with the historical
// per-version identity model; it does not participate in lookup.
type ArtifactRef struct {
	Organization string
	Name         string
	Version      string
}

// ParseArtifactRef parses an identifier of the form
// "organization:name" or "organization:name:version".
func ParseArtifactRef(s string) (ArtifactRef, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 || parts[0] == "" || parts[1] == "" {
		return ArtifactRef{}, Validationf("invalid artifact identifier %q (expected organization:name[:version])", s)
	}
	ref := ArtifactRef{Organization: parts[0], Name: parts[1]}
	if len(parts) == 3 {
		if parts[2] == "" {
			return ArtifactRef{}, Validationf("invalid artifact identifier %q (empty version)", s)
		}
		ref.Version = parts[2]
	}
	return ref, nil
}
