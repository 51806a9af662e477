package domain

// Analysis is the normalized record produced by an external collector for
// one repository: its coordinates, migration status, declared build
// plugins, and the artifacts it publishes together with their library
// dependencies. One Analysis is reconciled into the store as a single
// atomic unit.
type Analysis struct {
	Repository             AnalysisRepository         `json:"repository"`
	IsPluginContainingRepo bool                       `json:"isPluginContainingRepo"`
	Status                 Status                     `json:"status"`
	PluginDependencies     []AnalysisPluginDependency `json:"pluginDependencies"`
	PublishedArtifacts     []AnalysisArtifact         `json:"publishedArtifacts"`
}

// AnalysisRepository identifies the analyzed repository.
type AnalysisRepository struct {
	URL          string `json:"url"`
	Organization string `json:"organization"`
	Name         string `json:"name"`
}

// AnalysisPluginDependency is a build-time plugin declared by the
// repository, at the version its build requests.
type AnalysisPluginDependency struct {
	Organization string `json:"organization"`
	Name         string `json:"name"`
	Version      string `json:"version"`
}

// AnalysisArtifact is one artifact the repository publishes.
type AnalysisArtifact struct {
	Organization        string                      `json:"organization"`
	Name                string                      `json:"name"`
	IsPlugin            bool                        `json:"isPlugin"`
	Subproject          string                      `json:"subproject,omitempty"`
	IsPublished         *bool                       `json:"isPublished,omitempty"`
	ScalaVersion        string                      `json:"scalaVersion,omitempty"`
	LibraryDependencies []AnalysisLibraryDependency `json:"libraryDependencies,omitempty"`
}

// Published resolves the optional isPublished field, defaulting to true.
func (a *AnalysisArtifact) Published() bool {
	return a.IsPublished == nil || *a.IsPublished
}

// AnalysisLibraryDependency is one library dependency of a published
// artifact.
type AnalysisLibraryDependency struct {
	Organization string `json:"organization"`
	Name         string `json:"name"`
	Version      string `json:"version"`
	Scope        string `json:"scope"`
}

// Validate checks the semantic rules the JSON schema cannot express on
// its own and keeps the record safe to reconcile.
func (a *Analysis) Validate() error {
	if a.Repository.URL == "" {
		return Validationf("analysis: repository.url is required")
	}
	if a.Repository.Organization == "" || a.Repository.Name == "" {
		return Validationf("analysis: repository organization and name are required")
	}
	if !a.Status.Known() {
		return Validationf("analysis: status is required")
	}
	for _, p := range a.PluginDependencies {
		if p.Organization == "" || p.Name == "" {
			return Validationf("analysis: plugin dependency organization and name are required")
		}
	}
	for _, pub := range a.PublishedArtifacts {
		if pub.Organization == "" || pub.Name == "" {
			return Validationf("analysis: published artifact organization and name are required")
		}
		for _, dep := range pub.LibraryDependencies {
			if dep.Organization == "" || dep.Name == "" {
				return Validationf("analysis: library dependency organization and name are required for %s:%s", pub.Organization, pub.Name)
			}
		}
	}
	return nil
}
