// Package report renders the transitive plugin-dependency tree of a
// repository as annotated, deterministic plain text.
package report

import (
	"context"
	"fmt"
	"io"
	"strings"

	"ecotrack/internal/domain"
	"ecotrack/internal/repository"
)

// Renderer produces dependency reports from the store. It performs no
// writes; it only needs a consistent read snapshot.
type Renderer struct {
	store repository.Store
	out   io.Writer

	// Plain disables ANSI highlighting. Tests and --no-color use it.
	Plain bool
}

// New creates a renderer writing to out.
func New(store repository.Store, out io.Writer) *Renderer {
	return &Renderer{store: store, out: out}
}

// artifactKey is the (organization, name) identity used for the
// visited-artifact set.
type artifactKey struct {
	organization string
	name         string
}

// walker carries the traversal state of one report: the repositories
// already expanded and the artifact coordinates already emitted. Both
// sets are required to terminate in the presence of dependency cycles.
type walker struct {
	r                *Renderer
	ctx              context.Context
	visitedRepos     map[int64]bool
	visitedArtifacts map[artifactKey]bool
}

// Render prints the dependency report for the repository identified by
// organization/name. A missing root repository reports not-found without
// attempting any traversal.
func (r *Renderer) Render(ctx context.Context, organization, name string) error {
	root, err := r.store.FindRepository(ctx, organization, name)
	if err != nil {
		return err
	}
	if root == nil {
		return fmt.Errorf("repository %q: %w", organization+"/"+name, domain.ErrNotFound)
	}

	r.header(root)

	w := &walker{
		r:                r,
		ctx:              ctx,
		visitedRepos:     make(map[int64]bool),
		visitedArtifacts: make(map[artifactKey]bool),
	}
	fmt.Fprintf(r.out, "%s %s\n", r.indicator(root.Status), root.Slug())
	return w.walk(root, "")
}

// header prints the report title and the fixed legend, once per report.
func (r *Renderer) header(root *domain.Repository) {
	fmt.Fprintf(r.out, "Dependency Report for: %s\n", root.Slug())
	fmt.Fprintf(r.out, "Status: %s\n", root.Status)
	fmt.Fprintln(r.out, strings.Repeat("=", 60))
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, "Legend:")
	fmt.Fprintln(r.out, "  ✓ = upstream (ported)")
	fmt.Fprintln(r.out, "  X = not_ported")
	fmt.Fprintln(r.out, "  E = experimental")
	fmt.Fprintln(r.out, "  B = blocked")
	fmt.Fprintln(r.out, "  ? = artifact without known repository")
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, "Dependency Tree:")
	fmt.Fprintln(r.out)
}

// walk expands the plugin dependencies of repo, whose own line has
// already been emitted. prefix is the indentation carried down from the
// ancestors' connectors.
func (w *walker) walk(repo *domain.Repository, prefix string) error {
	w.visitedRepos[repo.ID] = true

	deps, err := w.r.store.ListPluginDependencies(w.ctx, repo.ID)
	if err != nil {
		return err
	}

	for i, dep := range deps {
		connector := "├─ "
		childPrefix := prefix + "│  "
		if i == len(deps)-1 {
			connector = "└─ "
			childPrefix = prefix + "   "
		}

		if err := w.emit(dep, prefix+connector, childPrefix); err != nil {
			return err
		}
	}
	return nil
}

// emit renders one plugin edge. Recursion is driven by the owning
// repository's status, not the artifact's: the repository record is the
// source of truth for whether a dependency is itself migrated.
func (w *walker) emit(dep domain.PluginDependency, linePrefix, childPrefix string) error {
	key := artifactKey{dep.Artifact.Organization, dep.Artifact.Name}

	owner, err := w.r.store.FindOwningRepository(w.ctx, dep.Artifact.ID)
	if err != nil {
		return err
	}

	if owner != nil {
		if w.visitedRepos[owner.ID] {
			// Cycle break: the plugin relation is not guaranteed acyclic.
			fmt.Fprintf(w.r.out, "%s%s %s %s\n", linePrefix, w.r.indicator(owner.Status), owner.Slug(), w.r.visitedSuffix())
			return nil
		}
		w.visitedArtifacts[key] = true

		if owner.Status == domain.StatusUpstream {
			// An upstream-ported dependency is solved; its own
			// sub-dependencies are irrelevant to the root's blockers.
			fmt.Fprintf(w.r.out, "%s%s %s\n", linePrefix, w.r.indicator(owner.Status), owner.Slug())
			return nil
		}

		fmt.Fprintf(w.r.out, "%s%s %s\n", linePrefix, w.r.indicator(owner.Status), owner.Slug())
		return w.walk(owner, childPrefix)
	}

	coordinate := fmt.Sprintf("%s:%s", dep.Artifact.Organization, dep.Artifact.Name)
	if dep.Version != "" {
		coordinate += ":" + dep.Version
	}

	if w.visitedArtifacts[key] {
		fmt.Fprintf(w.r.out, "%s%s %s %s\n", linePrefix, w.r.indicator(dep.Artifact.Status), coordinate, w.r.visitedSuffix())
		return nil
	}
	w.visitedArtifacts[key] = true

	fmt.Fprintf(w.r.out, "%s%s %s\n", linePrefix, w.r.indicator(dep.Artifact.Status), coordinate)
	return nil
}
