package driver

import (
	"fmt"
	"sort"

	semver "github.com/Masterminds/semver/v3"
)

// AvailableBundle names one version of a library bundle a build composer
// can see, the unit of choice version resolution picks between. Path is
// the bundle file BuildProject's default importer reads it from.
type AvailableBundle struct {
	Name    string
	Version string
	Path    string
}

// ResolvedDependency pins one manifest dependency to a concrete bundle.
type ResolvedDependency struct {
	Name    string
	Version string
	Path    string
}

// UnsatisfiedDependencyError reports a dependency with no available
// version that satisfies its manifest constraint.
type UnsatisfiedDependencyError struct {
	Name       string
	Constraint string
}

func (e *UnsatisfiedDependencyError) Error() string {
	return fmt.Sprintf("no built version of %q satisfies constraint %q", e.Name, e.Constraint)
}

// ResolveDependencies picks, for every dependency a manifest names, the
// highest available bundle version satisfying its constraint. Unlike the
// recursive, transitive resolution the version-constraint library was
// originally written for, a project manifest here only ever names its
// own direct dependencies; nothing discovers a dependency's own
// dependencies, since a built bundle carries no "requires" list of its
// own (spec.md's bundle format has no field for one).
func ResolveDependencies(deps []DependencySpec, available []AvailableBundle) ([]ResolvedDependency, error) {
	byName := map[string][]AvailableBundle{}
	for _, a := range available {
		byName[a.Name] = append(byName[a.Name], a)
	}

	var out []ResolvedDependency
	for _, d := range deps {
		constraint := d.Constraint
		if constraint == "" {
			constraint = ">=0.0.0"
		}
		c, err := semver.NewConstraint(constraint)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", d.Name, err)
		}

		candidates := append([]AvailableBundle(nil), byName[d.Name]...)
		sort.Slice(candidates, func(i, j int) bool {
			vi, erri := semver.NewVersion(candidates[i].Version)
			vj, errj := semver.NewVersion(candidates[j].Version)
			if erri != nil || errj != nil {
				return candidates[i].Version > candidates[j].Version
			}
			return vi.GreaterThan(vj)
		})

		var picked *AvailableBundle
		for i := range candidates {
			v, err := semver.NewVersion(candidates[i].Version)
			if err != nil {
				continue
			}
			if c.Check(v) {
				picked = &candidates[i]
				break
			}
		}
		if picked == nil {
			return nil, &UnsatisfiedDependencyError{Name: d.Name, Constraint: constraint}
		}
		out = append(out, ResolvedDependency{Name: picked.Name, Version: picked.Version, Path: picked.Path})
	}
	return out, nil
}
