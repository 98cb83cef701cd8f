package driver

import "testing"

func TestResolveDependenciesPicksHighestMatchingVersion(t *testing.T) {
	available := []AvailableBundle{
		{Name: "mathlib", Version: "1.0.0", Path: "/libs/mathlib-1.0.0.tlib"},
		{Name: "mathlib", Version: "1.2.0", Path: "/libs/mathlib-1.2.0.tlib"},
		{Name: "mathlib", Version: "2.0.0", Path: "/libs/mathlib-2.0.0.tlib"},
	}
	deps := []DependencySpec{{Name: "mathlib", Constraint: "^1.0.0"}}

	got, err := ResolveDependencies(deps, available)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Version != "1.2.0" {
		t.Fatalf("expected 1.2.0 to win within ^1.0.0, got %+v", got)
	}
}

func TestResolveDependenciesRejectsUnsatisfiableConstraint(t *testing.T) {
	available := []AvailableBundle{
		{Name: "mathlib", Version: "1.0.0", Path: "/libs/mathlib-1.0.0.tlib"},
	}
	deps := []DependencySpec{{Name: "mathlib", Constraint: ">=2.0.0"}}

	_, err := ResolveDependencies(deps, available)
	if err == nil {
		t.Fatalf("expected an unsatisfied-dependency error")
	}
	if _, ok := err.(*UnsatisfiedDependencyError); !ok {
		t.Fatalf("expected *UnsatisfiedDependencyError, got %T", err)
	}
}

func TestResolveDependenciesRejectsUnknownPackage(t *testing.T) {
	deps := []DependencySpec{{Name: "ghost", Constraint: ""}}
	_, err := ResolveDependencies(deps, nil)
	if err == nil {
		t.Fatalf("expected an error resolving a dependency with no available versions")
	}
}
