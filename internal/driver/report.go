package driver

import (
	"fmt"
	"strings"
	"time"

	"github.com/tarik-lang/tarikc/internal/position"
)

// PassTiming records how long one named step took; Fill records a single
// "compile" entry covering the whole unit.
type PassTiming struct {
	Name     string
	Duration time.Duration
}

// BuildReport is the user-facing rendering of one unit's compile: its
// diagnostics, formatted the way the core's Diagnostic.String() already
// does, plus timing entries the core itself has no reason to track.
type BuildReport struct {
	Unit        string
	Diagnostics []*position.Diagnostic
	Timings     []PassTiming
}

func NewBuildReport(unit string) *BuildReport {
	return &BuildReport{Unit: unit}
}

func (r *BuildReport) recordPass(name string, d time.Duration) {
	r.Timings = append(r.Timings, PassTiming{Name: name, Duration: d})
}

// ErrorCount reports how many of the recorded diagnostics are errors.
func (r *BuildReport) ErrorCount() int {
	n := 0
	for _, d := range r.Diagnostics {
		if d.Severity == position.SeverityError {
			n++
		}
	}
	return n
}

// String renders the report the way the CLI prints it: one line per
// diagnostic, then a timing summary.
func (r *BuildReport) String() string {
	var b strings.Builder
	for _, d := range r.Diagnostics {
		fmt.Fprintln(&b, d.String())
	}
	if len(r.Timings) > 0 {
		fmt.Fprintf(&b, "%s:\n", r.Unit)
		for _, t := range r.Timings {
			fmt.Fprintf(&b, "  %-10s %s\n", t.Name, t.Duration)
		}
	}
	return b.String()
}

// Fill populates the report's diagnostics and a single "compile" timing
// entry from a finished UnitResult and the duration its compile took.
func (r *BuildReport) Fill(res *UnitResult, d time.Duration) {
	r.recordPass("compile", d)
	if res != nil {
		r.Diagnostics = res.Bucket.Diagnostics()
	}
}
