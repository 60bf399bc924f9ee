package treeline

import "github.com/treeline-dev/treeline/internal/record"

// Gap queries are read-only views over the gap list computed when the
// Analysis was built. Each returns a fresh slice sorted by
// (module id, export name); calling them repeatedly or concurrently is
// safe and always yields identical results.

// DeadExports lists exports no resolved import references by name,
// excluding entry-point modules. Test-file references count: an export
// used only from tests is not dead.
func (a *Analysis) DeadExports() []Gap {
	return a.gapsOfKind(record.GapDeadExport)
}

// UntestedExports lists exports with no reference from a
// test-classified file. This is a heuristic proxy for coverage based
// on import edges, not execution; an export can be referenced by
// non-test code and still be untested.
func (a *Analysis) UntestedExports() []Gap {
	return a.gapsOfKind(record.GapUntestedExport)
}

// UndocumentedExports lists exports with no doc text whose kind is
// classified as public surface.
func (a *Analysis) UndocumentedExports() []Gap {
	return a.gapsOfKind(record.GapUndocumentedExport)
}

// Gaps returns every gap, sorted by (module, export, kind).
func (a *Analysis) Gaps() []Gap {
	out := make([]Gap, len(a.gaps))
	copy(out, a.gaps)
	return out
}

func (a *Analysis) gapsOfKind(kind record.GapKind) []Gap {
	var out []Gap
	for _, gap := range a.gaps {
		if gap.Kind == kind {
			out = append(out, gap)
		}
	}
	return out
}
