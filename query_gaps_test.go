package treeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGapQueriesAreSortedAndRepeatable(t *testing.T) {
	a := analyze(t, map[string]string{
		"z.ts": "export function zeta() {}\n",
		"a.ts": "export function alpha() {}\nexport function omega() {}\n",
	})

	dead := a.DeadExports()
	require.Len(t, dead, 3)
	assert.Equal(t, "a", dead[0].Module)
	assert.Equal(t, "alpha", dead[0].Export)
	assert.Equal(t, "omega", dead[1].Export)
	assert.Equal(t, "z", dead[2].Module)

	assert.Equal(t, dead, a.DeadExports(), "queries are idempotent")
}

func TestGapQueriesFilterByKind(t *testing.T) {
	a := analyze(t, map[string]string{
		"a.ts": "export function solo() {}\n",
	})

	for _, gap := range a.DeadExports() {
		assert.Equal(t, GapDeadExport, gap.Kind)
	}
	for _, gap := range a.UntestedExports() {
		assert.Equal(t, GapUntestedExport, gap.Kind)
	}
	for _, gap := range a.UndocumentedExports() {
		assert.Equal(t, GapUndocumentedExport, gap.Kind)
	}

	total := len(a.DeadExports()) + len(a.UntestedExports()) + len(a.UndocumentedExports())
	assert.Len(t, a.Gaps(), total)
}

func TestDocumentedExportNotUndocumented(t *testing.T) {
	a := analyze(t, map[string]string{
		"a.ts": "/** Well documented. */\nexport function covered() {}\n",
	})

	assert.Empty(t, a.UndocumentedExports())
}

func TestSurfaceKindsNarrowUndocumented(t *testing.T) {
	a := analyze(t, map[string]string{
		"a.ts": "export function fn() {}\nexport const VALUE = 1\n",
	}, WithConfig(Config{SurfaceKinds: []string{"const"}}))

	names := gapNames(a.UndocumentedExports())
	assert.Contains(t, names, "a.VALUE")
	assert.NotContains(t, names, "a.fn")
}

func TestTestFileExportsAreNotGapSubjects(t *testing.T) {
	a := analyze(t, map[string]string{
		"a.ts":      "/** Doc. */\nexport function real() {}\n",
		"a.test.ts": "import { real } from './a'\nexport function helper() {}\n",
	})

	for _, gap := range a.Gaps() {
		assert.NotEqual(t, "a.test", gap.Module)
	}
}

func TestGapsReturnsACopy(t *testing.T) {
	a := analyze(t, map[string]string{
		"a.ts": "export function x() {}\n",
	})

	gaps := a.Gaps()
	require.NotEmpty(t, gaps)
	gaps[0].Export = "mutated"
	assert.NotEqual(t, "mutated", a.Gaps()[0].Export)
}
