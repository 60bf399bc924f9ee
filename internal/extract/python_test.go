package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treeline-dev/treeline/internal/record"
)

func TestPythonExports(t *testing.T) {
	src := `"""Module docstring."""

def fetch(url):
    """Fetches a URL.

    Long parameter docs that should not leak into the summary.
    """
    return url

class Client:
    '''HTTP client.'''

    def get(self):
        pass

def _private():
    pass

@retry
def robust():
    pass
`
	rec := extractSrc(t, "python", "net/client.py", src)
	require.Equal(t, record.StatusOK, rec.Status)
	require.Len(t, rec.Exports, 3)

	fetch := exportByName(t, rec, "fetch")
	assert.Equal(t, "function", fetch.Kind)
	assert.Equal(t, "Fetches a URL.", fetch.Doc, "docstrings are cut at the first paragraph")
	assert.Equal(t, "def fetch(url)", fetch.Signature)

	client := exportByName(t, rec, "Client")
	assert.Equal(t, "class", client.Kind)
	assert.Equal(t, "HTTP client.", client.Doc)

	assert.Equal(t, "function", exportByName(t, rec, "robust").Kind, "decorated defs are extracted")
}

func TestPythonImports(t *testing.T) {
	src := `import os
import pkg.sub
from utils import clamp, lerp as mix
from . import sibling
from ..shared.types import Result
from glob_source import *
`
	rec := extractSrc(t, "python", "pkg/mod.py", src)
	require.Len(t, rec.Imports, 6)

	assert.Equal(t, "os", rec.Imports[0].Specifier)
	assert.Empty(t, rec.Imports[0].Names)

	assert.Equal(t, "pkg/sub", rec.Imports[1].Specifier)

	assert.Equal(t, "utils", rec.Imports[2].Specifier)
	assert.Equal(t, []string{"clamp", "lerp"}, rec.Imports[2].Names, "aliases keep the original name")

	assert.Equal(t, ".", rec.Imports[3].Specifier)
	assert.Equal(t, []string{"sibling"}, rec.Imports[3].Names)

	assert.Equal(t, "../shared/types", rec.Imports[4].Specifier)
	assert.Equal(t, []string{"Result"}, rec.Imports[4].Names)

	assert.Equal(t, "glob_source", rec.Imports[5].Specifier)
	assert.Empty(t, rec.Imports[5].Names, "wildcard imports are whole-module")
}
