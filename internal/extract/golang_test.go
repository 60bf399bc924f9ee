package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treeline-dev/treeline/internal/record"
)

func TestGoExports(t *testing.T) {
	src := `package cache

import (
	"sync"

	"github.com/dustin/go-humanize"
)

// Cache is a bounded in-memory cache.
type Cache struct {
	mu sync.Mutex
}

// New builds an empty Cache.
func New(size int) *Cache {
	_ = humanize.Bytes(0)
	return &Cache{}
}

const MaxSize = 1024

var DefaultTTL = 60

type entry struct{}

func helper() {}
`
	rec := extractSrc(t, "go", "cache/cache.go", src)
	require.Equal(t, record.StatusOK, rec.Status)
	require.Len(t, rec.Exports, 4, "unexported names are skipped")

	cache := exportByName(t, rec, "Cache")
	assert.Equal(t, "type", cache.Kind)
	assert.Equal(t, "Cache is a bounded in-memory cache.", cache.Doc)

	newFn := exportByName(t, rec, "New")
	assert.Equal(t, "function", newFn.Kind)
	assert.Equal(t, "New builds an empty Cache.", newFn.Doc)
	assert.Equal(t, "func New(size int) *Cache", newFn.Signature)

	assert.Equal(t, "const", exportByName(t, rec, "MaxSize").Kind)
	assert.Equal(t, "var", exportByName(t, rec, "DefaultTTL").Kind)
}

func TestGoImportsAreWholeModule(t *testing.T) {
	src := `package app

import (
	"fmt"

	"example.com/proj/internal/store"
)
`
	rec := extractSrc(t, "go", "app/app.go", src)
	require.Len(t, rec.Imports, 2)
	assert.Equal(t, "fmt", rec.Imports[0].Specifier)
	assert.Equal(t, "example.com/proj/internal/store", rec.Imports[1].Specifier)
	for _, imp := range rec.Imports {
		assert.Empty(t, imp.Names)
	}
}

func TestGoGroupedSpecs(t *testing.T) {
	src := `package kinds

type (
	// Alpha is the first kind.
	Alpha struct{}
	Beta  struct{}
)

const (
	One = 1
	two = 2
)
`
	rec := extractSrc(t, "go", "kinds.go", src)
	require.Len(t, rec.Exports, 3)
	assert.Equal(t, "Alpha is the first kind.", exportByName(t, rec, "Alpha").Doc)
	assert.Empty(t, exportByName(t, rec, "Beta").Doc)
	assert.Equal(t, "const", exportByName(t, rec, "One").Kind)
}

func TestGoMethodsSkipped(t *testing.T) {
	src := `package m

type T struct{}

func (t *T) Exported() {}
`
	rec := extractSrc(t, "go", "m.go", src)
	require.Len(t, rec.Exports, 1)
	assert.Equal(t, "T", rec.Exports[0].Name)
}
