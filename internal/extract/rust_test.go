package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treeline-dev/treeline/internal/record"
)

func TestRustPubItems(t *testing.T) {
	src := `/// Parses raw input.
/// Returns the tree.
pub fn parse(input: &str) -> Tree {
    Tree {}
}

pub struct Tree {}

pub enum Mode { Fast, Slow }

pub trait Walk {}

pub const LIMIT: usize = 8;

pub mod inner {}

fn private_helper() {}

struct Hidden {}
`
	rec := extractSrc(t, "rust", "src/parser.rs", src)
	require.Equal(t, record.StatusOK, rec.Status)
	require.Len(t, rec.Exports, 6, "non-pub items are skipped")

	parse := exportByName(t, rec, "parse")
	assert.Equal(t, "function", parse.Kind)
	assert.Equal(t, "Parses raw input. Returns the tree.", parse.Doc)
	assert.Equal(t, "pub fn parse(input: &str) -> Tree", parse.Signature)

	assert.Equal(t, "struct", exportByName(t, rec, "Tree").Kind)
	assert.Equal(t, "enum", exportByName(t, rec, "Mode").Kind)
	assert.Equal(t, "trait", exportByName(t, rec, "Walk").Kind)
	assert.Equal(t, "const", exportByName(t, rec, "LIMIT").Kind)
	assert.Equal(t, "module", exportByName(t, rec, "inner").Kind)
}

func TestRustUseDeclarations(t *testing.T) {
	src := `use crate::core::Analyzer;
use self::helpers;
use super::shared::Config;
use std::collections::HashMap;
use crate::output::*;
`
	rec := extractSrc(t, "rust", "src/commands/run.rs", src)
	require.Len(t, rec.Imports, 5)

	assert.Equal(t, "core", rec.Imports[0].Specifier)
	assert.Equal(t, []string{"Analyzer"}, rec.Imports[0].Names)

	assert.Equal(t, "./helpers", rec.Imports[1].Specifier)
	assert.Empty(t, rec.Imports[1].Names)

	assert.Equal(t, "../shared", rec.Imports[2].Specifier)
	assert.Equal(t, []string{"Config"}, rec.Imports[2].Names)

	assert.Equal(t, "std/collections", rec.Imports[3].Specifier)
	assert.Equal(t, []string{"HashMap"}, rec.Imports[3].Names)

	assert.Equal(t, "output", rec.Imports[4].Specifier)
	assert.Empty(t, rec.Imports[4].Names, "glob imports are whole-module")
}

func TestRustDocCommentGapBreaks(t *testing.T) {
	src := `/// Stale comment.

/// Real doc.
pub fn documented() {}
`
	rec := extractSrc(t, "rust", "src/lib.rs", src)
	require.Len(t, rec.Exports, 1)
	assert.Equal(t, "Real doc.", rec.Exports[0].Doc)
}
