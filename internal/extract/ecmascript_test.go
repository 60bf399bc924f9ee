package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treeline-dev/treeline/internal/record"
)

func extractSrc(t *testing.T, lang, path, src string) *record.FileRecord {
	t.Helper()
	e, ok := ForLanguage(lang)
	require.True(t, ok)
	rec := e.Extract(path, []byte(src))
	require.NotNil(t, rec)
	return rec
}

func exportByName(t *testing.T, rec *record.FileRecord, name string) record.ExportDecl {
	t.Helper()
	for _, exp := range rec.Exports {
		if exp.Name == name {
			return exp
		}
	}
	t.Fatalf("no export named %q in %v", name, rec.Exports)
	return record.ExportDecl{}
}

func TestTypeScriptExports(t *testing.T) {
	src := `/**
 * Greets a user by name.
 */
export function greet(name: string): string {
  return "hi " + name
}

export class Session {}

export interface Config {
  retries: number
}

export type ID = string

export enum Mode { On, Off }

export const LIMIT = 10

export const handler = (e: Event) => e
`
	rec := extractSrc(t, "typescript", "src/api.ts", src)
	require.Equal(t, record.StatusOK, rec.Status)
	require.Len(t, rec.Exports, 7)

	greet := exportByName(t, rec, "greet")
	assert.Equal(t, "function", greet.Kind)
	assert.Equal(t, "Greets a user by name.", greet.Doc)
	assert.Equal(t, "function greet(name: string): string", greet.Signature)
	assert.EqualValues(t, 4, greet.Span.StartLine)

	assert.Equal(t, "class", exportByName(t, rec, "Session").Kind)
	assert.Equal(t, "interface", exportByName(t, rec, "Config").Kind)
	assert.Equal(t, "type", exportByName(t, rec, "ID").Kind)
	assert.Equal(t, "enum", exportByName(t, rec, "Mode").Kind)
	assert.Equal(t, "const", exportByName(t, rec, "LIMIT").Kind)
	assert.Equal(t, "function", exportByName(t, rec, "handler").Kind, "arrow-function consts count as functions")
}

func TestTypeScriptImports(t *testing.T) {
	src := `import { parse, stringify } from './codec'
import React from 'react'
import * as path from 'node:path'
`
	rec := extractSrc(t, "typescript", "src/app.ts", src)
	require.Len(t, rec.Imports, 3)

	assert.Equal(t, "./codec", rec.Imports[0].Specifier)
	assert.Equal(t, []string{"parse", "stringify"}, rec.Imports[0].Names)

	assert.Equal(t, "react", rec.Imports[1].Specifier)
	assert.Empty(t, rec.Imports[1].Names, "default imports are whole-module")

	assert.Equal(t, "node:path", rec.Imports[2].Specifier)
	assert.Empty(t, rec.Imports[2].Names, "namespace imports are whole-module")
}

func TestTypeScriptReExport(t *testing.T) {
	rec := extractSrc(t, "typescript", "src/index.ts", "export { helper } from './impl'\n")

	assert.Empty(t, rec.Exports)
	require.Len(t, rec.Imports, 1)
	assert.Equal(t, "./impl", rec.Imports[0].Specifier)
	assert.Equal(t, []string{"helper"}, rec.Imports[0].Names)
}

func TestTypeScriptBareExportList(t *testing.T) {
	src := `function foo() {}
const limit = 3

export { foo, limit as LIMIT }
`
	rec := extractSrc(t, "typescript", "src/mod.ts", src)

	assert.Empty(t, rec.Imports)
	require.Len(t, rec.Exports, 2)
	foo := exportByName(t, rec, "foo")
	assert.Equal(t, "unknown", foo.Kind)
	// The alias is the name the module exports.
	exportByName(t, rec, "LIMIT")
}

func TestTypeScriptNonExportsIgnored(t *testing.T) {
	src := `function private1() {}
const private2 = 1

export function visible() {}
`
	rec := extractSrc(t, "typescript", "src/mod.ts", src)
	require.Len(t, rec.Exports, 1)
	assert.Equal(t, "visible", rec.Exports[0].Name)
}

func TestTypeScriptBrokenSourceIsPartial(t *testing.T) {
	rec := extractSrc(t, "typescript", "src/bad.ts", "export function { { {\n")
	assert.Equal(t, record.StatusPartial, rec.Status)
}

func TestTSXGrammar(t *testing.T) {
	src := `export function Widget() {
  return <div>ok</div>
}
`
	rec := extractSrc(t, "typescript", "src/widget.tsx", src)
	require.Equal(t, record.StatusOK, rec.Status)
	require.Len(t, rec.Exports, 1)
	assert.Equal(t, "Widget", rec.Exports[0].Name)
}

func TestJavaScriptDocComment(t *testing.T) {
	src := `/** Sums two numbers. */
export function add(a, b) {
  return a + b
}

// not a doc comment
export function sub(a, b) {
  return a - b
}
`
	rec := extractSrc(t, "javascript", "lib/math.js", src)
	require.Len(t, rec.Exports, 2)
	assert.Equal(t, "Sums two numbers.", exportByName(t, rec, "add").Doc)
	assert.Empty(t, exportByName(t, rec, "sub").Doc)
}
