package extract

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/treeline-dev/treeline/internal/record"
)

// ecmaExtractor handles TypeScript and JavaScript. The two grammars
// share node names for everything this extractor reads, so a single
// walker serves both; only the grammar selection differs.
type ecmaExtractor struct {
	language string
}

func (e *ecmaExtractor) Language() string { return e.language }

func (e *ecmaExtractor) Extract(path string, content []byte) *record.FileRecord {
	tree, partial, err := parse(e.language, path, content)
	if err != nil {
		return record.Failed(path, e.language, err.Error())
	}
	defer tree.Close()

	rec := &record.FileRecord{
		Path:     path,
		Language: e.language,
		Status:   status(partial),
	}
	e.walk(tree.RootNode(), content, rec)
	return rec
}

// walk visits top-level statements. Exports only exist at the top level
// in ES modules, so there is no need to descend into function bodies.
func (e *ecmaExtractor) walk(root *sitter.Node, content []byte, rec *record.FileRecord) {
	for i := 0; i < int(root.ChildCount()); i++ {
		child := root.Child(i)
		switch child.Type() {
		case "export_statement":
			e.exportStatement(child, content, rec)
		case "import_statement":
			if imp, ok := e.importStatement(child, content); ok {
				rec.Imports = append(rec.Imports, imp)
			}
		}
	}
}

// exportStatement pulls the declaration out of an export statement.
// `export { X } from './y'` is recorded as an import (a re-export
// reads the source module), matching how the resolver sees it. A bare
// export list (`export { X }`) exports local declarations, so its
// names join the export surface instead.
func (e *ecmaExtractor) exportStatement(node *sitter.Node, content []byte, rec *record.FileRecord) {
	var clause *sitter.Node
	var source string

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "function_declaration", "generator_function_declaration":
			if d, ok := e.named(child, content, "function"); ok {
				rec.Exports = append(rec.Exports, d)
			}
		case "class_declaration", "abstract_class_declaration":
			if d, ok := e.named(child, content, "class"); ok {
				rec.Exports = append(rec.Exports, d)
			}
		case "interface_declaration":
			if d, ok := e.named(child, content, "interface"); ok {
				rec.Exports = append(rec.Exports, d)
			}
		case "type_alias_declaration":
			if d, ok := e.named(child, content, "type"); ok {
				rec.Exports = append(rec.Exports, d)
			}
		case "enum_declaration":
			if d, ok := e.named(child, content, "enum"); ok {
				rec.Exports = append(rec.Exports, d)
			}
		case "lexical_declaration", "variable_declaration":
			rec.Exports = append(rec.Exports, e.variables(child, content)...)
		case "export_clause":
			clause = child
		case "string", "template_string":
			source = stringContent(child, content)
		}
	}

	if clause == nil {
		return
	}
	if source != "" {
		rec.Imports = append(rec.Imports, record.ImportDecl{
			Specifier: source,
			Names:     exportClauseNames(clause, content),
			Span:      span(node),
		})
		return
	}
	// The declarations behind a bare export list live elsewhere in the
	// file, so only the exported name (the alias, when present) is
	// known here.
	for i := 0; i < int(clause.ChildCount()); i++ {
		spec := clause.Child(i)
		if spec.Type() != "export_specifier" {
			continue
		}
		name := spec.ChildByFieldName("alias")
		if name == nil {
			name = spec.ChildByFieldName("name")
		}
		if name == nil {
			continue
		}
		rec.Exports = append(rec.Exports, record.ExportDecl{
			Name:      text(name, content),
			Kind:      "unknown",
			Signature: firstLine(node, content),
			Doc:       blockCommentBefore(node, content),
			Span:      span(node),
		})
	}
}

// named extracts a declaration whose name lives under the "name" field
// (functions, classes) or appears as the first identifier-like child
// (interfaces, type aliases, enums).
func (e *ecmaExtractor) named(node *sitter.Node, content []byte, kind string) (record.ExportDecl, bool) {
	name := node.ChildByFieldName("name")
	if name == nil {
		for i := 0; i < int(node.ChildCount()); i++ {
			c := node.Child(i)
			if c.Type() == "identifier" || c.Type() == "type_identifier" {
				name = c
				break
			}
		}
	}
	if name == nil {
		return record.ExportDecl{}, false
	}
	return record.ExportDecl{
		Name:      text(name, content),
		Kind:      kind,
		Signature: firstLine(node, content),
		Doc:       blockCommentBefore(node, content),
		Span:      span(node),
	}, true
}

// variables extracts exported const/let/var declarators. A declarator
// initialized with an arrow function counts as a function export.
func (e *ecmaExtractor) variables(node *sitter.Node, content []byte) []record.ExportDecl {
	var out []record.ExportDecl
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() != "variable_declarator" {
			continue
		}
		name := child.ChildByFieldName("name")
		if name == nil || name.Type() != "identifier" {
			continue
		}
		kind := "const"
		if v := child.ChildByFieldName("value"); v != nil && v.Type() == "arrow_function" {
			kind = "function"
		}
		out = append(out, record.ExportDecl{
			Name:      text(name, content),
			Kind:      kind,
			Signature: firstLine(node, content),
			Doc:       blockCommentBefore(node, content),
			Span:      span(child),
		})
	}
	return out
}

// importStatement reads an ES import: specifier plus the named-import
// list. Default and namespace imports have no per-symbol names, so they
// surface as whole-module imports (empty Names).
func (e *ecmaExtractor) importStatement(node *sitter.Node, content []byte) (record.ImportDecl, bool) {
	imp := record.ImportDecl{Span: span(node)}

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "import_clause":
			for j := 0; j < int(child.ChildCount()); j++ {
				if gc := child.Child(j); gc.Type() == "named_imports" {
					imp.Names = append(imp.Names, namedImportNames(gc, content)...)
				}
			}
		case "string":
			imp.Specifier = stringContent(child, content)
		}
	}
	return imp, imp.Specifier != ""
}

// namedImportNames collects the original (pre-alias) names from a
// named_imports node: `import { a, b as c }` yields ["a", "b"].
func namedImportNames(node *sitter.Node, content []byte) []string {
	var names []string
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() != "import_specifier" {
			continue
		}
		if n := child.ChildByFieldName("name"); n != nil {
			names = append(names, text(n, content))
		}
	}
	return names
}

// exportClauseNames collects names from `export { a, b as c } from ...`.
func exportClauseNames(node *sitter.Node, content []byte) []string {
	var names []string
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() != "export_specifier" {
			continue
		}
		if n := child.ChildByFieldName("name"); n != nil {
			names = append(names, text(n, content))
		}
	}
	return names
}

// stringContent unwraps a string literal node.
func stringContent(node *sitter.Node, content []byte) string {
	for i := 0; i < int(node.ChildCount()); i++ {
		if c := node.Child(i); c.Type() == "string_fragment" {
			return text(c, content)
		}
	}
	return strings.Trim(text(node, content), "\"'`")
}
