package extract

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/treeline-dev/treeline/internal/record"
)

// pythonExtractor extracts top-level def/class declarations and import
// statements from Python files. Names with a leading underscore are
// conventionally private and skipped.
type pythonExtractor struct{}

func (p *pythonExtractor) Language() string { return "python" }

func (p *pythonExtractor) Extract(path string, content []byte) *record.FileRecord {
	tree, partial, err := parse("python", path, content)
	if err != nil {
		return record.Failed(path, "python", err.Error())
	}
	defer tree.Close()

	rec := &record.FileRecord{Path: path, Language: "python", Status: status(partial)}

	root := tree.RootNode()
	for i := 0; i < int(root.ChildCount()); i++ {
		child := root.Child(i)
		switch child.Type() {
		case "function_definition":
			p.definition(child, "function", content, rec)
		case "class_definition":
			p.definition(child, "class", content, rec)
		case "decorated_definition":
			if d := child.ChildByFieldName("definition"); d != nil {
				kind := "function"
				if d.Type() == "class_definition" {
					kind = "class"
				}
				p.definition(d, kind, content, rec)
			}
		case "import_statement":
			p.plainImport(child, content, rec)
		case "import_from_statement":
			p.fromImport(child, content, rec)
		}
	}
	return rec
}

func (p *pythonExtractor) definition(node *sitter.Node, kind string, content []byte, rec *record.FileRecord) {
	name := node.ChildByFieldName("name")
	if name == nil {
		return
	}
	n := text(name, content)
	if strings.HasPrefix(n, "_") {
		return
	}
	rec.Exports = append(rec.Exports, record.ExportDecl{
		Name:      n,
		Kind:      kind,
		Signature: strings.TrimSuffix(firstLine(node, content), ":"),
		Doc:       docstring(node, content),
		Span:      span(name),
	})
}

// docstring returns the cleaned first string expression of a def/class
// body, the Python documentation convention.
func docstring(node *sitter.Node, content []byte) string {
	body := node.ChildByFieldName("body")
	if body == nil || body.ChildCount() == 0 {
		return ""
	}
	first := body.Child(0)
	if first.Type() != "expression_statement" || first.ChildCount() == 0 {
		return ""
	}
	str := first.Child(0)
	if str.Type() != "string" {
		return ""
	}
	raw := text(str, content)
	for _, fence := range []string{`"""`, `'''`, `"`, `'`} {
		if strings.HasPrefix(raw, fence) {
			raw = strings.TrimSuffix(strings.TrimPrefix(raw, fence), fence)
			break
		}
	}
	// First paragraph only; docstrings often carry full parameter docs.
	if i := strings.Index(raw, "\n\n"); i >= 0 {
		raw = raw[:i]
	}
	return strings.Join(strings.Fields(raw), " ")
}

// plainImport handles `import a.b, c`: one whole-module import per
// dotted name.
func (p *pythonExtractor) plainImport(node *sitter.Node, content []byte, rec *record.FileRecord) {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "dotted_name":
			rec.Imports = append(rec.Imports, record.ImportDecl{
				Specifier: dottedToPath(text(child, content)),
				Span:      span(node),
			})
		case "aliased_import":
			if n := child.ChildByFieldName("name"); n != nil {
				rec.Imports = append(rec.Imports, record.ImportDecl{
					Specifier: dottedToPath(text(n, content)),
					Span:      span(node),
				})
			}
		}
	}
}

// fromImport handles `from x.y import a, b as c` and relative forms
// like `from ..pkg import d`.
func (p *pythonExtractor) fromImport(node *sitter.Node, content []byte, rec *record.FileRecord) {
	module := node.ChildByFieldName("module_name")
	if module == nil {
		return
	}
	imp := record.ImportDecl{
		Specifier: dottedToPath(text(module, content)),
		Span:      span(node),
	}

	// Children after the "import" keyword are the imported names.
	seenImport := false
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == "import" {
			seenImport = true
			continue
		}
		if !seenImport {
			continue
		}
		switch child.Type() {
		case "dotted_name":
			imp.Names = append(imp.Names, text(child, content))
		case "aliased_import":
			if n := child.ChildByFieldName("name"); n != nil {
				imp.Names = append(imp.Names, text(n, content))
			}
		case "wildcard_import":
			imp.Names = nil
			rec.Imports = append(rec.Imports, imp)
			return
		}
	}
	rec.Imports = append(rec.Imports, imp)
}

// dottedToPath normalizes a Python module path into the resolver's
// specifier form: dots become path separators and leading relative dots
// become ./ or ../ chains (`..pkg.mod` -> `../pkg/mod`).
func dottedToPath(dotted string) string {
	rel := 0
	for rel < len(dotted) && dotted[rel] == '.' {
		rel++
	}
	rest := strings.ReplaceAll(dotted[rel:], ".", "/")
	switch rel {
	case 0:
		return rest
	case 1:
		if rest == "" {
			return "."
		}
		return "./" + rest
	default:
		prefix := strings.Repeat("../", rel-1)
		if rest == "" {
			return strings.TrimSuffix(prefix, "/")
		}
		return prefix + rest
	}
}
