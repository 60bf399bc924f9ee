package extract

import (
	"strings"
	"unicode"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/treeline-dev/treeline/internal/record"
)

// goExtractor extracts exported top-level declarations and import specs
// from Go files. Exported means the declared name starts with an upper
// case letter; methods are skipped because their reachability follows
// the receiver type.
type goExtractor struct{}

func (g *goExtractor) Language() string { return "go" }

func (g *goExtractor) Extract(path string, content []byte) *record.FileRecord {
	tree, partial, err := parse("go", path, content)
	if err != nil {
		return record.Failed(path, "go", err.Error())
	}
	defer tree.Close()

	rec := &record.FileRecord{Path: path, Language: "go", Status: status(partial)}

	root := tree.RootNode()
	for i := 0; i < int(root.ChildCount()); i++ {
		child := root.Child(i)
		switch child.Type() {
		case "import_declaration":
			g.imports(child, content, rec)
		case "function_declaration":
			g.export(child, child.ChildByFieldName("name"), "function", content, rec)
		case "type_declaration":
			g.specs(child, "type_spec", "type", content, rec)
		case "const_declaration":
			g.specs(child, "const_spec", "const", content, rec)
		case "var_declaration":
			g.specs(child, "var_spec", "var", content, rec)
		}
	}
	return rec
}

// imports walks an import declaration, handling both single specs and
// grouped spec lists. Go imports are whole-module by nature.
func (g *goExtractor) imports(node *sitter.Node, content []byte, rec *record.FileRecord) {
	var visit func(n *sitter.Node)
	visit = func(n *sitter.Node) {
		for i := 0; i < int(n.ChildCount()); i++ {
			child := n.Child(i)
			switch child.Type() {
			case "import_spec_list":
				visit(child)
			case "import_spec":
				if p := child.ChildByFieldName("path"); p != nil {
					rec.Imports = append(rec.Imports, record.ImportDecl{
						Specifier: strings.Trim(text(p, content), `"`),
						Span:      span(child),
					})
				}
			}
		}
	}
	visit(node)
}

// specs extracts names from a grouped or single type/const/var
// declaration. Grouped specs are direct children of the declaration in
// the Go grammar, so one flat scan covers both forms.
func (g *goExtractor) specs(node *sitter.Node, specType, kind string, content []byte, rec *record.FileRecord) {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() != specType && !(specType == "type_spec" && child.Type() == "type_alias") {
			continue
		}
		g.export(child, child.ChildByFieldName("name"), kind, content, rec)
	}
}

func (g *goExtractor) export(decl, name *sitter.Node, kind string, content []byte, rec *record.FileRecord) {
	if name == nil {
		return
	}
	n := text(name, content)
	if !isExportedGoName(n) {
		return
	}
	// Doc comments sit before the spec inside a grouped declaration,
	// or before the enclosing declaration for the single form.
	doc := lineCommentsBefore(decl, content, "//")
	if doc == "" && decl.Parent() != nil {
		doc = lineCommentsBefore(decl.Parent(), content, "//")
	}
	rec.Exports = append(rec.Exports, record.ExportDecl{
		Name:      n,
		Kind:      kind,
		Signature: firstLine(decl, content),
		Doc:       doc,
		Span:      span(name),
	})
}

func isExportedGoName(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return unicode.IsUpper(r)
}
