package extract

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/treeline-dev/treeline/internal/record"
)

// rustItemKinds maps Rust item node types to export kinds.
var rustItemKinds = map[string]string{
	"function_item": "function",
	"struct_item":   "struct",
	"enum_item":     "enum",
	"type_item":     "type",
	"const_item":    "const",
	"static_item":   "const",
	"trait_item":    "trait",
	"mod_item":      "module",
}

// rustExtractor extracts pub items and use declarations from Rust
// files.
type rustExtractor struct{}

func (r *rustExtractor) Language() string { return "rust" }

func (r *rustExtractor) Extract(path string, content []byte) *record.FileRecord {
	tree, partial, err := parse("rust", path, content)
	if err != nil {
		return record.Failed(path, "rust", err.Error())
	}
	defer tree.Close()

	rec := &record.FileRecord{Path: path, Language: "rust", Status: status(partial)}

	root := tree.RootNode()
	for i := 0; i < int(root.ChildCount()); i++ {
		child := root.Child(i)
		if kind, ok := rustItemKinds[child.Type()]; ok {
			r.item(child, kind, content, rec)
			continue
		}
		if child.Type() == "use_declaration" {
			r.use(child, content, rec)
		}
	}
	return rec
}

// item records a top-level item when it carries a pub visibility
// modifier.
func (r *rustExtractor) item(node *sitter.Node, kind string, content []byte, rec *record.FileRecord) {
	name := node.ChildByFieldName("name")
	if name == nil {
		return
	}
	public := false
	for i := 0; i < int(node.ChildCount()); i++ {
		if c := node.Child(i); c.Type() == "visibility_modifier" && strings.Contains(text(c, content), "pub") {
			public = true
			break
		}
	}
	if !public {
		return
	}
	rec.Exports = append(rec.Exports, record.ExportDecl{
		Name:      text(name, content),
		Kind:      kind,
		Signature: firstLine(node, content),
		Doc:       lineCommentsBefore(node, content, "///"),
		Span:      span(name),
	})
}

// use records a use declaration. Paths are normalized to the resolver's
// specifier form: `self::` and `super::` become relative markers,
// `crate::` is stripped so the remainder matches module ids by suffix,
// and the final segment is treated as the imported name when it looks
// like an item rather than a module (capitalized or a glob).
func (r *rustExtractor) use(node *sitter.Node, content []byte, rec *record.FileRecord) {
	arg := node.ChildByFieldName("argument")
	if arg == nil {
		return
	}
	raw := text(arg, content)
	// Brace groups and as-aliases are out of best-effort scope; keep the
	// path prefix before the group and drop the alias.
	if i := strings.Index(raw, "::{"); i >= 0 {
		raw = raw[:i]
	}
	if i := strings.Index(raw, " as "); i >= 0 {
		raw = raw[:i]
	}

	segments := strings.Split(raw, "::")
	prefix := ""
	switch segments[0] {
	case "crate":
		segments = segments[1:]
	case "self":
		prefix = "./"
		segments = segments[1:]
	case "super":
		prefix = "../"
		segments = segments[1:]
		for len(segments) > 0 && segments[0] == "super" {
			prefix += "../"
			segments = segments[1:]
		}
	}

	var names []string
	if n := len(segments); n > 1 {
		last := segments[n-1]
		if last == "*" || (last != "" && last[0] >= 'A' && last[0] <= 'Z') {
			if last != "*" {
				names = []string{last}
			}
			segments = segments[:n-1]
		}
	}
	if len(segments) == 0 {
		return
	}

	rec.Imports = append(rec.Imports, record.ImportDecl{
		Specifier: prefix + strings.Join(segments, "/"),
		Names:     names,
		Span:      span(node),
	})
}
