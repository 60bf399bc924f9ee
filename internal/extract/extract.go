// Package extract wraps per-language tree-sitter parsers behind a
// single Extractor contract: given file content, produce a FileRecord
// with the file's declared exports and imports. Extraction is
// best-effort: a file that fails to parse degrades to a failed record
// instead of aborting the run.
package extract

import (
	"context"
	"path/filepath"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/rust"
	tsx "github.com/smacker/go-tree-sitter/typescript/tsx"
	ts "github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/treeline-dev/treeline/internal/record"
)

// Extractor is the per-language symbol extraction capability. Extract
// must never fail fatally: malformed input yields a FileRecord with
// StatusFailed and empty lists.
type Extractor interface {
	Language() string
	Extract(path string, content []byte) *record.FileRecord
}

// extToLanguage maps file extensions to canonical language tags.
var extToLanguage = map[string]string{
	".ts":  "typescript",
	".tsx": "typescript",
	".js":  "javascript",
	".jsx": "javascript",
	".mjs": "javascript",
	".cjs": "javascript",
	".go":  "go",
	".py":  "python",
	".rs":  "rust",
}

var (
	registry     map[string]Extractor
	registryOnce sync.Once
)

func initRegistry() {
	registryOnce.Do(func() {
		registry = map[string]Extractor{
			"typescript": &ecmaExtractor{language: "typescript"},
			"javascript": &ecmaExtractor{language: "javascript"},
			"go":         &goExtractor{},
			"python":     &pythonExtractor{},
			"rust":       &rustExtractor{},
		}
	})
}

// LanguageForFile returns the canonical language tag for a file path
// based on its extension. Returns ("", false) for unsupported files.
func LanguageForFile(path string) (string, bool) {
	lang, ok := extToLanguage[strings.ToLower(filepath.Ext(path))]
	return lang, ok
}

// ForLanguage returns the Extractor registered for a language tag.
func ForLanguage(lang string) (Extractor, bool) {
	initRegistry()
	e, ok := registry[lang]
	return e, ok
}

// Languages returns the canonical tags with a registered extractor.
func Languages() []string {
	initRegistry()
	langs := make([]string, 0, len(registry))
	for l := range registry {
		langs = append(langs, l)
	}
	return langs
}

// grammarFor picks the tree-sitter grammar for a language tag. TSX
// files use the tsx grammar; everything else keys off the tag alone.
func grammarFor(lang, path string) *sitter.Language {
	switch lang {
	case "typescript":
		if strings.HasSuffix(strings.ToLower(path), ".tsx") {
			return tsx.GetLanguage()
		}
		return ts.GetLanguage()
	case "javascript":
		return javascript.GetLanguage()
	case "go":
		return golang.GetLanguage()
	case "python":
		return python.GetLanguage()
	case "rust":
		return rust.GetLanguage()
	}
	return nil
}

// parse runs tree-sitter over content. A nil tree or parser error is a
// hard parse failure; a tree with error nodes is returned with
// partial=true so callers can tag the record StatusPartial.
func parse(lang, path string, content []byte) (tree *sitter.Tree, partial bool, err error) {
	grammar := grammarFor(lang, path)
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(grammar)

	tree, err = parser.ParseCtx(context.Background(), nil, content)
	if err != nil {
		return nil, false, err
	}
	if tree.RootNode() == nil {
		return nil, false, errEmptyTree
	}
	return tree, tree.RootNode().HasError(), nil
}

type parseError string

func (e parseError) Error() string { return string(e) }

const errEmptyTree = parseError("tree-sitter returned no root node")

// span converts a node's position to a record.Span.
func span(n *sitter.Node) record.Span {
	return record.Span{
		StartLine: int(n.StartPoint().Row) + 1,
		StartCol:  int(n.StartPoint().Column),
		EndLine:   int(n.EndPoint().Row) + 1,
		EndCol:    int(n.EndPoint().Column),
	}
}

// text returns the source text of a node.
func text(n *sitter.Node, content []byte) string {
	return string(content[n.StartByte():n.EndByte()])
}

// firstLine returns the first source line of a node, trimmed. Used as
// the raw signature text for declarations; the core never re-parses it.
func firstLine(n *sitter.Node, content []byte) string {
	s := text(n, content)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "{"))
}

// status maps the partial flag to a parse status for a record that was
// otherwise extracted successfully.
func status(partial bool) record.ParseStatus {
	if partial {
		return record.StatusPartial
	}
	return record.StatusOK
}
