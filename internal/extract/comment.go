package extract

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// blockCommentBefore returns the /** ... */ comment immediately
// preceding a node, cleaned of comment markers. Checks the node's own
// previous sibling first, then the parent's when the node sits inside
// an export statement (the comment attaches to the export, not the
// declaration).
func blockCommentBefore(n *sitter.Node, content []byte) string {
	if c := blockCommentSibling(n, content); c != "" {
		return c
	}
	if p := n.Parent(); p != nil && p.Type() == "export_statement" {
		return blockCommentSibling(p, content)
	}
	return ""
}

func blockCommentSibling(n *sitter.Node, content []byte) string {
	prev := n.PrevSibling()
	if prev == nil || prev.Type() != "comment" {
		return ""
	}
	raw := text(prev, content)
	if !strings.HasPrefix(raw, "/**") {
		return ""
	}
	return cleanBlockComment(raw)
}

// cleanBlockComment strips /** */ fences and leading asterisks, keeping
// the free-text portion before the first @tag line.
func cleanBlockComment(raw string) string {
	raw = strings.TrimPrefix(raw, "/**")
	raw = strings.TrimPrefix(raw, "/*")
	raw = strings.TrimSuffix(raw, "*/")

	var out []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "*"))
		if strings.HasPrefix(line, "@") {
			break
		}
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, " ")
}

// lineCommentsBefore collects a run of consecutive line comments with
// the given prefix ("//" for Go, "///" for Rust doc comments) directly
// above a node, joined into one doc string.
func lineCommentsBefore(n *sitter.Node, content []byte, prefix string) string {
	var lines []string
	prev := n.PrevSibling()
	lastLine := int(n.StartPoint().Row)

	for prev != nil && prev.Type() == "comment" || prev != nil && prev.Type() == "line_comment" {
		raw := text(prev, content)
		if !strings.HasPrefix(raw, prefix) {
			break
		}
		// A blank line between the comment run and the declaration
		// detaches the doc comment.
		if int(prev.EndPoint().Row) < lastLine-1 {
			break
		}
		lastLine = int(prev.StartPoint().Row)
		lines = append([]string{strings.TrimSpace(strings.TrimPrefix(raw, prefix))}, lines...)
		prev = prev.PrevSibling()
	}
	return strings.Join(lines, " ")
}
