// Package resolve maps raw import specifiers to modules inside the
// analyzed tree. Resolution is a pure function of the specifier, the
// importing file's path, and the complete set of discovered paths,
// never of processing order, so results are deterministic across runs
// and across parallel scheduling.
//
// Package-style (non-relative) resolution is best-effort by contract:
// without a real module loader the tie-break rules here are the
// documented behavior, not an approximation of one.
package resolve

import (
	"path"
	"sort"
	"strings"

	"github.com/treeline-dev/treeline/internal/record"
)

// Options carries the run configuration the resolver consumes.
type Options struct {
	// Extensions are probed in order when a relative specifier has no
	// direct match, e.g. [".ts", ".tsx", ".js"].
	Extensions []string
	// IndexNames are directory-index basenames probed after extensions,
	// e.g. ["index", "mod", "__init__"].
	IndexNames []string
}

// DefaultOptions covers the languages with registered extractors.
func DefaultOptions() Options {
	return Options{
		Extensions: []string{".ts", ".tsx", ".js", ".jsx", ".mjs", ".cjs", ".go", ".py", ".rs"},
		IndexNames: []string{"index", "mod", "__init__"},
	}
}

// FileSet is the immutable universe resolution happens against: every
// discovered path plus the module-id assignment derived from it.
type FileSet struct {
	opts  Options
	paths map[string]bool
	ids   map[string]string // path -> module id
	byID  map[string]string // module id -> path
	// dirs maps each directory to the sorted module ids of the files
	// directly inside it, for package-style directory imports.
	dirs map[string][]string
}

// NewFileSet builds the file set and assigns module ids. Ids are the
// slash-separated path with the source extension stripped; a
// directory-index file collapses to its directory's id unless a sibling
// already owns that id, in which case the index file keeps its
// un-collapsed id. When sibling files differ only by extension (foo.ts
// next to foo.js), every claimant keeps its full path as its id, so
// ids stay unique for any input tree.
func NewFileSet(paths []string, opts Options) *FileSet {
	fs := &FileSet{
		opts:  opts,
		paths: make(map[string]bool, len(paths)),
		ids:   make(map[string]string, len(paths)),
		byID:  make(map[string]string, len(paths)),
		dirs:  make(map[string][]string),
	}

	normalized := make([]string, 0, len(paths))
	for _, p := range paths {
		p = path.Clean(strings.ReplaceAll(p, "\\", "/"))
		fs.paths[p] = true
		normalized = append(normalized, p)
	}
	sort.Strings(normalized)

	// First pass: non-index files claim their stripped ids.
	taken := make(map[string]bool, len(normalized))
	for _, p := range normalized {
		if !fs.isIndexFile(p) {
			taken[stripExt(p)] = true
		}
	}

	// Second pass: compute each file's preferred id, collapsing index
	// files where the directory id is free, and count the claimants.
	preferred := make(map[string]string, len(normalized))
	claims := make(map[string]int, len(normalized))
	for _, p := range normalized {
		id := stripExt(p)
		if fs.isIndexFile(p) {
			if dir := path.Dir(p); dir != "." && !taken[dir] {
				id = dir
			}
		}
		preferred[p] = id
		claims[id]++
	}

	// Third pass: assign. A contested id falls back to the full path,
	// which is unique by construction.
	for _, p := range normalized {
		id := preferred[p]
		if claims[id] > 1 {
			id = p
		}
		fs.ids[p] = id
		fs.byID[id] = p
		dir := path.Dir(p)
		fs.dirs[dir] = append(fs.dirs[dir], id)
	}
	return fs
}

// ModuleID returns the module id assigned to a discovered path.
func (fs *FileSet) ModuleID(p string) (string, bool) {
	id, ok := fs.ids[path.Clean(strings.ReplaceAll(p, "\\", "/"))]
	return id, ok
}

// Resolve classifies a raw import specifier from the given importing
// file. The result is one of Resolved(target id), External, or
// Unresolved; it is computed fresh on every call and safe for
// concurrent use.
func (fs *FileSet) Resolve(specifier, importer string) record.ResolutionResult {
	if specifier == "" {
		return record.ResolutionResult{State: record.Unresolved}
	}
	if isRelative(specifier) {
		return fs.resolveRelative(specifier, importer)
	}
	return fs.resolvePackage(specifier)
}

func isRelative(spec string) bool {
	return spec == "." || spec == ".." ||
		strings.HasPrefix(spec, "./") || strings.HasPrefix(spec, "../")
}

// resolveRelative probes, in order: the exact path, the path with each
// configured extension, then each directory-index filename with each
// extension. The first existing match wins, which makes the
// exact-file-over-index-file tie-break structural rather than special
// cased.
func (fs *FileSet) resolveRelative(specifier, importer string) record.ResolutionResult {
	base := path.Join(path.Dir(path.Clean(importer)), specifier)
	if strings.HasPrefix(base, "../") {
		// Escapes the analyzed root.
		return record.ResolutionResult{State: record.Unresolved}
	}

	if fs.paths[base] {
		return fs.resolved(base)
	}
	for _, ext := range fs.opts.Extensions {
		if fs.paths[base+ext] {
			return fs.resolved(base + ext)
		}
	}
	for _, index := range fs.opts.IndexNames {
		for _, ext := range fs.opts.Extensions {
			if candidate := base + "/" + index + ext; fs.paths[candidate] {
				return fs.resolved(candidate)
			}
		}
	}
	return record.ResolutionResult{State: record.Unresolved}
}

// resolvePackage matches a non-relative specifier against the
// discovered module ids: exact id match first, then a unique
// path-suffix match in either direction (a short specifier may omit a
// prefix the tree knows, and a full package path carries a module
// prefix the tree doesn't), then a unique match among the modules of a
// suffix-matched directory. An ambiguous match is Unresolved and a
// miss is External.
func (fs *FileSet) resolvePackage(specifier string) record.ResolutionResult {
	spec := path.Clean(specifier)
	if _, ok := fs.byID[spec]; ok {
		return record.ResolutionResult{State: record.ResolvedInternal, Target: spec}
	}

	var matches []string
	for id := range fs.byID {
		if strings.HasSuffix(id, "/"+spec) || strings.HasSuffix(spec, "/"+id) {
			matches = append(matches, id)
		}
	}
	switch len(matches) {
	case 1:
		return record.ResolutionResult{State: record.ResolvedInternal, Target: matches[0]}
	default:
		if len(matches) > 1 {
			return record.ResolutionResult{State: record.Unresolved}
		}
	}

	// Directory import (Go-style package path): resolve only when the
	// directory holds exactly one module.
	var dirMatch []string
	for dir, ids := range fs.dirs {
		if dir == spec || strings.HasSuffix(dir, "/"+spec) || strings.HasSuffix(spec, "/"+dir) {
			dirMatch = append(dirMatch, ids...)
		}
	}
	if len(dirMatch) == 1 {
		return record.ResolutionResult{State: record.ResolvedInternal, Target: dirMatch[0]}
	}
	if len(dirMatch) > 1 {
		return record.ResolutionResult{State: record.Unresolved}
	}

	return record.ResolutionResult{State: record.External}
}

func (fs *FileSet) resolved(p string) record.ResolutionResult {
	return record.ResolutionResult{State: record.ResolvedInternal, Target: fs.ids[p]}
}

// isIndexFile reports whether a path's basename (extension stripped)
// is a configured directory-index name.
func (fs *FileSet) isIndexFile(p string) bool {
	base := stripExt(path.Base(p))
	for _, index := range fs.opts.IndexNames {
		if base == index {
			return true
		}
	}
	return false
}

func stripExt(p string) string {
	return strings.TrimSuffix(p, path.Ext(p))
}
