package dsl

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
)

// importer loads and caches imported files for one Resolve invocation. The
// cache is keyed by absolute path so two aliases for the same file share a
// scope, and the active set marks files currently being loaded so import
// cycles are detected rather than recursed into.
type importer struct {
	opts   options
	cache  map[string]*Scope
	active map[string]bool
}

func newImporter(o options) *importer {
	return &importer{
		opts:   o,
		cache:  make(map[string]*Scope),
		active: make(map[string]bool),
	}
}

// locate maps an import path to an existing file: relative to the importing
// file's directory first, then through the configured search paths in
// order.
func (im *importer) locate(path, fromDir string) (string, bool) {
	if filepath.IsAbs(path) {
		if abs, ok := statFile(path); ok {
			return abs, true
		}

		return "", false
	}

	candidates := make([]string, 0, len(im.opts.searchPaths)+1)
	if fromDir != "" {
		candidates = append(candidates, filepath.Join(fromDir, path))
	}

	for _, dir := range im.opts.searchPaths {
		candidates = append(candidates, filepath.Join(dir, path))
	}

	for _, cand := range candidates {
		if abs, ok := statFile(cand); ok {
			return abs, true
		}
	}

	return "", false
}

func statFile(path string) (string, bool) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", false
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}

	return abs, true
}

// resolveImport loads one import into a fully resolved scope. Every failure
// mode degrades to a warning: the alias simply stays unbound and later
// references to it warn in turn.
func (r *resolver) resolveImport(ctx context.Context, imp Import, fromDir string) (*Scope, bool) {
	abs, ok := r.importer.locate(imp.Path, fromDir)
	if !ok {
		r.warn(Warning{
			Code: WarnImportNotFound,
			Name: imp.Alias,
			Path: imp.Path,
		})

		return nil, false
	}

	if r.importer.active[abs] {
		r.warn(Warning{
			Code: WarnImportCycle,
			Name: imp.Alias,
			Path: abs,
		})

		return nil, false
	}

	if scope, ok := r.importer.cache[abs]; ok {
		return scope, true
	}

	doc, err := ParseFile(ctx, abs, r.optList...)
	if err != nil {
		r.warn(Warning{
			Code: WarnImportParse,
			Name: imp.Alias,
			Path: abs,
			Err:  err,
		})

		return nil, false
	}

	r.opts.logger.TraceContext(ctx, "import loaded",
		slog.String("alias", imp.Alias),
		slog.String("path", abs),
	)

	r.importer.active[abs] = true
	defer delete(r.importer.active, abs)

	scope := NewScope(abs, nil)
	r.declareStyles(scope, doc.Styles)

	for _, sub := range doc.Imports {
		if nested, ok := r.resolveImport(ctx, sub, filepath.Dir(abs)); ok {
			scope.AddImport(sub.Alias, nested)
		}
	}

	// Imported scopes hand out finished values, so resolve everything in
	// the file's own namespace up front.
	r.resolveScopeTemplates(ctx, scope)
	r.resolveScopeBindings(scope)

	r.importer.cache[abs] = scope

	return scope, true
}
