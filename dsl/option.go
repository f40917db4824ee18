package dsl

import "github.com/hyve-ide/uidsl/log"

// options collects the configuration shared by Parse, Resolve, and Export.
// Each entry point reads only the fields it cares about.
type options struct {
	table       *Abstractions
	schema      Schema
	logger      log.Logger
	searchPaths []string
	locale      map[string]string
	scope       *Scope
	indent      int
}

// Option configures a pipeline invocation.
type Option func(*options)

func makeOptions(opts []Option) options {
	o := options{
		table:  DefaultAbstractions(),
		schema: DefaultSchema(),
		indent: 4,
	}

	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// WithAbstractions supplies the authored↔canonical element type table.
func WithAbstractions(table *Abstractions) Option {
	return func(o *options) { o.table = table }
}

// WithSchema supplies the property schema used for literal disambiguation.
func WithSchema(schema Schema) Option {
	return func(o *options) { o.schema = schema }
}

// WithLogger routes pipeline trace output to the given logger.
func WithLogger(logger log.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithSearchPaths sets the ordered fallback directories consulted when an
// import path does not exist relative to the importing file.
func WithSearchPaths(paths ...string) Option {
	return func(o *options) {
		o.searchPaths = append([]string(nil), paths...)
	}
}

// WithLocale supplies the localization table. When set, resolution warns on
// localization keys it does not contain.
func WithLocale(locale map[string]string) Option {
	return func(o *options) { o.locale = locale }
}

// WithParentScope resolves the document inside an inherited scope instead of
// a fresh top-level one.
func WithParentScope(scope *Scope) Option {
	return func(o *options) { o.scope = scope }
}

// WithIndent sets the export indentation width in spaces.
func WithIndent(indent int) Option {
	return func(o *options) {
		if indent >= 0 {
			o.indent = indent
		}
	}
}
