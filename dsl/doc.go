// Package dsl implements the compilation pipeline for the Hyve UI-layout
// language: a hand-written recursive-descent parser, a variable and import
// resolver, a template expander, and an idempotent exporter.
//
// The package is built around two document forms. [Parse] produces a raw
// [Document] that preserves every source-level choice the author made
// (quoting, property order, comment placement, hex-digit width), so that
// [Document.Export] can reproduce equivalent text. [Resolve] consumes a raw
// Document and produces a [ResolvedDocument] whose element tree has concrete
// property values, suitable for rendering and editing.
//
// # Grammar
//
// Informal EBNF:
//
//	Document    → Import* Style* Element*
//	Import      → '$' Alias '=' String ';'?
//	Style       → '@' Name '=' StyleBody
//	StyleBody   → Tuple ';'                 (tuple style)
//	            | Type Tuple ';'            (type-constructor style)
//	            | Type '{' Member* '}'      (element style / template)
//	            | Value ';'                 (variable declaration)
//	Element     → Header '{' Member* '}'
//	Header      → Type ['#' Id]
//	            | ['$' Alias '.'] '@' Name ['#' Id]   (template instance)
//	            | '#' Id                    (id-only override block)
//	Member      → Property | Element | Style | Comment
//	Property    → Name ':' Expr ';'
//	Expr        → Term (('+'|'-') Term)*
//	Term        → Primary (('*'|'/') Primary)*
//	Primary     → Number | Percent | Color | String | 'true' | 'false'
//	            | 'null' | Localized | Reference | Tuple | List
//	            | Identifier | '(' Expr ')'
//	Tuple       → '(' (Entry (',' Entry)* ','?)? ')'
//	Entry       → Name ':' Expr | '...' Reference
//	List        → '[' (Expr (',' Expr)*)? ']'
//	Reference   → ['$' Alias '.'] '@' Name ('.' Name)*
//	Localized   → '%' Key '%'
//
// Line comments begin with '//' and attach to the member that follows them.
//
// # Export idempotence
//
// Export is a pure function of the stored document: it never reorders
// properties, recomputes tuple or anchor field order, or changes quoting.
// For any document D obtained from Parse, Export(Parse(Export(D))) is
// byte-identical to Export(D).
package dsl
