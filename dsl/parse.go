package dsl

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Parse parses a document from an io.Reader.
func Parse(ctx context.Context, r io.Reader, opts ...Option) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, ErrReadInput.Wrap(err)
	}

	return ParseString(ctx, string(data), opts...)
}

// ParseFile parses the file at path and records it as the document's origin
// for relative import resolution.
func ParseFile(ctx context.Context, path string, opts ...Option) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).
			With(slog.String("path", path))
	}

	doc, err := ParseString(ctx, string(data), opts...)
	if err != nil {
		return nil, err
	}

	doc.Path = path

	return doc, nil
}

// ParseString parses a document from source text. Any grammar violation
// aborts the parse with a *ParseError; no partial document is returned.
func ParseString(ctx context.Context, src string, opts ...Option) (*Document, error) {
	o := makeOptions(opts)

	p := &parser{
		input: []byte(src),
		src:   src,
		line:  1,
		col:   1,
		opts:  o,
	}

	doc, err := p.parseDocument()
	if err != nil {
		return nil, err
	}

	o.logger.TraceContext(ctx, "parse complete",
		slog.Int("imports", len(doc.Imports)),
		slog.Int("styles", len(doc.Styles)),
		slog.Bool("synthetic_root", doc.SyntheticRoot),
	)

	return doc, nil
}

// ParseValue parses a single property value, as entered through the
// Composer. The entire input must be consumed.
func ParseValue(src string, opts ...Option) (Value, error) {
	o := makeOptions(opts)

	p := &parser{
		input: []byte(src),
		src:   src,
		line:  1,
		col:   1,
		opts:  o,
	}

	p.skipSpace()

	v, err := p.parseExpr(KindAny)
	if err != nil {
		return nil, err
	}

	p.skipSpace()

	if !p.eof() {
		return nil, p.fail("unexpected trailing input after value")
	}

	return v, nil
}

// errUnclassified signals a value the grammar cannot classify; the caller
// falls back to a verbatim Unknown capture.
var errUnclassified = errors.New("unclassifiable value")

// parser holds the parser state.
type parser struct {
	input   []byte
	src     string
	pos     int
	line    int
	col     int
	opts    options
	pending []string // comments awaiting their anchor
}

func (p *parser) parseDocument() (*Document, error) {
	doc := new(Document)

	var tops []*Element

	takeDocComments := func(anchor CommentAnchor, index int) {
		for _, text := range p.take() {
			doc.Comments = append(doc.Comments, Comment{
				Anchor: anchor,
				Index:  index,
				Text:   text,
			})
		}
	}

	for {
		p.skipSpace()

		if p.eof() {
			break
		}

		switch ch := p.peek(); {
		case ch == '$':
			pos := p.position()
			p.advance()

			alias, err := p.parseIdent("import alias")
			if err != nil {
				return nil, err
			}

			p.skipSpace()

			switch p.peek() {
			case '=':
				takeDocComments(AnchorBeforeImport, len(doc.Imports))

				imp, err := p.parseImportRest(alias)
				if err != nil {
					return nil, err
				}

				doc.Imports = append(doc.Imports, imp)
			case '.':
				takeDocComments(AnchorBeforeChild, len(tops))

				el, err := p.parseInstanceRest(alias)
				if err != nil {
					return nil, err
				}

				tops = append(tops, el)
			default:
				return nil, (&ParseError{
					Msg:    "expected '=' or '.' after import alias",
					Pos:    pos,
					Source: p.src,
				})
			}
		case ch == '@':
			p.advance()

			name, err := p.parseIdent("style name")
			if err != nil {
				return nil, err
			}

			p.skipSpace()

			if p.peek() == '=' {
				takeDocComments(AnchorBeforeStyle, len(doc.Styles))

				style, err := p.parseStyleRest(name)
				if err != nil {
					return nil, err
				}

				doc.Styles = append(doc.Styles, style)

				break
			}

			// Template instantiation at the top level.
			takeDocComments(AnchorBeforeChild, len(tops))

			el := &Element{
				StylePrefix: "@" + name,
				TemplateRef: &StyleRef{Name: name},
			}

			if err := p.parseElementRest(el); err != nil {
				return nil, err
			}

			tops = append(tops, el)
		case isIdentStart(ch):
			takeDocComments(AnchorBeforeChild, len(tops))

			el, err := p.parseTypedElement()
			if err != nil {
				return nil, err
			}

			tops = append(tops, el)
		default:
			return nil, p.fail("unexpected character " + strconv.QuoteRune(ch))
		}
	}

	takeDocComments(AnchorTrailing, 0)

	// A single top-level element is the root directly; zero or several are
	// wrapped in a synthetic id-less Root.
	if len(tops) == 1 {
		doc.Root = tops[0]
	} else {
		doc.Root = &Element{Type: "Root", Children: tops}
		doc.SyntheticRoot = true
	}

	return doc, nil
}

// parseImportRest parses the remainder of `$Alias = "path";` with the alias
// and '$' already consumed.
func (p *parser) parseImportRest(alias string) (Import, error) {
	p.advance() // '='
	p.skipSpace()

	if p.peek() != '"' {
		return Import{}, p.fail("expected quoted path in import declaration")
	}

	path, err := p.parseQuoted()
	if err != nil {
		return Import{}, err
	}

	p.skipSpace()
	p.accept(';')

	return Import{Alias: alias, Path: path}, nil
}

// parseStyleRest parses the remainder of a style declaration with `@Name`
// already consumed and '=' pending.
func (p *parser) parseStyleRest(name string) (*StyleDefinition, error) {
	p.advance() // '='
	p.skipSpace()

	style := &StyleDefinition{Name: name}

	switch ch := p.peek(); {
	case ch == '(' && p.tupleAhead():
		tuple, err := p.parseTuple()
		if err != nil {
			return nil, err
		}

		style.Kind = TupleStyle
		style.Tuple = tuple
	case isIdentStart(ch):
		ident, err := p.parseIdent("style body")
		if err != nil {
			return nil, err
		}

		p.skipSpace()

		switch p.peek() {
		case '(':
			tuple, err := p.parseTuple()
			if err != nil {
				return nil, err
			}

			style.Kind = TypeConstructorStyle
			style.TypeName = ident
			style.Tuple = tuple
		case '{':
			el := &Element{Type: p.opts.table.Canonical(ident)}
			if el.Type != ident {
				el.SourceType = ident
			}

			if err := p.parseElementRest(el); err != nil {
				return nil, err
			}

			style.Kind = ElementStyle
			style.TypeName = ident
			style.Element = el
		default:
			style.Kind = ValueStyle
			style.Value = keywordOrText(ident)
		}
	default:
		v, err := p.parseValueWithFallback(KindAny)
		if err != nil {
			return nil, err
		}

		style.Kind = ValueStyle
		style.Value = v
	}

	p.skipSpace()
	p.accept(';')

	return style, nil
}

// parseTypedElement parses `Type [#Id] { ... }` starting at the type name.
func (p *parser) parseTypedElement() (*Element, error) {
	name, err := p.parseIdent("element type")
	if err != nil {
		return nil, err
	}

	el := &Element{Type: p.opts.table.Canonical(name)}
	if el.Type != name {
		el.SourceType = name
	}

	if err := p.parseElementRest(el); err != nil {
		return nil, err
	}

	return el, nil
}

// parseInstanceRest parses `$Alias.@Name [#Id] { ... }` with the alias
// consumed and '.' pending.
func (p *parser) parseInstanceRest(alias string) (*Element, error) {
	p.advance() // '.'

	if !p.accept('@') {
		return nil, p.fail("expected '@' after import alias qualifier")
	}

	name, err := p.parseIdent("template name")
	if err != nil {
		return nil, err
	}

	el := &Element{
		StylePrefix: "$" + alias + ".@" + name,
		TemplateRef: &StyleRef{Alias: alias, Name: name},
	}

	if err := p.parseElementRest(el); err != nil {
		return nil, err
	}

	return el, nil
}

// parseElementRest parses the optional `#Id` and the `{ ... }` body of an
// element whose header prefix is already consumed.
func (p *parser) parseElementRest(el *Element) error {
	p.skipSpace()

	if p.accept('#') {
		id, err := p.parseIdent("element id")
		if err != nil {
			return err
		}

		el.ID = id
		p.skipSpace()
	}

	if !p.accept('{') {
		return p.fail("expected '{' to open element body")
	}

	return p.parseBody(el)
}

// parseBody parses element members up to the closing '}'. Comments collected
// while skipping whitespace attach to the member that follows them.
func (p *parser) parseBody(el *Element) error {
	attach := func(anchor CommentAnchor, index int) {
		for _, text := range p.take() {
			el.Comments = append(el.Comments, Comment{
				Anchor: anchor,
				Index:  index,
				Text:   text,
			})
		}
	}

	for {
		p.skipSpace()

		if p.eof() {
			return p.fail("unterminated element body")
		}

		switch ch := p.peek(); {
		case ch == '}':
			p.advance()
			attach(AnchorTrailing, 0)

			return nil
		case ch == '#':
			attach(AnchorBeforeChild, len(el.Children))
			p.advance()

			id, err := p.parseIdent("override id")
			if err != nil {
				return err
			}

			child := &Element{ID: id}

			p.skipSpace()

			if !p.accept('{') {
				return p.fail("expected '{' after override id")
			}

			if err := p.parseBody(child); err != nil {
				return err
			}

			el.Children = append(el.Children, child)
		case ch == '@':
			p.advance()

			name, err := p.parseIdent("name after '@'")
			if err != nil {
				return err
			}

			p.skipSpace()

			if p.peek() == '=' {
				attach(AnchorBeforeStyle, len(el.Styles))

				style, err := p.parseStyleRest(name)
				if err != nil {
					return err
				}

				el.Styles = append(el.Styles, style)

				break
			}

			attach(AnchorBeforeChild, len(el.Children))

			child := &Element{
				StylePrefix: "@" + name,
				TemplateRef: &StyleRef{Name: name},
			}

			if err := p.parseElementRest(child); err != nil {
				return err
			}

			el.Children = append(el.Children, child)
		case ch == '$':
			attach(AnchorBeforeChild, len(el.Children))
			p.advance()

			alias, err := p.parseIdent("import alias")
			if err != nil {
				return err
			}

			p.skipSpace()

			if p.peek() != '.' {
				return p.fail("expected '.' after import alias")
			}

			child, err := p.parseInstanceRest(alias)
			if err != nil {
				return err
			}

			el.Children = append(el.Children, child)
		case isIdentStart(ch):
			name, err := p.parseIdent("member name")
			if err != nil {
				return err
			}

			p.skipSpace()

			switch p.peek() {
			case ':':
				attach(AnchorBeforeProperty, len(el.Properties))
				p.advance()
				p.skipSpace()

				v, err := p.parseValueWithFallback(p.opts.schema.Of(name).Kind)
				if err != nil {
					return err
				}

				p.skipSpace()

				if !p.accept(';') {
					return p.fail("expected ';' after property value")
				}

				el.Properties = append(el.Properties, Property{
					Name:  name,
					Value: v,
				})
			case '#', '{':
				attach(AnchorBeforeChild, len(el.Children))

				child := &Element{Type: p.opts.table.Canonical(name)}
				if child.Type != name {
					child.SourceType = name
				}

				if err := p.parseElementRest(child); err != nil {
					return err
				}

				el.Children = append(el.Children, child)
			default:
				return p.fail("expected ':' or '{' after " + strconv.Quote(name))
			}
		default:
			return p.fail("unexpected character " + strconv.QuoteRune(ch) +
				" in element body")
		}
	}
}

// parseValueWithFallback parses an expression, falling back to a verbatim
// Unknown capture when the grammar cannot classify the value.
func (p *parser) parseValueWithFallback(kind ValueKind) (Value, error) {
	start, line, col := p.pos, p.line, p.col

	v, err := p.parseExpr(kind)
	if err == nil {
		// The value must end at a terminator; anything else means the
		// grammar misread a larger construct, so preserve it verbatim.
		if p.atValueBoundary() {
			return v, nil
		}
	} else if !errors.Is(err, errUnclassified) {
		return nil, err
	}

	p.pos, p.line, p.col = start, line, col

	raw, err := p.captureRaw()
	if err != nil {
		return nil, err
	}

	if raw == "" {
		return nil, p.fail("expected property value")
	}

	return &Unknown{Raw: raw}, nil
}

// atValueBoundary reports whether the parser stopped at a character that can
// legally follow a complete value.
func (p *parser) atValueBoundary() bool {
	save, saveCol := p.pos, p.col

	p.skipInline()
	defer func() { p.pos, p.col = save, saveCol }()

	if p.eof() {
		return true
	}

	switch p.input[p.pos] {
	case ';', ',', ')', ']', '}', '\n', '/':
		return true
	default:
		return false
	}
}

// parseExpr parses an additive expression, left-associative.
func (p *parser) parseExpr(kind ValueKind) (Value, error) {
	left, err := p.parseTerm(kind)
	if err != nil {
		return nil, err
	}

	for {
		p.skipInline()

		ch := p.peek()
		if ch != '+' && ch != '-' {
			return left, nil
		}

		p.advance()
		p.skipSpace()

		right, err := p.parseTerm(kind)
		if err != nil {
			return nil, err
		}

		left = &Expression{Left: left, Op: Operator(ch), Right: right}
	}
}

// parseTerm parses a multiplicative expression.
func (p *parser) parseTerm(kind ValueKind) (Value, error) {
	left, err := p.parsePrimary(kind)
	if err != nil {
		return nil, err
	}

	for {
		p.skipInline()

		ch := p.peek()
		if ch != '*' && ch != '/' {
			return left, nil
		}

		p.advance()
		p.skipSpace()

		right, err := p.parsePrimary(kind)
		if err != nil {
			return nil, err
		}

		left = &Expression{Left: left, Op: Operator(ch), Right: right}
	}
}

// parsePrimary parses one operand.
func (p *parser) parsePrimary(kind ValueKind) (Value, error) {
	switch ch := p.peek(); {
	case ch == '"':
		s, err := p.parseQuoted()
		if err != nil {
			return nil, err
		}

		switch kind {
		case KindImage:
			return &ImagePath{Path: s}, nil
		case KindFont:
			return &FontPath{Path: s}, nil
		default:
			return &Text{Value: s, Quoted: true}, nil
		}
	case ch == '%':
		p.advance()

		key := p.scanWhile(func(r rune) bool {
			return isIdentPart(r) || r == '.'
		})
		if key == "" || !p.accept('%') {
			return nil, errUnclassified
		}

		return &LocalizedText{Key: key}, nil
	case ch == '#':
		p.advance()

		digits := p.scanWhile(isHexDigit)
		if n := len(digits); n != 3 && n != 6 && n != 8 {
			return nil, errUnclassified
		}

		return &Color{Digits: digits}, nil
	case ch == '-' || unicode.IsDigit(ch):
		return p.parseNumber()
	case ch == '(':
		if p.tupleAhead() {
			return p.parseTuple()
		}

		p.advance()
		p.skipSpace()

		v, err := p.parseExpr(KindAny)
		if err != nil {
			return nil, err
		}

		p.skipSpace()

		if !p.accept(')') {
			return nil, p.fail("expected ')' to close expression group")
		}

		return v, nil
	case ch == '[':
		return p.parseList()
	case ch == '@':
		p.advance()

		return p.parseRef("")
	case ch == '$':
		p.advance()

		alias, err := p.parseIdent("import alias")
		if err != nil {
			return nil, err
		}

		if !p.accept('.') || !p.accept('@') {
			return nil, errUnclassified
		}

		return p.parseRef(alias)
	case isIdentStart(ch):
		ident, err := p.parseIdent("value")
		if err != nil {
			return nil, err
		}

		return keywordOrText(ident), nil
	default:
		return nil, errUnclassified
	}
}

// keywordOrText maps a bare identifier to its value: the true/false/null
// keywords are never confused with unquoted text.
func keywordOrText(ident string) Value {
	switch ident {
	case "true":
		return &Boolean{Value: true}
	case "false":
		return &Boolean{Value: false}
	case "null":
		return &Null{}
	default:
		return &Text{Value: ident, Quoted: false}
	}
}

// parseNumber parses an optionally signed number or percent literal.
func (p *parser) parseNumber() (Value, error) {
	start := p.pos

	p.accept('-')

	digits := p.scanWhile(unicode.IsDigit)
	if digits == "" {
		return nil, errUnclassified
	}

	if p.peek() == '.' && p.pos+1 < len(p.input) &&
		unicode.IsDigit(rune(p.input[p.pos+1])) {
		p.advance()
		p.scanWhile(unicode.IsDigit)
	}

	text := string(p.input[start:p.pos])

	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, errUnclassified
	}

	// A '%' immediately after the digits makes it a percent literal.
	if p.accept('%') {
		return &Percent{Value: f}, nil
	}

	return &Number{Value: f}, nil
}

// tupleAhead reports whether the '(' at the cursor opens a tuple rather
// than a parenthesized expression: empty parens, a spread, or an
// identifier directly followed by ':'.
func (p *parser) tupleAhead() bool {
	i := p.pos + 1

	skip := func() {
		for i < len(p.input) && isSpaceByte(p.input[i]) {
			i++
		}
	}

	skip()

	if i >= len(p.input) {
		return false
	}

	if p.input[i] == ')' || strings.HasPrefix(string(p.input[i:]), "...") {
		return true
	}

	if !isIdentStart(rune(p.input[i])) {
		return false
	}

	for i < len(p.input) && isIdentPart(rune(p.input[i])) {
		i++
	}

	skip()

	return i < len(p.input) && p.input[i] == ':'
}

// parseTuple parses '(' entries ')'. Field insertion order is recorded as
// parsed and never recomputed.
func (p *parser) parseTuple() (*Tuple, error) {
	p.advance() // '('

	tuple := new(Tuple)

	for {
		p.skipSpace()

		if p.eof() {
			return nil, p.fail("unterminated tuple")
		}

		if p.accept(')') {
			return tuple, nil
		}

		if p.peekN(3) == "..." {
			p.pos += 3
			p.col += 3

			ref, err := p.parseSpreadRef()
			if err != nil {
				return nil, err
			}

			tuple.Entries = append(tuple.Entries, TupleEntry{Spread: ref})
		} else {
			name, err := p.parseIdent("tuple field name")
			if err != nil {
				return nil, err
			}

			p.skipSpace()

			if !p.accept(':') {
				return nil, p.fail("expected ':' after tuple field name")
			}

			p.skipSpace()

			v, err := p.parseExpr(KindAny)
			if err != nil {
				if errors.Is(err, errUnclassified) {
					return nil, p.fail("invalid tuple field value")
				}

				return nil, err
			}

			tuple.Entries = append(tuple.Entries, TupleEntry{
				Name:  name,
				Value: v,
			})
		}

		p.skipSpace()

		if p.accept(',') {
			continue
		}

		if p.accept(')') {
			return tuple, nil
		}

		return nil, p.fail("expected ',' or ')' in tuple")
	}
}

// parseSpreadRef parses the reference after a '...' spread operator.
func (p *parser) parseSpreadRef() (*VariableRef, error) {
	switch p.peek() {
	case '@':
		p.advance()

		ref, err := p.parseRef("")
		if err != nil {
			return nil, err
		}

		return ref.(*VariableRef), nil
	case '$':
		p.advance()

		alias, err := p.parseIdent("import alias")
		if err != nil {
			return nil, err
		}

		if !p.accept('.') || !p.accept('@') {
			return nil, p.fail("expected '.@' after spread alias")
		}

		ref, err := p.parseRef(alias)
		if err != nil {
			return nil, err
		}

		return ref.(*VariableRef), nil
	default:
		return nil, p.fail("expected '@' reference after '...'")
	}
}

// parseRef parses the dotted path after '@'.
func (p *parser) parseRef(alias string) (Value, error) {
	seg, err := p.parseIdent("variable name")
	if err != nil {
		return nil, err
	}

	path := []string{seg}

	for p.peek() == '.' && p.pos+1 < len(p.input) &&
		isIdentStart(rune(p.input[p.pos+1])) {
		p.advance()

		seg, err := p.parseIdent("path segment")
		if err != nil {
			return nil, err
		}

		path = append(path, seg)
	}

	return &VariableRef{Alias: alias, Path: path}, nil
}

// parseList parses '[' values ']'.
func (p *parser) parseList() (Value, error) {
	p.advance() // '['

	list := new(List)

	for {
		p.skipSpace()

		if p.eof() {
			return nil, p.fail("unterminated list")
		}

		if p.accept(']') {
			return list, nil
		}

		v, err := p.parseExpr(KindAny)
		if err != nil {
			if errors.Is(err, errUnclassified) {
				return nil, p.fail("invalid list item")
			}

			return nil, err
		}

		list.Items = append(list.Items, v)

		p.skipSpace()

		if p.accept(',') {
			continue
		}

		if p.accept(']') {
			return list, nil
		}

		return nil, p.fail("expected ',' or ']' in list")
	}
}

// captureRaw captures verbatim text up to an unnested terminator, tracking
// balanced delimiters and skipping string literals and comments.
func (p *parser) captureRaw() (string, error) {
	start := p.pos
	depth := 0

	for !p.eof() {
		ch := p.peek()

		if ch == '"' {
			if _, err := p.parseQuoted(); err != nil {
				return "", err
			}

			continue
		}

		if ch == '/' && p.peekN(2) == "//" {
			break
		}

		switch ch {
		case '(', '[', '{':
			depth++

			p.advance()
		case ')', ']', '}':
			if depth == 0 {
				goto done
			}

			depth--

			p.advance()
		case ';', ',':
			if depth == 0 {
				goto done
			}

			p.advance()
		default:
			p.advance()
		}
	}

done:
	return strings.TrimSpace(string(p.input[start:p.pos])), nil
}

// parseQuoted parses a double-quoted string literal, decoding escapes.
func (p *parser) parseQuoted() (string, error) {
	start := p.pos

	p.advance() // opening quote

	for !p.eof() {
		ch := p.peek()

		if ch == '\\' {
			p.advance()

			if !p.eof() {
				p.advance()
			}

			continue
		}

		if ch == '"' {
			p.advance()

			s, err := strconv.Unquote(string(p.input[start:p.pos]))
			if err != nil {
				return "", p.fail("invalid string literal")
			}

			return s, nil
		}

		if ch == '\n' {
			break
		}

		p.advance()
	}

	return "", p.fail("unterminated string literal")
}

// parseIdent parses an identifier token.
func (p *parser) parseIdent(what string) (string, error) {
	if !isIdentStart(p.peek()) {
		return "", p.fail("expected " + what)
	}

	return p.scanWhile(isIdentPart), nil
}

// Helper methods

func (p *parser) peek() rune {
	if p.eof() {
		return 0
	}

	r, _ := utf8.DecodeRune(p.input[p.pos:])

	return r
}

func (p *parser) peekN(n int) string {
	if p.pos+n > len(p.input) {
		return string(p.input[p.pos:])
	}

	return string(p.input[p.pos : p.pos+n])
}

func (p *parser) advance() {
	if p.eof() {
		return
	}

	r, size := utf8.DecodeRune(p.input[p.pos:])

	p.pos += size
	if r == '\n' {
		p.line++
		p.col = 1
	} else {
		p.col++
	}
}

func (p *parser) accept(ch rune) bool {
	if p.peek() == ch {
		p.advance()

		return true
	}

	return false
}

func (p *parser) eof() bool {
	return p.pos >= len(p.input)
}

func (p *parser) position() Position {
	return Position{Offset: p.pos, Line: p.line, Column: p.col}
}

func (p *parser) fail(msg string) error {
	return &ParseError{Msg: msg, Pos: p.position(), Source: p.src}
}

// scanWhile consumes characters matching pred and returns them.
func (p *parser) scanWhile(pred func(rune) bool) string {
	start := p.pos

	for !p.eof() && pred(p.peek()) {
		p.advance()
	}

	return string(p.input[start:p.pos])
}

// skipInline skips spaces and tabs without crossing line ends or consuming
// comments; expression operators never span lines.
func (p *parser) skipInline() {
	for !p.eof() {
		ch := p.input[p.pos]
		if ch != ' ' && ch != '\t' && ch != '\r' {
			return
		}

		p.pos++
		p.col++
	}
}

// skipSpace skips whitespace and collects '//' comments into pending.
func (p *parser) skipSpace() {
	for {
		for !p.eof() && unicode.IsSpace(p.peek()) {
			p.advance()
		}

		if p.peek() == '/' && p.peekN(2) == "//" {
			p.advance()
			p.advance()

			start := p.pos
			for !p.eof() && p.peek() != '\n' {
				p.advance()
			}

			text := strings.TrimRight(string(p.input[start:p.pos]), "\r")
			p.pending = append(p.pending, text)

			continue
		}

		return
	}
}

// take drains the pending comments.
func (p *parser) take() []string {
	if len(p.pending) == 0 {
		return nil
	}

	out := p.pending
	p.pending = nil

	return out
}

// Character classification

func isIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentPart(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

func isHexDigit(r rune) bool {
	return unicode.IsDigit(r) ||
		(r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func isSpaceByte(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
