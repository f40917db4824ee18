package dsl

import (
	"log/slog"
	"strings"

	"github.com/expr-lang/expr"
)

// FillMode classifies how a property slot is filled, which is what the
// slot-editing surface keys its input widgets on.
type FillMode int

const (
	// FillLiteral is a concrete value: text, number, color, tuple, and so
	// on.
	FillLiteral FillMode = iota
	// FillVariable references a name in the document's own scope.
	FillVariable
	// FillImport references a name through an import alias.
	FillImport
	// FillLocalization references a localization key.
	FillLocalization
	// FillExpression is arithmetic over literals and references.
	FillExpression
)

// String returns a stable identifier for the fill mode.
func (m FillMode) String() string {
	switch m {
	case FillLiteral:
		return "literal"
	case FillVariable:
		return "variable"
	case FillImport:
		return "import"
	case FillLocalization:
		return "localization"
	case FillExpression:
		return "expression"
	default:
		return "unknown"
	}
}

// FillModeOf classifies a property value. Unresolved references classify by
// their reference shape, everything else is a literal.
func FillModeOf(v Value) FillMode {
	switch v := v.(type) {
	case *VariableRef:
		if v.Alias != "" {
			return FillImport
		}

		return FillVariable
	case *StyleRef:
		if v.Alias != "" {
			return FillImport
		}

		return FillVariable
	case *LocalizedText:
		return FillLocalization
	case *Expression:
		return FillExpression
	default:
		return FillLiteral
	}
}

// Compose converts a user-edited slot string back into a property value
// under the given fill mode. The produced value must classify back to the
// same mode, so a widget cannot silently change a slot's kind.
func Compose(mode FillMode, src string, opts ...Option) (Value, error) {
	switch mode {
	case FillLocalization:
		key := strings.Trim(strings.TrimSpace(src), "%")
		if key == "" {
			return nil, ErrFillModeMismatch.
				With(slog.String("reason", "empty localization key"))
		}

		return &LocalizedText{Key: key}, nil
	case FillLiteral, FillVariable, FillImport, FillExpression:
		v, err := ParseValue(src, opts...)
		if err != nil {
			return nil, err
		}

		if got := FillModeOf(v); got != mode {
			return nil, ErrFillModeMismatch.With(
				slog.String("want", mode.String()),
				slog.String("got", got.String()),
			)
		}

		return v, nil
	default:
		return nil, ErrUnknownFillMode.
			With(slog.Int("mode", int(mode)))
	}
}

// PreviewExpression evaluates user-typed arithmetic against the resolved
// numeric variables of a scope, for live feedback while the user edits an
// expression slot. The document pipeline never uses this engine; exported
// expressions keep their parsed tree.
func PreviewExpression(src string, scope *Scope) (float64, error) {
	env := numericEnv(scope)

	program, err := expr.Compile(src, expr.Env(env), expr.AsFloat64())
	if err != nil {
		return 0, ErrExprCompile.Wrap(err).
			With(slog.String("source", src))
	}

	out, err := expr.Run(program, env)
	if err != nil {
		return 0, ErrExprEvaluate.Wrap(err).
			With(slog.String("source", src))
	}

	f, ok := out.(float64)
	if !ok {
		return 0, ErrNotNumeric.
			With(slog.String("source", src))
	}

	return f, nil
}

// numericEnv flattens a scope chain's resolved numeric bindings into an
// evaluation environment. Percent values contribute their ratio, matching
// how arithmetic treats them elsewhere.
func numericEnv(scope *Scope) map[string]any {
	env := make(map[string]any)

	if scope == nil {
		return env
	}

	for _, name := range scope.VariableNames() {
		val, ok := scope.Value(name)
		if !ok {
			continue
		}

		switch v := val.(type) {
		case *Number:
			env[name] = v.Value
		case *Percent:
			env[name] = v.Ratio()
		}
	}

	return env
}
