package dsl

import (
	"log/slog"
	"strings"

	"github.com/sahilm/fuzzy"
)

// WarningCode classifies non-fatal resolution problems.
type WarningCode int

const (
	WarnUndefinedVariable WarningCode = iota
	WarnUndefinedAlias
	WarnUnresolvedLocalization
	WarnNonNumericOperand
	WarnDivisionByZero
	WarnCyclicVariable
	WarnImportNotFound
	WarnImportCycle
	WarnImportParse
	WarnTemplateNotFound
	WarnCyclicTemplate
)

// String returns a stable identifier for the warning code.
func (c WarningCode) String() string {
	switch c {
	case WarnUndefinedVariable:
		return "undefined-variable"
	case WarnUndefinedAlias:
		return "undefined-alias"
	case WarnUnresolvedLocalization:
		return "unresolved-localization"
	case WarnNonNumericOperand:
		return "non-numeric-operand"
	case WarnDivisionByZero:
		return "division-by-zero"
	case WarnCyclicVariable:
		return "cyclic-variable"
	case WarnImportNotFound:
		return "import-not-found"
	case WarnImportCycle:
		return "import-cycle"
	case WarnImportParse:
		return "import-parse"
	case WarnTemplateNotFound:
		return "template-not-found"
	case WarnCyclicTemplate:
		return "cyclic-template"
	default:
		return "unknown"
	}
}

// Warning records a non-fatal resolution problem. The value it refers to is
// left in its unresolved form so user content is never destroyed.
type Warning struct {
	Code        WarningCode
	Name        string   // Variable, alias, template, or localization key
	Property    string   // Property being resolved, if any
	Element     string   // Element context ("Type#id"), if any
	Path        string   // File path, for import warnings
	Suggestions []string // Closest in-scope names, for undefined references
	Err         error    // Underlying error, for import parse failures
}

// String renders the warning for human display.
func (w Warning) String() string {
	var buf strings.Builder

	buf.WriteString(w.Code.String())

	if w.Name != "" {
		buf.WriteString(": ")
		buf.WriteString(w.Name)
	}

	if w.Property != "" {
		buf.WriteString(" (property ")
		buf.WriteString(w.Property)

		if w.Element != "" {
			buf.WriteString(" of ")
			buf.WriteString(w.Element)
		}

		buf.WriteString(")")
	}

	if w.Path != "" {
		buf.WriteString(" [")
		buf.WriteString(w.Path)
		buf.WriteString("]")
	}

	if len(w.Suggestions) > 0 {
		buf.WriteString(" (did you mean ")
		buf.WriteString(strings.Join(w.Suggestions, ", "))
		buf.WriteString("?)")
	}

	if w.Err != nil {
		buf.WriteString(": ")
		buf.WriteString(w.Err.Error())
	}

	return buf.String()
}

// LogValue implements slog.LogValuer.
func (w Warning) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, 6)
	attrs = append(attrs, slog.String("code", w.Code.String()))

	if w.Name != "" {
		attrs = append(attrs, slog.String("name", w.Name))
	}

	if w.Property != "" {
		attrs = append(attrs, slog.String("property", w.Property))
	}

	if w.Element != "" {
		attrs = append(attrs, slog.String("element", w.Element))
	}

	if w.Path != "" {
		attrs = append(attrs, slog.String("path", w.Path))
	}

	if w.Err != nil {
		attrs = append(attrs, slog.String("cause", w.Err.Error()))
	}

	return slog.GroupValue(attrs...)
}

// maxSuggestions bounds the "did you mean" list on undefined-name warnings.
const maxSuggestions = 3

// suggest ranks candidates by fuzzy similarity to name.
func suggest(name string, candidates []string) []string {
	matches := fuzzy.Find(name, candidates)
	if len(matches) > maxSuggestions {
		matches = matches[:maxSuggestions]
	}

	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.Str)
	}

	return out
}
