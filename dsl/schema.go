package dsl

// ValueKind is the declared type of a property in the schema. The schema
// exists only for what parsing cannot decide from the literal itself
// (quoted strings that are really image or font paths) and for the
// Composer's fill-mode decisions; it is not a validation layer.
type ValueKind int

const (
	KindAny ValueKind = iota
	KindText
	KindNumber
	KindPercent
	KindBoolean
	KindColor
	KindImage
	KindFont
	KindLocalized
	KindTuple
	KindList
	KindAnchor
)

// String names the kind for diagnostics.
func (k ValueKind) String() string {
	switch k {
	case KindAny:
		return "Any"
	case KindText:
		return "Text"
	case KindNumber:
		return "Number"
	case KindPercent:
		return "Percent"
	case KindBoolean:
		return "Boolean"
	case KindColor:
		return "Color"
	case KindImage:
		return "Image"
	case KindFont:
		return "Font"
	case KindLocalized:
		return "Localized"
	case KindTuple:
		return "Tuple"
	case KindList:
		return "List"
	case KindAnchor:
		return "Anchor"
	default:
		return "Any"
	}
}

// PropertySchema describes one property slot: its name and declared kind.
// The Composer consumes it together with a resolved value to choose a fill
// mode.
type PropertySchema struct {
	Name string
	Kind ValueKind
}

// Schema maps property names to their schemas.
type Schema map[string]PropertySchema

// Of returns the schema for a property, defaulting to KindAny.
func (s Schema) Of(property string) PropertySchema {
	if s != nil {
		if ps, ok := s[property]; ok {
			return ps
		}
	}

	return PropertySchema{Name: property, Kind: KindAny}
}

// DefaultSchema lists the property names whose quoted-string literals need
// reclassification during parsing, plus the slots the Composer edits most.
func DefaultSchema() Schema {
	s := Schema{}

	for name, kind := range map[string]ValueKind{
		"Image":      KindImage,
		"Icon":       KindImage,
		"Background": KindImage,
		"Texture":    KindImage,
		"Font":       KindFont,
		"Anchor":     KindAnchor,
		"Text":       KindText,
		"Color":      KindColor,
		"Opacity":    KindPercent,
		"FontSize":   KindNumber,
		"Visible":    KindBoolean,
	} {
		s[name] = PropertySchema{Name: name, Kind: kind}
	}

	return s
}
