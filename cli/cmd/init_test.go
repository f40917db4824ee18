package cmd

import (
	"testing"

	"github.com/hyve-ide/uidsl/dsl"
)

func TestFlagValue(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected dsl.Value
		omit     bool
	}{
		{"bool", true, &dsl.Boolean{Value: true}, false},
		{"string", "debug", &dsl.Text{Value: "debug", Quoted: true}, false},
		{"int", 4, &dsl.Number{Value: 4}, false},
		{"int64", int64(-2), &dsl.Number{Value: -2}, false},
		{"uint64", uint64(7), &dsl.Number{Value: 7}, false},
		{"float64", 0.5, &dsl.Number{Value: 0.5}, false},
		{
			"string slice",
			[]string{"a", "b"},
			&dsl.List{Items: []dsl.Value{
				&dsl.Text{Value: "a", Quoted: true},
				&dsl.Text{Value: "b", Quoted: true},
			}},
			false,
		},
		{"nil omitted", nil, nil, true},
		{"empty string omitted", "", nil, true},
		{"empty slice omitted", []string{}, nil, true},
		{"unsupported omitted", struct{}{}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := flagValue(tt.input)

			if ok == tt.omit {
				t.Fatalf("flagValue(%v) ok = %v, want %v", tt.input, ok, !tt.omit)
			}

			if tt.omit {
				return
			}

			if !dsl.ValueEqual(got, tt.expected) {
				t.Errorf("flagValue(%v) = %s, want %s",
					tt.input, dsl.FormatValue(got), dsl.FormatValue(tt.expected))
			}
		})
	}
}
