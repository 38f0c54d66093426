package validation

import (
	"errors"
	"math"
	"testing"
)

type sample struct {
	Count  int     `yaml:"count" validate:"min=1"`
	Ratio  float64 `yaml:"ratio" validate:"finite,gte=0"`
	Name   string  `validate:"nodename"`
	Ignore string  `yaml:"-"`
}

func TestStruct(t *testing.T) {
	tests := []struct {
		name  string
		in    sample
		field string
		tag   string
	}{
		{"valid", sample{Count: 1, Ratio: 0.5, Name: "YAL001C"}, "", ""},
		{"count too small", sample{Count: 0, Name: "n"}, "count", "min"},
		{"NaN ratio", sample{Count: 1, Ratio: math.NaN(), Name: "n"}, "ratio", "finite"},
		{"infinite ratio", sample{Count: 1, Ratio: math.Inf(-1), Name: "n"}, "ratio", "finite"},
		{"negative ratio", sample{Count: 1, Ratio: -1, Name: "n"}, "ratio", "gte"},
		{"empty name", sample{Count: 1}, "Name", "nodename"},
		{"name with space", sample{Count: 1, Name: "a b"}, "Name", "nodename"},
		{"comment name", sample{Count: 1, Name: "#x"}, "Name", "nodename"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.in)
			if tt.field == "" {
				if err != nil {
					t.Fatalf("Unexpected error: %v", err)
				}
				return
			}

			var fe *FieldError
			if !errors.As(err, &fe) {
				t.Fatalf("Expected *FieldError, got %T (%v)", err, err)
			}
			if fe.Field != tt.field || fe.Tag != tt.tag {
				t.Errorf("Got field=%s tag=%s, want field=%s tag=%s", fe.Field, fe.Tag, tt.field, tt.tag)
			}
			if fe.Reason() == "" {
				t.Error("Reason should not be empty")
			}
		})
	}
}

func TestFieldError_Message(t *testing.T) {
	err := Struct(sample{Count: 0, Name: "n"})
	if err == nil || err.Error() != "count: must be at least 1" {
		t.Errorf("Unexpected message: %v", err)
	}
}

func TestStruct_NonStruct(t *testing.T) {
	var fe *FieldError
	if err := Struct(42); err == nil || errors.As(err, &fe) {
		t.Errorf("Expected a plain validator error for a non-struct, got %v", err)
	}
}
