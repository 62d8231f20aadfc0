package validation

import (
	"testing"
)

func TestValidateMealType(t *testing.T) {
	t.Parallel()
	tests := []struct {
		value   string
		wantErr bool
	}{
		{"breakfast", false},
		{"lunch", false},
		{"dinner", false},
		{"snack", true},
		{"", true},
		{"Breakfast", true},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Parallel()
			err := ValidateMealType(tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateMealType(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestValidateItemType(t *testing.T) {
	t.Parallel()
	tests := []struct {
		value   string
		wantErr bool
	}{
		{"supplement", false},
		{"diet", false},
		{"habit", false},
		{"exercise", false},
		{"therapy", false},
		{"meditation", true},
		{"", true},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Parallel()
			err := ValidateItemType(tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateItemType(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestValidateGoalStatus(t *testing.T) {
	t.Parallel()
	tests := []struct {
		value   string
		wantErr bool
	}{
		{"active", false},
		{"completed", false},
		{"paused", false},
		{"archived", false},
		{"done", true},
		{"", true},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Parallel()
			err := ValidateGoalStatus(tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateGoalStatus(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePlanDate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		value   string
		wantErr bool
	}{
		{"2026-09-01", false},
		{"2026-02-29", true},
		{"2026-13-01", true},
		{"01-09-2026", true},
		{"2026-9-1", true},
		{"", true},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Parallel()
			err := ValidatePlanDate(tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePlanDate(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestSanitizeText(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"trims whitespace", "  hello  ", "hello"},
		{"keeps newlines and tabs", "a\n\tb", "a\n\tb"},
		{"strips control characters", "a\x00b\x1fc", "abc"},
		{"empty after sanitization", " \x00 ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := SanitizeText(tt.input); got != tt.want {
				t.Errorf("SanitizeText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
