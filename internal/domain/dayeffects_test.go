package domain

import (
	"errors"
	"testing"
)

func TestParseDayEffects(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    DayEffects
		wantErr bool
	}{
		{
			name:  "single effect",
			input: "5:50",
			want:  DayEffects{5: 50},
		},
		{
			name:  "multiple effects with spaces",
			input: "3:15, 4:25, 5:35",
			want:  DayEffects{3: 15, 4: 25, 5: 35},
		},
		{
			name:  "empty string means no effects",
			input: "",
			want:  DayEffects{},
		},
		{
			name:  "zero magnitude is accepted",
			input: "4:0",
			want:  DayEffects{4: 0},
		},
		{
			name:    "missing magnitude",
			input:   "5",
			wantErr: true,
		},
		{
			name:    "non-integer day",
			input:   "x:50",
			wantErr: true,
		},
		{
			name:    "non-numeric magnitude",
			input:   "5:big",
			wantErr: true,
		},
		{
			name:    "day outside window",
			input:   "9:10",
			wantErr: true,
		},
		{
			name:    "negative magnitude",
			input:   "5:-3",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDayEffects(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				var cfgErr *ConfigurationError
				if !errors.As(err, &cfgErr) {
					t.Fatalf("error type = %T, want *ConfigurationError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDayEffects(%q) error: %v", tt.input, err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d entries, want %d", len(got), len(tt.want))
			}
			for day, magnitude := range tt.want {
				if got[day] != magnitude {
					t.Errorf("day %d = %g, want %g", day, got[day], magnitude)
				}
			}
		})
	}
}

func TestDayEffectsActive(t *testing.T) {
	effects := DayEffects{3: 15, 4: 0, 5: 35}

	if _, ok := effects.Active(4); ok {
		t.Error("zero magnitude should be skipped")
	}
	if _, ok := effects.Active(6); ok {
		t.Error("absent day should be skipped")
	}
	magnitude, ok := effects.Active(5)
	if !ok || magnitude != 35 {
		t.Errorf("Active(5) = (%g, %v), want (35, true)", magnitude, ok)
	}
}

func TestDayEffectsString(t *testing.T) {
	effects := DayEffects{5: 35, 3: 15}
	if got := effects.String(); got != "3:15,5:35" {
		t.Errorf("String() = %q, want %q", got, "3:15,5:35")
	}
}
