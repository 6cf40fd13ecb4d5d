package constraint

import (
	"math"
	"testing"
)

func TestParseUnit(t *testing.T) {
	tests := []struct {
		in      string
		want    Unit
		wantErr bool
	}{
		{"ft", UnitFeet, false},
		{"feet", UnitFeet, false},
		{"Foot", UnitFeet, false},
		{"'", UnitFeet, false},
		{"", UnitFeet, false},
		{"m", UnitMeters, false},
		{"meters", UnitMeters, false},
		{"metre", UnitMeters, false},
		{"in", UnitInches, false},
		{"inches", UnitInches, false},
		{`"`, UnitInches, false},
		{"cm", UnitCentimeters, false},
		{"centimetres", UnitCentimeters, false},
		{" FT ", UnitFeet, false},
		{"furlong", "", true},
	}
	for _, tt := range tests {
		got, err := ParseUnit(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseUnit(%q) = %v, want error", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseUnit(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseUnit(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewLength_Validation(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		unit  Unit
		pref  Preference
	}{
		{"zero value", 0, UnitFeet, ""},
		{"negative value", -1, UnitFeet, ""},
		{"nan", math.NaN(), UnitFeet, ""},
		{"infinity", math.Inf(1), UnitFeet, ""},
		{"unknown unit", 6, "yards", ""},
		{"unknown preference", 6, UnitFeet, "whatever"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewLength(tt.value, tt.unit, tt.pref); err == nil {
				t.Error("want error")
			}
		})
	}
}

func TestNewLength_DefaultPreference(t *testing.T) {
	l, err := NewLength(6, UnitFeet, "")
	if err != nil {
		t.Fatal(err)
	}
	if l.Preference() != ExactOrLonger {
		t.Errorf("preference = %s, want exact_or_longer", l.Preference())
	}
}

func TestLength_Conversions(t *testing.T) {
	l, err := NewLength(6, UnitFeet, "")
	if err != nil {
		t.Fatal(err)
	}

	if got := l.Meters(); math.Abs(got-1.8288) > 1e-9 {
		t.Errorf("Meters() = %v, want 1.8288", got)
	}

	// A 2m candidate is about 0.56ft over the request.
	diff := l.DiffFromMeters(2.0)
	if math.Abs(diff-0.5617) > 0.001 {
		t.Errorf("DiffFromMeters(2.0) = %v, want ~0.5617", diff)
	}

	// Shorter candidates come back negative.
	if diff := l.DiffFromMeters(1.0); diff >= 0 {
		t.Errorf("DiffFromMeters(1.0) = %v, want negative", diff)
	}
}

func TestLength_String(t *testing.T) {
	tests := []struct {
		value float64
		unit  Unit
		want  string
	}{
		{6, UnitFeet, "6ft"},
		{1.5, UnitMeters, "1.5m"},
		{50, UnitCentimeters, "50cm"},
	}
	for _, tt := range tests {
		l, err := NewLength(tt.value, tt.unit, "")
		if err != nil {
			t.Fatal(err)
		}
		if got := l.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestUnit_RoundTrip(t *testing.T) {
	for _, u := range []Unit{UnitFeet, UnitMeters, UnitInches, UnitCentimeters} {
		if got := u.FromMeters(u.ToMeters(3.5)); math.Abs(got-3.5) > 1e-9 {
			t.Errorf("%s round trip = %v, want 3.5", u, got)
		}
	}
}
