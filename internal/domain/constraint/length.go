// Package constraint defines the immutable search constraint set extracted
// from a customer query, plus the length/unit arithmetic the engine ranks and
// relaxes against.
package constraint

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Unit is a physical length unit accepted in queries.
type Unit string

const (
	UnitFeet        Unit = "ft"
	UnitMeters      Unit = "m"
	UnitInches      Unit = "in"
	UnitCentimeters Unit = "cm"
)

// DefaultUnit applies when a query names a length without a unit.
const DefaultUnit = UnitFeet

var metersPerUnit = map[Unit]float64{
	UnitFeet:        0.3048,
	UnitMeters:      1.0,
	UnitInches:      0.0254,
	UnitCentimeters: 0.01,
}

// ParseUnit normalizes a unit token ("ft", "feet", "meter", "inches", ...).
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "ft", "feet", "foot", "'":
		return UnitFeet, nil
	case "m", "meter", "meters", "metre", "metres":
		return UnitMeters, nil
	case "in", "inch", "inches", `"`:
		return UnitInches, nil
	case "cm", "centimeter", "centimeters", "centimetre", "centimetres":
		return UnitCentimeters, nil
	default:
		return "", fmt.Errorf("unknown length unit %q", s)
	}
}

// ToMeters converts a value in this unit to meters.
func (u Unit) ToMeters(v float64) float64 { return v * metersPerUnit[u] }

// FromMeters converts meters to a value in this unit.
func (u Unit) FromMeters(m float64) float64 { return m / metersPerUnit[u] }

// Preference states how the engine should treat candidates whose length does
// not exactly match the request.
type Preference string

const (
	// ExactOrLonger favors the requested length, then anything longer.
	// This is the default: a longer cable still reaches.
	ExactOrLonger Preference = "exact_or_longer"
	// ExactOrShorter favors the requested length, then shorter options.
	ExactOrShorter Preference = "exact_or_shorter"
	// Closest favors minimal absolute distance in either direction.
	Closest Preference = "closest"
)

// Length is a requested physical length with its unit and match preference.
type Length struct {
	value float64
	unit  Unit
	pref  Preference
}

// NewLength validates and creates a length constraint. A zero or negative
// value is rejected; an empty preference defaults to ExactOrLonger.
func NewLength(value float64, unit Unit, pref Preference) (Length, error) {
	if value <= 0 || math.IsNaN(value) || math.IsInf(value, 0) {
		return Length{}, errors.New("length value must be positive")
	}
	if _, ok := metersPerUnit[unit]; !ok {
		return Length{}, fmt.Errorf("unknown length unit %q", unit)
	}
	if pref == "" {
		pref = ExactOrLonger
	}
	switch pref {
	case ExactOrLonger, ExactOrShorter, Closest:
	default:
		return Length{}, fmt.Errorf("unknown length preference %q", pref)
	}
	return Length{value: value, unit: unit, pref: pref}, nil
}

// Value returns the requested magnitude in the requested unit.
func (l Length) Value() float64 { return l.value }

// Unit returns the unit the customer asked in.
func (l Length) Unit() Unit { return l.unit }

// Preference returns the match preference.
func (l Length) Preference() Preference { return l.pref }

// Meters returns the requested length converted to meters.
func (l Length) Meters() float64 { return l.unit.ToMeters(l.value) }

// DiffFromMeters returns (available - requested) expressed in the requested
// unit. Negative means the candidate is shorter than asked.
func (l Length) DiffFromMeters(meters float64) float64 {
	return l.unit.FromMeters(meters) - l.value
}

func (l Length) String() string {
	return fmt.Sprintf("%g%s", l.value, l.unit)
}
