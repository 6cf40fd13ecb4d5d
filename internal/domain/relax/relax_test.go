package relax

import (
	"strings"
	"testing"

	"github.com/mattsmit4/hardfind/internal/domain/constraint"
)

func sixFeet(t *testing.T) *constraint.Length {
	t.Helper()
	l, err := constraint.NewLength(6, constraint.UnitFeet, "")
	if err != nil {
		t.Fatal(err)
	}
	return &l
}

func TestTier_Relaxed(t *testing.T) {
	if TierExact.Relaxed() {
		t.Error("the exact tier is not relaxed")
	}
	for _, tier := range []Tier{TierCore, TierCategorySwap, TierConnector, TierFallback} {
		if !tier.Relaxed() {
			t.Errorf("%s should report relaxed", tier)
		}
	}
}

func TestFilterSet_Facets(t *testing.T) {
	fs := FilterSet{
		Category:      "cables",
		ConnectorFrom: "hdmi",
		ConnectorTo:   "displayport",
		Length:        sixFeet(t),
		Features:      []string{"4k"},
		PortCount:     4,
		Color:         "black",
		Keywords:      []string{"slim"},
	}

	want := []string{"category", "color", "connector_from", "connector_to", "features", "length", "port_count"}
	got := fs.Facets()
	if len(got) != len(want) {
		t.Fatalf("facets = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("facets = %v, want sorted %v", got, want)
		}
	}

	empty := FilterSet{Keywords: []string{"cable"}}
	if f := empty.Facets(); len(f) != 0 {
		t.Errorf("keywords alone are not a facet: %v", f)
	}
}

func TestFilterSet_Equal(t *testing.T) {
	a := FilterSet{Category: "cables", ConnectorFrom: "hdmi", Length: sixFeet(t)}
	b := FilterSet{Category: "cables", ConnectorFrom: "hdmi", Length: sixFeet(t)}
	if !a.Equal(&b) {
		t.Error("identical sets should compare equal")
	}

	c := b
	c.Length = nil
	if a.Equal(&c) {
		t.Error("length presence must matter")
	}

	d := b
	d.Keywords = []string{"slim"}
	if a.Equal(&d) {
		t.Error("keywords must matter")
	}

	if a.Equal(nil) {
		t.Error("nil never equals a non-nil set")
	}
}

func TestFilterSet_Probe(t *testing.T) {
	fs := FilterSet{
		Category:      "cables",
		ConnectorFrom: "hdmi",
		ConnectorTo:   "displayport",
		Length:        sixFeet(t),
		Features:      []string{"4k"},
		Color:         "black",
		Keywords:      []string{"braided"},
	}

	if got, want := fs.Probe(), "6ft hdmi to displayport black 4k cables braided"; got != want {
		t.Errorf("Probe() = %q, want %q", got, want)
	}
}

func TestFilterSet_ProbeSingleConnector(t *testing.T) {
	fs := FilterSet{ConnectorFrom: "usb-c", Category: "docks"}
	if got := fs.Probe(); got != "usb-c docks" {
		t.Errorf("Probe() = %q", got)
	}

	toOnly := FilterSet{ConnectorTo: "hdmi"}
	if got := toOnly.Probe(); !strings.Contains(got, "hdmi") {
		t.Errorf("Probe() = %q, want the lone destination connector", got)
	}
}

func TestFilterSet_ProbeEmpty(t *testing.T) {
	var fs FilterSet
	if got := fs.Probe(); got != "" {
		t.Errorf("Probe() = %q, want empty", got)
	}
}
