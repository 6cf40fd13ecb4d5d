package cascade

import (
	"testing"

	"github.com/mattsmit4/hardfind/internal/domain/relax"
)

func TestQuasiExactTolerance(t *testing.T) {
	if got := quasiExactTolerance(6); got != 1.0 {
		t.Errorf("tolerance(6) = %v, want the 1.0 floor", got)
	}
	if got := quasiExactTolerance(10); got != 1.5 {
		t.Errorf("tolerance(10) = %v, want 1.5", got)
	}
}

func TestDroppedLength_QuasiExactSuppressed(t *testing.T) {
	// 1.9m is 6.23ft: within a foot of the 6ft request, no record.
	if d := droppedLength(feet(t, 6), []float64{1.9}); d != nil {
		t.Errorf("got %+v, want nil for a quasi-exact available length", d)
	}
}

func TestDroppedLength_Record(t *testing.T) {
	d := droppedLength(feet(t, 6), []float64{3.0, 0.9144, 15.0})
	if d == nil {
		t.Fatal("want a dropped length record")
	}
	if d.Facet != "length" || d.Requested != "6ft" {
		t.Errorf("facet/requested = %s/%s", d.Facet, d.Requested)
	}
	if d.Reason != "No exact 6ft options available" {
		t.Errorf("reason = %q", d.Reason)
	}

	want := []string{"3ft", "9.8ft", "49.2ft"}
	if len(d.Alternatives) != len(want) {
		t.Fatalf("alternatives = %v, want %v", d.Alternatives, want)
	}
	for i := range want {
		if d.Alternatives[i] != want[i] {
			t.Errorf("alternatives[%d] = %s, want %s", i, d.Alternatives[i], want[i])
		}
	}
}

func TestFormatLengthAlternatives_DedupesAndCaps(t *testing.T) {
	l := feet(t, 15)

	// 1.8288m and 1.83m both round to 6ft.
	alts := formatLengthAlternatives(l, []float64{1.83, 1.8288})
	if len(alts) != 1 || alts[0] != "6ft" {
		t.Errorf("alts = %v, want [6ft]", alts)
	}

	many := []float64{3, 4, 5, 6, 7, 8, 9, 10}
	if alts := formatLengthAlternatives(l, many); len(alts) != maxLengthAlternatives {
		t.Errorf("len = %d, want cap of %d", len(alts), maxLengthAlternatives)
	}
}

func TestIdentifyDropped(t *testing.T) {
	l := feet(t, 6)
	c := cableSet(t, l)

	t1 := relax.FilterSet{
		Category:      "cables",
		ConnectorFrom: "usb-c",
		ConnectorTo:   "hdmi",
		Length:        l,
		Features:      []string{"4k", "braided"},
		Color:         "black",
	}
	used := relax.FilterSet{Category: "cables", Keywords: []string{"cable"}}

	dropped := identifyDropped(c, t1, used, []float64{15.0})

	byFacet := make(map[string]relax.DroppedConstraint, len(dropped))
	for _, d := range dropped {
		byFacet[d.Facet] = d
	}

	if d, ok := byFacet["length"]; !ok {
		t.Error("missing length record")
	} else if len(d.Alternatives) != 1 || d.Alternatives[0] != "49.2ft" {
		t.Errorf("length alternatives = %v", d.Alternatives)
	}
	if d, ok := byFacet["features"]; !ok {
		t.Error("missing features record")
	} else if d.Requested != "4k, braided" {
		t.Errorf("features requested = %q", d.Requested)
	}
	if _, ok := byFacet["connector_from"]; !ok {
		t.Error("missing connector_from record")
	}
	if _, ok := byFacet["connector_to"]; !ok {
		t.Error("missing connector_to record")
	}
	if d, ok := byFacet["color"]; !ok {
		t.Error("missing color record")
	} else if d.Reason != "No black products found" {
		t.Errorf("color reason = %q", d.Reason)
	}
}

func TestIdentifyDropped_ConnectorToSuppressedWhenCollapsed(t *testing.T) {
	c := cableSet(t, nil)

	// The core tier collapses an hdmi-to-hdmi request to the source side;
	// the destination was not really given up.
	t1 := relax.FilterSet{Category: "cables", ConnectorFrom: "hdmi", ConnectorTo: "hdmi"}
	used := relax.FilterSet{Category: "cables", ConnectorFrom: "hdmi"}

	for _, d := range identifyDropped(c, t1, used, nil) {
		if d.Facet == "connector_to" {
			t.Errorf("connector_to reported despite the collapse: %+v", d)
		}
	}
}

func TestIdentifyDropped_NothingDropped(t *testing.T) {
	c := cableSet(t, nil)
	fs := relax.FilterSet{Category: "cables", ConnectorFrom: "hdmi", ConnectorTo: "displayport"}

	if dropped := identifyDropped(c, fs, fs, nil); len(dropped) != 0 {
		t.Errorf("dropped = %+v, want none for identical filter sets", dropped)
	}
}

func TestDroppedLength_NoAvailableLengths(t *testing.T) {
	d := droppedLength(feet(t, 6), nil)
	if d == nil {
		t.Fatal("want a record even with no alternatives")
	}
	if len(d.Alternatives) != 0 {
		t.Errorf("alternatives = %v, want none", d.Alternatives)
	}
}
