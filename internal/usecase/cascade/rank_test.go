package cascade

import (
	"testing"

	"github.com/mattsmit4/hardfind/internal/domain"
	"github.com/mattsmit4/hardfind/internal/domain/constraint"
)

func lengthOnlySet(t *testing.T, value float64, pref constraint.Preference) *constraint.Set {
	t.Helper()
	l, err := constraint.NewLength(value, constraint.UnitFeet, pref)
	if err != nil {
		t.Fatal(err)
	}
	c, err := constraint.New(&l, "", "", "", nil, 0, 0, "", nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestLengthProximity_Buckets(t *testing.T) {
	c := lengthOnlySet(t, 6, "")

	tests := []struct {
		name    string
		lengthM float64
		want    float64
	}{
		{"exact six feet", 1.8288, 40},
		{"quarter foot off", 1.9, 30},
		{"just over half a foot off", 2.0, 20},
		{"exactly three feet off", 2.7432, 10},
		{"way off", 3.5, 0},
		{"no length", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it := domain.Item{SKU: "X", LengthM: tt.lengthM}
			if got := lengthProximity(&it, c); got != tt.want {
				t.Errorf("lengthProximity(%vm) = %v, want %v", tt.lengthM, got, tt.want)
			}
		})
	}
}

func TestFeatureMatch_Fractional(t *testing.T) {
	c, err := constraint.New(nil, "", "", "", []string{"4k", "braided"}, 0, 0, "", nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	it := domain.Item{SKU: "X", Features: []string{"Braided"}}
	if got := featureMatch(&it, c); got != 12.5 {
		t.Errorf("one of two features = %v, want 12.5", got)
	}

	// 4K goes through the capability check, not literal feature matching.
	it.UHD4KSupport = "Yes"
	if got := featureMatch(&it, c); got != 25 {
		t.Errorf("both features = %v, want 25", got)
	}
}

func TestConnectorMatch(t *testing.T) {
	both, err := constraint.New(nil, "hdmi", "displayport", "", nil, 0, 0, "", nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	full := domain.Item{ConnectorFrom: "HDMI", ConnectorTo: "DisplayPort"}
	if got := connectorMatch(&full, both); got != connectorWeight {
		t.Errorf("both sides = %v, want %v", got, connectorWeight)
	}

	half := domain.Item{ConnectorFrom: "HDMI", ConnectorTo: "DVI-D"}
	if got := connectorMatch(&half, both); got != connectorWeight/2 {
		t.Errorf("one side = %v, want %v", got, connectorWeight/2)
	}

	// A mention in the product name counts as a match.
	named := domain.Item{Name: "HDMI to DisplayPort Converter"}
	if got := connectorMatch(&named, both); got != connectorWeight {
		t.Errorf("name mention = %v, want %v", got, connectorWeight)
	}

	none := domain.Item{ConnectorFrom: "VGA"}
	if got := connectorMatch(&none, both); got != 0 {
		t.Errorf("no match = %v, want 0", got)
	}
}

func TestAttributeMatch_Color(t *testing.T) {
	c, err := constraint.New(nil, "", "", "", nil, 0, 0, "black", nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	byField := domain.Item{Color: "Black"}
	if got := attributeMatch(&byField, c); got != attributeWeight {
		t.Errorf("color field = %v, want %v", got, attributeWeight)
	}
	byName := domain.Item{Name: "6ft Black HDMI Cable"}
	if got := attributeMatch(&byName, c); got != attributeWeight {
		t.Errorf("color in name = %v, want %v", got, attributeWeight)
	}
	white := domain.Item{Color: "White"}
	if got := attributeMatch(&white, c); got != 0 {
		t.Errorf("wrong color = %v, want 0", got)
	}
}

func TestCategoryBoost(t *testing.T) {
	newSet := func(category string, portCount int) *constraint.Set {
		c, err := constraint.New(nil, "", "", category, nil, portCount, 0, "", nil, nil)
		if err != nil {
			t.Fatal(err)
		}
		return c
	}

	tests := []struct {
		name string
		item domain.Item
		c    *constraint.Set
		want float64
	}{
		{
			name: "rack with height and type",
			item: domain.Item{Extra: map[string]string{"UHEIGHT": "42", "RACKTYPE": "Open Frame"}},
			c:    newSet("server racks", 0),
			want: boostWeight,
		},
		{
			name: "rack accessory",
			item: domain.Item{SubCategory: "Rack Accessories"},
			c:    newSet("racks", 0),
			want: 0,
		},
		{
			name: "pci card",
			item: domain.Item{BusType: "PCI Express"},
			c:    newSet("computer cards", 0),
			want: boostWeight,
		},
		{
			name: "enclosure with drive size",
			item: domain.Item{Extra: map[string]string{"DRIVESIZE": "2.5in"}},
			c:    newSet("storage enclosures", 0),
			want: boostWeight,
		},
		{
			name: "hub without port count",
			item: domain.Item{Name: "USB Hub Mounting Bracket"},
			c:    newSet("hubs", 0),
			want: -30,
		},
		{
			name: "hub with exact port count",
			item: domain.Item{Ports: 4},
			c:    newSet("hubs", 4),
			want: boostWeight,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := categoryBoost(&tt.item, tt.c); got != tt.want {
				t.Errorf("categoryBoost = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCategoryBoost_PigtailPenalty(t *testing.T) {
	c := cableSet(t, feet(t, 6))

	pigtail := domain.Item{SKU: "P", LengthM: 0.2}
	if got := categoryBoost(&pigtail, c); got != -10 {
		t.Errorf("pigtail boost = %v, want -10", got)
	}
	normal := domain.Item{SKU: "N", LengthM: 1.8288}
	if got := categoryBoost(&normal, c); got != 0 {
		t.Errorf("normal cable boost = %v, want 0", got)
	}
}

func TestRelevance_ClampedToZero(t *testing.T) {
	c, err := constraint.New(nil, "", "", "hubs", nil, 0, 0, "", nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	it := domain.Item{Name: "Hub Bracket"}
	if got := relevance(&it, c); got != 0 {
		t.Errorf("relevance = %v, want clamp at 0", got)
	}
}

func TestRank_PrefersRequestedDirectionOnTies(t *testing.T) {
	c := lengthOnlySet(t, 6, "") // exact_or_longer by default

	// Both land in the same proximity bucket, but only the longer one is in
	// the preferred direction.
	shorter := domain.Item{SKU: "SHORT", LengthM: 1.6}
	longer := domain.Item{SKU: "LONG", LengthM: 2.0}

	out := rank([]domain.Item{shorter, longer}, c)
	if out[0].SKU != "LONG" || out[1].SKU != "SHORT" {
		t.Errorf("order = [%s %s], want [LONG SHORT]", out[0].SKU, out[1].SKU)
	}
}

func TestRank_FallsBackToBackendScore(t *testing.T) {
	c := lengthOnlySet(t, 6, "")

	low := domain.Item{SKU: "LOW", LengthM: 1.8288, Score: 0.5}
	high := domain.Item{SKU: "HIGH", LengthM: 1.8288, Score: 0.9}

	out := rank([]domain.Item{low, high}, c)
	if out[0].SKU != "HIGH" {
		t.Errorf("order = [%s %s], want backend score to break the tie", out[0].SKU, out[1].SKU)
	}
}

func TestRank_StableOnFullTies(t *testing.T) {
	c := lengthOnlySet(t, 6, "")

	a := domain.Item{SKU: "A", LengthM: 1.8288, Score: 0.9}
	b := domain.Item{SKU: "B", LengthM: 1.8288, Score: 0.9}

	out := rank([]domain.Item{a, b}, c)
	if out[0].SKU != "A" || out[1].SKU != "B" {
		t.Errorf("order = [%s %s], want arrival order preserved", out[0].SKU, out[1].SKU)
	}
}

func TestLengthPreferenceKey(t *testing.T) {
	withLen := domain.Item{SKU: "X", LengthM: 1.6} // 5.25ft
	noLen := domain.Item{SKU: "Y"}

	tests := []struct {
		name      string
		pref      constraint.Preference
		item      *domain.Item
		wantGroup int
	}{
		{"shorter item under exact_or_longer", constraint.ExactOrLonger, &withLen, 1},
		{"shorter item under exact_or_shorter", constraint.ExactOrShorter, &withLen, 0},
		{"shorter item under closest", constraint.Closest, &withLen, 0},
		{"no length always last", constraint.Closest, &noLen, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := lengthOnlySet(t, 6, tt.pref)
			group, _ := lengthPreferenceKey(tt.item, c)
			if group != tt.wantGroup {
				t.Errorf("group = %d, want %d", group, tt.wantGroup)
			}
		})
	}
}
