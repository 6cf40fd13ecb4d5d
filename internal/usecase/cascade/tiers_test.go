package cascade

import (
	"testing"

	"github.com/mattsmit4/hardfind/internal/domain/constraint"
)

func newSet(t *testing.T, connFrom, connTo, category string, keywords []string) *constraint.Set {
	t.Helper()
	c, err := constraint.New(nil, connFrom, connTo, category, nil, 0, 0, "", keywords, nil)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestBuildTier1_CarriesEveryFacet(t *testing.T) {
	l := feet(t, 6)
	c, err := constraint.New(l, "hdmi", "displayport", "cables",
		[]string{"4k"}, 4, 0, "black", []string{"slim"}, nil)
	if err != nil {
		t.Fatal(err)
	}

	fs := buildTier1(c)
	if fs.Category != "cables" || fs.ConnectorFrom != "hdmi" || fs.ConnectorTo != "displayport" {
		t.Errorf("fs = %+v", fs)
	}
	if fs.Length == nil || fs.Color != "black" || fs.PortCount != 4 {
		t.Errorf("fs = %+v", fs)
	}
	if len(fs.Features) != 1 || len(fs.Keywords) != 1 {
		t.Errorf("fs = %+v", fs)
	}
}

func TestBuildTier2_CollapsesEqualConnectors(t *testing.T) {
	same := newSet(t, "hdmi", "hdmi", "cables", nil)
	fs := buildTier2(same)
	if fs.ConnectorFrom != "hdmi" || fs.ConnectorTo != "" {
		t.Errorf("equal connectors should collapse: %+v", fs)
	}
	if fs.Length != nil || fs.Color != "" || len(fs.Features) != 0 {
		t.Errorf("core tier must drop length, features, and color: %+v", fs)
	}

	diff := newSet(t, "hdmi", "displayport", "cables", nil)
	fs = buildTier2(diff)
	if fs.ConnectorTo != "displayport" {
		t.Errorf("distinct connectors must survive: %+v", fs)
	}
}

func TestBuildTier25(t *testing.T) {
	tests := []struct {
		category string
		want     string
		ok       bool
	}{
		{"cables", "adapters", true},
		{"cable", "adapters", true},
		{"adapters", "cables", true},
		{"adapter", "cables", true},
		{"docks", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		c := newSet(t, "hdmi", "displayport", tt.category, nil)
		fs, ok := buildTier25(c)
		if ok != tt.ok {
			t.Errorf("buildTier25(%q) ok = %v, want %v", tt.category, ok, tt.ok)
			continue
		}
		if !ok {
			continue
		}
		if fs.Category != tt.want || !fs.CategorySwapped {
			t.Errorf("buildTier25(%q) = %+v, want swapped to %q", tt.category, fs, tt.want)
		}
	}
}

func TestBuildTier3(t *testing.T) {
	if _, ok := buildTier3(newSet(t, "usb-c", "", "docks", nil)); ok {
		t.Error("connectorless categories must skip the connector tier")
	}
	if _, ok := buildTier3(newSet(t, "", "", "cables", nil)); ok {
		t.Error("no connector and no keywords must skip the connector tier")
	}

	fs, ok := buildTier3(newSet(t, "hdmi", "displayport", "cables", nil))
	if !ok {
		t.Fatal("connector tier should apply")
	}
	if fs.Category != "" {
		t.Errorf("connector tier must drop the category: %+v", fs)
	}
	if fs.ConnectorFrom != "hdmi" || fs.ConnectorTo != "displayport" {
		t.Errorf("fs = %+v", fs)
	}

	if _, ok := buildTier3(newSet(t, "", "", "cables", []string{"braided"})); !ok {
		t.Error("keywords alone should qualify")
	}
}

func TestBuildTier4_DefaultsCategory(t *testing.T) {
	fs := buildTier4(newSet(t, "", "", "", []string{"cable"}))
	if fs.Category != DefaultCategory {
		t.Errorf("category = %q, want %q", fs.Category, DefaultCategory)
	}
	if len(fs.Keywords) != 1 {
		t.Errorf("keywords = %v", fs.Keywords)
	}

	fs = buildTier4(newSet(t, "", "", "docks", nil))
	if fs.Category != "docks" {
		t.Errorf("category = %q, want the requested one", fs.Category)
	}
}
