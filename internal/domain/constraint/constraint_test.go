package constraint

import "testing"

func TestNew_Normalization(t *testing.T) {
	c, err := New(nil, " HDMI ", "DisplayPort", " Cables ",
		[]string{" 4K ", "hdr", "4k", ""}, 0, 0, " Black ",
		[]string{"Slim", "slim"}, nil)
	if err != nil {
		t.Fatal(err)
	}

	if c.ConnectorFrom() != "hdmi" || c.ConnectorTo() != "displayport" {
		t.Errorf("connectors = %q/%q", c.ConnectorFrom(), c.ConnectorTo())
	}
	if c.Category() != "cables" || c.Color() != "black" {
		t.Errorf("category/color = %q/%q", c.Category(), c.Color())
	}

	features := c.Features()
	if len(features) != 2 || features[0] != "4k" || features[1] != "hdr" {
		t.Errorf("features = %v, want deduped [4k hdr]", features)
	}
	if kws := c.Keywords(); len(kws) != 1 || kws[0] != "slim" {
		t.Errorf("keywords = %v, want [slim]", kws)
	}
}

func TestNew_NegativeCountsTreatedAsUnspecified(t *testing.T) {
	s, err := New(nil, "", "", "", nil, -1, -2, "", nil, nil)
	if err != nil {
		t.Fatalf("negative counts should be treated as unspecified, got error: %v", err)
	}
	if s.PortCount() != 0 {
		t.Errorf("port count = %d, want 0", s.PortCount())
	}
	if s.MinMonitors() != 0 {
		t.Errorf("min monitors = %d, want 0", s.MinMonitors())
	}
	if !s.IsEmpty() {
		t.Error("set with only negative counts should be empty")
	}
}

func TestSet_IsEmpty(t *testing.T) {
	empty, err := New(nil, "", "", "", nil, 0, 0, "", nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !empty.IsEmpty() {
		t.Error("want empty")
	}

	withCategory, err := New(nil, "", "", "cables", nil, 0, 0, "", nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if withCategory.IsEmpty() {
		t.Error("a set with a category is not empty")
	}
}

func TestSet_HasConnector(t *testing.T) {
	oneSide, err := New(nil, "hdmi", "", "", nil, 0, 0, "", nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !oneSide.HasConnector() {
		t.Error("one endpoint is enough")
	}

	none, err := New(nil, "", "", "cables", nil, 0, 0, "", nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if none.HasConnector() {
		t.Error("no connectors set")
	}
}

func TestSet_AccessorsCopy(t *testing.T) {
	c, err := New(nil, "", "", "", []string{"4k"}, 0, 0, "", nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	got := c.Features()
	got[0] = "mutated"
	if c.Features()[0] != "4k" {
		t.Error("accessor must return a copy")
	}
}
