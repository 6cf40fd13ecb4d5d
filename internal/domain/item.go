package domain

import "strings"

// Item is a catalog record hydrated from the backend. Fields are populated by
// the repository layer and treated as read-only by the search engine; columns
// with no dedicated field land in Extra.
type Item struct {
	SKU           string
	Name          string
	Content       string
	Category      string
	SubCategory   string
	ConnectorFrom string
	ConnectorTo   string

	// LengthM is the physical length in meters; zero means the item has no
	// length attribute (adapters, docks, enclosures).
	LengthM       float64
	LengthDisplay string

	Color    string
	Features []string

	// Ports is the total port count; zero means unknown.
	Ports int
	// Displays is the number of monitors the item can drive; zero means unknown.
	Displays int

	MaxResolution string
	UHD4KSupport  string
	PortTypes     string
	BusType       string
	Warranty      string

	Extra map[string]string

	// Score is the raw backend relevance, normalized to [0,1].
	Score float64
}

// HasLength reports whether the item carries a length attribute.
func (it *Item) HasLength() bool { return it.LengthM > 0 }

// resolutionIndicators maps a canonical resolution to the tokens that signal
// it in feature lists, attribute values, and product copy.
var resolutionIndicators = map[string][]string{
	"8k":    {"8k", "4320", "7680"},
	"4k":    {"4k", "uhd", "ultra hd", "2160", "3840"},
	"1440p": {"1440", "2560", "qhd", "2k"},
	"1080p": {"1080", "1920", "full hd", "fhd"},
}

// connectors that pass 4K when nothing on the record says otherwise.
var inherent4KConnectors = map[string]bool{
	"hdmi":             true,
	"displayport":      true,
	"mini-displayport": true,
	"mini displayport": true,
	"usb-c":            true,
	"usb4":             true,
	"thunderbolt":      true,
	"thunderbolt 3":    true,
	"thunderbolt 4":    true,
}

// SupportsResolution reports whether the item can drive the requested video
// resolution ("4k", "8k", "1440p", "1080p"). Sources are consulted in order:
// the explicit 4K support flag, the feature list, resolution attributes, the
// product copy, and finally the inherent capability of the connectors for
// cables and adapters. Supporting 4K implies 1080p and 1440p.
func (it *Item) SupportsResolution(resolution string) bool {
	res := strings.ToLower(strings.TrimSpace(resolution))
	indicators, ok := resolutionIndicators[res]
	if !ok {
		return false
	}

	if res == "4k" && it.UHD4KSupport != "" {
		flag := strings.ToLower(it.UHD4KSupport)
		return strings.Contains(flag, "yes") || strings.Contains(flag, "true") || flag == "1"
	}

	for _, f := range it.Features {
		if containsAny(strings.ToLower(f), indicators) {
			return true
		}
	}

	if containsAny(strings.ToLower(it.MaxResolution), indicators) {
		return true
	}
	for k, v := range it.Extra {
		if !strings.Contains(strings.ToLower(k), "resolution") {
			continue
		}
		if containsAny(strings.ToLower(v), indicators) {
			return true
		}
	}

	text := strings.ToLower(it.Name + " " + it.Content)
	if containsAny(text, indicators) {
		return true
	}

	if res == "1080p" || res == "1440p" {
		// Anything that drives 4K drives the lower tiers too.
		if it.SupportsResolution("4k") {
			return true
		}
	}

	return it.inherentlySupports4KPlus(res)
}

// inherentlySupports4KPlus covers cables and adapters whose records carry no
// resolution data at all: modern video connectors pass 4K by construction,
// VGA never does.
func (it *Item) inherentlySupports4KPlus(res string) bool {
	if res != "4k" && res != "1080p" && res != "1440p" {
		return false
	}

	cat := strings.ToLower(it.Category)
	if !strings.Contains(cat, "cable") && !strings.Contains(cat, "adapter") {
		return false
	}

	from := strings.ToLower(it.ConnectorFrom)
	to := strings.ToLower(it.ConnectorTo)
	if strings.Contains(from, "vga") || strings.Contains(to, "vga") {
		return false
	}
	return inherent4KConnectors[from] || inherent4KConnectors[to] ||
		strings.Contains(from, "displayport") || strings.Contains(to, "displayport")
}

func containsAny(s string, subs []string) bool {
	if s == "" {
		return false
	}
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
