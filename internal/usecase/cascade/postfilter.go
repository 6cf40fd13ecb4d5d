package cascade

import (
	"regexp"
	"strings"

	"github.com/mattsmit4/hardfind/internal/domain"
)

// portTypePatterns match a required port type against the free-form port
// inventory text on dock and hub records ("1 x USB 3.0 Type-C", "2 x HDMI").
var portTypePatterns = map[string][]*regexp.Regexp{
	"usb-c": {
		regexp.MustCompile(`type[\s\-]?c`),
		regexp.MustCompile(`usb[\s\-]?c`),
	},
	"usb-a": {
		regexp.MustCompile(`type[\s\-]?a`),
		regexp.MustCompile(`usb[\s\-]?a`),
	},
	"usb":         {regexp.MustCompile(`\busb\b`)},
	"hdmi":        {regexp.MustCompile(`\bhdmi\b`)},
	"displayport": {regexp.MustCompile(`\bdisplayport\b`), regexp.MustCompile(`\bdp\b`)},
	"thunderbolt": {regexp.MustCompile(`\bthunderbolt\b`)},
	"ethernet": {
		regexp.MustCompile(`\bethernet\b`),
		regexp.MustCompile(`\brj[\s\-]?45\b`),
		regexp.MustCompile(`\bgigabit\b`),
	},
}

// filterByPortTypes keeps items whose port inventory mentions every required
// port type. Items with no port inventory text at all are rejected.
func filterByPortTypes(items []domain.Item, required []string) []domain.Item {
	if len(required) == 0 {
		return items
	}
	out := make([]domain.Item, 0, len(items))
	for _, it := range items {
		if hasPortTypes(&it, required) {
			out = append(out, it)
		}
	}
	return out
}

func hasPortTypes(it *domain.Item, required []string) bool {
	inventory := strings.ToLower(it.PortTypes)
	if inventory == "" {
		return false
	}
	for _, want := range required {
		patterns, ok := portTypePatterns[strings.ToLower(want)]
		if !ok {
			if !strings.Contains(inventory, strings.ToLower(want)) {
				return false
			}
			continue
		}
		found := false
		for _, p := range patterns {
			if p.MatchString(inventory) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// filterByMinMonitors keeps items that can drive at least the requested
// number of displays. Items with an unknown display count pass through.
func filterByMinMonitors(items []domain.Item, minMonitors int) []domain.Item {
	if minMonitors <= 0 {
		return items
	}
	out := make([]domain.Item, 0, len(items))
	for _, it := range items {
		if it.Displays == 0 || it.Displays >= minMonitors {
			out = append(out, it)
		}
	}
	return out
}
