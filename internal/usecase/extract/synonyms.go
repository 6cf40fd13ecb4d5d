package extract

import (
	"regexp"
	"sort"
	"strings"
)

// synonyms normalizes abbreviations, typos, and common phrasings before
// connector and monitor extraction. Applied longest-key-first so multi-word
// entries win over their substrings.
var synonyms = map[string]string{
	// connector abbreviations
	"dp":     "displayport",
	"tb":     "thunderbolt",
	"tb3":    "thunderbolt 3",
	"tb4":    "thunderbolt 4",
	"usb c":  "usb-c",
	"usbc":   "usb-c",
	"type c": "usb-c",
	"type-c": "usb-c",
	"usb a":  "usb-a",
	"usba":   "usb-a",
	"type a": "usb-a",
	"type-a": "usb-a",

	// typos
	"hdim":        "hdmi",
	"hmdi":        "hdmi",
	"hdm":         "hdmi",
	"hmi":         "hdmi",
	"displayprot": "displayport",
	"dispayport":  "displayport",
	"dislpayport": "displayport",
	"usc-c":       "usb-c",
	"usbcc":       "usb-c",
	"thunderbot":  "thunderbolt",
	"thuderbolt":  "thunderbolt",
	"ethernnet":   "ethernet",
	"ehternet":    "ethernet",
	"enthernet":   "ethernet",
	"cabel":       "cable",
	"calbe":       "cable",
	"caple":       "cable",
	"adaptor":     "adapter",
	"addapter":    "adapter",
	"adpater":     "adapter",
	"moinitor":    "monitor",
	"moinitors":   "monitors",

	// cable types
	"cat5":  "category 5 ethernet",
	"cat5e": "category 5e ethernet",
	"cat6":  "category 6 ethernet",
	"cat6a": "category 6a ethernet",
	"cat7":  "category 7 ethernet",

	// product phrases
	"charger":       "charging cable",
	"power cord":    "power cable",
	"monitor cable": "display cable",
	"laptop dock":   "docking station",

	// features
	"poe": "power over ethernet",
}

type synonymRule struct {
	re          *regexp.Regexp
	replacement string
}

var synonymRules = buildSynonymRules()

func buildSynonymRules() []synonymRule {
	keys := make([]string, 0, len(synonyms))
	for k := range synonyms {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})

	rules := make([]synonymRule, len(keys))
	for i, k := range keys {
		rules[i] = synonymRule{
			re:          regexp.MustCompile(`\b` + regexp.QuoteMeta(k) + `\b`),
			replacement: synonyms[k],
		}
	}
	return rules
}

// expandSynonyms lowercases the query and rewrites every known synonym,
// typo, and abbreviation to its canonical spelling.
func expandSynonyms(text string) string {
	expanded := strings.ToLower(text)
	for _, rule := range synonymRules {
		expanded = rule.re.ReplaceAllString(expanded, rule.replacement)
	}
	return expanded
}
