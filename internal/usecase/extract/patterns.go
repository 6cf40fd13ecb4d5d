package extract

import "regexp"

// Pattern tables evaluated in fixed priority order. Order matters throughout:
// "kvm switch" must resolve before generic "switch", connector pairs before
// single connectors.

const lengthUnitPattern = `(?:ft|feet|foot|in(?:ch(?:es)?)?|cm|centimeter(?:s)?|centimetre(?:s)?|m|meter(?:s)?|metre(?:s)?)`

var (
	lengthRe     = regexp.MustCompile(`\b(\d+(?:\.\d+)?)\s*(` + lengthUnitPattern + `)\b`)
	numberWordRe = regexp.MustCompile(`\b(zero|one|two|three|four|five|six|seven|eight|nine|ten|eleven|twelve|fifteen|twenty)\s+(foot|feet|ft|meters?|metres?|m)\b`)
)

var numberWords = map[string]float64{
	"zero": 0, "one": 1, "two": 2, "three": 3, "four": 4,
	"five": 5, "six": 6, "seven": 7, "eight": 8, "nine": 9,
	"ten": 10, "eleven": 11, "twelve": 12, "fifteen": 15, "twenty": 20,
}

// Phrases that signal the customer accepts a shorter option.
var shorterOKPatterns = compileAll(
	`\bshorter\s+(?:is\s+)?(?:fine|ok|okay|good|works?|acceptable)\b`,
	`\bshorter\s+(?:would\s+)?(?:work|be\s+fine|be\s+ok)\b`,
	`\b(?:can\s+be|could\s+be)\s+shorter\b`,
	`\bdon'?t\s+(?:need|want)\s+(?:it\s+)?(?:that\s+)?long\b`,
	`\bor\s+shorter\b`,
	`\bup\s+to\s+\d+`,
	`\bmax(?:imum)?\s+(?:of\s+)?\d+`,
	`\bno\s+(?:longer|more)\s+than\b`,
	`\bunder\s+\d+`,
	`\bless\s+than\s+\d+`,
)

// Phrases that signal the customer wants whatever is closest.
var flexiblePatterns = compileAll(
	`\bclose(?:st)?\s+to\b`,
	`\babout\s+\d+`,
	`\baround\s+\d+`,
	`\bapprox(?:imately)?\s+\d+`,
	`~\s*\d+`,
	`\broughly\s+\d+`,
	`\bnearest\s+to\b`,
	`\bwhatever\s+(?:is\s+)?closest\b`,
	`\beither\s+(?:way|direction)\b`,
)

// Phrases that confirm the default exact-or-longer preference explicitly.
var longerOKPatterns = compileAll(
	`\bat\s+least\s+\d+`,
	`\bminimum\s+(?:of\s+)?\d+`,
	`\bno\s+(?:shorter|less)\s+than\b`,
	`\bor\s+longer\b`,
	`\bor\s+more\b`,
)

type connectorPair struct {
	from, to string
	re       *regexp.Regexp
}

var connectorPairPatterns = []connectorPair{
	{"usb-c", "hdmi", regexp.MustCompile(`\busb[\s\-]?c\s+to\s+hdmi\b`)},
	{"usb-c", "displayport", regexp.MustCompile(`\busb[\s\-]?c\s+to\s+(?:displayport|display\s*port|dp)\b`)},
	{"hdmi", "usb-c", regexp.MustCompile(`\bhdmi\s+to\s+usb[\s\-]?c\b`)},
	{"vga", "hdmi", regexp.MustCompile(`\bvga\s+to\s+hdmi\b`)},
	{"hdmi", "vga", regexp.MustCompile(`\bhdmi\s+to\s+vga\b`)},
	{"displayport", "hdmi", regexp.MustCompile(`\b(?:displayport|display\s*port|dp)\s+to\s+hdmi\b`)},
	{"hdmi", "displayport", regexp.MustCompile(`\bhdmi\s+to\s+(?:displayport|display\s*port|dp)\b`)},
	{"dvi", "hdmi", regexp.MustCompile(`\bdvi\s+to\s+hdmi\b`)},
	{"hdmi", "dvi", regexp.MustCompile(`\bhdmi\s+to\s+dvi\b`)},
}

type singleConnector struct {
	connector string
	re        *regexp.Regexp
}

// "<connector> cable" patterns; both endpoints get the same connector.
var singleConnectorPatterns = []singleConnector{
	{"hdmi", regexp.MustCompile(`\bhdmi\s+cables?\b`)},
	{"displayport", regexp.MustCompile(`\b(?:displayport|display\s*port|dp)\s+cables?\b`)},
	{"vga", regexp.MustCompile(`\bvga\s+cables?\b`)},
	{"dvi", regexp.MustCompile(`\bdvi\s+cables?\b`)},
	{"usb-c", regexp.MustCompile(`\busb[\s\-]?c\s+cables?\b`)},
	{"usb-a", regexp.MustCompile(`\busb[\s\-]?a\s+cables?\b`)},
}

// Bare connector mentions without a "cable" keyword, lowest priority.
var bareConnectorPatterns = []singleConnector{
	{"hdmi", regexp.MustCompile(`\bhdmi\b`)},
	{"displayport", regexp.MustCompile(`\b(?:displayport|display\s*port)\b`)},
	{"usb-c", regexp.MustCompile(`\busb[\s\-]?c\b`)},
	{"usb-a", regexp.MustCompile(`\busb[\s\-]?a\b`)},
	{"usb", regexp.MustCompile(`\busb\b(?:\s*[\-]?[^ca]|$)`)},
	{"thunderbolt", regexp.MustCompile(`\bthunderbolt\b`)},
	{"vga", regexp.MustCompile(`\bvga\b`)},
	{"dvi", regexp.MustCompile(`\bdvi\b`)},
}

var explicitPairRe = regexp.MustCompile(`\b(?:usb-?c?|hdmi|displayport|thunderbolt|vga|dvi)\s+to\s+(?:usb-?c?|hdmi|displayport|vga|dvi)\b`)

type categoryEntry struct {
	category string
	keywords []string
}

// Specific categories first so "kvm switch" resolves to kvm switches, not
// switches, and "fiber optic cable" to fiber cables, not cables.
var categoryKeywords = []categoryEntry{
	{"kvm switches", []string{"kvm"}},
	{"display mounts", []string{"mount", "mounts", "monitor mount", "tv mount"}},
	{"ethernet switches", []string{"network switch", "ethernet switch", "gigabit switch", "poe switch"}},
	{"fiber cables", []string{"fiber optic", "fiber cable", "fiber patch", "optical fiber"}},
	{"storage enclosures", []string{"drive enclosure", "hard drive enclosure", "ssd enclosure", "hdd enclosure", "nvme enclosure", "m.2 enclosure"}},
	{"privacy screens", []string{"privacy screen", "privacy filter", "screen filter"}},
	{"server racks", []string{"server rack", "equipment rack", "19 inch rack", "42u rack", "data rack", "network rack", "rack cabinet", "rack enclosure"}},
	{"computer cards", []string{"pci card", "expansion card", "pcie card", "network card", "video card"}},
	{"video splitters", []string{"video splitter", "hdmi splitter", "displayport splitter", "dp splitter"}},
	{"multiport adapters", []string{"multiport adapter", "multiport", "multi-port adapter", "multi port adapter"}},
	{"cables", []string{"cable", "cables", "cord", "cords", "cat6", "cat5e", "cat5", "cat6a", "cat7", "patch cable", "ethernet cable"}},
	{"adapters", []string{"adapter", "adapters", "converter", "converters"}},
	{"docks", []string{"dock", "docking", "docking station"}},
	{"hubs", []string{"hub", "hubs"}},
	{"switches", []string{"switch", "switcher"}},
	{"enclosures", []string{"enclosure", "enclosures", "case"}},
	{"splitters", []string{"splitter", "splitters"}},
	{"networking", []string{"network", "ethernet"}},
}

// Categories where a lone connector word describes the device type, not a
// cable endpoint pair ("USB hub").
var nonCableCategories = map[string]bool{
	"hubs": true, "docks": true, "switches": true, "kvm switches": true,
	"enclosures": true, "fiber cables": true, "storage enclosures": true,
	"privacy screens": true, "server racks": true, "computer cards": true,
	"video splitters": true, "splitters": true, "multiport adapters": true,
}

type featureEntry struct {
	feature  string
	keywords []string
}

var featureKeywords = []featureEntry{
	{"4k", []string{"4k", "2160p", "uhd", "ultra hd"}},
	{"8k", []string{"8k", "4320p"}},
	{"1080p", []string{"1080p", "full hd", "fhd"}},
	{"1440p", []string{"1440p", "2k", "qhd"}},
	{"hdr", []string{"hdr", "hdr10", "hdr10+", "dolby vision"}},
	{"thunderbolt", []string{"thunderbolt", "tb3", "tb4", "thunderbolt 3", "thunderbolt 4"}},
	{"usb 3.0", []string{"usb 3.0", "usb3.0", "superspeed"}},
	{"usb 3.1", []string{"usb 3.1", "usb3.1"}},
	{"usb 3.2", []string{"usb 3.2", "usb3.2"}},
	{"hdcp", []string{"hdcp", "hdcp 2.2"}},
	{"power delivery", []string{"power delivery", "pd", "usb-pd", "100w", "60w", "charging", "charge"}},
}

// Colors matched on word boundaries so "orange" never fires inside
// "storage".
var colorKeywords = []string{
	"black", "white", "red", "blue", "gray", "grey", "silver", "green",
	"yellow", "orange", "pink", "purple", "gold", "beige", "brown",
}

var colorAliases = map[string]string{"grey": "gray"}

var (
	portCountRe     = regexp.MustCompile(`\b(\d+)\s*-?\s*ports?\b`)
	portCountWithRe = regexp.MustCompile(`\bwith\s+(\d+)\s+ports?\b`)
	monitorCountRe  = regexp.MustCompile(`\b(\d+)\s*(?:monitors?|displays?)\b`)
)

var namedMonitorCounts = []struct {
	re    *regexp.Regexp
	count int
}{
	{regexp.MustCompile(`\b(?:dual|double|two)\b`), 2},
	{regexp.MustCompile(`\b(?:triple|three)\b`), 3},
	{regexp.MustCompile(`\b(?:quad|four)\b`), 4},
}

type portTypeEntry struct {
	portType string
	patterns []*regexp.Regexp
}

// Required port types for dock/hub queries ("dock with USB-C ports").
var requiredPortTypePatterns = []portTypeEntry{
	{"usb-c", compileAll(
		`\busb[\s\-]?c\s*ports?\b`,
		`\btype[\s\-]?c\s*ports?\b`,
		`\busb[\s\-]?c\b.*\b(?:ports?|connections?)\b`,
		`\b(?:ports?|connections?)\b.*\busb[\s\-]?c\b`,
		`\bwith\s+(?:a\s+)?(?:bunch|lots?|many|multiple|several)\s+(?:of\s+)?usb[\s\-]?c\b`,
	)},
	{"usb-a", compileAll(
		`\busb[\s\-]?a\s*ports?\b`,
		`\btype[\s\-]?a\s*ports?\b`,
		`\busb[\s\-]?a\b.*\b(?:ports?|connections?)\b`,
		`\b(?:ports?|connections?)\b.*\busb[\s\-]?a\b`,
		`\bwith\s+(?:a\s+)?(?:bunch|lots?|many|multiple|several)\s+(?:of\s+)?usb[\s\-]?a\b`,
	)},
	{"usb", compileAll(
		`\busb\s+ports?\b`,
		`\b(?:bunch|lots?|many|multiple|several)\s+(?:of\s+)?usb\s+ports?\b`,
	)},
	{"hdmi", compileAll(
		`\bhdmi\s*ports?\b`,
		`\bhdmi\b.*\b(?:ports?|outputs?|connections?)\b`,
	)},
	{"displayport", compileAll(
		`\b(?:displayport|display\s*port|dp)\s*ports?\b`,
		`\b(?:displayport|display\s*port)\b.*\b(?:ports?|outputs?)\b`,
	)},
	{"thunderbolt", compileAll(
		`\bthunderbolt\s*ports?\b`,
		`\bthunderbolt\b.*\b(?:ports?|connections?)\b`,
	)},
	{"ethernet", compileAll(
		`\bethernet\s*ports?\b`,
		`\brj[\s\-]?45\s*ports?\b`,
	)},
}

// Words after these phrases are excluded from keywords: "but not the long
// ones" must not make "long" a requirement.
var negationPatterns = compileAll(
	`\bbut\s+not\b`,
	`\bnot\s+the\b`,
	`\bexcept\b`,
	`\bwithout\b`,
	`\bno\s+\w+\s+(?:ones?|cables?|adapters?)\b`,
	`\bavoid\b`,
	`\bdon'?t\s+want\b`,
)

var (
	wordRe       = regexp.MustCompile(`[a-z0-9]+`)
	letterRe     = regexp.MustCompile(`[a-z]+`)
	clauseEndRe  = regexp.MustCompile(`[,.]`)
	bareLengthRe = regexp.MustCompile(`^\d+(?:ft|feet|foot|m|meter|meters|in|inch|inches|cm)$`)
	pureDigitsRe = regexp.MustCompile(`^\d+$`)
)

func compileAll(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(p)
	}
	return out
}

func matchesAny(text string, patterns []*regexp.Regexp) bool {
	for _, p := range patterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}
