// Product sheet row mapping: raw column values -> domain.Item.
//
// The source sheets carry one column per inventory attribute, with several
// generations of column names for the same concept (TOTALPORTS vs NUMBERPORTS,
// MOUNTOPTIONS vs KVMRACKMOUNT). Merging rules follow the sheet conventions:
// first non-empty column wins, numeric attributes take the max across aliases.
package main

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/mattsmit4/hardfind/internal/domain"
)

// record is a single sheet row keyed by normalized (upper-cased, trimmed)
// column name.
type record map[string]string

func (r record) get(cols ...string) string {
	for _, c := range cols {
		if v := strings.TrimSpace(r[c]); v != "" {
			return v
		}
	}
	return ""
}

var numberRE = regexp.MustCompile(`[-+]?\d{1,3}(?:,\d{3})*(?:\.\d+)?|[-+]?\d+(?:\.\d+)?`)

// firstNumber extracts the first numeric token from free text ("4 Ports",
// "10,000 hours"). Thousands separators are stripped.
func firstNumber(s string) (float64, bool) {
	m := numberRE.FindString(s)
	if m == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(m, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// maxInt takes the largest numeric value across alias columns; zero when none
// of them parse.
func (r record) maxInt(cols ...string) int {
	best := 0
	for _, c := range cols {
		if f, ok := firstNumber(r[c]); ok && int(f) > best {
			best = int(f)
		}
	}
	return best
}

// Length unit sniffing. Sheets store raw lengths in millimeters, but vendor
// columns occasionally spell the unit out ("6 ft", "0.5 m", "18 inches").
var (
	mRE  = regexp.MustCompile(`(?i)\b(m|meter|meters|metre|metres)\b`)
	inRE = regexp.MustCompile(`(?i)\b(in|inch|inches)\b`)
	ftRE = regexp.MustCompile(`(?i)\b(ft|foot|feet)\b`)
	cmRE = regexp.MustCompile(`(?i)\b(cm|centimeter|centimetre|centimeters|centimetres)\b`)
)

// parseLengthMeters converts a raw length cell to meters. A bare number is
// taken as millimeters.
func parseLengthMeters(s string) (float64, bool) {
	n, ok := firstNumber(s)
	if !ok || n <= 0 {
		return 0, false
	}
	switch {
	case mRE.MatchString(s):
		return n, true
	case inRE.MatchString(s):
		return n * 0.0254, true
	case ftRE.MatchString(s):
		return n * 0.3048, true
	case cmRE.MatchString(s):
		return n * 0.01, true
	default:
		return n / 1000.0, true
	}
}

// Per-connector port counting over free-text connector descriptions
// ("USB-C (x2); HDMI", "2x USB 3.0 Type-A").
var portPatterns = map[string]*regexp.Regexp{
	"usb_c_ports": regexp.MustCompile(`(?i)\b(usb[\s\-]?c|type[\s\-]?c)\b`),
	"usb_a_ports": regexp.MustCompile(`(?i)\b(usb[\s\-]?a|type[\s\-]?a)\b`),
	"hdmi_ports":  regexp.MustCompile(`(?i)\bhdmi\b`),
	"dp_ports":    regexp.MustCompile(`(?i)\b(display\s*port|displayport|dp)\b`),
	"vga_ports":   regexp.MustCompile(`(?i)\bvga\b`),
}

var multPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\(\s*x\s*(\d+)\s*\)`), // (x2)
	regexp.MustCompile(`×\s*(\d+)`),               // ×2
	regexp.MustCompile(`(?i)\b(\d+)\s*x\b`),       // 2x
}

var segmentRE = regexp.MustCompile(`[;,\n/]`)
var leadingCountRE = regexp.MustCompile(`(?i)(\d+)\s*(?:ports?|x)?\b`)

// countPorts counts connector occurrences in text for one connector family.
// Each segment matching the family contributes its explicit multiplier, a
// leading count, or 1.
func countPorts(text string, family *regexp.Regexp) int {
	if strings.TrimSpace(text) == "" {
		return 0
	}
	total := 0
	for _, seg := range segmentRE.Split(text, -1) {
		if !family.MatchString(seg) {
			continue
		}
		mult := 0
		for _, pat := range multPatterns {
			if m := pat.FindStringSubmatch(seg); m != nil {
				if n, err := strconv.Atoi(m[1]); err == nil && n > mult {
					mult = n
				}
			}
		}
		if mult > 0 {
			total += mult
			continue
		}
		if m := leadingCountRE.FindStringSubmatch(seg); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				total += n
				continue
			}
		}
		total++
	}
	return total
}

var materialSplitRE = regexp.MustCompile(`(?i)\s+and\s+|\s+or\s+|[/,&+\[\]]`)

// materialTokens splits a material cell ("Aluminum and Plastic",
// "Steel/Plastic") into normalized tags.
func materialTokens(s string) []string {
	if s == "" {
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	for _, part := range materialSplitRE.Split(strings.ToLower(s), -1) {
		t := strings.TrimSpace(part)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

func norm(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// mapRow converts a normalized sheet record into a catalog item. Returns
// false when the row has no SKU.
func mapRow(rec record) (domain.Item, bool) {
	sku := strings.ToUpper(rec.get("PRODUCT NUMBER"))
	if sku == "" {
		return domain.Item{}, false
	}

	it := domain.Item{
		SKU:           sku,
		Name:          rec.get("PRODUCT NAME", "ZPRODUCTNAME", "NAME"),
		Category:      norm(rec.get("CATEGORY")),
		SubCategory:   norm(rec.get("SUB CATEGORY", "SUBCATEGORY")),
		ConnectorFrom: norm(rec.get("INTERFACEA")),
		ConnectorTo:   norm(rec.get("INTERFACEB")),
		Color:         norm(rec.get("COLOR")),
		MaxResolution: rec.get("MAXRESOLUTION", "MAXDVIRESOLUTION"),
		UHD4KSupport:  rec.get("DOCK4KSUPPORT"),
		BusType:       rec.get("BUSTYPE"),
		Warranty:      rec.get("WARRANTY"),
	}

	if m, ok := parseLengthMeters(rec.get("CABLELENGTH")); ok {
		it.LengthM = m
		it.LengthDisplay = formatLength(m)
	}

	it.Ports = rec.maxInt("TOTALPORTS", "NUMBERPORTS", "KVMPORTS")
	it.Displays = rec.maxInt("DOCKNUMDISPLAYS", "NUMOFDISPLAY")

	// Connector free text backs both the port-type post-filter and the
	// derived per-connector counts.
	connText := joinNonEmpty("; ",
		rec.get("CONNTYPE"), rec.get("EXTERNALPORTS"), rec.get("HOSTCONNECTOR"))
	it.PortTypes = connText

	it.Features = buildFeatures(rec)
	it.Extra = buildExtra(rec, connText)

	return it, true
}

// buildFeatures derives the feature tags: material tokens plus capability
// flags the cascade matches on.
func buildFeatures(rec record) []string {
	feats := materialTokens(rec.get("ENCLOSURETYPE", "CONSTMATERIAL", "AMZ_MAT"))

	if v := norm(rec.get("POWERDELIVERY")); v != "" && v != "no" && v != "none" {
		feats = append(feats, "power delivery")
	}
	if v := norm(rec.get("DOCK4KSUPPORT")); strings.Contains(v, "yes") || v == "1" || v == "true" {
		feats = append(feats, "4k")
	}
	return feats
}

// buildExtra collects the merged attribute columns and derived port counts.
// Keys land in the item hash as-is, so they stay lower snake case.
func buildExtra(rec record, connText string) map[string]string {
	extra := make(map[string]string)
	put := func(key, val string) {
		if val != "" {
			extra[key] = val
		}
	}

	put("material", rec.get("ENCLOSURETYPE", "CONSTMATERIAL", "AMZ_MAT"))
	put("interface", rec.get("IOINTERFACE", "KVMINTERFACE"))
	put("mounting_options", rec.get("MOUNTOPTIONS", "KVMRACKMOUNT", "RACKSPECFEAT"))
	put("max_distance", rec.get("MAXTRANLENGTH", "MAXDISTANCE"))
	put("ethernet_speed", rec.get("NETWORKSPEED", "DUPESPEED"))

	for key, family := range portPatterns {
		if n := countPorts(connText, family); n > 0 {
			extra[key] = strconv.Itoa(n)
		}
	}

	if len(extra) == 0 {
		return nil
	}
	return extra
}

func joinNonEmpty(sep string, parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
