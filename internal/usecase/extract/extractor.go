// Package extract turns free-text customer queries into structured search
// constraints: lengths and preferences, connector pairs, features,
// categories, port counts, colors, and residual keywords. Pure regex and
// keyword tables, evaluated in fixed priority order.
package extract

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/mattsmit4/hardfind/internal/domain/constraint"
)

// stopWords never become search keywords.
var stopWords = toSet(
	"a", "an", "the", "and", "or", "but", "in", "on", "at", "to", "for",
	"of", "with", "by", "from", "is", "are", "was", "were", "be", "been",
	"being", "have", "has", "had", "do", "does", "did", "will", "would",
	"could", "should", "may", "might", "must", "can", "need", "want",
	"i", "me", "my", "you", "your", "we", "our", "they", "them", "their",
	"it", "its", "this", "that", "these", "those", "what", "which", "who",
	"how", "when", "where", "why", "all", "any", "some", "no", "not",
	"one", "ones", "thing", "things", "stuff", "type", "kind",
	"first", "second", "third", "fourth", "fifth",
	"1st", "2nd", "3rd", "4th", "5th",
	"last", "middle", "previous", "next", "other",
	"support", "supports", "supporting", "supported",
	"work", "works", "working",
	"compatible", "compatibility",
	"come", "comes", "coming",
	"except", "without", "avoid", "excluding",
	"looking", "find", "show", "get", "buy", "purchase", "order",
	"please", "thanks", "thank", "help", "like", "something",
	"just", "got", "new", "trying", "try", "hook", "right", "keeps",
	"keep", "keeping", "cutting", "cut", "out", "think", "thinking",
	"better", "best", "actually", "really", "very", "maybe", "around",
	"about", "also", "matter", "matters", "use", "using", "used",
	"isn", "doesn", "wasn", "aren", "won", "don", "didn", "hasn",
	"haven", "wouldn", "couldn", "shouldn",
	"sure", "guess", "probably", "seems", "seem", "well", "even",
	"still", "already", "yet", "ever", "never", "always", "sometimes",
	"home", "office", "room", "setup", "situation",
	"problem", "issue", "trouble", "handle", "handles", "handling",
	"picture", "image", "signal",
	"quality", "good", "bad", "great", "nice", "decent", "proper",
)

// alreadyExtracted are words captured by the dedicated extractors; repeating
// them as keywords would double-count facets.
var alreadyExtracted = toSet(
	"cable", "cables", "adapter", "adapters", "dock", "docking", "station",
	"hub", "hubs", "switch", "switches", "mount", "mounts", "enclosure",
	"enclosures", "splitter", "splitters", "converter", "converters",
	"usb", "hdmi", "displayport", "dp", "vga", "dvi", "thunderbolt",
	"port", "ports",
	"ft", "feet", "foot", "m", "meter", "meters", "inch", "inches",
	"black", "white", "gray", "grey", "red", "blue", "green", "yellow",
	"orange", "pink", "purple", "gold", "beige", "brown",
	"macbook", "imac", "ipad", "iphone", "mac", "apple", "pro", "air",
	"laptop", "computer", "desktop", "notebook", "pc",
	"playstation", "xbox", "nintendo", "ps5", "ps4",
)

// Extractor parses customer queries into constraint sets. Stateless; safe
// for concurrent use.
type Extractor struct {
	logger *zap.Logger
}

// NewExtractor creates a query extractor. logger may be nil.
func NewExtractor(logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{logger: logger}
}

// Extract parses one query into a constraint set.
func (e *Extractor) Extract(query string) (*constraint.Set, error) {
	lower := strings.ToLower(query)
	expanded := expandSynonyms(query)

	// Category first: it changes how connector mentions are read.
	category := extractCategory(lower)

	length := extractLength(lower)
	connectorFrom, connectorTo := extractConnectors(expanded)
	features := extractFeatures(lower)
	portCount := extractPortCount(lower)
	color := extractColor(lower)
	minMonitors := extractMinMonitors(expanded)

	// Multiport adapters have one input and many heterogeneous outputs, so
	// a destination connector is meaningless.
	if strings.Contains(lower, "multiport") || strings.Contains(lower, "multi-port") ||
		strings.Contains(lower, "multi port") {
		connectorTo = ""
	}

	// "USB hub": the connector word describes the hub type, not a cable
	// endpoint pair. Suppress unless the query has an explicit "X to Y".
	if nonCableCategories[category] && connectorFrom == connectorTo && connectorFrom != "" {
		if !explicitPairRe.MatchString(lower) {
			connectorFrom, connectorTo = "", ""
		}
	}

	keywords := extractKeywords(lower)
	portTypes := extractRequiredPortTypes(lower, category)

	set, err := constraint.New(
		length,
		connectorFrom, connectorTo, category,
		features,
		portCount, minMonitors,
		color,
		keywords, portTypes,
	)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("extracted constraints",
		zap.String("query", query),
		zap.String("category", category),
		zap.String("connector_from", connectorFrom),
		zap.String("connector_to", connectorTo),
		zap.Strings("features", features),
		zap.Strings("keywords", keywords))
	return set, nil
}

// extractLength finds the first length mention, numeric or spelled out, and
// the preference phrasing around it. Returns nil when the query names no
// length.
func extractLength(text string) *constraint.Length {
	value, unit, ok := firstLength(text)
	if !ok {
		return nil
	}
	l, err := constraint.NewLength(value, unit, extractLengthPreference(text))
	if err != nil {
		return nil
	}
	return &l
}

func firstLength(text string) (float64, constraint.Unit, bool) {
	if m := lengthRe.FindStringSubmatch(text); m != nil {
		value, err := strconv.ParseFloat(m[1], 64)
		if err == nil {
			unit, uerr := constraint.ParseUnit(m[2])
			if uerr == nil {
				return value, unit, true
			}
		}
	}
	if m := numberWordRe.FindStringSubmatch(text); m != nil {
		unit, err := constraint.ParseUnit(m[2])
		if err == nil {
			return numberWords[m[1]], unit, true
		}
	}
	return 0, "", false
}

func extractLengthPreference(text string) constraint.Preference {
	if matchesAny(text, shorterOKPatterns) {
		return constraint.ExactOrShorter
	}
	if matchesAny(text, flexiblePatterns) {
		return constraint.Closest
	}
	if matchesAny(text, longerOKPatterns) {
		return constraint.ExactOrLonger
	}
	return constraint.ExactOrLonger
}

// extractConnectors resolves connector mentions by priority: explicit
// "X to Y" pairs, then "<connector> cable", then bare mentions (which set
// both endpoints to the same connector).
func extractConnectors(expanded string) (string, string) {
	for _, pair := range connectorPairPatterns {
		if pair.re.MatchString(expanded) {
			return pair.from, pair.to
		}
	}
	for _, single := range singleConnectorPatterns {
		if single.re.MatchString(expanded) {
			return single.connector, single.connector
		}
	}
	for _, bare := range bareConnectorPatterns {
		if bare.re.MatchString(expanded) {
			return bare.connector, bare.connector
		}
	}
	return "", ""
}

func extractFeatures(text string) []string {
	var features []string
	for _, entry := range featureKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(text, kw) {
				features = append(features, entry.feature)
				break
			}
		}
	}
	return features
}

func extractCategory(text string) string {
	for _, entry := range categoryKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(text, kw) {
				return entry.category
			}
		}
	}
	return ""
}

func extractPortCount(text string) int {
	if m := portCountRe.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return n
		}
	}
	if m := portCountWithRe.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return n
		}
	}
	return 0
}

func extractMinMonitors(text string) int {
	for _, named := range namedMonitorCounts {
		if named.re.MatchString(text) {
			return named.count
		}
	}
	if m := monitorCountRe.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return n
		}
	}
	return 0
}

func extractColor(text string) string {
	for _, color := range colorKeywords {
		if wordBoundaryContains(text, color) {
			if canonical, ok := colorAliases[color]; ok {
				return canonical
			}
			return color
		}
	}
	return ""
}

// extractKeywords collects residual words not captured by the dedicated
// extractors, excluding stop words, bare numbers, length tokens, and
// anything inside a negated clause.
func extractKeywords(text string) []string {
	negated := negatedWords(text)

	var keywords []string
	seen := make(map[string]bool)
	for _, word := range wordRe.FindAllString(text, -1) {
		if len(word) < 3 || stopWords[word] || alreadyExtracted[word] {
			continue
		}
		if pureDigitsRe.MatchString(word) || bareLengthRe.MatchString(word) {
			continue
		}
		if negated[word] || seen[word] {
			continue
		}
		seen[word] = true
		keywords = append(keywords, word)
	}
	return keywords
}

// negatedWords collects every word between a negation phrase and the end of
// its clause.
func negatedWords(text string) map[string]bool {
	negated := make(map[string]bool)
	for _, pattern := range negationPatterns {
		for _, loc := range pattern.FindAllStringIndex(text, -1) {
			clause := text[loc[1]:]
			if end := clauseEndRe.FindStringIndex(clause); end != nil {
				clause = clause[:end[0]]
			}
			for _, w := range letterRe.FindAllString(clause, -1) {
				negated[w] = true
			}
		}
	}
	return negated
}

// extractRequiredPortTypes applies only to dock and hub queries; everywhere
// else a port mention is already covered by the port-count facet.
func extractRequiredPortTypes(text, category string) []string {
	if category != "docks" && category != "hubs" {
		return nil
	}
	var portTypes []string
	for _, entry := range requiredPortTypePatterns {
		if matchesAny(text, entry.patterns) {
			portTypes = append(portTypes, entry.portType)
		}
	}
	return portTypes
}

func wordBoundaryContains(text, word string) bool {
	idx := 0
	for {
		i := strings.Index(text[idx:], word)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(word)
		beforeOK := start == 0 || !isWordChar(text[start-1])
		afterOK := end == len(text) || !isWordChar(text[end])
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
}

func isWordChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '_'
}

func toSet(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}
