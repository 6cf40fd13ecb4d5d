package constraint

import (
	"strings"
)

// Set is the full constraint set extracted from one query. Immutable after
// construction; the relaxation tiers derive weaker filter sets from it but
// never mutate it.
type Set struct {
	length        *Length
	connectorFrom string
	connectorTo   string
	category      string
	features      []string
	portCount     int
	minMonitors   int
	color         string
	keywords      []string
	portTypes     []string
}

// New creates a constraint set. String facets are trimmed and lowercased,
// list facets are de-duplicated preserving first-seen order, and negative
// counts are treated as unspecified. Malformed facets degrade to unset
// rather than erroring; a request with a nonsense count should still search.
func New(
	length *Length,
	connectorFrom, connectorTo, category string,
	features []string,
	portCount, minMonitors int,
	color string,
	keywords, portTypes []string,
) (*Set, error) {
	if portCount < 0 {
		portCount = 0
	}
	if minMonitors < 0 {
		minMonitors = 0
	}

	return &Set{
		length:        length,
		connectorFrom: norm(connectorFrom),
		connectorTo:   norm(connectorTo),
		category:      norm(category),
		features:      normList(features),
		portCount:     portCount,
		minMonitors:   minMonitors,
		color:         norm(color),
		keywords:      normList(keywords),
		portTypes:     normList(portTypes),
	}, nil
}

func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func normList(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		n := norm(v)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

// Length returns the length constraint, or nil when none was requested.
func (s *Set) Length() *Length { return s.length }

// ConnectorFrom returns the source-side connector, empty when unset.
func (s *Set) ConnectorFrom() string { return s.connectorFrom }

// ConnectorTo returns the destination-side connector, empty when unset.
func (s *Set) ConnectorTo() string { return s.connectorTo }

// Category returns the product category, empty when unset.
func (s *Set) Category() string { return s.category }

// Features returns a copy of the requested feature tokens.
func (s *Set) Features() []string { return copyList(s.features) }

// PortCount returns the requested port count, zero when unset.
func (s *Set) PortCount() int { return s.portCount }

// MinMonitors returns the minimum display count, zero when unset.
func (s *Set) MinMonitors() int { return s.minMonitors }

// Color returns the requested color, empty when unset.
func (s *Set) Color() string { return s.color }

// Keywords returns a copy of the residual keyword tokens.
func (s *Set) Keywords() []string { return copyList(s.keywords) }

// PortTypes returns a copy of the required port types (docks and hubs only).
func (s *Set) PortTypes() []string { return copyList(s.portTypes) }

// HasConnector reports whether either connector side is set.
func (s *Set) HasConnector() bool { return s.connectorFrom != "" || s.connectorTo != "" }

// IsEmpty reports whether no facet at all was extracted.
func (s *Set) IsEmpty() bool {
	return s.length == nil &&
		s.connectorFrom == "" && s.connectorTo == "" &&
		s.category == "" && s.color == "" &&
		len(s.features) == 0 && len(s.keywords) == 0 && len(s.portTypes) == 0 &&
		s.portCount == 0 && s.minMonitors == 0
}

func copyList(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
