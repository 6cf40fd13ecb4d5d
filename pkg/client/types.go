package client

// SearchRequest is the POST /api/v1/search body. Either Query (free text) or
// Constraints (pre-extracted) must be set; Constraints wins when both are.
// Limit optionally trims the response below the server's configured maximum.
type SearchRequest struct {
	Query       string         `json:"query,omitempty"`
	Constraints *ConstraintSet `json:"constraints,omitempty"`
	Limit       int            `json:"limit,omitempty"`
}

// ConstraintSet carries a pre-extracted constraint set.
type ConstraintSet struct {
	Length        *Length  `json:"length,omitempty"`
	ConnectorFrom string   `json:"connector_from,omitempty"`
	ConnectorTo   string   `json:"connector_to,omitempty"`
	Category      string   `json:"category,omitempty"`
	Features      []string `json:"features,omitempty"`
	PortCount     int      `json:"port_count,omitempty"`
	MinMonitors   int      `json:"min_monitors,omitempty"`
	Color         string   `json:"color,omitempty"`
	Keywords      []string `json:"keywords,omitempty"`
	PortTypes     []string `json:"port_types,omitempty"`
}

// Length is a requested length. Unit defaults server-side to feet, preference
// to exact-or-longer.
type Length struct {
	Value      float64 `json:"value"`
	Unit       string  `json:"unit,omitempty"`
	Preference string  `json:"preference,omitempty"`
}

// SearchResponse is the ranked result envelope.
type SearchResponse struct {
	Items               []SearchResultItem  `json:"items"`
	Tier                string              `json:"tier"`
	FiltersUsed         Filters             `json:"filters_used"`
	DroppedConstraints  []DroppedConstraint `json:"dropped_constraints"`
	CategorySubstituted bool                `json:"category_substituted"`
	CandidateCount      int                 `json:"candidate_count"`
}

// SearchResultItem is one ranked hit.
type SearchResultItem struct {
	SKU           string   `json:"sku"`
	Name          string   `json:"name"`
	Score         int      `json:"score"`
	MatchQuality  string   `json:"match_quality"`
	Category      string   `json:"category,omitempty"`
	ConnectorFrom string   `json:"connector_from,omitempty"`
	ConnectorTo   string   `json:"connector_to,omitempty"`
	Length        string   `json:"length,omitempty"`
	Color         string   `json:"color,omitempty"`
	Features      []string `json:"features,omitempty"`
	Ports         int      `json:"ports,omitempty"`
	Displays      int      `json:"displays,omitempty"`
}

// Filters is the facet subset the serving tier actually applied.
type Filters struct {
	Category      string   `json:"category,omitempty"`
	ConnectorFrom string   `json:"connector_from,omitempty"`
	ConnectorTo   string   `json:"connector_to,omitempty"`
	Length        string   `json:"length,omitempty"`
	Features      []string `json:"features,omitempty"`
	PortCount     int      `json:"port_count,omitempty"`
	Color         string   `json:"color,omitempty"`
	Keywords      []string `json:"keywords,omitempty"`
}

// DroppedConstraint records one facet the server relaxed on the way to the
// serving tier.
type DroppedConstraint struct {
	Facet        string   `json:"facet"`
	Requested    string   `json:"requested"`
	Reason       string   `json:"reason"`
	Alternatives []string `json:"alternatives,omitempty"`
}

// Item is the full catalog record from GET /api/v1/items/{sku}.
type Item struct {
	SKU           string            `json:"sku"`
	Name          string            `json:"name"`
	Category      string            `json:"category,omitempty"`
	SubCategory   string            `json:"sub_category,omitempty"`
	ConnectorFrom string            `json:"connector_from,omitempty"`
	ConnectorTo   string            `json:"connector_to,omitempty"`
	LengthM       float64           `json:"length_m,omitempty"`
	LengthDisplay string            `json:"length_display,omitempty"`
	Color         string            `json:"color,omitempty"`
	Features      []string          `json:"features,omitempty"`
	Ports         int               `json:"ports,omitempty"`
	Displays      int               `json:"displays,omitempty"`
	MaxResolution string            `json:"max_resolution,omitempty"`
	UHD4KSupport  string            `json:"uhd_4k_support,omitempty"`
	PortTypes     string            `json:"port_types,omitempty"`
	BusType       string            `json:"bus_type,omitempty"`
	Warranty      string            `json:"warranty,omitempty"`
	Extra         map[string]string `json:"extra,omitempty"`
}

// HealthReport is the GET /health body.
type HealthReport struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
