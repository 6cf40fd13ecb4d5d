package chi

import (
	"fmt"

	"github.com/mattsmit4/hardfind/internal/domain"
	"github.com/mattsmit4/hardfind/internal/domain/constraint"
	"github.com/mattsmit4/hardfind/internal/domain/relax"
	"github.com/mattsmit4/hardfind/internal/domain/searchres"
)

// SearchRequest is the POST /api/v1/search body. Either Query (free text,
// extracted in-service) or Constraints (pre-extracted) must be present;
// Constraints wins when both are set. Limit optionally trims the response
// below the engine's configured maximum; it never extends it.
type SearchRequest struct {
	Query       string         `json:"query,omitempty"`
	Constraints *ConstraintDTO `json:"constraints,omitempty"`
	Limit       int            `json:"limit,omitempty"`
}

// ConstraintDTO is the wire form of a pre-extracted constraint set.
type ConstraintDTO struct {
	Length        *LengthDTO `json:"length,omitempty"`
	ConnectorFrom string     `json:"connector_from,omitempty"`
	ConnectorTo   string     `json:"connector_to,omitempty"`
	Category      string     `json:"category,omitempty"`
	Features      []string   `json:"features,omitempty"`
	PortCount     int        `json:"port_count,omitempty"`
	MinMonitors   int        `json:"min_monitors,omitempty"`
	Color         string     `json:"color,omitempty"`
	Keywords      []string   `json:"keywords,omitempty"`
	PortTypes     []string   `json:"port_types,omitempty"`
}

// LengthDTO carries a requested length. Unit defaults to feet, preference to
// exact-or-longer. A non-positive value is treated as no length constraint.
type LengthDTO struct {
	Value      float64 `json:"value"`
	Unit       string  `json:"unit,omitempty"`
	Preference string  `json:"preference,omitempty"`
}

func (d *ConstraintDTO) toDomain() (*constraint.Set, error) {
	var length *constraint.Length
	if d.Length != nil && d.Length.Value > 0 {
		unit := constraint.DefaultUnit
		if d.Length.Unit != "" {
			u, err := constraint.ParseUnit(d.Length.Unit)
			if err != nil {
				return nil, err
			}
			unit = u
		}
		l, err := constraint.NewLength(d.Length.Value, unit, constraint.Preference(d.Length.Preference))
		if err != nil {
			return nil, err
		}
		length = &l
	}
	return constraint.New(
		length,
		d.ConnectorFrom, d.ConnectorTo, d.Category,
		d.Features,
		d.PortCount, d.MinMonitors,
		d.Color,
		d.Keywords, d.PortTypes,
	)
}

// SearchResponse is the result envelope as served over HTTP.
type SearchResponse struct {
	Items               []SearchResultItem        `json:"items"`
	Tier                string                    `json:"tier"`
	FiltersUsed         FiltersDTO                `json:"filters_used"`
	DroppedConstraints  []relax.DroppedConstraint `json:"dropped_constraints"`
	CategorySubstituted bool                      `json:"category_substituted"`
	CandidateCount      int                       `json:"candidate_count"`
}

// SearchResultItem is one ranked hit with its salient attributes.
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

// FiltersDTO is the facet subset a tier actually applied.
type FiltersDTO struct {
	Category      string   `json:"category,omitempty"`
	ConnectorFrom string   `json:"connector_from,omitempty"`
	ConnectorTo   string   `json:"connector_to,omitempty"`
	Length        string   `json:"length,omitempty"`
	Features      []string `json:"features,omitempty"`
	PortCount     int      `json:"port_count,omitempty"`
	Color         string   `json:"color,omitempty"`
	Keywords      []string `json:"keywords,omitempty"`
}

// ItemDTO is the full catalog record served by GET /api/v1/items/{sku}.
type ItemDTO struct {
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

// HealthResponse is the GET /health body.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// ErrorResponse is the uniform error body. Suggestions is populated only for
// ambiguous SKU lookups.
type ErrorResponse struct {
	Code        errorCode `json:"code"`
	Message     string    `json:"message"`
	Suggestions []string  `json:"suggestions,omitempty"`
}

func searchResponseFrom(env *searchres.Envelope, limit int) SearchResponse {
	ranked := env.Items()
	if limit > 0 && limit < len(ranked) {
		ranked = ranked[:limit]
	}
	items := make([]SearchResultItem, len(ranked))
	for i, rk := range ranked {
		items[i] = resultItemFrom(rk)
	}
	dropped := env.Dropped()
	if dropped == nil {
		dropped = []relax.DroppedConstraint{}
	}
	return SearchResponse{
		Items:               items,
		Tier:                string(env.Tier()),
		FiltersUsed:         filtersFrom(env.FiltersUsed()),
		DroppedConstraints:  dropped,
		CategorySubstituted: env.CategorySwapped(),
		CandidateCount:      env.CandidateCount(),
	}
}

func resultItemFrom(rk searchres.Ranked) SearchResultItem {
	it := rk.Item
	return SearchResultItem{
		SKU:           it.SKU,
		Name:          it.Name,
		Score:         rk.Relevance,
		MatchQuality:  rk.Quality,
		Category:      it.Category,
		ConnectorFrom: it.ConnectorFrom,
		ConnectorTo:   it.ConnectorTo,
		Length:        lengthLabel(&it),
		Color:         it.Color,
		Features:      it.Features,
		Ports:         it.Ports,
		Displays:      it.Displays,
	}
}

func lengthLabel(it *domain.Item) string {
	if it.LengthDisplay != "" {
		return it.LengthDisplay
	}
	if it.HasLength() {
		return fmt.Sprintf("%gm", it.LengthM)
	}
	return ""
}

func filtersFrom(fs relax.FilterSet) FiltersDTO {
	var length string
	if fs.Length != nil {
		length = fs.Length.String()
	}
	return FiltersDTO{
		Category:      fs.Category,
		ConnectorFrom: fs.ConnectorFrom,
		ConnectorTo:   fs.ConnectorTo,
		Length:        length,
		Features:      fs.Features,
		PortCount:     fs.PortCount,
		Color:         fs.Color,
		Keywords:      fs.Keywords,
	}
}

func itemDTOFrom(it *domain.Item) ItemDTO {
	return ItemDTO{
		SKU:           it.SKU,
		Name:          it.Name,
		Category:      it.Category,
		SubCategory:   it.SubCategory,
		ConnectorFrom: it.ConnectorFrom,
		ConnectorTo:   it.ConnectorTo,
		LengthM:       it.LengthM,
		LengthDisplay: it.LengthDisplay,
		Color:         it.Color,
		Features:      it.Features,
		Ports:         it.Ports,
		Displays:      it.Displays,
		MaxResolution: it.MaxResolution,
		UHD4KSupport:  it.UHD4KSupport,
		PortTypes:     it.PortTypes,
		BusType:       it.BusType,
		Warranty:      it.Warranty,
		Extra:         it.Extra,
	}
}
