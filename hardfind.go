// Package hardfind re-exports the HTTP client surface so consumers can
// depend on the module root:
//
//	import "github.com/mattsmit4/hardfind"
//
//	c, err := hardfind.New("http://localhost:8080", hardfind.WithAPIKey("..."))
//	resp, err := c.Search(ctx, hardfind.SearchRequest{Query: "6ft hdmi cable"})
//
// The implementation lives in pkg/client.
package hardfind

import "github.com/mattsmit4/hardfind/pkg/client"

// Client surface.
type (
	Client = client.Client
	Option = client.Option

	SearchRequest     = client.SearchRequest
	SearchResponse    = client.SearchResponse
	SearchResultItem  = client.SearchResultItem
	ConstraintSet     = client.ConstraintSet
	Length            = client.Length
	Filters           = client.Filters
	DroppedConstraint = client.DroppedConstraint
	Item              = client.Item
	HealthReport      = client.HealthReport
	APIError          = client.APIError
)

// New creates a client for the server at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	return client.New(baseURL, opts...)
}

// Options.
var (
	WithAPIKey     = client.WithAPIKey
	WithHTTPClient = client.WithHTTPClient
	WithTimeout    = client.WithTimeout
	WithUserAgent  = client.WithUserAgent
)

// Sentinel errors. Check with errors.Is.
var (
	ErrItemNotFound   = client.ErrItemNotFound
	ErrInvalidQuery   = client.ErrInvalidQuery
	ErrInvalidFilters = client.ErrInvalidFilters
	ErrUnauthorized   = client.ErrUnauthorized
	ErrUnavailable    = client.ErrUnavailable
)
