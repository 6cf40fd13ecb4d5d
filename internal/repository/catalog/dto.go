package catalog

import (
	"encoding/binary"
	"math"
	"strconv"
	"strings"

	"github.com/mattsmit4/hardfind/internal/domain"
)

// Hash field names for catalog items. Unknown inventory columns (UHEIGHT,
// RACKTYPE, DRIVESIZE, ...) pass through into Item.Extra untouched.
const (
	fieldSKU           = "sku"
	fieldName          = "name"
	fieldContent       = "content"
	fieldCategory      = "category"
	fieldSubCategory   = "sub_category"
	fieldConnectorFrom = "connector_from"
	fieldConnectorTo   = "connector_to"
	fieldLengthM       = "length_m"
	fieldLengthDisplay = "length_display"
	fieldColor         = "color"
	fieldFeatures      = "features"
	fieldPorts         = "ports"
	fieldDisplays      = "displays"
	fieldMaxResolution = "max_resolution"
	fieldUHD4KSupport  = "uhd_4k_support"
	fieldPortTypes     = "conntype"
	fieldBusType       = "bus_type"
	fieldWarranty      = "warranty"
	fieldVector        = "vector"
)

// parseItemFields converts a flat hash map into a domain Item.
func parseItemFields(sku string, m map[string]string) domain.Item {
	it := domain.Item{SKU: sku}

	for k, v := range m {
		switch k {
		case fieldSKU:
			if v != "" {
				it.SKU = v
			}
		case fieldName:
			it.Name = v
		case fieldContent:
			it.Content = v
		case fieldCategory:
			it.Category = v
		case fieldSubCategory:
			it.SubCategory = v
		case fieldConnectorFrom:
			it.ConnectorFrom = v
		case fieldConnectorTo:
			it.ConnectorTo = v
		case fieldLengthM:
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				it.LengthM = f
			}
		case fieldLengthDisplay:
			it.LengthDisplay = v
		case fieldColor:
			it.Color = v
		case fieldFeatures:
			it.Features = splitFeatures(v)
		case fieldPorts:
			if n, err := strconv.Atoi(v); err == nil {
				it.Ports = n
			}
		case fieldDisplays:
			if n, err := strconv.Atoi(v); err == nil {
				it.Displays = n
			}
		case fieldMaxResolution:
			it.MaxResolution = v
		case fieldUHD4KSupport:
			it.UHD4KSupport = v
		case fieldPortTypes:
			it.PortTypes = v
		case fieldBusType:
			it.BusType = v
		case fieldWarranty:
			it.Warranty = v
		case fieldVector:
			// raw embedding bytes, not part of the domain record
		default:
			if it.Extra == nil {
				it.Extra = make(map[string]string)
			}
			it.Extra[k] = v
		}
	}

	return it
}

// buildHashFields converts a domain Item into a flat map for HSET. vec may be
// nil when no embedding is stored.
func buildHashFields(it *domain.Item, vec []float32) map[string]string {
	m := make(map[string]string, 18+len(it.Extra))
	m[fieldSKU] = it.SKU
	m[fieldName] = it.Name
	m[fieldContent] = it.Content
	m[fieldCategory] = it.Category

	setIf := func(k, v string) {
		if v != "" {
			m[k] = v
		}
	}
	setIf(fieldSubCategory, it.SubCategory)
	setIf(fieldConnectorFrom, it.ConnectorFrom)
	setIf(fieldConnectorTo, it.ConnectorTo)
	setIf(fieldLengthDisplay, it.LengthDisplay)
	setIf(fieldColor, it.Color)
	setIf(fieldMaxResolution, it.MaxResolution)
	setIf(fieldUHD4KSupport, it.UHD4KSupport)
	setIf(fieldPortTypes, it.PortTypes)
	setIf(fieldBusType, it.BusType)
	setIf(fieldWarranty, it.Warranty)

	if it.LengthM > 0 {
		m[fieldLengthM] = strconv.FormatFloat(it.LengthM, 'f', -1, 64)
	}
	if len(it.Features) > 0 {
		m[fieldFeatures] = strings.Join(it.Features, ",")
	}
	if it.Ports > 0 {
		m[fieldPorts] = strconv.Itoa(it.Ports)
	}
	if it.Displays > 0 {
		m[fieldDisplays] = strconv.Itoa(it.Displays)
	}

	for k, v := range it.Extra {
		if _, taken := m[k]; !taken {
			m[k] = v
		}
	}

	if vec != nil {
		m[fieldVector] = vectorToBytes(vec)
	}

	return m
}

func splitFeatures(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// vectorToBytes serializes []float32 to a binary string (4 bytes per float, little-endian).
func vectorToBytes(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}
