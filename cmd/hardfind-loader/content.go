// Content text rendering: one "Label: value" line per populated attribute.
// The rendered text is what gets embedded and what BM25 keyword recall
// searches, so labels use customer-facing wording rather than column names.
package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/mattsmit4/hardfind/internal/domain"
)

// contentFields lists the raw sheet columns rendered into the content text,
// in display order. Merged and derived attributes (length, ports, material)
// are rendered from the mapped item instead.
var contentFields = []struct{ col, label string }{
	{"CONNTYPE", "Connector Type"},
	{"EXTERNALPORTS", "External Ports"},
	{"HOSTCONNECTOR", "Host Connectors"},
	{"MAXDATARATE", "Max Data Transfer Rate"},
	{"MAXRESOLUTION", "Maximum Analog Resolution"},
	{"MAXDVIRESOLUTION", "Maximum Digital Resolution"},
	{"SUPRESOLUTIONS", "Supported Resolutions"},
	{"DOCK4KSUPPORT", "4K Display Support"},
	{"POWERDELIVERY", "Power Delivery"},
	{"DOCKFASTCHARGE", "Fast Charge Ports"},
	{"BUSTYPE", "Bus Type"},
	{"USBTYPE", "Type and Rate"},
	{"PLUGTYPE", "Plug Type"},
	{"STANDARDS", "Industry Standards"},
	{"OSCOMPATIBILITY", "OS Compatibility"},
	{"CONNPLATING", "Connector Plating"},
	{"JACKETTYPE", "Cable Jacket Material"},
	{"SHIELDTYPE", "Cable Shield Material"},
	{"WIREGUAGE", "Wire Gauge"},
	{"NWCABLETYPE", "Cable Type"},
	{"FIRERATING", "Fire Rating"},
	{"FIBERDUPLEX", "Fiber Duplex"},
	{"FIBERTYPE", "Fiber Type"},
	{"WAVELENGTH", "Wavelength"},
	{"WIRELESS", "Wireless Capability"},
	{"POWERADAPTER", "Power Source"},
	{"POWERCONSUMPTION", "Power Consumption (Watts)"},
	{"OUTPUTVOLTS", "Output Voltage"},
	{"KVMAUDIO", "Audio"},
	{"UASP_YN", "UASP Support"},
	{"WAKEONLAN", "Wake On Lan"},
	{"LED", "LED Indicators"},
	{"CHIPID", "Chipset ID"},
	{"K_LOCK_SLOT", "Compatible Lock Slot"},
	{"UHEIGHT", "U Height"},
	{"VESAPATTERN", "VESA Hole Patterns"},
	{"DRIVESIZE", "Drive Size"},
	{"MEDIATYPE", "Memory Media Type"},
	{"HARDDRIVECOM", "Compatible Drive Types"},
	{"MTBF", "MTBF (Mean Time Between Failures)"},
	{"PACKQTY", "Package Quantity"},
	{"ZCONTENTITEM", "Included in Package"},
	{"WARRANTY", "Warranty Period"},
}

// buildContent renders the indexable text for one item.
func buildContent(it *domain.Item, rec record) string {
	var b strings.Builder
	line := func(label, val string) {
		if val != "" {
			b.WriteString(label)
			b.WriteString(": ")
			b.WriteString(val)
			b.WriteString("\n")
		}
	}

	line("Product Number", it.SKU)
	line("Product Name", it.Name)
	line("Product Category", it.Category)
	line("Product Subcategory", it.SubCategory)
	line("Connector A", it.ConnectorFrom)
	line("Connector B", it.ConnectorTo)
	if it.HasLength() {
		line("Cable Length", it.LengthDisplay)
	}
	line("Color", it.Color)
	line("Material", it.Extra["material"])
	if it.Ports > 0 {
		line("Ports", fmt.Sprintf("%d", it.Ports))
	}
	if it.Displays > 0 {
		line("Number of Displays", fmt.Sprintf("%d", it.Displays))
	}
	line("Interface", it.Extra["interface"])
	line("Mounting Options", it.Extra["mounting_options"])
	line("Max Distance", it.Extra["max_distance"])
	line("Ethernet Speed", it.Extra["ethernet_speed"])

	for _, f := range contentFields {
		line(f.label, rec.get(f.col))
	}

	return strings.TrimRight(b.String(), "\n")
}

// formatLength renders a metric length the way the product pages do: short
// runs in inches with centimeters bracketed, everything else in feet with
// meters bracketed ("6ft [1.8m]").
func formatLength(meters float64) string {
	if meters <= 0.3 {
		inches := meters / 0.0254
		cm := meters * 100
		return fmt.Sprintf("%sin [%dcm]", fmtNum(inches), int(math.Round(cm)))
	}
	feet := roundTo(meters/0.3048, 1)
	m := roundTo(meters, 1)
	return fmt.Sprintf("%sft [%sm]", fmtNum(feet), fmtNum(m))
}

// fmtNum renders with one decimal, dropping a trailing ".0".
func fmtNum(n float64) string {
	s := fmt.Sprintf("%.1f", n)
	return strings.TrimSuffix(s, ".0")
}

func roundTo(n float64, decimals int) float64 {
	p := math.Pow10(decimals)
	return math.Round(n*p) / p
}
