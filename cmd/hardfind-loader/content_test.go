package main

import (
	"strings"
	"testing"
)

func TestFormatLength(t *testing.T) {
	tests := []struct {
		meters float64
		want   string
	}{
		{1.8288, "6ft [1.8m]"},
		{1.8, "5.9ft [1.8m]"},
		{3.0, "9.8ft [3m]"},
		{0.15, "5.9in [15cm]"},
		{0.3, "11.8in [30cm]"},
	}

	for _, tt := range tests {
		if got := formatLength(tt.meters); got != tt.want {
			t.Errorf("formatLength(%v) = %q, want %q", tt.meters, got, tt.want)
		}
	}
}

func TestBuildContent(t *testing.T) {
	rec := record{
		"PRODUCT NUMBER": "HDMM2M",
		"MAXRESOLUTION":  "3840 x 2160",
		"CONNPLATING":    "Gold",
		"WARRANTY":       "2 Years",
	}
	it, ok := mapRow(rec)
	if !ok {
		t.Fatal("expected row to map")
	}
	it.Name = "6ft HDMI Cable"
	it.LengthM = 1.8288
	it.LengthDisplay = formatLength(it.LengthM)

	content := buildContent(&it, rec)
	lines := strings.Split(content, "\n")

	if lines[0] != "Product Number: HDMM2M" {
		t.Errorf("first line = %q", lines[0])
	}

	for _, want := range []string{
		"Product Name: 6ft HDMI Cable",
		"Cable Length: 6ft [1.8m]",
		"Maximum Analog Resolution: 3840 x 2160",
		"Connector Plating: Gold",
		"Warranty Period: 2 Years",
	} {
		if !strings.Contains(content, want+"\n") && !strings.HasSuffix(content, want) {
			t.Errorf("content missing line %q:\n%s", want, content)
		}
	}

	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			t.Errorf("blank line at %d", i)
		}
	}
}

func TestBuildContent_SkipsEmptyFields(t *testing.T) {
	rec := record{"PRODUCT NUMBER": "SKU1"}
	it, _ := mapRow(rec)

	content := buildContent(&it, rec)
	if content != "Product Number: SKU1" {
		t.Errorf("content = %q, want only the SKU line", content)
	}
}
