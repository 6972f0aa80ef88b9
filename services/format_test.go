package services

import "testing"

func TestFormatAUD_Values(t *testing.T) {
	tests := []struct {
		name   string
		input  float64
		expect string
	}{
		{"zero", 0, "$0.00"},
		{"small integer", 5, "$5.00"},
		{"with decimals", 42.50, "$42.50"},
		{"hundreds", 999.99, "$999.99"},
		{"thousands", 1234.56, "$1,234.56"},
		{"quote total", 46800, "$46,800.00"},
		{"grand total", 61776, "$61,776.00"},
		{"millions", 1234567.89, "$1,234,567.89"},
		{"rounds half up", 0.125, "$0.13"},
		{"rounds float noise", 5616.000000001, "$5,616.00"},
		{"negative", -250.5, "-$250.50"},
		{"negative thousands", -12345.678, "-$12,345.68"},
		{"exact thousands boundary", 1000, "$1,000.00"},
		{"exact million boundary", 1000000, "$1,000,000.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatAUD(tt.input)
			if got != tt.expect {
				t.Errorf("FormatAUD(%v) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

func TestApplyThousandsGrouping(t *testing.T) {
	tests := []struct {
		input  string
		expect string
	}{
		{"0", "0"},
		{"999", "999"},
		{"1000", "1,000"},
		{"12345", "12,345"},
		{"123456", "123,456"},
		{"1234567", "1,234,567"},
	}
	for _, tt := range tests {
		if got := applyThousandsGrouping(tt.input); got != tt.expect {
			t.Errorf("applyThousandsGrouping(%q) = %q, want %q", tt.input, got, tt.expect)
		}
	}
}

func TestFormatQty(t *testing.T) {
	tests := []struct {
		input  float64
		expect string
	}{
		{48, "48"},
		{240, "240"},
		{88.3, "88.30"},
		{0.5, "0.50"},
		{0, "0"},
	}
	for _, tt := range tests {
		if got := FormatQty(tt.input); got != tt.expect {
			t.Errorf("FormatQty(%v) = %q, want %q", tt.input, got, tt.expect)
		}
	}
}

func TestFormatPercent(t *testing.T) {
	tests := []struct {
		input  float64
		expect string
	}{
		{20, "20%"},
		{10, "10%"},
		{12.5, "12.5%"},
		{0, "0%"},
		{GSTRate * 100, "10%"},
	}
	for _, tt := range tests {
		if got := FormatPercent(tt.input); got != tt.expect {
			t.Errorf("FormatPercent(%v) = %q, want %q", tt.input, got, tt.expect)
		}
	}
}
