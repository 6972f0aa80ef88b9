package services

import "testing"

func TestAmountToWords(t *testing.T) {
	tests := []struct {
		name   string
		input  float64
		expect string
	}{
		{"zero", 0, "Zero Dollars Only"},
		{"one dollar", 1, "One Dollar Only"},
		{"teens", 15, "Fifteen Dollars Only"},
		{"hundreds with and", 120, "One Hundred and Twenty Dollars Only"},
		{"grand total", 61776, "Sixty One Thousand Seven Hundred and Seventy Six Dollars Only"},
		{"hundreds of thousands", 250000, "Two Hundred and Fifty Thousand Dollars Only"},
		{"million and units", 1000005, "One Million and Five Dollars Only"},
		{"with cents", 100.5, "One Hundred Dollars and Fifty Cents Only"},
		{"one cent", 0.01, "Zero Dollars and One Cent Only"},
		{"rounds to cents", 9.999, "Ten Dollars Only"},
		{"negative", -40, "Negative Forty Dollars Only"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AmountToWords(tt.input); got != tt.expect {
				t.Errorf("AmountToWords(%v) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}
