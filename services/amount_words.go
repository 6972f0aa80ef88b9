package services

import (
	"strings"

	"github.com/shopspring/decimal"
)

// AmountToWords spells an amount in Australian dollars.
// Example: 61776.00 → "Sixty One Thousand Seven Hundred and Seventy Six Dollars Only"
func AmountToWords(amount float64) string {
	if amount < 0 {
		return "Negative " + AmountToWords(-amount)
	}

	cents := decimal.NewFromFloat(amount).Round(2).Shift(2).IntPart()
	dollars, rem := cents/100, cents%100

	words := "Zero"
	if dollars > 0 {
		words = numberToWords(dollars)
	}
	result := words + " " + plural(dollars, "Dollar", "Dollars")
	if rem > 0 {
		result += " and " + convertUnder100(rem) + " " + plural(rem, "Cent", "Cents")
	}
	return result + " Only"
}

var scales = []struct {
	value int64
	name  string
}{
	{1_000_000_000, "Billion"},
	{1_000_000, "Million"},
	{1_000, "Thousand"},
}

func numberToWords(n int64) string {
	var parts []string

	for _, s := range scales {
		if n >= s.value {
			parts = append(parts, hundredsToWords(n/s.value)+" "+s.name)
			n %= s.value
		}
	}

	if n >= 100 {
		parts = append(parts, ones[n/100]+" Hundred")
		n %= 100
	}

	if n > 0 {
		if len(parts) > 0 {
			parts = append(parts, "and "+convertUnder100(n))
		} else {
			parts = append(parts, convertUnder100(n))
		}
	}

	return strings.Join(parts, " ")
}

// hundredsToWords spells 1..999.
func hundredsToWords(n int64) string {
	if n < 100 {
		return convertUnder100(n)
	}
	s := ones[n/100] + " Hundred"
	if n%100 != 0 {
		s += " and " + convertUnder100(n%100)
	}
	return s
}

func convertUnder100(n int64) string {
	if n < 20 {
		return ones[n]
	}
	result := tens[n/10]
	if n%10 != 0 {
		result += " " + ones[n%10]
	}
	return result
}

func plural(n int64, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

var ones = []string{
	"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
	"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen",
	"Seventeen", "Eighteen", "Nineteen",
}

var tens = []string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety",
}
