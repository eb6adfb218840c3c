package util

import "testing"

func TestParsePrice(t *testing.T) {
	cases := []struct {
		name   string
		input  string
		want   string
		symbol string
	}{
		{name: "dollars", input: "$12.99", want: "12.99", symbol: "$"},
		{name: "surrounding space", input: "  $3.00\n", want: "3", symbol: "$"},
		{name: "thousand comma", input: "$1,299.00", want: "1299", symbol: "$"},
		{name: "european", input: "€1.234,50", want: "1234.5", symbol: "€"},
		{name: "decimal comma", input: "12,99 €", want: "12.99", symbol: "€"},
		{name: "suffix letters", input: "1 299,00 kr", want: "1299", symbol: "kr"},
		{name: "iso code", input: "USD 7.50", want: "7.5", symbol: "USD"},
		{name: "leading separator", input: "$.99", want: "0.99", symbol: "$"},
		{name: "negative", input: "-$4.00", want: "-4", symbol: "$"},
		{name: "nbsp", input: "$\u00a05.25", want: "5.25", symbol: "$"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParsePrice(tc.input)
			if got.Amount.String() != tc.want {
				t.Fatalf("got %v want %v", got.Amount.String(), tc.want)
			}
			if got.Symbol != tc.symbol {
				t.Fatalf("symbol got %q want %q", got.Symbol, tc.symbol)
			}
		})
	}
}

func TestParsePriceFallsBackToZero(t *testing.T) {
	for _, input := range []string{"", "garbage", "$", "12.99", "Free", "$12.99 USD", "$1.2.3,4,5"} {
		got := ParsePrice(input)
		if !got.Amount.IsZero() || got.Symbol != "" {
			t.Fatalf("input %q: expected zero price, got %+v", input, got)
		}
		if got.String() != "0.00" {
			t.Fatalf("input %q: rendered %q", input, got.String())
		}
	}
}

func TestParsePriceMinorUnits(t *testing.T) {
	got := ParsePrice("$12.99")
	if cents := got.Amount.Shift(2).IntPart(); cents != 1299 {
		t.Fatalf("cents=%d", cents)
	}
	if got.String() != "$12.99" {
		t.Fatalf("rendered %q", got.String())
	}
}
