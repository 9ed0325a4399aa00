package utils

import "testing"

func TestFormatRupee(t *testing.T) {
	cases := map[int64]string{
		0:       "₹0",
		999:     "₹999",
		1000:    "₹1,000",
		100000:  "₹1,00,000",
		1234567: "₹12,34,567",
		-4500:   "-₹4,500",
	}
	for in, want := range cases {
		if got := FormatRupee(in); got != want {
			t.Fatalf("FormatRupee(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestParseRupeeToInt(t *testing.T) {
	cases := map[string]int64{
		"₹1,000":   1000,
		"Rs 2500":  2500,
		"rs. 300":  300,
		"1234567":  1234567,
		" ₹12,34,567 ": 1234567,
	}
	for in, want := range cases {
		got, err := ParseRupeeToInt(in)
		if err != nil {
			t.Fatalf("ParseRupeeToInt(%q) error: %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseRupeeToInt(%q) = %d, want %d", in, got, want)
		}
	}
	if _, err := ParseRupeeToInt("₹"); err == nil {
		t.Fatal("expected error for empty amount")
	}
}
