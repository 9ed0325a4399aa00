package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatRupee renders an integer rupee amount with Indian digit grouping,
// e.g. 1234567 -> "₹12,34,567".
func FormatRupee(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	return fmt.Sprintf("%s₹%s", sign, groupIndian(amount))
}

// ParseRupeeToInt parses "₹1,000" / "Rs 1000" / "1000" into whole rupees.
func ParseRupeeToInt(s string) (int64, error) {
	s = strings.TrimSpace(s)
	lower := strings.ToLower(s)
	lower = strings.TrimPrefix(lower, "₹")
	lower = strings.TrimPrefix(lower, "rs.")
	lower = strings.TrimPrefix(lower, "rs")
	lower = strings.TrimSpace(lower)
	replacer := strings.NewReplacer(",", "", " ", "")
	lower = replacer.Replace(lower)
	if lower == "" {
		return 0, fmt.Errorf("invalid rupee amount")
	}
	return strconv.ParseInt(lower, 10, 64)
}

// groupIndian applies the 3-then-2 grouping used for rupee amounts.
func groupIndian(n int64) string {
	str := strconv.FormatInt(n, 10)
	if len(str) <= 3 {
		return str
	}
	head := str[:len(str)-3]
	tail := str[len(str)-3:]
	var out strings.Builder
	for i, c := range head {
		if i != 0 && (len(head)-i)%2 == 0 {
			out.WriteByte(',')
		}
		out.WriteRune(c)
	}
	return out.String() + "," + tail
}
