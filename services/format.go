package services

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatINR renders an amount in Indian Rupee notation with the Indian
// digit grouping: the rightmost three digits form one group and every two
// digits after that form another (₹1,23,45,678.90). Always two decimals.
func FormatINR(amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	intPart, decPart, _ := strings.Cut(fmt.Sprintf("%.2f", amount), ".")

	return sign + "₹" + applyIndianGrouping(intPart) + "." + decPart
}

// applyIndianGrouping inserts commas into a digit string: the last three
// digits stay together, the rest are grouped in pairs from the right.
func applyIndianGrouping(s string) string {
	if len(s) <= 3 {
		return s
	}

	result := s[len(s)-3:]
	remaining := s[:len(s)-3]
	for len(remaining) > 2 {
		result = remaining[len(remaining)-2:] + "," + result
		remaining = remaining[:len(remaining)-2]
	}
	if remaining != "" {
		result = remaining + "," + result
	}
	return result
}

// formatNumber renders a float without trailing zeros; quantities and rates
// come out of spreadsheets with uneven precision and shouldn't be padded.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatQty renders a quantity or rate for display. Whole numbers drop the
// decimals, fractional values get two.
func formatQty(qty float64) string {
	if qty == math.Trunc(qty) {
		return fmt.Sprintf("%.0f", qty)
	}
	return fmt.Sprintf("%.2f", qty)
}
