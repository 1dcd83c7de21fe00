// Package analysis holds the pure analyzers run over a goal basket: fit
// (conflicts and synergies), budget distribution, dependency ordering, risks,
// timeline and the combined basket stats.
package analysis

import (
	"math"
	"sort"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/stefanpenner/tandem/pkg/store"
)

// ParseDurationMonths returns the first integer found in s as a month count.
// There is no unit conversion: "2 years" is 2. Strings without a number, or
// with one too large for an int, yield 0.
func ParseDurationMonths(s string) int {
	start := -1
	for i := 0; i < len(s); i++ {
		isDigit := s[i] >= '0' && s[i] <= '9'
		if isDigit && start < 0 {
			start = i
		}
		if !isDigit && start >= 0 {
			return atoi(s[start:i])
		}
	}
	if start >= 0 {
		return atoi(s[start:])
	}
	return 0
}

func atoi(digits string) int {
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return n
}

// Percentage returns part as a percentage of total rounded to one decimal.
// A non-positive total gives 0.
func Percentage(part, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(part/total*1000) / 10
}

// Shares converts per-category amounts into percentages of total.
func Shares(byCategory map[store.Category]float64, total float64) map[store.Category]float64 {
	shares := make(map[store.Category]float64, len(byCategory))
	for cat, amount := range byCategory {
		shares[cat] = Percentage(amount, total)
	}
	return shares
}

// FormatMoney renders a currency-agnostic amount with thousands separators.
func FormatMoney(v float64) string {
	return "$" + humanize.Commaf(math.Round(v))
}

func sortedCategories[V any](m map[store.Category]V) []store.Category {
	cats := make([]store.Category, 0, len(m))
	for cat := range m {
		cats = append(cats, cat)
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i] < cats[j] })
	return cats
}
