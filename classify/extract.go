package classify

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	orderIDPattern   = regexp.MustCompile(`(?i)\bORD-\d{4}\b`)
	productIDPattern = regexp.MustCompile(`\b\d+\b`)
)

// ExtractOrderID returns the first order identifier of the form ORD-NNNN in
// the message, uppercased, or "" when none is present.
func ExtractOrderID(message string) string {
	m := orderIDPattern.FindString(message)
	return strings.ToUpper(m)
}

// ExtractProductIDs returns the standalone numbers in the message that fall
// inside the catalog identifier range 1..100, in order of appearance without
// duplicates. Numbers embedded in order identifiers are excluded.
func ExtractProductIDs(message string) []int {
	cleaned := orderIDPattern.ReplaceAllString(message, " ")

	var ids []int
	seen := make(map[int]bool)
	for _, m := range productIDPattern.FindAllString(cleaned, -1) {
		n, err := strconv.Atoi(m)
		if err != nil || n < 1 || n > 100 {
			continue
		}
		if seen[n] {
			continue
		}
		seen[n] = true
		ids = append(ids, n)
	}
	return ids
}
