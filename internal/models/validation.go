package models

import (
	"strings"
	"unicode/utf8"
)

var angleBrackets = strings.NewReplacer("<", "", ">", "")

// SanitizeText removes angle brackets, trims surrounding whitespace and truncates
// the result to maxLength characters. A maxLength of zero disables truncation.
func SanitizeText(s string, maxLength int) string {
	cleaned := strings.TrimSpace(angleBrackets.Replace(s))
	if maxLength > 0 && utf8.RuneCountInString(cleaned) > maxLength {
		runes := []rune(cleaned)
		cleaned = strings.TrimSpace(string(runes[:maxLength]))
	}
	return cleaned
}

// StatusValues returns the ticket statuses as strings, for enum validation
func StatusValues() []string {
	values := make([]string, 0, 4)
	for _, s := range TicketStatuses() {
		values = append(values, string(s))
	}
	return values
}

// PriorityValues returns the ticket priorities as strings, for enum validation
func PriorityValues() []string {
	values := make([]string, 0, 3)
	for _, p := range TicketPriorities() {
		values = append(values, string(p))
	}
	return values
}
