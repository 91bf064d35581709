package ledger

import "fmt"
import "strconv"
import "strings"

// RenderDay formats a day's entries as the daily digest text, one line per
// transaction in time order. Read-only; safe to call with whatever ReadDay
// returned.
func RenderDay(day string, entries []LogEntry) string {
	if len(entries) == 0 {
		return fmt.Sprintf("No transactions were recorded on %s.", day)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Your transactions for %s:", day)
	for _, e := range entries {
		description := "(no description)"
		if e.Description != nil {
			description = *e.Description
		}
		fmt.Fprintf(&b, "\n%s | %s | %s | %s | %s", e.Time, e.Kind, FormatAmount(e.Amount), e.Category, description)
	}
	return b.String()
}

// FormatAmount groups thousands: 1234567 -> "1,234,567".
func FormatAmount(value int) string {
	s := strconv.Itoa(value)
	if len(s) <= 3 {
		return s
	}
	var groups []string
	for len(s) > 3 {
		groups = append([]string{s[len(s)-3:]}, groups...)
		s = s[:len(s)-3]
	}
	return s + "," + strings.Join(groups, ",")
}
