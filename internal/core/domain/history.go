package domain

import (
	"strings"
	"time"
)

// MaxHistoryEntries caps the remembered search history.
const MaxHistoryEntries = 10

// PushHistory prepends a query to the history, dropping any earlier
// entry with the same query (case-insensitive) and trimming to
// MaxHistoryEntries. The input slice is not modified.
func PushHistory(entries []HistoryEntry, query string, now time.Time) []HistoryEntry {
	out := make([]HistoryEntry, 0, len(entries)+1)
	out = append(out, HistoryEntry{Query: query, SearchedAt: now})
	for _, e := range entries {
		if strings.EqualFold(e.Query, query) {
			continue
		}
		out = append(out, e)
	}
	if len(out) > MaxHistoryEntries {
		out = out[:MaxHistoryEntries]
	}
	return out
}
