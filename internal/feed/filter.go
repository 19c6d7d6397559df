package feed

import (
	"strings"

	"btto/internal/model"
)

// FilterByStatus keeps the items whose status contains substr. An empty
// substr keeps the list as-is. Items without a status never match.
//
// The stored status column informally packs several values into one string
// (e.g. "in Beratung, erledigt"), so this is deliberately a substring match
// rather than set membership.
func FilterByStatus(items []model.AgendaItem, substr string) []model.AgendaItem {
	if substr == "" {
		return items
	}
	filtered := make([]model.AgendaItem, 0, len(items))
	for _, item := range items {
		if item.Status == nil || *item.Status == "" {
			continue
		}
		if strings.Contains(*item.Status, substr) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}
