package feed

import (
	"strconv"

	"btto/internal/model"
)

// field is one serialized attribute of an agenda item. Null marks optional
// columns that are absent in the stored row; XML drops such fields entirely
// while CSV renders them as empty cells.
type field struct {
	Name  string
	Value string
	Null  bool
}

// itemFields flattens an item into its canonical field order
// (model.FieldNames).
func itemFields(item model.AgendaItem) []field {
	optional := func(name string, v *string) field {
		if v == nil {
			return field{Name: name, Null: true}
		}
		return field{Name: name, Value: *v}
	}
	return []field{
		{Name: "id", Value: strconv.FormatInt(item.ID, 10)},
		{Name: "year", Value: strconv.Itoa(item.Year)},
		{Name: "week", Value: strconv.Itoa(item.Week)},
		{Name: "start", Value: item.Start},
		{Name: "end", Value: item.End},
		optional("top", item.TOP),
		{Name: "thema", Value: item.Thema},
		{Name: "beschreibung", Value: item.Beschreibung},
		optional("url", item.URL),
		optional("status", item.Status),
		{Name: "namentliche_abstimmung", Value: strconv.FormatBool(item.NamedVote)},
		{Name: "uid", Value: item.UID},
		{Name: "dtstamp", Value: item.DTStamp},
	}
}
