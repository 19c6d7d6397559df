package feed

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"encoding/xml"

	"btto/internal/model"
)

// MarshalJSON serializes the item list as a JSON array of objects. Every
// field is present on every object; absent optional columns serialize as
// null. An empty list yields "[]", not "null".
func MarshalJSON(items []model.AgendaItem) ([]byte, error) {
	if items == nil {
		items = []model.AgendaItem{}
	}
	return json.Marshal(items)
}

// MarshalXML serializes the item list as an <agenda> root with one <event>
// child per item. Absent optional columns are omitted entirely — an
// intentional asymmetry with the JSON output, where they appear as null.
func MarshalXML(items []model.AgendaItem) ([]byte, error) {
	var b bytes.Buffer
	b.WriteString("<agenda>")
	for _, item := range items {
		b.WriteString("<event>")
		for _, f := range itemFields(item) {
			if f.Null {
				continue
			}
			b.WriteString("<" + f.Name + ">")
			if err := xml.EscapeText(&b, []byte(f.Value)); err != nil {
				return nil, err
			}
			b.WriteString("</" + f.Name + ">")
		}
		b.WriteString("</event>")
	}
	b.WriteString("</agenda>")
	return b.Bytes(), nil
}

// MarshalCSV serializes the item list as CSV: a header row derived from the
// field names of the first item, then one row per item. Absent optional
// columns become empty cells.
//
// Empty-input policy: with no items there is no first item to derive the
// header from, so the header falls back to the canonical field list
// (model.FieldNames, which is also the field order of every item) and no
// data rows follow. The result is deterministic and always valid CSV.
func MarshalCSV(items []model.AgendaItem) ([]byte, error) {
	var b bytes.Buffer
	w := csv.NewWriter(&b)

	header := model.FieldNames
	if len(items) > 0 {
		first := itemFields(items[0])
		header = make([]string, len(first))
		for i, f := range first {
			header[i] = f.Name
		}
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, item := range items {
		fields := itemFields(item)
		row := make([]string, len(fields))
		for i, f := range fields {
			row[i] = f.Value
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}
