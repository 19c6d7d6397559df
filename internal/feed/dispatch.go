package feed

import (
	"bytes"
	"fmt"
	"time"

	"btto/internal/model"
)

// Format is one of the supported output format tokens.
type Format string

const (
	FormatICal Format = "ical"
	FormatICS  Format = "ics"
	FormatJSON Format = "json"
	FormatXML  Format = "xml"
	FormatCSV  Format = "csv"
)

// Payload is a rendered feed plus the content type to serve it with.
type Payload struct {
	Data        []byte
	ContentType string
}

type renderer struct {
	contentType string
	render      func(items []model.AgendaItem, opts model.BuildOptions, now time.Time) ([]byte, error)
}

// renderers maps each format token to its serializer strategy. Dispatch is
// a table lookup, kept apart from request-parameter branching.
var renderers = map[Format]renderer{
	FormatICal: {contentType: "text/calendar; charset=utf-8", render: renderCalendar},
	FormatICS:  {contentType: "text/calendar; charset=utf-8", render: renderCalendar},
	FormatJSON: {contentType: "application/json; charset=utf-8", render: renderJSON},
	FormatXML:  {contentType: "application/xml; charset=utf-8", render: renderXML},
	FormatCSV:  {contentType: "text/csv; charset=utf-8", render: renderCSV},
}

// ParseFormat validates a format token from the request path.
func ParseFormat(token string) (Format, error) {
	f := Format(token)
	if _, ok := renderers[f]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, token)
	}
	return f, nil
}

// Render runs the full transformation for one request: the filtering stage
// over the raw item list, then the serializer selected by format. It holds
// no state across calls.
func Render(format Format, items []model.AgendaItem, statusFilter string, opts model.BuildOptions, now time.Time) (Payload, error) {
	r, ok := renderers[format]
	if !ok {
		return Payload{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, string(format))
	}

	filtered := FilterByStatus(items, statusFilter)

	data, err := r.render(filtered, opts, now)
	if err != nil {
		return Payload{}, err
	}
	return Payload{Data: data, ContentType: r.contentType}, nil
}

func renderCalendar(items []model.AgendaItem, opts model.BuildOptions, now time.Time) ([]byte, error) {
	cal, err := BuildCalendar(items, opts, now)
	if err != nil {
		return nil, err
	}
	var b bytes.Buffer
	if err := WriteICS(&b, cal); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

func renderJSON(items []model.AgendaItem, _ model.BuildOptions, _ time.Time) ([]byte, error) {
	return MarshalJSON(items)
}

func renderXML(items []model.AgendaItem, _ model.BuildOptions, _ time.Time) ([]byte, error) {
	return MarshalXML(items)
}

func renderCSV(items []model.AgendaItem, _ model.BuildOptions, _ time.Time) ([]byte, error) {
	return MarshalCSV(items)
}
