package feed

import (
	"fmt"
	"io"
	"strings"
	"time"
)

const (
	icsDateTimeLayout = "20060102T150405"
	icsDateLayout     = "20060102"

	// RFC 5545 content lines are folded at 75 octets.
	icsFoldWidth = 75
)

// WriteICS encodes a built calendar as an iCalendar stream. Wall-clock
// values are bound to their zone here, as a TZID parameter; nothing earlier
// in the pipeline touches the timezone database.
func WriteICS(w io.Writer, cal *Calendar) error {
	iw := &icsWriter{w: w}

	iw.line("BEGIN:VCALENDAR")
	iw.prop("VERSION", CalendarVersion)
	iw.prop("PRODID", CalendarProdID)
	iw.prop("CALSCALE", CalendarScale)
	iw.prop("X-WR-TIMEZONE", CalendarTimezone)
	iw.prop("X-WR-CALNAME", CalendarName)
	iw.prop("DESCRIPTION", CalendarDesc)
	iw.prop("SOURCE", CalendarSource)
	iw.prop("COLOR", CalendarColor)

	for i := range cal.Events {
		iw.event(&cal.Events[i])
	}

	iw.line("END:VCALENDAR")
	return iw.err
}

type icsWriter struct {
	w   io.Writer
	err error
}

func (iw *icsWriter) event(ev *Event) {
	iw.line("BEGIN:VEVENT")
	iw.prop("UID", ev.UID)
	iw.line("DTSTAMP:" + ev.Stamp.Format(icsDateTimeLayout) + "Z")
	if ev.AllDay {
		iw.line("DTSTART;VALUE=DATE:" + ev.StartDate.Format(icsDateLayout))
		iw.line("DTEND;VALUE=DATE:" + ev.EndDate.Format(icsDateLayout))
	} else {
		iw.line("DTSTART;TZID=" + ev.Start.Zone + ":" + ev.Start.Time.Format(icsDateTimeLayout))
		iw.line("DTEND;TZID=" + ev.End.Zone + ":" + ev.End.Time.Format(icsDateTimeLayout))
	}
	iw.prop("SUMMARY", ev.Summary)
	if ev.Description != "" {
		iw.prop("DESCRIPTION", ev.Description)
	}
	if ev.URL != "" {
		iw.prop("URL", ev.URL)
	}
	if ev.Alarm != nil {
		iw.line("BEGIN:VALARM")
		iw.line("ACTION:DISPLAY")
		iw.prop("DESCRIPTION", ev.Alarm.Description)
		iw.line("TRIGGER:" + icsTrigger(ev.Alarm.Trigger))
		iw.line("END:VALARM")
	}
	iw.line("END:VEVENT")
}

// prop writes one content line with escaped text value.
func (iw *icsWriter) prop(name, value string) {
	iw.line(name + ":" + escapeText(value))
}

// line folds and writes one content line, CRLF-terminated.
func (iw *icsWriter) line(s string) {
	if iw.err != nil {
		return
	}
	_, iw.err = io.WriteString(iw.w, foldLine(s)+"\r\n")
}

// escapeText escapes a value per RFC 5545 section 3.3.11.
func escapeText(s string) string {
	r := strings.NewReplacer(
		"\\", "\\\\",
		";", "\\;",
		",", "\\,",
		"\r\n", "\\n",
		"\n", "\\n",
	)
	return r.Replace(s)
}

// foldLine breaks a content line into chunks of at most icsFoldWidth octets,
// continuation lines indented with a single space. Folds never split a
// UTF-8 sequence.
func foldLine(s string) string {
	if len(s) <= icsFoldWidth {
		return s
	}
	var b strings.Builder
	width := 0
	for _, r := range s {
		rl := len(string(r))
		// Continuation lines start with a space, which counts toward
		// the octet limit.
		if width+rl > icsFoldWidth {
			b.WriteString("\r\n ")
			width = 1
		}
		b.WriteRune(r)
		width += rl
	}
	return b.String()
}

// icsTrigger formats a relative alarm trigger as an ISO 8601 duration,
// e.g. -15m => "-PT15M".
func icsTrigger(d time.Duration) string {
	sign := ""
	if d < 0 {
		sign = "-"
		d = -d
	}
	total := int(d.Minutes())
	days := total / (24 * 60)
	hours := (total % (24 * 60)) / 60
	minutes := total % 60

	var b strings.Builder
	b.WriteString(sign)
	b.WriteString("P")
	if days > 0 {
		fmt.Fprintf(&b, "%dD", days)
	}
	if hours > 0 || minutes > 0 || days == 0 {
		b.WriteString("T")
		if hours > 0 {
			fmt.Fprintf(&b, "%dH", hours)
		}
		fmt.Fprintf(&b, "%dM", minutes)
	}
	return b.String()
}
