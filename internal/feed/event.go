package feed

import "time"

// Fixed calendar-level metadata. Constant across all builds.
const (
	CalendarVersion  = "2.0"
	CalendarProdID   = "-//hutt.io//api.hutt.io/bt-to//"
	CalendarScale    = "GREGORIAN"
	CalendarName     = "Tagesordnung Bundestag"
	CalendarDesc     = "Dieses iCal-Feed stellt die aktuelle Tagesordnung des Plenums des Deutschen Bundestages zur Verfügung."
	CalendarSource   = "https://api.hutt.io/bt-to/ical"
	CalendarColor    = "#808080"
	CalendarTimezone = "Europe/Berlin"
)

// namedVoteDuration is the synthetic length of a roll-call vote companion
// event; its alarm fires the same span before the companion starts.
const namedVoteDuration = 15 * time.Minute

// WallClock pairs a wall-clock value with the IANA zone it is meant to be
// displayed in. The zone is carried as an identifier only and resolved to a
// TZID parameter at serialization time, never earlier; the time.Time's own
// location has no meaning.
type WallClock struct {
	Time time.Time
	Zone string
}

// berlin wraps a parsed wall-clock value in the feed's display timezone.
func berlin(t time.Time) WallClock {
	return WallClock{Time: t, Zone: CalendarTimezone}
}

// Alarm is a display reminder attached to an event. Trigger is relative to
// the event start; negative values fire before it.
type Alarm struct {
	Trigger     time.Duration
	Description string
}

// Event is one immutable calendar entry. The builder accumulates events in
// order; encoding to the wire format is a separate, final step.
type Event struct {
	UID         string
	Stamp       time.Time // generation timestamp, UTC
	Summary     string
	Description string
	URL         string

	// Timed events carry Start/End; all-day block events carry StartDate
	// and EndDate (exclusive) instead.
	Start     WallClock
	End       WallClock
	AllDay    bool
	StartDate time.Time
	EndDate   time.Time

	Alarm *Alarm
}

// Calendar is the finished, ordered result of one build call.
type Calendar struct {
	Events []Event
}
