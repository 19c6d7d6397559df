package feed

import (
	"fmt"
	"sort"
	"time"

	"btto/internal/model"
)

// wallClockLayouts are the accepted forms of the stored start/end columns.
// Values are local wall-clock without an embedded zone.
var wallClockLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

func parseWallClock(value string) (time.Time, error) {
	for _, layout := range wallClockLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedTimestamp, value)
}

// weekKey identifies one ISO week. Year is the ISO week-numbering year,
// which near January 1 can differ from the calendar year.
type weekKey struct {
	Year int
	Week int
}

// BuildCalendar turns the (already filtered) agenda items into an ordered
// list of immutable events: one main event per item, optionally a roll-call
// vote companion per flagged item, and optionally one sitting-week block
// event per distinct ISO week that has items.
//
// now supplies the generation timestamp (DTSTAMP) of every event. All other
// state lives in locals of this one call, so concurrent builds never
// interact.
func BuildCalendar(items []model.AgendaItem, opts model.BuildOptions, now time.Time) (*Calendar, error) {
	cal := &Calendar{Events: make([]Event, 0, len(items))}
	weeksWithItems := make(map[weekKey]struct{})

	for _, item := range items {
		start, err := parseWallClock(item.Start)
		if err != nil {
			return nil, fmt.Errorf("item %d: start: %w", item.ID, err)
		}
		end, err := parseWallClock(item.End)
		if err != nil {
			return nil, fmt.Errorf("item %d: end: %w", item.ID, err)
		}
		// Zero-length and inverted ranges exist in the stored data;
		// clamp for display without touching the record.
		if !end.After(start) {
			end = start.Add(time.Minute)
		}

		isoYear, isoWeek := start.ISOWeek()
		weeksWithItems[weekKey{Year: isoYear, Week: isoWeek}] = struct{}{}

		cal.Events = append(cal.Events, mainEvent(item, start, end, now))

		if opts.IncludeNamedVotes && item.NamedVote {
			cal.Events = append(cal.Events, namedVoteEvent(item, end, now, opts.NamedVoteAlarm))
		}
	}

	if opts.ShowSittingWeeks {
		cal.Events = append(cal.Events, sittingWeekEvents(weeksWithItems, now)...)
	}

	return cal, nil
}

func mainEvent(item model.AgendaItem, start, end, now time.Time) Event {
	summary := item.Thema
	if item.TOP != nil && *item.TOP != "" {
		summary = *item.TOP + ": " + item.Thema
	}
	ev := Event{
		UID:         item.UID,
		Stamp:       now.UTC(),
		Summary:     summary,
		Description: item.Beschreibung,
		Start:       berlin(start),
		End:         berlin(end),
	}
	if item.URL != nil {
		ev.URL = *item.URL
	}
	return ev
}

// namedVoteEvent derives the companion event for a recorded vote: it starts
// when the main event ends and lasts namedVoteDuration.
func namedVoteEvent(item model.AgendaItem, mainEnd, now time.Time, withAlarm bool) Event {
	summary := "Namentliche Abstimmung: " + item.Thema

	subject := item.Thema
	if item.TOP != nil && *item.TOP != "" {
		subject = *item.TOP + ": " + item.Thema
	}
	description := "Namentliche Abstimmung zu " + subject + ".\n\n" + item.Beschreibung

	ev := Event{
		UID:         GenerateUID(mainEnd, summary, "-na"),
		Stamp:       now.UTC(),
		Summary:     summary,
		Description: description,
		Start:       berlin(mainEnd),
		End:         berlin(mainEnd.Add(namedVoteDuration)),
	}
	if item.URL != nil {
		ev.URL = *item.URL
	}
	if withAlarm {
		ev.Alarm = &Alarm{
			Trigger:     -namedVoteDuration,
			Description: "Erinnerung: Namentliche Abstimmung " + subject,
		}
	}
	return ev
}

// sittingWeekEvents emits one all-day block event per distinct week key,
// Monday through the following Saturday (exclusive end). Keys are sorted so
// the output order is deterministic.
func sittingWeekEvents(weeks map[weekKey]struct{}, now time.Time) []Event {
	keys := make([]weekKey, 0, len(weeks))
	for key := range weeks {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Year != keys[j].Year {
			return keys[i].Year < keys[j].Year
		}
		return keys[i].Week < keys[j].Week
	})

	events := make([]Event, 0, len(keys))
	for _, key := range keys {
		monday := MondayOfISOWeek(key.Week, key.Year)
		events = append(events, Event{
			UID:       GenerateUID(monday, "Sitzungswoche", "-sw"),
			Stamp:     now.UTC(),
			Summary:   "Sitzungswoche",
			AllDay:    true,
			StartDate: monday,
			EndDate:   monday.AddDate(0, 0, 5), // Saturday, exclusive
		})
	}
	return events
}
