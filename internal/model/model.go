package model

// AgendaItem is one stored agenda row of the Bundestag plenary. The serving
// path treats items as read-only; optional columns are nullable in the
// database and modeled as pointers so that JSON output can distinguish null
// from empty.
type AgendaItem struct {
	ID           int64   `json:"id"`
	Year         int     `json:"year"`
	Week         int     `json:"week"`
	Start        string  `json:"start"`
	End          string  `json:"end"`
	TOP          *string `json:"top"`
	Thema        string  `json:"thema"`
	Beschreibung string  `json:"beschreibung"`
	URL          *string `json:"url"`
	Status       *string `json:"status"`
	NamedVote    bool    `json:"namentliche_abstimmung"`
	UID          string  `json:"uid"`
	DTStamp      string  `json:"dtstamp"`
}

// FieldNames is the canonical column order of an agenda item. JSON keys,
// XML child elements and CSV columns all follow it.
var FieldNames = []string{
	"id", "year", "week", "start", "end", "top", "thema",
	"beschreibung", "url", "status", "namentliche_abstimmung",
	"uid", "dtstamp",
}

// BuildOptions are the caller-selected toggles for calendar output.
type BuildOptions struct {
	// IncludeNamedVotes emits a companion event after every item flagged
	// as a recorded vote.
	IncludeNamedVotes bool
	// NamedVoteAlarm attaches a display reminder to each companion event.
	// Only honored together with IncludeNamedVotes.
	NamedVoteAlarm bool
	// ShowSittingWeeks emits one all-day block event per week that has at
	// least one item after filtering.
	ShowSittingWeeks bool
}

// Window selects the time range of agenda items to serve. Year is always
// set; at most one of Week, Month and Day is expected. Resolution
// precedence is week > month > day > whole year.
type Window struct {
	Year  int
	Week  *int
	Month *int
	Day   *int
}
