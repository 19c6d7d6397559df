package feed

import (
	"time"

	"btto/internal/model"
)

// CheckWindow rejects windows that lie strictly after the current ISO
// year/week: the agenda of future sitting weeks does not exist yet. Whole
// years up to and including the current one pass, as do week selectors up
// to the current week.
func CheckWindow(win model.Window, now time.Time) error {
	if win.Year > now.Year() {
		return ErrFutureWindow
	}
	if win.Year == now.Year() && win.Week != nil && *win.Week > ISOWeekNumber(now) {
		return ErrFutureWindow
	}
	return nil
}
