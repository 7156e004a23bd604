package timezone

import (
	"fmt"
	"time"

	_ "time/tzdata"
)

var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("Europe/London")
	if err != nil {
		panic(err)
	}
}

// published figures are dated in UK time regardless of where the sync runs
func Now() time.Time {
	return time.Now().In(Location)
}

// Stamp renders t the way page footers show it.
func Stamp(t time.Time) string {
	return t.In(Location).Format("2 January 2006 15:04 MST")
}

// WeekLabel is the ISO week of t, e.g. "W01". weekly tables are indexed by
// it.
func WeekLabel(t time.Time) string {
	_, week := t.In(Location).ISOWeek()
	return fmt.Sprintf("W%02d", week)
}

// GetCurrentWeek returns the monday and sunday (at midnight) of the ISO
// week containing now.
func GetCurrentWeek(now time.Time) (time.Time, time.Time) {
	offset := (int(now.Weekday()) + 6) % 7
	start := time.Date(now.Year(), now.Month(), now.Day()-offset, 0, 0, 0, 0, now.Location())
	return start, start.AddDate(0, 0, 6)
}
