package history

import "time"

const (
	LabelToday     = "today"
	LabelYesterday = "yesterday"
)

// DayLabel names the calendar day of completedAt relative to now, in now's
// location: "today", "yesterday", or a short month/day such as "Mar 7".
func DayLabel(completedAt, now time.Time) string {
	local := completedAt.In(now.Location())
	if sameDay(local, now) {
		return LabelToday
	}
	if sameDay(local, now.AddDate(0, 0, -1)) {
		return LabelYesterday
	}
	return local.Format("Jan 2")
}

// ClockLabel renders the wall-clock time of completedAt in loc as HH:MM.
func ClockLabel(completedAt time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return completedAt.In(loc).Format("15:04")
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
