package services

import "time"

const weekKeyFormat = "2006-01-02"

// MondayOfWeek returns midnight of the Monday starting the week that
// contains t, in t's location. Sunday belongs to the previous Monday's
// week.
func MondayOfWeek(t time.Time) time.Time {
	back := (int(t.Weekday()) + 6) % 7
	y, m, d := t.AddDate(0, 0, -back).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// WeekKey is the bucket key for t: the ISO calendar date of its
// Monday-of-week.
func WeekKey(t time.Time) string {
	return MondayOfWeek(t).Format(weekKeyFormat)
}
