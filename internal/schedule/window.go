package schedule

import "time"

// BroadcastDay returns the half-open window [from, to) of the broadcast
// day containing now. A broadcast day runs 04:00 to 04:00 the next day:
// late-night programs aired before 04:00 belong to the previous calendar
// day.
func BroadcastDay(now time.Time) (from, to time.Time) {
	day := time.Date(now.Year(), now.Month(), now.Day(), 4, 0, 0, 0, now.Location())
	if now.Hour() >= 4 {
		return day, day.AddDate(0, 0, 1)
	}
	return day.AddDate(0, 0, -1), day
}
