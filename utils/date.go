package utils

import "time"

// FormatUTCOffset renders the zone offset of t as +HH:MM.
func FormatUTCOffset(t time.Time) string {
	return t.Format("-07:00")
}

// TimezoneOffsetMinutes returns the minutes to add to local time to reach
// UTC, the sign convention browsers report.
func TimezoneOffsetMinutes(t time.Time) int {
	_, offset := t.Zone()
	return -offset / 60
}

// OffsetFromMinutes turns a browser timezone offset back into +HH:MM.
func OffsetFromMinutes(minutes int) string {
	return time.Unix(0, 0).In(time.FixedZone("", -minutes*60)).Format("-07:00")
}
