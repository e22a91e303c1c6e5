// Package markethours answers whether the NSE cash market is in its regular session.
package markethours

import "time"

// Regular session bounds in exchange local time.
const (
	openHour, openMinute   = 9, 15
	closeHour, closeMinute = 15, 30
)

// istFallback is used when the tz database is not installed. India has no DST.
var istFallback = time.FixedZone("IST", 5*60*60+30*60)

// Location returns the Asia/Kolkata time zone.
func Location() *time.Location {
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		return istFallback
	}
	return loc
}

// IsOpen reports whether t falls on a weekday between 09:15 and 15:30 IST, both inclusive.
// Exchange holidays are not taken into account.
func IsOpen(t time.Time) bool {
	loc := Location()
	now := t.In(loc)

	if now.Weekday() == time.Saturday || now.Weekday() == time.Sunday {
		return false
	}

	open := time.Date(now.Year(), now.Month(), now.Day(), openHour, openMinute, 0, 0, loc)
	closing := time.Date(now.Year(), now.Month(), now.Day(), closeHour, closeMinute, 0, 0, loc)

	return !now.Before(open) && !now.After(closing)
}
