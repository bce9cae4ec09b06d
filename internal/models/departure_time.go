package models

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// departureTimeRegex captures hour, minute and an optional AM/PM marker
// from display strings such as "09:00 AM", "9.30pm" or "21:45".
var departureTimeRegex = regexp.MustCompile(`(\d{1,2})[:.](\d{2})\s*([AaPp][Mm])?`)

// DepartureMinutes decomposes a departure display string into
// minutes-since-midnight. The 12-hour edge cases are corrected:
// 12 PM is noon (720) and 12 AM is midnight (0). Returns false when the
// string carries no recognizable time.
func DepartureMinutes(s string) (int, bool) {
	match := departureTimeRegex.FindStringSubmatch(s)
	if match == nil {
		return 0, false
	}

	hour, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, false
	}
	minute, err := strconv.Atoi(match[2])
	if err != nil || minute > 59 {
		return 0, false
	}

	marker := strings.ToUpper(match[3])
	switch marker {
	case "AM":
		if hour < 1 || hour > 12 {
			return 0, false
		}
		if hour == 12 {
			hour = 0
		}
	case "PM":
		if hour < 1 || hour > 12 {
			return 0, false
		}
		if hour != 12 {
			hour += 12
		}
	default:
		if hour > 23 {
			return 0, false
		}
	}

	return hour*60 + minute, true
}

// SortTripsByDeparture orders trips ascending by parsed departure time.
// Trips whose time string cannot be parsed sort after every parseable
// entry, keeping their relative order.
func SortTripsByDeparture(trips []TripResult) {
	sort.SliceStable(trips, func(i, j int) bool {
		mi, oki := DepartureMinutes(trips[i].DepartureTime)
		mj, okj := DepartureMinutes(trips[j].DepartureTime)
		if oki && okj {
			return mi < mj
		}
		return oki && !okj
	})
}
