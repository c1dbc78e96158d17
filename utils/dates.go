package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// defaultHour is used when a day expression carries no time of day.
const defaultHour = 9

// ParseNaturalDate resolves the date strings the voice agent's tool calls
// produce into a concrete time. Accepted forms:
//
//	RFC3339, "2006-01-02 15:04", "2006-01-02"
//	"today", "tomorrow", "day after tomorrow"
//	weekday names, optionally prefixed with "next"
//
// Any day expression may be followed by a time like "3pm", "3:30pm" or
// "15:04". Day-only results default to 09:00. Resolution is relative to now
// in now's location.
func ParseNaturalDate(input string, now time.Time) (time.Time, error) {
	s := strings.TrimSpace(strings.ToLower(input))
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	// Absolute formats first.
	if t, err := time.Parse(time.RFC3339, strings.TrimSpace(input)); err == nil {
		return t, nil
	}
	for _, layout := range []string{"2006-01-02 15:04", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, s, now.Location()); err == nil {
			if layout == "2006-01-02" {
				t = t.Add(defaultHour * time.Hour)
			}
			return t, nil
		}
	}

	// Split a trailing time-of-day off the day expression.
	dayExpr := s
	hour, minute := defaultHour, 0
	if i := strings.LastIndex(s, " "); i > 0 {
		if h, m, ok := parseClock(s[i+1:]); ok {
			dayExpr = strings.TrimSpace(s[:i])
			hour, minute = h, m
		}
	}

	day, err := resolveDay(dayExpr, now)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, now.Location()), nil
}

func resolveDay(expr string, now time.Time) (time.Time, error) {
	switch expr {
	case "today":
		return now, nil
	case "tomorrow":
		return now.AddDate(0, 0, 1), nil
	case "day after tomorrow":
		return now.AddDate(0, 0, 2), nil
	}

	next := false
	if rest, ok := strings.CutPrefix(expr, "next "); ok {
		next = true
		expr = rest
	}
	wd, ok := weekdays[expr]
	if !ok {
		return time.Time{}, fmt.Errorf("unrecognized date %q", expr)
	}

	days := (int(wd) - int(now.Weekday()) + 7) % 7
	if days == 0 {
		// "monday" on a Monday means the coming one, not today.
		days = 7
	}
	if next {
		// "next monday" is the coming monday plus a week.
		days += 7
	}
	return now.AddDate(0, 0, days), nil
}

// parseClock parses "3pm", "3:30pm", "15:04". Returns ok=false when the
// string isn't a time of day.
func parseClock(s string) (hour, minute int, ok bool) {
	s = strings.TrimSpace(s)
	pm := false
	am := false
	if v, found := strings.CutSuffix(s, "pm"); found {
		pm, s = true, v
	} else if v, found := strings.CutSuffix(s, "am"); found {
		am, s = true, v
	}

	hs, ms, hasMinute := strings.Cut(s, ":")
	h, err := strconv.Atoi(hs)
	if err != nil || h < 0 || h > 23 {
		return 0, 0, false
	}
	m := 0
	if hasMinute {
		m, err = strconv.Atoi(ms)
		if err != nil || m < 0 || m > 59 {
			return 0, 0, false
		}
	} else if !pm && !am {
		// A bare number without am/pm or minutes is ambiguous ("monday 3"
		// vs a house number); refuse.
		return 0, 0, false
	}

	if pm && h < 12 {
		h += 12
	}
	if am && h == 12 {
		h = 0
	}
	if (pm || am) && h > 23 {
		return 0, 0, false
	}
	return h, m, true
}
