package parse

import (
	"fmt"
	"strings"
	"time"
)

// Calendar maps month names, as they appear in date headers, to months.
type Calendar struct {
	Name   string
	months map[string]time.Month
}

func newCalendar(name string, names [12]string) Calendar {
	c := Calendar{Name: name, months: make(map[string]time.Month, 12)}
	for i, n := range names {
		c.months[strings.ToLower(n)] = time.Month(i + 1)
	}
	return c
}

var (
	English = newCalendar("en", [12]string{
		"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December",
	})
	German = newCalendar("de", [12]string{
		"Januar", "Februar", "März", "April", "Mai", "Juni",
		"Juli", "August", "September", "Oktober", "November", "Dezember",
	})
)

// CalendarByName returns the built-in calendar for name ("en" or "de").
func CalendarByName(name string) (Calendar, error) {
	switch strings.ToLower(name) {
	case "", "en":
		return English, nil
	case "de":
		return German, nil
	default:
		return Calendar{}, fmt.Errorf("unknown calendar %q", name)
	}
}

// Month resolves a month name, case-insensitively.
func (c Calendar) Month(name string) (time.Month, bool) {
	m, ok := c.months[strings.ToLower(name)]
	return m, ok
}
