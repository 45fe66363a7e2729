package model

import (
	"fmt"
	"strings"
	"time"
)

// Clock is a wall-clock time of day in minutes since midnight.
type Clock int

var clockLayouts = []string{"3:04 PM", "3:04PM", "15:04"}

// ParseClock accepts "10:00 AM", "10:00AM", "10:00 am" and "14:30".
func ParseClock(s string) (Clock, error) {
	v := strings.ToUpper(strings.TrimSpace(s))
	for _, layout := range clockLayouts {
		t, err := time.Parse(layout, v)
		if err == nil {
			return Clock(t.Hour()*60 + t.Minute()), nil
		}
	}
	return 0, fmt.Errorf("invalid time %q", s)
}

// EndOfDay is the midnight that closes a day.
const EndOfDay Clock = 24 * 60

// ParseEndClock parses the end of an interval. "12:00 AM" there means the
// midnight closing the day, not the one opening it.
func ParseEndClock(s string) (Clock, error) {
	c, err := ParseClock(s)
	if err == nil && c == 0 {
		c = EndOfDay
	}
	return c, err
}

func (c Clock) Hour() int   { return int(c) / 60 }
func (c Clock) Minute() int { return int(c) % 60 }

func (c Clock) String() string {
	h, suffix := c.Hour()%24, "AM"
	if h >= 12 {
		suffix = "PM"
	}
	h %= 12
	if h == 0 {
		h = 12
	}
	return fmt.Sprintf("%d:%02d %s", h, c.Minute(), suffix)
}

func (c Clock) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Clock) UnmarshalText(b []byte) error {
	v, err := ParseClock(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// Overlaps is the half-open interval test: [s1, e1) and [s2, e2) intersect.
func Overlaps(s1, e1, s2, e2 Clock) bool {
	return s1 < e2 && s2 < e1
}
