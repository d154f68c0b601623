package goquery

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// ChinaTime is the zone dates on the supported sites are published in.
var ChinaTime = time.FixedZone("CST", 8*60*60)

// dateLayouts are tried before falling back to dateparse.
var dateLayouts = []string{
	"2006-01-02",
	"2006年01月02日",
	"2006年1月2日",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// parseDate interprets s as a calendar date in loc. It reports false when
// s is not recognizable as a date.
func parseDate(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = ChinaTime
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	t, err := dateparse.ParseIn(s, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
