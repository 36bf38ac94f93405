package publish

import (
	"fmt"
	"strings"
	"time"

	"github.com/lysyi3m/rss-mood/app/cfg"
)

// Policy decides whether a finished run deploys its report.
type Policy interface {
	ShouldPublish(now time.Time) bool
}

// WeekdayPolicy publishes when now falls on Day in Location.
type WeekdayPolicy struct {
	Day      time.Weekday
	Location *time.Location
}

func (p WeekdayPolicy) ShouldPublish(now time.Time) bool {
	if p.Location != nil {
		now = now.In(p.Location)
	}
	return now.Weekday() == p.Day
}

func (p WeekdayPolicy) String() string {
	return "every " + p.Day.String()
}

type Always struct{}

func (Always) ShouldPublish(time.Time) bool { return true }

func (Always) String() string { return "always" }

type Never struct{}

func (Never) ShouldPublish(time.Time) bool { return false }

func (Never) String() string { return "never" }

// ParsePolicy understands "always", "never" and weekday names.
func ParsePolicy(value string, loc *time.Location) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "always":
		return Always{}, nil
	case "never":
		return Never{}, nil
	}

	day, ok := cfg.ParseWeekday(value)
	if !ok {
		return nil, fmt.Errorf("unknown publish day: %q", value)
	}

	return WeekdayPolicy{Day: day, Location: loc}, nil
}
