package sm2

import (
	"math"
	"time"

	"github.com/rowanfell/mnemo-api/internal/domain"
)

// IsDue reports whether the schedule should be presented at the given
// time. A schedule that has never been studied is always due. Otherwise
// the whole calendar-day difference between the last review and now must
// have reached the schedule's interval.
//
// Day counting is midnight-to-midnight in the configured location, not a
// rolling 24-hour window: two reviews 20 hours apart count as one day
// apart when they straddle a local midnight, and zero days apart when
// they do not.
func IsDue(schedule *domain.Schedule, now time.Time, params *Params) bool {
	if schedule.LastSeenAt == nil {
		return true
	}

	return daysBetween(*schedule.LastSeenAt, now, params.Location) >= schedule.Interval
}

// daysBetween returns the number of local calendar midnights crossed
// between from and to. Rounding absorbs the 23- and 25-hour days that DST
// transitions produce.
func daysBetween(from, to time.Time, loc *time.Location) int {
	fromMidnight := midnight(from, loc)
	toMidnight := midnight(to, loc)
	return int(math.Round(toMidnight.Sub(fromMidnight).Hours() / 24))
}

// midnight truncates t to the start of its calendar day in loc.
func midnight(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}
