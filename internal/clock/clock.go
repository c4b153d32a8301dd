package clock

import (
	"sort"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/samber/lo"

	"mongovault/internal/types"
)

// Window is the due-check granularity. A schedule fires when one of its
// times falls inside the current minute.
const Window = time.Minute

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// Now abstracts the current time so schedule math is testable.
type Now func() time.Time

// ParseCron validates a five-field cron expression.
func ParseCron(expression string) (cron.Schedule, error) {
	return cronParser.Parse(expression)
}

// WindowStart truncates now to the minute the due-check covers, in the
// schedule's configured timezone.
func WindowStart(schedule *types.Schedule, now time.Time) (time.Time, error) {
	loc, err := schedule.Location()
	if err != nil {
		return time.Time{}, err
	}
	local := now.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), local.Hour(), local.Minute(), 0, 0, loc), nil
}

// IsDue reports whether the schedule should fire in the minute containing
// now. Wall-clock times are interpreted in the schedule's timezone, so a
// schedule spanning a DST transition fires at the configured local time,
// not after a fixed elapsed duration. The caller still owes the run-log
// window check before executing.
func IsDue(schedule *types.Schedule, now time.Time) bool {
	windowStart, err := WindowStart(schedule, now)
	if err != nil {
		return false
	}

	if schedule.CronExpression != "" {
		sched, err := ParseCron(schedule.CronExpression)
		if err != nil {
			return false
		}
		return sched.Next(windowStart.Add(-time.Second)).Equal(windowStart)
	}

	if len(schedule.Days) == 0 || len(schedule.Times) == 0 {
		return false
	}
	if !lo.Contains(schedule.Days, int(windowStart.Weekday())) {
		return false
	}

	// Duplicate times collapse: the window check matches at most once per
	// minute no matter how often a time is listed.
	current := windowStart.Format("15:04")
	return lo.Contains(schedule.Times, current)
}

// NextRun returns the next instant the schedule will fire strictly after
// now, or nil when the recurrence is empty or unparseable.
func NextRun(schedule *types.Schedule, now time.Time) *time.Time {
	loc, err := schedule.Location()
	if err != nil {
		return nil
	}
	local := now.In(loc)

	if schedule.CronExpression != "" {
		sched, err := ParseCron(schedule.CronExpression)
		if err != nil {
			return nil
		}
		next := sched.Next(local)
		if next.IsZero() {
			return nil
		}
		return &next
	}

	if len(schedule.Days) == 0 || len(schedule.Times) == 0 {
		return nil
	}

	times := parseTimes(schedule.Times)
	if len(times) == 0 {
		return nil
	}

	// Today first: the earliest configured time later than now on an
	// included weekday. Then walk forward up to a week, pairing each
	// included day with the earliest time.
	for offset := 0; offset <= 7; offset++ {
		day := local.AddDate(0, 0, offset)
		if !lo.Contains(schedule.Days, int(day.Weekday())) {
			continue
		}
		for _, tod := range times {
			candidate := time.Date(day.Year(), day.Month(), day.Day(), tod.hour, tod.minute, 0, 0, loc)
			if candidate.After(local) {
				return &candidate
			}
		}
	}
	return nil
}

type timeOfDay struct {
	hour, minute int
}

func parseTimes(values []string) []timeOfDay {
	parsed := make([]timeOfDay, 0, len(values))
	for _, v := range values {
		t, err := time.Parse("15:04", v)
		if err != nil {
			continue
		}
		parsed = append(parsed, timeOfDay{hour: t.Hour(), minute: t.Minute()})
	}
	sort.Slice(parsed, func(i, j int) bool {
		if parsed[i].hour != parsed[j].hour {
			return parsed[i].hour < parsed[j].hour
		}
		return parsed[i].minute < parsed[j].minute
	})
	return parsed
}
