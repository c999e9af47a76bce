package report

import (
	"time"

	"github.com/retailpos/backend/internal/domain/shared"
)

// PeriodFilter names a fixed reporting window
type PeriodFilter string

const (
	PeriodToday      PeriodFilter = "today"
	PeriodYesterday  PeriodFilter = "yesterday"
	PeriodLast7Days  PeriodFilter = "last_7_days"
	PeriodLast30Days PeriodFilter = "last_30_days"
	PeriodCustom     PeriodFilter = "custom"
)

// MaxCustomRangeDays bounds custom report ranges
const MaxCustomRangeDays = 366

const dateLayout = "2006-01-02"

// Period is a half-open time window [Start, End)
type Period struct {
	Filter PeriodFilter
	Start  time.Time
	End    time.Time
}

// Contains reports whether t falls inside the window
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && t.Before(p.End)
}

// ResolvePeriod turns a filter name into concrete bounds in loc.
// Custom ranges take inclusive YYYY-MM-DD dates.
func ResolvePeriod(filter string, startDate, endDate string, now time.Time, loc *time.Location) (Period, error) {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)

	f := PeriodFilter(filter)
	if f == "" {
		f = PeriodToday
	}

	switch f {
	case PeriodToday:
		return Period{Filter: f, Start: today, End: today.AddDate(0, 0, 1)}, nil
	case PeriodYesterday:
		return Period{Filter: f, Start: today.AddDate(0, 0, -1), End: today}, nil
	case PeriodLast7Days:
		return Period{Filter: f, Start: today.AddDate(0, 0, -6), End: today.AddDate(0, 0, 1)}, nil
	case PeriodLast30Days:
		return Period{Filter: f, Start: today.AddDate(0, 0, -29), End: today.AddDate(0, 0, 1)}, nil
	case PeriodCustom:
		start, err := time.ParseInLocation(dateLayout, startDate, loc)
		if err != nil {
			return Period{}, shared.NewInvalidInputError("start_date must be a date in YYYY-MM-DD format")
		}
		end, err := time.ParseInLocation(dateLayout, endDate, loc)
		if err != nil {
			return Period{}, shared.NewInvalidInputError("end_date must be a date in YYYY-MM-DD format")
		}
		if end.Before(start) {
			return Period{}, shared.NewInvalidInputError("end_date cannot be before start_date")
		}
		end = end.AddDate(0, 0, 1)
		if end.Sub(start) > MaxCustomRangeDays*24*time.Hour+time.Hour {
			return Period{}, shared.NewInvalidInputError("Custom range cannot exceed 366 days")
		}
		return Period{Filter: f, Start: start, End: end}, nil
	default:
		return Period{}, shared.NewInvalidInputError("filter must be one of today, yesterday, last_7_days, last_30_days, custom")
	}
}
