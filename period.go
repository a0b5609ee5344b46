package dbeam

import (
	"fmt"
	"math"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/sosodev/duration"
)

// Period is a calendar-aware amount of time used to compute the exclusive
// upper bound of a partition window.
//
// Components are applied in order: years, months, weeks, days. Adding years
// or months keeps the day of month and clamps it to the last day of the
// resulting month, so 2024-01-31 plus one month is 2024-02-29.
type Period struct {
	Years  int
	Months int
	Weeks  int
	Days   int
}

// DefaultPartitionPeriod is the period used when none is configured.
var DefaultPartitionPeriod = Days(1)

// Days returns a period of n days.
func Days(n int) Period { return Period{Days: n} }

// Weeks returns a period of n weeks.
func Weeks(n int) Period { return Period{Weeks: n} }

// Months returns a period of n months.
func Months(n int) Period { return Period{Months: n} }

// Years returns a period of n years.
func Years(n int) Period { return Period{Years: n} }

// IsZero reports whether every component of p is zero.
func (p Period) IsZero() bool {
	return p == Period{}
}

// AddTo returns d moved forward by p.
func (p Period) AddTo(d civil.Date) civil.Date {
	d = addMonths(d, p.Years*12)
	d = addMonths(d, p.Months)
	return d.AddDays(p.Weeks*7 + p.Days)
}

func addMonths(d civil.Date, n int) civil.Date {
	if n == 0 {
		return d
	}
	total := int(d.Month) - 1 + n
	year := d.Year + floorDiv(total, 12)
	month := time.Month(total-floorDiv(total, 12)*12 + 1)
	return civil.Date{Year: year, Month: month, Day: min(d.Day, daysIn(year, month))}
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// String renders p in ISO-8601 period notation, e.g. "P1D" or "P1Y2M".
func (p Period) String() string {
	if p.IsZero() {
		return "P0D"
	}
	var b strings.Builder
	b.WriteString("P")
	for _, c := range []struct {
		n    int
		unit string
	}{{p.Years, "Y"}, {p.Months, "M"}, {p.Weeks, "W"}, {p.Days, "D"}} {
		if c.n != 0 {
			fmt.Fprintf(&b, "%d%s", c.n, c.unit)
		}
	}
	return b.String()
}

// maxPeriodComponent bounds each parsed component so that AddTo cannot
// overflow.
const maxPeriodComponent = math.MaxInt32

// ParsePeriod parses a date-based ISO-8601 period such as "P1D", "P2W" or
// "P1Y6M". Time components, fractions, components above math.MaxInt32 and
// non-positive periods are rejected.
func ParsePeriod(s string) (Period, error) {
	if !strings.HasPrefix(s, "P") {
		return Period{}, NewErrInvalidArgument("partitionPeriod", fmt.Sprintf("%q is not an ISO-8601 period", s))
	}
	d, err := duration.Parse(s)
	if err != nil {
		return Period{}, NewErrInvalidArgument("partitionPeriod", fmt.Sprintf("%q is not an ISO-8601 period: %v", s, err))
	}
	if d.Negative {
		return Period{}, NewErrInvalidArgument("partitionPeriod", fmt.Sprintf("%q must not be negative", s))
	}
	if d.Hours != 0 || d.Minutes != 0 || d.Seconds != 0 {
		return Period{}, NewErrInvalidArgument("partitionPeriod", fmt.Sprintf("%q must not have a time component", s))
	}

	var p Period
	for _, c := range []struct {
		v   float64
		dst *int
	}{{d.Years, &p.Years}, {d.Months, &p.Months}, {d.Weeks, &p.Weeks}, {d.Days, &p.Days}} {
		if c.v != math.Trunc(c.v) {
			return Period{}, NewErrInvalidArgument("partitionPeriod", fmt.Sprintf("%q must use whole numbers", s))
		}
		if c.v > maxPeriodComponent {
			return Period{}, NewErrInvalidArgument("partitionPeriod", fmt.Sprintf("%q is out of range", s))
		}
		*c.dst = int(c.v)
	}
	if p.IsZero() {
		return Period{}, NewErrInvalidArgument("partitionPeriod", fmt.Sprintf("%q must be positive", s))
	}
	return p, nil
}
