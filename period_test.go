package dbeam

import (
	"math"
	"testing"
	"time"

	"cloud.google.com/go/civil"
)

func date(y, m, d int) civil.Date {
	return civil.Date{Year: y, Month: time.Month(m), Day: d}
}

func TestPeriodAddTo(t *testing.T) {
	tests := []struct {
		name   string
		period Period
		from   civil.Date
		want   civil.Date
	}{
		{"one day", Days(1), date(2024, 3, 15), date(2024, 3, 16)},
		{"day across year", Days(1), date(2024, 12, 31), date(2025, 1, 1)},
		{"leap day", Days(1), date(2024, 2, 28), date(2024, 2, 29)},
		{"one week", Weeks(1), date(2024, 12, 28), date(2025, 1, 4)},
		{"month clamps in leap year", Months(1), date(2024, 1, 31), date(2024, 2, 29)},
		{"month clamps", Months(1), date(2023, 1, 31), date(2023, 2, 28)},
		{"month keeps day", Months(1), date(2024, 2, 15), date(2024, 3, 15)},
		{"twelve months", Months(12), date(2024, 1, 31), date(2025, 1, 31)},
		{"months across year", Months(3), date(2024, 11, 30), date(2025, 2, 28)},
		{"year from leap day", Years(1), date(2024, 2, 29), date(2025, 2, 28)},
		{"years before months", Period{Years: 1, Months: 1}, date(2024, 2, 29), date(2025, 3, 28)},
		{"mixed", Period{Months: 1, Weeks: 1, Days: 1}, date(2024, 1, 31), date(2024, 3, 8)},
		{"negative months", Months(-1), date(2024, 3, 31), date(2024, 2, 29)},
		{"zero", Period{}, date(2024, 3, 31), date(2024, 3, 31)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.period.AddTo(tt.from); got != tt.want {
				t.Fatalf("%v.AddTo(%v) = %v; want %v", tt.period, tt.from, got, tt.want)
			}
		})
	}
}

func TestParsePeriod(t *testing.T) {
	tests := map[string]Period{
		"P1D":     Days(1),
		"P1M":     Months(1),
		"P2W":     Weeks(2),
		"P1Y":     Years(1),
		"P1Y2M3D": {Years: 1, Months: 2, Days: 3},
	}
	for in, want := range tests {
		got, err := ParsePeriod(in)
		if err != nil {
			t.Fatalf("ParsePeriod(%q) error = %v", in, err)
		}
		if got != want {
			t.Fatalf("ParsePeriod(%q) = %v; want %v", in, got, want)
		}
	}
}

func TestParsePeriodInvalid(t *testing.T) {
	for _, in := range []string{
		"", "1D", "day", "PT1H", "P1DT12H", "P1.5D", "-P1D", "P0D",
		"P2147483648D", "P99999999999999999999D", "P99999999999999999999Y",
	} {
		if _, err := ParsePeriod(in); !IsInvalidArgument(err) {
			t.Fatalf("ParsePeriod(%q) expected invalid argument, got %v", in, err)
		}
	}
}

func TestParsePeriodLargestComponent(t *testing.T) {
	p, err := ParsePeriod("P2147483647D")
	if err != nil {
		t.Fatalf("ParsePeriod error = %v", err)
	}
	if p.Days != math.MaxInt32 {
		t.Fatalf("Days = %d; want %d", p.Days, math.MaxInt32)
	}
	lo := date(2024, 1, 31)
	if hi := p.AddTo(lo); !lo.Before(hi) {
		t.Fatalf("AddTo(%s) = %s; want a later date", lo, hi)
	}
}

func TestPeriodString(t *testing.T) {
	tests := []struct {
		period Period
		want   string
	}{
		{Days(1), "P1D"},
		{Weeks(2), "P2W"},
		{Months(1), "P1M"},
		{Period{Years: 1, Months: 2, Days: 3}, "P1Y2M3D"},
		{Period{}, "P0D"},
	}
	for _, tt := range tests {
		if got := tt.period.String(); got != tt.want {
			t.Fatalf("String() = %q; want %q", got, tt.want)
		}
	}
}
