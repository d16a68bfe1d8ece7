package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// DateLayout is the textual form of a Date.
const DateLayout = "2006-01-02"

// Date is a calendar date without time-of-day.
type Date struct {
	year  int
	month time.Month
	day   int
}

// NewDate returns the date for year, month and day, normalizing overflow the way time.Date does.
func NewDate(year int, month time.Month, day int) Date {
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{year: y, month: m, day: d}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: invalid date %q", ErrInvalidArgument, s)
	}
	return DateOf(t), nil
}

// Year returns the year of d.
func (d Date) Year() int { return d.year }

// Month returns the month of d.
func (d Date) Month() time.Month { return d.month }

// Day returns the day of the month of d.
func (d Date) Day() int { return d.day }

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool { return d == Date{} }

// Time returns midnight UTC of d.
func (d Date) Time() time.Time {
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, time.UTC)
}

func (d Date) String() string { return d.Time().Format(DateLayout) }

// Equal reports whether d and o are the same day.
func (d Date) Equal(o Date) bool { return d == o }

// Before reports whether d is strictly before o.
func (d Date) Before(o Date) bool { return d.compare(o) < 0 }

// After reports whether d is strictly after o.
func (d Date) After(o Date) bool { return d.compare(o) > 0 }

// AddDays returns d shifted by n days.
func (d Date) AddDays(n int) Date {
	return DateOf(d.Time().AddDate(0, 0, n))
}

func (d Date) compare(o Date) int {
	switch {
	case d.year != o.year:
		return d.year - o.year
	case d.month != o.month:
		return int(d.month) - int(o.month)
	default:
		return d.day - o.day
	}
}

// MarshalText implements encoding.TextMarshaler.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Date) UnmarshalText(text []byte) error {
	parsed, err := ParseDate(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Period is a date-based amount of time in years, months and days.
type Period struct {
	Years  int
	Months int
	Days   int
}

// Days returns a period of n days.
func Days(n int) Period { return Period{Days: n} }

// Months returns a period of n months.
func Months(n int) Period { return Period{Months: n} }

// Years returns a period of n years.
func Years(n int) Period { return Period{Years: n} }

// IsZero reports whether every component is zero.
func (p Period) IsZero() bool { return p == Period{} }

// AddTo returns d shifted by p. Years and months are applied first and the day
// is clamped to the last day of the resulting month; days are applied last.
func (p Period) AddTo(d Date) Date {
	totalMonths := p.Years*12 + p.Months
	if totalMonths != 0 {
		monthIndex := d.year*12 + int(d.month) - 1 + totalMonths
		year := floorDiv(monthIndex, 12)
		month := time.Month(monthIndex-year*12) + 1
		day := d.day
		if last := daysIn(year, month); day > last {
			day = last
		}
		d = Date{year: year, month: month, day: day}
	}
	if p.Days != 0 {
		d = d.AddDays(p.Days)
	}
	return d
}

// String renders p in ISO-8601 form, e.g. P1Y2M3D. The zero period is P0D.
func (p Period) String() string {
	if p.IsZero() {
		return "P0D"
	}
	s := "P"
	if p.Years != 0 {
		s += strconv.Itoa(p.Years) + "Y"
	}
	if p.Months != 0 {
		s += strconv.Itoa(p.Months) + "M"
	}
	if p.Days != 0 {
		s += strconv.Itoa(p.Days) + "D"
	}
	return s
}

var periodPattern = regexp.MustCompile(`^([-+]?)P(?:([-+]?\d+)Y)?(?:([-+]?\d+)M)?(?:([-+]?\d+)W)?(?:([-+]?\d+)D)?$`)

// ParsePeriod parses an ISO-8601 period such as P1D, P2W, P1Y6M or -P3D.
func ParsePeriod(s string) (Period, error) {
	m := periodPattern.FindStringSubmatch(s)
	if m == nil || (m[2] == "" && m[3] == "" && m[4] == "" && m[5] == "") {
		return Period{}, fmt.Errorf("%w: invalid period %q", ErrInvalidArgument, s)
	}

	parts := make([]int, 4)
	for i, raw := range m[2:] {
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return Period{}, fmt.Errorf("%w: invalid period %q", ErrInvalidArgument, s)
		}
		parts[i] = n
	}

	p := Period{Years: parts[0], Months: parts[1], Days: parts[2]*7 + parts[3]}
	if m[1] == "-" {
		p = Period{Years: -p.Years, Months: -p.Months, Days: -p.Days}
	}
	return p, nil
}

// MarshalText implements encoding.TextMarshaler.
func (p Period) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Period) UnmarshalText(text []byte) error {
	parsed, err := ParsePeriod(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
