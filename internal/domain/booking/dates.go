package booking

import (
	"time"

	calendar "github.com/jinzhu/now"

	"github.com/hotel-yunuen/service-reservation/internal/platform/domain"
)

// DateLayout is the wire format for check-in and check-out dates.
const DateLayout = "2006-01-02"

// Day truncates t to midnight UTC.
func Day(t time.Time) time.Time {
	return calendar.With(t.UTC()).BeginningOfDay()
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, domain.NewValidationError("invalid date %q, expected YYYY-MM-DD", s)
	}
	return t.UTC(), nil
}

// DateRange is a stay expressed as the half-open interval [CheckIn, CheckOut).
// Both ends are calendar days at midnight UTC.
type DateRange struct {
	CheckIn  time.Time
	CheckOut time.Time
}

// NewDateRange normalises both dates and requires checkIn < checkOut.
func NewDateRange(checkIn, checkOut time.Time) (DateRange, error) {
	r := DateRange{CheckIn: Day(checkIn), CheckOut: Day(checkOut)}
	if !r.CheckIn.Before(r.CheckOut) {
		return DateRange{}, domain.NewValidationError("check-out date must be after check-in date")
	}
	return r, nil
}

// Nights is the number of calendar days between check-in and check-out.
func (r DateRange) Nights() int {
	return int(r.CheckOut.Sub(r.CheckIn).Hours() / 24)
}

// Overlaps reports whether the two stays share at least one night.
// A stay ending on the day another begins does not overlap it.
func (r DateRange) Overlaps(other DateRange) bool {
	return other.CheckIn.Before(r.CheckOut) && other.CheckOut.After(r.CheckIn)
}

// Covers reports whether day falls within [CheckIn, CheckOut], both inclusive.
func (r DateRange) Covers(day time.Time) bool {
	d := Day(day)
	return !d.Before(r.CheckIn) && !d.After(r.CheckOut)
}

func (r DateRange) String() string {
	return r.CheckIn.Format(DateLayout) + "/" + r.CheckOut.Format(DateLayout)
}
