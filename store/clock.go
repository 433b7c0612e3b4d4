package store

import (
	"time"

	"github.com/jinzhu/now"
)

// ISODate is the calendar date layout used across streak records.
const ISODate = "2006-01-02"

// UTCClock is the production Clock. All calendar dates are UTC-normalized so a
// completion at 23:59 in one zone and 00:01 in another land on deterministic days.
type UTCClock struct{}

func (UTCClock) Now() time.Time {
	return time.Now().UTC()
}

func (UTCClock) Today() string {
	return now.New(time.Now().UTC()).BeginningOfDay().Format(ISODate)
}

// ParseDate validates an ISO calendar date string.
func ParseDate(date string) (time.Time, error) {
	t, err := time.ParseInLocation(ISODate, date, time.UTC)
	if err != nil {
		return time.Time{}, ErrInvalidInput
	}
	return t, nil
}

// DaysBetween returns the whole calendar days from one ISO date to another.
func DaysBetween(from, to string) (int, error) {
	f, err := ParseDate(from)
	if err != nil {
		return 0, err
	}
	t, err := ParseDate(to)
	if err != nil {
		return 0, err
	}
	return int(t.Sub(f).Hours() / 24), nil
}

// PrevDate returns the ISO date one day before the given one.
func PrevDate(date string) (string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, -1).Format(ISODate), nil
}
