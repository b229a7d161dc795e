package wikibase

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kulturarv/wikibasekit/pkg/constants"
	"github.com/kulturarv/wikibasekit/pkg/errors"
)

// TimePrecision uses the numeric precision codes of the wire format.
type TimePrecision int

// Precision codes. Anything coarser than PrecisionYear cannot be compared.
const (
	PrecisionBillionYears TimePrecision = 0
	PrecisionMillennium   TimePrecision = 6
	PrecisionCentury      TimePrecision = 7
	PrecisionDecade       TimePrecision = 8
	PrecisionYear         TimePrecision = 9
	PrecisionMonth        TimePrecision = 10
	PrecisionDay          TimePrecision = 11
	PrecisionHour         TimePrecision = 12
	PrecisionMinute       TimePrecision = 13
	PrecisionSecond       TimePrecision = 14
)

// Time is a point in time with explicit precision and calendar model.
// Fields beyond the precision are zero and carry no meaning.
type Time struct {
	Year      int64
	Month     int
	Day       int
	Hour      int
	Minute    int
	Second    int
	Precision TimePrecision
	Calendar  EntityID
}

// NewTime returns a time point in the proleptic Gregorian calendar.
func NewTime(year int64, month, day int, precision TimePrecision) Time {
	return Time{
		Year:      year,
		Month:     month,
		Day:       day,
		Precision: precision,
		Calendar:  EntityID(constants.GregorianCalendar),
	}
}

// ParseTimestamp parses a wire-format timestamp such as
// "+2020-01-31T00:00:00Z" into a Time with the given precision, in the
// Gregorian calendar.
func ParseTimestamp(ts string, precision TimePrecision) (Time, error) {
	s := strings.TrimSuffix(ts, "Z")
	sign := int64(1)
	switch {
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	case strings.HasPrefix(s, "-"):
		sign = -1
		s = s[1:]
	}

	datePart, timePart, hasTime := strings.Cut(s, "T")
	dateFields := strings.Split(datePart, "-")
	if len(dateFields) != 3 {
		return Time{}, errors.NewValidationError("timestamp", ts, "malformed date")
	}

	year, err := strconv.ParseInt(dateFields[0], 10, 64)
	if err != nil {
		return Time{}, errors.NewValidationError("timestamp", ts, "malformed year")
	}
	month, err1 := strconv.Atoi(dateFields[1])
	day, err2 := strconv.Atoi(dateFields[2])
	if err1 != nil || err2 != nil {
		return Time{}, errors.NewValidationError("timestamp", ts, "malformed month or day")
	}

	t := Time{
		Year:      sign * year,
		Month:     month,
		Day:       day,
		Precision: precision,
		Calendar:  EntityID(constants.GregorianCalendar),
	}

	if hasTime {
		timeFields := strings.Split(timePart, ":")
		if len(timeFields) != 3 {
			return Time{}, errors.NewValidationError("timestamp", ts, "malformed time")
		}
		t.Hour, err = strconv.Atoi(timeFields[0])
		if err != nil {
			return Time{}, errors.NewValidationError("timestamp", ts, "malformed hour")
		}
		t.Minute, err1 = strconv.Atoi(timeFields[1])
		t.Second, err2 = strconv.Atoi(timeFields[2])
		if err1 != nil || err2 != nil {
			return Time{}, errors.NewValidationError("timestamp", ts, "malformed minute or second")
		}
	}

	return t, nil
}

// Kind implements Value.
func (t Time) Kind() ValueKind { return KindTime }

// Key implements Value.
func (t Time) Key() string {
	return t.Timestamp() + "/" + strconv.Itoa(int(t.Precision)) + "/" + string(t.Calendar)
}

// String implements Value.
func (t Time) String() string { return t.Timestamp() }

// Timestamp renders the canonical wire-format timestamp, sign included.
func (t Time) Timestamp() string {
	sign := "+"
	year := t.Year
	if year < 0 {
		sign = "-"
		year = -year
	}
	return fmt.Sprintf("%s%04d-%02d-%02dT%02d:%02d:%02dZ",
		sign, year, t.Month, t.Day, t.Hour, t.Minute, t.Second)
}

// EqualAt compares two time points at the coarser of their precisions. The
// year is always compared; month, day, hour, minute and second only when
// both operands' precision reaches that field. A precision coarser than year
// on either side fails with ErrIncomparablePrecision, never a silent true.
// Calendar models must agree; a mismatch is unequal, not incomparable.
func (t Time) EqualAt(other Time) (bool, error) {
	if t.Precision < PrecisionYear || other.Precision < PrecisionYear {
		return false, fmt.Errorf("comparing %s and %s: %w",
			t.Timestamp(), other.Timestamp(), errors.ErrIncomparablePrecision)
	}

	if t.Calendar != other.Calendar {
		return false, nil
	}
	if t.Year != other.Year {
		return false, nil
	}

	precision := t.Precision
	if other.Precision < precision {
		precision = other.Precision
	}

	fields := []struct {
		at   TimePrecision
		a, b int
	}{
		{PrecisionMonth, t.Month, other.Month},
		{PrecisionDay, t.Day, other.Day},
		{PrecisionHour, t.Hour, other.Hour},
		{PrecisionMinute, t.Minute, other.Minute},
		{PrecisionSecond, t.Second, other.Second},
	}
	for _, f := range fields {
		if precision < f.at {
			break
		}
		if f.a != f.b {
			return false, nil
		}
	}
	return true, nil
}
