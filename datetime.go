package imap

import (
	"fmt"

	"github.com/meszmate/imap-codec/wire"
)

// NaiveDate is a calendar date with no time-of-day component, year
// 0..=9999, used by SEARCH's date-only keys (SINCE, BEFORE,
// ON, SENTSINCE, ...).
type NaiveDate struct {
	Year  uint16
	Month uint8 // 1..=12
	Day   uint8 // 1..=31
}

// NewNaiveDate validates its arguments and constructs a NaiveDate.
func NewNaiveDate(year uint16, month, day uint8) (NaiveDate, error) {
	if year > 9999 {
		return NaiveDate{}, errInvalid("NaiveDate", "year must be <= 9999")
	}
	if month < 1 || month > 12 {
		return NaiveDate{}, errInvalid("NaiveDate", "month must be 1..=12")
	}
	if day < 1 || day > 31 {
		return NaiveDate{}, errInvalid("NaiveDate", "day must be 1..=31")
	}
	return NaiveDate{Year: year, Month: month, Day: day}, nil
}

var monthNames = [...]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

func monthFromName(b []byte) (uint8, bool) {
	for i, name := range monthNames {
		if len(b) == 3 && wire.EqualFold(b, []byte(name)) {
			return uint8(i + 1), true
		}
	}
	return 0, false
}

// Encode writes dd-MMM-yyyy (no surrounding quotes; the caller supplies
// those via wire.Builder.QuotedString when the grammar wants a
// date-time, or directly for a bare date).
func (d NaiveDate) Encode(b *wire.Builder) {
	b.RawString(fmt.Sprintf("%02d-%s-%04d", d.Day, monthNames[d.Month-1], d.Year))
}

// String renders dd-MMM-yyyy.
func (d NaiveDate) String() string {
	return fmt.Sprintf("%02d-%s-%04d", d.Day, monthNames[d.Month-1], d.Year)
}

// ParseNaiveDate consumes "dd-MMM-yyyy" (unquoted digits/letters/hyphens;
// the caller strips surrounding quotes first when the grammar requires
// them, e.g. date-day-fixed inside a quoted date).
func ParseNaiveDate(b []byte) ([]byte, NaiveDate, error) {
	if len(b) < 11 {
		return nil, NaiveDate{}, wire.ErrIncomplete
	}
	day, err := parseTwoDigitsOrSP(b[0:2])
	if err != nil {
		return nil, NaiveDate{}, err
	}
	if b[2] != '-' {
		return nil, NaiveDate{}, &wire.SyntaxError{Msg: "expected '-' after day", At: 2}
	}
	month, ok := monthFromName(b[3:6])
	if !ok {
		return nil, NaiveDate{}, &wire.SyntaxError{Msg: "unrecognized month name", At: 3}
	}
	if b[6] != '-' {
		return nil, NaiveDate{}, &wire.SyntaxError{Msg: "expected '-' after month", At: 6}
	}
	year, err := parseFourDigits(b[7:11])
	if err != nil {
		return nil, NaiveDate{}, err
	}
	d, err := NewNaiveDate(year, month, day)
	if err != nil {
		return nil, NaiveDate{}, err
	}
	return b[11:], d, nil
}

func parseTwoDigitsOrSP(b []byte) (uint8, error) {
	hi := b[0]
	if hi == ' ' {
		hi = '0'
	} else if hi < '0' || hi > '9' {
		return 0, &wire.SyntaxError{Msg: "expected digit or SP", At: 0}
	}
	if b[1] < '0' || b[1] > '9' {
		return 0, &wire.SyntaxError{Msg: "expected digit", At: 1}
	}
	return (hi-'0')*10 + (b[1] - '0'), nil
}

func parseFourDigits(b []byte) (uint16, error) {
	var n uint16
	for i := 0; i < 4; i++ {
		if b[i] < '0' || b[i] > '9' {
			return 0, &wire.SyntaxError{Msg: "expected digit", At: i}
		}
		n = n*10 + uint16(b[i]-'0')
	}
	return n, nil
}

// DateTime is a full IMAP date-time: a NaiveDate, a time of day with no
// sub-second component, and a timezone offset measured in whole
// minutes. Wire form: `"dd-MMM-yyyy HH:MM:SS +ZZZZ"`.
type DateTime struct {
	Date                 NaiveDate
	Hour, Minute, Second uint8
	// TZOffsetMinutes is signed: the sign is carried separately on the
	// wire ("+"/"-") but folded in here so callers don't juggle two
	// fields; e.g. "-0530" is -330.
	TZOffsetMinutes int16
}

// NewDateTime validates its arguments.
func NewDateTime(date NaiveDate, hour, minute, second uint8, tzOffsetMinutes int16) (DateTime, error) {
	if hour > 23 {
		return DateTime{}, errInvalid("DateTime", "hour must be 0..=23")
	}
	if minute > 59 {
		return DateTime{}, errInvalid("DateTime", "minute must be 0..=59")
	}
	if second > 60 { // allow a leap second, per common RFC parser leniency
		return DateTime{}, errInvalid("DateTime", "second must be 0..=60")
	}
	if tzOffsetMinutes <= -1440 || tzOffsetMinutes >= 1440 {
		return DateTime{}, errInvalid("DateTime", "timezone offset must be within a day")
	}
	return DateTime{Date: date, Hour: hour, Minute: minute, Second: second, TZOffsetMinutes: tzOffsetMinutes}, nil
}

// Encode writes the unquoted "dd-MMM-yyyy HH:MM:SS +ZZZZ" body; the
// caller is responsible for the surrounding quotes (date-time is always
// a quoted string on the wire).
func (d DateTime) Encode(b *wire.Builder) {
	d.Date.Encode(b)
	sign := byte('+')
	off := d.TZOffsetMinutes
	if off < 0 {
		sign = '-'
		off = -off
	}
	b.RawString(fmt.Sprintf(" %02d:%02d:%02d %c%02d%02d", d.Hour, d.Minute, d.Second, sign, off/60, off%60))
}

// EncodeQuoted writes the full quoted date-time token.
func (d DateTime) EncodeQuoted(b *wire.Builder) {
	b.RawString(`"`)
	d.Encode(b)
	b.RawString(`"`)
}

// ParseDateTime consumes the unquoted body of a date-time (the caller
// has already consumed the surrounding quotes, per the date-time ABNF
// production, which is always quoted).
func ParseDateTime(b []byte) ([]byte, DateTime, error) {
	rest, date, err := ParseNaiveDate(b)
	if err != nil {
		return nil, DateTime{}, err
	}
	if len(rest) < 1 || rest[0] != ' ' {
		if len(rest) == 0 {
			return nil, DateTime{}, wire.ErrIncomplete
		}
		return nil, DateTime{}, &wire.SyntaxError{Msg: "expected SP before time", At: 0}
	}
	rest = rest[1:]
	if len(rest) < 8 {
		return nil, DateTime{}, wire.ErrIncomplete
	}
	hour, err := parseTwoDigits(rest[0:2])
	if err != nil {
		return nil, DateTime{}, err
	}
	if rest[2] != ':' {
		return nil, DateTime{}, &wire.SyntaxError{Msg: "expected ':'", At: 2}
	}
	minute, err := parseTwoDigits(rest[3:5])
	if err != nil {
		return nil, DateTime{}, err
	}
	if rest[5] != ':' {
		return nil, DateTime{}, &wire.SyntaxError{Msg: "expected ':'", At: 5}
	}
	second, err := parseTwoDigits(rest[6:8])
	if err != nil {
		return nil, DateTime{}, err
	}
	rest = rest[8:]
	if len(rest) < 1 || rest[0] != ' ' {
		if len(rest) == 0 {
			return nil, DateTime{}, wire.ErrIncomplete
		}
		return nil, DateTime{}, &wire.SyntaxError{Msg: "expected SP before zone", At: 0}
	}
	rest = rest[1:]
	if len(rest) < 5 {
		return nil, DateTime{}, wire.ErrIncomplete
	}
	var sign int16 = 1
	switch rest[0] {
	case '+':
	case '-':
		sign = -1
	default:
		return nil, DateTime{}, &wire.SyntaxError{Msg: "expected '+' or '-'", At: 0}
	}
	tzHour, err := parseTwoDigits(rest[1:3])
	if err != nil {
		return nil, DateTime{}, err
	}
	tzMin, err := parseTwoDigits(rest[3:5])
	if err != nil {
		return nil, DateTime{}, err
	}
	dt, err := NewDateTime(date, hour, minute, second, sign*(int16(tzHour)*60+int16(tzMin)))
	if err != nil {
		return nil, DateTime{}, err
	}
	return rest[5:], dt, nil
}

func parseTwoDigits(b []byte) (uint8, error) {
	if b[0] < '0' || b[0] > '9' || b[1] < '0' || b[1] > '9' {
		return 0, &wire.SyntaxError{Msg: "expected two digits", At: 0}
	}
	return (b[0]-'0')*10 + (b[1] - '0'), nil
}

// ParseQuotedDateTime consumes a quoted date-time token, including its
// surrounding double quotes.
func ParseQuotedDateTime(b []byte) ([]byte, DateTime, error) {
	rest, err := wire.ParseByte(b, '"')
	if err != nil {
		return nil, DateTime{}, err
	}
	rest, dt, err := ParseDateTime(rest)
	if err != nil {
		return nil, DateTime{}, err
	}
	rest, err = wire.ParseByte(rest, '"')
	if err != nil {
		return nil, DateTime{}, err
	}
	return rest, dt, nil
}
