package survey

import (
	"cmp"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Kind tags the representation held by a Value.
type Kind uint8

const (
	KindNone Kind = iota
	KindNumber
	KindText
	KindDate
	KindTime
	KindDateTime
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	case KindDate:
		return "date"
	case KindTime:
		return "time"
	case KindDateTime:
		return "datetime"
	default:
		return "none"
	}
}

// Value is a typed, comparable answer or rule constant.
// The zero Value has KindNone and compares with nothing.
type Value struct {
	kind Kind
	num  float64
	text string
	t    time.Time
}

func Number(n float64) Value {
	return Value{kind: KindNumber, num: n}
}

func Text(s string) Value {
	return Value{kind: KindText, text: s}
}

// Date builds a calendar-day value; the time component is dropped.
func Date(year int, month time.Month, day int) Value {
	return Value{kind: KindDate, t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day.
func DateOf(t time.Time) Value {
	return Date(t.Year(), t.Month(), t.Day())
}

// TimeOfDay builds an hour/minute value.
func TimeOfDay(hour, minute int) Value {
	return Value{kind: KindTime, t: time.Date(0, time.January, 1, hour, minute, 0, 0, time.UTC)}
}

// DateTime combines a date value and a time-of-day value into a UTC timestamp.
// It reports false if either operand has the wrong kind.
func DateTime(date, tod Value) (Value, bool) {
	if date.kind != KindDate || tod.kind != KindTime {
		return Value{}, false
	}
	d, t := date.t, tod.t
	return Value{
		kind: KindDateTime,
		t:    time.Date(d.Year(), d.Month(), d.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC),
	}, true
}

func (v Value) Kind() Kind        { return v.kind }
func (v Value) IsZero() bool      { return v.kind == KindNone }
func (v Value) Num() float64      { return v.num }
func (v Value) Str() string       { return v.text }
func (v Value) Time() time.Time   { return v.t }
func (v Value) IsNumber() bool    { return v.kind == KindNumber }
func (v Value) IsDate() bool      { return v.kind == KindDate }
func (v Value) IsTimeOfDay() bool { return v.kind == KindTime }

// Equal reports whether both values have the same kind and compare equal.
func (v Value) Equal(o Value) bool {
	c, ok := v.Compare(o)
	return ok && c == 0
}

// Compare orders v against o. ok is false when the kinds differ or either
// side is the zero Value.
func (v Value) Compare(o Value) (c int, ok bool) {
	if v.kind == KindNone || v.kind != o.kind {
		return 0, false
	}
	switch v.kind {
	case KindNumber:
		return cmp.Compare(v.num, o.num), true
	case KindText:
		return strings.Compare(v.text, o.text), true
	default:
		return v.t.Compare(o.t), true
	}
}

// AddOffset shifts the value by n: numbers by n, dates by n whole days,
// date-times by n hours. Text and times of day are returned unchanged.
func (v Value) AddOffset(n float64) Value {
	switch v.kind {
	case KindNumber:
		v.num += n
	case KindDate:
		v.t = v.t.AddDate(0, 0, int(n))
	case KindDateTime:
		v.t = v.t.Add(time.Duration(n * float64(time.Hour)))
	}
	return v
}

func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindText:
		return v.text
	case KindDate:
		return v.t.Format(time.DateOnly)
	case KindTime:
		return v.t.Format("15:04")
	case KindDateTime:
		return v.t.Format("2006-01-02 15:04")
	default:
		return ""
	}
}

// Unix seconds rather than time.Duration, which overflows past about 292 years.
const (
	secondsPerHour = 60 * 60
	secondsPerDay  = 24 * secondsPerHour
)

// DaysBetween returns to - from in whole days for two date values.
func DaysBetween(from, to Value) (int, bool) {
	if from.kind != KindDate || to.kind != KindDate {
		return 0, false
	}
	return int((to.t.Unix() - from.t.Unix()) / secondsPerDay), true
}

// HoursBetween returns to - from in (possibly fractional) hours for two
// date-time values.
func HoursBetween(from, to Value) (float64, bool) {
	if from.kind != KindDateTime || to.kind != KindDateTime {
		return 0, false
	}
	return float64(to.t.Unix()-from.t.Unix()) / secondsPerHour, true
}

// AgeInCompletedYears is the number of full years between birth and on.
func AgeInCompletedYears(birth, on Value) (int, bool) {
	if birth.kind != KindDate || on.kind != KindDate {
		return 0, false
	}
	b, o := birth.t, on.t
	age := o.Year() - b.Year()
	if b.Month() > o.Month() || (b.Month() == o.Month() && b.Day() > o.Day()) {
		age--
	}
	return age, true
}

var (
	integerPattern = regexp.MustCompile(`^[-+]?\d+$`)
	decimalPattern = regexp.MustCompile(`^[-+]?(\d+\.?\d*|\.\d+)$`)
	dateLayouts    = []string{time.DateOnly, "2/1/2006"}
	timeLayouts    = []string{"15:04", "15:04:05"}
)

// ParseConstant interprets a rule constant: numeric text becomes a Number,
// ISO dates become a Date, anything else stays Text.
func ParseConstant(s string) Value {
	s = strings.TrimSpace(s)
	if s == "" {
		return Value{}
	}
	if n, ok := parseNumber(s); ok {
		return Number(n)
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return DateOf(t)
	}
	return Text(s)
}

func parseNumber(s string) (float64, bool) {
	if !decimalPattern.MatchString(s) {
		return 0, false
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(n, 0) || math.IsNaN(n) {
		return 0, false
	}
	return n, true
}

// ParseValue parses non-blank raw input according to a question type.
// It reports false when the input is malformed for that type.
func ParseValue(q *Question, raw string) (Value, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Value{}, false
	}

	switch q.Type {
	case TypeInteger:
		if integerPattern.MatchString(s) {
			n, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return Value{}, false
			}
			return Number(float64(n)), true
		}
		// "3.0" is an integer, "3.5" is not
		if n, ok := parseNumber(s); ok && n == math.Trunc(n) {
			return Number(n), true
		}
		return Value{}, false
	case TypeDecimal:
		n, ok := parseNumber(s)
		if !ok {
			return Value{}, false
		}
		return Number(n), true
	case TypeDate:
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return DateOf(t), true
			}
		}
		return Value{}, false
	case TypeTime:
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return TimeOfDay(t.Hour(), t.Minute()), true
			}
		}
		return Value{}, false
	case TypeChoice:
		if len(q.Options) > 0 && !hasOption(q.Options, s) {
			return Value{}, false
		}
		if n, ok := parseNumber(s); ok {
			return Number(n), true
		}
		return Text(s), true
	case TypeText:
		return Text(s), true
	default:
		return Value{}, false
	}
}

func hasOption(options []string, s string) bool {
	for _, o := range options {
		if strings.EqualFold(strings.TrimSpace(o), s) {
			return true
		}
		// numeric option codes match regardless of formatting ("01" == "1")
		if a, ok := parseNumber(strings.TrimSpace(o)); ok {
			if b, ok := parseNumber(s); ok && a == b {
				return true
			}
		}
	}
	return false
}
