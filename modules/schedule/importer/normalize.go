package importer

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02",
	"2006-01-02 15:04:05",
	"01/02/2006",
	"1/2/2006",
	"01/02/06",
	"1/2/06",
	"01-02-06",
	"02-Jan-2006",
	"2-Jan-06",
	"Jan 2, 2006",
	"January 2, 2006",
}

// ParseDate turns a raw cell into a calendar date. time.Time values pass
// through unchanged.
func ParseDate(v any) (time.Time, error) {
	switch typed := v.(type) {
	case time.Time:
		return typed, nil
	case *time.Time:
		if typed == nil {
			return time.Time{}, fmt.Errorf("%w: empty value", ErrInvalidDate)
		}
		return *typed, nil
	}
	s := asString(v)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty value", ErrInvalidDate)
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// NormalizeTime maps blank cells to "" and passes anything else through.
func NormalizeTime(v any) string {
	if IsBlank(v) {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return asString(v)
}

func IsBlank(v any) bool {
	switch typed := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(typed) == ""
	case []byte:
		return strings.TrimSpace(string(typed)) == ""
	case time.Time:
		return typed.IsZero()
	default:
		return false
	}
}

// CellString renders a raw cell as trimmed text. Dates render as 2006-01-02.
func CellString(v any) string {
	return asString(v)
}

func asString(v any) string {
	switch typed := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(typed)
	case []byte:
		return strings.TrimSpace(string(typed))
	case int:
		return strconv.Itoa(typed)
	case int32:
		return strconv.FormatInt(int64(typed), 10)
	case int64:
		return strconv.FormatInt(typed, 10)
	case float32:
		return strconv.FormatFloat(float64(typed), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(typed)
	case time.Time:
		return typed.Format("2006-01-02")
	case fmt.Stringer:
		return strings.TrimSpace(typed.String())
	default:
		return strings.TrimSpace(fmt.Sprint(typed))
	}
}

func asInt(v any) (int, error) {
	switch typed := v.(type) {
	case int:
		return typed, nil
	case int32:
		return int(typed), nil
	case int64:
		if typed > math.MaxInt || typed < math.MinInt {
			return 0, fmt.Errorf("%w: %d out of range", ErrInvalidNumber, typed)
		}
		return int(typed), nil
	case float64:
		return floatToInt(typed, strconv.FormatFloat(typed, 'g', -1, 64))
	}
	s := asString(v)
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	// spreadsheets render whole numbers as "2024.0" or "2,024" depending on cell format
	f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNumber, s)
	}
	return floatToInt(f, strconv.Quote(s))
}

// floatToInt accepts whole values that fit in an int. float64(math.MaxInt)
// rounds up to 2^63, so the upper bound is exclusive.
func floatToInt(f float64, raw string) (int, error) {
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %s", ErrInvalidNumber, raw)
	}
	if f >= math.MaxInt || f < math.MinInt {
		return 0, fmt.Errorf("%w: %s out of range", ErrInvalidNumber, raw)
	}
	return int(f), nil
}
