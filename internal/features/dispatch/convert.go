package dispatch

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"go-cet-sync/internal/features/syncconfig"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DatePrefix marks an epoch-seconds date value on the wire. The destination
// platform treats the prefixed string as opaque; it is never re-parsed as a
// date on this side.
const DatePrefix = "$D_"

// dateLayouts are tried in order when a date-typed value arrives as a string.
// A date-only value parses to midnight UTC.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Convert coerces a raw field value to its destination-typed form. It is a
// pure function: nil in, nil out; a failed numeric parse yields 0 rather
// than an error.
func Convert(value any, dataType string) any {
	if value == nil {
		return nil
	}

	switch dataType {
	case syncconfig.DataTypeNumber:
		n, err := strconv.ParseFloat(Stringify(value), 64)
		if err != nil {
			return float64(0)
		}
		return n

	case syncconfig.DataTypeBoolean:
		// Only a case-insensitive "true" is truthy; everything else,
		// including unparseable junk, coerces to false.
		return strings.EqualFold(Stringify(value), "true")

	case syncconfig.DataTypeDate:
		if t, ok := asTime(value); ok {
			// Unix() truncates toward zero, never rounds.
			return DatePrefix + strconv.FormatInt(t.Unix(), 10)
		}
		return Stringify(value)

	default: // Text or unrecognized
		return Stringify(value)
	}
}

func asTime(value any) (time.Time, bool) {
	switch v := value.(type) {
	case time.Time:
		return v, true
	case primitive.DateTime:
		return v.Time(), true
	case string:
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, v); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

// Stringify renders a value the way the platform's string conversion does.
// Floats keep their shortest exact form, so whole numbers never grow an
// exponent.
func Stringify(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", value)
	}
}
