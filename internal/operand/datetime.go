package operand

import (
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/groblegark/kjql/internal/model"
	"github.com/groblegark/kjql/internal/registry"
)

// Absolute date layouts. The first two carry a time component and are
// only accepted by datetime-capable fields.
var (
	dateTimeLayouts = []string{"2006/01/02 15:04", "2006-01-02 15:04"}
	dateOnlyLayouts = []string{"2006/01/02", "2006-01-02"}
)

// resolveDate parses a date operand: absolute layouts, the signed
// period format ("-5d", "4w 2d"), or a raw epoch-millisecond integer.
// Fields without time precision (due, date pickers) reject absolute
// datetime strings with the relative-format error.
func (r *Resolver) resolveDate(f *registry.Field, op model.Operand, withTime bool) ([]model.Value, *model.QueryError) {
	dateErr := func() *model.QueryError {
		if withTime {
			return model.NewInvalidDateFormat(op.SourceText(), f.Name)
		}
		return model.NewInvalidRelativeDateFormat(op.SourceText(), f.Name)
	}

	if op.Kind == model.OperandNumber {
		millis, err := strconv.ParseInt(op.Str, 10, 64)
		if err != nil {
			return nil, dateErr()
		}
		return []model.Value{model.TimeValue(time.UnixMilli(millis).In(r.now.Location()))}, nil
	}

	text := strings.TrimSpace(op.Str)
	if text == "" {
		return nil, dateErr()
	}

	if withTime {
		for _, layout := range dateTimeLayouts {
			if t, err := time.ParseInLocation(layout, text, r.now.Location()); err == nil {
				return []model.Value{model.TimeValue(t)}, nil
			}
		}
	} else if hasTimeComponent(text) {
		// '2009-05-13 18:50' against a date-only field.
		return nil, dateErr()
	}
	for _, layout := range dateOnlyLayouts {
		if t, err := time.ParseInLocation(layout, text, r.now.Location()); err == nil {
			return []model.Value{model.DateValue(t)}, nil
		}
	}

	if t, ok := r.parsePeriod(text); ok {
		return []model.Value{model.TimeValue(t)}, nil
	}
	return nil, dateErr()
}

// hasTimeComponent detects an absolute datetime shape: a date part
// followed by HH:mm.
func hasTimeComponent(text string) bool {
	parts := strings.Fields(text)
	if len(parts) != 2 || !strings.Contains(parts[1], ":") {
		return false
	}
	for _, layout := range dateOnlyLayouts {
		if _, err := time.Parse(layout, parts[0]); err == nil {
			return true
		}
	}
	return false
}

// parsePeriod parses the relative period format: an optional leading
// sign followed by unit terms ("4w 2d", "-5d", "1h 30m"). Weeks, days,
// hours, and minutes are calendar units relative to the reference time.
func (r *Resolver) parsePeriod(text string) (time.Time, bool) {
	s := strings.TrimSpace(text)
	negative := false
	switch {
	case strings.HasPrefix(s, "-"):
		negative = true
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return time.Time{}, false
	}

	var total time.Duration
	for _, term := range fields {
		if len(term) < 2 {
			return time.Time{}, false
		}
		unit := unicode.ToLower(rune(term[len(term)-1]))
		n, err := strconv.ParseInt(term[:len(term)-1], 10, 64)
		if err != nil || n < 0 {
			return time.Time{}, false
		}
		switch unit {
		case 'w':
			total += time.Duration(n) * 7 * 24 * time.Hour
		case 'd':
			total += time.Duration(n) * 24 * time.Hour
		case 'h':
			total += time.Duration(n) * time.Hour
		case 'm':
			total += time.Duration(n) * time.Minute
		default:
			return time.Time{}, false
		}
	}
	if negative {
		total = -total
	}
	return r.now.Add(total), true
}
