package operand

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/groblegark/kjql/internal/model"
	"github.com/groblegark/kjql/internal/registry"
)

// resolveDuration parses a work-duration operand. A bare number is
// minutes; a textual duration ("1h 30m", "2d", "1w") is scaled by the
// configured hours-per-day and days-per-week, so the same literal can
// resolve to different minute counts under different time-tracking
// settings. Negative or unparsable durations are rejected.
func (r *Resolver) resolveDuration(f *registry.Field, op model.Operand) ([]model.Value, *model.QueryError) {
	if op.Kind == model.OperandNumber {
		minutes, err := strconv.ParseInt(op.Str, 10, 64)
		if err != nil || minutes < 0 {
			return nil, model.NewInvalidDurationFormat(op.SourceText(), f.Name)
		}
		return []model.Value{model.DurationValue(minutes)}, nil
	}

	minutes, ok := parseDurationText(op.Str, r.snap.TimeTracking())
	if !ok {
		return nil, model.NewInvalidDurationFormat(op.SourceText(), f.Name)
	}
	return []model.Value{model.DurationValue(minutes)}, nil
}

// parseDurationText sums unit terms into minutes. Units: m, h, d, w;
// d and w scale by the time-tracking settings.
func parseDurationText(text string, tt registry.TimeTracking) (int64, bool) {
	fields := strings.Fields(strings.TrimSpace(text))
	if len(fields) == 0 {
		return 0, false
	}

	minutesPerDay := tt.HoursPerDay * 60
	minutesPerWeek := tt.DaysPerWeek * minutesPerDay

	var total float64
	for _, term := range fields {
		if len(term) < 2 {
			return 0, false
		}
		unit := unicode.ToLower(rune(term[len(term)-1]))
		n, err := strconv.ParseFloat(term[:len(term)-1], 64)
		if err != nil || n < 0 {
			return 0, false
		}
		switch unit {
		case 'm':
			total += n
		case 'h':
			total += n * 60
		case 'd':
			total += n * minutesPerDay
		case 'w':
			total += n * minutesPerWeek
		default:
			return 0, false
		}
	}
	return int64(total), true
}
