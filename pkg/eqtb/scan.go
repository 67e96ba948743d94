package eqtb

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// unitFactors converts a physical unit to points.
var unitFactors = map[string]float64{
	"pt": 1,
	"in": 72.27,
	"cm": 72.27 / 2.54,
	"mm": 72.27 / 25.4,
	"bp": 72.27 / 72,
	"pc": 12,
}

// MaxDimen is the largest length magnitude in scaled points, just under
// 16384pt.
const MaxDimen = 0x3FFFFFFF

// ParseDimension reads a length such as "12pt", "-1.5cm" or "3sp".
func ParseDimension(s string) (Dimension, error) {
	d, order, err := parseComponent(s, false)
	if err != nil {
		return 0, err
	}
	if order != Normal {
		return 0, fmt.Errorf("invalid dimension %q: infinite unit", s)
	}
	return d, nil
}

// ParseGlue reads "<width> [plus <stretch>] [minus <shrink>]". Stretch and
// shrink may use the fil, fill and filll units.
func ParseGlue(s string) (GlueSpec, error) {
	var g GlueSpec
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return g, fmt.Errorf("invalid glue %q: empty", s)
	}
	w, err := ParseDimension(fields[0])
	if err != nil {
		return g, err
	}
	g.Width = w
	rest := fields[1:]
	if len(rest) >= 2 && rest[0] == "plus" {
		g.Stretch, g.StretchOrder, err = parseComponent(rest[1], true)
		if err != nil {
			return g, err
		}
		rest = rest[2:]
	}
	if len(rest) >= 2 && rest[0] == "minus" {
		g.Shrink, g.ShrinkOrder, err = parseComponent(rest[1], true)
		if err != nil {
			return g, err
		}
		rest = rest[2:]
	}
	if len(rest) > 0 {
		return g, fmt.Errorf("invalid glue %q: unexpected %q", s, rest[0])
	}
	return g, nil
}

func parseComponent(s string, allowFil bool) (Dimension, GlueOrder, error) {
	i := strings.IndexFunc(s, func(r rune) bool {
		return (r < '0' || r > '9') && r != '.' && r != '-' && r != '+'
	})
	if i <= 0 {
		return 0, Normal, fmt.Errorf("invalid dimension %q: missing number or unit", s)
	}
	num, err := strconv.ParseFloat(s[:i], 64)
	if err != nil {
		return 0, Normal, fmt.Errorf("invalid dimension %q: %w", s, err)
	}
	unit := s[i:]
	var sp float64
	order := Normal
	switch {
	case unit == "sp":
		sp = math.Round(num)
	case allowFil && strings.HasPrefix(unit, "fil") && strings.Trim(unit[3:], "l") == "" && len(unit) <= 5:
		sp = math.Round(num * Unity)
		order = GlueOrder(len(unit) - 2)
	default:
		f, ok := unitFactors[unit]
		if !ok {
			return 0, Normal, fmt.Errorf("invalid dimension %q: unknown unit %q", s, unit)
		}
		sp = math.Round(num * f * Unity)
	}
	if math.Abs(sp) > MaxDimen {
		return 0, Normal, fmt.Errorf("invalid dimension %q: Dimension too large", s)
	}
	return Dimension(sp), order, nil
}
