package types

import (
	"strconv"
	"strings"
)

// PriceBand is a predefined price bracket, inclusive on both ends.
// A nil Max leaves the band open upwards.
type PriceBand struct {
	Min float64  `json:"min" yaml:"min"`
	Max *float64 `json:"max,omitempty" yaml:"max,omitempty"`
}

func (b PriceBand) Contains(price float64) bool {
	if price < b.Min {
		return false
	}
	return b.Max == nil || price <= *b.Max
}

// String renders the band in the "min-max" form used in filter requests.
func (b PriceBand) String() string {
	lower := strconv.FormatFloat(b.Min, 'f', -1, 64)
	if b.Max == nil {
		return lower + "-"
	}
	return lower + "-" + strconv.FormatFloat(*b.Max, 'f', -1, 64)
}

func isOpenBound(s string) bool {
	switch strings.ToLower(s) {
	case "", "*", "inf", "infinity":
		return true
	}
	return false
}

// ParsePriceBand parses "min-max", "min-", "min-Infinity" and "min+".
func ParsePriceBand(value string) (PriceBand, bool) {
	v := strings.TrimSpace(value)
	if strings.HasSuffix(v, "+") {
		v = strings.TrimSuffix(v, "+") + "-"
	}
	lo, hi, found := strings.Cut(v, "-")
	if !found {
		return PriceBand{}, false
	}
	min, err := strconv.ParseFloat(strings.TrimSpace(lo), 64)
	if err != nil {
		return PriceBand{}, false
	}
	hi = strings.TrimSpace(hi)
	if isOpenBound(hi) {
		return PriceBand{Min: min}, true
	}
	max, err := strconv.ParseFloat(hi, 64)
	if err != nil || max < min {
		return PriceBand{}, false
	}
	return PriceBand{Min: min, Max: &max}, true
}

// ParsePriceBands drops every value that does not parse.
func ParsePriceBands(values []string) []PriceBand {
	ret := make([]PriceBand, 0, len(values))
	for _, v := range values {
		if b, ok := ParsePriceBand(v); ok {
			ret = append(ret, b)
		}
	}
	return ret
}
