package view

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatOptions controls compact number formatting.
type FormatOptions struct {
	Locale            string // only "en-US" rendering is implemented
	MaxFractionDigits int    // 0 means the default of 3
	Currency          bool   // prefix with "$"
}

// DefaultLocale is the locale used when none is given.
const DefaultLocale = "en-US"

const defaultMaxFractionDigits = 3

var compactSuffixes = []struct {
	threshold float64
	suffix    string
}{
	{1e12, "T"},
	{1e9, "B"},
	{1e6, "M"},
	{1e3, "K"},
}

// FormatCompact renders a number as a compact human string, e.g. "1.2K" or
// "$4.5M". Fraction digits are capped (default 3) and trailing zeros are
// stripped when the scaled value is integral.
func FormatCompact(value float64, opts FormatOptions) string {
	digits := opts.MaxFractionDigits
	if digits <= 0 {
		digits = defaultMaxFractionDigits
	}

	neg := ""
	if value < 0 {
		neg = "-"
		value = -value
	}

	scaled := value
	suffix := ""
	for _, s := range compactSuffixes {
		if value >= s.threshold {
			scaled = value / s.threshold
			suffix = s.suffix
			break
		}
	}

	text := strconv.FormatFloat(scaled, 'f', digits, 64)
	text = strings.TrimRight(text, "0")
	text = strings.TrimRight(text, ".")

	prefix := ""
	if opts.Currency {
		prefix = "$"
	}
	return prefix + neg + text + suffix
}

// FormatCompactString parses a decimal string and formats it compactly.
// Unparseable input renders as zero: mappers must stay total.
func FormatCompactString(value string, opts FormatOptions) string {
	return FormatCompact(parseFloat(value), opts)
}

// FormatPercent renders a rate as a percentage string with up to two
// fraction digits, e.g. "12.5%".
func FormatPercent(value float64) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return "0%"
	}
	text := strconv.FormatFloat(value, 'f', 2, 64)
	text = strings.TrimRight(text, "0")
	text = strings.TrimRight(text, ".")
	return fmt.Sprintf("%s%%", text)
}

// parseFloat parses a decimal string, returning 0 for anything malformed.
func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
