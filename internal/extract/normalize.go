package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jalshrestha/capitolwatch/internal/model"
)

// AmountRange is the numeric bounds parsed from a disclosure amount band.
// Min <= Max always holds for parsed values.
type AmountRange struct {
	Min int64
	Max int64
}

var (
	amountRangeRe  = regexp.MustCompile(`\$?([\d,]+)\s*-\s*\$?([\d,]+)`)
	amountSingleRe = regexp.MustCompile(`\$?([\d,]+)`)
	whitespaceRe   = regexp.MustCompile(`\s+`)
)

// ParseAmountRange parses "$a - $b" into {a, b} and a single "$v" into
// {v, v}. Inverted bands are reordered so Min <= Max holds for every parsed
// value. Unparsable input returns nil; the caller keeps the display string.
func ParseAmountRange(amount string) *AmountRange {
	if m := amountRangeRe.FindStringSubmatch(amount); m != nil {
		min, err1 := parseDollars(m[1])
		max, err2 := parseDollars(m[2])
		if err1 == nil && err2 == nil {
			if min > max {
				min, max = max, min
			}
			return &AmountRange{Min: min, Max: max}
		}
	}

	if m := amountSingleRe.FindStringSubmatch(amount); m != nil {
		if v, err := parseDollars(m[1]); err == nil {
			return &AmountRange{Min: v, Max: v}
		}
	}

	return nil
}

func parseDollars(s string) (int64, error) {
	return strconv.ParseInt(strings.ReplaceAll(s, ",", ""), 10, 64)
}

// NormalizeType canonicalizes a transaction type token by case-insensitive
// substring match. Tokens it cannot classify pass through unchanged.
func NormalizeType(token string) string {
	t := strings.ToLower(strings.TrimSpace(token))
	switch {
	case strings.Contains(t, "buy"), strings.Contains(t, "purchase"):
		return model.TradeBuy
	case strings.Contains(t, "sell"), strings.Contains(t, "sale"):
		return model.TradeSell
	case strings.Contains(t, "exchange"):
		return model.TradeExchange
	default:
		return token
	}
}

// NormalizeDate parses a numeric month/day/year token into midnight UTC of
// that date. Unparsable input falls back to the current processing time;
// that is deliberately lossy, not an error.
func NormalizeDate(token string) time.Time {
	parts := strings.Split(strings.TrimSpace(token), "/")
	if len(parts) == 3 {
		month, err1 := strconv.Atoi(parts[0])
		day, err2 := strconv.Atoi(parts[1])
		year, err3 := strconv.Atoi(parts[2])
		if err1 == nil && err2 == nil && err3 == nil &&
			month >= 1 && month <= 12 && day >= 1 && day <= 31 {
			return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
		}
	}
	return time.Now().UTC()
}

// NormalizeAmount collapses whitespace in an amount display string.
func NormalizeAmount(amount string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(amount, " "))
}
