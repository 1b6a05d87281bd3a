package extract

import (
	"testing"
	"time"

	"github.com/jalshrestha/capitolwatch/internal/model"
)

func TestParseAmountRange(t *testing.T) {
	r := ParseAmountRange("$1,001 - $15,000")
	if r == nil {
		t.Fatal("Expected a parsed range")
	}
	if r.Min != 1001 || r.Max != 15000 {
		t.Errorf("Expected 1001-15000, got %d-%d", r.Min, r.Max)
	}
}

func TestParseAmountRangeSingleValue(t *testing.T) {
	r := ParseAmountRange("$50,000")
	if r == nil {
		t.Fatal("Expected a parsed range")
	}
	if r.Min != 50000 || r.Max != 50000 {
		t.Errorf("Expected 50000-50000, got %d-%d", r.Min, r.Max)
	}
}

func TestParseAmountRangeInvertedBand(t *testing.T) {
	r := ParseAmountRange("$15,000 - $1,001")
	if r == nil {
		t.Fatal("Expected a parsed range")
	}
	if r.Min != 1001 || r.Max != 15000 {
		t.Errorf("Expected reordered bounds 1001-15000, got %d-%d", r.Min, r.Max)
	}
}

func TestParseAmountRangeUnparsable(t *testing.T) {
	if r := ParseAmountRange("undisclosed"); r != nil {
		t.Errorf("Expected nil for unparsable input, got %+v", r)
	}
}

func TestNormalizeType(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Buy", model.TradeBuy},
		{"purchase", model.TradeBuy},
		{"Sell", model.TradeSell},
		{"Partial Sale", model.TradeSell},
		{"sale (full)", model.TradeSell},
		{"Exchange", model.TradeExchange},
		{"Hold", "Hold"},
	}

	for _, tt := range tests {
		if got := NormalizeType(tt.in); got != tt.want {
			t.Errorf("NormalizeType(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeDate(t *testing.T) {
	got := NormalizeDate("01/15/2024")
	want := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("NormalizeDate = %v, want %v", got, want)
	}
}

func TestNormalizeDateSingleDigits(t *testing.T) {
	got := NormalizeDate("2/5/2024")
	want := time.Date(2024, time.February, 5, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("NormalizeDate = %v, want %v", got, want)
	}
}

func TestNormalizeDateFallback(t *testing.T) {
	before := time.Now().UTC()
	got := NormalizeDate("13/45/2024")
	after := time.Now().UTC()

	if got.Before(before) || got.After(after) {
		t.Errorf("Expected fallback to current time, got %v", got)
	}
}

func TestNormalizeAmount(t *testing.T) {
	got := NormalizeAmount("  $1,001   -  $15,000 ")
	if got != "$1,001 - $15,000" {
		t.Errorf("NormalizeAmount = %q", got)
	}
}
