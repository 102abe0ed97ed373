package money

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestFormat(t *testing.T) {
	tests := map[string]string{
		"20":     "20.00",
		"43.4":   "43.40",
		"0":      "0.00",
		"19.999": "20.00",
	}

	for in, want := range tests {
		if got := Format(decimal.RequireFromString(in)); got != want {
			t.Errorf("Format(%s) = %s, want %s", in, got, want)
		}
	}
}
