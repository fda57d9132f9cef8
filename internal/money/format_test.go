package money

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestFormat(t *testing.T) {
	f := NewFormatter("")
	tests := []struct {
		in   string
		want string
	}{
		{"0", "₱0"},
		{"999.4", "₱999"},
		{"12500", "₱12,500"},
		{"1234567.5", "₱1,234,568"},
		{"-2000", "-₱2,000"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := f.Format(decimal.RequireFromString(tt.in)); got != tt.want {
				t.Errorf("Format(%s) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestExact(t *testing.T) {
	f := NewFormatter("$")
	tests := []struct {
		in   string
		want string
	}{
		{"1500.5", "$1,500.50"},
		{"0.05", "$0.05"},
		{"2.999", "$3.00"},
		{"-10.25", "-$10.25"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := f.Exact(decimal.RequireFromString(tt.in)); got != tt.want {
				t.Errorf("Exact(%s) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
