package sqldb

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestCents(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int64
	}{
		{name: "whole", in: "1500", want: 150000},
		{name: "cents", in: "0.10", want: 10},
		{name: "half cent rounds", in: "12.345", want: 1235},
		{name: "negative", in: "-2.50", want: -250},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := dec(tt.in)
			v, err := inCents(&d).Value()
			if err != nil {
				t.Fatalf("Value failed: %v", err)
			}
			if v != tt.want {
				t.Errorf("Value = %v, want %d", v, tt.want)
			}
		})
	}

	t.Run("scan", func(t *testing.T) {
		for _, src := range []any{int64(30), []byte("30"), "30"} {
			var d decimal.Decimal
			if err := inCents(&d).Scan(src); err != nil {
				t.Fatalf("Scan(%#v) failed: %v", src, err)
			}
			if !d.Equal(dec("0.30")) {
				t.Errorf("Scan(%#v) = %s, want 0.30", src, d)
			}
		}
		var d decimal.Decimal
		if err := inCents(&d).Scan(0.3); err == nil {
			t.Error("expected error scanning a float")
		}
	})
}
