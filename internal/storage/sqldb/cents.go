package sqldb

import (
	"database/sql/driver"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

// cents maps a decimal amount to an integer count of cents in the
// database. Integer columns keep sums such as current_amount + ? exact on
// both drivers; SQLite would store NUMERIC values as REAL.
type cents struct {
	d *decimal.Decimal
}

// inCents wraps d for use as a query argument or scan destination.
func inCents(d *decimal.Decimal) cents {
	return cents{d: d}
}

// Value implements driver.Valuer. Amounts are rounded to whole cents.
func (c cents) Value() (driver.Value, error) {
	return c.d.Shift(2).Round(0).IntPart(), nil
}

// Scan implements sql.Scanner.
func (c cents) Scan(src any) error {
	var n int64
	switch v := src.(type) {
	case int64:
		n = v
	case []byte:
		return c.parse(string(v))
	case string:
		return c.parse(v)
	default:
		return fmt.Errorf("cannot scan %T into cents", src)
	}
	*c.d = decimal.New(n, -2)
	return nil
}

func (c cents) parse(s string) error {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("cannot scan %q into cents: %w", s, err)
	}
	*c.d = decimal.New(n, -2)
	return nil
}
