package entity

import (
	"fmt"
	"math"
	"strconv"
)

// Money is an amount in currency minor units (cents).
type Money int64

// MoneyFromFloat converts a major-unit amount, rounding half away from zero.
func MoneyFromFloat(v float64) Money {
	return Money(math.Round(v * 100))
}

func (m Money) Times(n int) Money {
	return m * Money(n)
}

// Percent returns m * p / 100 rounded half-up to the nearest minor unit.
func (m Money) Percent(p int) Money {
	if p <= 0 || m == 0 {
		return 0
	}
	scaled := int64(m) * int64(p)
	if scaled < 0 {
		return -Money((-scaled + 50) / 100)
	}
	return Money((scaled + 50) / 100)
}

func (m Money) Float64() float64 {
	return float64(m) / 100
}

func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// MarshalJSON renders a decimal number with two fraction digits, e.g. 370.00.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Money) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		return nil
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid money amount %q: %w", s, err)
	}
	// amounts are exact to the cent
	cents := f * 100
	if math.Abs(cents-math.Round(cents)) > 1e-6 {
		return fmt.Errorf("invalid money amount %q: more than 2 decimal places", s)
	}
	*m = MoneyFromFloat(f)
	return nil
}
