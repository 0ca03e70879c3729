package stepcsv

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Column encodings. Each type reads any finite number and writes its own
// precision.
type (
	integer int64
	plain   float64 // shortest decimal form
	fixed2  float64 // two decimals
	fixed8  float64 // eight decimals
)

func parseNumber(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	return v, nil
}

func formatFloat(v float64, prec int) []byte {
	if v == 0 {
		v = 0 // drop the sign of -0
	}
	return strconv.AppendFloat(nil, v, 'f', prec, 64)
}

func (v integer) MarshalText() ([]byte, error) { return strconv.AppendInt(nil, int64(v), 10), nil }
func (v plain) MarshalText() ([]byte, error)   { return formatFloat(float64(v), -1), nil }
func (v fixed2) MarshalText() ([]byte, error)  { return formatFloat(float64(v), 2), nil }
func (v fixed8) MarshalText() ([]byte, error)  { return formatFloat(float64(v), 8), nil }

// UnmarshalText accepts whole numbers only. Float spellings such as "12.0"
// or "1e3" are allowed as long as they fit an int64 exactly.
func (v *integer) UnmarshalText(b []byte) error {
	s := strings.TrimSpace(string(b))
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		*v = integer(n)
		return nil
	}

	f, err := parseNumber(s)
	if err != nil {
		return err
	}
	// 2^63 is exact in float64, so the upper bound is exclusive
	if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return fmt.Errorf("%q is not an integer", string(b))
	}
	*v = integer(f)
	return nil
}

func (v *plain) UnmarshalText(b []byte) error {
	f, err := parseNumber(string(b))
	*v = plain(f)
	return err
}

func (v *fixed2) UnmarshalText(b []byte) error {
	f, err := parseNumber(string(b))
	*v = fixed2(f)
	return err
}

func (v *fixed8) UnmarshalText(b []byte) error {
	f, err := parseNumber(string(b))
	*v = fixed8(f)
	return err
}
