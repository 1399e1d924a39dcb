package big3

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

// Value is a measurement that may be missing from the log.
// The zero Value is absent, which is not the same as a recorded 0.
type Value struct {
	v     float64
	valid bool
}

func Some(v float64) Value {
	return Value{v: v, valid: true}
}

func None() Value {
	return Value{}
}

func (v Value) Get() (float64, bool) {
	return v.v, v.valid
}

func (v Value) Present() bool {
	return v.valid
}

// Or returns the value, or def when absent.
func (v Value) Or(def float64) float64 {
	if !v.valid {
		return def
	}
	return v.v
}

// OrElse returns v when present, otherwise other.
func (v Value) OrElse(other Value) Value {
	if v.valid {
		return v
	}
	return other
}

func (v Value) String() string {
	if !v.valid {
		return "-"
	}
	return strconv.FormatFloat(v.v, 'f', -1, 64)
}

func (v Value) MarshalJSON() ([]byte, error) {
	if !v.valid || math.IsNaN(v.v) || math.IsInf(v.v, 0) {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(v.v, 'f', -1, 64)), nil
}

func (v *Value) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*v = None()
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*v = Some(f)
	return nil
}

// MarshalYAML renders an absent value as null.
func (v Value) MarshalYAML() (interface{}, error) {
	if !v.valid {
		return nil, nil
	}
	return v.v, nil
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
