package domain

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// ID is an upstream record identifier. The API emits numeric ids for some tables and
// string ids for others, so both decode.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*id = ""
		return nil
	}
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if f, ok := raw.(float64); ok {
		*id = ID(strconv.FormatFloat(f, 'f', -1, 64))
		return nil
	}
	s, err := cast.ToStringE(raw)
	if err != nil {
		return fmt.Errorf("invalid id %s: %w", string(data), err)
	}
	*id = ID(s)
	return nil
}

func (id ID) String() string {
	return string(id)
}

// Amount is a money or percentage value. Upstream payloads carry these either as JSON
// numbers or as numeric strings ("1250.00").
type Amount float64

func (a *Amount) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*a = 0
		return nil
	}
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if s, ok := raw.(string); ok && s == "" {
		*a = 0
		return nil
	}
	f, err := cast.ToFloat64E(raw)
	if err != nil {
		return fmt.Errorf("invalid amount %s: %w", string(data), err)
	}
	*a = Amount(f)
	return nil
}

// Float64 returns the amount as float64
func (a Amount) Float64() float64 {
	return float64(a)
}

// Decimal returns the amount as a decimal for arithmetic
func (a Amount) Decimal() decimal.Decimal {
	return decimal.NewFromFloat(float64(a))
}
