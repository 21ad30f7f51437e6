package model

import (
	"strconv"
	"strings"
	"time"
)

// Price is a float that tolerates the exchange's habit of sending numbers as
// quoted strings in some payloads and bare numbers in others.
type Price float64

func (p *Price) UnmarshalJSON(data []byte) error {
	value, err := parseFlexibleFloat(data)

	if err != nil {
		return err
	}

	*p = Price(value)

	return nil
}

func (p Price) Value() float64 {
	return float64(p)
}

type Volume float64

func (v *Volume) UnmarshalJSON(data []byte) error {
	value, err := parseFlexibleFloat(data)

	if err != nil {
		return err
	}

	*v = Volume(value)

	return nil
}

func (v Volume) Value() float64 {
	return float64(v)
}

func parseFlexibleFloat(data []byte) (float64, error) {
	raw := strings.Trim(string(data), `"`)

	if len(raw) == 0 || raw == "null" {
		return 0.00, nil
	}

	return strconv.ParseFloat(raw, 64)
}

type TimestampMilli int64

func (t TimestampMilli) Time() time.Time {
	return time.UnixMilli(int64(t))
}

type Percent float64

func (p Percent) Value() float64 {
	return float64(p)
}

func (p Percent) Gt(value float64) bool {
	return float64(p) > value
}

func (p Percent) Gte(value float64) bool {
	return float64(p) >= value
}

func (p Percent) Lt(value float64) bool {
	return float64(p) < value
}

func (p Percent) Lte(value float64) bool {
	return float64(p) <= value
}
