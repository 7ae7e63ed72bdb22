package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// Number is an operator-entered amount. The dashboard posts numbers, numeric
// strings or empty strings, so decoding never fails: Set records that a
// non-blank value was supplied, Valid that it parsed as a finite number.
type Number struct {
	Value float64
	Set   bool
	Valid bool
}

// NewNumber returns a valid Number holding v.
func NewNumber(v float64) Number {
	return Number{Value: v, Set: true, Valid: true}
}

// Float returns the value, or 0 when it is missing or non-numeric.
func (n Number) Float() float64 {
	if !n.Valid {
		return 0
	}
	return n.Value
}

// IsZero lets bson omitempty drop missing numbers.
func (n Number) IsZero() bool {
	return !n.Valid
}

func (n *Number) UnmarshalJSON(data []byte) error {
	*n = Number{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	text := string(data)
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		text = strings.TrimSpace(s)
	} else if data[0] == '{' || data[0] == '[' {
		n.Set = true
		return nil
	}
	if text == "" {
		return nil
	}

	n.Set = true
	v, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	n.Value = v
	n.Valid = true
	return nil
}

func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

func (n Number) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if !n.Valid {
		return bsontype.Null, nil, nil
	}
	return bson.MarshalValue(n.Value)
}

func (n *Number) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	*n = Number{}
	v, ok, err := numericValue(bson.RawValue{Type: t, Value: data})
	if err != nil || !ok {
		return err
	}
	*n = NewNumber(v)
	return nil
}

// numericValue reads a bson double/int32/int64/decimal128. Null and
// undefined are reported as absent.
func numericValue(rv bson.RawValue) (float64, bool, error) {
	switch rv.Type {
	case bsontype.Null, bsontype.Undefined, 0:
		return 0, false, nil
	case bsontype.Double:
		return rv.Double(), true, nil
	case bsontype.Int32:
		return float64(rv.Int32()), true, nil
	case bsontype.Int64:
		return float64(rv.Int64()), true, nil
	case bsontype.Decimal128:
		v, err := strconv.ParseFloat(rv.Decimal128().String(), 64)
		if err != nil {
			return 0, false, nil
		}
		return v, true, nil
	case bsontype.String:
		v, err := strconv.ParseFloat(strings.TrimSpace(rv.StringValue()), 64)
		if err != nil {
			return 0, false, nil
		}
		return v, true, nil
	default:
		return 0, false, fmt.Errorf("cannot decode bson %s into a number", rv.Type)
	}
}
