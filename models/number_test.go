package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestNumberUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		value float64
		set   bool
		valid bool
	}{
		{"number", `12.5`, 12.5, true, true},
		{"numeric string", `"7"`, 7, true, true},
		{"padded string", `" 3.25 "`, 3.25, true, true},
		{"empty string", `""`, 0, false, false},
		{"null", `null`, 0, false, false},
		{"garbage", `"abc"`, 0, true, false},
		{"zero", `0`, 0, true, true},
		{"negative", `-4`, -4, true, true},
		{"object", `{"a":1}`, 0, true, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var n Number
			require.NoError(t, json.Unmarshal([]byte(tc.input), &n))
			assert.Equal(t, tc.value, n.Value)
			assert.Equal(t, tc.set, n.Set)
			assert.Equal(t, tc.valid, n.Valid)
		})
	}
}

func TestNumberDecodedEqualsConstructed(t *testing.T) {
	var fromString, fromNumber Number
	require.NoError(t, json.Unmarshal([]byte(`"7"`), &fromString))
	require.NoError(t, json.Unmarshal([]byte(`7`), &fromNumber))
	assert.Equal(t, NewNumber(7), fromString)
	assert.Equal(t, fromNumber, fromString)
}

func TestNumberMissingFieldStaysUnset(t *testing.T) {
	var body struct {
		Price Number `json:"price"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{}`), &body))
	assert.False(t, body.Price.Set)
	assert.Equal(t, 0.0, body.Price.Float())
}

func TestNumberMarshalJSON(t *testing.T) {
	out, err := json.Marshal(struct {
		A Number `json:"a"`
		B Number `json:"b"`
	}{A: NewNumber(1.5)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1.5,"b":null}`, string(out))
}

func TestNumberBSON(t *testing.T) {
	type doc struct {
		Value Number `bson:"value"`
	}

	data, err := bson.Marshal(doc{Value: NewNumber(42.5)})
	require.NoError(t, err)
	var back doc
	require.NoError(t, bson.Unmarshal(data, &back))
	assert.Equal(t, NewNumber(42.5), back.Value)

	data, err = bson.Marshal(bson.M{"value": int32(3)})
	require.NoError(t, err)
	var fromInt doc
	require.NoError(t, bson.Unmarshal(data, &fromInt))
	assert.Equal(t, 3.0, fromInt.Value.Float())

	data, err = bson.Marshal(bson.M{"value": nil})
	require.NoError(t, err)
	var fromNull doc
	require.NoError(t, bson.Unmarshal(data, &fromNull))
	assert.False(t, fromNull.Value.Valid)
}

func TestIncomeSourceJSON(t *testing.T) {
	var in Income
	body := `{"dollar": 100, "zcash": {"raw": "170000", "converted": "10"}, "Cash": ""}`
	require.NoError(t, json.Unmarshal([]byte(body), &in))

	assert.False(t, in.Dollar.Pair)
	assert.Equal(t, 100.0, in.Dollar.Value())
	assert.True(t, in.ZaadCash.Pair)
	assert.Equal(t, 170000.0, in.ZaadCash.Raw.Float())
	assert.Equal(t, 10.0, in.ZaadCash.Value())
	assert.Equal(t, 0.0, in.Cash.Value())

	out, err := json.Marshal(in.ZaadCash)
	require.NoError(t, err)
	assert.JSONEq(t, `{"raw":170000,"converted":10}`, string(out))
}

func TestIncomeBSONRoundTrip(t *testing.T) {
	in := Income{
		Dollar:   PlainIncome(12),
		ZaadCash: ConvertedIncome(1000, 0.5),
	}
	data, err := bson.Marshal(in)
	require.NoError(t, err)

	var raw bson.M
	require.NoError(t, bson.Unmarshal(data, &raw))
	assert.Contains(t, raw, "dollar")
	assert.Contains(t, raw, "zcash")
	assert.NotContains(t, raw, "edahab")

	var back Income
	require.NoError(t, bson.Unmarshal(data, &back))
	assert.Equal(t, 12.0, back.Dollar.Value())
	assert.True(t, back.ZaadCash.Pair)
	assert.Equal(t, 0.5, back.ZaadCash.Value())
}

func TestProductJSONCarriesTotal(t *testing.T) {
	out, err := json.Marshal(Product{Name: "rice", Price: 2.5, Quantity: 4})
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(out, &m))
	assert.Equal(t, 10.0, m["total"])
	assert.Equal(t, "rice", m["name"])
}

func TestProductsTotal(t *testing.T) {
	assert.Equal(t, 25.0, ProductsTotal([]Product{{Price: 10, Quantity: 2}, {Price: 5, Quantity: 1}}))
	assert.True(t, ProductUpdate{}.Empty())
	category := "x"
	assert.True(t, ProductUpdate{Category: &category}.Empty())
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole(" Admin ")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, r)
	assert.True(t, r.IsAdmin())

	_, err = ParseRole("cashier")
	assert.Error(t, err)
}
