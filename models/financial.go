package models

import (
	"bytes"
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IncomeSource is one income channel of a daily log. It is either a bare
// amount or a {raw, converted} pair where converted is the operator's
// manually converted figure.
type IncomeSource struct {
	Amount    Number
	Raw       Number
	Converted Number
	Pair      bool
}

type incomePair struct {
	Raw       Number `bson:"raw,omitempty" json:"raw"`
	Converted Number `bson:"converted,omitempty" json:"converted"`
}

// PlainIncome builds a bare-amount source.
func PlainIncome(v float64) IncomeSource {
	return IncomeSource{Amount: NewNumber(v)}
}

// ConvertedIncome builds a {raw, converted} source.
func ConvertedIncome(raw, converted float64) IncomeSource {
	return IncomeSource{Raw: NewNumber(raw), Converted: NewNumber(converted), Pair: true}
}

// Value is the amount the source contributes to the income total.
func (s IncomeSource) Value() float64 {
	if s.Pair {
		return s.Converted.Float()
	}
	return s.Amount.Float()
}

func (s IncomeSource) IsZero() bool {
	return !s.Pair && !s.Amount.Valid
}

func (s *IncomeSource) UnmarshalJSON(data []byte) error {
	*s = IncomeSource{}
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var p incomePair
		if err := json.Unmarshal(data, &p); err != nil {
			return err
		}
		s.Raw, s.Converted, s.Pair = p.Raw, p.Converted, true
		return nil
	}
	return s.Amount.UnmarshalJSON(data)
}

func (s IncomeSource) MarshalJSON() ([]byte, error) {
	if s.Pair {
		return json.Marshal(incomePair{Raw: s.Raw, Converted: s.Converted})
	}
	return s.Amount.MarshalJSON()
}

func (s IncomeSource) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if s.Pair {
		return bson.MarshalValue(incomePair{Raw: s.Raw, Converted: s.Converted})
	}
	return s.Amount.MarshalBSONValue()
}

func (s *IncomeSource) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	*s = IncomeSource{}
	if t == bsontype.EmbeddedDocument {
		var p incomePair
		if err := bson.Unmarshal(data, &p); err != nil {
			return err
		}
		s.Raw, s.Converted, s.Pair = p.Raw, p.Converted, true
		return nil
	}
	return s.Amount.UnmarshalBSONValue(t, data)
}

// Income holds the fixed set of income channels. Field names follow the
// dashboard's form keys.
type Income struct {
	ZaadDollar IncomeSource `bson:"zdollar,omitempty" json:"zdollar"`
	ZaadCash   IncomeSource `bson:"zcash,omitempty" json:"zcash"`
	Edahab     IncomeSource `bson:"edahab,omitempty" json:"edahab"`
	EdahabCash IncomeSource `bson:"edahabCash,omitempty" json:"edahabCash"`
	Cash       IncomeSource `bson:"Cash,omitempty" json:"Cash"`
	Dollar     IncomeSource `bson:"dollar,omitempty" json:"dollar"`
	Account    IncomeSource `bson:"account,omitempty" json:"account"`
}

// DefaultAdjustmentLabel is used when an adjustment arrives without a label.
const DefaultAdjustmentLabel = "Acc"

type Adjustment struct {
	Label string `bson:"label" json:"label"`
	Value Number `bson:"value" json:"value"`
}

type Expense struct {
	Name   string `bson:"name" json:"name"`
	Amount Number `bson:"amount" json:"amount"`
}

// Totals is the point-in-time snapshot stored with a log.
type Totals struct {
	IncomeTotal      float64 `bson:"incomeTotal" json:"incomeTotal"`
	AdjustmentsTotal float64 `bson:"adjustmentsTotal" json:"adjustmentsTotal"`
	ExpensesTotal    float64 `bson:"expensesTotal" json:"expensesTotal"`
	CombinedTotal    float64 `bson:"combinedTotal" json:"combinedTotal"`
	Balance          float64 `bson:"balance" json:"balance"`
}

// FinancialLog is one day's reconciliation record.
type FinancialLog struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Date                time.Time          `bson:"date" json:"date"`
	Income              Income             `bson:"income" json:"income"`
	AccountsAdjustments []Adjustment       `bson:"accountsAdjustments" json:"accountsAdjustments"`
	Expenses            []Expense          `bson:"expenses" json:"expenses"`
	Totals              Totals             `bson:"totals" json:"totals"`
	CreatedAt           time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt           time.Time          `bson:"updatedAt" json:"updatedAt"`
}
