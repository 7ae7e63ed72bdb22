// Package ledger holds the reconciliation arithmetic of the daily financial
// log. Two modes coexist and stay separate:
//
//   - Snapshot: the totals stored with a log when it is created.
//     combined = income + expenses, balance = combined + adjustments.
//   - Reconcile: the live view against the day's product sales.
//     combined = income + expenses + adjustments, balance = combined - sales.
//
// All sums are exact decimals rounded to cents. Missing or non-numeric
// inputs count as zero; nothing here returns an error.
package ledger

import (
	"github.com/shopspring/decimal"

	"casri/models"
)

// Places is the number of decimal places every total is rounded to.
const Places = 2

// IncomeSource names one summed income channel.
type IncomeSource struct {
	Key  string
	Name string
	get  func(models.Income) models.IncomeSource
}

// Value returns the contribution of this channel in in.
func (s IncomeSource) Value(in models.Income) float64 {
	return s.get(in).Value()
}

// CanonicalSources fixes which income fields are read. Edahab carries a raw
// figure only and is not summed.
var CanonicalSources = []IncomeSource{
	{Key: "zdollar", Name: "zaad-dollar", get: func(in models.Income) models.IncomeSource { return in.ZaadDollar }},
	{Key: "zcash", Name: "zaad-cash", get: func(in models.Income) models.IncomeSource { return in.ZaadCash }},
	{Key: "edahabCash", Name: "edahab-cash", get: func(in models.Income) models.IncomeSource { return in.EdahabCash }},
	{Key: "Cash", Name: "cash", get: func(in models.Income) models.IncomeSource { return in.Cash }},
	{Key: "dollar", Name: "dollar", get: func(in models.Income) models.IncomeSource { return in.Dollar }},
	{Key: "account", Name: "account", get: func(in models.Income) models.IncomeSource { return in.Account }},
}

func dec(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

func cents(d decimal.Decimal) decimal.Decimal {
	return d.Round(Places)
}

func incomeTotal(in models.Income) decimal.Decimal {
	sum := decimal.Zero
	for _, src := range CanonicalSources {
		sum = sum.Add(dec(src.Value(in)))
	}
	return cents(sum)
}

func adjustmentsTotal(adjs []models.Adjustment) decimal.Decimal {
	sum := decimal.Zero
	for _, a := range adjs {
		sum = sum.Add(dec(a.Value.Float()))
	}
	return cents(sum)
}

func expensesTotal(exps []models.Expense) decimal.Decimal {
	sum := decimal.Zero
	for _, e := range exps {
		sum = sum.Add(dec(e.Amount.Float()))
	}
	return cents(sum)
}

// IncomeTotal sums the canonical income channels.
func IncomeTotal(in models.Income) float64 {
	return incomeTotal(in).InexactFloat64()
}

// AdjustmentsTotal sums adjustment values.
func AdjustmentsTotal(adjs []models.Adjustment) float64 {
	return adjustmentsTotal(adjs).InexactFloat64()
}

// ExpensesTotal sums expense amounts.
func ExpensesTotal(exps []models.Expense) float64 {
	return expensesTotal(exps).InexactFloat64()
}

// Snapshot computes the totals stored with a new log.
func Snapshot(in models.Income, adjs []models.Adjustment, exps []models.Expense) models.Totals {
	income := incomeTotal(in)
	adjustments := adjustmentsTotal(adjs)
	expenses := expensesTotal(exps)
	combined := income.Add(expenses)
	balance := combined.Add(adjustments)

	return models.Totals{
		IncomeTotal:      income.InexactFloat64(),
		AdjustmentsTotal: adjustments.InexactFloat64(),
		ExpensesTotal:    expenses.InexactFloat64(),
		CombinedTotal:    combined.InexactFloat64(),
		Balance:          balance.InexactFloat64(),
	}
}

// Recompute derives fresh snapshot totals from a log's current line items.
func Recompute(log models.FinancialLog) models.Totals {
	return Snapshot(log.Income, log.AccountsAdjustments, log.Expenses)
}

// Diverged reports whether the stored totals no longer match the line items.
func Diverged(log models.FinancialLog) bool {
	return !Equal(log.Totals, Recompute(log))
}

// Equal compares two snapshots at cent precision.
func Equal(a, b models.Totals) bool {
	pairs := [][2]float64{
		{a.IncomeTotal, b.IncomeTotal},
		{a.AdjustmentsTotal, b.AdjustmentsTotal},
		{a.ExpensesTotal, b.ExpensesTotal},
		{a.CombinedTotal, b.CombinedTotal},
		{a.Balance, b.Balance},
	}
	for _, p := range pairs {
		if !cents(dec(p[0])).Equal(cents(dec(p[1]))) {
			return false
		}
	}
	return true
}

// Consistent checks the snapshot identities
// combined = income + expenses and balance = combined + adjustments.
func Consistent(t models.Totals) bool {
	combined := dec(t.IncomeTotal).Add(dec(t.ExpensesTotal))
	balance := dec(t.CombinedTotal).Add(dec(t.AdjustmentsTotal))
	return combined.Equal(dec(t.CombinedTotal)) && balance.Equal(dec(t.Balance))
}
