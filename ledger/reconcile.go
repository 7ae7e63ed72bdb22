package ledger

import (
	"github.com/shopspring/decimal"

	"casri/models"
)

// Reconciliation is the live comparison of a log against product sales.
type Reconciliation struct {
	IncomeTotal       float64 `json:"incomeTotal"`
	ExpensesTotal     float64 `json:"expensesTotal"`
	AdjustmentsTotal  float64 `json:"adjustmentsTotal"`
	ProductSalesTotal float64 `json:"productsTotal"`
	CombinedTotal     float64 `json:"combinedTotal"`
	Balance           float64 `json:"balance"`
}

// SalesTotal sums price * quantity over products in decimal.
func SalesTotal(products []models.Product) float64 {
	return salesTotal(products).InexactFloat64()
}

func salesTotal(products []models.Product) decimal.Decimal {
	sum := decimal.Zero
	for _, p := range products {
		sum = sum.Add(dec(p.Price).Mul(dec(float64(p.Quantity))))
	}
	return cents(sum)
}

// Reconcile computes the live-reconciliation view of log against the given
// product-sales total.
func Reconcile(log models.FinancialLog, productSales float64) Reconciliation {
	income := incomeTotal(log.Income)
	adjustments := adjustmentsTotal(log.AccountsAdjustments)
	expenses := expensesTotal(log.Expenses)
	sales := cents(dec(productSales))
	combined := income.Add(expenses).Add(adjustments)

	return Reconciliation{
		IncomeTotal:       income.InexactFloat64(),
		ExpensesTotal:     expenses.InexactFloat64(),
		AdjustmentsTotal:  adjustments.InexactFloat64(),
		ProductSalesTotal: sales.InexactFloat64(),
		CombinedTotal:     combined.InexactFloat64(),
		Balance:           combined.Sub(sales).InexactFloat64(),
	}
}
