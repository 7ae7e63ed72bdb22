package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"casri/models"
)

func TestSnapshotDollarAdjustmentExpense(t *testing.T) {
	in := models.Income{Dollar: models.PlainIncome(100)}
	adjs := []models.Adjustment{{Label: "Acc", Value: models.NewNumber(20)}}
	exps := []models.Expense{{Name: "rent", Amount: models.NewNumber(30)}}

	got := Snapshot(in, adjs, exps)

	assert.Equal(t, models.Totals{
		IncomeTotal:      100,
		AdjustmentsTotal: 20,
		ExpensesTotal:    30,
		CombinedTotal:    130,
		Balance:          150,
	}, got)
	assert.True(t, Consistent(got))
}

func TestSnapshotMissingFieldsCountAsZero(t *testing.T) {
	got := Snapshot(models.Income{}, nil, nil)
	assert.Equal(t, models.Totals{}, got)

	adjs := []models.Adjustment{{Label: "Acc"}, {Label: "x", Value: models.NewNumber(5)}}
	exps := []models.Expense{{Name: "blank"}}
	got = Snapshot(models.Income{}, adjs, exps)
	assert.Equal(t, 5.0, got.AdjustmentsTotal)
	assert.Equal(t, 0.0, got.ExpensesTotal)
	assert.Equal(t, 5.0, got.Balance)
}

func TestIncomeTotalUsesConvertedAndSkipsEdahab(t *testing.T) {
	in := models.Income{
		ZaadDollar: models.PlainIncome(10),
		ZaadCash:   models.ConvertedIncome(170000, 10),
		Edahab:     models.PlainIncome(999),
		EdahabCash: models.ConvertedIncome(85000, 5),
		Cash:       models.ConvertedIncome(34000, 2),
		Dollar:     models.PlainIncome(1.5),
		Account:    models.ConvertedIncome(0, 0.25),
	}

	assert.Equal(t, 28.75, IncomeTotal(in))
}

func TestTotalsAreExactToCents(t *testing.T) {
	adjs := []models.Adjustment{
		{Value: models.NewNumber(0.1)},
		{Value: models.NewNumber(0.2)},
	}
	assert.Equal(t, 0.3, AdjustmentsTotal(adjs))

	exps := []models.Expense{{Amount: models.NewNumber(1.005)}, {Amount: models.NewNumber(2.004)}}
	assert.Equal(t, 3.01, ExpensesTotal(exps))
}

func TestConsistentHoldsForFractionalInputs(t *testing.T) {
	in := models.Income{
		Dollar: models.PlainIncome(19.99),
		Cash:   models.ConvertedIncome(1000, 0.07),
	}
	adjs := []models.Adjustment{{Value: models.NewNumber(-3.33)}}
	exps := []models.Expense{{Amount: models.NewNumber(0.11)}, {Amount: models.NewNumber(7.77)}}

	got := Snapshot(in, adjs, exps)
	assert.True(t, Consistent(got))
	assert.Equal(t, 27.94, got.CombinedTotal)
	assert.Equal(t, 24.61, got.Balance)
}

func TestConsistentRejectsBrokenIdentity(t *testing.T) {
	assert.False(t, Consistent(models.Totals{IncomeTotal: 1, ExpensesTotal: 1, CombinedTotal: 3}))
}

func TestDivergedAfterLineItemEdit(t *testing.T) {
	log := models.FinancialLog{Income: models.Income{Dollar: models.PlainIncome(100)}}
	log.Totals = Recompute(log)
	require.False(t, Diverged(log))

	log.Expenses = append(log.Expenses, models.Expense{Name: "fuel", Amount: models.NewNumber(12.5)})
	assert.True(t, Diverged(log))

	log.Totals = Recompute(log)
	assert.False(t, Diverged(log))
	assert.Equal(t, 112.5, log.Totals.CombinedTotal)
}

func TestCanonicalSourcesKeys(t *testing.T) {
	keys := make([]string, 0, len(CanonicalSources))
	for _, src := range CanonicalSources {
		keys = append(keys, src.Key)
	}
	assert.Equal(t, []string{"zdollar", "zcash", "edahabCash", "Cash", "dollar", "account"}, keys)
}

func TestReconcileAgainstSales(t *testing.T) {
	log := models.FinancialLog{
		Income:              models.Income{Dollar: models.PlainIncome(100)},
		AccountsAdjustments: []models.Adjustment{{Value: models.NewNumber(20)}},
		Expenses:            []models.Expense{{Amount: models.NewNumber(30)}},
	}
	sales := SalesTotal([]models.Product{
		{Price: 10, Quantity: 2},
		{Price: 5, Quantity: 1},
	})
	require.Equal(t, 25.0, sales)

	got := Reconcile(log, sales)
	assert.Equal(t, Reconciliation{
		IncomeTotal:       100,
		ExpensesTotal:     30,
		AdjustmentsTotal:  20,
		ProductSalesTotal: 25,
		CombinedTotal:     150,
		Balance:           125,
	}, got)
}

func TestSalesTotalEmpty(t *testing.T) {
	assert.Equal(t, 0.0, SalesTotal(nil))
}
