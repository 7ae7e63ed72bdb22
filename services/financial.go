package services

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"casri/ledger"
	"casri/models"
	"casri/store"
	"casri/utils"
)

// FinancialInput holds the line items of a daily log.
type FinancialInput struct {
	Income              models.Income       `json:"income"`
	AccountsAdjustments []models.Adjustment `json:"accountsAdjustments"`
	Expenses            []models.Expense    `json:"expenses"`
}

func (in FinancialInput) normalize() FinancialInput {
	adjs := make([]models.Adjustment, 0, len(in.AccountsAdjustments))
	for _, a := range in.AccountsAdjustments {
		a.Label = strings.TrimSpace(a.Label)
		if a.Label == "" {
			a.Label = models.DefaultAdjustmentLabel
		}
		adjs = append(adjs, a)
	}
	exps := make([]models.Expense, 0, len(in.Expenses))
	for _, e := range in.Expenses {
		e.Name = strings.TrimSpace(e.Name)
		exps = append(exps, e)
	}
	return FinancialInput{Income: in.Income, AccountsAdjustments: adjs, Expenses: exps}
}

// LogReport pairs a stored log with its recomputed and live figures.
type LogReport struct {
	Log        models.FinancialLog   `json:"log"`
	Snapshot   models.Totals         `json:"snapshot"`
	Recomputed models.Totals         `json:"recomputed"`
	Diverged   bool                  `json:"diverged"`
	Live       ledger.Reconciliation `json:"live"`
}

type FinancialService struct {
	logs     store.FinancialLogStore
	products store.ProductStore
	cal      Calendar
}

func NewFinancialService(logs store.FinancialLogStore, products store.ProductStore, cal Calendar) *FinancialService {
	return &FinancialService{logs: logs, products: products, cal: cal}
}

// Create stores a log together with its totals snapshot.
func (s *FinancialService) Create(ctx context.Context, in FinancialInput) (models.FinancialLog, error) {
	in = in.normalize()
	now := s.cal.now()

	log := models.FinancialLog{
		Date:                now,
		Income:              in.Income,
		AccountsAdjustments: in.AccountsAdjustments,
		Expenses:            in.Expenses,
		Totals:              ledger.Snapshot(in.Income, in.AccountsAdjustments, in.Expenses),
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := s.logs.Insert(ctx, &log); err != nil {
		return models.FinancialLog{}, err
	}
	return log, nil
}

// ByDate lists the logs dated on a YYYY-MM-DD day.
func (s *FinancialService) ByDate(ctx context.Context, token string) ([]models.FinancialLog, utils.DayRange, error) {
	day, err := s.cal.queryDate(token)
	if err != nil {
		return nil, utils.DayRange{}, err
	}
	logs, err := s.On(ctx, day)
	if err != nil {
		return nil, day, err
	}
	if len(logs) == 0 {
		return nil, day, ErrEmptyResult
	}
	return logs, day, nil
}

// On lists the logs of day, possibly none.
func (s *FinancialService) On(ctx context.Context, day utils.DayRange) ([]models.FinancialLog, error) {
	return s.logs.FindDatedIn(ctx, day)
}

// UpdateLineItems replaces a log's income, adjustments and expenses. The
// stored totals are left untouched; Report shows the divergence.
func (s *FinancialService) UpdateLineItems(ctx context.Context, id primitive.ObjectID, in FinancialInput) (LogReport, error) {
	in = in.normalize()
	log, err := s.logs.UpdateLineItems(ctx, id, in.Income, in.AccountsAdjustments, in.Expenses, s.cal.now())
	if err != nil {
		return LogReport{}, err
	}
	return report(log, 0), nil
}

// Recompute refreshes a log's stored totals from its current line items.
func (s *FinancialService) Recompute(ctx context.Context, id primitive.ObjectID) (LogReport, error) {
	log, err := s.logs.FindByID(ctx, id)
	if err != nil {
		return LogReport{}, err
	}
	log, err = s.logs.UpdateTotals(ctx, id, ledger.Recompute(log), s.cal.now())
	if err != nil {
		return LogReport{}, err
	}
	return report(log, 0), nil
}

// Reconcile compares each log of a YYYY-MM-DD day with the product sales
// recorded that day.
func (s *FinancialService) Reconcile(ctx context.Context, token string) ([]LogReport, float64, utils.DayRange, error) {
	logs, day, err := s.ByDate(ctx, token)
	if err != nil {
		return nil, 0, day, err
	}
	reports, sales, err := s.ReconcileDay(ctx, day, logs)
	return reports, sales, day, err
}

// ReconcileDay builds reports for logs against the product sales of day.
func (s *FinancialService) ReconcileDay(ctx context.Context, day utils.DayRange, logs []models.FinancialLog) ([]LogReport, float64, error) {
	products, err := s.products.FindCreatedIn(ctx, day, nil)
	if err != nil {
		return nil, 0, err
	}
	sales := ledger.SalesTotal(products)

	reports := make([]LogReport, 0, len(logs))
	for _, log := range logs {
		reports = append(reports, report(log, sales))
	}
	return reports, sales, nil
}

func report(log models.FinancialLog, sales float64) LogReport {
	return LogReport{
		Log:        log,
		Snapshot:   log.Totals,
		Recomputed: ledger.Recompute(log),
		Diverged:   ledger.Diverged(log),
		Live:       ledger.Reconcile(log, sales),
	}
}
