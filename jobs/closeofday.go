// Package jobs holds the scheduled background work.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-co-op/gocron"

	"casri/models"
	"casri/services"
	"casri/utils"
)

// UserTotal is one user's sales in a Summary.
type UserTotal struct {
	Username string
	Count    int
	Total    float64
}

// Summary is the close-of-day picture of the shop.
type Summary struct {
	Day          utils.DayRange
	SalesCount   int
	SalesTotal   float64
	PerUser      []UserTotal
	Logs         []services.LogReport
	PendingCount int
	PendingTotal float64
}

type CloseOfDay struct {
	products    *services.ProductService
	financial   *services.FinancialService
	liabilities *services.LiabilityService
	cal         services.Calendar
	mailer      utils.Mailer
	to          string
	logger      *slog.Logger
	timeout     time.Duration
}

// NewCloseOfDay builds the job. mailer may be nil, in which case the
// summary is only logged.
func NewCloseOfDay(products *services.ProductService, financial *services.FinancialService, liabilities *services.LiabilityService, cal services.Calendar, mailer utils.Mailer, to string, logger *slog.Logger) *CloseOfDay {
	if logger == nil {
		logger = slog.Default()
	}
	return &CloseOfDay{
		products:    products,
		financial:   financial,
		liabilities: liabilities,
		cal:         cal,
		mailer:      mailer,
		to:          to,
		logger:      logger,
		timeout:     time.Minute,
	}
}

// Schedule registers the job to run every day at HH:MM in loc.
func (j *CloseOfDay) Schedule(loc *time.Location, at string) (*gocron.Scheduler, error) {
	s := gocron.NewScheduler(loc)
	if _, err := s.Every(1).Day().At(at).Do(j.Run); err != nil {
		return nil, fmt.Errorf("schedule close of day: %w", err)
	}
	return s, nil
}

// Run builds, logs and mails today's summary. Failures are logged only.
func (j *CloseOfDay) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	summary, err := j.Build(ctx, j.cal.Today())
	if err != nil {
		j.logger.Error("close of day failed", "error", err)
		return
	}

	j.logger.Info("close of day",
		"date", summary.Day.Label(),
		"sales_count", summary.SalesCount,
		"sales_total", summary.SalesTotal,
		"financial_logs", len(summary.Logs),
		"pending_liabilities", summary.PendingCount,
		"pending_total", summary.PendingTotal,
	)

	if j.mailer == nil || j.to == "" {
		return
	}
	subject := "Close of day " + summary.Day.Label()
	if err := j.mailer.SendEmail(j.to, subject, summary.Render()); err != nil {
		j.logger.Error("close of day mail failed", "to", j.to, "error", err)
	}
}

// Build gathers the summary of day.
func (j *CloseOfDay) Build(ctx context.Context, day utils.DayRange) (Summary, error) {
	sales, err := j.products.SalesOn(ctx, day)
	if err != nil {
		return Summary{}, fmt.Errorf("sales: %w", err)
	}

	logs, err := j.financial.On(ctx, day)
	if err != nil {
		return Summary{}, fmt.Errorf("financial logs: %w", err)
	}
	reports, salesTotal, err := j.financial.ReconcileDay(ctx, day, logs)
	if err != nil {
		return Summary{}, fmt.Errorf("reconcile: %w", err)
	}

	outstanding, err := j.liabilities.Outstanding(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("liabilities: %w", err)
	}

	return Summary{
		Day:          day,
		SalesCount:   len(sales),
		SalesTotal:   salesTotal,
		PerUser:      perUser(sales, j.usernames(ctx, day)),
		Logs:         reports,
		PendingCount: outstanding.Count,
		PendingTotal: outstanding.Total,
	}, nil
}

// usernames maps user ids to names for the day's sellers. A lookup failure
// degrades to ids in the report.
func (j *CloseOfDay) usernames(ctx context.Context, day utils.DayRange) map[string]string {
	names := map[string]string{}
	groups, err := j.products.UsersOnDay(ctx, day)
	if err != nil {
		if !errors.Is(err, services.ErrEmptyResult) {
			j.logger.Warn("close of day user lookup failed", "error", err)
		}
		return names
	}
	for _, g := range groups {
		for _, p := range g.Products {
			names[p.User.Hex()] = g.Username
		}
	}
	return names
}

func perUser(sales []models.Product, names map[string]string) []UserTotal {
	index := map[string]int{}
	var totals []UserTotal
	for _, p := range sales {
		key := p.User.Hex()
		i, ok := index[key]
		if !ok {
			name := names[key]
			if name == "" {
				name = key
			}
			i = len(totals)
			index[key] = i
			totals = append(totals, UserTotal{Username: name})
		}
		totals[i].Count++
		totals[i].Total += p.LineTotal()
	}
	return totals
}

// Render formats the summary as a plain-text mail body.
func (s Summary) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Close of day %s\n\n", s.Day.Label())
	fmt.Fprintf(&b, "Sales: %d products, total %.2f\n", s.SalesCount, s.SalesTotal)
	for _, u := range s.PerUser {
		fmt.Fprintf(&b, "  %s: %d products, %.2f\n", u.Username, u.Count, u.Total)
	}

	fmt.Fprintf(&b, "\nFinancial logs: %d\n", len(s.Logs))
	for _, r := range s.Logs {
		fmt.Fprintf(&b, "  income %.2f expenses %.2f adjustments %.2f combined %.2f balance %.2f",
			r.Live.IncomeTotal, r.Live.ExpensesTotal, r.Live.AdjustmentsTotal, r.Live.CombinedTotal, r.Live.Balance)
		if r.Diverged {
			b.WriteString(" (stored totals out of date)")
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "\nPending liabilities: %d, total %.2f\n", s.PendingCount, s.PendingTotal)
	return b.String()
}
