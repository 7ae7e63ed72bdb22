// Package memory implements the store interfaces in process memory. It
// backs the service, handler and job tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"casri/models"
	"casri/store"
	"casri/utils"
)

// Products keeps products in insertion order.
type Products struct {
	mu      sync.Mutex
	items   []models.Product
	// FailInsert, when set, is returned by Insert.
	FailInsert error
}

func (m *Products) Insert(_ context.Context, p *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailInsert != nil {
		return m.FailInsert
	}
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	m.items = append(m.items, *p)
	return nil
}

func (m *Products) FindByID(_ context.Context, id primitive.ObjectID) (models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.items {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Product{}, store.ErrNotFound
}

func (m *Products) FindCreatedIn(_ context.Context, r utils.DayRange, owner *primitive.ObjectID) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Product{}
	for _, p := range m.items {
		if !r.Contains(p.CreatedAt) {
			continue
		}
		if owner != nil && p.User != *owner {
			continue
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *Products) Update(_ context.Context, id primitive.ObjectID, u models.ProductUpdate, now time.Time) (models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, p := range m.items {
		if p.ID != id {
			continue
		}
		if u.Name != nil {
			p.Name = *u.Name
		}
		if u.Description != nil {
			p.Description = *u.Description
		}
		if u.Category != nil {
			p.Category = *u.Category
		}
		if u.Price != nil {
			p.Price = *u.Price
		}
		if u.Quantity != nil {
			p.Quantity = *u.Quantity
		}
		p.UpdatedAt = now
		m.items[i] = p
		return p, nil
	}
	return models.Product{}, store.ErrNotFound
}

func (m *Products) Delete(_ context.Context, id primitive.ObjectID) (models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, p := range m.items {
		if p.ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return p, nil
		}
	}
	return models.Product{}, store.ErrNotFound
}

// Len is the number of stored products.
func (m *Products) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// Histories keeps one document per (user, day) like the unique index does.
type Histories struct {
	mu    sync.Mutex
	items []models.History
	// FailAppend, when set, is returned by Append.
	FailAppend error
}

func (m *Histories) Append(_ context.Context, user primitive.ObjectID, day time.Time, entry models.HistoryEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailAppend != nil {
		return m.FailAppend
	}
	for i, h := range m.items {
		if h.User == user && h.Date.Equal(day) {
			m.items[i].Products = append(m.items[i].Products, entry)
			return nil
		}
	}
	m.items = append(m.items, models.History{
		ID:       primitive.NewObjectID(),
		User:     user,
		Date:     day,
		Products: []models.HistoryEntry{entry},
	})
	return nil
}

func (m *Histories) FindForDay(_ context.Context, user primitive.ObjectID, r utils.DayRange) (models.History, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, h := range m.items {
		if h.User == user && r.Contains(h.Date) {
			return h, nil
		}
	}
	return models.History{}, store.ErrNotFound
}

func (m *Histories) FindByUser(_ context.Context, user primitive.ObjectID) ([]models.History, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.History{}
	for _, h := range m.items {
		if h.User == user {
			out = append(out, h)
		}
	}
	return out, nil
}

type Users struct {
	mu    sync.Mutex
	items []models.User
}

func (m *Users) Insert(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.items {
		if existing.Username == u.Username {
			return store.ErrDuplicate
		}
	}
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	m.items = append(m.items, *u)
	return nil
}

func (m *Users) FindByID(_ context.Context, id primitive.ObjectID) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.items {
		if u.ID == id {
			return u, nil
		}
	}
	return models.User{}, store.ErrNotFound
}

func (m *Users) FindByUsername(_ context.Context, username string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.items {
		if u.Username == username {
			return u, nil
		}
	}
	return models.User{}, store.ErrNotFound
}

func (m *Users) FindByRoles(_ context.Context, roles []models.Role) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.User{}
	for _, u := range m.items {
		for _, r := range roles {
			if u.Role == r {
				out = append(out, u)
				break
			}
		}
	}
	return out, nil
}

func (m *Users) Count(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.items)), nil
}

type FinancialLogs struct {
	mu    sync.Mutex
	items []models.FinancialLog
}

func (m *FinancialLogs) Insert(_ context.Context, log *models.FinancialLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if log.ID.IsZero() {
		log.ID = primitive.NewObjectID()
	}
	m.items = append(m.items, *log)
	return nil
}

func (m *FinancialLogs) FindByID(_ context.Context, id primitive.ObjectID) (models.FinancialLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range m.items {
		if l.ID == id {
			return l, nil
		}
	}
	return models.FinancialLog{}, store.ErrNotFound
}

func (m *FinancialLogs) FindDatedIn(_ context.Context, r utils.DayRange) ([]models.FinancialLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.FinancialLog{}
	for _, l := range m.items {
		if r.Contains(l.Date) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *FinancialLogs) UpdateLineItems(_ context.Context, id primitive.ObjectID, in models.Income, adjs []models.Adjustment, exps []models.Expense, now time.Time) (models.FinancialLog, error) {
	return m.update(id, func(l *models.FinancialLog) {
		l.Income, l.AccountsAdjustments, l.Expenses, l.UpdatedAt = in, adjs, exps, now
	})
}

func (m *FinancialLogs) UpdateTotals(_ context.Context, id primitive.ObjectID, totals models.Totals, now time.Time) (models.FinancialLog, error) {
	return m.update(id, func(l *models.FinancialLog) {
		l.Totals, l.UpdatedAt = totals, now
	})
}

func (m *FinancialLogs) update(id primitive.ObjectID, fn func(*models.FinancialLog)) (models.FinancialLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].ID == id {
			fn(&m.items[i])
			return m.items[i], nil
		}
	}
	return models.FinancialLog{}, store.ErrNotFound
}

type Liabilities struct {
	mu    sync.Mutex
	items []models.Liability
}

func (m *Liabilities) Insert(_ context.Context, l *models.Liability) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if l.ID.IsZero() {
		l.ID = primitive.NewObjectID()
	}
	m.items = append(m.items, *l)
	return nil
}

func (m *Liabilities) FindByID(_ context.Context, id primitive.ObjectID) (models.Liability, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range m.items {
		if l.ID == id {
			return l, nil
		}
	}
	return models.Liability{}, store.ErrNotFound
}

func (m *Liabilities) FindAll(context.Context) ([]models.Liability, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Liability{}, m.items...), nil
}

func (m *Liabilities) FindCreatedIn(_ context.Context, r utils.DayRange) ([]models.Liability, error) {
	return m.filter(func(l models.Liability) bool { return r.Contains(l.CreatedAt) }), nil
}

func (m *Liabilities) FindByStatus(_ context.Context, status models.LiabilityStatus) ([]models.Liability, error) {
	return m.filter(func(l models.Liability) bool { return l.Status == status }), nil
}

func (m *Liabilities) filter(keep func(models.Liability) bool) []models.Liability {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Liability{}
	for _, l := range m.items {
		if keep(l) {
			out = append(out, l)
		}
	}
	return out
}

func (m *Liabilities) Transition(_ context.Context, id primitive.ObjectID, from, to models.LiabilityStatus, now time.Time) (models.Liability, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, l := range m.items {
		if l.ID != id {
			continue
		}
		if l.Status != from {
			return models.Liability{}, store.ErrStatusMismatch
		}
		l.Status, l.UpdatedAt = to, now
		l.SettledAt = nil
		if to != models.LiabilityPending {
			settled := now
			l.SettledAt = &settled
		}
		m.items[i] = l
		return l, nil
	}
	return models.Liability{}, store.ErrNotFound
}

func (m *Liabilities) Delete(_ context.Context, id primitive.ObjectID) (models.Liability, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, l := range m.items {
		if l.ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return l, nil
		}
	}
	return models.Liability{}, store.ErrNotFound
}

type Sessions struct {
	mu    sync.Mutex
	items []models.Session
}

func (m *Sessions) Insert(_ context.Context, s *models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s.ID.IsZero() {
		s.ID = primitive.NewObjectID()
	}
	m.items = append(m.items, *s)
	return nil
}

func (m *Sessions) FindByUser(_ context.Context, user primitive.ObjectID, limit int64) ([]models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Session{}
	for i := len(m.items) - 1; i >= 0; i-- {
		if m.items[i].UserID == user {
			out = append(out, m.items[i])
		}
		if limit > 0 && int64(len(out)) == limit {
			break
		}
	}
	return out, nil
}

// Tx runs fn inline like a Mongo deployment without transactions, undoing
// registered steps on failure, and counts the units of work.
type Tx struct {
	mu    sync.Mutex
	Calls int
}

func (t *Tx) WithTransaction(ctx context.Context, fn func(context.Context) error) error {
	t.mu.Lock()
	t.Calls++
	t.mu.Unlock()
	return store.RunCompensated(ctx, fn)
}

var (
	_ store.ProductStore      = (*Products)(nil)
	_ store.HistoryStore      = (*Histories)(nil)
	_ store.UserStore         = (*Users)(nil)
	_ store.FinancialLogStore = (*FinancialLogs)(nil)
	_ store.LiabilityStore    = (*Liabilities)(nil)
	_ store.SessionStore      = (*Sessions)(nil)
	_ store.Transactor        = (*Tx)(nil)
)
