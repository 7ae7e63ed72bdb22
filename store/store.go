// Package store persists shop records in MongoDB. Each collection has a
// small interface so services can be exercised against in-memory fakes.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"casri/models"
	"casri/utils"
)

var (
	// ErrNotFound means the addressed document does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate means a unique index rejected the write.
	ErrDuplicate = errors.New("already exists")
	// ErrStatusMismatch means a conditional status transition found the
	// document in another state.
	ErrStatusMismatch = errors.New("status mismatch")
)

type ProductStore interface {
	Insert(ctx context.Context, p *models.Product) error
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Product, error)
	// FindCreatedIn lists products whose createdAt is inside r. A nil owner
	// means every user.
	FindCreatedIn(ctx context.Context, r utils.DayRange, owner *primitive.ObjectID) ([]models.Product, error)
	Update(ctx context.Context, id primitive.ObjectID, u models.ProductUpdate, now time.Time) (models.Product, error)
	Delete(ctx context.Context, id primitive.ObjectID) (models.Product, error)
}

type HistoryStore interface {
	// Append pushes entry onto the (user, day) history, creating it if absent.
	Append(ctx context.Context, user primitive.ObjectID, day time.Time, entry models.HistoryEntry) error
	FindForDay(ctx context.Context, user primitive.ObjectID, r utils.DayRange) (models.History, error)
	FindByUser(ctx context.Context, user primitive.ObjectID) ([]models.History, error)
}

type UserStore interface {
	Insert(ctx context.Context, u *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (models.User, error)
	FindByUsername(ctx context.Context, username string) (models.User, error)
	FindByRoles(ctx context.Context, roles []models.Role) ([]models.User, error)
	Count(ctx context.Context) (int64, error)
}

type FinancialLogStore interface {
	Insert(ctx context.Context, log *models.FinancialLog) error
	FindByID(ctx context.Context, id primitive.ObjectID) (models.FinancialLog, error)
	FindDatedIn(ctx context.Context, r utils.DayRange) ([]models.FinancialLog, error)
	// UpdateLineItems replaces income, adjustments and expenses and leaves
	// the stored totals as they are.
	UpdateLineItems(ctx context.Context, id primitive.ObjectID, in models.Income, adjs []models.Adjustment, exps []models.Expense, now time.Time) (models.FinancialLog, error)
	UpdateTotals(ctx context.Context, id primitive.ObjectID, totals models.Totals, now time.Time) (models.FinancialLog, error)
}

type LiabilityStore interface {
	Insert(ctx context.Context, l *models.Liability) error
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Liability, error)
	FindAll(ctx context.Context) ([]models.Liability, error)
	FindCreatedIn(ctx context.Context, r utils.DayRange) ([]models.Liability, error)
	FindByStatus(ctx context.Context, status models.LiabilityStatus) ([]models.Liability, error)
	// Transition moves a liability from one status to another only when it
	// is currently in from.
	Transition(ctx context.Context, id primitive.ObjectID, from, to models.LiabilityStatus, now time.Time) (models.Liability, error)
	Delete(ctx context.Context, id primitive.ObjectID) (models.Liability, error)
}

type SessionStore interface {
	Insert(ctx context.Context, s *models.Session) error
	FindByUser(ctx context.Context, user primitive.ObjectID, limit int64) ([]models.Session, error)
}

// Transactor runs fn as one unit of work. Store calls made with the context
// handed to fn take part in it.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// MongoTransactor uses client sessions when enabled. Multi-document
// transactions need a replica set; with enabled=false fn simply runs.
type MongoTransactor struct {
	client  *mongo.Client
	enabled bool
}

func NewMongoTransactor(client *mongo.Client, enabled bool) *MongoTransactor {
	return &MongoTransactor{client: client, enabled: enabled}
}

func (t *MongoTransactor) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if !t.enabled || t.client == nil {
		return RunCompensated(ctx, fn)
	}

	session, err := t.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

type undoKey struct{}

type undoLog struct {
	steps []func(context.Context) error
}

// Compensate registers undo to run if the enclosing RunCompensated unit
// fails. Inside a real transaction, or outside any unit, it does nothing.
func Compensate(ctx context.Context, undo func(context.Context) error) {
	if log, ok := ctx.Value(undoKey{}).(*undoLog); ok {
		log.steps = append(log.steps, undo)
	}
}

// RunCompensated runs fn without a transaction. When fn fails, the undo
// steps it registered run newest first on a context that outlives the
// request's cancellation.
func RunCompensated(ctx context.Context, fn func(ctx context.Context) error) error {
	log := &undoLog{}
	err := fn(context.WithValue(ctx, undoKey{}, log))
	if err == nil {
		return nil
	}

	undoCtx := context.WithoutCancel(ctx)
	for i := len(log.steps) - 1; i >= 0; i-- {
		if uerr := log.steps[i](undoCtx); uerr != nil {
			err = errors.Join(err, fmt.Errorf("compensate: %w", uerr))
		}
	}
	return err
}

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}

func duplicate(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}
