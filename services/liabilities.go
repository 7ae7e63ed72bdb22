package services

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"casri/models"
	"casri/store"
)

// LiabilityInput is goods handed out on credit.
type LiabilityInput struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Quantity    models.Number `json:"quantity"`
	Price       models.Number `json:"price"`
}

// Outstanding summarizes the pending liabilities.
type Outstanding struct {
	Liabilities []models.Liability `json:"liabilities"`
	Count       int                `json:"count"`
	Total       float64            `json:"total"`
}

// Settlement is the outcome of paying a liability. Sale is set when the
// payment was also recorded as a product sale.
type Settlement struct {
	Liability models.Liability `json:"liability"`
	Sale      *models.Product  `json:"sale,omitempty"`
}

type LiabilityService struct {
	liabilities store.LiabilityStore
	products    *ProductService
	tx          store.Transactor
	cal         Calendar
}

func NewLiabilityService(liabilities store.LiabilityStore, products *ProductService, tx store.Transactor, cal Calendar) *LiabilityService {
	return &LiabilityService{liabilities: liabilities, products: products, tx: tx, cal: cal}
}

func (s *LiabilityService) Create(ctx context.Context, actor Actor, in LiabilityInput) (models.Liability, error) {
	name := strings.TrimSpace(in.Name)
	description := strings.TrimSpace(in.Description)

	var missing []string
	if name == "" {
		missing = append(missing, "name")
	}
	if description == "" {
		missing = append(missing, "description")
	}
	if unset(in.Quantity) {
		missing = append(missing, "quantity")
	}
	if unset(in.Price) {
		missing = append(missing, "price")
	}
	if len(missing) > 0 {
		return models.Liability{}, missingFields(missing)
	}

	quantity, err := positiveQuantity(in.Quantity)
	if err != nil {
		return models.Liability{}, err
	}
	price, err := positivePrice(in.Price)
	if err != nil {
		return models.Liability{}, err
	}

	now := s.cal.now()
	l := models.Liability{
		Name:        name,
		Description: description,
		Quantity:    quantity,
		Price:       price,
		Status:      models.LiabilityPending,
		CreatedBy:   actor.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.liabilities.Insert(ctx, &l); err != nil {
		return models.Liability{}, err
	}
	return l, nil
}

func (s *LiabilityService) All(ctx context.Context) ([]models.Liability, error) {
	return s.liabilities.FindAll(ctx)
}

// Daily lists the liabilities opened today.
func (s *LiabilityService) Daily(ctx context.Context) ([]models.Liability, error) {
	liabilities, err := s.liabilities.FindCreatedIn(ctx, s.cal.Today())
	if err != nil {
		return nil, err
	}
	if len(liabilities) == 0 {
		return nil, ErrEmptyResult
	}
	return liabilities, nil
}

func (s *LiabilityService) Outstanding(ctx context.Context) (Outstanding, error) {
	pending, err := s.liabilities.FindByStatus(ctx, models.LiabilityPending)
	if err != nil {
		return Outstanding{}, err
	}
	var total float64
	for _, l := range pending {
		total += l.Amount()
	}
	return Outstanding{Liabilities: pending, Count: len(pending), Total: total}, nil
}

// Settle marks a pending liability paid. With recordSale the payment is
// also booked as a sale by actor, in the same unit of work; if booking
// fails the liability is pending again.
func (s *LiabilityService) Settle(ctx context.Context, actor Actor, id primitive.ObjectID, recordSale bool) (Settlement, error) {
	var out Settlement
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		out = Settlement{}
		l, err := s.transition(ctx, id, models.LiabilityPaid)
		if err != nil {
			return err
		}
		out.Liability = l
		if !recordSale {
			return nil
		}
		store.Compensate(ctx, func(ctx context.Context) error {
			_, err := s.liabilities.Transition(ctx, id, models.LiabilityPaid, models.LiabilityPending, s.cal.now())
			return err
		})

		sale, err := s.products.record(ctx, actor.ID, models.Product{
			Name:        l.Name,
			Description: l.Description,
			Price:       l.Price,
			Quantity:    l.Quantity,
		})
		if err != nil {
			return err
		}
		out.Sale = &sale
		return nil
	})
	if err != nil {
		return Settlement{}, err
	}
	return out, nil
}

// Reverse cancels a pending liability without booking anything.
func (s *LiabilityService) Reverse(ctx context.Context, id primitive.ObjectID) (models.Liability, error) {
	return s.transition(ctx, id, models.LiabilityReversed)
}

func (s *LiabilityService) transition(ctx context.Context, id primitive.ObjectID, to models.LiabilityStatus) (models.Liability, error) {
	l, err := s.liabilities.Transition(ctx, id, models.LiabilityPending, to, s.cal.now())
	if errors.Is(err, store.ErrStatusMismatch) {
		return models.Liability{}, invalid("status", "Liability is already settled.")
	}
	return l, err
}

func (s *LiabilityService) Delete(ctx context.Context, id primitive.ObjectID) (models.Liability, error) {
	return s.liabilities.Delete(ctx, id)
}
