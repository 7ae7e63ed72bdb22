package services

import (
	"context"
	"fmt"
	"math"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"

	"casri/models"
	"casri/store"
	"casri/utils"
)

// ProductInput is a sale line as posted by the dashboard.
type ProductInput struct {
	Name        string        `json:"name"`
	Price       models.Number `json:"price"`
	Description string        `json:"description"`
	Category    string        `json:"category"`
	Quantity    models.Number `json:"quantity"`
}

// ProductPatch is a partial edit; blank or absent fields keep their value.
type ProductPatch struct {
	Name        string        `json:"name"`
	Price       models.Number `json:"price"`
	Description string        `json:"description"`
	Category    string        `json:"category"`
	Quantity    models.Number `json:"quantity"`
}

// UserProducts groups one user's products for a day.
type UserProducts struct {
	Username string           `json:"username"`
	Role     models.Role      `json:"role"`
	Products []models.Product `json:"products"`
	Total    float64          `json:"total"`
}

type ProductService struct {
	products  store.ProductStore
	histories store.HistoryStore
	users     store.UserStore
	tx        store.Transactor
	cal       Calendar
}

func NewProductService(products store.ProductStore, histories store.HistoryStore, users store.UserStore, tx store.Transactor, cal Calendar) *ProductService {
	return &ProductService{products: products, histories: histories, users: users, tx: tx, cal: cal}
}

// unset treats a blank or zero amount as not supplied.
func unset(n models.Number) bool {
	return !n.Set || (n.Valid && n.Value == 0)
}

func positiveQuantity(n models.Number) (int, error) {
	if !n.Valid {
		return 0, invalid("quantity", "Quantity must be a positive number.")
	}
	q := math.Trunc(n.Value)
	if q <= 0 || q > math.MaxInt32 {
		return 0, invalid("quantity", "Quantity must be a positive number.")
	}
	return int(q), nil
}

func positivePrice(n models.Number) (float64, error) {
	if !n.Valid || n.Value <= 0 {
		return 0, invalid("price", "Price must be a positive number.")
	}
	return n.Value, nil
}

func (in ProductInput) validate() (models.Product, error) {
	name := strings.TrimSpace(in.Name)
	description := strings.TrimSpace(in.Description)

	var missing []string
	if name == "" {
		missing = append(missing, "name")
	}
	if unset(in.Price) {
		missing = append(missing, "price")
	}
	if description == "" {
		missing = append(missing, "description")
	}
	if unset(in.Quantity) {
		missing = append(missing, "quantity")
	}
	if len(missing) > 0 {
		return models.Product{}, missingFields(missing)
	}

	quantity, err := positiveQuantity(in.Quantity)
	if err != nil {
		return models.Product{}, err
	}
	price, err := positivePrice(in.Price)
	if err != nil {
		return models.Product{}, err
	}

	return models.Product{
		Name:        name,
		Price:       price,
		Description: description,
		Category:    strings.TrimSpace(in.Category),
		Quantity:    quantity,
	}, nil
}

// CreateToday records a sale for owner now and appends it to owner's
// history for today.
func (s *ProductService) CreateToday(ctx context.Context, owner primitive.ObjectID, in ProductInput) (models.Product, error) {
	p, err := in.validate()
	if err != nil {
		return models.Product{}, err
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		p, err = s.record(ctx, owner, p)
		return err
	})
	if err != nil {
		return models.Product{}, err
	}
	return p, nil
}

// record persists an already validated sale dated now and appends the
// history line. Callers own the transaction; without one the insert is
// undone when a later step fails.
func (s *ProductService) record(ctx context.Context, owner primitive.ObjectID, p models.Product) (models.Product, error) {
	now := s.cal.now()
	today := s.cal.Today().Start

	p.ID = primitive.NilObjectID
	p.User = owner
	p.Date = today
	p.CreatedAt = now
	p.UpdatedAt = now

	if err := s.products.Insert(ctx, &p); err != nil {
		return models.Product{}, err
	}
	id := p.ID
	store.Compensate(ctx, func(ctx context.Context) error {
		_, err := s.products.Delete(ctx, id)
		return err
	})
	if err := s.histories.Append(ctx, owner, today, models.NewHistoryEntry(p)); err != nil {
		return models.Product{}, err
	}
	return p, nil
}

// CreateOnDate records a backdated sale. token is DD-MM-YYYY and may not be
// after the current moment.
func (s *ProductService) CreateOnDate(ctx context.Context, owner primitive.ObjectID, token string, in ProductInput) (models.Product, error) {
	p, err := in.validate()
	if err != nil {
		return models.Product{}, err
	}

	day, err := utils.ParseSalesDate(token, s.cal.location())
	if err != nil {
		return models.Product{}, invalid("date", "Invalid date format. Use DD-MM-YYYY")
	}
	if day.Start.After(s.cal.now()) {
		return models.Product{}, invalid("date", "Cannot add products for future dates")
	}

	p.User = owner
	p.Date = day.Start
	p.CreatedAt = day.Start
	p.UpdatedAt = day.Start

	if err := s.products.Insert(ctx, &p); err != nil {
		return models.Product{}, err
	}
	return p, nil
}

// Update applies a partial edit on behalf of actor.
func (s *ProductService) Update(ctx context.Context, actor Actor, id primitive.ObjectID, patch ProductPatch) (models.Product, error) {
	var u models.ProductUpdate
	if name := strings.TrimSpace(patch.Name); name != "" {
		u.Name = &name
	}
	if description := strings.TrimSpace(patch.Description); description != "" {
		u.Description = &description
	}
	if category := strings.TrimSpace(patch.Category); category != "" {
		u.Category = &category
	}
	if !unset(patch.Price) {
		price, err := positivePrice(patch.Price)
		if err != nil {
			return models.Product{}, err
		}
		u.Price = &price
	}
	if !unset(patch.Quantity) {
		quantity, err := positiveQuantity(patch.Quantity)
		if err != nil {
			return models.Product{}, err
		}
		u.Quantity = &quantity
	}
	if u.Empty() {
		return models.Product{}, invalid("", "At least one product field is required.")
	}

	current, err := s.products.FindByID(ctx, id)
	if err != nil {
		return models.Product{}, err
	}
	if !CanModifyProduct(actor, current) {
		return models.Product{}, ErrForbidden
	}

	return s.products.Update(ctx, id, u, s.cal.now())
}

// Delete removes a product on behalf of actor.
func (s *ProductService) Delete(ctx context.Context, actor Actor, id primitive.ObjectID) (models.Product, error) {
	current, err := s.products.FindByID(ctx, id)
	if err != nil {
		return models.Product{}, err
	}
	if !CanModifyProduct(actor, current) {
		return models.Product{}, ErrForbidden
	}
	return s.products.Delete(ctx, id)
}

// Daily lists every product sold today.
func (s *ProductService) Daily(ctx context.Context) ([]models.Product, error) {
	return s.inRange(ctx, s.cal.Today(), nil)
}

// MyDaily lists owner's products sold today.
func (s *ProductService) MyDaily(ctx context.Context, owner primitive.ObjectID) ([]models.Product, error) {
	return s.inRange(ctx, s.cal.Today(), &owner)
}

// ByDate lists every product of the YYYY-MM-DD day token.
func (s *ProductService) ByDate(ctx context.Context, token string) ([]models.Product, utils.DayRange, error) {
	day, err := s.cal.queryDate(token)
	if err != nil {
		return nil, utils.DayRange{}, err
	}
	products, err := s.inRange(ctx, day, nil)
	return products, day, err
}

// SalesOn returns all products of day without the empty-result policy.
func (s *ProductService) SalesOn(ctx context.Context, day utils.DayRange) ([]models.Product, error) {
	return s.products.FindCreatedIn(ctx, day, nil)
}

func (s *ProductService) inRange(ctx context.Context, day utils.DayRange, owner *primitive.ObjectID) ([]models.Product, error) {
	products, err := s.products.FindCreatedIn(ctx, day, owner)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, ErrEmptyResult
	}
	return products, nil
}

// UsersDaily groups today's products by staff user.
func (s *ProductService) UsersDaily(ctx context.Context) ([]UserProducts, error) {
	return s.byUser(ctx, s.cal.Today())
}

// UsersByDate groups the products of a YYYY-MM-DD day by staff user.
func (s *ProductService) UsersByDate(ctx context.Context, token string) ([]UserProducts, utils.DayRange, error) {
	day, err := s.cal.queryDate(token)
	if err != nil {
		return nil, utils.DayRange{}, err
	}
	groups, err := s.byUser(ctx, day)
	return groups, day, err
}

// UsersOnDay groups the products of day by staff user.
func (s *ProductService) UsersOnDay(ctx context.Context, day utils.DayRange) ([]UserProducts, error) {
	return s.byUser(ctx, day)
}

// byUser fetches each staff user's products concurrently. Users without
// records are dropped; the order follows the user listing.
func (s *ProductService) byUser(ctx context.Context, day utils.DayRange) ([]UserProducts, error) {
	users, err := s.users.FindByRoles(ctx, models.StaffRoles)
	if err != nil {
		return nil, err
	}

	groups := make([]UserProducts, len(users))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i, u := range users {
		i, u := i, u
		g.Go(func() error {
			id := u.ID
			products, err := s.products.FindCreatedIn(gctx, day, &id)
			if err != nil {
				return fmt.Errorf("products of %s: %w", u.Username, err)
			}
			groups[i] = UserProducts{
				Username: u.Username,
				Role:     u.Role,
				Products: products,
				Total:    models.ProductsTotal(products),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := make([]UserProducts, 0, len(groups))
	for _, grp := range groups {
		if len(grp.Products) > 0 {
			result = append(result, grp)
		}
	}
	if len(result) == 0 {
		return nil, ErrEmptyResult
	}
	return result, nil
}
