package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"casri/models"
)

func validInput() ProductInput {
	return ProductInput{Name: "Sugar", Price: num(10), Description: "1kg bag", Quantity: num(2)}
}

func TestCreateTodayPersistsProductAndHistory(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := f.addUser("amina", models.RoleEmployee)

	p, err := f.productService.CreateToday(ctx, owner.ID, validInput())
	require.NoError(t, err)

	assert.False(t, p.ID.IsZero())
	assert.Equal(t, owner.ID, p.User)
	assert.Equal(t, testNow, p.CreatedAt)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, testLoc), p.Date)
	assert.Equal(t, 20.0, p.LineTotal())
	assert.Equal(t, 1, f.tx.Calls)

	h, err := f.historyService.MyToday(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, h.Products, 1)
	assert.Equal(t, p.ID, h.Products[0].ProductID)
	assert.Equal(t, 20.0, h.Products[0].Total)
}

func TestCreateTodayAppendsToSameHistory(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := f.addUser("amina", models.RoleEmployee)

	for i := 0; i < 3; i++ {
		_, err := f.productService.CreateToday(ctx, owner.ID, validInput())
		require.NoError(t, err)
	}

	all, err := f.historyService.MyAll(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Len(t, all[0].Products, 3)
}

func TestCreateTodayValidation(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*ProductInput)
		field string
	}{
		{"missing name", func(in *ProductInput) { in.Name = "  " }, "name"},
		{"missing description", func(in *ProductInput) { in.Description = "" }, "description"},
		{"missing price", func(in *ProductInput) { in.Price = models.Number{} }, "price"},
		{"zero price counts as missing", func(in *ProductInput) { in.Price = num(0) }, "price"},
		{"zero quantity counts as missing", func(in *ProductInput) { in.Quantity = num(0) }, "quantity"},
		{"negative quantity", func(in *ProductInput) { in.Quantity = num(-1) }, "quantity"},
		{"non-numeric quantity", func(in *ProductInput) { in.Quantity = text("abc") }, "quantity"},
		{"fraction below one", func(in *ProductInput) { in.Quantity = num(0.5) }, "quantity"},
		{"negative price", func(in *ProductInput) { in.Price = num(-5) }, "price"},
		{"non-numeric price", func(in *ProductInput) { in.Price = text("ten") }, "price"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture()
			in := validInput()
			tc.edit(&in)

			_, err := f.productService.CreateToday(context.Background(), primitive.NewObjectID(), in)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.field, verr.Field)
			assert.Equal(t, 0, f.products.Len())
			assert.Equal(t, 0, f.tx.Calls)
		})
	}
}

func TestCreateTodayMissingFieldsAreListed(t *testing.T) {
	f := newFixture()
	_, err := f.productService.CreateToday(context.Background(), primitive.NewObjectID(), ProductInput{Name: "x"})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Please fill in all required fields: price, description, quantity", verr.Message)
}

func TestCreateTodayQuantityFromString(t *testing.T) {
	f := newFixture()
	in := validInput()
	in.Quantity = text("3.9")

	p, err := f.productService.CreateToday(context.Background(), primitive.NewObjectID(), in)
	require.NoError(t, err)
	assert.Equal(t, 3, p.Quantity)
}

func TestCreateTodayStoreFailure(t *testing.T) {
	f := newFixture()
	f.products.FailInsert = errors.New("disk full")

	_, err := f.productService.CreateToday(context.Background(), primitive.NewObjectID(), validInput())
	require.Error(t, err)
	assert.False(t, IsValidation(err))
}

func TestMyDailyTotal(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := f.addUser("amina", models.RoleEmployee)
	other := f.addUser("omar", models.RoleEmployee)

	_, err := f.productService.CreateToday(ctx, owner.ID, ProductInput{Name: "A", Price: num(10), Description: "a", Quantity: num(2)})
	require.NoError(t, err)
	_, err = f.productService.CreateToday(ctx, owner.ID, ProductInput{Name: "B", Price: num(5), Description: "b", Quantity: num(1)})
	require.NoError(t, err)
	_, err = f.productService.CreateToday(ctx, other.ID, validInput())
	require.NoError(t, err)

	mine, err := f.productService.MyDaily(ctx, owner.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 2)
	assert.Equal(t, 25.0, models.ProductsTotal(mine))

	all, err := f.productService.Daily(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestDailyEmptyResult(t *testing.T) {
	f := newFixture()
	_, err := f.productService.Daily(context.Background())
	assert.ErrorIs(t, err, ErrEmptyResult)

	_, err = f.productService.MyDaily(context.Background(), primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrEmptyResult)
}

func TestCreateOnDate(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := primitive.NewObjectID()

	p, err := f.productService.CreateOnDate(ctx, owner, "01-03-2024", validInput())
	require.NoError(t, err)
	parsed := time.Date(2024, 3, 1, 0, 0, 0, 0, testLoc)
	assert.Equal(t, parsed, p.CreatedAt)
	assert.Equal(t, parsed, p.UpdatedAt)
	assert.Equal(t, parsed, p.Date)

	_, _, err = f.historyService.ForDate(ctx, owner, "2024-03-01")
	assert.ErrorIs(t, err, ErrEmptyResult)

	products, day, err := f.productService.ByDate(ctx, "2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01", day.Label())
	assert.Len(t, products, 1)
}

func TestCreateOnDateToday(t *testing.T) {
	f := newFixture()
	_, err := f.productService.CreateOnDate(context.Background(), primitive.NewObjectID(), "15-03-2024", validInput())
	assert.NoError(t, err)
}

func TestCreateOnDateRejectsFutureAndBadTokens(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.productService.CreateOnDate(ctx, primitive.NewObjectID(), "16-03-2024", validInput())
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Cannot add products for future dates", verr.Message)

	_, err = f.productService.CreateOnDate(ctx, primitive.NewObjectID(), "2024-03-01", validInput())
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Invalid date format. Use DD-MM-YYYY", verr.Message)

	assert.Equal(t, 0, f.products.Len())
}

func TestUpdateProduct(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := f.addUser("amina", models.RoleEmployee)
	p, err := f.productService.CreateToday(ctx, owner.ID, validInput())
	require.NoError(t, err)

	self := Actor{ID: owner.ID, Role: models.RoleEmployee}

	_, err = f.productService.Update(ctx, self, p.ID, ProductPatch{Category: "food"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "At least one product field is required.", verr.Message)

	_, err = f.productService.Update(ctx, self, p.ID, ProductPatch{Quantity: num(-2)})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "quantity", verr.Field)

	updated, err := f.productService.Update(ctx, self, p.ID, ProductPatch{Price: text("12.5"), Category: "food"})
	require.NoError(t, err)
	assert.Equal(t, 12.5, updated.Price)
	assert.Equal(t, "food", updated.Category)
	assert.Equal(t, "Sugar", updated.Name)
	assert.Equal(t, 2, updated.Quantity)

	stranger := Actor{ID: primitive.NewObjectID(), Role: models.RoleEmployee}
	_, err = f.productService.Update(ctx, stranger, p.ID, ProductPatch{Name: "x"})
	assert.ErrorIs(t, err, ErrForbidden)

	admin := Actor{ID: primitive.NewObjectID(), Role: models.RoleAdmin}
	updated, err = f.productService.Update(ctx, admin, p.ID, ProductPatch{Name: "Brown sugar"})
	require.NoError(t, err)
	assert.Equal(t, "Brown sugar", updated.Name)

	_, err = f.productService.Update(ctx, admin, primitive.NewObjectID(), ProductPatch{Name: "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteProduct(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := f.addUser("amina", models.RoleEmployee)
	p, err := f.productService.CreateToday(ctx, owner.ID, validInput())
	require.NoError(t, err)

	admin := Actor{ID: primitive.NewObjectID(), Role: models.RoleAdmin}

	_, err = f.productService.Delete(ctx, admin, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 1, f.products.Len())

	_, err = f.productService.Delete(ctx, Actor{ID: primitive.NewObjectID(), Role: models.RoleEmployee}, p.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	deleted, err := f.productService.Delete(ctx, Actor{ID: owner.ID, Role: models.RoleEmployee}, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, deleted.ID)
	assert.Equal(t, 0, f.products.Len())
}

func TestUsersDailyGroupsAndDropsEmpty(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	amina := f.addUser("amina", models.RoleEmployee)
	f.addUser("idle", models.RoleEmployee)
	boss := f.addUser("boss", models.RoleAdmin)

	_, err := f.productService.CreateToday(ctx, amina.ID, ProductInput{Name: "A", Price: num(10), Description: "a", Quantity: num(2)})
	require.NoError(t, err)
	_, err = f.productService.CreateToday(ctx, boss.ID, ProductInput{Name: "B", Price: num(5), Description: "b", Quantity: num(1)})
	require.NoError(t, err)

	groups, err := f.productService.UsersDaily(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "amina", groups[0].Username)
	assert.Equal(t, 20.0, groups[0].Total)
	assert.Equal(t, "boss", groups[1].Username)
	assert.Equal(t, models.RoleAdmin, groups[1].Role)
	assert.Equal(t, 5.0, groups[1].Total)
}

func TestUsersByDate(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.addUser("idle", models.RoleEmployee)

	_, _, err := f.productService.UsersByDate(ctx, "2024-03-15")
	assert.ErrorIs(t, err, ErrEmptyResult)

	_, _, err = f.productService.UsersByDate(ctx, "15-03-2024")
	assert.True(t, IsValidation(err))
}

func TestCreateTodayUndoesProductWhenHistoryFails(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := f.addUser("amina", models.RoleEmployee)
	f.histories.FailAppend = errors.New("history unavailable")

	_, err := f.productService.CreateToday(ctx, owner.ID, validInput())
	require.Error(t, err)
	assert.Equal(t, 0, f.products.Len())

	f.histories.FailAppend = nil
	_, err = f.productService.CreateToday(ctx, owner.ID, validInput())
	require.NoError(t, err)
	assert.Equal(t, 1, f.products.Len())
}
