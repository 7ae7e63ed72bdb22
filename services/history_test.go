package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"casri/models"
)

func TestHistoryScopedToOwner(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	amina := f.addUser("amina", models.RoleEmployee)
	omar := f.addUser("omar", models.RoleEmployee)

	_, err := f.productService.CreateToday(ctx, amina.ID, validInput())
	require.NoError(t, err)

	h, day, err := f.historyService.ForDate(ctx, amina.ID, "2024-03-15")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-15", day.Label())
	assert.Equal(t, amina.ID, h.User)
	assert.Len(t, h.Products, 1)

	_, err = f.historyService.MyToday(ctx, omar.ID)
	assert.ErrorIs(t, err, ErrEmptyResult)

	_, err = f.historyService.MyAll(ctx, omar.ID)
	assert.ErrorIs(t, err, ErrEmptyResult)
}

func TestHistoryForDateInvalidToken(t *testing.T) {
	f := newFixture()
	_, _, err := f.historyService.ForDate(context.Background(), primitive.NewObjectID(), "soon")
	assert.True(t, IsValidation(err))
}
