package services_test

import (
	"context"
	"testing"

	apperrors "checkout-service/errors"
	"checkout-service/models"
	"checkout-service/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndStoreHashesBeforePersisting(t *testing.T) {
	repo := newFakeCustomerRepo()
	customerID := uuid.New()
	repo.customers[customerID] = &models.Customer{ID: customerID}

	service := services.NewCustomerService(repo, zap.NewNop())
	require.NoError(t, service.HashAndStore(context.Background(), customerID, "correct horse battery"))

	stored := repo.customers[customerID].Password
	assert.NotEqual(t, "correct horse battery", stored)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored), []byte("correct horse battery")))
}

func TestHashAndStoreRejectsShortPassword(t *testing.T) {
	repo := newFakeCustomerRepo()
	service := services.NewCustomerService(repo, zap.NewNop())

	err := service.HashAndStore(context.Background(), uuid.New(), "short")
	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 400, appErr.Code)
}

func TestHashAndStoreUnknownCustomer(t *testing.T) {
	repo := newFakeCustomerRepo()
	service := services.NewCustomerService(repo, zap.NewNop())

	err := service.HashAndStore(context.Background(), uuid.New(), "long enough password")
	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 404, appErr.Code)
}
