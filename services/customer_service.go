package services

import (
	"context"
	stderrors "errors"

	"checkout-service/errors"
	"checkout-service/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

// CustomerService owns the customer write path this service needs. The
// rest of profile CRUD lives with the account collaborator.
type CustomerService struct {
	customers repository.CustomerRepository
	logger    *zap.Logger
}

func NewCustomerService(customers repository.CustomerRepository, logger *zap.Logger) *CustomerService {
	return &CustomerService{customers: customers, logger: logger}
}

// HashAndStore hashes a password and persists it. Hashing is an explicit
// step of the write path, not a hook dispatched on save.
func (s *CustomerService) HashAndStore(ctx context.Context, customerID uuid.UUID, password string) error {
	if len(password) < minPasswordLength {
		return errors.Validation("Password must be at least 8 characters long")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if err := s.customers.UpdatePassword(ctx, customerID, string(hashed)); err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return errors.NotFound("Customer not found")
		}
		return err
	}

	s.logger.Info("Password updated", zap.String("customer_id", customerID.String()))
	return nil
}
