package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/erp-backend/internal/application/dto"
	"github.com/jhoicas/erp-backend/internal/application/inventory"
	"github.com/jhoicas/erp-backend/internal/domain/entity"
	"github.com/jhoicas/erp-backend/internal/domain/repository"
)

// CustomerUseCase casos de uso para clientes. IsValued habilita los overrides de precio.
type CustomerUseCase struct {
	txRunner inventory.TxRunner
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(txRunner inventory.TxRunner) *CustomerUseCase {
	return &CustomerUseCase{txRunner: txRunner}
}

// Create crea un nuevo cliente.
func (uc *CustomerUseCase) Create(ctx context.Context, in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	now := time.Now()
	customer := &entity.Customer{
		ID:        uuid.New().String(),
		Name:      in.Name,
		TaxID:     in.TaxID,
		Email:     in.Email,
		Phone:     in.Phone,
		IsValued:  in.IsValued,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := uc.txRunner.Run(ctx, func(store repository.Store) error {
		return store.Customers().Create(ctx, customer)
	})
	if err != nil {
		return nil, err
	}
	return toCustomerResponse(customer), nil
}

// GetByID obtiene un cliente; nil si no existe.
func (uc *CustomerUseCase) GetByID(ctx context.Context, id string) (*dto.CustomerResponse, error) {
	var customer *entity.Customer
	err := uc.txRunner.Run(ctx, func(store repository.Store) error {
		var err error
		customer, err = store.Customers().GetByID(ctx, id)
		return err
	})
	if err != nil || customer == nil {
		return nil, err
	}
	return toCustomerResponse(customer), nil
}

func toCustomerResponse(c *entity.Customer) *dto.CustomerResponse {
	return &dto.CustomerResponse{
		ID:        c.ID,
		Name:      c.Name,
		TaxID:     c.TaxID,
		Email:     c.Email,
		Phone:     c.Phone,
		IsValued:  c.IsValued,
		CreatedAt: c.CreatedAt,
	}
}
