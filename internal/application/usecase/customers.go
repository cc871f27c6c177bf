package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lendtrack/lendtrack/internal/application/dto"
	"github.com/lendtrack/lendtrack/internal/domain/model"
	"github.com/lendtrack/lendtrack/internal/domain/port"
)

// CreateCustomerUseCase registers a customer with an audit trail.
type CreateCustomerUseCase struct {
	customerRepo port.CustomerRepository
	auditRepo    port.AuditLogRepository
	tx           port.TxManager
}

// NewCreateCustomerUseCase wires dependencies.
func NewCreateCustomerUseCase(customerRepo port.CustomerRepository, auditRepo port.AuditLogRepository, tx port.TxManager) *CreateCustomerUseCase {
	return &CreateCustomerUseCase{customerRepo: customerRepo, auditRepo: auditRepo, tx: tx}
}

// Execute creates the customer and its audit record atomically.
func (uc *CreateCustomerUseCase) Execute(ctx context.Context, req dto.CreateCustomerRequest) (dto.CustomerResponse, error) {
	now := time.Now().UTC()

	customer, err := model.NewCustomer(req.Name, req.Phone, req.Email, model.NationalID{
		Number:     req.NationalIDNumber,
		Type:       req.NationalIDType,
		Expiry:     req.NationalIDExpiry,
		ImagePaths: req.NationalIDImages,
	}, req.Notes, now)
	if err != nil {
		return dto.CustomerResponse{}, fmt.Errorf("new customer: %w", err)
	}

	err = uc.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := uc.customerRepo.Save(ctx, customer); err != nil {
			return fmt.Errorf("save customer: %w", err)
		}
		if err := uc.auditRepo.Record(ctx, port.AuditEntry{
			UserID:     req.UserID,
			Action:     "CUSTOMER_CREATED",
			EntityType: "customer",
			EntityID:   customer.ID(),
			Metadata:   map[string]any{"after": dto.FromCustomer(customer)},
		}); err != nil {
			return fmt.Errorf("audit customer: %w", err)
		}
		return nil
	})
	if err != nil {
		return dto.CustomerResponse{}, err
	}

	return dto.FromCustomer(customer), nil
}

// UpdateCustomerUseCase replaces a customer's details, auditing before/after.
type UpdateCustomerUseCase struct {
	customerRepo port.CustomerRepository
	auditRepo    port.AuditLogRepository
	tx           port.TxManager
}

// NewUpdateCustomerUseCase wires dependencies.
func NewUpdateCustomerUseCase(customerRepo port.CustomerRepository, auditRepo port.AuditLogRepository, tx port.TxManager) *UpdateCustomerUseCase {
	return &UpdateCustomerUseCase{customerRepo: customerRepo, auditRepo: auditRepo, tx: tx}
}

// Execute updates the customer and its audit record atomically.
func (uc *UpdateCustomerUseCase) Execute(ctx context.Context, req dto.UpdateCustomerRequest) (dto.CustomerResponse, error) {
	now := time.Now().UTC()

	var updated model.Customer
	err := uc.tx.RunInTx(ctx, func(ctx context.Context) error {
		before, err := uc.customerRepo.FindByID(ctx, req.CustomerID)
		if err != nil {
			return fmt.Errorf("find customer: %w", err)
		}

		updated, err = before.Update(req.Name, req.Phone, req.Email, model.NationalID{
			Number:     req.NationalIDNumber,
			Type:       req.NationalIDType,
			Expiry:     req.NationalIDExpiry,
			ImagePaths: req.NationalIDImages,
		}, req.Notes, now)
		if err != nil {
			return fmt.Errorf("update customer: %w", err)
		}

		if err := uc.customerRepo.Save(ctx, updated); err != nil {
			return fmt.Errorf("save customer: %w", err)
		}
		if err := uc.auditRepo.Record(ctx, port.AuditEntry{
			UserID:     req.UserID,
			Action:     "CUSTOMER_UPDATED",
			EntityType: "customer",
			EntityID:   req.CustomerID,
			Metadata: map[string]any{
				"before": dto.FromCustomer(before),
				"after":  dto.FromCustomer(updated),
			},
		}); err != nil {
			return fmt.Errorf("audit customer: %w", err)
		}
		return nil
	})
	if err != nil {
		return dto.CustomerResponse{}, err
	}

	return dto.FromCustomer(updated), nil
}

// GetCustomerUseCase retrieves one customer.
type GetCustomerUseCase struct {
	customerRepo port.CustomerRepository
}

// NewGetCustomerUseCase wires dependencies.
func NewGetCustomerUseCase(customerRepo port.CustomerRepository) *GetCustomerUseCase {
	return &GetCustomerUseCase{customerRepo: customerRepo}
}

// Execute returns the customer by ID.
func (uc *GetCustomerUseCase) Execute(ctx context.Context, id uuid.UUID) (dto.CustomerResponse, error) {
	customer, err := uc.customerRepo.FindByID(ctx, id)
	if err != nil {
		return dto.CustomerResponse{}, fmt.Errorf("find customer: %w", err)
	}
	return dto.FromCustomer(customer), nil
}

// ListCustomersUseCase lists all customers.
type ListCustomersUseCase struct {
	customerRepo port.CustomerRepository
}

// NewListCustomersUseCase wires dependencies.
func NewListCustomersUseCase(customerRepo port.CustomerRepository) *ListCustomersUseCase {
	return &ListCustomersUseCase{customerRepo: customerRepo}
}

// Execute returns all customers.
func (uc *ListCustomersUseCase) Execute(ctx context.Context) ([]dto.CustomerResponse, error) {
	customers, err := uc.customerRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("find customers: %w", err)
	}
	out := make([]dto.CustomerResponse, 0, len(customers))
	for _, c := range customers {
		out = append(out, dto.FromCustomer(c))
	}
	return out, nil
}
