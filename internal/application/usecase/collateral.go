package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lendtrack/lendtrack/internal/application/dto"
	"github.com/lendtrack/lendtrack/internal/domain/event"
	"github.com/lendtrack/lendtrack/internal/domain/port"
	"github.com/lendtrack/lendtrack/pkg/money"
)

// AddCollateralUseCase attaches a collateral item to an existing loan.
type AddCollateralUseCase struct {
	loanRepo       port.LoanRepository
	collateralRepo port.CollateralRepository
	auditRepo      port.AuditLogRepository
	tx             port.TxManager
	publisher      port.EventPublisher
}

// NewAddCollateralUseCase wires dependencies.
func NewAddCollateralUseCase(
	loanRepo port.LoanRepository,
	collateralRepo port.CollateralRepository,
	auditRepo port.AuditLogRepository,
	tx port.TxManager,
	publisher port.EventPublisher,
) *AddCollateralUseCase {
	return &AddCollateralUseCase{
		loanRepo:       loanRepo,
		collateralRepo: collateralRepo,
		auditRepo:      auditRepo,
		tx:             tx,
		publisher:      publisher,
	}
}

// Execute adds the item and audits it atomically.
func (uc *AddCollateralUseCase) Execute(ctx context.Context, loanID uuid.UUID, item dto.CollateralItem, userID string) (dto.CollateralResponse, error) {
	now := time.Now().UTC()

	if _, err := uc.loanRepo.FindByID(ctx, loanID); err != nil {
		return dto.CollateralResponse{}, fmt.Errorf("find loan: %w", err)
	}

	col, err := newCollateralFromItem(loanID, item, now)
	if err != nil {
		return dto.CollateralResponse{}, err
	}

	err = uc.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := uc.collateralRepo.Save(ctx, col); err != nil {
			return fmt.Errorf("save collateral: %w", err)
		}
		if err := uc.auditRepo.Record(ctx, port.AuditEntry{
			UserID:     userID,
			Action:     "COLLATERAL_ADDED",
			EntityType: "collateral",
			EntityID:   col.ID(),
			Metadata:   map[string]any{"after": dto.FromCollateral(col)},
		}); err != nil {
			return fmt.Errorf("audit collateral: %w", err)
		}
		return nil
	})
	if err != nil {
		return dto.CollateralResponse{}, err
	}

	if err := uc.publisher.Publish(ctx, col.DomainEvents()...); err != nil {
		return dto.CollateralResponse{}, fmt.Errorf("publish events: %w", err)
	}
	return dto.FromCollateral(col), nil
}

// UpdateCollateralUseCase replaces a collateral item's details.
type UpdateCollateralUseCase struct {
	collateralRepo port.CollateralRepository
	auditRepo      port.AuditLogRepository
	tx             port.TxManager
}

// NewUpdateCollateralUseCase wires dependencies.
func NewUpdateCollateralUseCase(collateralRepo port.CollateralRepository, auditRepo port.AuditLogRepository, tx port.TxManager) *UpdateCollateralUseCase {
	return &UpdateCollateralUseCase{collateralRepo: collateralRepo, auditRepo: auditRepo, tx: tx}
}

// Execute updates the item, auditing before/after.
func (uc *UpdateCollateralUseCase) Execute(ctx context.Context, loanID, collateralID uuid.UUID, item dto.CollateralItem, userID string) (dto.CollateralResponse, error) {
	var resp dto.CollateralResponse
	err := uc.tx.RunInTx(ctx, func(ctx context.Context) error {
		before, err := uc.collateralRepo.FindByID(ctx, loanID, collateralID)
		if err != nil {
			return fmt.Errorf("find collateral: %w", err)
		}

		var estimated *money.Cents
		if item.EstimatedValue != "" {
			v, err := money.ParseAmount(item.EstimatedValue)
			if err != nil {
				return fmt.Errorf("parse collateral value: %w", err)
			}
			estimated = &v
		}

		after, err := before.Update(item.Description, estimated, item.SerialNumber, item.Notes)
		if err != nil {
			return fmt.Errorf("update collateral: %w", err)
		}
		if err := uc.collateralRepo.Save(ctx, after); err != nil {
			return fmt.Errorf("save collateral: %w", err)
		}
		if err := uc.auditRepo.Record(ctx, port.AuditEntry{
			UserID:     userID,
			Action:     "COLLATERAL_UPDATED",
			EntityType: "collateral",
			EntityID:   collateralID,
			Metadata: map[string]any{
				"before": dto.FromCollateral(before),
				"after":  dto.FromCollateral(after),
			},
		}); err != nil {
			return fmt.Errorf("audit collateral: %w", err)
		}
		resp = dto.FromCollateral(after)
		return nil
	})
	if err != nil {
		return dto.CollateralResponse{}, err
	}
	return resp, nil
}

// ReturnCollateralUseCase marks an item returned to the borrower.
type ReturnCollateralUseCase struct {
	collateralRepo port.CollateralRepository
	auditRepo      port.AuditLogRepository
	tx             port.TxManager
	publisher      port.EventPublisher
}

// NewReturnCollateralUseCase wires dependencies.
func NewReturnCollateralUseCase(collateralRepo port.CollateralRepository, auditRepo port.AuditLogRepository, tx port.TxManager, publisher port.EventPublisher) *ReturnCollateralUseCase {
	return &ReturnCollateralUseCase{collateralRepo: collateralRepo, auditRepo: auditRepo, tx: tx, publisher: publisher}
}

// Execute marks the item returned.
func (uc *ReturnCollateralUseCase) Execute(ctx context.Context, loanID, collateralID uuid.UUID, userID string) (dto.CollateralResponse, error) {
	now := time.Now().UTC()

	var resp dto.CollateralResponse
	var pending []event.DomainEvent
	err := uc.tx.RunInTx(ctx, func(ctx context.Context) error {
		before, err := uc.collateralRepo.FindByID(ctx, loanID, collateralID)
		if err != nil {
			return fmt.Errorf("find collateral: %w", err)
		}
		after, err := before.MarkReturned(now)
		if err != nil {
			return fmt.Errorf("mark returned: %w", err)
		}
		if err := uc.collateralRepo.Save(ctx, after); err != nil {
			return fmt.Errorf("save collateral: %w", err)
		}
		if err := uc.auditRepo.Record(ctx, port.AuditEntry{
			UserID:     userID,
			Action:     "COLLATERAL_RETURNED",
			EntityType: "collateral",
			EntityID:   collateralID,
			Metadata: map[string]any{
				"before": dto.FromCollateral(before),
				"after":  dto.FromCollateral(after),
			},
		}); err != nil {
			return fmt.Errorf("audit collateral: %w", err)
		}
		resp = dto.FromCollateral(after)
		pending = after.DomainEvents()
		return nil
	})
	if err != nil {
		return dto.CollateralResponse{}, err
	}

	if err := uc.publisher.Publish(ctx, pending...); err != nil {
		return dto.CollateralResponse{}, fmt.Errorf("publish events: %w", err)
	}
	return resp, nil
}

// RemoveCollateralUseCase deletes an item, keeping the audit trail.
type RemoveCollateralUseCase struct {
	collateralRepo port.CollateralRepository
	auditRepo      port.AuditLogRepository
	tx             port.TxManager
}

// NewRemoveCollateralUseCase wires dependencies.
func NewRemoveCollateralUseCase(collateralRepo port.CollateralRepository, auditRepo port.AuditLogRepository, tx port.TxManager) *RemoveCollateralUseCase {
	return &RemoveCollateralUseCase{collateralRepo: collateralRepo, auditRepo: auditRepo, tx: tx}
}

// Execute deletes the item after capturing it in the audit log.
func (uc *RemoveCollateralUseCase) Execute(ctx context.Context, loanID, collateralID uuid.UUID, userID string) error {
	return uc.tx.RunInTx(ctx, func(ctx context.Context) error {
		item, err := uc.collateralRepo.FindByID(ctx, loanID, collateralID)
		if err != nil {
			return fmt.Errorf("find collateral: %w", err)
		}
		if err := uc.collateralRepo.Delete(ctx, collateralID); err != nil {
			return fmt.Errorf("delete collateral: %w", err)
		}
		if err := uc.auditRepo.Record(ctx, port.AuditEntry{
			UserID:     userID,
			Action:     "COLLATERAL_DELETED",
			EntityType: "collateral",
			EntityID:   collateralID,
			Metadata:   map[string]any{"deletedItem": dto.FromCollateral(item)},
		}); err != nil {
			return fmt.Errorf("audit collateral: %w", err)
		}
		return nil
	})
}
