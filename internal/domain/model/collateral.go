package model

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/lendtrack/lendtrack/internal/domain/event"
	"github.com/lendtrack/lendtrack/pkg/money"
)

// Collateral is an item held against a loan. Immutable; mutations return a
// new copy.
type Collateral struct {
	id             uuid.UUID
	loanID         uuid.UUID
	description    string
	estimatedValue *money.Cents
	serialNumber   string
	imagePaths     []string
	returnedAt     *time.Time
	notes          string
	createdAt      time.Time
	domainEvents   []event.DomainEvent
}

// NewCollateral attaches a collateral item to a loan.
func NewCollateral(
	loanID uuid.UUID,
	description string,
	estimatedValue *money.Cents,
	serialNumber string,
	imagePaths []string,
	notes string,
	now time.Time,
) (Collateral, error) {
	if loanID == uuid.Nil {
		return Collateral{}, errors.New("loan ID is required")
	}
	if description == "" {
		return Collateral{}, errors.New("collateral description is required")
	}

	col := Collateral{
		id:             uuid.New(),
		loanID:         loanID,
		description:    description,
		estimatedValue: estimatedValue,
		serialNumber:   serialNumber,
		imagePaths:     imagePaths,
		notes:          notes,
		createdAt:      now,
	}
	col.domainEvents = append(col.domainEvents, event.NewCollateralAdded(col.id, loanID, description))
	return col, nil
}

// ReconstructCollateral rebuilds a Collateral aggregate from persistence.
func ReconstructCollateral(
	id, loanID uuid.UUID,
	description string,
	estimatedValue *money.Cents,
	serialNumber string,
	imagePaths []string,
	returnedAt *time.Time,
	notes string,
	createdAt time.Time,
) Collateral {
	return Collateral{
		id:             id,
		loanID:         loanID,
		description:    description,
		estimatedValue: estimatedValue,
		serialNumber:   serialNumber,
		imagePaths:     imagePaths,
		returnedAt:     returnedAt,
		notes:          notes,
		createdAt:      createdAt,
	}
}

// Update replaces the item's mutable details. Returned items stay returned.
func (c Collateral) Update(description string, estimatedValue *money.Cents, serialNumber, notes string) (Collateral, error) {
	if description == "" {
		return c, errors.New("collateral description is required")
	}
	next := c
	next.description = description
	next.estimatedValue = estimatedValue
	next.serialNumber = serialNumber
	next.notes = notes
	next.domainEvents = copyEvents(c.domainEvents)
	return next, nil
}

// MarkReturned records that the item went back to the borrower.
func (c Collateral) MarkReturned(now time.Time) (Collateral, error) {
	if c.returnedAt != nil {
		return c, errors.New("collateral already returned")
	}
	next := c
	next.returnedAt = &now
	next.domainEvents = copyEvents(c.domainEvents)
	next.domainEvents = append(next.domainEvents, event.NewCollateralReturned(c.id, c.loanID))
	return next, nil
}

func (c Collateral) ID() uuid.UUID                    { return c.id }
func (c Collateral) LoanID() uuid.UUID                { return c.loanID }
func (c Collateral) Description() string              { return c.description }
func (c Collateral) EstimatedValue() *money.Cents     { return c.estimatedValue }
func (c Collateral) SerialNumber() string             { return c.serialNumber }
func (c Collateral) ReturnedAt() *time.Time           { return c.returnedAt }
func (c Collateral) Notes() string                    { return c.notes }
func (c Collateral) CreatedAt() time.Time             { return c.createdAt }
func (c Collateral) DomainEvents() []event.DomainEvent { return c.domainEvents }

// ImagePaths returns a defensive copy of the stored image paths.
func (c Collateral) ImagePaths() []string {
	if c.imagePaths == nil {
		return nil
	}
	out := make([]string, len(c.imagePaths))
	copy(out, c.imagePaths)
	return out
}

// ClearEvents returns a copy with an empty event list.
func (c Collateral) ClearEvents() Collateral {
	next := c
	next.domainEvents = nil
	return next
}
