package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// NationalID groups the identity-document fields captured for a customer.
// All fields are optional; image paths reference externally stored scans.
type NationalID struct {
	Number     string
	Type       string
	Expiry     *time.Time
	ImagePaths []string
}

// Customer is an immutable aggregate. Mutations return a new copy.
type Customer struct {
	id         uuid.UUID
	name       string
	phone      string
	email      string
	nationalID NationalID
	notes      string
	active     bool
	createdAt  time.Time
	updatedAt  time.Time
}

// NewCustomer registers a customer. Name is the only required field.
func NewCustomer(name, phone, email string, nationalID NationalID, notes string, now time.Time) (Customer, error) {
	if name == "" {
		return Customer{}, errors.New("customer name is required")
	}
	return Customer{
		id:         uuid.New(),
		name:       name,
		phone:      phone,
		email:      email,
		nationalID: nationalID,
		notes:      notes,
		active:     true,
		createdAt:  now,
		updatedAt:  now,
	}, nil
}

// ReconstructCustomer rebuilds a Customer aggregate from persistence.
func ReconstructCustomer(
	id uuid.UUID,
	name, phone, email string,
	nationalID NationalID,
	notes string,
	active bool,
	createdAt, updatedAt time.Time,
) Customer {
	return Customer{
		id:         id,
		name:       name,
		phone:      phone,
		email:      email,
		nationalID: nationalID,
		notes:      notes,
		active:     active,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
	}
}

// Update replaces the customer's mutable details.
func (c Customer) Update(name, phone, email string, nationalID NationalID, notes string, now time.Time) (Customer, error) {
	if name == "" {
		return c, errors.New("customer name is required")
	}
	next := c
	next.name = name
	next.phone = phone
	next.email = email
	next.nationalID = nationalID
	next.notes = notes
	next.updatedAt = now
	return next, nil
}

// Deactivate hides the customer from day-to-day listings without deleting
// their loan history.
func (c Customer) Deactivate(now time.Time) Customer {
	next := c
	next.active = false
	next.updatedAt = now
	return next
}

func (c Customer) ID() uuid.UUID          { return c.id }
func (c Customer) Name() string           { return c.name }
func (c Customer) Phone() string          { return c.phone }
func (c Customer) Email() string          { return c.email }
func (c Customer) Notes() string          { return c.notes }
func (c Customer) Active() bool           { return c.active }
func (c Customer) CreatedAt() time.Time   { return c.createdAt }
func (c Customer) UpdatedAt() time.Time   { return c.updatedAt }

// NationalID returns a defensive copy of the identity-document fields.
func (c Customer) NationalID() NationalID {
	nid := c.nationalID
	if nid.ImagePaths != nil {
		paths := make([]string, len(nid.ImagePaths))
		copy(paths, nid.ImagePaths)
		nid.ImagePaths = paths
	}
	return nid
}
