package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lendtrack/lendtrack/internal/domain/model"
	pgdb "github.com/lendtrack/lendtrack/pkg/postgres"
)

// CustomerRepo implements port.CustomerRepository.
type CustomerRepo struct {
	pool *pgxpool.Pool
}

// NewCustomerRepo creates a new PostgreSQL-backed customer repository.
func NewCustomerRepo(pool *pgxpool.Pool) *CustomerRepo {
	return &CustomerRepo{pool: pool}
}

const customerColumns = `
	id, name, phone, email,
	national_id_number, national_id_type, national_id_expiry, national_id_image_paths,
	notes, active, created_at, updated_at
`

// Save upserts a customer.
func (r *CustomerRepo) Save(ctx context.Context, c model.Customer) error {
	query := `
		INSERT INTO customers (
			id, name, phone, email,
			national_id_number, national_id_type, national_id_expiry, national_id_image_paths,
			notes, active, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		ON CONFLICT (id) DO UPDATE SET
			name                    = EXCLUDED.name,
			phone                   = EXCLUDED.phone,
			email                   = EXCLUDED.email,
			national_id_number      = EXCLUDED.national_id_number,
			national_id_type        = EXCLUDED.national_id_type,
			national_id_expiry      = EXCLUDED.national_id_expiry,
			national_id_image_paths = EXCLUDED.national_id_image_paths,
			notes                   = EXCLUDED.notes,
			active                  = EXCLUDED.active,
			updated_at              = EXCLUDED.updated_at
	`
	nid := c.NationalID()
	_, err := pgdb.QuerierFrom(ctx, r.pool).Exec(ctx, query,
		c.ID(), c.Name(), c.Phone(), c.Email(),
		nid.Number, nid.Type, nid.Expiry, nid.ImagePaths,
		c.Notes(), c.Active(), c.CreatedAt(), c.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("save customer: %w", err)
	}
	return nil
}

// FindByID retrieves a customer by ID.
func (r *CustomerRepo) FindByID(ctx context.Context, id uuid.UUID) (model.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`
	row := pgdb.QuerierFrom(ctx, r.pool).QueryRow(ctx, query, id)
	c, err := scanCustomerRow(row)
	if err != nil {
		return model.Customer{}, mapNotFound(err, "find customer")
	}
	return c, nil
}

// FindAll retrieves all customers, newest first.
func (r *CustomerRepo) FindAll(ctx context.Context) ([]model.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers ORDER BY created_at DESC`
	rows, err := pgdb.QuerierFrom(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query customers: %w", err)
	}
	defer rows.Close()

	var customers []model.Customer
	for rows.Next() {
		c, err := scanCustomerRow(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

func scanCustomerRow(s scannable) (model.Customer, error) {
	var (
		id                   uuid.UUID
		name, phone, email   string
		nidNumber, nidType   string
		nidExpiry            *time.Time
		nidImages            []string
		notes                string
		active               bool
		createdAt, updatedAt time.Time
	)
	err := s.Scan(
		&id, &name, &phone, &email,
		&nidNumber, &nidType, &nidExpiry, &nidImages,
		&notes, &active, &createdAt, &updatedAt,
	)
	if err != nil {
		return model.Customer{}, err
	}

	return model.ReconstructCustomer(
		id, name, phone, email,
		model.NationalID{Number: nidNumber, Type: nidType, Expiry: nidExpiry, ImagePaths: nidImages},
		notes, active, createdAt, updatedAt,
	), nil
}
