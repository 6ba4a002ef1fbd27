package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/lalith-99/propman/internal/models"
)

// ContactStore serves property_managers, property_owners and
// property_tenants. The tables are identical apart from their name.
type ContactStore struct {
	db DBTX
}

func NewContactStore(db DBTX) *ContactStore {
	return &ContactStore{db: db}
}

const (
	tableManagers = "property_managers"
	tableOwners   = "property_owners"
	tableTenants  = "property_tenants"
)

func (s *ContactStore) AddManager(ctx context.Context, c *models.PropertyManager) error {
	return s.insert(ctx, tableManagers, (*models.Contact)(c))
}

func (s *ContactStore) AddOwner(ctx context.Context, c *models.PropertyOwner) error {
	return s.insert(ctx, tableOwners, (*models.Contact)(c))
}

func (s *ContactStore) AddTenant(ctx context.Context, c *models.PropertyTenant) error {
	return s.insert(ctx, tableTenants, (*models.Contact)(c))
}

func (s *ContactStore) ManagersByUser(ctx context.Context, userID uuid.UUID) ([]models.PropertyManager, error) {
	contacts, err := s.list(ctx, tableManagers, "user_id = $1", userID)
	if err != nil {
		return nil, err
	}
	managers := make([]models.PropertyManager, 0, len(contacts))
	for _, c := range contacts {
		managers = append(managers, models.PropertyManager(c))
	}
	return managers, nil
}

func (s *ContactStore) OwnerByUser(ctx context.Context, userID uuid.UUID) (*models.PropertyOwner, error) {
	c, err := s.first(ctx, tableOwners, userID)
	if err != nil || c == nil {
		return nil, err
	}
	return (*models.PropertyOwner)(c), nil
}

func (s *ContactStore) TenantByUser(ctx context.Context, userID uuid.UUID) (*models.PropertyTenant, error) {
	c, err := s.first(ctx, tableTenants, userID)
	if err != nil || c == nil {
		return nil, err
	}
	return (*models.PropertyTenant)(c), nil
}

func (s *ContactStore) OwnersByProperties(ctx context.Context, propertyIDs []uuid.UUID) ([]models.PropertyOwner, error) {
	owners := make([]models.PropertyOwner, 0)
	if len(propertyIDs) == 0 {
		return owners, nil
	}
	contacts, err := s.list(ctx, tableOwners, "property_id = ANY($1)", propertyIDs)
	if err != nil {
		return nil, err
	}
	for _, c := range contacts {
		owners = append(owners, models.PropertyOwner(c))
	}
	return owners, nil
}

func (s *ContactStore) TenantsByProperties(ctx context.Context, propertyIDs []uuid.UUID) ([]models.PropertyTenant, error) {
	tenants := make([]models.PropertyTenant, 0)
	if len(propertyIDs) == 0 {
		return tenants, nil
	}
	contacts, err := s.list(ctx, tableTenants, "property_id = ANY($1)", propertyIDs)
	if err != nil {
		return nil, err
	}
	for _, c := range contacts {
		tenants = append(tenants, models.PropertyTenant(c))
	}
	return tenants, nil
}

func (s *ContactStore) insert(ctx context.Context, table string, c *models.Contact) error {
	query := `
		INSERT INTO ` + table + ` (id, user_id, property_id, first_name, last_name, email)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := s.db.Exec(ctx, query, c.ID, c.UserID, c.PropertyID, c.FirstName, c.LastName, c.Email)
	if err != nil {
		return translate("insert "+table, err)
	}
	return nil
}

func (s *ContactStore) first(ctx context.Context, table string, userID uuid.UUID) (*models.Contact, error) {
	query := `
		SELECT id, user_id, property_id, first_name, last_name, email
		FROM ` + table + `
		WHERE user_id = $1
		ORDER BY last_name, first_name, id
		LIMIT 1`

	var c models.Contact
	err := s.db.QueryRow(ctx, query, userID).Scan(
		&c.ID,
		&c.UserID,
		&c.PropertyID,
		&c.FirstName,
		&c.LastName,
		&c.Email,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get %s: %w", table, err)
	}
	return &c, nil
}

func (s *ContactStore) list(ctx context.Context, table, where string, arg any) ([]models.Contact, error) {
	query := `
		SELECT id, user_id, property_id, first_name, last_name, email
		FROM ` + table + `
		WHERE ` + where + `
		ORDER BY last_name, first_name, id`

	rows, err := s.db.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", table, err)
	}
	defer rows.Close()

	contacts := make([]models.Contact, 0)
	for rows.Next() {
		var c models.Contact
		if err := rows.Scan(
			&c.ID,
			&c.UserID,
			&c.PropertyID,
			&c.FirstName,
			&c.LastName,
			&c.Email,
		); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		contacts = append(contacts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", table, err)
	}

	return contacts, nil
}
