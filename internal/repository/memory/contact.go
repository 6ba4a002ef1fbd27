package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/lalith-99/propman/internal/models"
	"github.com/lalith-99/propman/internal/repository"
)

type ContactStore struct {
	access accessor
}

type table func(st *state) *[]models.Contact

var (
	managers table = func(st *state) *[]models.Contact { return &st.managers }
	owners   table = func(st *state) *[]models.Contact { return &st.owners }
	tenants  table = func(st *state) *[]models.Contact { return &st.tenants }
)

func (s *ContactStore) AddManager(ctx context.Context, c *models.PropertyManager) error {
	return s.insert(managers, models.Contact(*c), true)
}

func (s *ContactStore) AddOwner(ctx context.Context, c *models.PropertyOwner) error {
	return s.insert(owners, models.Contact(*c), false)
}

func (s *ContactStore) AddTenant(ctx context.Context, c *models.PropertyTenant) error {
	return s.insert(tenants, models.Contact(*c), false)
}

func (s *ContactStore) ManagersByUser(ctx context.Context, userID uuid.UUID) ([]models.PropertyManager, error) {
	contacts, err := s.list(managers, func(c models.Contact) bool { return c.UserID == userID })
	if err != nil {
		return nil, err
	}
	out := make([]models.PropertyManager, 0, len(contacts))
	for _, c := range contacts {
		out = append(out, models.PropertyManager(c))
	}
	return out, nil
}

func (s *ContactStore) OwnerByUser(ctx context.Context, userID uuid.UUID) (*models.PropertyOwner, error) {
	contacts, err := s.list(owners, func(c models.Contact) bool { return c.UserID == userID })
	if err != nil || len(contacts) == 0 {
		return nil, err
	}
	return (*models.PropertyOwner)(&contacts[0]), nil
}

func (s *ContactStore) TenantByUser(ctx context.Context, userID uuid.UUID) (*models.PropertyTenant, error) {
	contacts, err := s.list(tenants, func(c models.Contact) bool { return c.UserID == userID })
	if err != nil || len(contacts) == 0 {
		return nil, err
	}
	return (*models.PropertyTenant)(&contacts[0]), nil
}

func (s *ContactStore) OwnersByProperties(ctx context.Context, propertyIDs []uuid.UUID) ([]models.PropertyOwner, error) {
	contacts, err := s.list(owners, func(c models.Contact) bool { return slices.Contains(propertyIDs, c.PropertyID) })
	if err != nil {
		return nil, err
	}
	out := make([]models.PropertyOwner, 0, len(contacts))
	for _, c := range contacts {
		out = append(out, models.PropertyOwner(c))
	}
	return out, nil
}

func (s *ContactStore) TenantsByProperties(ctx context.Context, propertyIDs []uuid.UUID) ([]models.PropertyTenant, error) {
	contacts, err := s.list(tenants, func(c models.Contact) bool { return slices.Contains(propertyIDs, c.PropertyID) })
	if err != nil {
		return nil, err
	}
	out := make([]models.PropertyTenant, 0, len(contacts))
	for _, c := range contacts {
		out = append(out, models.PropertyTenant(c))
	}
	return out, nil
}

func (s *ContactStore) insert(t table, c models.Contact, onePerProperty bool) error {
	return s.access(func(st *state) error {
		if _, ok := st.users[c.UserID]; !ok {
			return fmt.Errorf("insert contact: %w: user", repository.ErrForeignKey)
		}
		if _, ok := st.properties[c.PropertyID]; !ok {
			return fmt.Errorf("insert contact: %w: property", repository.ErrForeignKey)
		}
		rows := t(st)
		if onePerProperty && slices.ContainsFunc(*rows, func(r models.Contact) bool { return r.PropertyID == c.PropertyID }) {
			return fmt.Errorf("insert contact: %w", repository.ErrPropertyManaged)
		}
		*rows = append(*rows, c)
		return nil
	})
}

// list returns matching rows ordered by last name, first name, id.
func (s *ContactStore) list(t table, match func(models.Contact) bool) ([]models.Contact, error) {
	contacts := make([]models.Contact, 0)
	err := s.access(func(st *state) error {
		for _, c := range *t(st) {
			if match(c) {
				contacts = append(contacts, c)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(contacts, func(a, b models.Contact) int {
		return cmp.Or(
			cmp.Compare(a.LastName, b.LastName),
			cmp.Compare(a.FirstName, b.FirstName),
			cmp.Compare(a.ID.String(), b.ID.String()),
		)
	})
	return contacts, nil
}
