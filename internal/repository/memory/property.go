package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/lalith-99/propman/internal/models"
	"github.com/lalith-99/propman/internal/repository"
)

type PropertyStore struct {
	access accessor
}

func (s *PropertyStore) Create(ctx context.Context, p *models.Property) error {
	return s.access(func(st *state) error {
		address := repository.Normalize(p.Address)
		for _, existing := range st.properties {
			if repository.Normalize(existing.Address) == address {
				return fmt.Errorf("insert property: %w", repository.ErrDuplicateAddress)
			}
		}
		p.CreatedAt = time.Now().UTC()
		st.properties[p.ID] = *p
		return nil
	})
}

func (s *PropertyStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	var found *models.Property
	err := s.access(func(st *state) error {
		if p, ok := st.properties[id]; ok {
			found = &p
		}
		return nil
	})
	return found, err
}

func (s *PropertyStore) GetByAddress(ctx context.Context, address string) (*models.Property, error) {
	key := repository.Normalize(address)
	var found *models.Property
	err := s.access(func(st *state) error {
		for _, p := range st.properties {
			if repository.Normalize(p.Address) == key {
				found = &p
				return nil
			}
		}
		return nil
	})
	return found, err
}

// ListByIDs returns the matching properties ordered by address.
func (s *PropertyStore) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Property, error) {
	properties := make([]models.Property, 0, len(ids))
	err := s.access(func(st *state) error {
		for _, id := range uniqueIDs(ids) {
			if p, ok := st.properties[id]; ok {
				properties = append(properties, p)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(properties, func(a, b models.Property) int {
		return cmp.Or(cmp.Compare(a.Address, b.Address), cmp.Compare(a.ID.String(), b.ID.String()))
	})
	return properties, nil
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
