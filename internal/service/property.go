package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/lalith-99/propman/internal/repository"
)

type Person struct {
	UserID    uuid.UUID `json:"userId"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
}

type PropertyDetails struct {
	ID             uuid.UUID `json:"id"`
	Address        string    `json:"address"`
	OwnersDetails  []Person  `json:"ownersDetails"`
	TenantsDetails []Person  `json:"tenantsDetails"`
}

type Property struct {
	store repository.Store
}

func NewProperty(store repository.Store) *Property {
	return &Property{store: store}
}

// List returns the properties the caller manages with their owners and tenants.
func (s *Property) List(ctx context.Context, callerID uuid.UUID) ([]PropertyDetails, error) {
	repos := s.store.Repos()

	ids, err := managedProperties(ctx, repos, callerID)
	if err != nil {
		return nil, err
	}

	properties, err := repos.Properties.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	owners, err := repos.Contacts.OwnersByProperties(ctx, ids)
	if err != nil {
		return nil, err
	}
	tenants, err := repos.Contacts.TenantsByProperties(ctx, ids)
	if err != nil {
		return nil, err
	}

	ownersByProperty := make(map[uuid.UUID][]Person)
	for _, o := range owners {
		ownersByProperty[o.PropertyID] = append(ownersByProperty[o.PropertyID], Person{UserID: o.UserID, FirstName: o.FirstName, LastName: o.LastName})
	}
	tenantsByProperty := make(map[uuid.UUID][]Person)
	for _, t := range tenants {
		tenantsByProperty[t.PropertyID] = append(tenantsByProperty[t.PropertyID], Person{UserID: t.UserID, FirstName: t.FirstName, LastName: t.LastName})
	}

	out := make([]PropertyDetails, 0, len(properties))
	for _, p := range properties {
		d := PropertyDetails{
			ID:             p.ID,
			Address:        p.Address,
			OwnersDetails:  ownersByProperty[p.ID],
			TenantsDetails: tenantsByProperty[p.ID],
		}
		if d.OwnersDetails == nil {
			d.OwnersDetails = []Person{}
		}
		if d.TenantsDetails == nil {
			d.TenantsDetails = []Person{}
		}
		out = append(out, d)
	}
	return out, nil
}
