package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a login identity. The role-specific profile (manager, owner,
// tenant or provider record) lives in its own table and points back here.
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Property is a managed building or unit, identified by its address.
type Property struct {
	ID        uuid.UUID `json:"id"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"createdAt"`
}

// Contact is the shape shared by the three property role records.
type Contact struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"userId"`
	PropertyID uuid.UUID `json:"propertyId"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	Email      string    `json:"email"`
}

// PropertyManager ties a manager user to one property.
type PropertyManager Contact

// PropertyOwner ties an owner user to one property.
type PropertyOwner Contact

// PropertyTenant ties a tenant user to one property.
type PropertyTenant Contact

// ServiceProvider is a business that can be assigned jobs.
type ServiceProvider struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"userId"`
	CompanyName string    `json:"companyName"`
	Email       string    `json:"email"`
}

// JobType categorizes jobs and the providers able to do them.
type JobType struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// ServiceProviderJobType records that a provider offers a job type.
type ServiceProviderJobType struct {
	ID                uuid.UUID `json:"id"`
	JobTypeID         uuid.UUID `json:"jobTypeId"`
	ServiceProviderID uuid.UUID `json:"serviceProviderId"`
}

// Job is a maintenance request posted by a manager against a property.
//
// JobNumber is a six digit number, unique across all jobs.
type Job struct {
	ID                uuid.UUID `json:"id"`
	JobNumber         int       `json:"jobNumber"`
	PropertyID        uuid.UUID `json:"propertyId"`
	PostedByUserID    uuid.UUID `json:"postedByUserId"`
	TypeID            uuid.UUID `json:"typeId"`
	ServiceProviderID uuid.UUID `json:"serviceProviderId"`
	Description       string    `json:"description"`
	PostedOn          time.Time `json:"postedOn"`
}

const (
	MinJobNumber = 100000
	MaxJobNumber = 999999
)
