package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/lalith-99/propman/internal/auth"
	"github.com/lalith-99/propman/internal/models"
	"github.com/lalith-99/propman/internal/observ"
	"github.com/lalith-99/propman/internal/repository"
	"go.uber.org/zap"
)

const minPasswordLength = 8

type RegisterInput struct {
	Username        string
	Password        string
	ConfirmPassword string
	FirstName       string
	LastName        string
	Email           string
	Role            string
	CompanyName     string
	Address         string
	JobTypeIDs      []string
}

type Registered struct {
	ID       uuid.UUID   `json:"id"`
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
}

// Account handles registration and token issuance.
type Account struct {
	store   repository.Store
	tokens  *auth.Issuer
	metrics *observ.Metrics
	logger  *zap.Logger
}

func NewAccount(store repository.Store, tokens *auth.Issuer, metrics *observ.Metrics, logger *zap.Logger) *Account {
	return &Account{store: store, tokens: tokens, metrics: metrics, logger: logger}
}

// Register creates the user and its role record in one transaction.
// Property roles are attached to the property at in.Address, which is
// created on first use. Any failure leaves nothing behind.
func (a *Account) Register(ctx context.Context, in RegisterInput) (*Registered, error) {
	role, jobTypeIDs, err := validateRegistration(in)
	if err != nil {
		return nil, err
	}

	repos := a.store.Repos()
	dup := &ValidationError{}
	if taken, err := repos.Users.ExistsUsername(ctx, in.Username); err != nil {
		return nil, err
	} else if taken {
		dup.Add("username", "username is already taken")
	}
	if taken, err := repos.Users.ExistsEmail(ctx, in.Email); err != nil {
		return nil, err
	} else if taken {
		dup.Add("email", "email is already registered")
	}
	if err := dup.Err(); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           uuid.New(),
		Username:     strings.TrimSpace(in.Username),
		Email:        strings.TrimSpace(in.Email),
		PasswordHash: hash,
		Role:         role,
	}

	err = a.store.WithinTx(ctx, func(tx repository.Repositories) error {
		if err := tx.Users.Create(ctx, user); err != nil {
			return err
		}
		if role == models.RoleServiceProvider {
			return createProvider(ctx, tx, user, strings.TrimSpace(in.CompanyName), jobTypeIDs)
		}
		return attachToProperty(ctx, tx, user, in)
	})
	switch {
	case errors.Is(err, repository.ErrDuplicateUsername):
		return nil, fieldError("username", "username is already taken")
	case errors.Is(err, repository.ErrDuplicateEmail):
		return nil, fieldError("email", "email is already registered")
	case errors.Is(err, repository.ErrPropertyManaged):
		return nil, fieldError("address", "this property already has a manager")
	case errors.Is(err, repository.ErrDuplicateAddress):
		return nil, fieldError("address", "property was registered concurrently, please retry")
	case err != nil:
		return nil, err
	}

	a.metrics.Registered(string(role))
	observ.FromContext(ctx, a.logger).Info("user registered",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(role)),
	)
	return &Registered{ID: user.ID, Username: user.Username, Role: role}, nil
}

func validateRegistration(in RegisterInput) (models.Role, []uuid.UUID, error) {
	v := &ValidationError{}

	if strings.TrimSpace(in.Username) == "" {
		v.Add("username", "username is required")
	}
	if !strings.Contains(in.Email, "@") {
		v.Add("email", "a valid email is required")
	}
	if strings.TrimSpace(in.FirstName) == "" {
		v.Add("firstName", "first name is required")
	}
	if strings.TrimSpace(in.LastName) == "" {
		v.Add("lastName", "last name is required")
	}
	if len(in.Password) < minPasswordLength {
		v.Add("password", fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	if in.ConfirmPassword != "" && in.ConfirmPassword != in.Password {
		v.Add("confirmPassword", "passwords do not match")
	}

	role, err := models.ParseRole(in.Role)
	if err != nil {
		v.Add("role", "role must be one of PropertyManager, PropertyOwner, PropertyTenant, ServiceProvider")
		return "", nil, v
	}

	var jobTypeIDs []uuid.UUID
	switch {
	case role == models.RoleServiceProvider:
		if strings.TrimSpace(in.CompanyName) == "" {
			v.Add("companyName", "company name is required for service providers")
		}
		for _, raw := range in.JobTypeIDs {
			id, err := uuid.Parse(strings.TrimSpace(raw))
			if err != nil {
				v.Add("jobTypeIds", fmt.Sprintf("%q is not a valid job type id", raw))
				continue
			}
			jobTypeIDs = append(jobTypeIDs, id)
		}
	case role.AttachesToProperty():
		if strings.TrimSpace(in.Address) == "" {
			v.Add("address", "address is required for this role")
		}
		if len(in.JobTypeIDs) > 0 {
			v.Add("jobTypeIds", "only service providers offer job types")
		}
	}

	return role, jobTypeIDs, v.Err()
}

func createProvider(ctx context.Context, tx repository.Repositories, user *models.User, company string, jobTypeIDs []uuid.UUID) error {
	provider := &models.ServiceProvider{
		ID:          uuid.New(),
		UserID:      user.ID,
		CompanyName: company,
		Email:       user.Email,
	}
	if err := tx.ServiceProviders.Create(ctx, provider); err != nil {
		return err
	}

	for _, id := range jobTypeIDs {
		jt, err := tx.JobTypes.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if jt == nil {
			return fieldError("jobTypeIds", fmt.Sprintf("job type %s does not exist", id))
		}
		err = tx.ServiceProviders.AddJobType(ctx, &models.ServiceProviderJobType{
			ID:                uuid.New(),
			JobTypeID:         id,
			ServiceProviderID: provider.ID,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// attachToProperty finds the property by normalized address, creating it on
// first use, and adds the caller's role record to it.
//
// Owners and tenants join whatever property sits at the address. A manager
// can only take an unmanaged property: AddManager fails with
// ErrPropertyManaged otherwise, so registering a second manager cannot
// expose the existing owners and tenants.
func attachToProperty(ctx context.Context, tx repository.Repositories, user *models.User, in RegisterInput) error {
	property, err := tx.Properties.GetByAddress(ctx, in.Address)
	if err != nil {
		return err
	}
	if property == nil {
		property = &models.Property{ID: uuid.New(), Address: strings.TrimSpace(in.Address)}
		if err := tx.Properties.Create(ctx, property); err != nil {
			return err
		}
	}

	contact := models.Contact{
		ID:         uuid.New(),
		UserID:     user.ID,
		PropertyID: property.ID,
		FirstName:  strings.TrimSpace(in.FirstName),
		LastName:   strings.TrimSpace(in.LastName),
		Email:      user.Email,
	}
	switch user.Role {
	case models.RolePropertyManager:
		return tx.Contacts.AddManager(ctx, (*models.PropertyManager)(&contact))
	case models.RolePropertyOwner:
		return tx.Contacts.AddOwner(ctx, (*models.PropertyOwner)(&contact))
	case models.RolePropertyTenant:
		return tx.Contacts.AddTenant(ctx, (*models.PropertyTenant)(&contact))
	}
	return fmt.Errorf("role %q has no property record", user.Role)
}

// dummyHash is compared against when the login matches no user, so a miss
// costs the same bcrypt work as a wrong password.
var dummyHash = sync.OnceValue(func() string {
	hash, _ := auth.HashPassword("propman-login-timing-equalizer")
	return hash
})

// Login accepts either the email address or the username in login.
//
// Why compare against dummyHash when the login is unknown?
//   - bcrypt dominates the cost of a login. Returning early for an unknown
//     account would make "no such user" measurably faster than "wrong
//     password", which lets a caller enumerate registered emails.
//   - Both paths therefore do one bcrypt comparison and return the same
//     ErrInvalidCredentials.
func (a *Account) Login(ctx context.Context, login, password string) (auth.TokenPair, error) {
	log := observ.FromContext(ctx, a.logger)

	user, err := a.store.Repos().Users.GetByLogin(ctx, login)
	if err != nil {
		return auth.TokenPair{}, err
	}
	if user == nil {
		auth.CheckPassword(dummyHash(), password)
		a.metrics.Login("failure")
		log.Info("login failed", zap.String("reason", "unknown login"))
		return auth.TokenPair{}, ErrInvalidCredentials
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		a.metrics.Login("failure")
		log.Info("login failed", zap.String("reason", "wrong password"), zap.String("user_id", user.ID.String()))
		return auth.TokenPair{}, ErrInvalidCredentials
	}

	id, err := a.identity(ctx, a.store.Repos(), user)
	if err != nil {
		return auth.TokenPair{}, err
	}
	pair, err := a.tokens.IssuePair(id)
	if err != nil {
		return auth.TokenPair{}, err
	}

	a.metrics.Login("success")
	log.Info("user logged in", zap.String("user_id", user.ID.String()), zap.String("role", string(user.Role)))
	return pair, nil
}

// Refresh exchanges a valid refresh token for a new access token. The user
// is reloaded so the claims reflect current data.
func (a *Account) Refresh(ctx context.Context, refreshToken string) (string, error) {
	log := observ.FromContext(ctx, a.logger)

	claims, err := a.tokens.ParseRefresh(refreshToken)
	if err != nil {
		a.metrics.Refresh("failure")
		log.Info("refresh rejected", zap.Error(err))
		return "", ErrInvalidToken
	}

	user, err := a.store.Repos().Users.GetByID(ctx, claims.UserID)
	if err != nil {
		return "", err
	}
	if user == nil {
		a.metrics.Refresh("failure")
		log.Info("refresh rejected", zap.String("reason", "user no longer exists"))
		return "", ErrInvalidToken
	}

	id, err := a.identity(ctx, a.store.Repos(), user)
	if err != nil {
		return "", err
	}
	token, err := a.tokens.IssueAccess(id)
	if err != nil {
		return "", err
	}

	a.metrics.Refresh("success")
	return token, nil
}

// identity sources claims from the record that matches the user's role.
// A user without that record still gets a username-only identity.
func (a *Account) identity(ctx context.Context, repos repository.Repositories, user *models.User) (auth.Identity, error) {
	id := auth.Identity{UserID: user.ID, UserName: user.Username, Role: user.Role}

	var contact *models.Contact
	switch user.Role {
	case models.RolePropertyManager:
		managers, err := repos.Contacts.ManagersByUser(ctx, user.ID)
		if err != nil {
			return id, err
		}
		if len(managers) > 0 {
			contact = (*models.Contact)(&managers[0])
		}
	case models.RolePropertyOwner:
		owner, err := repos.Contacts.OwnerByUser(ctx, user.ID)
		if err != nil {
			return id, err
		}
		contact = (*models.Contact)(owner)
	case models.RolePropertyTenant:
		tenant, err := repos.Contacts.TenantByUser(ctx, user.ID)
		if err != nil {
			return id, err
		}
		contact = (*models.Contact)(tenant)
	case models.RoleServiceProvider:
		provider, err := repos.ServiceProviders.GetByUser(ctx, user.ID)
		if err != nil {
			return id, err
		}
		if provider != nil {
			id.CompanyName = provider.CompanyName
			id.Email = provider.Email
			return id, nil
		}
	}

	if contact == nil {
		observ.FromContext(ctx, a.logger).Warn("user has no role record",
			zap.String("user_id", user.ID.String()),
			zap.String("role", string(user.Role)),
		)
		return id, nil
	}
	id.FirstName = contact.FirstName
	id.LastName = contact.LastName
	id.Email = contact.Email
	return id, nil
}
