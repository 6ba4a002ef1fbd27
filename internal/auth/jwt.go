package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/lalith-99/propman/internal/config"
	"github.com/lalith-99/propman/internal/models"
)

// TokenType separates access tokens from refresh tokens signed with the
// same key, so neither can stand in for the other.
type TokenType string

const (
	TokenAccess  TokenType = "access"
	TokenRefresh TokenType = "refresh"
)

var ErrWrongTokenType = errors.New("wrong token type")

// Claims is the payload of both token types. The capitalized claim names
// are read by the browser client as-is.
type Claims struct {
	UserID      uuid.UUID   `json:"UserId"`
	UserName    string      `json:"UserName"`
	Role        models.Role `json:"role"`
	FirstName   string      `json:"FirstName,omitempty"`
	LastName    string      `json:"LastName,omitempty"`
	Email       string      `json:"email,omitempty"`
	CompanyName string      `json:"CompanyName,omitempty"`
	TokenType   TokenType   `json:"TokenType"`
	jwt.RegisteredClaims
}

// Identity is what a token says about its user. Which fields are filled
// depends on the role record the user has.
type Identity struct {
	UserID      uuid.UUID
	UserName    string
	Role        models.Role
	FirstName   string
	LastName    string
	Email       string
	CompanyName string
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Issuer signs and validates HS256 tokens for one issuer/audience pair.
type Issuer struct {
	secret     []byte
	issuer     string
	audience   string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewIssuer(cfg config.JWTConfig) *Issuer {
	return &Issuer{
		secret:     []byte(cfg.Secret),
		issuer:     cfg.Issuer,
		audience:   cfg.Audience,
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		now:        time.Now,
	}
}

func (i *Issuer) IssuePair(id Identity) (TokenPair, error) {
	access, err := i.sign(id, TokenAccess, i.accessTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := i.sign(id, TokenRefresh, i.refreshTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (i *Issuer) IssueAccess(id Identity) (string, error) {
	return i.sign(id, TokenAccess, i.accessTTL)
}

func (i *Issuer) sign(id Identity, typ TokenType, ttl time.Duration) (string, error) {
	now := i.now()

	claims := Claims{
		UserID:      id.UserID,
		UserName:    id.UserName,
		Role:        id.Role,
		FirstName:   id.FirstName,
		LastName:    id.LastName,
		Email:       id.Email,
		CompanyName: id.CompanyName,
		TokenType:   typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID.String(),
			ID:        uuid.NewString(),
			Issuer:    i.issuer,
			Audience:  jwt.ClaimStrings{i.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", typ, err)
	}
	return signed, nil
}

// ParseAccess validates a bearer token. Refresh tokens are rejected.
func (i *Issuer) ParseAccess(tokenString string) (*Claims, error) {
	return i.parse(tokenString, TokenAccess)
}

// ParseRefresh validates a refresh token. Access tokens are rejected.
func (i *Issuer) ParseRefresh(tokenString string) (*Claims, error) {
	return i.parse(tokenString, TokenRefresh)
}

func (i *Issuer) parse(tokenString string, want TokenType) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return i.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(i.issuer),
		jwt.WithAudience(i.audience),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	if claims.TokenType != want {
		return nil, fmt.Errorf("parse token: %w: got %q, want %q", ErrWrongTokenType, claims.TokenType, want)
	}
	return claims, nil
}
