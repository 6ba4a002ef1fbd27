package api

import (
	"github.com/gin-gonic/gin"
	"github.com/lalith-99/propman/internal/service"
	"go.uber.org/zap"
)

// AccountHandler serves the public account endpoints: register, login and
// refresh. None of them run behind AuthMiddleware.
type AccountHandler struct {
	accounts *service.Account
	logger   *zap.Logger
}

func NewAccountHandler(accounts *service.Account, logger *zap.Logger) *AccountHandler {
	return &AccountHandler{accounts: accounts, logger: logger}
}

type registerRequest struct {
	Username        string   `json:"username" binding:"required"`
	Password        string   `json:"password" binding:"required"`
	ConfirmPassword string   `json:"confirmPassword"`
	FirstName       string   `json:"firstName" binding:"required"`
	LastName        string   `json:"lastName" binding:"required"`
	Email           string   `json:"email" binding:"required,email"`
	Role            string   `json:"role" binding:"required"`
	CompanyName     string   `json:"companyName"`
	Address         string   `json:"address"`
	JobTypeIDs      []string `json:"jobTypeIds"`
}

// loginRequest.Email accepts a username as well.
type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type accessTokenResponse struct {
	AccessToken string `json:"accessToken"`
}

// Register handles POST /api/account/register
//
// Binding only checks presence and format. Role-dependent rules (company
// name for providers, address for everyone else, password confirmation)
// live in the service, which reports every failing field in one 400.
func (h *AccountHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	reg, err := h.accounts.Register(c.Request.Context(), service.RegisterInput{
		Username:        req.Username,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		Role:            req.Role,
		CompanyName:     req.CompanyName,
		Address:         req.Address,
		JobTypeIDs:      req.JobTypeIDs,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	respondOK(c, "User registered successfully", reg)
}

// Login handles POST /api/account/login
func (h *AccountHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	pair, err := h.accounts.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	respondOK(c, "Login successful", pair)
}

// Refresh handles POST /api/account/refresh-token
func (h *AccountHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	token, err := h.accounts.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	respondOK(c, "Token refreshed", accessTokenResponse{AccessToken: token})
}
