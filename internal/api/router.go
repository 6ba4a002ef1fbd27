package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/propman/internal/auth"
	"github.com/lalith-99/propman/internal/middleware"
	"github.com/lalith-99/propman/internal/observ"
	"github.com/lalith-99/propman/internal/repository"
	"github.com/lalith-99/propman/internal/service"
	"go.uber.org/zap"
)

// Deps is everything the router needs to build its handlers.
type Deps struct {
	Store            repository.Store
	Tokens           *auth.Issuer
	Accounts         *service.Account
	Jobs             *service.Job
	Properties       *service.Property
	ServiceProviders *service.ServiceProvider
	Metrics          *observ.Metrics
	Logger           *zap.Logger
}

func NewRouter(d Deps) *gin.Engine {
	useJSONFieldNames()

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(d.Logger),
		middleware.Metrics(d.Metrics),
		gin.CustomRecovery(func(c *gin.Context, recovered any) {
			middleware.GetLogger(c, d.Logger).Error("panic recovered", zap.Any("panic", recovered))
			c.AbortWithStatusJSON(http.StatusInternalServerError, errorBody{Message: "internal server error"})
		}),
	)

	health := NewHealthHandler(d.Store, d.Logger)
	r.GET("/health", health.Check)
	r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))

	accounts := NewAccountHandler(d.Accounts, d.Logger)
	users := NewUserHandler(d.Store.Repos().Users, d.Logger)
	jobs := NewJobHandler(d.Jobs, d.Logger)
	properties := NewPropertyHandler(d.Properties, d.Logger)
	providers := NewServiceProviderHandler(d.ServiceProviders, d.Logger)

	api := r.Group("/api")

	account := api.Group("/account")
	account.POST("/register", accounts.Register)
	account.POST("/login", accounts.Login)
	account.POST("/refresh-token", accounts.Refresh)

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(d.Tokens))

	protected.GET("/account/me", users.GetMe)

	protected.GET("/job/getalljobs", jobs.List)
	protected.GET("/job/getjobdetails/:id", jobs.Details)
	protected.GET("/job/getjobtypes", jobs.Types)
	protected.POST("/job/createnewjob", jobs.Create)

	protected.GET("/property/getpropertydetails", properties.List)

	protected.GET("/serviceprovider/getserviceproviderdetails", providers.ListByJobType)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, errorBody{Message: "route not found"})
	})

	return r
}
