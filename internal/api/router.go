// Package api assembles the gin engine: middleware chain and route table.
package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/gym-api/internal/handlers"
	"github.com/harentsoaR/gym-api/internal/metrics"
	"github.com/harentsoaR/gym-api/internal/middleware"
	"github.com/harentsoaR/gym-api/internal/models"
)

type RouterOptions struct {
	CORSOrigins []string
	ExposeStack bool
}

// NewRouter builds the HTTP surface on top of h. m may be nil, in which case
// no /metrics endpoint is mounted.
func NewRouter(h *handlers.Handler, m *metrics.HTTP, opts RouterOptions) *gin.Engine {
	handlers.RegisterValidators()

	r := gin.New()
	r.Use(middleware.Recovery(opts.ExposeStack), middleware.RequestID(), middleware.RequestLogger())
	if m != nil {
		r.Use(m.Middleware())
	}
	corsConfig := cors.Config{
		AllowOrigins:     opts.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(opts.CORSOrigins) == 0 {
		corsConfig.AllowOrigins = nil
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	}
	r.Use(cors.New(corsConfig))
	r.NoRoute(middleware.NotFound(opts.ExposeStack))

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "API is running...")
	})
	if m != nil {
		r.GET("/metrics", gin.WrapH(m.Handler()))
	}

	authenticated := middleware.AuthMiddleware(h.Tokens, h.Store.Users, opts.ExposeStack)
	adminOnly := middleware.RequireRole(models.RoleAdmin, opts.ExposeStack)

	apiRoutes := r.Group("/api")

	authRoutes := apiRoutes.Group("/auth")
	{
		authRoutes.POST("/signup", h.Signup)
		authRoutes.POST("/signin", h.Signin)
	}

	apiRoutes.GET("/users/profile", authenticated, h.GetProfile)

	// Self-service routes only need a valid token.
	myRoutes := apiRoutes.Group("/members/my", authenticated)
	{
		myRoutes.GET("/bills", h.GetMyBills)
		myRoutes.GET("/notifications", h.GetMyNotifications)
		myRoutes.PUT("/notifications/:id", h.UpdateMyNotification)
	}

	memberRoutes := apiRoutes.Group("/members", authenticated, adminOnly)
	{
		memberRoutes.POST("", h.CreateMember)
		memberRoutes.GET("", h.GetMembers)
		memberRoutes.GET("/:id", h.GetMember)
		memberRoutes.PUT("/:id", h.UpdateMember)
		memberRoutes.DELETE("/:id", h.DeleteMember)
		memberRoutes.PUT("/:id/assign-package", h.AssignPackage)
	}

	h.RegisterBills(apiRoutes.Group("/bills", authenticated, adminOnly))
	h.RegisterFeePackages(apiRoutes.Group("/fee-packages", authenticated, adminOnly))
	h.RegisterSupplements(apiRoutes.Group("/supplements", authenticated, adminOnly))
	h.RegisterDietDetails(apiRoutes.Group("/diet-details", authenticated, adminOnly))
	h.RegisterNotifications(apiRoutes.Group("/notifications", authenticated, adminOnly))

	adminRoutes := apiRoutes.Group("/admin", authenticated, adminOnly)
	{
		adminRoutes.GET("/dashboard-stats", h.GetDashboardStats)
		adminRoutes.GET("/export-report", h.ExportReport)
	}

	return r
}
