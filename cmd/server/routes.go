package main

import (
	"github.com/avstack/console/internal/handlers"
	"github.com/avstack/console/internal/middleware"
	"github.com/avstack/console/internal/models"
	"github.com/avstack/console/pkg/logger"
	"github.com/gin-gonic/gin"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, svc *appServices) {
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	r.Use(middleware.CORS())

	// Rate limiter for unauthenticated auth routes
	authLimiter := middleware.NewRateLimiter(5, 10)

	// Health check
	r.GET("/health", handlers.Health)

	api := r.Group("/api")
	{
		api.GET("/hello", handlers.Hello)

		// Auth routes (public, rate limited)
		auth := api.Group("/auth", authLimiter.Middleware())
		{
			auth.POST("/login", svc.authHandler.Login)
			auth.POST("/register", svc.authHandler.Register)
			auth.GET("/registration", svc.authHandler.RegistrationPolicy)
			auth.GET("/invite-status", svc.authHandler.InviteStatus)
		}

		// Protected routes (any authenticated session)
		protected := api.Group("")
		protected.Use(middleware.AuthRequired())
		{
			protected.GET("/auth/me", svc.authHandler.GetCurrentUser)
			protected.POST("/auth/logout", svc.authHandler.Logout)
			protected.POST("/auth/change-password", svc.authHandler.ChangePassword)

			protected.GET("/account/profile", svc.accountHandler.GetProfile)
			protected.PUT("/account/profile", svc.accountHandler.UpdateProfile)
		}

		// Admin routes (superuser only, role re-checked against storage)
		admin := api.Group("/admin")
		admin.Use(middleware.AuthRequired(), middleware.SuperuserRequired(models.GetDB()))
		{
			admin.GET("/users", svc.userHandler.List)
			admin.GET("/profile", svc.userHandler.AdminProfile)
			admin.PUT("/users/:id/role", svc.userHandler.SetRole)

			admin.GET("/invites", svc.inviteHandler.List)
			admin.POST("/invites", svc.inviteHandler.Create)
			admin.POST("/invites/:id/revoke", svc.inviteHandler.Revoke)

			admin.GET("/settings", svc.settingsHandler.List)
			admin.PUT("/settings/:key", svc.settingsHandler.Upsert)
			admin.DELETE("/settings/:key", svc.settingsHandler.Reset)

			admin.GET("/audit-log", svc.auditHandler.List)
		}
	}
}
