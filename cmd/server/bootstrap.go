package main

import (
	"github.com/avstack/console/internal/config"
	"github.com/avstack/console/internal/handlers"
	"github.com/avstack/console/internal/models"
	"github.com/avstack/console/internal/services"
	"github.com/avstack/console/internal/utils"
	"github.com/avstack/console/pkg/logger"
)

// appServices holds all initialized services and handlers needed by the application.
type appServices struct {
	auditService    *services.AuditService
	authHandler     *handlers.AuthHandler
	accountHandler  *handlers.AccountHandler
	userHandler     *handlers.UserHandler
	inviteHandler   *handlers.InviteHandler
	settingsHandler *handlers.SettingsHandler
	auditHandler    *handlers.AuditHandler
}

// bootstrap initializes all application dependencies: database, services, schedulers.
func bootstrap(cfg *config.Config) *appServices {
	utils.SetJWTSecret(cfg.JWT.Secret)

	if err := models.InitDB(&cfg.Database); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	if err := models.AutoMigrate(); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	db := models.GetDB()

	// The console is unusable without a superuser; seed one on first start.
	userService := services.NewUserService(db)
	if err := userService.EnsureSuperuser(
		cfg.Bootstrap.SuperuserEmail,
		cfg.Bootstrap.SuperuserName,
		cfg.Bootstrap.SuperuserPassword,
	); err != nil {
		logger.Warn().Err(err).Msg("Failed to seed initial superuser")
	}

	auditService := services.NewAuditService(db)
	auditService.StartCleanupScheduler(cfg.Audit.RetentionDays)

	return &appServices{
		auditService:    auditService,
		authHandler:     handlers.NewAuthHandler(db, cfg),
		accountHandler:  handlers.NewAccountHandler(db),
		userHandler:     handlers.NewUserHandler(db),
		inviteHandler:   handlers.NewInviteHandler(db),
		settingsHandler: handlers.NewSettingsHandler(db),
		auditHandler:    handlers.NewAuditHandler(db),
	}
}

// shutdown gracefully stops all background services.
func (s *appServices) shutdown() {
	s.auditService.StopCleanupScheduler()
	logger.Info().Msg("All schedulers stopped")
}
