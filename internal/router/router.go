package router

import (
	"time"

	"dripfit/config"
	"dripfit/internal/domain"
	"dripfit/internal/handler"
	"dripfit/internal/middleware"
	"dripfit/internal/repository"
	"dripfit/internal/service"
	"dripfit/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func Setup(cfg *config.Config, db *gorm.DB, log *logrus.Logger) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimitByIP(middleware.NewSlidingWindowLimiter(100, 60*time.Second)))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	gymRepo := repository.NewGymRepository(db)
	memberRepo := repository.NewMembershipRepository(db)
	txRepo := repository.NewTransactionRepository(db)
	rewardRepo := repository.NewRewardRepository(db)
	redemptionRepo := repository.NewRedemptionRepository(db)
	challengeRepo := repository.NewChallengeRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)

	feedHub := ws.NewFeedHub()

	// Services
	authSvc := service.NewAuthService(cfg, userRepo)
	notifSvc := service.NewNotificationService(notificationRepo)
	ledgerSvc := service.NewLedgerService(db, userRepo, memberRepo, txRepo, log)
	redemptionSvc := service.NewRedemptionService(db, &cfg.Drops, ledgerSvc, rewardRepo, redemptionRepo, notifSvc, feedHub, log)
	challengeSvc := service.NewChallengeService(db, &cfg.Drops, ledgerSvc, challengeRepo, notifSvc, log)
	workoutSvc := service.NewWorkoutService(db, &cfg.Drops, ledgerSvc, challengeSvc, sessionRepo, gymRepo, log)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	gymHandler := handler.NewGymHandler(gymRepo)
	dropsHandler := handler.NewDropsHandler(ledgerSvc)
	rewardHandler := handler.NewRewardHandler(rewardRepo)
	redemptionHandler := handler.NewRedemptionHandler(redemptionSvc, auditRepo)
	challengeHandler := handler.NewChallengeHandler(challengeSvc, challengeRepo)
	sessionHandler := handler.NewSessionHandler(workoutSvc)
	progressionHandler := handler.NewProgressionHandler()
	notificationHandler := handler.NewNotificationHandler(notificationRepo)

	authMw := middleware.AuthRequired(&cfg.JWT)
	sessionLimiter := middleware.NewSlidingWindowLimiter(12, time.Hour)

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
		}

		api.GET("/gyms", authMw, gymHandler.List)
		api.GET("/gyms/nearby", authMw, gymHandler.Nearby)
		api.GET("/gyms/:id", authMw, gymHandler.Get)
		api.GET("/gyms/:id/rewards", authMw, rewardHandler.ListForGym)
		api.GET("/gyms/:id/challenges", authMw, challengeHandler.ListForGym)

		me := api.Group("/me")
		me.Use(authMw)
		{
			me.GET("/drops", dropsHandler.GetBalance)
			me.GET("/drops/transactions", dropsHandler.GetTransactions)
			me.GET("/redemptions", redemptionHandler.ListMine)
			me.GET("/sessions", sessionHandler.ListMine)
			me.POST("/sessions", middleware.RateLimitByUser(sessionLimiter), sessionHandler.Complete)
			me.GET("/notifications", notificationHandler.List)
			me.PUT("/notifications/:id/read", notificationHandler.MarkRead)
		}

		api.POST("/redemptions", authMw, middleware.RequireRole(domain.RoleMember), redemptionHandler.Create)
		api.POST("/progression/next-target", authMw, progressionHandler.NextTarget)

		staff := api.Group("/staff")
		staff.Use(authMw, middleware.StaffRequired())
		{
			staff.GET("/redemptions", redemptionHandler.ListForGym)
			staff.GET("/redemptions/validate", redemptionHandler.Validate)
			staff.POST("/redemptions/:id/confirm", redemptionHandler.Confirm)
			staff.POST("/redemptions/:id/cancel", redemptionHandler.Cancel)
			staff.GET("/redemptions/:id/audit", redemptionHandler.AuditTrail)
			staff.POST("/rewards", rewardHandler.Create)
			staff.PATCH("/rewards/:id", rewardHandler.Update)
			staff.POST("/challenges", challengeHandler.Create)
			staff.PATCH("/challenges/:id", challengeHandler.Update)
		}

		admin := api.Group("/admin")
		admin.Use(authMw, middleware.AdminRequired())
		{
			admin.POST("/gyms", gymHandler.Create)
			admin.PATCH("/gyms/:id", gymHandler.Update)
		}
	}

	r.GET("/ws/redemptions", ws.UpgradeRedemptionFeed(&cfg.JWT, feedHub))

	return r
}
