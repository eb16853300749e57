package router

import (
	"time"

	"stocktrail/internal/alert"
	"stocktrail/internal/config"
	"stocktrail/internal/handler"
	"stocktrail/internal/middleware"
	"stocktrail/internal/model"
	"stocktrail/internal/repository"
	"stocktrail/internal/service"
	"stocktrail/internal/store"
	"stocktrail/internal/syncer"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Deps are the long-lived components constructed and started in main —
// hydrated stores, the alert engine, and the sync machinery. The router only
// wires them to routes.
type Deps struct {
	Inventory *store.InventoryStore
	Activity  *store.ActivityStore
	Alerts    *alert.Engine
	Manager   *syncer.Manager
	Monitor   *syncer.Monitor
}

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service/Store ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, deps Deps) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Services ─────────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	authSvc := service.NewAuthService(userRepo, deps.Activity, cfg)
	reportSvc := service.NewReportService(deps.Inventory, deps.Activity, deps.Alerts)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usersH := handler.NewUsersHandler(authSvc)
	itemsH := handler.NewItemsHandler(deps.Inventory, deps.Alerts)
	alertsH := handler.NewAlertsHandler(deps.Alerts, deps.Inventory)
	activitiesH := handler.NewActivitiesHandler(deps.Activity, cfg.ActivityRetentionDays)
	syncH := handler.NewSyncHandler(deps.Manager, deps.Monitor, deps.Inventory)
	reportsH := handler.NewReportsHandler(reportSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, deps.Monitor))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	anyRole := middleware.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleEmployee)
	managerUp := middleware.RequireRole(model.RoleAdmin, model.RoleManager)
	adminOnly := middleware.RequireRole(model.RoleAdmin)

	v1 := r.Group("/v1", jwtMW)
	{
		v1.POST("/auth/logout", authH.Logout)

		// Inventory — every role can read and write stock; deleting is
		// restricted to manager and above
		items := v1.Group("/items")
		{
			items.GET("", anyRole, itemsH.List)
			items.GET("/unsynced", anyRole, itemsH.Unsynced)
			items.GET("/barcode/:barcode", anyRole, itemsH.GetByBarcode)
			items.GET("/:id", anyRole, itemsH.GetByID)
			items.POST("", anyRole, itemsH.Create)
			items.PUT("/:id", anyRole, itemsH.Update)
			items.PATCH("/:id/quantity", anyRole, itemsH.AdjustQuantity)
			items.DELETE("/:id", managerUp, itemsH.Delete)
		}

		alerts := v1.Group("/alerts")
		{
			alerts.GET("", anyRole, alertsH.List)
			alerts.POST("/check", anyRole, alertsH.Check)
			alerts.PATCH("/:id/acknowledge", managerUp, alertsH.Acknowledge)
			alerts.DELETE("/:id", managerUp, alertsH.Clear)
			alerts.GET("/notifications", managerUp, alertsH.NotificationStatus)
			alerts.POST("/notifications/enable", managerUp, alertsH.EnableNotifications)
			alerts.POST("/notifications/disable", managerUp, alertsH.DisableNotifications)
		}

		activities := v1.Group("/activities")
		{
			activities.GET("", anyRole, activitiesH.List)
			activities.GET("/today", anyRole, activitiesH.Today)
			activities.DELETE("/old", adminOnly, activitiesH.Prune)
		}

		sync := v1.Group("/sync")
		{
			sync.POST("", anyRole, syncH.Trigger)
			sync.GET("/status", anyRole, syncH.Status)
		}

		reports := v1.Group("/reports", managerUp)
		{
			reports.GET("/daily", reportsH.Daily)
			reports.GET("/daily/pdf", reportsH.DailyPDF)
		}

		users := v1.Group("/users")
		{
			users.GET("", managerUp, usersH.List)
			users.POST("", adminOnly, usersH.Create)
			users.PUT("/:id", adminOnly, usersH.Update)
			users.DELETE("/:id", adminOnly, usersH.Deactivate)
			users.PATCH("/:id/reactivate", adminOnly, usersH.Reactivate)
		}
	}

	return r
}
