package router

import (
	"time"

	"fieldforce/config"
	"fieldforce/internal/domain"
	"fieldforce/internal/handler"
	"fieldforce/internal/middleware"
	"fieldforce/internal/queue"
	"fieldforce/internal/repository"
	"fieldforce/internal/service"
	"fieldforce/internal/ws"
	"fieldforce/pkg/clock"
	"fieldforce/pkg/cloudinary"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Setup wires repositories, services, and handlers into the HTTP surface.
// It also returns the task service so main can run the status refresher.
func Setup(cfg *config.Config, db *gorm.DB, cloud cloudinary.Client, publisher queue.AlertPublisher) (*gin.Engine, *service.TaskService) {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(middleware.NewInMemoryRateLimiter(100, 60*time.Second)))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	locRepo := repository.NewLocationRepository(db)
	fenceRepo := repository.NewGeofenceRepository(db)
	eventRepo := repository.NewEventRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	meetingRepo := repository.NewMeetingRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	presenceRepo := repository.NewPresenceRepository(db)
	reportRepo := repository.NewReportRepository(db)

	trackHub := ws.NewTrackHub()
	meetingHub := ws.NewMeetingHub()

	// Services
	authSvc := service.NewAuthService(cfg, userRepo)
	fcmSvc := service.NewFCMService(cfg.Firebase.ServiceAccountPath)
	if fcmSvc != nil {
		logrus.Info("fcm: push notifications enabled")
	} else if cfg.Firebase.ServiceAccountPath != "" {
		logrus.Warn("fcm: disabled, failed to init (check service account file)")
	} else {
		logrus.Info("fcm: disabled, set FIREBASE_SERVICE_ACCOUNT_PATH to enable")
	}
	notifSvc := service.NewNotificationService(notificationRepo, userRepo, fcmSvc)
	trackingSvc := service.NewTrackingService(locRepo, fenceRepo, eventRepo, userRepo, notifSvc, publisher, trackHub)
	analyticsSvc := service.NewAnalyticsService(locRepo, eventRepo, cfg.Tracking.TraceMaxWindow)
	taskSvc := service.NewTaskService(taskRepo, userRepo, locRepo, fenceRepo, notifSvc, clock.System())
	reportSvc := service.NewReportService(reportRepo, taskRepo, userRepo, analyticsSvc, cloud, notifSvc)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc, presenceRepo, userRepo)
	googleOAuthHandler := handler.NewGoogleOAuthHandler(cfg, authSvc, presenceRepo)
	locationHandler := handler.NewLocationHandler(trackingSvc, analyticsSvc, locRepo)
	geofenceHandler := handler.NewGeofenceHandler(fenceRepo, eventRepo)
	taskHandler := handler.NewTaskHandler(taskSvc, taskRepo, cloud)
	meetingHandler := handler.NewMeetingHandler(meetingRepo, userRepo, notifSvc)
	notificationHandler := handler.NewNotificationHandler(notificationRepo)
	presenceHandler := handler.NewPresenceHandler(presenceRepo)
	reportHandler := handler.NewReportHandler(reportSvc)
	employeeHandler := handler.NewEmployeeHandler(userRepo, trackHub, cloud)

	authMw := middleware.AuthRequired(&cfg.JWT)
	supervisorMw := middleware.RequireRole(domain.RoleAdmin, domain.RoleSupervisor)
	adminMw := middleware.RequireRole(domain.RoleAdmin)

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/logout", authMw, authHandler.Logout)
			authGroup.PATCH("/change-password", authMw, authHandler.ChangePassword)
			authGroup.POST("/refresh", authHandler.Refresh)
			authGroup.GET("/google", googleOAuthHandler.Redirect)
			authGroup.GET("/google/callback", googleOAuthHandler.Callback)
			authGroup.POST("/google/token", googleOAuthHandler.Token)
		}

		me := api.Group("/me")
		me.Use(authMw)
		{
			me.GET("/profile", authHandler.Me)
			me.POST("/fcm-token", authHandler.UpdateFCMToken)
			me.POST("/avatar", employeeHandler.UploadAvatar)
			me.POST("/location", locationHandler.Ingest)
			me.GET("/location", locationHandler.Latest)
			me.GET("/trace", locationHandler.Trace)
			me.GET("/movement-stats", locationHandler.MovementStats)
			me.PATCH("/presence", presenceHandler.Update)
			me.GET("/notifications", notificationHandler.List)
			me.PUT("/notifications/:id/read", notificationHandler.MarkRead)
			me.GET("/reports", reportHandler.List)
		}

		tasks := api.Group("/tasks")
		tasks.Use(authMw)
		{
			tasks.POST("", supervisorMw, taskHandler.Create)
			tasks.GET("", supervisorMw, taskHandler.ListAll)
			tasks.GET("/mine", taskHandler.ListMine)
			tasks.GET("/:id", taskHandler.Get)
			tasks.DELETE("/:id", supervisorMw, taskHandler.Delete)
			tasks.POST("/:id/start", taskHandler.Start)
			tasks.POST("/:id/pause", taskHandler.Pause)
			tasks.POST("/:id/resume", taskHandler.Resume)
			tasks.POST("/:id/complete", taskHandler.Complete)
			tasks.POST("/:id/attachments", taskHandler.AddAttachment)
		}

		geofences := api.Group("/geofences")
		geofences.Use(authMw)
		{
			geofences.GET("", geofenceHandler.List)
			geofences.GET("/:id", geofenceHandler.Get)
			geofences.POST("", adminMw, geofenceHandler.Create)
			geofences.PUT("/:id", adminMw, geofenceHandler.Update)
			geofences.DELETE("/:id", adminMw, geofenceHandler.Delete)
			geofences.GET("/:id/events", supervisorMw, geofenceHandler.Events)
		}

		meetings := api.Group("/meetings")
		meetings.Use(authMw)
		{
			meetings.POST("", meetingHandler.Create)
			meetings.GET("", meetingHandler.ListMine)
			meetings.GET("/:id", meetingHandler.Get)
			meetings.GET("/code/:code", meetingHandler.GetByCode)
			meetings.POST("/:id/join", meetingHandler.Join)
			meetings.POST("/:id/leave", meetingHandler.Leave)
			meetings.POST("/:id/end", meetingHandler.End)
		}

		employees := api.Group("/employees")
		employees.Use(authMw, supervisorMw)
		{
			employees.GET("", employeeHandler.List)
			employees.GET("/markers", employeeHandler.Markers)
			employees.GET("/:id", employeeHandler.Get)
			employees.GET("/:id/location", locationHandler.LatestOf)
			employees.PATCH("/:id/supervisor", adminMw, employeeHandler.AssignSupervisor)
		}

		api.GET("/presence/online", authMw, supervisorMw, presenceHandler.ListOnline)
		api.POST("/reports", authMw, reportHandler.Generate)
	}

	r.GET("/ws/track", ws.UpgradeTrackWS(&cfg.JWT, trackHub))
	r.GET("/ws/meetings/:id", ws.UpgradeMeetingWS(&cfg.JWT, meetingHub, meetingHandler))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r, taskSvc
}
