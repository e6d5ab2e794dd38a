package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/vivek04-tech/edu-interact/api/swagger"
	"github.com/vivek04-tech/edu-interact/internal/handler"
	"github.com/vivek04-tech/edu-interact/internal/middleware"
	"github.com/vivek04-tech/edu-interact/internal/models"
	"github.com/vivek04-tech/edu-interact/internal/repository"
	"github.com/vivek04-tech/edu-interact/internal/service"
	"github.com/vivek04-tech/edu-interact/pkg/cache"
	"github.com/vivek04-tech/edu-interact/pkg/config"
	"github.com/vivek04-tech/edu-interact/pkg/database"
	"github.com/vivek04-tech/edu-interact/pkg/export"
	"github.com/vivek04-tech/edu-interact/pkg/logger"
	corsmiddleware "github.com/vivek04-tech/edu-interact/pkg/middleware/cors"
	reqidmiddleware "github.com/vivek04-tech/edu-interact/pkg/middleware/requestid"
)

// @title Edu-Interact API
// @version 1.0.0
// @description Two-university education platform: courses, trial enrollments and a careers board
// @BasePath /api/v1
// @schemes http https

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	cacheRepo := repository.NewCacheRepository(nil, logr)
	if cfg.Catalog.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			// the catalog works uncached; don't refuse to start
			logr.Sugar().Warnw("redis unavailable, catalog caching disabled", "error", err)
		} else {
			cacheRepo = repository.NewCacheRepository(redisClient, logr)
			defer cacheRepo.Close()
		}
	}

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	userRepo := repository.NewUserRepository(db, metricsSvc)
	courseRepo := repository.NewCourseRepository(db, metricsSvc)
	enrollmentRepo := repository.NewEnrollmentRepository(db, metricsSvc)
	companyRepo := repository.NewCompanyRepository(db, metricsSvc)
	opportunityRepo := repository.NewOpportunityRepository(db, metricsSvc)

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		TokenSecret: cfg.JWT.Secret,
		TokenExpiry: cfg.JWT.Expiration,
		Issuer:      cfg.JWT.Issuer,
	})
	courseSvc := service.NewCourseService(courseRepo, cacheRepo, cfg.Catalog.CacheTTL, validate, logr, metricsSvc)
	enrollmentSvc := service.NewEnrollmentService(enrollmentRepo, courseRepo, validate, logr)
	companySvc := service.NewCompanyService(companyRepo, validate, logr)
	opportunitySvc := service.NewOpportunityService(opportunityRepo, companyRepo, cacheRepo, cfg.Catalog.CacheTTL, validate, logr, metricsSvc)
	userSvc := service.NewUserService(userRepo, logr)
	reportSvc := service.NewReportService(enrollmentSvc, export.NewCSVExporter(), export.NewPDFExporter(), logr)

	authHandler := handler.NewAuthHandler(authSvc, cfg.Cookie)
	courseHandler := handler.NewCourseHandler(courseSvc)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentSvc)
	companyHandler := handler.NewCompanyHandler(companySvc)
	opportunityHandler := handler.NewOpportunityHandler(opportunitySvc)
	userHandler := handler.NewUserHandler(userSvc, courseSvc)
	reportHandler := handler.NewReportHandler(reportSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	requireAuth := middleware.Auth(authSvc, cfg.Cookie.Name)
	optionalAuth := middleware.OptionalAuth(authSvc, cfg.Cookie.Name)

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/signup", authHandler.Signup)
		auth.POST("/login", authHandler.Login)
		auth.POST("/logout", requireAuth, authHandler.Logout)
		auth.GET("/me", requireAuth, authHandler.Me)
	}

	api.GET("/courses", optionalAuth, courseHandler.List)
	api.GET("/opportunities", optionalAuth, opportunityHandler.List)
	api.GET("/companies", companyHandler.List)

	teacher := api.Group("/teacher", requireAuth, middleware.RequireRoles(models.RoleTeacher))
	{
		teacher.GET("/courses", courseHandler.Mine)
		teacher.POST("/courses", courseHandler.Create)
	}

	student := api.Group("/enrollments", requireAuth, middleware.RequireRoles(models.RoleStudent))
	{
		student.POST("", enrollmentHandler.Enroll)
		student.GET("", enrollmentHandler.Mine)
		student.PATCH("/:id/progress", enrollmentHandler.UpdateProgress)
		student.POST("/:id/pay", enrollmentHandler.MarkPaid)
	}

	admin := api.Group("/admin", requireAuth, middleware.RequireRoles(models.RoleAdmin))
	{
		admin.GET("/users", userHandler.List)
		admin.GET("/courses", courseHandler.AdminList)
		admin.GET("/courses/:id/enrollments", enrollmentHandler.Roster)
		admin.PUT("/approve", userHandler.Approve)
		admin.POST("/companies", companyHandler.Create)
		admin.GET("/opportunities", opportunityHandler.AdminList)
		admin.POST("/opportunities", opportunityHandler.Create)
		admin.PUT("/opportunities/:id/status", opportunityHandler.SetStatus)
		admin.GET("/reports/enrollments", reportHandler.Enrollments)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
