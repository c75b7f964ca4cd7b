// Package server wires repositories, services and handlers into the HTTP
// router and runs it.
package server

import (
	"time"

	"clinic-admin-api/internal/cache"
	"clinic-admin-api/internal/config"
	"clinic-admin-api/internal/handler"
	"clinic-admin-api/internal/middleware"
	"clinic-admin-api/internal/repository"
	"clinic-admin-api/internal/service"
	"clinic-admin-api/internal/validation"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deps are the long-lived resources the router is built from
type Deps struct {
	Config   *config.Config
	DB       *gorm.DB
	Cache    cache.Cache
	Notifier service.Notifier
	Log      *zap.Logger
}

// NewRouter builds the gin engine with every route and middleware
func NewRouter(deps Deps) *gin.Engine {
	cfg := deps.Config

	// Initialize repositories
	patientRepo := repository.NewPatientRepo(deps.DB)
	branchRepo := repository.NewBranchRepo(deps.DB)
	appointmentRepo := repository.NewAppointmentRepo(deps.DB)
	userRepo := repository.NewUserRepo(deps.DB)
	userBranchRepo := repository.NewUserBranchRepo(deps.DB)
	auditRepo := repository.NewAuditRepo(deps.DB)

	// Initialize services
	validator := validation.New()
	listCache := cache.NewFenced(deps.Cache)
	guard := service.NewGuard(patientRepo, appointmentRepo)
	branchService := service.NewBranchService(branchRepo)
	patientService := service.NewPatientService(patientRepo, branchRepo, auditRepo, guard, listCache, cacheTTL(cfg), validator)
	appointmentService := service.NewAppointmentService(appointmentRepo, patientRepo, branchRepo, guard, listCache, deps.Notifier, validator)
	userService := service.NewUserService(userRepo, userBranchRepo, branchRepo, auditRepo, validator)

	// Register handlers
	healthHandler := handler.NewHealthHandler(deps.DB)
	branchHandler := handler.NewBranchHandler(branchService)
	patientHandler := handler.NewPatientHandler(patientService)
	appointmentHandler := handler.NewAppointmentHandler(appointmentService)
	userHandler := handler.NewUserHandler(userService)

	r := gin.New()
	r.Use(
		middleware.RequestID(deps.Log),
		middleware.AccessLog(),
		middleware.Metrics(),
		handler.Recovery(),
		middleware.CORS(cfg.CORS, cfg.Tenant.Header),
		handler.ErrorTranslator(),
	)

	r.GET("/health", healthHandler.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")
	api.Use(
		middleware.AuthMiddleware(userRepo, cfg.Tenant.Strategy),
		middleware.TenantMiddleware(cfg.Tenant),
	)
	{
		api.GET("/branches", middleware.RequireRoles(middleware.AnyRole...), branchHandler.ListBranches)

		patients := api.Group("/patients")
		{
			patients.GET("", middleware.RequireRoles(middleware.AnyRole...), patientHandler.ListPatients)
			patients.POST("", middleware.RequireRoles(middleware.WriterRoles...), patientHandler.CreatePatient)
			patients.DELETE("/:id", middleware.RequireRoles(middleware.WriterRoles...), patientHandler.DeletePatient)
		}

		api.POST("/appointments", middleware.RequireRoles(middleware.WriterRoles...), appointmentHandler.CreateAppointment)

		users := api.Group("/users")
		users.Use(middleware.RequireRoles(middleware.AdminOnlyRoles...))
		{
			users.GET("", userHandler.ListUsers)
			users.POST("", userHandler.CreateUser)
			users.PUT("/:id/role", userHandler.AssignRole)
			users.PUT("/:id/branches", userHandler.AssociateBranches)
		}
	}

	return r
}

func cacheTTL(cfg *config.Config) time.Duration {
	if cfg.Cache.TTL <= 0 {
		return 5 * time.Minute
	}
	return cfg.Cache.TTL
}
