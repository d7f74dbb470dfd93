package router

import (
	"time"

	"course-portal/internal/api/handlers"
	"course-portal/internal/api/middleware"
	"course-portal/internal/domain/user"
	serviceInterfaces "course-portal/internal/interfaces/service"
	"course-portal/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Dependencies are the services the HTTP layer is built from.
type Dependencies struct {
	Version             string
	UserService         user.UserService
	CatalogService      serviceInterfaces.CatalogService
	RegistrationService serviceInterfaces.RegistrationService
	Metrics             *service.MetricsService
	HealthChecks        map[string]handlers.HealthCheckFunc
	SimulatedLatency    time.Duration
}

// NewRouter builds the registration API. Everything under /api except
// POST /api/login requires a bearer token.
func NewRouter(deps *Dependencies) *gin.Engine {
	r := gin.New()

	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(cors.New(corsConfig()))
	r.Use(gin.Recovery())
	r.Use(middleware.Metrics(deps.Metrics))

	userHandler := handlers.NewUserHandler(deps.UserService)
	catalogHandler := handlers.NewCatalogHandler(deps.CatalogService)
	registrationHandler := handlers.NewRegistrationHandler(deps.RegistrationService)
	healthHandler := handlers.NewHealthHandler(deps.Version, deps.HealthChecks)

	r.GET("/health", healthHandler.HealthCheck)
	r.GET("/ready", healthHandler.ReadinessCheck)
	r.GET("/live", healthHandler.LivenessCheck)
	r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))

	api := r.Group("/api")
	api.Use(middleware.SimulatedLatency(deps.SimulatedLatency))
	api.POST("/login", userHandler.Login)

	secured := api.Group("")
	secured.Use(middleware.BearerAuth())
	{
		secured.GET("/current_term", catalogHandler.GetCurrentTerm)
		secured.GET("/terms/:id/courses", catalogHandler.GetTermCourses)

		students := secured.Group("/students/:id")
		{
			students.GET("", userHandler.GetProfile)
			students.GET("/registrations", registrationHandler.GetStudentRegistrations)
			students.POST("/courses/:courseId/register",
				middleware.IdempotencyMiddleware(),
				registrationHandler.Register,
			)
		}
	}

	return r
}

func corsConfig() cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowAllOrigins = true
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization", middleware.IdempotencyHeader, middleware.RequestIDHeader)
	cfg.ExposeHeaders = []string{middleware.RequestIDHeader}
	return cfg
}
