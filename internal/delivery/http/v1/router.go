package v1

import (
	"net/http"
	"time"

	"netch-backend/config"
	"netch-backend/internal/delivery/http/middleware"
	"netch-backend/internal/delivery/http/response"
	"netch-backend/internal/domain"
	"netch-backend/internal/usecase"
	"netch-backend/pkg/auth"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	OnboardingUC     domain.OnboardingUsecase
	WizardUC         domain.OnboardingWizardUsecase
	HealthUC         usecase.HealthUsecase
	OnboardingConfig domain.OnboardingConfig
	JWKSProvider     *auth.Provider
	Config           *config.Config
	UploadsDir       string // served under /uploads when resumes are stored locally
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	window := time.Duration(deps.Config.RateLimitWindowSeconds) * time.Second

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(deps.Config.FrontendURL)) // CORS must be first!
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.GlobalRateLimitMiddleware(deps.Config.RateLimitGlobalThreshold, window))

	if deps.UploadsDir != "" {
		r.Static("/uploads", deps.UploadsDir)
	}

	api := r.Group("/api")

	// Health Check
	api.GET("/health", func(c *gin.Context) {
		if deps.HealthUC == nil {
			response.Success(c, http.StatusOK, "System operational", nil)
			return
		}
		status, healthy := deps.HealthUC.Check(c.Request.Context())
		if !healthy {
			response.Error(c, http.StatusServiceUnavailable, "System degraded", status)
			return
		}
		response.Success(c, http.StatusOK, "System operational", status)
	})

	// Swagger
	api.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Protected routes
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(deps.JWKSProvider, deps.Config))
	protected.Use(middleware.RateLimitMiddleware(middleware.WizardRateLimitConfig(deps.Config.RateLimitGlobalThreshold, window)))
	{
		NewOnboardingHandler(protected, deps.OnboardingUC, deps.OnboardingConfig)
		NewOnboardingSessionHandler(protected, deps.WizardUC, deps.OnboardingConfig)
	}

	return r
}
